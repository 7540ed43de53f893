package service

import (
	"context"
	"time"
)

// poller runs tick on a fixed interval until stopped
type poller struct {
	cancel context.CancelFunc
	done   chan struct{}
}

func startPoller(interval time.Duration, tick func()) *poller {
	ctx, cancel := context.WithCancel(context.Background())
	p := &poller{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(p.done)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				tick()
			}
		}
	}()

	return p
}

// stop cancels the poller and waits for its goroutine to exit.
// Must not be called while holding a lock that tick acquires.
func (p *poller) stop() {
	p.cancel()
	<-p.done
}
