package backend

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"mealkiosk/internal/domain"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestNewOrderRequest(t *testing.T) {
	target := domain.Date{Year: 2024, Month: time.March, Day: 11}

	tests := []struct {
		name     string
		sub      domain.Submission
		expected OrderRequest
	}{
		{
			name: "vegetarian order",
			sub:  domain.NewSubmission("C7", target, domain.ChoiceOrder, domain.Draft{Vegetarian: true, SetAsDefault: true}),
			expected: OrderRequest{
				EmployeeID: "C7", Order: true, IsVeg: true, UpdateHabit: true, Date: "2024/3/11",
			},
		},
		{
			name: "no order drops vegetarian flag",
			sub:  domain.Submission{EmployeeID: "A5", TargetDate: target, Choice: domain.ChoiceNoOrder, Vegetarian: true},
			expected: OrderRequest{
				EmployeeID: "A5", Order: false, IsVeg: false, UpdateHabit: false, Date: "2024/3/11",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NewOrderRequest(tt.sub))
		})
	}
}

func TestHTTPBackend_SubmitOrder(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		expected Outcome
	}{
		{name: "accepted", status: http.StatusOK, expected: Acknowledged},
		{name: "no content", status: http.StatusNoContent, expected: Acknowledged},
		{name: "rejected", status: http.StatusUnprocessableEntity, expected: Rejected},
		{name: "server error", status: http.StatusBadGateway, expected: Unknown},
		{name: "redirect", status: http.StatusNotModified, expected: Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got OrderRequest
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
				assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
				assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			b := NewHTTPBackend(srv.URL, time.Second, zap.NewNop())
			req := OrderRequest{EmployeeID: "C7", Order: true, IsVeg: true, Date: "2024/3/4"}

			outcome, err := b.SubmitOrder(context.Background(), req)

			assert.NoError(t, err)
			assert.Equal(t, tt.expected, outcome)
			assert.Equal(t, req, got)
		})
	}
}

func TestHTTPBackend_SubmitOrder_Malformed(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	b := NewHTTPBackend(srv.URL, time.Second, zap.NewNop())

	_, err := b.SubmitOrder(context.Background(), OrderRequest{Order: true})

	assert.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrTransportFailure)
	assert.False(t, called)
}

func TestHTTPBackend_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	b := NewHTTPBackend(url, time.Second, zap.NewNop())

	_, err := b.SubmitOrder(context.Background(), OrderRequest{EmployeeID: "C7", Date: "2024/3/4"})
	assert.ErrorIs(t, err, domain.ErrTransportFailure)

	_, err = b.CheckEmployee(context.Background(), "C7")
	assert.ErrorIs(t, err, domain.ErrTransportFailure)
}

func TestHTTPBackend_CheckEmployee(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		if got["employeeId"] == "C7" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	b := NewHTTPBackend(srv.URL, time.Second, zap.NewNop())

	outcome, err := b.CheckEmployee(context.Background(), "C7")
	assert.NoError(t, err)
	assert.Equal(t, Acknowledged, outcome)
	assert.Equal(t, "checkEmployee", got["action"])

	outcome, err = b.CheckEmployee(context.Background(), "A5")
	assert.NoError(t, err)
	assert.Equal(t, Rejected, outcome)
}

func TestHTTPBackend_ContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	b := NewHTTPBackend(srv.URL, time.Second, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := b.CheckEmployee(ctx, "C7")
	assert.ErrorIs(t, err, domain.ErrTransportFailure)
}

func TestHTTPBackend_ReusesConnection(t *testing.T) {
	var conns atomic.Int32
	srv := httptest.NewUnstartedServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(strings.Repeat(`{"result":"ok"}`, 256)))
	}))
	srv.Config.ConnState = func(_ net.Conn, state http.ConnState) {
		if state == http.StateNew {
			conns.Add(1)
		}
	}
	srv.Start()
	defer srv.Close()

	b := NewHTTPBackend(srv.URL, time.Second, zap.NewNop())

	for i := 0; i < 3; i++ {
		outcome, err := b.CheckEmployee(context.Background(), "C7")
		assert.NoError(t, err)
		assert.Equal(t, Acknowledged, outcome)
	}

	assert.Equal(t, int32(1), conns.Load())
}
