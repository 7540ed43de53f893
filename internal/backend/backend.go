package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"mealkiosk/internal/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Outcome is the backend's answer to a request that reached it
type Outcome string

const (
	Acknowledged Outcome = "acknowledged"
	Rejected     Outcome = "rejected"
	Unknown      Outcome = "unknown"
)

// OrderBackend is the remote order-intake service
type OrderBackend interface {
	CheckEmployee(ctx context.Context, employeeID string) (Outcome, error)
	SubmitOrder(ctx context.Context, req OrderRequest) (Outcome, error)
}

// OrderRequest is the submission payload
type OrderRequest struct {
	EmployeeID  string `json:"employeeId"`
	Order       bool   `json:"order"`
	IsVeg       bool   `json:"isVeg"`
	UpdateHabit bool   `json:"updateHabit"`
	Date        string `json:"date"`
}

type checkEmployeeRequest struct {
	Action     string `json:"action"`
	EmployeeID string `json:"employeeId"`
}

// NewOrderRequest builds the payload for a ledger entry
func NewOrderRequest(sub domain.Submission) OrderRequest {
	return OrderRequest{
		EmployeeID:  sub.EmployeeID,
		Order:       sub.Choice == domain.ChoiceOrder,
		IsVeg:       sub.Vegetarian && sub.Choice == domain.ChoiceOrder,
		UpdateHabit: sub.SetAsDefault,
		Date:        sub.TargetDate.DisplayString(),
	}
}

// HTTPBackend posts JSON to a single endpoint
type HTTPBackend struct {
	url    string
	client *http.Client
	logger *zap.Logger
}

// NewHTTPBackend creates a backend client with a per-request timeout
func NewHTTPBackend(url string, timeout time.Duration, logger *zap.Logger) *HTTPBackend {
	return &HTTPBackend{
		url:    url,
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// CheckEmployee asks the backend whether the employee exists
func (b *HTTPBackend) CheckEmployee(ctx context.Context, employeeID string) (Outcome, error) {
	return b.post(ctx, checkEmployeeRequest{Action: "checkEmployee", EmployeeID: employeeID})
}

// SubmitOrder sends an order decision
func (b *HTTPBackend) SubmitOrder(ctx context.Context, req OrderRequest) (Outcome, error) {
	if req.EmployeeID == "" || req.Date == "" {
		return "", fmt.Errorf("malformed order request: employee id and date are required")
	}
	return b.post(ctx, req)
}

func (b *HTTPBackend) post(ctx context.Context, payload any) (Outcome, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	resp, err := b.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrTransportFailure, err)
	}
	defer resp.Body.Close()
	// drain so the keep-alive connection goes back to the pool
	_, _ = io.Copy(io.Discard, resp.Body)

	outcome := outcomeFor(resp.StatusCode)
	b.logger.Debug("Backend responded",
		zap.String("request_id", requestID),
		zap.Int("status", resp.StatusCode),
		zap.String("outcome", string(outcome)),
	)

	return outcome, nil
}

// outcomeFor maps a status code; anything but a clear 2xx/4xx is unknown
func outcomeFor(status int) Outcome {
	switch {
	case status >= 200 && status < 300:
		return Acknowledged
	case status >= 400 && status < 500:
		return Rejected
	default:
		return Unknown
	}
}
