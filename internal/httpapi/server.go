package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"mealkiosk/internal/domain"
	"mealkiosk/internal/report"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Ledger is the read side of the submission ledger used by the API
type Ledger interface {
	Ping() error
	ForDate(date domain.Date) ([]domain.Submission, error)
}

// WindowSource evaluates the ordering window at the kiosk clock
type WindowSource interface {
	Now() time.Time
	Current() domain.Window
}

// SessionCounter reports live kiosk sessions
type SessionCounter interface {
	ActiveSessions() int
}

// Handler serves the kiosk status API
type Handler struct {
	ledger   Ledger
	window   WindowSource
	sessions SessionCounter
	logger   *zap.Logger
}

// NewHandler creates a new status API handler
func NewHandler(ledger Ledger, window WindowSource, sessions SessionCounter, logger *zap.Logger) *Handler {
	return &Handler{
		ledger:   ledger,
		window:   window,
		sessions: sessions,
		logger:   logger,
	}
}

// NewRouter returns a chi router with every route registered
func NewRouter(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(h.logger))

	r.Get("/healthz", h.handleHealth)
	r.Get("/window", h.handleWindow)
	r.Route("/reports/{date}", func(r chi.Router) {
		r.Get("/", h.handleReport)
		r.Get("/summary", h.handleSummary)
	})

	return r
}

type healthResponse struct {
	Status         string `json:"status"`
	Error          string `json:"error,omitempty"`
	ActiveSessions int    `json:"active_sessions"`
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok", ActiveSessions: h.sessions.ActiveSessions()}

	if err := h.ledger.Ping(); err != nil {
		h.logger.Warn("Health check failed", zap.Error(err))
		resp.Status = "unavailable"
		resp.Error = err.Error()
		writeJSON(w, http.StatusServiceUnavailable, resp)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

type windowResponse struct {
	Open       bool   `json:"open"`
	TargetDate string `json:"target_date,omitempty"`
	Label      string `json:"label,omitempty"`
	Now        string `json:"now"`
}

func (h *Handler) handleWindow(w http.ResponseWriter, r *http.Request) {
	now := h.window.Now()
	win := h.window.Current()

	resp := windowResponse{
		Open:  win.Open,
		Label: string(win.Label),
		Now:   now.Format(time.RFC3339),
	}
	if !win.TargetDate.IsZero() {
		resp.TargetDate = win.TargetDate.String()
	}

	writeJSON(w, http.StatusOK, resp)
}

type summaryResponse struct {
	Date       string `json:"date"`
	Orders     int    `json:"orders"`
	Vegetarian int    `json:"vegetarian"`
	NoOrders   int    `json:"no_orders"`
	Total      int    `json:"total"`
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	date, subs, ok := h.loadDate(w, r)
	if !ok {
		return
	}

	sum := report.Summarize(date, subs)
	writeJSON(w, http.StatusOK, summaryResponse{
		Date:       date.String(),
		Orders:     sum.Orders,
		Vegetarian: sum.Vegetarian,
		NoOrders:   sum.NoOrders,
		Total:      sum.Total(),
	})
}

func (h *Handler) handleReport(w http.ResponseWriter, r *http.Request) {
	date, subs, ok := h.loadDate(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+report.FileName(date)+`"`)
	if err := report.Write(w, date, subs); err != nil {
		h.logger.Error("Failed to write report", zap.String("date", date.String()), zap.Error(err))
	}
}

// loadDate parses the {date} parameter ("today" uses the kiosk clock) and reads its submissions
func (h *Handler) loadDate(w http.ResponseWriter, r *http.Request) (domain.Date, []domain.Submission, bool) {
	param := chi.URLParam(r, "date")

	var date domain.Date
	if param == "today" {
		date = domain.DateOf(h.window.Now())
	} else {
		var err error
		if date, err = domain.ParseDate(param); err != nil {
			writeError(w, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
			return domain.Date{}, nil, false
		}
	}

	subs, err := h.ledger.ForDate(date)
	if err != nil {
		h.logger.Error("Failed to read ledger", zap.String("date", date.String()), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to read ledger")
		return domain.Date{}, nil, false
	}
	return date, subs, true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
