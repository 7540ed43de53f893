package handler

import (
	"bytes"
	"fmt"
	"strings"

	"mealkiosk/internal/domain"
	"mealkiosk/internal/report"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// handleReport sends the headcount workbook for a date: /report [YYYY-MM-DD].
// Without an argument the date of the current ordering window is used, or today when closed.
func (h *Handler) handleReport(c tele.Context) error {
	id := deviceID(c)

	snap, ok := h.workflow.Snapshot(id)
	locale := snap.Locale
	if !ok || snap.State == domain.StateLoading || snap.State == domain.StateAuthGate {
		return c.Send(tr(locale, msgReportDenied))
	}

	date, err := h.reportDate(c.Message().Payload)
	if err != nil {
		return c.Send(tr(locale, msgBadDate))
	}

	subs, err := h.ledger.ForDate(date)
	if err != nil {
		h.logger.Error("Failed to load submissions for report", zap.String("date", date.String()), zap.Error(err))
		return c.Send(tr(locale, msgSystemError))
	}
	if len(subs) == 0 {
		return c.Send(fmt.Sprintf("%s (%s)", tr(locale, msgReportEmpty), date))
	}

	var buf bytes.Buffer
	if err := report.Write(&buf, date, subs); err != nil {
		h.logger.Error("Failed to build report", zap.String("date", date.String()), zap.Error(err))
		return c.Send(tr(locale, msgSystemError))
	}

	sum := report.Summarize(date, subs)
	h.logger.Info("Report sent",
		zap.Int64("device_id", id),
		zap.String("date", date.String()),
		zap.Int("orders", sum.Orders),
		zap.Int("total", sum.Total()),
	)

	return c.Send(&tele.Document{
		File:     tele.FromReader(&buf),
		FileName: report.FileName(date),
		Caption:  fmt.Sprintf("%s %s: %d/%d", tr(locale, msgReportCaption), date, sum.Orders, sum.Total()),
	})
}

func (h *Handler) reportDate(payload string) (domain.Date, error) {
	payload = strings.TrimSpace(payload)
	if payload != "" {
		return domain.ParseDate(payload)
	}
	if w := h.window.Current(); w.Open {
		return w.TargetDate, nil
	}
	return domain.DateOf(h.window.Now()), nil
}
