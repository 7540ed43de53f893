package handler

import (
	"fmt"
	"strings"

	"mealkiosk/internal/domain"

	tele "gopkg.in/telebot.v3"
)

// Callback button identifiers
const (
	uniqueOrder          = "order"
	uniqueNoOrder        = "no_order"
	uniqueVegetarian     = "veg"
	uniqueSetAsDefault   = "default"
	uniqueSelectAgain    = "select_again"
	uniqueChangeEmployee = "change_id"
)

var (
	btnOrder          = tele.Btn{Unique: uniqueOrder}
	btnNoOrder        = tele.Btn{Unique: uniqueNoOrder}
	btnVegetarian     = tele.Btn{Unique: uniqueVegetarian}
	btnSetAsDefault   = tele.Btn{Unique: uniqueSetAsDefault}
	btnSelectAgain    = tele.Btn{Unique: uniqueSelectAgain}
	btnChangeEmployee = tele.Btn{Unique: uniqueChangeEmployee}
)

var noticeMessages = map[domain.Notice]msgKey{
	domain.NoticeInvalidPIN:       msgInvalidPIN,
	domain.NoticeInvalidFormat:    msgInvalidFormat,
	domain.NoticeEmployeeNotFound: msgEmployeeNotFound,
	domain.NoticeSubmitFailed:     msgSubmitFailed,
}

var labelMessages = map[domain.WindowLabel]msgKey{
	domain.LabelToday:      msgOrderToday,
	domain.LabelTomorrow:   msgOrderTomorrow,
	domain.LabelNextMonday: msgOrderNextMonday,
}

// render builds the screen for a session snapshot
func render(s domain.Session) (string, *tele.ReplyMarkup) {
	loc := s.Locale
	var b strings.Builder
	markup := &tele.ReplyMarkup{}

	switch s.State {
	case domain.StateAuthGate:
		b.WriteString("🔒 " + tr(loc, msgEnterPIN))

	case domain.StateIdentifyEmployee:
		b.WriteString("🪪 " + tr(loc, msgEnterEmployeeID))
		if s.Input != "" {
			fmt.Fprintf(&b, "\n\n%s", s.Input)
		}

	case domain.StateOutOfWindow:
		writeHeader(&b, s)
		fmt.Fprintf(&b, "\n\n⏰ %s\n%s\n\n%s", tr(loc, msgOutOfWindow), tr(loc, msgWindowHours), tr(loc, msgContactAdmin))
		markup.Inline(markup.Row(markup.Data(tr(loc, msgChangeEmployee), uniqueChangeEmployee)))

	case domain.StateChoosingOrder:
		writeHeader(&b, s)
		rows := []tele.Row{
			markup.Row(markup.Data(checkbox(s.Draft.Vegetarian)+" "+tr(loc, msgVegetarian), uniqueVegetarian)),
			markup.Row(markup.Data(checkbox(s.Draft.SetAsDefault)+" "+tr(loc, msgSetAsDefault), uniqueSetAsDefault)),
		}
		// no choice buttons while a submission is in flight
		if s.Submitting {
			fmt.Fprintf(&b, "\n\n⏳ %s", tr(loc, msgSubmitting))
		} else {
			rows = append(rows, markup.Row(
				markup.Data("✅ "+tr(loc, msgWantOrder), uniqueOrder),
				markup.Data("❌ "+tr(loc, msgNoOrder), uniqueNoOrder),
			))
		}
		rows = append(rows, markup.Row(markup.Data(tr(loc, msgChangeEmployee), uniqueChangeEmployee)))
		markup.Inline(rows...)

	case domain.StateAlreadySubmitted, domain.StateSubmitted:
		writeHeader(&b, s)
		title := tr(loc, msgAlreadySubmitted)
		if s.State == domain.StateSubmitted {
			title = tr(loc, msgOrderComplete)
		}
		fmt.Fprintf(&b, "\n\n✔️ %s\n%s%s", title, tr(loc, msgYourChoice), choiceText(loc, s.Choice))
		markup.Inline(
			markup.Row(markup.Data(tr(loc, msgSelectAgain), uniqueSelectAgain)),
			markup.Row(markup.Data(tr(loc, msgChangeEmployee), uniqueChangeEmployee)),
		)

	default:
		b.WriteString(tr(loc, msgLoading))
	}

	if key, ok := noticeMessages[s.Notice]; ok {
		fmt.Fprintf(&b, "\n\n⚠️ %s", tr(loc, key))
	}

	return b.String(), markup
}

// writeHeader shows the employee and, when the window is open, the target date
func writeHeader(b *strings.Builder, s domain.Session) {
	fmt.Fprintf(b, "%s: %s", tr(s.Locale, msgEmployeeID), s.EmployeeID)
	if key, ok := labelMessages[s.Window.Label]; ok && s.Window.Open {
		fmt.Fprintf(b, "\n🍱 %s (%s)", tr(s.Locale, key), s.Window.TargetDate.DisplayString())
	}
}

func choiceText(locale string, c domain.Choice) string {
	if c == domain.ChoiceOrder {
		return tr(locale, msgWantOrder)
	}
	return tr(locale, msgNoOrder)
}

func checkbox(on bool) string {
	if on {
		return "☑️"
	}
	return "⬜"
}
