package report

import (
	"fmt"
	"io"

	"mealkiosk/internal/domain"

	"github.com/xuri/excelize/v2"
)

const (
	ordersSheet  = "Orders"
	summarySheet = "Summary"
)

var headers = []string{"Employee ID", "Order", "Vegetarian", "Set as default", "Recorded at"}

// Summary counts the decisions recorded for one target date
type Summary struct {
	Date       domain.Date
	Orders     int
	Vegetarian int
	NoOrders   int
}

// Total returns the number of employees who answered
func (s Summary) Total() int {
	return s.Orders + s.NoOrders
}

// Summarize counts submissions by choice
func Summarize(date domain.Date, subs []domain.Submission) Summary {
	sum := Summary{Date: date}
	for _, sub := range subs {
		switch sub.Choice {
		case domain.ChoiceOrder:
			sum.Orders++
			if sub.Vegetarian {
				sum.Vegetarian++
			}
		case domain.ChoiceNoOrder:
			sum.NoOrders++
		}
	}
	return sum
}

// Build creates the daily headcount workbook: one row per submission plus a summary sheet.
// The caller must Close the returned file.
func Build(date domain.Date, subs []domain.Submission) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), ordersSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(ordersSheet, cell, h); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set header: %w", err)
		}
	}

	for i, sub := range subs {
		row := []interface{}{
			sub.EmployeeID,
			yesNo(sub.Choice == domain.ChoiceOrder),
			yesNo(sub.Vegetarian),
			yesNo(sub.SetAsDefault),
			sub.CreatedAt.Format("2006-01-02 15:04"),
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(ordersSheet, cell, &row); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create summary sheet: %w", err)
	}

	sum := Summarize(date, subs)
	summary := [][]interface{}{
		{"Date", date.String()},
		{"Orders", sum.Orders},
		{"Vegetarian", sum.Vegetarian},
		{"No order", sum.NoOrders},
		{"Total", sum.Total()},
	}
	for i, row := range summary {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to write summary: %w", err)
		}
	}

	return f, nil
}

// Write builds the workbook for date and writes it to w
func Write(w io.Writer, date domain.Date, subs []domain.Submission) error {
	f, err := Build(date, subs)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// FileName returns the attachment name for a date's report
func FileName(date domain.Date) string {
	return fmt.Sprintf("meals-%s.xlsx", date)
}

func yesNo(b bool) string {
	if b {
		return "Y"
	}
	return "N"
}
