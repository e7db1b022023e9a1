package infra

// pdf.go renders the end-of-session day summary with go-pdf/fpdf:
//   - business header and session window
//   - cash/online totals and the closing vs expected balance
//   - item and category tables
//   - expenses

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"wfgpos/internal/reconcile"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// RenderDaySummaryPDF writes the A4 day-summary report for s to w.
func RenderDaySummaryPDF(w io.Writer, s reconcile.DaySummary) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// ── Header ───────────────────────────────────────────────────────────────
	title := s.BusinessName
	if title == "" {
		title = "Day Summary"
	}
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 9, tr(title), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, "Register day summary", "", 1, "C", false, 0, "")
	pdf.Ln(3)

	pdf.SetFont("Helvetica", "", 9)
	kv := func(label, value string) {
		pdf.CellFormat(contentW*0.35, 5, label, "", 0, "L", false, 0, "")
		pdf.CellFormat(contentW*0.65, 5, tr(value), "", 1, "L", false, 0, "")
	}
	kv("Session", s.SessionKey)
	kv("Manager", s.Manager)
	kv("Opened", s.OpenedAt.Format("02 Jan 2006 15:04"))
	if s.ClosedAt != nil {
		kv("Closed", s.ClosedAt.Format("02 Jan 2006 15:04"))
	}
	pdf.Ln(2)
	pdf.Line(15, pdf.GetY(), pageW-15, pdf.GetY())
	pdf.Ln(3)

	// ── Totals ───────────────────────────────────────────────────────────────
	money := func(label string, v decimal.Decimal, bold bool) {
		style := ""
		if bold {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, 10)
		pdf.CellFormat(contentW*0.7, 6, label, "", 0, "L", false, 0, "")
		pdf.CellFormat(contentW*0.3, 6, v.StringFixed(2), "", 1, "R", false, 0, "")
	}
	money("Start cash", s.StartCash, false)
	money(fmt.Sprintf("Total sales (%d orders)", s.OrderCount), s.TotalSales, true)
	if !s.TotalDiscount.IsZero() {
		money("Discounts given", s.TotalDiscount, false)
	}
	money("Cash received", s.CashRecvd, false)
	money("Cash expected", s.ExpectedCash, false)
	money("Online received", s.OnlineRecvd, false)
	money("Online expected", s.ExpectedOnline, false)
	money("Outstanding", s.TotalOutstanding, false)
	money("Expenses", s.TotalExpenses, false)
	money("Expected balance", s.ExpectedBalance, true)
	if s.ClosingBalance != nil {
		money("Closing balance", *s.ClosingBalance, true)
		money("Difference", s.ClosingBalance.Sub(s.ExpectedBalance), false)
	}
	pdf.Ln(4)

	// ── Items ────────────────────────────────────────────────────────────────
	table := func(heading string, cols []string, widths []float64, rows [][]string) {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(contentW, 7, heading, "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 9)
		for i, c := range cols {
			align := "L"
			if i > 0 {
				align = "R"
			}
			pdf.CellFormat(contentW*widths[i], 6, c, "B", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 9)
		for _, r := range rows {
			for i, v := range r {
				align := "L"
				if i > 0 {
					align = "R"
				}
				pdf.CellFormat(contentW*widths[i], 5, tr(v), "", 0, align, false, 0, "")
			}
			pdf.Ln(-1)
		}
		pdf.Ln(3)
	}

	itemRows := make([][]string, 0, len(s.Items))
	for _, it := range s.Items {
		itemRows = append(itemRows, []string{it.OptionName, fmt.Sprintf("%d", it.Quantity), it.Revenue.StringFixed(2)})
	}
	table("Items", []string{"Item", "Qty", "Revenue"}, []float64{0.6, 0.15, 0.25}, itemRows)

	catRows := make([][]string, 0, len(s.Categories))
	for _, c := range s.Categories {
		catRows = append(catRows, []string{c.CategoryID, fmt.Sprintf("%d", c.Quantity), c.Revenue.StringFixed(2)})
	}
	table("Categories", []string{"Category", "Qty", "Revenue"}, []float64{0.6, 0.15, 0.25}, catRows)

	if len(s.Expenses) > 0 {
		expRows := make([][]string, 0, len(s.Expenses))
		for _, e := range s.Expenses {
			expRows = append(expRows, []string{e.Name, e.Amount.StringFixed(2)})
		}
		table("Expenses", []string{"Expense", "Amount"}, []float64{0.75, 0.25}, expRows)
	}

	pdf.SetFont("Helvetica", "I", 8)
	pdf.CellFormat(contentW, 5, "Generated "+time.Now().UTC().Format(time.RFC1123), "", 1, "R", false, 0, "")

	return pdf.Output(w)
}

// GenerateDaySummaryPDF writes the day summary to
// storagePath/day_summary_{session}.pdf and returns the file path.
func GenerateDaySummaryPDF(s reconcile.DaySummary, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	filePath := filepath.Join(storagePath, fmt.Sprintf("day_summary_%s.pdf", s.SessionKey))
	f, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("pdf: create file: %w", err)
	}
	if err := RenderDaySummaryPDF(f, s); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("pdf: render: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return filePath, nil
}
