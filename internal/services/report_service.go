package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"backend/internal/domain"
	"backend/internal/domain/models"
	"backend/internal/utils"

	"github.com/phpdave11/gofpdf"
)

const reportRowLimit = 40

// salesReportData is everything the PDF needs, loaded in one pass against a
// single compiled predicate.
type salesReportData struct {
	GeneratedAt time.Time
	TotalItems  int
	Stats       models.TransactionStats
	Rows        []models.Transaction
}

// ReportService renders a filtered sales summary as PDF. Loader can be
// replaced in tests.
type ReportService struct {
	Transactions TransactionService
	Loader       func(ctx context.Context, q CompiledQuery) (salesReportData, error)
}

// GenerateSalesReport compiles the same filter vocabulary as the list endpoint
// and renders the aggregate summary plus the first rows of the matching set.
func (s ReportService) GenerateSalesReport(ctx context.Context, raw RawTransactionQuery) ([]byte, string, error) {
	q := CompileQuery(raw)

	loader := s.Loader
	if loader == nil {
		loader = s.loadFromStore
	}

	data, err := loader(ctx, q)
	if err != nil {
		utils.LogEvent(s.Transactions.RequestID, "transactions", "report", "load failed: "+err.Error())
		return nil, "", domain.InternalError{Msg: "failed to load report data", Err: err}
	}

	return buildSalesReportPDF(data)
}

func (s ReportService) loadFromStore(ctx context.Context, q CompiledQuery) (salesReportData, error) {
	svc := s.Transactions

	ctx, cancel := context.WithTimeout(ctx, svc.timeout())
	defer cancel()

	rows, err := svc.Repo.List(ctx, q.Filter, q.Sort, reportRowLimit, 0)
	if err != nil {
		return salesReportData{}, err
	}
	total, err := svc.Repo.Count(ctx, q.Filter)
	if err != nil {
		return salesReportData{}, err
	}
	stats, err := svc.Repo.Stats(ctx, q.Filter)
	if err != nil {
		return salesReportData{}, err
	}

	return salesReportData{
		GeneratedAt: time.Now(),
		TotalItems:  total,
		Stats:       stats,
		Rows:        rows,
	}, nil
}

func buildSalesReportPDF(d salesReportData) ([]byte, string, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle("Sales Report", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "SALES REPORT")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, "Generated : "+utils.FormatDateTime(d.GeneratedAt))
	pdf.Ln(6)
	pdf.Cell(0, 6, "Matching records : "+utils.FormatCount(int64(d.TotalItems)))
	pdf.Ln(6)
	pdf.Cell(0, 6, "Total units sold : "+utils.FormatCount(d.Stats.TotalUnits))
	pdf.Ln(6)
	pdf.Cell(0, 6, "Total amount : "+utils.FormatMoney(d.Stats.TotalAmount))
	pdf.Ln(6)
	pdf.Cell(0, 6, "Total discount : "+utils.FormatMoney(d.Stats.TotalDiscount))
	pdf.Ln(10)

	headers := []string{"Date", "Customer", "Region", "Product", "Category", "Qty", "Amount", "Discount"}
	widths := []float64{24, 50, 30, 55, 35, 14, 30, 30}

	pdf.SetFont("Helvetica", "B", 10)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, row := range d.Rows {
		amount := 0.0
		if row.TotalAmount != nil {
			amount = *row.TotalAmount
		}
		cells := []string{
			utils.FormatDate(row.Date),
			row.CustomerName,
			row.CustomerRegion,
			row.ProductName,
			row.ProductCategory,
			utils.FormatCount(int64(row.Quantity)),
			utils.FormatMoney(amount),
			utils.FormatMoney(row.Discount()),
		}
		for i, cell := range cells {
			pdf.CellFormat(widths[i], 6, cell, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if len(d.Rows) < d.TotalItems {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "I", 9)
		pdf.Cell(0, 5, fmt.Sprintf("Showing first %d of %d matching records.", len(d.Rows), d.TotalItems))
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("SALES_REPORT_%s.pdf", d.GeneratedAt.Format("20060102_150405"))
	return buf.Bytes(), filename, nil
}
