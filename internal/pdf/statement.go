package pdf

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
)

// StatementLine is one row of a settlement statement.
type StatementLine struct {
	ClientName  string
	OrderNumber string
	WorkType    string
	Hours       decimal.Decimal
	Rate        decimal.Decimal
}

// Statement holds everything rendered into a settlement statement PDF.
type Statement struct {
	Year   int
	Month  int
	Date   string
	Amount decimal.Decimal
	Lines  []StatementLine
}

// BuildStatement renders a settlement statement PDF.
func BuildStatement(statement Statement) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "Settlement Statement")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Period: %d-%02d", statement.Year, statement.Month))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Document date: %s", statement.Date))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Total amount: %s", statement.Amount.StringFixed(2)))
	pdf.Ln(8)

	// Items table
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(45, 6, "Client", "1", 0, "C", false, 0, "")
	pdf.CellFormat(35, 6, "Order", "1", 0, "C", false, 0, "")
	pdf.CellFormat(40, 6, "Work type", "1", 0, "C", false, 0, "")
	pdf.CellFormat(20, 6, "Hours", "1", 0, "C", false, 0, "")
	pdf.CellFormat(25, 6, "Rate", "1", 0, "C", false, 0, "")
	pdf.CellFormat(25, 6, "Value", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	for _, line := range statement.Lines {
		pdf.CellFormat(45, 6, line.ClientName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(35, 6, line.OrderNumber, "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 6, line.WorkType, "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 6, line.Hours.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(25, 6, line.Rate.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(25, 6, line.Hours.Mul(line.Rate).StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	err := pdf.Output(&buf)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
