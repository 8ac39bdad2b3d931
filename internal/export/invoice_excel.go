// Package export renders invoices as downloadable Excel workbooks.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/cmcs/claimflow/internal/domain/claim"
)

const dateLayout = "2006-01-02"

// InvoiceExporter writes invoice workbooks
type InvoiceExporter struct {
	institution string
	logger      *zap.Logger
}

// NewInvoiceExporter creates an exporter stamping workbooks with the
// institution name
func NewInvoiceExporter(institution string, logger *zap.Logger) *InvoiceExporter {
	return &InvoiceExporter{institution: institution, logger: logger}
}

// Write renders the invoice and its claim context into w as an xlsx workbook
func (e *InvoiceExporter) Write(w io.Writer, inv *claim.Invoice, c *claim.Claim) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)

	rows := [][2]interface{}{
		{"Institution", e.institution},
		{"Invoice Number", inv.InvoiceNumber},
		{"Invoice Date", inv.InvoiceDate.Format(dateLayout)},
		{"Due Date", inv.DueDate.Format(dateLayout)},
		{"", ""},
		{"Lecturer", inv.LecturerName},
		{"Email", inv.LecturerEmail},
		{"Claim Reference", fmt.Sprintf("CLM-%d", inv.ClaimID)},
		{"Hours Worked", c.HoursWorked.String()},
		{"Hourly Rate", c.HourlyRate.String()},
		{"", ""},
		{"Total Amount", inv.TotalAmount.StringFixed(2)},
		{"Tax", inv.TaxAmount.StringFixed(2)},
		{"Net Amount", inv.NetAmount.StringFixed(2)},
		{"", ""},
		{"Payment Status", inv.PaymentStatus},
		{"Generated By", inv.GeneratedBy},
	}

	for i, row := range rows {
		labelCell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("failed to build cell name: %w", err)
		}
		valueCell, err := excelize.CoordinatesToCellName(2, i+1)
		if err != nil {
			return fmt.Errorf("failed to build cell name: %w", err)
		}
		if err := f.SetCellValue(sheet, labelCell, row[0]); err != nil {
			return fmt.Errorf("failed to set cell %s: %w", labelCell, err)
		}
		if err := f.SetCellValue(sheet, valueCell, row[1]); err != nil {
			return fmt.Errorf("failed to set cell %s: %w", valueCell, err)
		}
	}

	if err := f.SetColWidth(sheet, "A", "A", 20); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "B", "B", 40); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		e.logger.Error("Failed to write invoice workbook",
			zap.String("invoice_number", inv.InvoiceNumber),
			zap.Error(err))
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	e.logger.Debug("Invoice workbook written", zap.String("invoice_number", inv.InvoiceNumber))
	return nil
}
