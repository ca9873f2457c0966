package pdf

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf/v2"

	"engrave-backend/internal/models"
	"engrave-backend/internal/timeutil"
)

// RenderReceipt renders a payment receipt as a single-page PDF.
func RenderReceipt(rec *models.ReceiptWithDetails, businessName string) ([]byte, error) {
	if businessName == "" {
		businessName = "Veteran Engraving"
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	// Header
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, businessName, "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(190, 7, "Payment Receipt", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(190, 6, fmt.Sprintf("Generated: %s", timeutil.Now().Format("02-Jan-2006 03:04 PM")), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	// Receipt details box
	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Receipt Details", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(95, 7, fmt.Sprintf("Receipt #: %s", rec.ReceiptNumber), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Order #: %s", rec.OrderNumber), "RB", 1, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Customer: %s", rec.CustomerName), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Date: %s", timeutil.ToBusiness(rec.CreatedAt).Format("02-Jan-2006")), "RB", 1, "L", false, 0, "")
	if rec.CustomerEmail != "" {
		pdf.CellFormat(190, 7, fmt.Sprintf("Email: %s", rec.CustomerEmail), "LRB", 1, "L", false, 0, "")
	}
	pdf.Ln(5)

	// Amount
	pdf.SetFillColor(200, 255, 200)
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(190, 10, fmt.Sprintf("Amount Paid: $%.2f", rec.Amount), "1", 1, "C", true, 0, "")
	pdf.Ln(8)

	pdf.SetFont("Arial", "I", 10)
	pdf.CellFormat(190, 6, "Thank you for your business!", "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf render failed: %w", err)
	}
	return buf.Bytes(), nil
}
