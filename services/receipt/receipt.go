package receipt

import (
	"fmt"
	"os"
	"path/filepath"

	"safarihub/models"

	"github.com/jung-kurt/gofpdf"
)

// ReceiptService renders a PDF receipt for a completed payment.
type ReceiptService interface {
	Generate(booking *models.Booking, payment *models.Payment) (string, error)
}

// DefaultReceiptService writes receipts to a local directory.
type DefaultReceiptService struct {
	Dir string
}

// NewReceiptService ensures the output directory exists.
func NewReceiptService(dir string) *DefaultReceiptService {
	os.MkdirAll(dir, 0755)
	return &DefaultReceiptService{Dir: dir}
}

// Generate renders the receipt and returns the written file path.
func (s *DefaultReceiptService) Generate(booking *models.Booking, payment *models.Payment) (string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(190, 10, "SafariHub")

	pdf.SetFont("Arial", "", 12)
	pdf.Ln(10)
	pdf.Cell(190, 10, fmt.Sprintf("Booking: %s", booking.BookingNumber))
	pdf.Ln(10)
	pdf.Cell(190, 10, fmt.Sprintf("Transaction ID: %s", payment.TransactionID))
	pdf.Ln(10)
	pdf.Cell(190, 10, fmt.Sprintf("Date: %s", payment.UpdatedAt.Format("2006-01-02 15:04:05")))
	pdf.Ln(10)
	pdf.Cell(190, 10, fmt.Sprintf("Customer: %s", booking.ContactInfo.Name))
	pdf.Ln(10)

	for _, item := range booking.Items {
		pdf.Cell(190, 10, fmt.Sprintf("%s x%d (%d guests): %s %.2f",
			item.ServiceName, item.Quantity, item.Guests, payment.Currency, item.LineTotal))
		pdf.Ln(10)
	}

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(190, 10, fmt.Sprintf("Total paid: %s %.2f via %s", payment.Currency, payment.Amount, payment.Method))

	filename := filepath.Join(s.Dir, fmt.Sprintf("receipt_%s.pdf", payment.ID))
	if err := pdf.OutputFileAndClose(filename); err != nil {
		return "", fmt.Errorf("failed to write receipt: %w", err)
	}
	return filename, nil
}
