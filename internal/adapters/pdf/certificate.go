package pdf

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"campusevents/internal/domain"
)

type certificateRenderer struct{}

// NewCertificateRenderer returns a CertificateRenderer that composes an A4
// landscape PDF with a QR code pointing at the verification URL.
func NewCertificateRenderer() domain.CertificateRenderer {
	return &certificateRenderer{}
}

func (r *certificateRenderer) Render(data *domain.CertificateData) ([]byte, error) {
	if data == nil {
		return nil, fmt.Errorf("certificate data is nil")
	}

	doc := fpdf.New("L", "mm", "A4", "")
	doc.SetTitle("Certificate of Attendance", false)
	doc.AddPage()

	pageW, pageH := doc.GetPageSize()

	// Border
	doc.SetDrawColor(60, 90, 160)
	doc.SetLineWidth(1.2)
	doc.Rect(10, 10, pageW-20, pageH-20, "D")

	doc.SetFont("Helvetica", "B", 30)
	doc.SetTextColor(40, 40, 40)
	doc.SetY(40)
	doc.CellFormat(0, 14, "Certificate of Attendance", "", 1, "C", false, 0, "")

	doc.SetFont("Helvetica", "", 14)
	doc.SetY(70)
	doc.CellFormat(0, 8, "This certifies that", "", 1, "C", false, 0, "")

	doc.SetFont("Helvetica", "B", 24)
	doc.CellFormat(0, 14, data.AttendeeName, "", 1, "C", false, 0, "")

	doc.SetFont("Helvetica", "", 14)
	doc.CellFormat(0, 8, "attended", "", 1, "C", false, 0, "")

	doc.SetFont("Helvetica", "B", 20)
	doc.CellFormat(0, 12, data.EventName, "", 1, "C", false, 0, "")

	doc.SetFont("Helvetica", "", 13)
	doc.CellFormat(0, 8, fmt.Sprintf("held on %s", data.EventDate.Format("January 2, 2006")), "", 1, "C", false, 0, "")
	doc.CellFormat(0, 8, fmt.Sprintf("hosted by %s", data.HostName), "", 1, "C", false, 0, "")

	// Verification QR code, bottom right
	png, err := qrcode.Encode(data.VerifyURL, qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("encode qr code: %w", err)
	}
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	doc.RegisterImageOptionsReader("verify-qr", opts, bytes.NewReader(png))
	doc.ImageOptions("verify-qr", pageW-50, pageH-50, 30, 30, false, opts, 0, "")

	doc.SetFont("Helvetica", "", 8)
	doc.SetTextColor(120, 120, 120)
	doc.SetXY(15, pageH-25)
	doc.CellFormat(0, 5, fmt.Sprintf("Serial: %s", data.Serial), "", 1, "L", false, 0, "")
	doc.SetX(15)
	doc.CellFormat(0, 5, fmt.Sprintf("Verify at %s", data.VerifyURL), "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}
