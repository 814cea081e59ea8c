package service

import (
	"bytes"
	"encoding/base64"
	"fmt"

	"github.com/phpdave11/gofpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/iliyamo/temple-visitor-services/internal/model"
	"github.com/iliyamo/temple-visitor-services/internal/utils"
)

// Token prefixes.  Tokens are display artifacts only; nothing in the
// system verifies them and uniqueness is not enforced by a constraint.
const (
	paymentPrefix  = "PAY-"
	pujaPrefix     = "PUJA-"
	trackingPrefix = "TRACK-"
	tokenDigits    = 8
)

func newToken(prefix string) (string, error) {
	d, err := utils.RandomDigits(tokenDigits)
	if err != nil {
		return "", err
	}
	return prefix + d, nil
}

// bookingQRPayload is the text encoded in a darshan booking QR code.
func bookingQRPayload(scheduleID, visitorID uint64, people int, paymentRef string) string {
	return fmt.Sprintf("BOOK-%d-%d-%d-%s", scheduleID, visitorID, people, paymentRef)
}

// QRCodePNG renders payload as a base64-encoded PNG.
func QRCodePNG(payload string) (string, error) {
	png, err := qrcode.Encode(payload, qrcode.Low, 256)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(png), nil
}

// donationReceipt formats DON-{temple}-{id}-{yymmdd}.
func donationReceipt(templeID, donationID uint64, day string) string {
	return fmt.Sprintf("DON-%d-%d-%s", templeID, donationID, day)
}

// BookingReceiptPDF renders a one-page receipt for a booking.  The QR
// code stored with the booking is embedded when it decodes cleanly.
func BookingReceiptPDF(d *model.BookingDetail) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Darshan Booking Receipt", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "DARSHAN BOOKING RECEIPT")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, d.TempleName)
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, d.Location)
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Booking ID      : %d", d.BookingID),
		fmt.Sprintf("Devotee         : %s %s", d.FirstName, d.LastName),
		fmt.Sprintf("Darshan         : %s", d.DarshanName),
		fmt.Sprintf("Date            : %s", d.ScheduleDate),
		fmt.Sprintf("Time            : %s - %s", d.StartTime, d.EndTime),
		fmt.Sprintf("People          : %d", d.NumberOfPeople),
		fmt.Sprintf("Amount          : %s", d.TotalAmount.Display()),
		fmt.Sprintf("Payment         : %s (%s)", d.PaymentStatus, d.PaymentReference),
		fmt.Sprintf("Status          : %s", d.BookingStatus),
	}
	for _, s := range lines {
		pdf.Cell(0, 7, s)
		pdf.Ln(7)
	}

	if png, err := base64.StdEncoding.DecodeString(d.QRCode); err == nil && len(png) > 0 {
		opt := gofpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader("qr", opt, bytes.NewReader(png))
		if pdf.Ok() {
			pdf.ImageOptions("qr", 10, pdf.GetY()+4, 50, 50, false, opt, 0, "")
			pdf.Ln(58)
		} else {
			pdf.ClearError()
		}
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Please show this receipt at the temple entrance. The QR code is for display only.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
