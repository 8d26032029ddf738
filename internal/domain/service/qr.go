package service

import (
	"fmt"
	"image"
	"strings"

	qr "github.com/Badsnus/campus-events/pkg/qrcode"
)

// QrService renders registration tickets as QR codes.
type QrService struct {
	qrCFG qr.Config
	logo  image.Image
}

func NewQrService(qrCFG qr.Config, logoPath string) (*QrService, error) {
	logo, err := qr.LoadLogo(logoPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load qr logo: %w", err)
	}
	return &QrService{
		qrCFG: qrCFG,
		logo:  logo,
	}, nil
}

const ticketPrefix = "campus-events:ticket:"

// TicketContent is the payload scanned at check-in.
func TicketContent(eventID, ticketCode string) string {
	return ticketPrefix + eventID + ":" + ticketCode
}

// ParseTicketContent splits a scanned payload into event id and ticket code.
func ParseTicketContent(content string) (string, string, bool) {
	rest, ok := strings.CutPrefix(content, ticketPrefix)
	if !ok {
		return "", "", false
	}
	eventID, code, ok := strings.Cut(rest, ":")
	if !ok || eventID == "" || code == "" {
		return "", "", false
	}
	return eventID, code, true
}

func (s *QrService) TicketQR(eventID, ticketCode string) ([]byte, error) {
	return s.qrCFG.Generate(TicketContent(eventID, ticketCode), s.logo)
}
