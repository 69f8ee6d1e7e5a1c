package services

import (
	"errors"

	"github.com/skip2/go-qrcode"
)

// TrackingQRSize is the default edge length in pixels of a tracking QR code
const TrackingQRSize = 256

// TrackingQRCode encodes a tracking link as a PNG QR code
func TrackingQRCode(link string, size int) ([]byte, error) {
	if link == "" {
		return nil, errors.New("link is required")
	}
	if size <= 0 {
		size = TrackingQRSize
	}
	return qrcode.Encode(link, qrcode.Medium, size)
}
