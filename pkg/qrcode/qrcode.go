package qr

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"

	"github.com/fogleman/gg"
	"github.com/nfnt/resize"
	"github.com/skip2/go-qrcode"
)

type Config struct {
	Size          int // Side of the code without the quiet zone, in pixels
	QuietZone     int // Margin around the code, in pixels
	RecoveryLevel int
	DotScale      float64 // Dot diameter relative to a module, 1 draws touching dots
	Background    color.Color
	Foreground    color.Color
	LogoScale     float64 // Logo side relative to Size
}

// Generate renders content as a PNG QR code with round dots. When logo is not
// nil it is scaled down and drawn in a circle at the center, which requires a
// recovery level of at least medium.
func (c Config) Generate(content string, logo image.Image) ([]byte, error) {
	if content == "" {
		return nil, errors.New("qr: empty content")
	}
	code, err := qrcode.New(content, qrcode.RecoveryLevel(c.RecoveryLevel))
	if err != nil {
		return nil, err
	}
	code.DisableBorder = true
	bitmap := code.Bitmap()
	modules := len(bitmap)
	if modules == 0 {
		return nil, errors.New("qr: empty bitmap")
	}

	total := c.Size + 2*c.QuietZone
	dc := gg.NewContext(total, total)
	dc.SetColor(c.Background)
	dc.Clear()

	module := float64(c.Size) / float64(modules)
	radius := module * c.DotScale / 2
	offset := float64(c.QuietZone)

	logoSize := 0
	if logo != nil {
		logoSize = int(float64(c.Size) * c.LogoScale)
	}
	center := float64(total) / 2
	keepOut := float64(logoSize)/2 + module

	dc.SetColor(c.Foreground)
	for y, row := range bitmap {
		for x, dark := range row {
			if !dark {
				continue
			}
			cx := offset + (float64(x)+0.5)*module
			cy := offset + (float64(y)+0.5)*module
			if logoSize > 0 && abs(cx-center) < keepOut && abs(cy-center) < keepOut {
				continue
			}
			dc.DrawCircle(cx, cy, radius)
		}
	}
	dc.Fill()

	if logoSize > 0 {
		scaled := resize.Resize(uint(logoSize), uint(logoSize), logo, resize.Lanczos3)
		dc.SetColor(c.Background)
		dc.DrawCircle(center, center, float64(logoSize)/2+module/2)
		dc.Fill()

		dc.DrawCircle(center, center, float64(logoSize)/2)
		dc.Clip()
		dc.DrawImageAnchored(scaled, int(center), int(center), 0.5, 0.5)
		dc.ResetClip()
	}

	var buf bytes.Buffer
	if err = png.Encode(&buf, dc.Image()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// LoadLogo reads a logo image from path. An empty path means no logo.
func LoadLogo(path string) (image.Image, error) {
	if path == "" {
		return nil, nil
	}
	return gg.LoadImage(path)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
