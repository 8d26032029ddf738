package qr

import "image/color"

// Ticket is the style of event ticket codes.
var Ticket = Config{
	Size:          512,
	QuietZone:     16,
	RecoveryLevel: 2,
	DotScale:      0.9,
	Background:    color.RGBA{R: 255, G: 255, B: 255, A: 255},
	Foreground:    color.RGBA{R: 24, G: 24, B: 40, A: 255},
	LogoScale:     0.2,
}
