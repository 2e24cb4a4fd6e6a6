package service

// QRCodeService renders display tokens as scannable QR codes
type QRCodeService interface {
	// RenderPNG encodes content as a PNG image
	RenderPNG(content string) ([]byte, error)

	// RenderTerminal encodes content as block characters for a terminal
	RenderTerminal(content string) (string, error)
}
