package qrcode

import (
	"strings"

	"attendance/internal/domain/service"

	"github.com/pkg/errors"
	"github.com/skip2/go-qrcode"
)

type qrcodeService struct {
	size                 int
	errorCorrectionLevel qrcode.RecoveryLevel
}

// NewQRCodeService creates a new QR code service instance
func NewQRCodeService(size int, errorCorrectionLevel string) service.QRCodeService {
	return &qrcodeService{
		size:                 size,
		errorCorrectionLevel: parseRecoveryLevel(errorCorrectionLevel),
	}
}

// parseRecoveryLevel maps the L/M/Q/H letters onto go-qrcode levels.
// Anything unrecognised falls back to the highest level.
func parseRecoveryLevel(level string) qrcode.RecoveryLevel {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "L":
		return qrcode.Low
	case "M":
		return qrcode.Medium
	case "Q":
		return qrcode.High
	default:
		return qrcode.Highest
	}
}

// RenderPNG encodes the token value as a square PNG of the configured size
func (s *qrcodeService) RenderPNG(content string) ([]byte, error) {
	if content == "" {
		return nil, errors.New("qr content is empty")
	}

	pngBytes, err := qrcode.Encode(content, s.errorCorrectionLevel, s.size)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate PNG")
	}

	return pngBytes, nil
}

// RenderTerminal encodes the token value using half-block characters, two
// module rows per text line, dark modules drawn as ink.
func (s *qrcodeService) RenderTerminal(content string) (string, error) {
	if content == "" {
		return "", errors.New("qr content is empty")
	}

	code, err := qrcode.New(content, s.errorCorrectionLevel)
	if err != nil {
		return "", errors.Wrap(err, "failed to create QR code")
	}

	bitmap := code.Bitmap()

	var b strings.Builder
	for y := 0; y < len(bitmap); y += 2 {
		for x := range bitmap[y] {
			top := bitmap[y][x]
			bottom := y+1 < len(bitmap) && bitmap[y+1][x]

			switch {
			case top && bottom:
				b.WriteRune('█')
			case top:
				b.WriteRune('▀')
			case bottom:
				b.WriteRune('▄')
			default:
				b.WriteRune(' ')
			}
		}
		b.WriteByte('\n')
	}

	return b.String(), nil
}
