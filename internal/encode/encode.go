// Package encode renders QR code symbols from text content.
// Encoding is pure and deterministic: identical inputs always
// produce byte-identical output.
package encode

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/qrforge/qrforge/internal/model"
)

// Encoding errors.
var (
	// ErrCapacityExceeded indicates the content does not fit in the
	// largest symbol available at the requested error correction level.
	ErrCapacityExceeded = errors.New("content exceeds symbol capacity")

	ErrUnsupportedLevel  = errors.New("unsupported error correction level")
	ErrUnsupportedFormat = errors.New("unsupported output format")
)

// pngDataURLPrefix prefixes base64 PNG payloads so the artifact can be
// embedded directly in an <img> src attribute.
const pngDataURLPrefix = "data:image/png;base64,"

// Encode renders content as a QR code artifact.
//
// The symbol version is the smallest that fits the content at the
// requested error correction level; the module grid is then scaled to
// the requested pixel width. PNG output is returned as a base64 data
// URL, SVG output as serialized markup. The two are logically
// equivalent renderings of the same symbol.
func Encode(content string, size int, level model.ECLevel, format model.Format) (string, error) {
	recovery, err := recoveryLevel(level)
	if err != nil {
		return "", err
	}

	qr, err := qrcode.New(content, recovery)
	if err != nil {
		// The only failure mode for valid UTF-8 input is content that
		// does not fit in a version-40 symbol at this level.
		return "", fmt.Errorf("%w: %v", ErrCapacityExceeded, err)
	}

	switch format {
	case model.FormatPNG:
		return encodePNG(qr, size)
	case model.FormatSVG:
		return encodeSVG(qr, size), nil
	default:
		return "", ErrUnsupportedFormat
	}
}

// recoveryLevel maps the four ECC tiers to library recovery levels.
func recoveryLevel(level model.ECLevel) (qrcode.RecoveryLevel, error) {
	switch level {
	case model.ECLevelLow:
		return qrcode.Low, nil
	case model.ECLevelMedium:
		return qrcode.Medium, nil
	case model.ECLevelQuartile:
		return qrcode.High, nil
	case model.ECLevelHigh:
		return qrcode.Highest, nil
	default:
		return 0, ErrUnsupportedLevel
	}
}

func encodePNG(qr *qrcode.QRCode, size int) (string, error) {
	png, err := qr.PNG(size)
	if err != nil {
		return "", fmt.Errorf("failed to render PNG: %w", err)
	}
	return pngDataURLPrefix + base64.StdEncoding.EncodeToString(png), nil
}

// encodeSVG serializes the module grid as SVG markup.
// Modules are drawn on a 1-unit grid and scaled via width/height,
// so the markup stays small regardless of the requested pixel size.
func encodeSVG(qr *qrcode.QRCode, size int) string {
	grid := qr.Bitmap()
	n := len(grid)

	var b strings.Builder
	fmt.Fprintf(&b,
		`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" shape-rendering="crispEdges">`,
		size, size, n, n,
	)
	fmt.Fprintf(&b, `<rect width="%d" height="%d" fill="#ffffff"/>`, n, n)

	b.WriteString(`<path d="`)
	for y, row := range grid {
		for x := 0; x < len(row); {
			if !row[x] {
				x++
				continue
			}
			// Merge horizontal runs of dark modules into one subpath.
			run := 0
			for x+run < len(row) && row[x+run] {
				run++
			}
			fmt.Fprintf(&b, "M%d %dh%dv1H%dz", x, y, run, x)
			x += run
		}
	}
	b.WriteString(`" fill="#000000"/></svg>`)

	return b.String()
}
