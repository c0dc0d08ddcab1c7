package model

import "time"

// Format is the rendered output kind of a QR code.
type Format string

const (
	FormatPNG Format = "png"
	FormatSVG Format = "svg"
)

// IsValid checks if the format is one of the supported output kinds.
func (f Format) IsValid() bool {
	return f == FormatPNG || f == FormatSVG
}

// ECLevel is the error correction tier of a QR code.
// Higher tiers tolerate more damage at the cost of data capacity.
type ECLevel string

const (
	ECLevelLow      ECLevel = "L"
	ECLevelMedium   ECLevel = "M"
	ECLevelQuartile ECLevel = "Q"
	ECLevelHigh     ECLevel = "H"
)

// IsValid checks if the error correction level is one of the four tiers.
func (l ECLevel) IsValid() bool {
	switch l {
	case ECLevelLow, ECLevelMedium, ECLevelQuartile, ECLevelHigh:
		return true
	}
	return false
}

// Size bounds and defaults for QR code rendering.
const (
	MinSize     = 100
	MaxSize     = 1000
	DefaultSize = 300

	DefaultECLevel = ECLevelMedium
	DefaultFormat  = FormatPNG
)

// IsValidSize checks if the pixel width is within the allowed range.
func IsValidSize(size int) bool {
	return size >= MinSize && size <= MaxSize
}

// QRCode represents a stored QR code record owned by a user.
// ImageData always holds the exact encoder output for the record's
// current content, size, error correction level, and format.
// Format never changes after creation.
type QRCode struct {
	ID                   string    `json:"id"`
	UserID               string    `json:"userId"`
	Content              string    `json:"content"`
	Name                 string    `json:"name"`
	Description          string    `json:"description,omitempty"`
	ImageData            string    `json:"imageData"`
	Format               Format    `json:"format"`
	Size                 int       `json:"size"`
	ErrorCorrectionLevel ECLevel   `json:"errorCorrectionLevel"`
	CreatedAt            time.Time `json:"createdAt"`
	UpdatedAt            time.Time `json:"updatedAt"`
}
