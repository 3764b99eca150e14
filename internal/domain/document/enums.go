package document

import (
	"strings"
	"unicode"
)

// Kind is the type of generated document
type Kind string

const (
	KindContract Kind = "contract" // Hợp đồng mua bán
	KindQuote    Kind = "quote"    // Báo giá
)

// IsValid checks if the Kind is a valid value
func (k Kind) IsValid() bool {
	return k == KindContract || k == KindQuote
}

// String returns the string representation of Kind
func (k Kind) String() string {
	return string(k)
}

// DisplayName returns the Vietnamese display name
func (k Kind) DisplayName() string {
	switch k {
	case KindContract:
		return "Hợp đồng mua bán xe"
	case KindQuote:
		return "Báo giá"
	default:
		return string(k)
	}
}

// FilePrefix is the download file name prefix for the kind
func (k Kind) FilePrefix() string {
	switch k {
	case KindContract:
		return "Hop-dong"
	case KindQuote:
		return "Bao-gia"
	default:
		return "Tai-lieu"
	}
}

// FileName builds the download name, e.g. "Hop-dong-HD001.pdf"
func (k Kind) FileName(code string) string {
	return k.FilePrefix() + "-" + SafeCode(code) + ".pdf"
}

// SafeCode turns a document code into a single path segment. Separators
// and control characters become '-', so "HD/2025/0001" yields "HD-2025-0001".
func SafeCode(code string) string {
	return strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || unicode.IsControl(r) {
			return '-'
		}
		return r
	}, strings.TrimSpace(code))
}

// PaperSize represents the paper size of a rendered document
type PaperSize string

const (
	PaperSizeA4 PaperSize = "A4" // 210mm x 297mm
	PaperSizeA5 PaperSize = "A5" // 148mm x 210mm
)

// IsValid checks if the PaperSize is a valid value
func (p PaperSize) IsValid() bool {
	return p == PaperSizeA4 || p == PaperSizeA5
}

// Dimensions returns the paper dimensions in millimeters (width, height)
func (p PaperSize) Dimensions() (width, height int) {
	switch p {
	case PaperSizeA5:
		return 148, 210
	default:
		return 210, 297
	}
}

// Orientation represents the page orientation
type Orientation string

const (
	OrientationPortrait  Orientation = "PORTRAIT"
	OrientationLandscape Orientation = "LANDSCAPE"
)

// IsValid checks if the Orientation is a valid value
func (o Orientation) IsValid() bool {
	return o == OrientationPortrait || o == OrientationLandscape
}
