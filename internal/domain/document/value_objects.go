package document

import "github.com/dms/backend/internal/domain/shared"

// Margins represents the page margins in millimeters
type Margins struct {
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
	Left   int `json:"left"`
}

// NewMargins creates a new Margins value object
func NewMargins(top, right, bottom, left int) (Margins, error) {
	if top < 0 || right < 0 || bottom < 0 || left < 0 {
		return Margins{}, shared.NewDomainError("INVALID_MARGINS", "Margins cannot be negative")
	}
	if top > 50 || right > 50 || bottom > 50 || left > 50 {
		return Margins{}, shared.NewDomainError("INVALID_MARGINS", "Margins cannot exceed 50mm")
	}
	return Margins{Top: top, Right: right, Bottom: bottom, Left: left}, nil
}

// DefaultMargins returns the fixed margins used for contracts and quotes
func DefaultMargins() Margins {
	return Margins{Top: 15, Right: 15, Bottom: 15, Left: 15}
}

// IsZero returns true if all margins are zero
func (m Margins) IsZero() bool {
	return m.Top == 0 && m.Right == 0 && m.Bottom == 0 && m.Left == 0
}

// PageSetup is the physical layout a document is rendered with
type PageSetup struct {
	PaperSize   PaperSize
	Orientation Orientation
	Margins     Margins
}

// DefaultPageSetup is A4 portrait with the default margins
func DefaultPageSetup() PageSetup {
	return PageSetup{
		PaperSize:   PaperSizeA4,
		Orientation: OrientationPortrait,
		Margins:     DefaultMargins(),
	}
}
