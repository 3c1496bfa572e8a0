package gather

import (
	"fmt"

	"github.com/mazznoer/csscolorparser"
)

// AmbientColor is the scene-wide ambient light, stored as RGBA.
type AmbientColor struct {
	Color csscolorparser.Color
}

func NewAmbientColor(r, g, b, a float64) *AmbientColor {
	return &AmbientColor{Color: csscolorparser.Color{R: r, G: g, B: b, A: a}}
}

// ParseAmbientColor accepts any CSS colour: "#336699", "rgb(51 102 153)",
// "slategray", ...
func ParseAmbientColor(css string) (*AmbientColor, error) {
	c, err := csscolorparser.Parse(css)
	if err != nil {
		return nil, fmt.Errorf("ambient color %q: %w", css, err)
	}
	return &AmbientColor{Color: c}, nil
}
