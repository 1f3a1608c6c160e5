package theme

import (
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// HexToColor converts #rrggbb or #rgb to a tcell color. Anything else gives
// the terminal default.
func HexToColor(hex string) tcell.Color {
	hex = strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(hex) == 3 {
		hex = strings.Repeat(hex[:1], 2) + strings.Repeat(hex[1:2], 2) + strings.Repeat(hex[2:], 2)
	}
	if len(hex) != 6 {
		return tcell.ColorDefault
	}
	c, err := colorful.Hex("#" + hex)
	if err != nil {
		return tcell.ColorDefault
	}
	return fromColorful(c)
}

// ParseColorString accepts the forms theme files use: #rrggbb, #rgb and
// rgb(r, g, b)
func ParseColorString(s string) tcell.Color {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#") {
		return HexToColor(s)
	}

	inner, ok := strings.CutPrefix(s, "rgb(")
	if !ok {
		return tcell.ColorDefault
	}
	inner, ok = strings.CutSuffix(inner, ")")
	if !ok {
		return tcell.ColorDefault
	}
	parts := strings.Split(inner, ",")
	if len(parts) != 3 {
		return tcell.ColorDefault
	}
	var rgb [3]int32
	for i, p := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(p), 10, 8)
		if err != nil {
			return tcell.ColorDefault
		}
		rgb[i] = int32(v)
	}
	return tcell.NewRGBColor(rgb[0], rgb[1], rgb[2])
}

// Blend mixes a and b in Lab space, t=0 giving a and t=1 giving b. Terminal
// default colors are returned unchanged.
func Blend(a, b tcell.Color, t float64) tcell.Color {
	if a == tcell.ColorDefault || b == tcell.ColorDefault {
		return b
	}
	return fromColorful(toColorful(a).BlendLab(toColorful(b), t).Clamped())
}

// Hex returns the #rrggbb form of c, or "" for the terminal default
func Hex(c tcell.Color) string {
	if c == tcell.ColorDefault {
		return ""
	}
	return toColorful(c).Hex()
}

func toColorful(c tcell.Color) colorful.Color {
	r, g, b := c.RGB()
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
}

func fromColorful(c colorful.Color) tcell.Color {
	r, g, b := c.RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

// ColorPairToStyle creates a style with foreground fg on background bg
func ColorPairToStyle(fg, bg tcell.Color) tcell.Style {
	return tcell.StyleDefault.Foreground(fg).Background(bg)
}
