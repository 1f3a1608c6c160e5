package theme

import (
	"github.com/gdamore/tcell/v2"
)

// Colors holds all the color definitions for the theme
type Colors struct {
	// Difference colors
	Normal   tcell.Color
	Added    tcell.Color
	Removed  tcell.Color
	Modified tcell.Color
	Absent   tcell.Color

	// Tree view colors
	Background     tcell.Color
	Selected       tcell.Color
	RangeHighlight tcell.Color
	Arrow          tcell.Color
	Divider        tcell.Color

	// Editor colors
	EditorText   tcell.Color
	EditorCursor tcell.Color

	// Search bar colors
	SearchLabel tcell.Color
	SearchMatch tcell.Color

	// Status line colors
	StatusMode     tcell.Color
	StatusMessage  tcell.Color
	StatusModified tcell.Color

	// Header colors
	HeaderTitle tcell.Color
}

// Theme represents a complete color theme
type Theme struct {
	Name   string
	Colors Colors
}

// Default returns a theme using terminal defaults for text and basic ANSI
// colors for differences
func Default() *Theme {
	return &Theme{
		Name: "default",
		Colors: Colors{
			Normal:         tcell.ColorDefault,
			Added:          tcell.ColorGreen,
			Removed:        tcell.ColorRed,
			Modified:       tcell.ColorYellow,
			Absent:         tcell.ColorGray,
			Background:     tcell.ColorDefault,
			Selected:       tcell.ColorDefault,
			RangeHighlight: tcell.ColorDefault,
			Arrow:          tcell.ColorDefault,
			Divider:        tcell.ColorDefault,
			EditorText:     tcell.ColorDefault,
			EditorCursor:   tcell.ColorDefault,
			SearchLabel:    tcell.ColorDefault,
			SearchMatch:    tcell.ColorDefault,
			StatusMode:     tcell.ColorDefault,
			StatusMessage:  tcell.ColorDefault,
			StatusModified: tcell.ColorDefault,
			HeaderTitle:    tcell.ColorDefault,
		},
	}
}

// TokyoNight returns the Tokyo Night theme
func TokyoNight() *Theme {
	t := &Theme{
		Name: "tokyo-night",
		Colors: Colors{
			Normal:         HexToColor("#c0caf5"), // Light gray-blue
			Added:          HexToColor("#9ece6a"), // Green
			Removed:        HexToColor("#f7768e"), // Red
			Modified:       HexToColor("#e0af68"), // Yellow
			Absent:         HexToColor("#3b4261"), // Dark gray
			Background:     HexToColor("#1a1b26"), // Dark background
			Selected:       HexToColor("#283457"), // Selection blue
			Arrow:          HexToColor("#7dcfff"), // Cyan
			Divider:        HexToColor("#565f89"), // Comment gray
			EditorText:     HexToColor("#c0caf5"),
			EditorCursor:   HexToColor("#7aa2f7"), // Blue
			SearchLabel:    HexToColor("#bb9af7"), // Magenta
			SearchMatch:    HexToColor("#7aa2f7"),
			StatusMode:     HexToColor("#bb9af7"),
			StatusMessage:  HexToColor("#9ece6a"),
			StatusModified: HexToColor("#f7768e"),
			HeaderTitle:    HexToColor("#bb9af7"),
		},
	}
	t.Colors.RangeHighlight = Blend(t.Colors.Background, t.Colors.Selected, 0.5)
	return t
}

// Light returns a theme for light terminals
func Light() *Theme {
	t := &Theme{
		Name: "light",
		Colors: Colors{
			Normal:         HexToColor("#343b58"),
			Added:          HexToColor("#33635c"),
			Removed:        HexToColor("#8c4351"),
			Modified:       HexToColor("#8f5e15"),
			Absent:         HexToColor("#c4c8da"),
			Background:     HexToColor("#e1e2e7"),
			Selected:       HexToColor("#b7c1e3"),
			Arrow:          HexToColor("#166775"),
			Divider:        HexToColor("#9699a3"),
			EditorText:     HexToColor("#343b58"),
			EditorCursor:   HexToColor("#34548a"),
			SearchLabel:    HexToColor("#5a4a78"),
			SearchMatch:    HexToColor("#34548a"),
			StatusMode:     HexToColor("#5a4a78"),
			StatusMessage:  HexToColor("#33635c"),
			StatusModified: HexToColor("#8c4351"),
			HeaderTitle:    HexToColor("#5a4a78"),
		},
	}
	t.Colors.RangeHighlight = Blend(t.Colors.Background, t.Colors.Selected, 0.5)
	return t
}

// Builtin returns the built-in theme with the given name
func Builtin(name string) (*Theme, bool) {
	switch name {
	case "default":
		return Default(), true
	case "tokyo-night":
		return TokyoNight(), true
	case "light":
		return Light(), true
	}
	return nil, false
}
