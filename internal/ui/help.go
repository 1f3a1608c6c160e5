package ui

import (
	"fmt"
	"sort"
)

// KeyBindingInfo represents a keybinding for display
type KeyBindingInfo interface {
	GetKey() rune
	GetDescription() string
}

// PendingKeyBindingInfo represents a two-key sequence such as "gg"
type PendingKeyBindingInfo interface {
	KeyBindingInfo
	GetSequences() map[rune]string
}

// HelpScreen manages the help display
type HelpScreen struct {
	visible     bool
	keybindings []KeyBindingInfo
	scroll      int
}

// NewHelpScreen creates a new HelpScreen
func NewHelpScreen() *HelpScreen {
	return &HelpScreen{}
}

// SetKeybindings sets the keybindings to display
func (h *HelpScreen) SetKeybindings(keybindings []KeyBindingInfo) {
	h.keybindings = keybindings
}

// Toggle toggles the help screen visibility
func (h *HelpScreen) Toggle() {
	h.visible = !h.visible
	h.scroll = 0
}

// IsVisible returns whether the help screen is visible
func (h *HelpScreen) IsVisible() bool {
	return h.visible
}

// Scroll moves the help text by n lines
func (h *HelpScreen) Scroll(n int) {
	h.scroll = min(max(h.scroll+n, 0), max(len(h.GetKeybindings())-1, 0))
}

// GetKeybindings returns a formatted list of keybindings
func (h *HelpScreen) GetKeybindings() []string {
	result := []string{"Keys:", ""}

	for _, kb := range h.keybindings {
		result = append(result, fmt.Sprintf("  %c   %s", kb.GetKey(), kb.GetDescription()))
		pkb, ok := kb.(PendingKeyBindingInfo)
		if !ok {
			continue
		}
		sequences := pkb.GetSequences()
		keys := make([]rune, 0, len(sequences))
		for k := range sequences {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
		for _, k := range keys {
			result = append(result, fmt.Sprintf("  %c%c  %s", pkb.GetKey(), k, sequences[k]))
		}
	}

	result = append(result,
		"",
		"Special keys:",
		"  Tab         Switch column",
		"  Enter       Edit value / confirm",
		"  Escape      Cancel edit, search or range",
		"  Ctrl+S      Save focused document",
		"  Ctrl+R      Redo",
		"  Arrow keys  Navigate (alternative to hjkl)",
		"",
		"Commands:",
		"  :w  :w!  :wq  :q  :q!  :e (reload)",
		"  :set key=value   :set (list)",
		"  :export FILE.md  :report  :messages",
	)
	return result
}

// Render renders the help screen
func (h *HelpScreen) Render(screen *Screen) {
	if !h.visible {
		return
	}

	width := screen.GetWidth()
	height := screen.GetHeight()
	startX, startY := 4, 1
	boxWidth := width - 8
	boxHeight := height - 2
	if boxWidth < 20 || boxHeight < 5 {
		return
	}

	for y := startY; y < startY+boxHeight; y++ {
		screen.FillLine(startX, y, boxWidth, screen.BackgroundStyle())
	}
	drawBox(screen, startX, startY, boxWidth, boxHeight, screen.DividerStyle())
	screen.DrawString(startX+2, startY, " Help (? to close) ", screen.HeaderStyle())

	lines := h.GetKeybindings()
	y := startY + 1
	for _, line := range lines[min(h.scroll, len(lines)):] {
		if y >= startY+boxHeight-1 {
			break
		}
		screen.DrawStringLimited(startX+2, y, line, boxWidth-4, screen.NormalStyle())
		y++
	}
}
