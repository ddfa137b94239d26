package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// wrapText breaks text into lines no wider than width display cells. Lines
// break at spaces when possible; longer words are split.
func wrapText(text string, width int) []string {
	text = strings.Join(strings.Fields(text), " ")
	if width <= 0 || text == "" {
		return []string{text}
	}
	var lines []string
	var line []rune
	lineWidth := 0
	lastSpaceIdx := -1

	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if lineWidth+w > width && len(line) > 0 {
			if r == ' ' {
				lines = append(lines, string(line))
				line, lineWidth, lastSpaceIdx = line[:0], 0, -1
				continue
			}
			if lastSpaceIdx >= 0 {
				lines = append(lines, string(line[:lastSpaceIdx]))
				line = append([]rune{}, line[lastSpaceIdx+1:]...)
				lineWidth = runewidth.StringWidth(string(line))
			} else {
				lines = append(lines, string(line))
				line = line[:0]
				lineWidth = 0
			}
			lastSpaceIdx = -1
		}
		line = append(line, r)
		lineWidth += w
		if r == ' ' {
			lastSpaceIdx = len(line) - 1
		}
	}
	return append(lines, string(line))
}

// truncate shortens s to width display cells with an ellipsis.
func truncate(s string, width int) string {
	if width <= 0 {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}
