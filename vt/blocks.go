package vt

import "strings"

// Block is a contiguous run of non-empty visible rows, used by hosts to
// group command output
type Block struct {
	// Start and End are visible row indexes, inclusive
	Start int
	End   int
	Text  string
}

// Blocks returns the visible screen as blocks separated by blank rows
func (g *Grid) Blocks() []Block {
	g.mu.Lock()
	defer g.mu.Unlock()
	var blocks []Block
	var lines []string
	start := -1
	for row := range g.activeScreen {
		text := g.lineString(g.activeScreen[row])
		if text == "" {
			if start >= 0 {
				blocks = append(blocks, Block{
					Start: start,
					End:   row - 1,
					Text:  strings.Join(lines, "\n"),
				})
				start = -1
				lines = nil
			}
			continue
		}
		if start < 0 {
			start = row
		}
		lines = append(lines, text)
	}
	if start >= 0 {
		blocks = append(blocks, Block{
			Start: start,
			End:   g.rows - 1,
			Text:  strings.Join(lines, "\n"),
		})
	}
	return blocks
}
