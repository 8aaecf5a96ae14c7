package vt

import (
	"bytes"
	"fmt"
	"image"

	"github.com/mattn/go-sixel"
	"golang.org/x/image/draw"

	"github.com/weftterm/weft"
	"github.com/weftterm/weft/ansi"
	"github.com/weftterm/weft/log"
)

// Cell size in pixels assumed when anchoring images to the grid. Hosts that
// know their real cell metrics can scale placements again at render time
const (
	cellPxWidth  = 10
	cellPxHeight = 20
)

// dcs dispatches a device control string. Only sixel transmissions are
// handled
func (g *Grid) dcs(seq ansi.DCS) {
	if seq.Final != 'q' || len(seq.Intermediate) > 0 {
		log.Debug("[vt] unhandled DCS", "final", string(seq.Final))
		return
	}
	img, err := decodeSixel(seq)
	if err != nil {
		log.Error("[vt] sixel decode failed", "error", err)
		return
	}
	bounds := img.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return
	}
	cols := (bounds.Dx() + cellPxWidth - 1) / cellPxWidth
	rows := (bounds.Dy() + cellPxHeight - 1) / cellPxHeight
	if cols > g.cols {
		cols = g.cols
	}
	if rows > g.rows {
		rows = g.rows
	}

	// scale to exactly fill the covered cell rectangle
	scaled := image.NewRGBA(image.Rect(0, 0, cols*cellPxWidth, rows*cellPxHeight))
	draw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), img, bounds, draw.Over, nil)

	g.placements = append(g.placements, weft.Placement{
		Img:  scaled,
		Row:  g.cursor.row,
		Col:  g.cursor.col,
		Rows: rows,
		Cols: cols,
	})

	// the cursor lands below the image, scrolling as needed
	for i := 0; i < rows; i += 1 {
		g.ind()
	}
	g.cursor.col = g.margin.left
}

// decodeSixel reconstructs the wire form of the transmission and runs it
// through the go-sixel decoder
func decodeSixel(seq ansi.DCS) (image.Image, error) {
	buf := bytes.Buffer{}
	buf.WriteString("\x1bP")
	for i, group := range seq.Parameters {
		if i > 0 {
			buf.WriteByte(';')
		}
		fmt.Fprintf(&buf, "%d", group[0])
	}
	buf.WriteByte('q')
	buf.Write(seq.Data)
	buf.WriteString("\x1b\\")

	var img image.Image
	if err := sixel.NewDecoder(&buf).Decode(&img); err != nil {
		return nil, err
	}
	return img, nil
}

// scrollPlacements moves image anchors with the text they sit on. delta is
// negative when the region scrolls up. Placements scrolled fully off the
// screen are dropped
func (g *Grid) scrollPlacements(delta int) {
	if len(g.placements) == 0 {
		return
	}
	kept := g.placements[:0]
	for _, p := range g.placements {
		p.Row += delta
		if p.Row+p.Rows <= 0 || p.Row >= g.rows {
			continue
		}
		kept = append(kept, p)
	}
	g.placements = kept
}
