package weft

import "image"

// Placement is an image anchored to a cell rectangle, decoded from an
// application sixel transmission. Rows and Cols are the size in cells the
// image was scaled to fit
type Placement struct {
	Img  image.Image
	Row  int
	Col  int
	Rows int
	Cols int
}
