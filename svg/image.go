package svg

import "image"

// Image is a rasterized document: non-premultiplied RGBA, row-major,
// Stride bytes per row with no padding.
type Image struct {
	Width  int
	Height int
	Stride int
	Pix    []byte
}

// NRGBA returns an image.NRGBA sharing Pix with img.
func (img *Image) NRGBA() *image.NRGBA {
	return &image.NRGBA{
		Pix:    img.Pix,
		Stride: img.Stride,
		Rect:   image.Rect(0, 0, img.Width, img.Height),
	}
}

// Len returns the number of pixel bytes.
func (img *Image) Len() int {
	return len(img.Pix)
}
