package atlas

import "image"

// ResolveSize returns the side of the final square sheet: the smallest power
// of two covering both axes of the extent.
func ResolveSize(e Extent) int {
	return NextPowerOfTwo(max(e.Width, e.Height))
}

// Compose allocates a transparent size×size sheet and copies every image to
// its placement. Pixels are copied byte for byte: no blending, no resampling.
// placements must be indexed like images, as returned by [Pack].
func Compose(images []Image, placements []Placement, size int) Sheet {
	sheet := blankSheet(size)
	for i, img := range images {
		blit(sheet.Pixels, img.Pixels, placements[i].X, placements[i].Y)
	}
	return sheet
}

// blankSheet returns a fully transparent size×size sheet.
func blankSheet(size int) Sheet {
	return Sheet{
		Width:  size,
		Height: size,
		Pixels: image.NewNRGBA(image.Rect(0, 0, size, size)),
	}
}

// blit copies src row by row into dst with its top-left corner at (x, y).
func blit(dst, src *image.NRGBA, x, y int) {
	b := src.Bounds()
	rowBytes := b.Dx() * 4
	for row := 0; row < b.Dy(); row++ {
		so := src.PixOffset(b.Min.X, b.Min.Y+row)
		do := dst.PixOffset(x, y+row)
		copy(dst.Pix[do:do+rowBytes], src.Pix[so:so+rowBytes])
	}
}
