package atlas

import "sort"

// shelfCursor is the packing state threaded through the ordered images.
// Each step consumes one image and yields the next cursor; nothing is shared.
type shelfCursor struct {
	x         int // next free column on the current shelf
	y         int // top of the current shelf
	rowHeight int // tallest image on the current shelf so far
}

// newShelfCursor returns the cursor for an empty sheet.
func newShelfCursor(padding int) shelfCursor {
	return shelfCursor{x: padding, y: padding}
}

// place positions a w×h image on the shelf, starting a new shelf below when
// the image would cross the right edge of a width-wide sheet. It returns the
// image's top-left corner and the advanced cursor.
func (c shelfCursor) place(w, h, width, padding int) (x, y int, next shelfCursor) {
	if c.x+w+padding > width {
		c = shelfCursor{x: padding, y: c.y + c.rowHeight + padding}
	}
	x, y = c.x, c.y
	c.rowHeight = max(c.rowHeight, h)
	c.x += w + padding
	return x, y, c
}

// bottom returns the lowest row covered by the layout, trailing padding included.
func (c shelfCursor) bottom(padding int) int {
	return c.y + c.rowHeight + padding
}

// packOrder returns input indices sorted by height, tallest first. Equal
// heights keep their input order.
func packOrder(images []Image) []int {
	order := make([]int, len(images))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return images[order[a]].Height() > images[order[b]].Height()
	})
	return order
}

// Pack lays images out on horizontal shelves within the given width.
//
// Images are visited tallest first. Each goes to the right of the previous one
// on the current shelf; when it would reach past width-padding a new shelf is
// opened below the tallest image of the current one. The returned placements
// are indexed by input position, and the extent is (width, bottom of the
// last shelf + padding).
//
// Pack does not grow width: an image wider than width-2·padding is still put
// on a shelf of its own and overflows the right edge. [Build] widens the shelf
// beforehand so this cannot happen.
func Pack(images []Image, width, padding int) ([]Placement, Extent) {
	placements := make([]Placement, len(images))
	cursor := newShelfCursor(padding)

	for _, idx := range packOrder(images) {
		img := images[idx]
		var x, y int
		x, y, cursor = cursor.place(img.Width(), img.Height(), width, padding)
		placements[idx] = Placement{
			Name:   img.Name,
			X:      x,
			Y:      y,
			Width:  img.Width(),
			Height: img.Height(),
		}
	}

	return placements, Extent{Width: width, Height: cursor.bottom(padding)}
}
