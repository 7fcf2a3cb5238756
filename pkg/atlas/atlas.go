package atlas

import (
	"image"

	"github.com/matzehuels/iconatlas/pkg/errors"
)

// Image is a named raster image to be packed. Pixels are borrowed for the
// duration of [Build] and never modified.
type Image struct {
	Name   string
	Pixels *image.NRGBA
}

// Width returns the image width in pixels.
func (img Image) Width() int {
	if img.Pixels == nil {
		return 0
	}
	return img.Pixels.Bounds().Dx()
}

// Height returns the image height in pixels.
func (img Image) Height() int {
	if img.Pixels == nil {
		return 0
	}
	return img.Pixels.Bounds().Dy()
}

// Placement is the rectangle one image occupies within the sheet.
type Placement struct {
	Name   string
	X      int
	Y      int
	Width  int
	Height int
}

// Rect returns the placement as an image.Rectangle.
func (p Placement) Rect() image.Rectangle {
	return image.Rect(p.X, p.Y, p.X+p.Width, p.Y+p.Height)
}

// Extent is the area a shelf layout actually covers, padding included.
type Extent struct {
	Width  int
	Height int
}

// Sheet is the composed texture. Width and Height are equal powers of two.
type Sheet struct {
	Width  int
	Height int
	Pixels *image.NRGBA
}

// Result is the output of [Build].
type Result struct {
	Sheet Sheet

	// Placements holds one entry per input image, in input order.
	Placements []Placement

	// Padding is the gap that was enforced between images and sheet edges.
	Padding int
}

// Utilization returns the fraction of the sheet covered by image pixels.
func (r *Result) Utilization() float64 {
	total := r.Sheet.Width * r.Sheet.Height
	if total == 0 {
		return 0
	}
	used := 0
	for _, p := range r.Placements {
		used += p.Width * p.Height
	}
	return float64(used) / float64(total)
}

// Build packs images into a square power-of-two sheet with at least padding
// pixels between images and between images and the sheet edges.
//
// An empty image list is not an error: the result is a 1×1 transparent sheet
// with no placements. Invalid images (nil pixels, zero width or height, empty
// or duplicate names) and negative padding are rejected before packing.
// Build either returns a fully valid result or an error, never partial output.
func Build(images []Image, padding int) (*Result, error) {
	if padding < 0 {
		return nil, errors.New(errors.ErrCodeInvalidPadding, "padding must be non-negative, got %d", padding)
	}
	if err := validateImages(images); err != nil {
		return nil, err
	}
	if len(images) == 0 {
		return &Result{Sheet: blankSheet(1), Placements: []Placement{}, Padding: padding}, nil
	}

	width := max(EstimateWidth(images, padding), minShelfWidth(images, padding))
	placements, extent := Pack(images, width, padding)
	size := ResolveSize(extent)

	if err := checkContainment(placements, size, padding); err != nil {
		return nil, err
	}

	return &Result{
		Sheet:      Compose(images, placements, size),
		Placements: placements,
		Padding:    padding,
	}, nil
}

// minShelfWidth returns the narrowest power-of-two shelf that fits the widest
// image together with its left and right padding.
func minShelfWidth(images []Image, padding int) int {
	widest := 0
	for _, img := range images {
		widest = max(widest, img.Width())
	}
	return NextPowerOfTwo(widest + 2*padding)
}

func validateImages(images []Image) error {
	seen := make(map[string]int, len(images))
	for i, img := range images {
		if img.Name == "" {
			return errors.New(errors.ErrCodeInvalidName, "image %d has an empty name", i)
		}
		if prev, ok := seen[img.Name]; ok {
			return errors.New(errors.ErrCodeDuplicateName, "image name %q used by inputs %d and %d", img.Name, prev, i)
		}
		seen[img.Name] = i

		if img.Pixels == nil {
			return errors.New(errors.ErrCodeInvalidImage, "image %q has no pixel data", img.Name)
		}
		if img.Width() <= 0 || img.Height() <= 0 {
			return errors.New(errors.ErrCodeInvalidImage, "image %q has invalid size %dx%d", img.Name, img.Width(), img.Height())
		}
	}
	return nil
}

// checkContainment verifies that every padded placement lies inside a
// size×size sheet.
func checkContainment(placements []Placement, size, padding int) error {
	for _, p := range placements {
		if p.X < padding || p.Y < padding ||
			p.X+p.Width+padding > size || p.Y+p.Height+padding > size {
			return errors.New(errors.ErrCodeOverflowPlacement,
				"placement %q at (%d,%d) %dx%d exceeds %dx%d sheet with padding %d",
				p.Name, p.X, p.Y, p.Width, p.Height, size, size, padding)
		}
	}
	return nil
}
