// Package atlas packs independently rasterized images into a single square,
// power-of-two texture sheet.
//
// # Overview
//
// The packer is a strictly sequential pipeline of pure functions:
//
//  1. [EstimateWidth]: seed a row width from the total padded area
//  2. [Pack]: shelf-pack the images, tallest first, within that width
//  3. [ResolveSize]: round the realized extent up to a square power of two
//  4. [Compose]: copy every image verbatim into a transparent sheet
//  5. [NewMetadata]: aggregate the name → rectangle mapping for renderers
//
// [Build] runs all five steps and validates the result. Placements are
// computed once and never revisited after the sheet is resized; growing the
// sheet only appends space to the right and bottom, so they stay valid.
//
// # Determinism
//
// Images are sorted by height with a stable sort, so equal heights keep their
// input order. Given the same images in the same order, [Build] always
// produces byte-identical sheets and placement lists.
//
// # Usage
//
//	images := []atlas.Image{
//	    {Name: "home", Pixels: home},
//	    {Name: "search", Pixels: search},
//	}
//	res, err := atlas.Build(images, 2)
//	if err != nil {
//	    return err
//	}
//	meta := atlas.NewMetadata(res)
//	// res.Sheet.Pixels is an *image.NRGBA of meta.AtlasWidth × meta.AtlasHeight
//
// # Oversized Images
//
// The area-based estimate can be narrower than a single wide image. Rather
// than letting that image overflow the right edge, [Build] widens the shelf
// width to the next power of two that fits the widest padded image. The final
// containment check reports [errors.ErrCodeOverflowPlacement] should a
// placement ever escape the sheet.
//
// [errors.ErrCodeOverflowPlacement]: github.com/matzehuels/iconatlas/pkg/errors
package atlas
