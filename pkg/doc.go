// Package pkg provides the libraries behind iconatlas, a tool that turns a
// folder of SVG icons into a single distance field texture atlas.
//
// # Overview
//
// The pkg directory is organized by pipeline stage:
//
//  1. [source] - Discover SVG icons in a directory
//  2. [raster] - Rasterize icons with msdfgen, optionally through a [cache]
//  3. [atlas] - Pack images onto a square power-of-two sheet (pure, no I/O)
//  4. [sink] - Encode the sheet and write JSON metadata
//  5. [pipeline] - Orchestration (discover → rasterize → pack → write)
//
// Supporting packages: [config] (TOML settings), [server] (HTTP preview),
// [errors] (structured error codes), [observability] (hooks) and
// [buildinfo] (version information).
//
// # Architecture
//
//	icons/*.svg
//	     ↓
//	[source] Discover
//	     ↓
//	[raster] msdfgen → *image.NRGBA per icon
//	     ↓
//	[atlas] Build → sheet + placements
//	     ↓
//	[sink] atlas.png + atlas.json
//
// # Quick Start
//
// Pack images that are already in memory:
//
//	res, err := atlas.Build([]atlas.Image{
//	    {Name: "home", Pixels: home},
//	    {Name: "search", Pixels: search},
//	}, 2)
//	if err != nil {
//	    return err
//	}
//	meta := atlas.NewMetadata(res)
//	_, err = sink.WriteAtlasFiles("atlas.png", res.Sheet.Pixels, "atlas.json", meta)
//
// Or run the full pipeline, rasterizing with msdfgen:
//
//	runner := pipeline.NewRunner(nil, nil, logger)
//	res, err := runner.Execute(ctx, pipeline.Options{
//	    InputDir: "icons",
//	    Padding:  pipeline.DefaultPadding,
//	})
//
// [source]: github.com/matzehuels/iconatlas/pkg/source
// [raster]: github.com/matzehuels/iconatlas/pkg/raster
// [cache]: github.com/matzehuels/iconatlas/pkg/cache
// [atlas]: github.com/matzehuels/iconatlas/pkg/atlas
// [sink]: github.com/matzehuels/iconatlas/pkg/sink
// [pipeline]: github.com/matzehuels/iconatlas/pkg/pipeline
// [config]: github.com/matzehuels/iconatlas/pkg/config
// [server]: github.com/matzehuels/iconatlas/pkg/server
// [errors]: github.com/matzehuels/iconatlas/pkg/errors
// [observability]: github.com/matzehuels/iconatlas/pkg/observability
// [buildinfo]: github.com/matzehuels/iconatlas/pkg/buildinfo
package pkg
