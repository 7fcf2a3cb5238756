// Package sink writes a packed atlas to its two output artifacts: the sheet
// image and the JSON metadata describing where each icon lives.
//
// Sheets are encoded as PNG by default. BMP and TIFF are available for
// pipelines whose texture tools expect them; [FormatFromPath] picks the format
// from an output file's extension:
//
//	f, _ := os.Create("atlas.png")
//	err := sink.EncodeSheet(f, res.Sheet.Pixels, sink.WithFormat(sink.FormatFromPath("atlas.png")))
//
// Metadata is written as indented JSON with sorted icon names, so the file is
// stable across runs and diffs cleanly under version control.
package sink
