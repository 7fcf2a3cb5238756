package atlas

// Metadata is the name → rectangle mapping consumed by renderers, together
// with the sheet dimensions. It marshals to the atlas JSON schema:
//
//	{
//	  "atlas_width": 128,
//	  "atlas_height": 128,
//	  "icons": {
//	    "home": {"x": 2, "y": 2, "width": 64, "height": 64}
//	  }
//	}
type Metadata struct {
	AtlasWidth  int             `json:"atlas_width"`
	AtlasHeight int             `json:"atlas_height"`
	Icons       map[string]Rect `json:"icons"`
}

// Rect is the location of one icon within the sheet.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// NewMetadata aggregates a build result into renderer metadata.
func NewMetadata(r *Result) Metadata {
	icons := make(map[string]Rect, len(r.Placements))
	for _, p := range r.Placements {
		icons[p.Name] = Rect{X: p.X, Y: p.Y, Width: p.Width, Height: p.Height}
	}
	return Metadata{
		AtlasWidth:  r.Sheet.Width,
		AtlasHeight: r.Sheet.Height,
		Icons:       icons,
	}
}

// Lookup returns the rectangle for name.
func (m Metadata) Lookup(name string) (Rect, bool) {
	r, ok := m.Icons[name]
	return r, ok
}
