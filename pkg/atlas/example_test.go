package atlas_test

import (
	"encoding/json"
	"fmt"
	"image"

	"github.com/matzehuels/iconatlas/pkg/atlas"
)

func blank(w, h int) *image.NRGBA {
	return image.NewNRGBA(image.Rect(0, 0, w, h))
}

func ExampleBuild() {
	images := []atlas.Image{
		{Name: "img2", Pixels: blank(20, 50)},
		{Name: "img1", Pixels: blank(40, 30)},
		{Name: "img3", Pixels: blank(10, 10)},
	}

	res, err := atlas.Build(images, 2)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	fmt.Printf("sheet: %dx%d\n", res.Sheet.Width, res.Sheet.Height)
	for _, p := range res.Placements {
		fmt.Printf("%s: (%d,%d) %dx%d\n", p.Name, p.X, p.Y, p.Width, p.Height)
	}
	// Output:
	// sheet: 128x128
	// img2: (2,2) 20x50
	// img1: (2,54) 40x30
	// img3: (44,54) 10x10
}

func ExampleNewMetadata() {
	res, err := atlas.Build([]atlas.Image{{Name: "home", Pixels: blank(16, 16)}}, 2)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	data, _ := json.MarshalIndent(atlas.NewMetadata(res), "", "  ")
	fmt.Println(string(data))
	// Output:
	// {
	//   "atlas_width": 32,
	//   "atlas_height": 32,
	//   "icons": {
	//     "home": {
	//       "x": 2,
	//       "y": 2,
	//       "width": 16,
	//       "height": 16
	//     }
	//   }
	// }
}

func ExampleEstimateWidth() {
	images := []atlas.Image{
		{Name: "a", Pixels: blank(20, 50)},
		{Name: "b", Pixels: blank(40, 30)},
		{Name: "c", Pixels: blank(10, 10)},
	}
	w := atlas.EstimateWidth(images, 2)
	_, extent := atlas.Pack(images, w, 2)
	fmt.Println(w, extent.Height, atlas.ResolveSize(extent))
	// Output: 64 86 128
}
