package atlas

import "testing"

func TestShelfCursorPlace(t *testing.T) {
	c := newShelfCursor(2)
	if c.x != 2 || c.y != 2 || c.rowHeight != 0 {
		t.Fatalf("newShelfCursor(2) = %+v", c)
	}

	steps := []struct {
		w, h         int
		wantX, wantY int
		want         shelfCursor
	}{
		{20, 50, 2, 2, shelfCursor{x: 24, y: 2, rowHeight: 50}},
		{40, 30, 2, 54, shelfCursor{x: 44, y: 54, rowHeight: 30}}, // 24+40+2 > 64
		{10, 10, 44, 54, shelfCursor{x: 56, y: 54, rowHeight: 30}},
	}

	for i, s := range steps {
		var x, y int
		x, y, c = c.place(s.w, s.h, 64, 2)
		if x != s.wantX || y != s.wantY {
			t.Errorf("step %d: placed at (%d,%d), want (%d,%d)", i, x, y, s.wantX, s.wantY)
		}
		if c != s.want {
			t.Errorf("step %d: cursor = %+v, want %+v", i, c, s.want)
		}
	}

	if got := c.bottom(2); got != 86 {
		t.Errorf("bottom() = %d, want 86", got)
	}
}

func TestShelfCursorPlaceIsPure(t *testing.T) {
	c := shelfCursor{x: 10, y: 4, rowHeight: 8}
	_, _, _ = c.place(100, 20, 64, 2)
	if c != (shelfCursor{x: 10, y: 4, rowHeight: 8}) {
		t.Errorf("place() modified its receiver: %+v", c)
	}
}

func TestShelfCursorExactFit(t *testing.T) {
	// An image ending exactly padding pixels before the edge stays on the shelf.
	c := shelfCursor{x: 30, y: 2, rowHeight: 10}
	x, y, _ := c.place(32, 10, 64, 2)
	if x != 30 || y != 2 {
		t.Errorf("placed at (%d,%d), want (30,2)", x, y)
	}
}

func TestPackOrder(t *testing.T) {
	images := []Image{
		testImage("short", 4, 10, 1),
		testImage("tall", 4, 30, 2),
		testImage("mid-a", 4, 20, 3),
		testImage("mid-b", 4, 20, 4),
		testImage("mid-c", 4, 20, 5),
	}

	got := packOrder(images)
	want := []int{1, 2, 3, 4, 0}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("packOrder() = %v, want %v", got, want)
		}
	}
}

func TestPackScenario(t *testing.T) {
	placements, extent := Pack(scenarioImages(), 64, 2)

	if extent != (Extent{Width: 64, Height: 86}) {
		t.Errorf("extent = %+v, want {64 86}", extent)
	}

	want := map[string][2]int{"img2": {2, 2}, "img1": {2, 54}, "img3": {44, 54}}
	for _, p := range placements {
		if pos := want[p.Name]; p.X != pos[0] || p.Y != pos[1] {
			t.Errorf("%s at (%d,%d), want (%d,%d)", p.Name, p.X, p.Y, pos[0], pos[1])
		}
	}
}

func TestPackZeroPadding(t *testing.T) {
	images := []Image{
		testImage("a", 8, 8, 1),
		testImage("b", 8, 8, 2),
		testImage("c", 8, 8, 3),
	}
	placements, extent := Pack(images, 16, 0)

	want := []Placement{
		{Name: "a", X: 0, Y: 0, Width: 8, Height: 8},
		{Name: "b", X: 8, Y: 0, Width: 8, Height: 8},
		{Name: "c", X: 0, Y: 8, Width: 8, Height: 8},
	}
	for i := range want {
		if placements[i] != want[i] {
			t.Errorf("placement[%d] = %+v, want %+v", i, placements[i], want[i])
		}
	}
	if extent != (Extent{Width: 16, Height: 16}) {
		t.Errorf("extent = %+v, want {16 16}", extent)
	}
}

func TestPackDoesNotGrowWidth(t *testing.T) {
	// Pack on its own keeps the requested width even if an image overflows it.
	placements, extent := Pack([]Image{testImage("wide", 100, 4, 1)}, 64, 2)
	if extent.Width != 64 {
		t.Errorf("extent width = %d, want 64", extent.Width)
	}
	if placements[0].X+placements[0].Width <= 64 {
		t.Errorf("placement %+v should overflow a 64 wide shelf", placements[0])
	}
}

func TestResolveSize(t *testing.T) {
	tests := []struct {
		extent Extent
		want   int
	}{
		{Extent{64, 86}, 128},
		{Extent{64, 64}, 64},
		{Extent{64, 10}, 64},
		{Extent{1, 1}, 1},
		{Extent{256, 257}, 512},
	}
	for _, tt := range tests {
		if got := ResolveSize(tt.extent); got != tt.want {
			t.Errorf("ResolveSize(%+v) = %d, want %d", tt.extent, got, tt.want)
		}
	}
}
