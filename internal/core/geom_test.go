package core

import "testing"

func TestRectContains(t *testing.T) {
	r := NewRect(10, 10, 20, 15)

	tests := []struct {
		name     string
		x, y     int
		expected bool
	}{
		{"inside", 15, 15, true},
		{"top-left corner", 10, 10, true},
		{"bottom-right edge (exclusive)", 30, 25, false},
		{"outside left", 5, 15, false},
		{"outside right", 35, 15, false},
		{"outside top", 15, 5, false},
		{"outside bottom", 15, 30, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := r.Contains(tc.x, tc.y)
			if result != tc.expected {
				t.Errorf("Contains(%d, %d) = %v, expected %v", tc.x, tc.y, result, tc.expected)
			}
		})
	}
}

func TestRectInset(t *testing.T) {
	r := NewRect(2, 3, 10, 6).Inset(1)
	if r != NewRect(3, 4, 8, 4) {
		t.Errorf("Inset(1) = %+v", r)
	}
	if !NewRect(0, 0, 2, 2).Inset(3).Empty() {
		t.Error("over-inset rect should be empty")
	}
}

func TestRectFit(t *testing.T) {
	tests := []struct {
		name       string
		area       Rect
		imgW, imgH int
		expected   Rect
	}{
		// Square image: 40 cols x 20 rows is 40x40 pixels.
		{"square fills", NewRect(0, 0, 40, 20), 100, 100, NewRect(0, 0, 40, 20)},
		{"wide letterboxed", NewRect(0, 0, 40, 20), 200, 100, NewRect(0, 5, 40, 10)},
		{"tall pillarboxed", NewRect(0, 0, 40, 20), 100, 200, NewRect(10, 0, 20, 20)},
		{"offset kept", NewRect(5, 2, 40, 20), 100, 100, NewRect(5, 2, 40, 20)},
		{"empty area", NewRect(3, 4, 0, 10), 100, 100, NewRect(3, 4, 0, 0)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.area.Fit(tc.imgW, tc.imgH)
			if got != tc.expected {
				t.Errorf("Fit() = %+v, expected %+v", got, tc.expected)
			}
		})
	}
}

func TestRectEdges(t *testing.T) {
	r := NewRect(5, 10, 20, 15)

	if r.Right() != 25 {
		t.Errorf("Right() = %d, expected 25", r.Right())
	}
	if r.Bottom() != 25 {
		t.Errorf("Bottom() = %d, expected 25", r.Bottom())
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, min, max, expected int
	}{
		{5, 0, 10, 5},   // within range
		{-5, 0, 10, 0},  // below min
		{15, 0, 10, 10}, // above max
		{0, 0, 10, 0},   // at min
		{10, 0, 10, 10}, // at max
	}

	for _, tc := range tests {
		result := Clamp(tc.val, tc.min, tc.max)
		if result != tc.expected {
			t.Errorf("Clamp(%d, %d, %d) = %d, expected %d", tc.val, tc.min, tc.max, result, tc.expected)
		}
	}
}

func TestParseHex(t *testing.T) {
	c, err := ParseHex("#FF924C")
	if err != nil {
		t.Fatalf("ParseHex() failed: %v", err)
	}
	if c != RGB(0xff, 0x92, 0x4c) || c.Hex() != "#ff924c" {
		t.Errorf("ParseHex = %+v (%s)", c, c.Hex())
	}
	for _, bad := range []string{"", "#fff", "#gggggg"} {
		if _, err := ParseHex(bad); err == nil {
			t.Errorf("ParseHex(%q) should fail", bad)
		}
	}
	if ColorDefault.Hex() != "" {
		t.Error("default color should have no hex")
	}
}
