package canvas

import (
	"errors"
	"reflect"
	"testing"
)

func TestNewRejectsInvalidSize(t *testing.T) {
	tests := []struct {
		w, h int
	}{
		{0, 5},
		{5, 0},
		{-1, 5},
		{5, -3},
	}
	for _, tt := range tests {
		if _, err := New(tt.w, tt.h); !errors.Is(err, ErrInvalidSize) {
			t.Errorf("New(%d, %d): expected ErrInvalidSize, got %v", tt.w, tt.h, err)
		}
	}
}

func TestNewIsBlank(t *testing.T) {
	c, err := New(4, 3)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if c.Width() != 4 || c.Height() != 3 {
		t.Errorf("Expected 4x3, got %dx%d", c.Width(), c.Height())
	}
	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			if r, _ := c.Get(x, y); r != Blank {
				t.Errorf("Cell (%d,%d): expected blank, got %q", x, y, r)
			}
		}
	}
}

func TestSetBounds(t *testing.T) {
	c, _ := New(3, 2)

	tests := []struct {
		x, y int
		ok   bool
	}{
		{0, 0, true},
		{2, 1, true},
		{3, 0, false},
		{0, 2, false},
		{-1, 0, false},
		{0, -1, false},
	}
	for _, tt := range tests {
		if got := c.Set(tt.x, tt.y, '#'); got != tt.ok {
			t.Errorf("Set(%d, %d) = %v, want %v", tt.x, tt.y, got, tt.ok)
		}
	}

	want := []string{"#  ", "  #"}
	if got := c.Snapshot().Lines(); !reflect.DeepEqual(got, want) {
		t.Errorf("Out-of-bounds writes leaked: got %q, want %q", got, want)
	}
}

func TestGet(t *testing.T) {
	c, _ := New(2, 2)
	c.Set(1, 1, 'z')

	if r, ok := c.Get(1, 1); !ok || r != 'z' {
		t.Errorf("Get(1,1) = %q, %v", r, ok)
	}
	if _, ok := c.Get(2, 0); ok {
		t.Error("Get out of bounds reported ok")
	}
}

func TestWriteString(t *testing.T) {
	tests := []struct {
		name    string
		s       string
		x, y    int
		written int
		row     string
	}{
		{"fits", "abc", 1, 0, 3, " abc "},
		{"clips right", "abcdef", 2, 0, 3, "  abc"},
		{"clips left", "abcd", -2, 0, 2, "cd   "},
		{"row out of bounds", "abc", 0, 5, 0, "     "},
		{"past right edge", "abc", 5, 0, 0, "     "},
		{"unicode", "héllo", 0, 0, 5, "héllo"},
		{"empty", "", 0, 0, 0, "     "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := New(5, 1)
			if got := c.WriteString(tt.s, tt.x, tt.y); got != tt.written {
				t.Errorf("WriteString() = %d, want %d", got, tt.written)
			}
			if got := c.Snapshot().Lines()[0]; got != tt.row {
				t.Errorf("Row = %q, want %q", got, tt.row)
			}
		})
	}
}

func TestFillAndClear(t *testing.T) {
	// Odd sizes exercise the tail of the exponential copy
	for _, size := range [][2]int{{1, 1}, {3, 3}, {7, 5}, {50, 10}} {
		c, _ := New(size[0], size[1])
		c.Fill('.')
		f := c.Snapshot()
		for y := 0; y < f.Height(); y++ {
			for x := 0; x < f.Width(); x++ {
				if f.At(x, y) != '.' {
					t.Fatalf("%dx%d: cell (%d,%d) not filled", size[0], size[1], x, y)
				}
			}
		}

		c.Clear()
		if got := c.Snapshot().At(size[0]-1, size[1]-1); got != Blank {
			t.Errorf("%dx%d: expected blank after Clear, got %q", size[0], size[1], got)
		}
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	c, _ := New(3, 1)
	c.WriteString("abc", 0, 0)
	f := c.Snapshot()

	c.Clear()
	c.Set(0, 0, 'x')

	if got := f.String(); got != "abc" {
		t.Errorf("Snapshot changed with canvas: got %q", got)
	}
}

func TestFrameAccessors(t *testing.T) {
	f := NewFrame(4, "ab", "abcdef", "")

	if f.Width() != 4 || f.Height() != 3 {
		t.Fatalf("Expected 4x3, got %dx%d", f.Width(), f.Height())
	}
	if got := f.String(); got != "ab  \nabcd\n    " {
		t.Errorf("String() = %q", got)
	}
	if f.Row(-1) != nil || f.Row(3) != nil {
		t.Error("Row out of range should be nil")
	}
	if f.At(10, 0) != Blank {
		t.Error("At out of range should be blank")
	}
	if f.At(1, 1) != 'b' {
		t.Errorf("At(1,1) = %q", f.At(1, 1))
	}
}

func TestFrameEqualsSnapshot(t *testing.T) {
	c, _ := New(4, 2)
	c.WriteString("hi", 1, 1)

	want := NewFrame(4, "", " hi")
	if !reflect.DeepEqual(c.Snapshot(), want) {
		t.Errorf("Snapshot %q != NewFrame %q", c.Snapshot().String(), want.String())
	}
}
