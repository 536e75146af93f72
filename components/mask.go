package components

import "math"

// Rect is an integer axis-aligned rectangle with its origin at the top-left corner.
type Rect struct {
	X, Y, W, H int
}

// RectAt returns a w×h rectangle centered on the rounded point (cx, cy).
func RectAt(cx, cy float64, w, h int) Rect {
	return Rect{
		X: int(math.Round(cx)) - w/2,
		Y: int(math.Round(cy)) - h/2,
		W: w,
		H: h,
	}
}

func (r Rect) Left() int   { return r.X }
func (r Rect) Top() int    { return r.Y }
func (r Rect) Right() int  { return r.X + r.W }
func (r Rect) Bottom() int { return r.Y + r.H }

// Overlaps reports whether two rectangles share at least one pixel.
// Rectangles that only touch along an edge do not overlap.
func (r Rect) Overlaps(o Rect) bool {
	return r.X < o.X+o.W && o.X < r.X+r.W &&
		r.Y < o.Y+o.H && o.Y < r.Y+r.H
}

// Mask is a 1-bit per-pixel collision mask.
// Bits are stored row-major, one uint64 word per 64 columns.
type Mask struct {
	W, H  int
	words int // words per row
	bits  []uint64
}

// NewMask creates an empty w×h mask.
func NewMask(w, h int) *Mask {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	words := (w + 63) / 64
	return &Mask{W: w, H: h, words: words, bits: make([]uint64, words*h)}
}

// Set marks pixel (x, y) as solid. Out-of-range pixels are ignored.
func (m *Mask) Set(x, y int) {
	if x < 0 || y < 0 || x >= m.W || y >= m.H {
		return
	}
	m.bits[y*m.words+x/64] |= 1 << uint(x%64)
}

// Get reports whether pixel (x, y) is solid.
func (m *Mask) Get(x, y int) bool {
	if x < 0 || y < 0 || x >= m.W || y >= m.H {
		return false
	}
	return m.bits[y*m.words+x/64]&(1<<uint(x%64)) != 0
}

// Count returns the number of solid pixels.
func (m *Mask) Count() int {
	n := 0
	for y := 0; y < m.H; y++ {
		for x := 0; x < m.W; x++ {
			if m.Get(x, y) {
				n++
			}
		}
	}
	return n
}

// Overlap reports whether any solid pixel of m coincides with a solid pixel of other,
// where other's top-left corner sits at (dx, dy) relative to m's top-left corner.
func (m *Mask) Overlap(other *Mask, dx, dy int) bool {
	if m == nil || other == nil {
		return false
	}
	x0 := max(0, dx)
	y0 := max(0, dy)
	x1 := min(m.W, dx+other.W)
	y1 := min(m.H, dy+other.H)
	if x0 >= x1 || y0 >= y1 {
		return false
	}
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			if m.Get(x, y) && other.Get(x-dx, y-dy) {
				return true
			}
		}
	}
	return false
}

// MaskRect returns a fully solid w×h mask.
func MaskRect(w, h int) *Mask {
	m := NewMask(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m.Set(x, y)
		}
	}
	return m
}

// MaskEllipse returns the ellipse inscribed in a w×h box.
func MaskEllipse(w, h int) *Mask {
	m := NewMask(w, h)
	rx := float64(w) / 2
	ry := float64(h) / 2
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			nx := (float64(x) + 0.5 - rx) / rx
			ny := (float64(y) + 0.5 - ry) / ry
			if nx*nx+ny*ny <= 1 {
				m.Set(x, y)
			}
		}
	}
	return m
}

// MaskTriangle returns a triangle with its base on the right edge and its apex
// at the middle of the left edge, the silhouette of a ship flying left.
func MaskTriangle(w, h int) *Mask {
	m := NewMask(w, h)
	half := float64(h) / 2
	for y := 0; y < h; y++ {
		dist := math.Abs(float64(y) + 0.5 - half)
		for x := 0; x < w; x++ {
			// Half-height of the triangle at this column
			if dist <= half*(float64(x)+0.5)/float64(w) {
				m.Set(x, y)
			}
		}
	}
	return m
}

// MaskMirror returns m flipped horizontally.
func MaskMirror(m *Mask) *Mask {
	out := NewMask(m.W, m.H)
	for y := 0; y < m.H; y++ {
		for x := 0; x < m.W; x++ {
			if m.Get(x, y) {
				out.Set(m.W-1-x, y)
			}
		}
	}
	return out
}
