/*

Package region implements the rectangle-list damage geometry used by
the scene pipeline.

A Region is an ordered list of axis-aligned rectangles together with a
cached bounding extent.  Rectangles follow the half-open convention: a
rectangle owns the points [X, X+W) x [Y, Y+H).  The list is not
canonicalized, so a region may contain overlapping rectangles; point
membership and the extents stay correct regardless.

*/
package region

// A Rect is an axis-aligned rectangle with fractional coordinates.
type Rect struct {
	X, Y, W, H float64
}

// Empty reports whether the rectangle covers no points.
func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// ContainsPoint reports whether (x, y) lies inside r under the
// half-open convention.
func (r Rect) ContainsPoint(x, y float64) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Intersect clips r against o.  The second return value is false when
// the rectangles share no area; the clip is kept only if both of its
// dimensions are strictly positive.
func (r Rect) Intersect(o Rect) (Rect, bool) {
	x := max(r.X, o.X)
	y := max(r.Y, o.Y)
	w := min(r.X+r.W, o.X+o.W) - x
	h := min(r.Y+r.H, o.Y+o.H) - y
	if w <= 0 || h <= 0 {
		return Rect{}, false
	}
	return Rect{X: x, Y: y, W: w, H: h}, true
}

// union returns the bounding box of r and o.  Both are assumed
// non-empty.
func (r Rect) union(o Rect) Rect {
	x := min(r.X, o.X)
	y := min(r.Y, o.Y)
	w := max(r.X+r.W, o.X+o.W) - x
	h := max(r.Y+r.H, o.Y+o.H) - y
	return Rect{X: x, Y: y, W: w, H: h}
}

// initialCap is the rectangle capacity a region starts with.
const initialCap = 4

// A Region is a growable rectangle list with a cached bounding extent.
// The zero Region is empty and ready to use.
type Region struct {
	rects   []Rect
	extents Rect
}

// New returns an empty region with the initial capacity allocated.
func New() *Region {
	return &Region{rects: make([]Rect, 0, initialCap)}
}

// Clear releases the rectangle list and resets the extents.  Clearing
// an already-cleared region is safe.
func (rg *Region) Clear() {
	rg.rects = nil
	rg.extents = Rect{}
}

// IsNil reports whether the region contains no rectangles.
func (rg *Region) IsNil() bool { return len(rg.rects) == 0 }

// Len returns the number of rectangles in the region.
func (rg *Region) Len() int { return len(rg.rects) }

// At returns the i'th rectangle in insertion order.
func (rg *Region) At(i int) Rect { return rg.rects[i] }

// Rects returns a copy of the rectangle list in insertion order.
func (rg *Region) Rects() []Rect {
	out := make([]Rect, len(rg.rects))
	copy(out, rg.rects)
	return out
}

// Extents returns the cached bounding box of all rectangles.  It is the
// zero Rect when the region is nil.
func (rg *Region) Extents() Rect { return rg.extents }

// grow doubles the rectangle capacity until it can hold one more entry.
func (rg *Region) grow() {
	c := cap(rg.rects)
	if c == 0 {
		c = initialCap
	} else {
		c *= 2
	}
	rects := make([]Rect, len(rg.rects), c)
	copy(rects, rg.rects)
	rg.rects = rects
}

// Add appends r to the region and widens the extents to cover it.  The
// first rectangle becomes the extents verbatim.
func (rg *Region) Add(r Rect) {
	if len(rg.rects) == cap(rg.rects) {
		rg.grow()
	}
	rg.rects = append(rg.rects, r)
	if len(rg.rects) == 1 {
		rg.extents = r
	} else {
		rg.extents = rg.extents.union(r)
	}
}

// ContainsPoint reports whether any rectangle of the region contains
// (x, y).  The extents serve as a cheap rejection test.
func (rg *Region) ContainsPoint(x, y float64) bool {
	if len(rg.rects) == 0 || !rg.extents.ContainsPoint(x, y) {
		return false
	}
	for _, r := range rg.rects {
		if r.ContainsPoint(x, y) {
			return true
		}
	}
	return false
}

// IntersectRect returns the region formed by clipping r against each
// rectangle of rg in order.  The result is nil (empty) when nothing
// overlaps.
func (rg *Region) IntersectRect(r Rect) *Region {
	out := New()
	for _, u := range rg.rects {
		if clip, ok := u.Intersect(r); ok {
			out.Add(clip)
		}
	}
	return out
}

// Intersect returns the pairwise clips of every rectangle of a against
// every rectangle of b, in a-major order.
func Intersect(a, b *Region) *Region {
	out := New()
	for _, u := range a.rects {
		for _, v := range b.rects {
			if clip, ok := u.Intersect(v); ok {
				out.Add(clip)
			}
		}
	}
	return out
}

// Union inserts every rectangle of src into rg.  No merging or
// simplification is performed; overlapping entries are kept as-is.
func (rg *Region) Union(src *Region) {
	for _, r := range src.rects {
		rg.Add(r)
	}
}
