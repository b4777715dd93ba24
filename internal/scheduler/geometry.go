package scheduler

// Rect is an axis-aligned rectangle in layout coordinates.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Area returns W*H, or 0 for degenerate rectangles.
func (r Rect) Area() float64 {
	if r.W <= 0 || r.H <= 0 {
		return 0
	}
	return r.W * r.H
}

// Expand grows r by m on every side. Negative m shrinks it.
func (r Rect) Expand(m float64) Rect {
	return Rect{X: r.X - m, Y: r.Y - m, W: r.W + 2*m, H: r.H + 2*m}
}

// Intersect returns the overlap of r and o. The result has zero area when
// they do not overlap.
func (r Rect) Intersect(o Rect) Rect {
	x0 := max(r.X, o.X)
	y0 := max(r.Y, o.Y)
	x1 := min(r.X+r.W, o.X+o.W)
	y1 := min(r.Y+r.H, o.Y+o.H)
	if x1 <= x0 || y1 <= y0 {
		return Rect{X: x0, Y: y0}
	}
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Contains reports whether the point (x, y) lies inside r, edges included.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.W && y >= r.Y && y <= r.Y+r.H
}

// Visible reports whether bounds counts as visible in viewport.
//
// The viewport is expanded by margin on every side. With threshold <= 0 any
// overlap counts; otherwise the overlap must cover at least threshold of the
// bounds' area. Zero-area bounds are visible when their origin lies inside
// the expanded viewport.
func Visible(bounds, viewport Rect, margin, threshold float64) bool {
	root := viewport.Expand(margin)
	area := bounds.Area()
	if area == 0 {
		return root.Contains(bounds.X, bounds.Y)
	}
	overlap := bounds.Intersect(root).Area()
	if threshold <= 0 {
		return overlap > 0
	}
	return overlap/area >= threshold
}
