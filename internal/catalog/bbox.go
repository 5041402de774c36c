package catalog

// Rect is a query rectangle given by its north-west and south-east corners.
type Rect struct {
	NWLat float64
	NWLng float64
	SELat float64
	SELng float64
}

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Point) bool {
	lat, lng := p.Lat(), p.Lng()
	return lat >= r.SELat && lat <= r.NWLat && lng >= r.NWLng && lng <= r.SELng
}

// Touches reports whether at least one vertex of ring lies inside r.
//
// This is a vertex membership test, not polygon intersection: a ring that
// crosses r, or encloses it, without a vertex inside does not match. Map
// clients rely on this exact result set.
func (r Rect) Touches(ring []Point) bool {
	for _, p := range ring {
		if r.Contains(p) {
			return true
		}
	}
	return false
}
