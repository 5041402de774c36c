package catalog

// Point is a [lat, lng] vertex as written by the catalog ETL step.
type Point [2]float64

func (p Point) Lat() float64 { return p[0] }
func (p Point) Lng() float64 { return p[1] }

// Geometry is a GeoJSON-style polygon. Coordinates[0] is the outer ring.
type Geometry struct {
	Type        string    `json:"type"`
	Coordinates [][]Point `json:"coordinates"`
}

// OuterRing returns the polygon's outer ring, or nil for an empty geometry.
func (g Geometry) OuterRing() []Point {
	if len(g.Coordinates) == 0 {
		return nil
	}
	return g.Coordinates[0]
}

// Building is one catalog entry. Tags are raw source metadata and are never
// returned by the public API.
type Building struct {
	ID       string            `json:"id"`
	Tags     map[string]string `json:"tags,omitempty"`
	Geometry Geometry          `json:"geometry"`
}
