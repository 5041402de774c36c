package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
)

var (
	ErrNotFound = errors.New("building not found")
	ErrEmpty    = errors.New("catalog snapshot contains no buildings")
)

// Catalog is the immutable building list loaded at startup. It is safe for
// concurrent use because nothing mutates it after Load.
type Catalog struct {
	buildings []Building
	byID      map[string]int
}

// Load reads a catalog snapshot from path.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog snapshot: %w", err)
	}

	var buildings []Building
	if err := json.Unmarshal(data, &buildings); err != nil {
		return nil, fmt.Errorf("parse catalog snapshot %s: %w", path, err)
	}
	return New(buildings)
}

// New indexes buildings, rejecting empty or duplicate ids and buildings
// without an outer ring.
func New(buildings []Building) (*Catalog, error) {
	if len(buildings) == 0 {
		return nil, ErrEmpty
	}

	byID := make(map[string]int, len(buildings))
	for i, b := range buildings {
		if b.ID == "" {
			return nil, fmt.Errorf("building at index %d has no id", i)
		}
		if _, dup := byID[b.ID]; dup {
			return nil, fmt.Errorf("duplicate building id %q", b.ID)
		}
		if len(b.Geometry.OuterRing()) == 0 {
			return nil, fmt.Errorf("building %q has no outer ring", b.ID)
		}
		byID[b.ID] = i
	}

	return &Catalog{buildings: buildings, byID: byID}, nil
}

func (c *Catalog) Len() int { return len(c.buildings) }

// All returns the buildings in catalog order. Callers must not modify it.
func (c *Catalog) All() []Building { return c.buildings }

func (c *Catalog) Lookup(id string) (Building, error) {
	i, ok := c.byID[id]
	if !ok {
		return Building{}, ErrNotFound
	}
	return c.buildings[i], nil
}

// Random picks a building uniformly.
func (c *Catalog) Random() Building {
	return c.buildings[rand.IntN(len(c.buildings))]
}

// InBox returns, in catalog order, every building with at least one outer
// ring vertex inside r.
func (c *Catalog) InBox(r Rect) []Building {
	var matched []Building
	for _, b := range c.buildings {
		if r.Touches(b.Geometry.OuterRing()) {
			matched = append(matched, b)
		}
	}
	return matched
}

// Bounds returns the smallest rectangle containing every vertex in the catalog.
func (c *Catalog) Bounds() Rect {
	first := c.buildings[0].Geometry.OuterRing()[0]
	r := Rect{NWLat: first.Lat(), SELat: first.Lat(), NWLng: first.Lng(), SELng: first.Lng()}
	for _, b := range c.buildings {
		for _, p := range b.Geometry.OuterRing() {
			r.NWLat = max(r.NWLat, p.Lat())
			r.SELat = min(r.SELat, p.Lat())
			r.NWLng = min(r.NWLng, p.Lng())
			r.SELng = max(r.SELng, p.Lng())
		}
	}
	return r
}
