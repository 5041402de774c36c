package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func square(id string, lat, lng, size float64) Building {
	return Building{
		ID:   id,
		Tags: map[string]string{"building": "house"},
		Geometry: Geometry{
			Type: "Polygon",
			Coordinates: [][]Point{{
				{lat, lng}, {lat, lng + size}, {lat + size, lng + size}, {lat + size, lng}, {lat, lng},
			}},
		},
	}
}

func TestLoadSnapshot(t *testing.T) {
	c, err := Load(filepath.Join("testdata", "final.json"))
	require.NoError(t, err)

	assert.Equal(t, 3, c.Len())
	b, err := c.Lookup("101")
	require.NoError(t, err)
	assert.Equal(t, "house", b.Tags["building"])
	assert.Equal(t, Point{49.5, -112.5}, b.Geometry.OuterRing()[0])
}

func TestLoadFailures(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
		return p
	}

	cases := map[string]string{
		"missing":   filepath.Join(dir, "absent.json"),
		"garbage":   write("garbage.json", "{not json"),
		"empty":     write("empty.json", "[]"),
		"no id":     write("noid.json", `[{"geometry":{"type":"Polygon","coordinates":[[[1,1]]]}}]`),
		"duplicate": write("dup.json", `[{"id":"1","geometry":{"coordinates":[[[1,1]]]}},{"id":"1","geometry":{"coordinates":[[[2,2]]]}}]`),
		"no ring":   write("noring.json", `[{"id":"1","geometry":{"type":"Polygon","coordinates":[]}}]`),
	}
	for name, path := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestLookupEveryBuilding(t *testing.T) {
	buildings := []Building{square("a", 1, 1, 0.1), square("b", 2, 2, 0.1), square("c", 3, 3, 0.1)}
	c, err := New(buildings)
	require.NoError(t, err)

	for _, want := range buildings {
		got, err := c.Lookup(want.ID)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err = c.Lookup("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRandomReturnsCatalogMember(t *testing.T) {
	c, err := New([]Building{square("a", 1, 1, 0.1), square("b", 2, 2, 0.1)})
	require.NoError(t, err)

	seen := map[string]bool{}
	for range 200 {
		b := c.Random()
		_, err := c.Lookup(b.ID)
		require.NoError(t, err)
		seen[b.ID] = true
	}
	assert.Len(t, seen, 2)
}

func TestInBoxVertexMembership(t *testing.T) {
	box := Rect{NWLat: 50, NWLng: -113, SELat: 49, SELng: -112}

	inside := square("inside", 49.4, -112.6, 0.1)
	straddling := square("straddling", 49.95, -112.05, 0.1)
	outside := square("outside", 51, -114, 0.1)
	onEdge := Building{ID: "edge", Geometry: Geometry{Coordinates: [][]Point{{{50, -113}, {50.5, -113.5}}}}}

	// Encloses the box without any vertex inside it.
	enclosing := square("enclosing", 48, -114, 3)
	// Crosses the box with an edge but has no vertex inside.
	crossing := Building{ID: "crossing", Geometry: Geometry{Coordinates: [][]Point{{
		{49.5, -113.5}, {49.5, -111.5}, {49.6, -111.5}, {49.6, -113.5}, {49.5, -113.5},
	}}}}

	c, err := New([]Building{inside, enclosing, straddling, outside, onEdge, crossing})
	require.NoError(t, err)

	var ids []string
	for _, b := range c.InBox(box) {
		ids = append(ids, b.ID)
	}
	assert.Equal(t, []string{"inside", "straddling", "edge"}, ids)
}

func TestInBoxNoMatches(t *testing.T) {
	c, err := New([]Building{square("a", 10, 10, 0.1)})
	require.NoError(t, err)

	assert.Empty(t, c.InBox(Rect{NWLat: 1, NWLng: 0, SELat: 0, SELng: 1}))
}

func TestBounds(t *testing.T) {
	c, err := Load(filepath.Join("testdata", "final.json"))
	require.NoError(t, err)

	assert.Equal(t, Rect{NWLat: 51.1, NWLng: -114.0, SELat: 49.5, SELng: -112.4}, c.Bounds())
}
