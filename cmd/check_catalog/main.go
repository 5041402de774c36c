package main

import (
	"flag"
	"fmt"
	"log"
	"math"

	"github.com/joho/godotenv"

	"github.com/EmpoweredVote/candymap/internal/catalog"
)

var (
	catalogPath = flag.String("catalog", "data/final.json", "Path to the building catalog snapshot")
	nwLat       = flag.Float64("nw-lat", math.NaN(), "Query box north-west latitude")
	nwLng       = flag.Float64("nw-lng", math.NaN(), "Query box north-west longitude")
	seLat       = flag.Float64("se-lat", math.NaN(), "Query box south-east latitude")
	seLng       = flag.Float64("se-lng", math.NaN(), "Query box south-east longitude")
)

func main() {
	_ = godotenv.Load(".env.local")
	flag.Parse()

	c, err := catalog.Load(*catalogPath)
	if err != nil {
		log.Fatalf("catalog invalid: %v", err)
	}

	b := c.Bounds()
	fmt.Printf("buildings: %d\n", c.Len())
	fmt.Printf("bounds:    nw=(%.6f, %.6f) se=(%.6f, %.6f)\n", b.NWLat, b.NWLng, b.SELat, b.SELng)

	untagged := 0
	for _, bldg := range c.All() {
		if len(bldg.Tags) == 0 {
			untagged++
		}
	}
	fmt.Printf("untagged:  %d\n", untagged)

	box := catalog.Rect{NWLat: *nwLat, NWLng: *nwLng, SELat: *seLat, SELng: *seLng}
	if math.IsNaN(box.NWLat) || math.IsNaN(box.NWLng) || math.IsNaN(box.SELat) || math.IsNaN(box.SELng) {
		return
	}
	fmt.Printf("in box:    %d\n", len(c.InBox(box)))
}
