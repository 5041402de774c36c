package houses

import (
	"fmt"
	"math/rand/v2"
	"net/http"

	"go.uber.org/zap"

	"github.com/EmpoweredVote/candymap/internal/catalog"
	"github.com/EmpoweredVote/candymap/internal/httputil"
)

// maxFakeSubmissions is the exclusive upper bound of fake reports per building.
const maxFakeSubmissions = 5

// FakeSets builds random valid submission sets for every building, under
// synthetic authors. Used to populate development databases.
func FakeSets(buildings []catalog.Building, rng *rand.Rand) map[string]SubmissionSet {
	sets := make(map[string]SubmissionSet, len(buildings))
	for _, b := range buildings {
		n := rng.IntN(maxFakeSubmissions)
		if n == 0 {
			continue
		}
		set := make(SubmissionSet, n)
		for i := range n {
			set[fmt.Sprintf("seed-%d", i)] = FakeSubmission(rng)
		}
		sets[b.ID] = set
	}
	return sets
}

func FakeSubmission(rng *rand.Rand) Submission {
	if rng.Float64() < 0.75 {
		return GaveCandy(rng.Float64(), rng.Float64())
	}
	if rng.IntN(2) == 0 {
		return NoCandyGiven(NotHome)
	}
	return NoCandyGiven(NoCandy)
}

// CatalogHandler dumps the raw catalog, tags included.
func (h *Handler) CatalogHandler(w http.ResponseWriter, r *http.Request) {
	httputil.JSON(w, http.StatusOK, h.svc.catalog.All())
}

// FillAllHandler replaces every submission with random data.
func (h *Handler) FillAllHandler(w http.ResponseWriter, r *http.Request) {
	rng := rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	sets := FakeSets(h.svc.catalog.All(), rng)
	if err := h.svc.store.Replace(r.Context(), sets); err != nil {
		httputil.Error(w, h.logger, err)
		return
	}
	h.logger.Info("filled submissions with random data", zap.Int("buildings", len(sets)))
	httputil.JSON(w, http.StatusOK, httputil.Success{Success: true})
}

func testingDisabled(w http.ResponseWriter, r *http.Request) {
	httputil.Message(w, http.StatusForbidden, "Testing not allowed")
}
