package houses

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/EmpoweredVote/candymap/internal/apperr"
	"github.com/EmpoweredVote/candymap/internal/catalog"
	"github.com/EmpoweredVote/candymap/internal/metrics"
)

var errHouseNotFound = apperr.NotFound("House not found")

// Service joins the building catalog with the submission store.
type Service struct {
	catalog *catalog.Catalog
	store   Store
	logger  *zap.Logger
}

func NewService(c *catalog.Catalog, store Store, logger *zap.Logger) *Service {
	return &Service{catalog: c, store: store, logger: logger}
}

func (s *Service) lookup(buildingID string) (catalog.Building, error) {
	b, err := s.catalog.Lookup(buildingID)
	if errors.Is(err, catalog.ErrNotFound) {
		return catalog.Building{}, errHouseNotFound
	}
	return b, err
}

// Record stores author's submission for the building, replacing any earlier
// one by the same author. The caller guarantees author is authenticated.
func (s *Service) Record(ctx context.Context, buildingID, author string, p Payload) error {
	if _, err := s.lookup(buildingID); err != nil {
		return err
	}
	sub, err := p.Validate()
	if err != nil {
		return err
	}
	if err := s.store.Upsert(ctx, buildingID, author, sub); err != nil {
		return err
	}

	metrics.RecordSubmission()
	s.logger.Debug("submission recorded",
		zap.String("building_id", buildingID),
		zap.Bool("candy", sub.Candy),
	)
	return nil
}

// Delete removes author's own submission for the building. Only the caller's
// key is ever touched, so one user cannot remove another's report.
func (s *Service) Delete(ctx context.Context, buildingID, author string) error {
	if _, err := s.lookup(buildingID); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, buildingID, author); err != nil {
		return err
	}

	metrics.DeleteSubmission()
	s.logger.Debug("submission deleted", zap.String("building_id", buildingID))
	return nil
}

// View returns the public form of a building. viewer may be empty.
func (s *Service) View(ctx context.Context, buildingID, viewer string) (HouseView, error) {
	b, err := s.lookup(buildingID)
	if err != nil {
		return HouseView{}, err
	}
	set, err := s.store.ForBuilding(ctx, b.ID)
	if err != nil {
		return HouseView{}, err
	}
	return buildView(b, set, viewer), nil
}

// Random returns the view of a uniformly chosen building.
func (s *Service) Random(ctx context.Context, viewer string) (HouseView, error) {
	b := s.catalog.Random()
	set, err := s.store.ForBuilding(ctx, b.ID)
	if err != nil {
		return HouseView{}, err
	}
	return buildView(b, set, viewer), nil
}

// InBox returns views of every building with a vertex inside r, in catalog order.
func (s *Service) InBox(ctx context.Context, r catalog.Rect, viewer string) ([]HouseView, error) {
	matched := s.catalog.InBox(r)
	if len(matched) == 0 {
		return []HouseView{}, nil
	}

	ids := make([]string, len(matched))
	for i, b := range matched {
		ids[i] = b.ID
	}
	sets, err := s.store.ForBuildings(ctx, ids)
	if err != nil {
		return nil, err
	}

	views := make([]HouseView, len(matched))
	for i, b := range matched {
		views[i] = buildView(b, sets[b.ID], viewer)
	}
	return views, nil
}

func buildView(b catalog.Building, set SubmissionSet, viewer string) HouseView {
	v := HouseView{
		ID:              b.ID,
		Geometry:        b.Geometry,
		Submissions:     set.Values(),
		SubmissionCount: len(set),
		Stats:           Aggregate(set),
	}
	if viewer != "" {
		if own, ok := set[viewer]; ok {
			v.Submission = &own
		}
	}
	return v
}

// Exists reports NotFound for an unknown building id.
func (s *Service) Exists(buildingID string) error {
	_, err := s.lookup(buildingID)
	return err
}
