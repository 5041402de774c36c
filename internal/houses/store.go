package houses

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store is the durable building id → (author → submission) map. Each method
// reads or writes one building's entry for one author, or whole sets, and
// never spans a multi-key transaction except Replace.
type Store interface {
	Upsert(ctx context.Context, buildingID, author string, s Submission) error
	// Delete is a no-op when the author has no submission for the building.
	Delete(ctx context.Context, buildingID, author string) error
	ForBuilding(ctx context.Context, buildingID string) (SubmissionSet, error)
	ForBuildings(ctx context.Context, buildingIDs []string) (map[string]SubmissionSet, error)
	// Replace discards every submission and stores sets instead.
	Replace(ctx context.Context, sets map[string]SubmissionSet) error
}

// inClauseChunk keeps IN lists well under the Postgres parameter limit.
const inClauseChunk = 1000

// GormStore keeps submissions in Postgres, one row per (building, author).
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Upsert(ctx context.Context, buildingID, author string, sub Submission) error {
	rec := recordFrom(buildingID, author, sub)
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "building_id"}, {Name: "author"}},
			UpdateAll: true,
		}).
		Create(&rec).Error
	if err != nil {
		return fmt.Errorf("upsert submission: %w", err)
	}
	return nil
}

func (s *GormStore) Delete(ctx context.Context, buildingID, author string) error {
	err := s.db.WithContext(ctx).
		Where("building_id = ? AND author = ?", buildingID, author).
		Delete(&SubmissionRecord{}).Error
	if err != nil {
		return fmt.Errorf("delete submission: %w", err)
	}
	return nil
}

func (s *GormStore) ForBuilding(ctx context.Context, buildingID string) (SubmissionSet, error) {
	var recs []SubmissionRecord
	if err := s.db.WithContext(ctx).Find(&recs, "building_id = ?", buildingID).Error; err != nil {
		return nil, fmt.Errorf("load submissions: %w", err)
	}
	set := make(SubmissionSet, len(recs))
	for _, rec := range recs {
		set[rec.Author] = rec.submission()
	}
	return set, nil
}

func (s *GormStore) ForBuildings(ctx context.Context, buildingIDs []string) (map[string]SubmissionSet, error) {
	out := make(map[string]SubmissionSet)
	for start := 0; start < len(buildingIDs); start += inClauseChunk {
		end := min(start+inClauseChunk, len(buildingIDs))

		var recs []SubmissionRecord
		err := s.db.WithContext(ctx).
			Where("building_id IN ?", buildingIDs[start:end]).
			Find(&recs).Error
		if err != nil {
			return nil, fmt.Errorf("load submissions: %w", err)
		}
		for _, rec := range recs {
			if out[rec.BuildingID] == nil {
				out[rec.BuildingID] = make(SubmissionSet)
			}
			out[rec.BuildingID][rec.Author] = rec.submission()
		}
	}
	return out, nil
}

func (s *GormStore) Replace(ctx context.Context, sets map[string]SubmissionSet) error {
	var recs []SubmissionRecord
	for buildingID, set := range sets {
		for author, sub := range set {
			recs = append(recs, recordFrom(buildingID, author, sub))
		}
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&SubmissionRecord{}).Error; err != nil {
			return fmt.Errorf("clear submissions: %w", err)
		}
		if len(recs) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(recs, 500).Error; err != nil {
			return fmt.Errorf("insert submissions: %w", err)
		}
		return nil
	})
}
