package inmemdb

import (
	"context"

	"github.com/google/uuid"

	"github.com/Shriyanshsoni96/ERP/core/activity"
)

type activityRepository struct {
	db *activityTable
}

var _ activity.Repository = (*activityRepository)(nil)

func NewActivityRepository(db *DB) activity.Repository {
	return &activityRepository{db: db.activities}
}

func (repo *activityRepository) CreateRecord(ctx context.Context, rec activity.Record) (activity.Record, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	rec.ID = uuid.NewString()
	repo.db.rows = append(repo.db.rows, rec)
	return rec, nil
}

func (repo *activityRepository) QueryRecords(ctx context.Context, filter *activity.Filter) ([]activity.Record, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	recs := make([]activity.Record, 0)
	for i := len(repo.db.rows) - 1; i >= 0 && (filter.Limit <= 0 || len(recs) < filter.Limit); i-- {
		rec := repo.db.rows[i]
		if filter.Role != "" && rec.Role != filter.Role {
			continue
		}
		if filter.UserID != "" && rec.UserID != filter.UserID {
			continue
		}
		recs = append(recs, rec)
	}
	return recs, nil
}
