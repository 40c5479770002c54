package inmemdb

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Shriyanshsoni96/ERP/core/checkin"
)

type checkinRepository struct {
	db *checkinTable
}

var _ checkin.Repository = (*checkinRepository)(nil)

func NewCheckinRepository(db *DB) checkin.Repository {
	return &checkinRepository{db: db.checkins}
}

func (repo *checkinRepository) CreateCheckin(ctx context.Context, ci checkin.Checkin) (checkin.Checkin, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	ci.ID = uuid.NewString()
	ci.CreatedAt = time.Now().UTC()
	repo.db.rows = append(repo.db.rows, ci)
	return ci, nil
}

func (repo *checkinRepository) QueryStudentCheckins(ctx context.Context, studentID string, limit int) ([]checkin.Checkin, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	// rows are append-ordered; walk backwards for newest first
	cis := make([]checkin.Checkin, 0)
	for i := len(repo.db.rows) - 1; i >= 0 && (limit <= 0 || len(cis) < limit); i-- {
		if repo.db.rows[i].StudentID == studentID {
			cis = append(cis, repo.db.rows[i])
		}
	}
	return cis, nil
}
