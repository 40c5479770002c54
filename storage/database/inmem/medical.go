package inmemdb

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/Shriyanshsoni96/ERP/core/medical"
)

type medicalRepository struct {
	db *medicalTable
}

var _ medical.Repository = (*medicalRepository)(nil)

func NewMedicalRepository(db *DB) medical.Repository {
	return &medicalRepository{db: db.medical}
}

func (repo *medicalRepository) CreateRequest(ctx context.Context, req medical.Request) (medical.Request, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	req.ID = uuid.NewString()
	repo.db.table[req.ID] = &req
	return req, nil
}

func (repo *medicalRepository) GetRequestByID(ctx context.Context, id string) (medical.Request, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if req, ok := repo.db.table[id]; ok {
		return *req, nil
	}
	return medical.Request{}, medical.ErrNotFound
}

func (repo *medicalRepository) QueryRequests(ctx context.Context, filter *medical.QueryFilter) ([]medical.Request, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	reqs := make([]medical.Request, 0)
	for _, req := range repo.db.table {
		if filter != nil {
			if filter.StudentID != "" && req.StudentID != filter.StudentID {
				continue
			}
			if filter.Status != "" && req.Status != filter.Status {
				continue
			}
		}
		reqs = append(reqs, *req)
	}
	sort.Slice(reqs, func(i, j int) bool { return reqs[i].CreatedAt.After(reqs[j].CreatedAt) })
	return reqs, nil
}

func (repo *medicalRepository) DecideRequest(ctx context.Context, id string, status medical.Status, remark string) (medical.Request, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	req, ok := repo.db.table[id]
	if !ok {
		return medical.Request{}, medical.ErrNotFound
	}
	if req.Status != medical.StatusPending {
		return medical.Request{}, medical.ErrAlreadyDecided
	}
	req.Status = status
	req.DoctorRemark = remark
	req.UpdatedAt = time.Now().UTC()
	return *req, nil
}

func (repo *medicalRepository) CountByStatus(ctx context.Context) (medical.Stats, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	var stats medical.Stats
	for _, req := range repo.db.table {
		switch req.Status {
		case medical.StatusPending:
			stats.Pending++
		case medical.StatusApproved:
			stats.Approved++
		case medical.StatusRejected:
			stats.Rejected++
		}
		stats.Total++
	}
	return stats, nil
}

func (repo *medicalRepository) HasActiveApproval(ctx context.Context, studentID string, on time.Time) (bool, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	day := time.Date(on.Year(), on.Month(), on.Day(), 0, 0, 0, 0, on.Location())
	for _, req := range repo.db.table {
		if req.StudentID != studentID || req.Status != medical.StatusApproved {
			continue
		}
		if !day.Before(req.FromDate) && !day.After(req.ToDate) {
			return true, nil
		}
	}
	return false, nil
}
