package inmemdb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/Shriyanshsoni96/ERP/core/performance"
)

type performanceRepository struct {
	db *performanceTable
}

var _ performance.Repository = (*performanceRepository)(nil)

func NewPerformanceRepository(db *DB) performance.Repository {
	return &performanceRepository{db: db.performance}
}

func subjectKey(studentID, subject string) string {
	return studentID + "|" + subject
}

func (repo *performanceRepository) UpsertSubjectAttendance(ctx context.Context, rec performance.SubjectAttendance) (performance.SubjectAttendance, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	key := subjectKey(rec.StudentID, rec.Subject)
	if existing, ok := repo.db.attendance[key]; ok {
		existing.Percentage = rec.Percentage
		existing.UpdatedAt = rec.UpdatedAt
		return *existing, nil
	}
	rec.ID = uuid.NewString()
	repo.db.attendance[key] = &rec
	return rec, nil
}

func (repo *performanceRepository) UpsertSubjectMarks(ctx context.Context, rec performance.SubjectMarks) (performance.SubjectMarks, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	key := subjectKey(rec.StudentID, rec.Subject)
	if existing, ok := repo.db.marks[key]; ok {
		existing.Score = rec.Score
		existing.UpdatedAt = rec.UpdatedAt
		return *existing, nil
	}
	rec.ID = uuid.NewString()
	repo.db.marks[key] = &rec
	return rec, nil
}

func (repo *performanceRepository) QuerySubjectAttendance(ctx context.Context, studentIDs []string) ([]performance.SubjectAttendance, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	wanted := make(map[string]bool, len(studentIDs))
	for _, id := range studentIDs {
		wanted[id] = true
	}
	recs := make([]performance.SubjectAttendance, 0)
	for _, rec := range repo.db.attendance {
		if wanted[rec.StudentID] {
			recs = append(recs, *rec)
		}
	}
	sort.Slice(recs, func(i, j int) bool {
		if recs[i].StudentID == recs[j].StudentID {
			return recs[i].Subject < recs[j].Subject
		}
		return recs[i].StudentID < recs[j].StudentID
	})
	return recs, nil
}

func (repo *performanceRepository) QuerySubjectMarks(ctx context.Context, studentIDs []string) ([]performance.SubjectMarks, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	wanted := make(map[string]bool, len(studentIDs))
	for _, id := range studentIDs {
		wanted[id] = true
	}
	recs := make([]performance.SubjectMarks, 0)
	for _, rec := range repo.db.marks {
		if wanted[rec.StudentID] {
			recs = append(recs, *rec)
		}
	}
	sort.Slice(recs, func(i, j int) bool {
		if recs[i].StudentID == recs[j].StudentID {
			return recs[i].Subject < recs[j].Subject
		}
		return recs[i].StudentID < recs[j].StudentID
	})
	return recs, nil
}
