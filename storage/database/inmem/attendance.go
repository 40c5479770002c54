package inmemdb

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/Shriyanshsoni96/ERP/core/attendance"
)

type attendanceRepository struct {
	db *markTable
}

var _ attendance.Repository = (*attendanceRepository)(nil)

func NewAttendanceRepository(db *DB) attendance.Repository {
	return &attendanceRepository{db: db.marks}
}

func markKey(userID string, date time.Time) string {
	return userID + "|" + date.Format("2006-01-02")
}

func (repo *attendanceRepository) CreateMark(ctx context.Context, mark attendance.Mark) (attendance.Mark, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	key := markKey(mark.UserID, mark.Date)
	if _, ok := repo.db.table[key]; ok {
		return attendance.Mark{}, attendance.ErrAlreadyMarked
	}
	mark.ID = uuid.NewString()
	repo.db.table[key] = &mark
	return mark, nil
}

func (repo *attendanceRepository) UserMarkExists(ctx context.Context, userID string, date time.Time) (bool, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	_, ok := repo.db.table[markKey(userID, date)]
	return ok, nil
}

func (repo *attendanceRepository) QueryMarksByDate(ctx context.Context, date time.Time) ([]attendance.Mark, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	marks := make([]attendance.Mark, 0)
	for _, m := range repo.db.table {
		if m.Date.Equal(attendance.DayOf(date)) {
			marks = append(marks, *m)
		}
	}
	sort.Slice(marks, func(i, j int) bool { return marks[i].CheckInTime.Before(marks[j].CheckInTime) })
	return marks, nil
}

func (repo *attendanceRepository) QueryUserMarks(ctx context.Context, userID string, limit int) ([]attendance.Mark, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	marks := make([]attendance.Mark, 0)
	for _, m := range repo.db.table {
		if m.UserID == userID {
			marks = append(marks, *m)
		}
	}
	sort.Slice(marks, func(i, j int) bool { return marks[i].Date.After(marks[j].Date) })
	if limit > 0 && len(marks) > limit {
		marks = marks[:limit]
	}
	return marks, nil
}
