package attendance

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/Shriyanshsoni96/ERP/core/user"
)

var (
	// errors
	ErrAlreadyMarked = errors.New("attendance already marked for today")
	ErrOutsideWindow = errors.New("attendance can only be marked during school hours (8 AM - 5 PM)")
	ErrMarkableRole  = errors.New("only students and teachers mark daily attendance")

	NowFunc = time.Now // mockable
)

const defaultHistoryLimit = 30

type (
	Repository interface {
		// CreateMark persists a new mark. It must return ErrAlreadyMarked
		// when a mark for (UserID, Date) already exists, atomically with the
		// write: two concurrent calls for the same pair yield exactly one
		// success.
		CreateMark(ctx context.Context, mark Mark) (Mark, error)
		UserMarkExists(ctx context.Context, userID string, date time.Time) (bool, error)
		QueryMarksByDate(ctx context.Context, date time.Time) ([]Mark, error)
		QueryUserMarks(ctx context.Context, userID string, limit int) ([]Mark, error)
	}

	// Roster exposes the slice of the user directory the ledger needs to
	// derive absentee counts.
	Roster interface {
		CountByRole(ctx context.Context, role user.Role) (int, error)
	}

	Service struct {
		repo   Repository
		roster Roster
	}
)

func NewService(repo Repository, roster Roster) *Service {
	return &Service{repo: repo, roster: roster}
}

// Mark records the caller's check-in for today. At most one mark is created
// per user per day; the repository's uniqueness guarantee is the arbiter
// under concurrency, the pre-check only gives the friendlier error first.
func (svc *Service) Mark(ctx context.Context, usr user.User, location string) (Mark, error) {
	if !usr.IsStudent() && !usr.IsTeacher() {
		return Mark{}, ErrMarkableRole
	}

	now := NowFunc()
	today := DayOf(now)

	exists, err := svc.repo.UserMarkExists(ctx, usr.ID, today)
	if err != nil {
		return Mark{}, errors.Wrap(err, "checking existing mark")
	}
	if exists {
		return Mark{}, ErrAlreadyMarked
	}

	if !withinSchoolHours(now) {
		return Mark{}, ErrOutsideWindow
	}

	mark := Mark{
		UserID:      usr.ID,
		Role:        usr.Role,
		Date:        today,
		CheckInTime: now,
		Status:      classify(now),
		Location:    location,
		CreatedAt:   now.UTC(),
	}
	return svc.repo.CreateMark(ctx, mark)
}

// History returns the user's most recent marks, newest first.
func (svc *Service) History(ctx context.Context, userID string, limit int) ([]Mark, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	return svc.repo.QueryUserMarks(ctx, userID, limit)
}

// Overview tallies the given date's marks per role. Anyone on the roster
// without a mark counts absent; totals reflect the roster at query time.
func (svc *Service) Overview(ctx context.Context, date time.Time) (Overview, error) {
	date = DayOf(date)

	records, err := svc.repo.QueryMarksByDate(ctx, date)
	if err != nil {
		return Overview{}, errors.Wrap(err, "querying day marks")
	}

	var ov Overview
	ov.Records = records
	for _, m := range records {
		var rc *RoleCount
		switch m.Role {
		case user.RoleStudent:
			rc = &ov.Students
		case user.RoleTeacher:
			rc = &ov.Teachers
		default:
			continue
		}
		switch m.Status {
		case StatusPresent:
			rc.Present++
		case StatusLate:
			rc.Late++
		}
	}

	if ov.Students.Total, err = svc.roster.CountByRole(ctx, user.RoleStudent); err != nil {
		return Overview{}, errors.Wrap(err, "counting students")
	}
	if ov.Teachers.Total, err = svc.roster.CountByRole(ctx, user.RoleTeacher); err != nil {
		return Overview{}, errors.Wrap(err, "counting teachers")
	}
	ov.Students.Absent = ov.Students.Total - ov.Students.Present - ov.Students.Late
	ov.Teachers.Absent = ov.Teachers.Total - ov.Teachers.Present - ov.Teachers.Late
	return ov, nil
}
