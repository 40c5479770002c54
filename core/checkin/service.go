package checkin

import (
	"context"

	"github.com/pkg/errors"
)

type (
	Repository interface {
		CreateCheckin(ctx context.Context, ci Checkin) (Checkin, error)
		QueryStudentCheckins(ctx context.Context, studentID string, limit int) ([]Checkin, error)
	}

	Service interface {
		Create(ctx context.Context, studentID string, nc NewCheckin) (Checkin, error)
		History(ctx context.Context, studentID string) ([]Checkin, error)
	}

	service struct {
		repo Repository
	}
)

const defaultHistoryLimit = 30

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) Create(ctx context.Context, studentID string, nc NewCheckin) (Checkin, error) {
	ci, err := svc.repo.CreateCheckin(ctx, Checkin{
		StudentID: studentID,
		Mood:      nc.Mood,
		Note:      nc.Note,
	})
	return ci, errors.Wrap(err, "creating checkin")
}

func (svc *service) History(ctx context.Context, studentID string) ([]Checkin, error) {
	cis, err := svc.repo.QueryStudentCheckins(ctx, studentID, defaultHistoryLimit)
	return cis, errors.Wrap(err, "querying checkins")
}
