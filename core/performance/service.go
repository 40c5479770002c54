package performance

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/Shriyanshsoni96/ERP/core/user"
)

var (
	// errors
	ErrNotInClass        = errors.New("student not in your class")
	ErrTeacherUnassigned = errors.New("teacher not assigned to a class")
)

type (
	Repository interface {
		// UpsertSubjectAttendance creates or overwrites the record keyed by
		// (StudentID, Subject); the storage layer owns the uniqueness.
		UpsertSubjectAttendance(ctx context.Context, rec SubjectAttendance) (SubjectAttendance, error)
		UpsertSubjectMarks(ctx context.Context, rec SubjectMarks) (SubjectMarks, error)
		// QuerySubjectAttendance returns the records of all given students
		// in one round trip.
		QuerySubjectAttendance(ctx context.Context, studentIDs []string) ([]SubjectAttendance, error)
		QuerySubjectMarks(ctx context.Context, studentIDs []string) ([]SubjectMarks, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// checkOwnership verifies the teacher may grade the student: both must share
// a class.
func checkOwnership(teacher, student user.User) error {
	if teacher.ClassID == "" {
		return ErrTeacherUnassigned
	}
	if !student.IsStudent() || student.ClassID != teacher.ClassID {
		return ErrNotInClass
	}
	return nil
}

func (svc *Service) UpdateAttendance(ctx context.Context, teacher, student user.User, in UpsertAttendance) (SubjectAttendance, error) {
	if err := checkOwnership(teacher, student); err != nil {
		return SubjectAttendance{}, err
	}
	rec := SubjectAttendance{
		StudentID:  student.ID,
		Subject:    in.Subject,
		Percentage: *in.Percentage,
		UpdatedAt:  time.Now().UTC(),
	}
	out, err := svc.repo.UpsertSubjectAttendance(ctx, rec)
	return out, errors.Wrap(err, "upserting subject attendance")
}

func (svc *Service) UpdateMarks(ctx context.Context, teacher, student user.User, in UpsertMarks) (SubjectMarks, error) {
	if err := checkOwnership(teacher, student); err != nil {
		return SubjectMarks{}, err
	}
	rec := SubjectMarks{
		StudentID: student.ID,
		Subject:   in.Subject,
		Score:     *in.Score,
		UpdatedAt: time.Now().UTC(),
	}
	out, err := svc.repo.UpsertSubjectMarks(ctx, rec)
	return out, errors.Wrap(err, "upserting subject marks")
}

func (svc *Service) AttendanceFor(ctx context.Context, studentIDs ...string) ([]SubjectAttendance, error) {
	return svc.repo.QuerySubjectAttendance(ctx, studentIDs)
}

func (svc *Service) MarksFor(ctx context.Context, studentIDs ...string) ([]SubjectMarks, error) {
	return svc.repo.QuerySubjectMarks(ctx, studentIDs)
}
