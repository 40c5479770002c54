package performance

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shriyanshsoni96/ERP/core/user"
)

type fakeRepo struct {
	attendance map[string]SubjectAttendance // keyed by studentID|subject
	marks      map[string]SubjectMarks
}

var _ Repository = (*fakeRepo)(nil)

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		attendance: make(map[string]SubjectAttendance),
		marks:      make(map[string]SubjectMarks),
	}
}

func (r *fakeRepo) UpsertSubjectAttendance(_ context.Context, rec SubjectAttendance) (SubjectAttendance, error) {
	k := rec.StudentID + "|" + rec.Subject
	if prev, ok := r.attendance[k]; ok {
		rec.ID = prev.ID
	} else {
		rec.ID = k
	}
	r.attendance[k] = rec
	return rec, nil
}

func (r *fakeRepo) UpsertSubjectMarks(_ context.Context, rec SubjectMarks) (SubjectMarks, error) {
	k := rec.StudentID + "|" + rec.Subject
	if prev, ok := r.marks[k]; ok {
		rec.ID = prev.ID
	} else {
		rec.ID = k
	}
	r.marks[k] = rec
	return rec, nil
}

func (r *fakeRepo) QuerySubjectAttendance(_ context.Context, studentIDs []string) ([]SubjectAttendance, error) {
	recs := make([]SubjectAttendance, 0)
	for _, id := range studentIDs {
		for _, rec := range r.attendance {
			if rec.StudentID == id {
				recs = append(recs, rec)
			}
		}
	}
	return recs, nil
}

func (r *fakeRepo) QuerySubjectMarks(_ context.Context, studentIDs []string) ([]SubjectMarks, error) {
	recs := make([]SubjectMarks, 0)
	for _, id := range studentIDs {
		for _, rec := range r.marks {
			if rec.StudentID == id {
				recs = append(recs, rec)
			}
		}
	}
	return recs, nil
}

func pct(v float64) *float64 { return &v }

func TestUpdateAttendanceOwnership(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()

	teacher := user.User{ID: "t1", Role: user.RoleTeacher, ClassID: "10A"}
	in := UpsertAttendance{StudentID: "s1", Subject: "Math", Percentage: pct(80)}

	t.Run("unassigned teacher", func(t *testing.T) {
		unassigned := user.User{ID: "t2", Role: user.RoleTeacher}
		student := user.User{ID: "s1", Role: user.RoleStudent, ClassID: "10A"}
		_, err := svc.UpdateAttendance(ctx, unassigned, student, in)
		assert.Equal(t, ErrTeacherUnassigned, err)
	})
	t.Run("student in another class", func(t *testing.T) {
		student := user.User{ID: "s1", Role: user.RoleStudent, ClassID: "10B"}
		_, err := svc.UpdateAttendance(ctx, teacher, student, in)
		assert.Equal(t, ErrNotInClass, err)
	})
	t.Run("target is not a student", func(t *testing.T) {
		other := user.User{ID: "t3", Role: user.RoleTeacher, ClassID: "10A"}
		_, err := svc.UpdateAttendance(ctx, teacher, other, in)
		assert.Equal(t, ErrNotInClass, err)
	})
	t.Run("own class", func(t *testing.T) {
		student := user.User{ID: "s1", Role: user.RoleStudent, ClassID: "10A"}
		rec, err := svc.UpdateAttendance(ctx, teacher, student, in)
		require.NoError(t, err)
		assert.Equal(t, 80.0, rec.Percentage)
	})
}

func TestUpdateMarksUpsert(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()

	teacher := user.User{ID: "t1", Role: user.RoleTeacher, ClassID: "10A"}
	student := user.User{ID: "s1", Role: user.RoleStudent, ClassID: "10A"}

	first, err := svc.UpdateMarks(ctx, teacher, student, UpsertMarks{StudentID: "s1", Subject: "Math", Score: pct(55)})
	require.NoError(t, err)

	second, err := svc.UpdateMarks(ctx, teacher, student, UpsertMarks{StudentID: "s1", Subject: "Math", Score: pct(72)})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "same (student, subject) must overwrite, not duplicate")
	assert.Equal(t, 72.0, second.Score)

	recs, err := svc.MarksFor(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, 72.0, recs[0].Score)
}

func TestUpsertPayloadValidation(t *testing.T) {
	t.Run("zero score passes", func(t *testing.T) {
		in := UpsertMarks{StudentID: "s1", Subject: "Math", Score: pct(0)}
		assert.NoError(t, in.Validate())
	})
	t.Run("missing score fails", func(t *testing.T) {
		in := UpsertMarks{StudentID: "s1", Subject: "Math"}
		assert.Error(t, in.Validate())
	})
	t.Run("over 100 fails", func(t *testing.T) {
		in := UpsertAttendance{StudentID: "s1", Subject: "Math", Percentage: pct(101)}
		assert.Error(t, in.Validate())
	})
}
