package report

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shriyanshsoni96/ERP/core/performance"
	"github.com/Shriyanshsoni96/ERP/core/user"
)

type fakeDirectory []user.User

func (d fakeDirectory) Query(_ context.Context, filter *user.QueryFilter) ([]user.User, error) {
	out := make([]user.User, 0)
	for _, u := range d {
		if filter != nil {
			if filter.Role != "" && u.Role != filter.Role {
				continue
			}
			if filter.ClassID != "" && u.ClassID != filter.ClassID {
				continue
			}
		}
		out = append(out, u)
	}
	return out, nil
}

type fakePerf struct {
	attendance []performance.SubjectAttendance
	marks      []performance.SubjectMarks
}

func (p fakePerf) AttendanceFor(_ context.Context, studentIDs ...string) ([]performance.SubjectAttendance, error) {
	out := make([]performance.SubjectAttendance, 0)
	for _, rec := range p.attendance {
		for _, id := range studentIDs {
			if rec.StudentID == id {
				out = append(out, rec)
			}
		}
	}
	return out, nil
}

func (p fakePerf) MarksFor(_ context.Context, studentIDs ...string) ([]performance.SubjectMarks, error) {
	out := make([]performance.SubjectMarks, 0)
	for _, rec := range p.marks {
		for _, id := range studentIDs {
			if rec.StudentID == id {
				out = append(out, rec)
			}
		}
	}
	return out, nil
}

type fakeExemptions map[string]bool

func (e fakeExemptions) HasActiveApproval(_ context.Context, studentID string, _ time.Time) (bool, error) {
	return e[studentID], nil
}

func att(studentID, subject string, pct float64) performance.SubjectAttendance {
	return performance.SubjectAttendance{StudentID: studentID, Subject: subject, Percentage: pct}
}

func marks(studentID, subject string, score float64) performance.SubjectMarks {
	return performance.SubjectMarks{StudentID: studentID, Subject: subject, Score: score}
}

func student(id, name, classID string) user.User {
	return user.User{ID: id, Name: name, Email: name + "@school.test", Role: user.RoleStudent, ClassID: classID}
}

func TestStudentSummary(t *testing.T) {
	perf := fakePerf{
		attendance: []performance.SubjectAttendance{
			att("s1", "Math", 90),
			att("s1", "Science", 71),
			att("s2", "Math", 40), // someone else's record
		},
		marks: []performance.SubjectMarks{
			marks("s1", "Math", 62.5),
		},
	}
	svc := NewService(fakeDirectory{}, perf, fakeExemptions{})

	sum, err := svc.StudentSummary(context.Background(), "s1")
	require.NoError(t, err)

	assert.Equal(t, map[string]float64{"Math": 90, "Science": 71}, sum.AttendanceBySubject)
	assert.Equal(t, map[string]float64{"Math": 62.5}, sum.MarksBySubject)
	assert.Equal(t, 81, sum.AvgAttendance) // (90+71)/2 = 80.5, rounds up
	assert.Equal(t, 63, sum.AvgMarks)      // 62.5 rounds up
}

func TestStudentSummaryNoRecords(t *testing.T) {
	svc := NewService(fakeDirectory{}, fakePerf{}, fakeExemptions{})

	sum, err := svc.StudentSummary(context.Background(), "s1")
	require.NoError(t, err)
	assert.Zero(t, sum.AvgAttendance)
	assert.Zero(t, sum.AvgMarks)
	assert.Empty(t, sum.AttendanceBySubject)
}

func TestClassSummary(t *testing.T) {
	dir := fakeDirectory{
		student("s1", "ada", "10A"),
		student("s2", "bob", "10A"),
		student("s3", "cyd", "10A"), // no records at all
		student("s4", "dan", "10B"), // other class
	}
	perf := fakePerf{
		attendance: []performance.SubjectAttendance{
			att("s1", "Math", 90), att("s1", "Science", 80), // avg 85
			att("s2", "Math", 60), // avg 60, below 75
		},
		marks: []performance.SubjectMarks{
			marks("s1", "Math", 80), // avg 80
			marks("s2", "Math", 50), // avg 50, below 60
		},
	}
	svc := NewService(dir, perf, fakeExemptions{})

	sum, err := svc.ClassSummary(context.Background(), "10A")
	require.NoError(t, err)

	assert.Equal(t, "10A", sum.ClassID)
	assert.Equal(t, 3, sum.TotalStudents)
	// class means ignore the record-less s3: (85+60)/2 and (80+50)/2
	assert.Equal(t, 73, sum.AvgAttendance)
	assert.Equal(t, 65, sum.AvgMarks)

	// s2 is below both thresholds; s3 has no records (averages to 0) and is
	// flagged too
	require.Len(t, sum.StudentsNeedingAttention, 2)
	assert.Equal(t, "s2", sum.StudentsNeedingAttention[0].ID)
	assert.Equal(t, 60, sum.StudentsNeedingAttention[0].AvgAttendance)
	assert.Equal(t, 50, sum.StudentsNeedingAttention[0].AvgMarks)
	assert.Equal(t, "s3", sum.StudentsNeedingAttention[1].ID)
}

func TestClassSummaryMedicalSuppression(t *testing.T) {
	dir := fakeDirectory{
		student("s1", "ada", "10A"),
		student("s2", "bob", "10A"),
	}
	perf := fakePerf{
		attendance: []performance.SubjectAttendance{
			att("s1", "Math", 50),
			att("s2", "Math", 50),
		},
		marks: []performance.SubjectMarks{
			marks("s1", "Math", 90),
			marks("s2", "Math", 90),
		},
	}
	svc := NewService(dir, perf, fakeExemptions{"s1": true})

	sum, err := svc.ClassSummary(context.Background(), "10A")
	require.NoError(t, err)

	// both are below the attendance threshold, but s1 holds an active
	// approval; the class averages still include s1
	require.Len(t, sum.StudentsNeedingAttention, 1)
	assert.Equal(t, "s2", sum.StudentsNeedingAttention[0].ID)
	assert.Equal(t, 50, sum.AvgAttendance)
}

func TestClassSummaryAllHealthy(t *testing.T) {
	dir := fakeDirectory{student("s1", "ada", "10A")}
	perf := fakePerf{
		attendance: []performance.SubjectAttendance{att("s1", "Math", 95)},
		marks:      []performance.SubjectMarks{marks("s1", "Math", 88)},
	}
	svc := NewService(dir, perf, fakeExemptions{})

	sum, err := svc.ClassSummary(context.Background(), "10A")
	require.NoError(t, err)
	assert.NotNil(t, sum.StudentsNeedingAttention)
	assert.Empty(t, sum.StudentsNeedingAttention)
}

func TestInstitutionSummary(t *testing.T) {
	dir := fakeDirectory{
		student("s1", "ada", "10A"),
		student("s2", "bob", "10B"),
		student("s3", "cyd", "10A"),
		student("s4", "dan", ""), // unassigned, counts toward totals only
	}
	perf := fakePerf{
		attendance: []performance.SubjectAttendance{
			att("s1", "Math", 90),
			att("s3", "Math", 80), // 10A mean 85
			att("s2", "Math", 50), // 10B mean 50, below 75
			att("s4", "Math", 70),
		},
		marks: []performance.SubjectMarks{
			marks("s1", "Math", 70),
			marks("s3", "Math", 80), // 10A mean 75
			marks("s2", "Math", 40), // 10B mean 40, below 60
			marks("s4", "Math", 90),
		},
	}
	svc := NewService(dir, perf, fakeExemptions{})

	sum, err := svc.InstitutionSummary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, sum.TotalStudents)
	assert.Equal(t, 2, sum.TotalClasses) // "" is not a class
	assert.Equal(t, 73, sum.OverallAttendance)
	assert.Equal(t, 70, sum.OverallPerformance)

	// classes surface in roster order, attendance before performance per class
	require.Len(t, sum.RiskAreas, 2)
	assert.Equal(t, RiskArea{Type: RiskLowAttendance, Class: "10B", Value: "50%"}, sum.RiskAreas[0])
	assert.Equal(t, RiskArea{Type: RiskLowPerformance, Class: "10B", Value: "40%"}, sum.RiskAreas[1])
}

func TestInstitutionSummaryEmpty(t *testing.T) {
	svc := NewService(fakeDirectory{}, fakePerf{}, fakeExemptions{})

	sum, err := svc.InstitutionSummary(context.Background())
	require.NoError(t, err)
	assert.Zero(t, sum.TotalStudents)
	assert.Zero(t, sum.OverallAttendance)
	assert.NotNil(t, sum.RiskAreas)
	assert.Empty(t, sum.RiskAreas)
}
