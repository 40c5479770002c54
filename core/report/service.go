package report

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/pkg/errors"

	"github.com/Shriyanshsoni96/ERP/core/performance"
	"github.com/Shriyanshsoni96/ERP/core/user"
)

var NowFunc = time.Now // mockable

type (
	// StudentDirectory is the slice of the user service the aggregation
	// needs: student lookups by class or institution-wide.
	StudentDirectory interface {
		Query(ctx context.Context, filter *user.QueryFilter) ([]user.User, error)
	}

	// PerformanceSource batch-fetches per-subject records for a set of
	// students in one round trip each.
	PerformanceSource interface {
		AttendanceFor(ctx context.Context, studentIDs ...string) ([]performance.SubjectAttendance, error)
		MarksFor(ctx context.Context, studentIDs ...string) ([]performance.SubjectMarks, error)
	}

	// ExemptionSource resolves medical eligibility; queried fresh per
	// student per aggregation pass.
	ExemptionSource interface {
		HasActiveApproval(ctx context.Context, studentID string, on time.Time) (bool, error)
	}

	Service struct {
		students   StudentDirectory
		perf       PerformanceSource
		exemptions ExemptionSource
	}
)

func NewService(students StudentDirectory, perf PerformanceSource, exemptions ExemptionSource) *Service {
	return &Service{students: students, perf: perf, exemptions: exemptions}
}

// metric accumulates one student's records for a single measure.
type metric struct {
	sum   float64
	count int
}

func (m metric) avg() float64 {
	if m.count == 0 {
		return 0
	}
	return m.sum / float64(m.count)
}

func round(v float64) int { return int(math.Round(v)) }

// StudentSummary aggregates one student's subject records.
func (svc *Service) StudentSummary(ctx context.Context, studentID string) (StudentSummary, error) {
	attRecs, err := svc.perf.AttendanceFor(ctx, studentID)
	if err != nil {
		return StudentSummary{}, errors.Wrap(err, "fetching subject attendance")
	}
	markRecs, err := svc.perf.MarksFor(ctx, studentID)
	if err != nil {
		return StudentSummary{}, errors.Wrap(err, "fetching subject marks")
	}

	sum := StudentSummary{
		AttendanceBySubject: make(map[string]float64, len(attRecs)),
		MarksBySubject:      make(map[string]float64, len(markRecs)),
	}
	var att, marks metric
	for _, r := range attRecs {
		sum.AttendanceBySubject[r.Subject] = r.Percentage
		att.sum += r.Percentage
		att.count++
	}
	for _, r := range markRecs {
		sum.MarksBySubject[r.Subject] = r.Score
		marks.sum += r.Score
		marks.count++
	}
	sum.AvgAttendance = round(att.avg())
	sum.AvgMarks = round(marks.avg())
	return sum, nil
}

// reduce folds raw subject records into per-student metrics.
func reduce(attRecs []performance.SubjectAttendance, markRecs []performance.SubjectMarks) (map[string]metric, map[string]metric) {
	att := make(map[string]metric)
	marks := make(map[string]metric)
	for _, r := range attRecs {
		m := att[r.StudentID]
		m.sum += r.Percentage
		m.count++
		att[r.StudentID] = m
	}
	for _, r := range markRecs {
		m := marks[r.StudentID]
		m.sum += r.Score
		m.count++
		marks[r.StudentID] = m
	}
	return att, marks
}

// meanOfAverages averages the per-student averages over students that have
// at least one record; zero-record students contribute to neither sum nor
// denominator.
func meanOfAverages(students []user.User, metrics map[string]metric) float64 {
	var sum float64
	var count int
	for _, s := range students {
		if m, ok := metrics[s.ID]; ok && m.count > 0 {
			sum += m.avg()
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

// ClassSummary rolls one class up and flags students needing attention,
// suppressing flags for students with an active medical exemption today.
func (svc *Service) ClassSummary(ctx context.Context, classID string) (ClassSummary, error) {
	students, err := svc.students.Query(ctx, &user.QueryFilter{Role: user.RoleStudent, ClassID: classID})
	if err != nil {
		return ClassSummary{}, errors.Wrap(err, "querying class students")
	}

	ids := make([]string, 0, len(students))
	for _, s := range students {
		ids = append(ids, s.ID)
	}
	attRecs, err := svc.perf.AttendanceFor(ctx, ids...)
	if err != nil {
		return ClassSummary{}, errors.Wrap(err, "fetching subject attendance")
	}
	markRecs, err := svc.perf.MarksFor(ctx, ids...)
	if err != nil {
		return ClassSummary{}, errors.Wrap(err, "fetching subject marks")
	}
	att, marks := reduce(attRecs, markRecs)

	today := NowFunc()
	summary := ClassSummary{
		ClassID:                  classID,
		TotalStudents:            len(students),
		AvgAttendance:            round(meanOfAverages(students, att)),
		AvgMarks:                 round(meanOfAverages(students, marks)),
		StudentsNeedingAttention: []AttentionStudent{},
	}

	for _, s := range students {
		avgAtt := att[s.ID].avg()
		avgMarks := marks[s.ID].avg()
		if avgAtt >= attendanceThreshold && avgMarks >= marksThreshold {
			continue
		}
		exempt, err := svc.exemptions.HasActiveApproval(ctx, s.ID, today)
		if err != nil {
			return ClassSummary{}, errors.Wrap(err, "resolving medical exemption")
		}
		if exempt {
			continue
		}
		summary.StudentsNeedingAttention = append(summary.StudentsNeedingAttention, AttentionStudent{
			ID:            s.ID,
			Name:          s.Name,
			Email:         s.Email,
			AvgAttendance: round(avgAtt),
			AvgMarks:      round(avgMarks),
		})
	}
	return summary, nil
}

// InstitutionSummary rolls all classes up. Class means are rounded before
// threshold comparison and formatting; classes appear in first-seen roster
// order so risk entries are stable.
func (svc *Service) InstitutionSummary(ctx context.Context) (InstitutionSummary, error) {
	students, err := svc.students.Query(ctx, &user.QueryFilter{Role: user.RoleStudent})
	if err != nil {
		return InstitutionSummary{}, errors.Wrap(err, "querying students")
	}

	ids := make([]string, 0, len(students))
	for _, s := range students {
		ids = append(ids, s.ID)
	}
	attRecs, err := svc.perf.AttendanceFor(ctx, ids...)
	if err != nil {
		return InstitutionSummary{}, errors.Wrap(err, "fetching subject attendance")
	}
	markRecs, err := svc.perf.MarksFor(ctx, ids...)
	if err != nil {
		return InstitutionSummary{}, errors.Wrap(err, "fetching subject marks")
	}
	att, marks := reduce(attRecs, markRecs)

	// distinct classes, first-seen order
	var classIDs []string
	byClass := make(map[string][]user.User)
	for _, s := range students {
		if s.ClassID == "" {
			continue
		}
		if _, seen := byClass[s.ClassID]; !seen {
			classIDs = append(classIDs, s.ClassID)
		}
		byClass[s.ClassID] = append(byClass[s.ClassID], s)
	}

	summary := InstitutionSummary{
		OverallAttendance:  round(meanOfAverages(students, att)),
		OverallPerformance: round(meanOfAverages(students, marks)),
		TotalClasses:       len(classIDs),
		TotalStudents:      len(students),
		RiskAreas:          []RiskArea{},
	}

	for _, classID := range classIDs {
		classStudents := byClass[classID]
		meanAtt := round(meanOfAverages(classStudents, att))
		meanMarks := round(meanOfAverages(classStudents, marks))
		if meanAtt < attendanceThreshold {
			summary.RiskAreas = append(summary.RiskAreas, RiskArea{
				Type:  RiskLowAttendance,
				Class: classID,
				Value: fmt.Sprintf("%d%%", meanAtt),
			})
		}
		if meanMarks < marksThreshold {
			summary.RiskAreas = append(summary.RiskAreas, RiskArea{
				Type:  RiskLowPerformance,
				Class: classID,
				Value: fmt.Sprintf("%d%%", meanMarks),
			})
		}
	}
	return summary, nil
}
