package report

// StudentSummary is one student's per-subject and averaged performance.
// Averages are rounded to the nearest integer; students with no records
// average to zero.
type StudentSummary struct {
	AttendanceBySubject map[string]float64 `json:"attendance_by_subject"`
	MarksBySubject      map[string]float64 `json:"marks_by_subject"`
	AvgAttendance       int                `json:"avg_attendance"`
	AvgMarks            int                `json:"avg_marks"`
}

// AttentionStudent is a flagged entry in a class summary: the student fell
// below an attendance or marks threshold with no active medical exemption.
type AttentionStudent struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Email              string `json:"email"`
	AvgAttendance      int    `json:"avg_attendance"`
	AvgMarks           int    `json:"avg_marks"`
	HasMedicalApproval bool   `json:"has_medical_approval"`
}

// ClassSummary rolls one class up. Class averages are means of the
// per-student averages, taken only over students having records for the
// metric.
type ClassSummary struct {
	ClassID                  string             `json:"class_id"`
	TotalStudents            int                `json:"total_students"`
	AvgAttendance            int                `json:"avg_attendance"`
	AvgMarks                 int                `json:"avg_marks"`
	StudentsNeedingAttention []AttentionStudent `json:"students_needing_attention"`
}

// RiskArea is one institution-level indicator for a class whose mean fell
// below threshold.
type RiskArea struct {
	Type  string `json:"type"`
	Class string `json:"class"`
	Value string `json:"value"`
}

const (
	RiskLowAttendance  = "Low Attendance"
	RiskLowPerformance = "Low Performance"
)

// InstitutionSummary rolls all classes up.
type InstitutionSummary struct {
	OverallAttendance  int        `json:"overall_attendance"`
	OverallPerformance int        `json:"overall_performance"`
	TotalClasses       int        `json:"total_classes"`
	TotalStudents      int        `json:"total_students"`
	RiskAreas          []RiskArea `json:"risk_areas"`
}

// Risk thresholds, in percent.
const (
	attendanceThreshold = 75
	marksThreshold      = 60
)
