package performance

import (
	"time"

	"github.com/Shriyanshsoni96/ERP/core"
)

// SubjectAttendance is a student's attendance percentage for one subject.
// At most one record exists per (student, subject); writes are upserts.
type SubjectAttendance struct {
	ID         string    `json:"id"`
	StudentID  string    `json:"student_id"`
	Subject    string    `json:"subject"`
	Percentage float64   `json:"percentage"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// SubjectMarks is a student's score for one subject, same keying as
// SubjectAttendance.
type SubjectMarks struct {
	ID        string    `json:"id"`
	StudentID string    `json:"student_id"`
	Subject   string    `json:"subject"`
	Score     float64   `json:"score"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UpsertAttendance is a teacher's attendance-percentage update for one
// (student, subject). Percentage is a pointer so that an explicit 0 passes
// the required check.
type UpsertAttendance struct {
	StudentID  string   `json:"student_id" validate:"required"`
	Subject    string   `json:"subject" validate:"required"`
	Percentage *float64 `json:"percentage" validate:"required,gte=0,lte=100"`
}

func (ua *UpsertAttendance) Validate() error {
	ua.StudentID = core.CleanString(ua.StudentID)
	ua.Subject = core.CleanString(ua.Subject)
	return core.Validate.Struct(ua)
}

type UpsertMarks struct {
	StudentID string   `json:"student_id" validate:"required"`
	Subject   string   `json:"subject" validate:"required"`
	Score     *float64 `json:"score" validate:"required,gte=0,lte=100"`
}

func (um *UpsertMarks) Validate() error {
	um.StudentID = core.CleanString(um.StudentID)
	um.Subject = core.CleanString(um.Subject)
	return core.Validate.Struct(um)
}
