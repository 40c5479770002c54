package activity

import "time"

// Action tags are a closed set so the admin listing stays filterable.
const (
	ActionLogin            = "login"
	ActionMarkAttendance   = "mark_attendance"
	ActionUpdateAttendance = "update_attendance"
	ActionUpdateMarks      = "update_marks"
	ActionMedicalRequest   = "medical_request"
	ActionMedicalDecision  = "medical_decision"
	ActionCheckin          = "checkin"
	ActionPasswordReset    = "password_reset"
	ActionUserCreated      = "user_created"
)

type Record struct {
	ID        string            `json:"id"`
	UserID    string            `json:"user_id"`
	Role      string            `json:"role"`
	Action    string            `json:"action"`
	Details   map[string]string `json:"details,omitempty"`
	IPAddress string            `json:"ip_address,omitempty"`
	UserAgent string            `json:"user_agent,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

type Filter struct {
	Role   string
	UserID string
	Limit  int
}
