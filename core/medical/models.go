package medical

import (
	"time"

	"github.com/pkg/errors"

	"github.com/Shriyanshsoni96/ERP/core"
)

// Status of a leave request. pending is the only non-terminal state; a
// request is decided exactly once.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func (s Status) Valid() bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}

// Request is a student's medical leave request.
type Request struct {
	ID             string    `json:"id"`
	StudentID      string    `json:"student_id"`
	FromDate       time.Time `json:"from_date"`
	ToDate         time.Time `json:"to_date"`
	Reason         string    `json:"reason"`
	CertificateURL string    `json:"certificate_url,omitempty"`
	Status         Status    `json:"status"`
	DoctorRemark   string    `json:"doctor_remark"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewRequest is the student-submitted payload.
type NewRequest struct {
	FromDate       time.Time `json:"from_date" validate:"required"`
	ToDate         time.Time `json:"to_date" validate:"required"`
	Reason         string    `json:"reason" validate:"required"`
	CertificateURL string    `json:"certificate_url" validate:"omitempty,url"`
}

var errDateRange = errors.New("to_date must not precede from_date")

func (nr *NewRequest) Validate() error {
	nr.Reason = core.CleanString(nr.Reason)
	nr.CertificateURL = core.CleanString(nr.CertificateURL)
	if err := core.Validate.Struct(nr); err != nil {
		return err
	}
	if nr.ToDate.Before(nr.FromDate) {
		return core.NewValidationError(errDateRange, core.FieldError{Field: "to_date", Error: errDateRange.Error()})
	}
	return nil
}

// Review is the doctor's decision payload.
type Review struct {
	DoctorRemark string `json:"doctor_remark"`
}

func (r *Review) Validate() error {
	r.DoctorRemark = core.CleanString(r.DoctorRemark)
	return nil
}

// Stats counts requests per status.
type Stats struct {
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
	Total    int `json:"total"`
}
