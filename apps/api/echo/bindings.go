package echoapi

import (
	"github.com/Shriyanshsoni96/ERP/core"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	FaceData string `json:"face_data"` // required for admins, opaque
}

func (lr *LoginRequest) Validate() error {
	lr.Email = core.CleanString(lr.Email, true /* lower */)
	return core.Validate.Struct(lr)
}

type StudentLoginRequest struct {
	StudentID string `json:"student_id" validate:"required"`
}

func (sl *StudentLoginRequest) Validate() error {
	sl.StudentID = core.CleanString(sl.StudentID)
	return core.Validate.Struct(sl)
}

type LoginResponse struct {
	Token string      `json:"token"`
	User  interface{} `json:"user"`
}

type SuccessResponse struct {
	Success string `json:"success"`
}

type MarkAttendanceRequest struct {
	Location string `json:"location"`
}

func (ma *MarkAttendanceRequest) Validate() error {
	ma.Location = core.CleanString(ma.Location)
	return nil
}

type QuestionRequest struct {
	Question string `json:"question" validate:"required"`
}

func (qr *QuestionRequest) Validate() error {
	qr.Question = core.CleanString(qr.Question)
	return core.Validate.Struct(qr)
}

type AnswerResponse struct {
	Answer string `json:"answer"`
}
