package user

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/Shriyanshsoni96/ERP/core"
)

// Role is the single role held by an identity.
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
	RoleDoctor  Role = "doctor"
	RoleAdmin   Role = "admin"
)

var AllRoles = []Role{RoleStudent, RoleTeacher, RoleDoctor, RoleAdmin}

func (r Role) Valid() bool {
	for _, role := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}

// DefaultStudentPassword is set on admin-created students when no password
// is provided; students log in by ID, the password only matters if the
// account is later converted to the email channel.
const DefaultStudentPassword = "student123"

type User struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
	ClassID   string `json:"class_id,omitempty"`
	StudentID string `json:"student_id,omitempty"`
	IsActive  bool   `json:"is_active"`

	PasswordHash []byte `json:"-"`
	FaceTemplate []byte `json:"-"` // opaque; only ever compared via FaceMatcher

	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
	LastLogin time.Time `json:"last_login"` // UTC
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

func (u *User) IsStudent() bool { return u.Role == RoleStudent }
func (u *User) IsTeacher() bool { return u.Role == RoleTeacher }
func (u *User) IsDoctor() bool  { return u.Role == RoleDoctor }
func (u *User) IsAdmin() bool   { return u.Role == RoleAdmin }

// NewUser contains information needed to register a new non-student User.
type NewUser struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     Role   `json:"role" validate:"required,oneof=teacher doctor admin"`
	ClassID  string `json:"class_id"`
}

func (nu *NewUser) Validate() error {
	nu.Name = core.CleanString(nu.Name)
	nu.Email = core.CleanString(nu.Email, true /* lower */)
	nu.ClassID = core.CleanString(nu.ClassID)
	return core.Validate.Struct(nu)
}

// NewStudent contains information needed for admin-initiated student creation.
type NewStudent struct {
	Name      string `json:"name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	StudentID string `json:"student_id" validate:"required"`
	ClassID   string `json:"class_id"`
	Password  string `json:"password" validate:"omitempty,min=6"`
}

func (ns *NewStudent) Validate() error {
	ns.Name = core.CleanString(ns.Name)
	ns.Email = core.CleanString(ns.Email, true /* lower */)
	ns.StudentID = core.CleanString(ns.StudentID)
	ns.ClassID = core.CleanString(ns.ClassID)
	return core.Validate.Struct(ns)
}

// AssignStudentID (re)assigns an allocated ID to an existing student.
type AssignStudentID struct {
	StudentID string `json:"student_id" validate:"required"`
}

func (as *AssignStudentID) Validate() error {
	as.StudentID = core.CleanString(as.StudentID)
	return core.Validate.Struct(as)
}

type ForgotPassword struct {
	Email string `json:"email" validate:"required,email"`
}

func (fp *ForgotPassword) Validate() error {
	fp.Email = core.CleanString(fp.Email, true /* lower */)
	return core.Validate.Struct(fp)
}

type ResetUserPassword struct {
	Email       string `json:"email" validate:"required,email"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
	Token       string `json:"reset_token"`
}

func (rp *ResetUserPassword) Validate() error {
	rp.Email = core.CleanString(rp.Email, true /* lower */)
	return core.Validate.Struct(rp)
}

// QueryFilter narrows QueryUsers results. Fields combine with AND.
type QueryFilter struct {
	Role    Role   `query:"role"`
	ClassID string `query:"class_id"`
}

func (qf *QueryFilter) IsEmpty() bool { return qf.Role == "" && qf.ClassID == "" }
