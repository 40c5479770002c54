package user

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/pkg/errors"

	"github.com/Shriyanshsoni96/ERP/core"
)

var (
	// errors
	ErrNotFound        = errors.New("user not found")
	ErrEmailExists     = errors.New("this email has already been registered")
	ErrStudentIDExists = errors.New("student ID already allocated to another student")
	ErrNotStudent      = errors.New("user is not a student")
	ErrInvalidToken    = errors.New("invalid or expired reset token")
)

type (
	Repository interface {
		// CheckUniqueness returns ErrEmailExists or ErrStudentIDExists when
		// another (non-excluded) user already holds the email or student ID.
		// Empty values are not checked.
		CheckUniqueness(ctx context.Context, email, studentID string, excluded ...User) error
		CreateUser(ctx context.Context, usr User) (User, error)
		GetUserByID(ctx context.Context, id string) (User, error)
		GetUserByEmail(ctx context.Context, email string) (User, error)
		// GetUserByStudentID matches student accounts only; a staff row
		// that somehow holds a student ID must not authenticate here.
		GetUserByStudentID(ctx context.Context, studentID string) (User, error)
		// QueryUsers applies AND on available QueryFilter fields; a nil
		// filter returns everyone.
		QueryUsers(ctx context.Context, filter *QueryFilter) ([]User, error)
		CountUsersByRole(ctx context.Context, role Role) (int, error)
		UpdateUser(ctx context.Context, usr User) (User, error)
	}

	Service interface {
		Register(ctx context.Context, nu NewUser) (User, error)
		CreateStudent(ctx context.Context, ns NewStudent) (User, error)
		AssignStudentID(ctx context.Context, userID, studentID string) (User, error)
		GetByID(ctx context.Context, id string) (User, error)
		GetByEmail(ctx context.Context, email string) (User, error)
		GetByStudentID(ctx context.Context, studentID string) (User, error)
		Query(ctx context.Context, filter *QueryFilter) ([]User, error)
		CountByRole(ctx context.Context, role Role) (int, error)
		SetLastLogin(ctx context.Context, usr User) (User, error)
		StoreFaceTemplate(ctx context.Context, usr User, tmpl []byte) (User, error)
		RequestPasswordReset(ctx context.Context, email string) error
		ResetPassword(ctx context.Context, rp ResetUserPassword) error
	}

	service struct {
		repo    Repository
		mailSvc core.EmailService
		conf    *core.Config
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, mailSvc core.EmailService, conf *core.Config) Service {
	return &service{repo: repo, mailSvc: mailSvc, conf: conf}
}

func (svc *service) checkUniqueness(ctx context.Context, email, studentID string, excl ...User) error {
	if err := svc.repo.CheckUniqueness(ctx, email, studentID, excl...); err != nil {
		switch err {
		case ErrEmailExists:
			return core.NewValidationError(err, core.FieldError{Field: "email", Error: err.Error()})
		case ErrStudentIDExists:
			return core.NewValidationError(err, core.FieldError{Field: "student_id", Error: err.Error()})
		default:
			return errors.Wrap(err, "checking user uniqueness")
		}
	}
	return nil
}

func (svc *service) Register(ctx context.Context, nu NewUser) (User, error) {
	if err := svc.checkUniqueness(ctx, nu.Email, ""); err != nil {
		return User{}, err
	}

	now := time.Now().UTC()
	usr := User{
		Name:      nu.Name,
		Email:     nu.Email,
		Role:      nu.Role,
		ClassID:   nu.ClassID,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, errors.Wrap(err, "hashing password")
	}
	return svc.repo.CreateUser(ctx, usr)
}

func (svc *service) CreateStudent(ctx context.Context, ns NewStudent) (User, error) {
	if err := svc.checkUniqueness(ctx, ns.Email, ns.StudentID); err != nil {
		return User{}, err
	}

	pwd := ns.Password
	if pwd == "" {
		pwd = DefaultStudentPassword
	}

	now := time.Now().UTC()
	usr := User{
		Name:      ns.Name,
		Email:     ns.Email,
		Role:      RoleStudent,
		ClassID:   ns.ClassID,
		StudentID: ns.StudentID,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := usr.SetPassword(pwd); err != nil {
		return User{}, errors.Wrap(err, "hashing password")
	}
	return svc.repo.CreateUser(ctx, usr)
}

func (svc *service) AssignStudentID(ctx context.Context, userID, studentID string) (User, error) {
	usr, err := svc.repo.GetUserByID(ctx, userID)
	if err != nil {
		return User{}, err
	}
	if !usr.IsStudent() {
		return User{}, ErrNotStudent
	}
	if err := svc.checkUniqueness(ctx, "", studentID, usr); err != nil {
		return User{}, err
	}

	usr.StudentID = studentID
	usr.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateUser(ctx, usr)
}

func (svc *service) GetByID(ctx context.Context, id string) (User, error) {
	return svc.repo.GetUserByID(ctx, id)
}

func (svc *service) GetByEmail(ctx context.Context, email string) (User, error) {
	return svc.repo.GetUserByEmail(ctx, core.CleanString(email, true /* lower */))
}

func (svc *service) GetByStudentID(ctx context.Context, studentID string) (User, error) {
	return svc.repo.GetUserByStudentID(ctx, core.CleanString(studentID))
}

func (svc *service) Query(ctx context.Context, filter *QueryFilter) ([]User, error) {
	return svc.repo.QueryUsers(ctx, filter)
}

func (svc *service) CountByRole(ctx context.Context, role Role) (int, error) {
	return svc.repo.CountUsersByRole(ctx, role)
}

func (svc *service) SetLastLogin(ctx context.Context, usr User) (User, error) {
	usr.LastLogin = time.Now().UTC()
	return svc.repo.UpdateUser(ctx, usr)
}

func (svc *service) StoreFaceTemplate(ctx context.Context, usr User, tmpl []byte) (User, error) {
	usr.FaceTemplate = tmpl
	usr.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateUser(ctx, usr)
}

// RequestPasswordReset mails a reset token to the account. Callers must
// respond identically whether or not the account exists.
func (svc *service) RequestPasswordReset(ctx context.Context, email string) error {
	usr, err := svc.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	go svc.sendPasswordResetMail(usr)
	return nil
}

func (svc *service) sendPasswordResetMail(usr User) {
	token, err := MakeToken(usr, svc.conf.SecretKey)
	if err != nil {
		return
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: usr.Name, Address: usr.Email}},
		Subject: "Password Reset",
		Body: fmt.Sprintf(
			"Hi %s,\n\nFollow this link to reset your password:\n%s/reset-password?token=%s\n\n"+
				"The link expires in %s. If you did not request a reset, you can ignore this email.\n",
			usr.Name, svc.conf.FrontendBaseURL, token, svc.conf.Server.PasswordResetTimeoutDelta,
		),
	})
}

func (svc *service) ResetPassword(ctx context.Context, rp ResetUserPassword) error {
	usr, err := svc.GetByEmail(ctx, rp.Email)
	if err != nil {
		return err
	}

	if rp.Token == "" && !svc.conf.Server.AllowUnverifiedPasswordReset {
		return core.NewValidationError(ErrInvalidToken, core.FieldError{Field: "reset_token", Error: "this field is required"})
	}
	if rp.Token != "" {
		if err := verifyToken(usr, rp.Token, svc.conf.SecretKey, svc.conf.Server.PasswordResetTimeoutDelta); err != nil {
			return ErrInvalidToken
		}
	}

	if err := usr.SetPassword(rp.NewPassword); err != nil {
		return errors.Wrap(err, "hashing password")
	}
	usr.UpdatedAt = time.Now().UTC()
	_, err = svc.repo.UpdateUser(ctx, usr)
	return err
}
