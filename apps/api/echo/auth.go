package echoapi

import (
	"context"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/Shriyanshsoni96/ERP/core"
	"github.com/Shriyanshsoni96/ERP/core/user"
)

const (
	jwtContextKey  = "userToken"
	contextUserKey = "user"

	// below this score the presented face template is rejected
	faceMatchThreshold = 0.5
)

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	jwt.StandardClaims
	Name      string `json:"name,omitempty"`
	Email     string `json:"email,omitempty"`
	Role      string `json:"role,omitempty"`
	ClassID   string `json:"class_id,omitempty"`
	StudentID string `json:"student_id,omitempty"`
}

func newJWTConfig(conf *core.Config) middleware.JWTConfig {
	return middleware.JWTConfig{
		SigningKey:    conf.SecretKey,
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    jwtContextKey,
		Claims:        new(Claims),
	}
}

func GetUserClaims(conf *core.Config, usr user.User) *Claims {
	now := time.Now()
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    conf.AppName,
			Subject:   usr.ID,
			ExpiresAt: now.Add(conf.Server.JWTExpirationDelta).Unix(),
			IssuedAt:  now.Unix(),
		},
		Name:      usr.Name,
		Email:     usr.Email,
		Role:      string(usr.Role),
		ClassID:   usr.ClassID,
		StudentID: usr.StudentID,
	}
}

// GenerateToken generates a signed JWT token string representing the user Claims.
func GenerateToken(conf *core.Config, claims *Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.GetSigningMethod(middleware.AlgorithmHS256), claims)
	ss, err := token.SignedString(conf.SecretKey)
	if err != nil {
		return "", errors.New("signing token")
	}
	return ss, nil
}

// authenticate handles the email+password channel. Students are rejected
// here; admins must present face data which is stored verbatim on first
// login and scored through the FaceMatcher afterwards.
func authenticate(ctx context.Context, data LoginRequest, svc user.Service, matcher user.FaceMatcher) (user.User, error) {
	usr, err := svc.GetByEmail(ctx, data.Email)
	if err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			return user.User{}, errAuthenticationFailed
		}
		return user.User{}, errors.Wrap(err, "finding user by email")
	}
	if usr.IsStudent() {
		return user.User{}, errWrongLoginChannel
	}
	if err = usr.CheckPassword(data.Password); err != nil {
		return user.User{}, errAuthenticationFailed
	}
	if !usr.IsActive {
		return user.User{}, errAccountDeactivated
	}

	if usr.IsAdmin() {
		if data.FaceData == "" {
			return user.User{}, errFaceRequired
		}
		presented := []byte(data.FaceData)
		if len(usr.FaceTemplate) == 0 {
			if usr, err = svc.StoreFaceTemplate(ctx, usr, presented); err != nil {
				return user.User{}, errors.Wrap(err, "storing face template")
			}
		} else if matcher.Match(usr.FaceTemplate, presented) < faceMatchThreshold {
			return user.User{}, errAuthenticationFailed
		}
	}

	usr, err = svc.SetLastLogin(ctx, usr)
	if err != nil {
		return user.User{}, errors.Wrap(err, "setting lastLogin")
	}
	return usr, nil
}

// authenticateStudent handles the ID-only channel: the student ID alone is
// the credential.
func authenticateStudent(ctx context.Context, studentID string, svc user.Service) (user.User, error) {
	usr, err := svc.GetByStudentID(ctx, studentID)
	if err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			return user.User{}, errInvalidStudentID
		}
		return user.User{}, errors.Wrap(err, "finding user by student ID")
	}
	if !usr.IsActive {
		return user.User{}, errAccountDeactivated
	}
	usr, err = svc.SetLastLogin(ctx, usr)
	if err != nil {
		return user.User{}, errors.Wrap(err, "setting lastLogin")
	}
	return usr, nil
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(jwtContextKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

func getContextUser(ctx echo.Context, svc user.Service) (user.User, error) {
	if usr, ok := ctx.Get(contextUserKey).(user.User); ok {
		return usr, nil
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return user.User{}, err
	}
	usr, err := svc.GetByID(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return user.User{}, errors.Wrap(err, "finding user by ID")
	}
	ctx.Set(contextUserKey, usr)
	return usr, nil
}
