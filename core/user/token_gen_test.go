package user

import (
	"testing"
	"time"
)

func TestMakeVerifyToken(t *testing.T) {
	key := []byte("secret")
	maxAge := time.Hour

	now := time.Now()
	usr := User{
		ID:        "5f2d",
		Name:      "T",
		Email:     "t@test.test",
		Role:      RoleTeacher,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
		LastLogin: now,
	}
	_ = usr.SetPassword("pwd")

	validToken, err := MakeToken(usr, key)
	if err != nil {
		t.Fatalf("MakeToken() failed: %v", err)
	}

	// generate an expired token
	late := maxAge + time.Minute
	NowFunc = func() time.Time { return time.Now().Add(-late) }
	expiredToken, err := MakeToken(usr, key)
	if err != nil {
		t.Fatalf("MakeToken() failed: %v", err)
	}
	NowFunc = time.Now // reset

	otherUsr := usr
	otherUsr.ID = "9a1c"

	tests := []struct {
		name    string
		usr     User
		token   string
		wantErr error
	}{
		{name: "no token", usr: usr, wantErr: errInvalidToken},
		{name: "invalid parts len", usr: usr, token: "lmaooolol", wantErr: errInvalidToken},
		{name: "invalid base32", usr: usr, token: "hahaha-sigsig-sig", wantErr: errInvalidToken},
		{name: "invalid timestamp", usr: usr, token: "NRXWY-sigsig-sig", wantErr: errInvalidToken},
		{name: "invalid token", usr: usr, token: "HE4TS-sigsig-sig", wantErr: errInvalidToken},
		{name: "another user's token", usr: otherUsr, token: validToken, wantErr: errInvalidToken},
		{name: "expired token", usr: usr, token: expiredToken, wantErr: errTokenExpired},
		{name: "valid token", usr: usr, token: validToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := verifyToken(tt.usr, tt.token, key, maxAge); err != tt.wantErr {
				t.Errorf("verifyToken() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestTokenInvalidatedByPasswordChange(t *testing.T) {
	key := []byte("secret")
	usr := User{ID: "5f2d", Email: "t@test.test"}
	_ = usr.SetPassword("pwd")

	token, err := MakeToken(usr, key)
	if err != nil {
		t.Fatalf("MakeToken() failed: %v", err)
	}
	if err = verifyToken(usr, token, key, time.Hour); err != nil {
		t.Fatalf("verifyToken() failed: %v", err)
	}

	_ = usr.SetPassword("newpwd")
	if err = verifyToken(usr, token, key, time.Hour); err != errInvalidToken {
		t.Errorf("verifyToken() error = %v, want %v", err, errInvalidToken)
	}
}
