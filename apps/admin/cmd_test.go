package main

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/Shriyanshsoni96/ERP/core/user"
	inmemdb "github.com/Shriyanshsoni96/ERP/storage/database/inmem"
)

func setup() (*commandLine, user.Repository) {
	usrRepo := inmemdb.NewUserRepository(inmemdb.NewDB())
	return &commandLine{usrRepo: usrRepo}, usrRepo
}

type cliTest struct {
	name       string
	args       []string // without program name
	pwd        string
	wantErr    error
	wantErrStr string
}

func Test_commandLine_migrate(t *testing.T) {
	cli, _ := setup()

	migrateRunFunc = func(command string, db *sql.DB, args ...string) error {
		switch command {
		case "up", "up-by-one", "down", "redo", "reset", "status", "version", "fix": // pass
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		return nil
	}

	tests := []cliTest{
		{name: "no subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "down", args: []string{"migrate", "down"}},
		{name: "status", args: []string{"migrate", "status"}},
		{name: "version", args: []string{"migrate", "version"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			if err := cli.run(args); err != nil {
				if tt.wantErr != nil {
					if err != tt.wantErr {
						t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
					}
				} else if tt.wantErrStr != "" {
					if err.Error() != tt.wantErrStr {
						t.Errorf("cli.run() error.Error() = %s, wantErrStr %s", err.Error(), tt.wantErrStr)
					}
				} else {
					t.Errorf("cli.run() unexpected error = %v", err)
				}
			}
		})
	}
}

func Test_commandLine_addUser(t *testing.T) {
	cli, usrRepo := setup()

	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "no args", args: []string{"adduser"}, wantErr: errHelp},
		{name: "name but no email", args: []string{"adduser", "-name", "Ada"}, wantErr: errHelp},
		{name: "empty password", args: []string{"adduser", "-name", "Ada", "-email", "ada@test.cd"}, wantErr: errHelp},
		{name: "bad role", args: []string{"adduser", "-name", "Ada", "-email", "ada@test.cd", "-role", "pirate"}, pwd: "s3cret", wantErr: errBadRole},
		{name: "default admin role", args: []string{"adduser", "-name", "Ada", "-email", "ada@test.cd"}, pwd: "s3cret"},
		{name: "teacher with class", args: []string{"adduser", "-name", "Bob", "-email", "bob@test.cd", "-role", "teacher", "-class", "10A"}, pwd: "s3cret"},
		{name: "existing user updated", args: []string{"adduser", "-name", "Ada L", "-email", "ada@test.cd"}, pwd: "n3wpwd"},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		readPasswordFunc = func(fd int) ([]byte, error) {
			return []byte(tt.pwd), nil
		}

		t.Run(tt.name, func(t *testing.T) {
			if err := cli.run(args); err != tt.wantErr {
				t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	ada, err := usrRepo.GetUserByEmail(context.Background(), "ada@test.cd")
	if err != nil {
		t.Fatalf("GetUserByEmail(): %v", err)
	}
	if ada.Role != user.RoleAdmin {
		t.Errorf("role = %v; want admin", ada.Role)
	}
	if ada.Name != "Ada L" {
		t.Errorf("name = %v; want the updated name", ada.Name)
	}
	if err := ada.CheckPassword("n3wpwd"); err != nil {
		t.Error("password not updated")
	}

	bob, err := usrRepo.GetUserByEmail(context.Background(), "bob@test.cd")
	if err != nil {
		t.Fatalf("GetUserByEmail(): %v", err)
	}
	if bob.Role != user.RoleTeacher || bob.ClassID != "10A" {
		t.Errorf("user = %+v", bob)
	}
}

func Test_commandLine_resetPassword(t *testing.T) {
	cli, usrRepo := setup()

	usr := user.User{Name: "Awe", Email: "awe@test.cd", Role: user.RoleTeacher, IsActive: true}
	if err := usr.SetPassword("0ldpwd"); err != nil {
		t.Fatalf("SetPassword(): %v", err)
	}
	usr, err := usrRepo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser(): %v", err)
	}

	tests := []cliTest{
		{name: "no args", args: []string{"resetpassword"}, wantErr: errHelp},
		{name: "email but no password", args: []string{"resetpassword", "-email", "awe@test.cd"}, wantErr: errHelp},
		{name: "user not found", args: []string{"resetpassword", "-email", "lol@test.cd"}, pwd: "lol", wantErr: user.ErrNotFound},
		{name: "reset", args: []string{"resetpassword", "-email", "awe@test.cd"}, pwd: "n3wpwd"},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		readPasswordFunc = func(fd int) ([]byte, error) {
			return []byte(tt.pwd), nil
		}

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			if err == nil {
				refreshed, err := usrRepo.GetUserByID(context.Background(), usr.ID)
				if err != nil {
					t.Fatalf("GetUserByID(): %v", err)
				}
				if bytes.Equal(refreshed.PasswordHash, usr.PasswordHash) {
					t.Error("failed to update new password")
				}
			} else if err != tt.wantErr {
				t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
