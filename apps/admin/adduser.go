package main

import (
	"context"
	"errors"
	"time"

	"github.com/Shriyanshsoni96/ERP/core"
	"github.com/Shriyanshsoni96/ERP/core/user"
)

var errBadRole = errors.New("role must be one of teacher, doctor, admin")

// addUser updates or creates a user.User
func (cli *commandLine) addUser(name, email, pwd string, role user.Role, classID string) error {
	ctx := context.Background()
	email = core.CleanString(email, true /* lower */)

	if !role.Valid() || role == user.RoleStudent {
		return errBadRole // students are created through the API
	}

	now := time.Now().UTC()
	usr, err := cli.usrRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if err != user.ErrNotFound {
			return err
		}
		usr = user.User{
			Email:     email,
			CreatedAt: now,
		}
	}
	usr.Name = core.CleanString(name)
	usr.Role = role
	usr.ClassID = core.CleanString(classID)
	usr.IsActive = true
	usr.UpdatedAt = now
	if err := usr.SetPassword(pwd); err != nil {
		return err
	}

	if usr.ID == "" {
		_, err = cli.usrRepo.CreateUser(ctx, usr)
	} else {
		_, err = cli.usrRepo.UpdateUser(ctx, usr)
	}
	return err
}
