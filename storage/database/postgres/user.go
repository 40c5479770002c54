package pgdb

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/Shriyanshsoni96/ERP/core/user"
)

type userRow struct {
	ID           string    `db:"id"`
	Name         string    `db:"name"`
	Email        string    `db:"email"`
	Role         string    `db:"role"`
	ClassID      string    `db:"class_id"`
	StudentID    string    `db:"student_id"`
	IsActive     bool      `db:"is_active"`
	PasswordHash []byte    `db:"password_hash"`
	FaceTemplate []byte    `db:"face_template"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
	LastLogin    time.Time `db:"last_login"`
}

func (r userRow) toCore() user.User {
	return user.User{
		ID:           r.ID,
		Name:         r.Name,
		Email:        r.Email,
		Role:         user.Role(r.Role),
		ClassID:      r.ClassID,
		StudentID:    r.StudentID,
		IsActive:     r.IsActive,
		PasswordHash: r.PasswordHash,
		FaceTemplate: r.FaceTemplate,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
		LastLogin:    r.LastLogin,
	}
}

func toUserRow(usr user.User) userRow {
	return userRow{
		ID:           usr.ID,
		Name:         usr.Name,
		Email:        usr.Email,
		Role:         string(usr.Role),
		ClassID:      usr.ClassID,
		StudentID:    usr.StudentID,
		IsActive:     usr.IsActive,
		PasswordHash: usr.PasswordHash,
		FaceTemplate: usr.FaceTemplate,
		CreatedAt:    usr.CreatedAt,
		UpdatedAt:    usr.UpdatedAt,
		LastLogin:    usr.LastLogin,
	}
}

type userRepository struct {
	db *sqlx.DB
}

var _ user.Repository = (*userRepository)(nil)

func NewUserRepository(db *sqlx.DB) user.Repository {
	return &userRepository{db: db}
}

func (repo *userRepository) CheckUniqueness(ctx context.Context, email, studentID string, excluded ...user.User) error {
	exclIDs := make([]string, 0, len(excluded))
	for _, usr := range excluded {
		exclIDs = append(exclIDs, usr.ID)
	}

	if email != "" {
		var exists bool
		err := repo.db.GetContext(ctx, &exists,
			`SELECT EXISTS (SELECT 1 FROM "user" WHERE LOWER(email) = LOWER($1) AND id <> ALL($2))`,
			email, pq.Array(exclIDs))
		if err != nil {
			return errors.Wrap(err, "checking email uniqueness")
		}
		if exists {
			return user.ErrEmailExists
		}
	}

	if studentID != "" {
		var exists bool
		err := repo.db.GetContext(ctx, &exists,
			`SELECT EXISTS (SELECT 1 FROM "user" WHERE student_id = $1 AND id <> ALL($2))`,
			studentID, pq.Array(exclIDs))
		if err != nil {
			return errors.Wrap(err, "checking student ID uniqueness")
		}
		if exists {
			return user.ErrStudentIDExists
		}
	}
	return nil
}

func (repo *userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	usr.ID = uuid.NewString()
	row := toUserRow(usr)
	_, err := repo.db.NamedExecContext(ctx,
		`INSERT INTO "user" (id, name, email, role, class_id, student_id, is_active, password_hash, face_template, created_at, updated_at, last_login)
		 VALUES (:id, :name, :email, :role, :class_id, :student_id, :is_active, :password_hash, :face_template, :created_at, :updated_at, :last_login)`,
		row)
	if err != nil {
		return user.User{}, errors.Wrap(err, "inserting user")
	}
	return usr, nil
}

func (repo *userRepository) getUserBy(ctx context.Context, where string, arg interface{}) (user.User, error) {
	var row userRow
	err := repo.db.GetContext(ctx, &row, `SELECT * FROM "user" WHERE `+where, arg)
	if err == sql.ErrNoRows {
		return user.User{}, user.ErrNotFound
	}
	if err != nil {
		return user.User{}, errors.Wrap(err, "getting user")
	}
	return row.toCore(), nil
}

func (repo *userRepository) GetUserByID(ctx context.Context, id string) (user.User, error) {
	return repo.getUserBy(ctx, "id = $1", id)
}

func (repo *userRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	return repo.getUserBy(ctx, "LOWER(email) = LOWER($1)", email)
}

func (repo *userRepository) GetUserByStudentID(ctx context.Context, studentID string) (user.User, error) {
	return repo.getUserBy(ctx, "student_id = $1 AND student_id <> '' AND role = 'student'", studentID)
}

func (repo *userRepository) QueryUsers(ctx context.Context, filter *user.QueryFilter) ([]user.User, error) {
	q := `SELECT * FROM "user" WHERE TRUE`
	args := make([]interface{}, 0, 2)
	if filter != nil {
		if filter.Role != "" {
			args = append(args, string(filter.Role))
			q += ` AND role = $1`
		}
		if filter.ClassID != "" {
			args = append(args, filter.ClassID)
			if len(args) == 1 {
				q += ` AND class_id = $1`
			} else {
				q += ` AND class_id = $2`
			}
		}
	}
	q += ` ORDER BY created_at, id`

	var rows []userRow
	if err := repo.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying users")
	}
	users := make([]user.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, row.toCore())
	}
	return users, nil
}

func (repo *userRepository) CountUsersByRole(ctx context.Context, role user.Role) (int, error) {
	var count int
	err := repo.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM "user" WHERE role = $1`, string(role))
	return count, errors.Wrap(err, "counting users")
}

func (repo *userRepository) UpdateUser(ctx context.Context, usr user.User) (user.User, error) {
	row := toUserRow(usr)
	res, err := repo.db.NamedExecContext(ctx,
		`UPDATE "user"
		 SET name = :name, email = :email, role = :role, class_id = :class_id, student_id = :student_id,
		     is_active = :is_active, password_hash = :password_hash, face_template = :face_template,
		     updated_at = :updated_at, last_login = :last_login
		 WHERE id = :id`,
		row)
	if err != nil {
		return user.User{}, errors.Wrap(err, "updating user")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return user.User{}, user.ErrNotFound
	}
	return usr, nil
}
