package attendance

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shriyanshsoni96/ERP/core/user"
)

type fakeRepo struct {
	mu    sync.Mutex
	seq   int
	table map[string]Mark
}

var _ Repository = (*fakeRepo)(nil)

func newFakeRepo() *fakeRepo {
	return &fakeRepo{table: make(map[string]Mark)}
}

func key(userID string, date time.Time) string {
	return userID + "|" + date.Format("2006-01-02")
}

func (r *fakeRepo) CreateMark(_ context.Context, mark Mark) (Mark, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := key(mark.UserID, mark.Date)
	if _, ok := r.table[k]; ok {
		return Mark{}, ErrAlreadyMarked
	}
	r.seq++
	mark.ID = string(rune('a' + r.seq))
	r.table[k] = mark
	return mark, nil
}

func (r *fakeRepo) UserMarkExists(_ context.Context, userID string, date time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.table[key(userID, date)]
	return ok, nil
}

func (r *fakeRepo) QueryMarksByDate(_ context.Context, date time.Time) ([]Mark, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	marks := make([]Mark, 0)
	for _, m := range r.table {
		if m.Date.Equal(DayOf(date)) {
			marks = append(marks, m)
		}
	}
	return marks, nil
}

func (r *fakeRepo) QueryUserMarks(_ context.Context, userID string, limit int) ([]Mark, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	marks := make([]Mark, 0)
	for _, m := range r.table {
		if m.UserID == userID {
			marks = append(marks, m)
		}
	}
	if limit > 0 && len(marks) > limit {
		marks = marks[:limit]
	}
	return marks, nil
}

type fakeRoster map[user.Role]int

func (r fakeRoster) CountByRole(_ context.Context, role user.Role) (int, error) {
	return r[role], nil
}

func at(hour, min int) time.Time {
	return time.Date(2024, time.March, 11, hour, min, 0, 0, time.Local)
}

func TestMarkWindowAndClassification(t *testing.T) {
	student := user.User{ID: "s1", Role: user.RoleStudent}

	tests := []struct {
		name       string
		now        time.Time
		wantStatus Status
		wantErr    error
	}{
		{name: "before opening", now: at(7, 59), wantErr: ErrOutsideWindow},
		{name: "at opening", now: at(8, 0), wantStatus: StatusPresent},
		{name: "at cutoff", now: at(9, 0), wantStatus: StatusPresent},
		{name: "just past cutoff", now: at(9, 1), wantStatus: StatusLate},
		{name: "last minute", now: at(16, 59), wantStatus: StatusLate},
		{name: "at closing", now: at(17, 0), wantErr: ErrOutsideWindow},
		{name: "evening", now: at(21, 30), wantErr: ErrOutsideWindow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(newFakeRepo(), fakeRoster{})
			NowFunc = func() time.Time { return tt.now }
			defer func() { NowFunc = time.Now }()

			mark, err := svc.Mark(context.Background(), student, "")
			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, mark.Status)
			assert.Equal(t, DayOf(tt.now), mark.Date)
		})
	}
}

func TestMarkOncePerDay(t *testing.T) {
	svc := NewService(newFakeRepo(), fakeRoster{})
	NowFunc = func() time.Time { return at(8, 30) }
	defer func() { NowFunc = time.Now }()

	student := user.User{ID: "s1", Role: user.RoleStudent}

	_, err := svc.Mark(context.Background(), student, "gate A")
	require.NoError(t, err)

	_, err = svc.Mark(context.Background(), student, "gate A")
	assert.Equal(t, ErrAlreadyMarked, err)

	// the duplicate check precedes the window check
	NowFunc = func() time.Time { return at(19, 0) }
	_, err = svc.Mark(context.Background(), student, "")
	assert.Equal(t, ErrAlreadyMarked, err)
}

func TestMarkConcurrentDuplicate(t *testing.T) {
	svc := NewService(newFakeRepo(), fakeRoster{})
	NowFunc = func() time.Time { return at(8, 30) }
	defer func() { NowFunc = time.Now }()

	student := user.User{ID: "s1", Role: user.RoleStudent}

	const n = 8
	errs := make(chan error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Mark(context.Background(), student, "")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var ok, dup int
	for err := range errs {
		switch err {
		case nil:
			ok++
		case ErrAlreadyMarked:
			dup++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok, "exactly one mark must win")
	assert.Equal(t, n-1, dup)
}

func TestMarkRejectsNonMarkableRoles(t *testing.T) {
	svc := NewService(newFakeRepo(), fakeRoster{})
	NowFunc = func() time.Time { return at(8, 30) }
	defer func() { NowFunc = time.Now }()

	for _, usr := range []user.User{
		{ID: "d1", Role: user.RoleDoctor},
		{ID: "a1", Role: user.RoleAdmin},
	} {
		_, err := svc.Mark(context.Background(), usr, "")
		assert.Equal(t, ErrMarkableRole, err)
	}
}

func TestOverviewDerivedAbsent(t *testing.T) {
	repo := newFakeRepo()
	roster := fakeRoster{user.RoleStudent: 5, user.RoleTeacher: 2}
	svc := NewService(repo, roster)

	NowFunc = func() time.Time { return at(8, 30) }
	_, err := svc.Mark(context.Background(), user.User{ID: "s1", Role: user.RoleStudent}, "")
	require.NoError(t, err)
	_, err = svc.Mark(context.Background(), user.User{ID: "t1", Role: user.RoleTeacher}, "")
	require.NoError(t, err)

	NowFunc = func() time.Time { return at(9, 30) } // late
	_, err = svc.Mark(context.Background(), user.User{ID: "s2", Role: user.RoleStudent}, "")
	require.NoError(t, err)
	defer func() { NowFunc = time.Now }()

	ov, err := svc.Overview(context.Background(), at(12, 0))
	require.NoError(t, err)

	assert.Equal(t, RoleCount{Present: 1, Late: 1, Absent: 3, Total: 5}, ov.Students)
	assert.Equal(t, RoleCount{Present: 1, Late: 0, Absent: 1, Total: 2}, ov.Teachers)
	assert.Len(t, ov.Records, 3)
}
