package inmemdb

import (
	"sync"

	"github.com/Shriyanshsoni96/ERP/core/activity"
	"github.com/Shriyanshsoni96/ERP/core/attendance"
	"github.com/Shriyanshsoni96/ERP/core/checkin"
	"github.com/Shriyanshsoni96/ERP/core/medical"
	"github.com/Shriyanshsoni96/ERP/core/performance"
	"github.com/Shriyanshsoni96/ERP/core/user"
)

// DB is the in-memory store backing tests and local development. Each table
// is guarded by its own mutex so repositories stay independent.
type DB struct {
	users       *userTable
	marks       *markTable
	performance *performanceTable
	medical     *medicalTable
	checkins    *checkinTable
	activities  *activityTable
}

func NewDB() *DB {
	return &DB{
		users:       &userTable{table: make(map[string]*user.User)},
		marks:       &markTable{table: make(map[string]*attendance.Mark)},
		performance: &performanceTable{attendance: make(map[string]*performance.SubjectAttendance), marks: make(map[string]*performance.SubjectMarks)},
		medical:     &medicalTable{table: make(map[string]*medical.Request)},
		checkins:    &checkinTable{},
		activities:  &activityTable{},
	}
}

type userTable struct {
	mutex sync.RWMutex
	table map[string]*user.User
}

type markTable struct {
	mutex sync.Mutex
	table map[string]*attendance.Mark
}

type performanceTable struct {
	mutex      sync.RWMutex
	attendance map[string]*performance.SubjectAttendance
	marks      map[string]*performance.SubjectMarks
}

type medicalTable struct {
	mutex sync.Mutex
	table map[string]*medical.Request
}

type checkinTable struct {
	mutex sync.RWMutex
	rows  []checkin.Checkin
}

type activityTable struct {
	mutex sync.RWMutex
	rows  []activity.Record
}
