package attendance

import (
	"time"

	"github.com/Shriyanshsoni96/ERP/core/user"
)

// Status classifies one day's presence. Absent is never stored: it is the
// query-time complement of the roster (everyone without a mark for the day).
type Status string

const (
	StatusPresent Status = "present"
	StatusLate    Status = "late"
	StatusAbsent  Status = "absent"
)

// School hours: marking is accepted in [08:00, 17:00); a check-in after
// 09:00 is late.
const (
	openingHour    = 8
	closingHour    = 17
	lateCutoffMins = 9 * 60
)

// Mark is one daily presence record. At most one exists per (user, date);
// the persistence layer owns that invariant.
type Mark struct {
	ID           string     `json:"id"`
	UserID       string     `json:"user_id"`
	Role         user.Role  `json:"role"`
	Date         time.Time  `json:"date"` // day granularity, time-zeroed
	CheckInTime  time.Time  `json:"check_in_time"`
	CheckOutTime *time.Time `json:"check_out_time,omitempty"`
	Status       Status     `json:"status"`
	Location     string     `json:"location,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// RoleCount is the daily presence breakdown for one role. Absent is the
// derived complement: total roster minus present minus late.
type RoleCount struct {
	Present int `json:"present"`
	Late    int `json:"late"`
	Absent  int `json:"absent"`
	Total   int `json:"total"`
}

// Overview is the daily attendance picture across students and teachers.
type Overview struct {
	Students RoleCount `json:"students"`
	Teachers RoleCount `json:"teachers"`
	Records  []Mark    `json:"records"`
}

// DayOf zeroes t to its calendar date.
func DayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func withinSchoolHours(t time.Time) bool {
	return t.Hour() >= openingHour && t.Hour() < closingHour
}

// classify derives the stored status from the check-in instant: present up
// to and including 09:00, late after.
func classify(t time.Time) Status {
	if t.Hour()*60+t.Minute() <= lateCutoffMins {
		return StatusPresent
	}
	return StatusLate
}
