package checkin

import (
	"time"

	"github.com/Shriyanshsoni96/ERP/core"
)

// Mood is the self-reported state a student picks at check-in.
type Mood string

const (
	MoodHappy   Mood = "happy"
	MoodNeutral Mood = "neutral"
	MoodSad     Mood = "sad"
	MoodAnxious Mood = "anxious"
	MoodExcited Mood = "excited"
)

func (m Mood) Valid() bool {
	switch m {
	case MoodHappy, MoodNeutral, MoodSad, MoodAnxious, MoodExcited:
		return true
	}
	return false
}

type Checkin struct {
	ID        string    `json:"id"`
	StudentID string    `json:"student_id"`
	Mood      Mood      `json:"mood"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type NewCheckin struct {
	Mood Mood   `json:"mood" validate:"required,oneof=happy neutral sad anxious excited"`
	Note string `json:"note"`
}

func (nc *NewCheckin) Validate() error {
	nc.Note = core.CleanString(nc.Note)
	return core.Validate.Struct(nc)
}
