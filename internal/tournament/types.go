package tournament

import (
	"time"

	"github.com/mauv0809/duel-keeper/internal/clock"
	"github.com/mauv0809/duel-keeper/internal/recordstore"
)

// store implements Store on top of two record collections.
type store struct {
	players recordstore.Store[Player]
	matches recordstore.Store[Match]
	clock   clock.Clock
}

// Player is a registered tournament participant.
type Player struct {
	ID           int64      `json:"user_id"`
	DisplayName  string     `json:"display_name"`
	Wins         int        `json:"wins"`
	Losses       int        `json:"losses"`
	Draws        int        `json:"draws"`
	Kills        int        `json:"kills"`
	Deaths       int        `json:"deaths"`
	RegisteredAt time.Time  `json:"registered_at"`
	RegisteredBy int64      `json:"registered_by"`
	LastUpdated  *time.Time `json:"last_updated,omitempty"`
}

// TotalMatches is the number of decided or drawn matches the player has on record.
func (p Player) TotalMatches() int {
	return p.Wins + p.Losses + p.Draws
}

// StatsDelta holds the amounts added to a player's counters. All fields
// must be non-negative.
type StatsDelta struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
	Draws  int `json:"draws"`
	Kills  int `json:"kills"`
	Deaths int `json:"deaths"`
}

// Status is the lifecycle state of a match.
type Status string

const (
	StatusScheduled  Status = "scheduled"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusScheduled, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Match is a scheduled duel between two players. Participant names are
// snapshots taken when the match was created.
type Match struct {
	ID            string    `json:"id"`
	Player1ID     int64     `json:"player1_id"`
	Player2ID     int64     `json:"player2_id"`
	Player1Name   string    `json:"player1_name"`
	Player2Name   string    `json:"player2_name"`
	ScheduledTime time.Time `json:"scheduled_time"`
	Status        Status    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	CreatedBy     int64     `json:"created_by"`
	ReminderSent  bool      `json:"reminder_sent"`
}

// Participants returns both player ids in scheduling order.
func (m Match) Participants() []int64 {
	return []int64{m.Player1ID, m.Player2ID}
}

// Involves reports whether playerID takes part in the match.
func (m Match) Involves(playerID int64) bool {
	return m.Player1ID == playerID || m.Player2ID == playerID
}

// Opponent returns the other participant's id and name snapshot.
func (m Match) Opponent(playerID int64) (int64, string) {
	if m.Player1ID == playerID {
		return m.Player2ID, m.Player2Name
	}
	return m.Player1ID, m.Player1Name
}
