package tournament

import (
	"context"
	"sync"
	"time"
)

// MockStore is a mock implementation of Store for testing. Methods without
// a configured Func return zero values. It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	RegisterPlayerFunc    func(ctx context.Context, id int64, name string, adminID int64) (Player, error)
	RemovePlayerFunc      func(ctx context.Context, id int64) (Player, error)
	UpdatePlayerStatsFunc func(ctx context.Context, id int64, delta StatsDelta) (Player, error)
	GetPlayerFunc         func(ctx context.Context, id int64) (Player, bool, error)
	ListPlayersFunc       func(ctx context.Context) ([]Player, error)
	ScheduleMatchFunc     func(ctx context.Context, player1ID, player2ID int64, at time.Time, adminID int64) (Match, error)
	CancelMatchFunc       func(ctx context.Context, idOrPrefix string) (Match, error)
	SetMatchStatusFunc    func(ctx context.Context, matchID string, status Status) (Match, error)
	MarkReminderSentFunc  func(ctx context.Context, matchID string) error
	GetMatchFunc          func(ctx context.Context, matchID string) (Match, bool, error)
	ListMatchesFunc       func(ctx context.Context) ([]Match, error)
	MatchesForPlayerFunc  func(ctx context.Context, playerID int64) ([]Match, error)
	UpcomingMatchesFunc   func(ctx context.Context, now time.Time) ([]Match, error)

	// Call records
	RegisterPlayerCalls []struct {
		ID      int64
		Name    string
		AdminID int64
	}
	UpdatePlayerStatsCalls []struct {
		ID    int64
		Delta StatsDelta
	}
	ScheduleMatchCalls []struct {
		Player1ID int64
		Player2ID int64
		At        time.Time
	}
	CancelMatchCalls    []string
	SetMatchStatusCalls []struct {
		MatchID string
		Status  Status
	}
	MarkReminderSentCalls []string
}

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

// Reset clears all call records.
func (m *MockStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RegisterPlayerCalls = nil
	m.UpdatePlayerStatsCalls = nil
	m.ScheduleMatchCalls = nil
	m.CancelMatchCalls = nil
	m.SetMatchStatusCalls = nil
	m.MarkReminderSentCalls = nil
}

func (m *MockStore) RegisterPlayer(ctx context.Context, id int64, name string, adminID int64) (Player, error) {
	m.mu.Lock()
	m.RegisterPlayerCalls = append(m.RegisterPlayerCalls, struct {
		ID      int64
		Name    string
		AdminID int64
	}{id, name, adminID})
	fn := m.RegisterPlayerFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, id, name, adminID)
	}
	return Player{ID: id, DisplayName: name, RegisteredBy: adminID}, nil
}

func (m *MockStore) RemovePlayer(ctx context.Context, id int64) (Player, error) {
	if m.RemovePlayerFunc != nil {
		return m.RemovePlayerFunc(ctx, id)
	}
	return Player{ID: id}, nil
}

func (m *MockStore) UpdatePlayerStats(ctx context.Context, id int64, delta StatsDelta) (Player, error) {
	m.mu.Lock()
	m.UpdatePlayerStatsCalls = append(m.UpdatePlayerStatsCalls, struct {
		ID    int64
		Delta StatsDelta
	}{id, delta})
	fn := m.UpdatePlayerStatsFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, id, delta)
	}
	return Player{ID: id}, nil
}

func (m *MockStore) GetPlayer(ctx context.Context, id int64) (Player, bool, error) {
	if m.GetPlayerFunc != nil {
		return m.GetPlayerFunc(ctx, id)
	}
	return Player{}, false, nil
}

func (m *MockStore) ListPlayers(ctx context.Context) ([]Player, error) {
	if m.ListPlayersFunc != nil {
		return m.ListPlayersFunc(ctx)
	}
	return nil, nil
}

func (m *MockStore) ScheduleMatch(ctx context.Context, player1ID, player2ID int64, at time.Time, adminID int64) (Match, error) {
	m.mu.Lock()
	m.ScheduleMatchCalls = append(m.ScheduleMatchCalls, struct {
		Player1ID int64
		Player2ID int64
		At        time.Time
	}{player1ID, player2ID, at})
	fn := m.ScheduleMatchFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, player1ID, player2ID, at, adminID)
	}
	return Match{ID: MatchID(player1ID, player2ID, at), Player1ID: player1ID, Player2ID: player2ID, ScheduledTime: at, Status: StatusScheduled, CreatedBy: adminID}, nil
}

func (m *MockStore) CancelMatch(ctx context.Context, idOrPrefix string) (Match, error) {
	m.mu.Lock()
	m.CancelMatchCalls = append(m.CancelMatchCalls, idOrPrefix)
	fn := m.CancelMatchFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, idOrPrefix)
	}
	return Match{ID: idOrPrefix, Status: StatusCancelled}, nil
}

func (m *MockStore) SetMatchStatus(ctx context.Context, matchID string, status Status) (Match, error) {
	m.mu.Lock()
	m.SetMatchStatusCalls = append(m.SetMatchStatusCalls, struct {
		MatchID string
		Status  Status
	}{matchID, status})
	fn := m.SetMatchStatusFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, matchID, status)
	}
	return Match{ID: matchID, Status: status}, nil
}

func (m *MockStore) MarkReminderSent(ctx context.Context, matchID string) error {
	m.mu.Lock()
	m.MarkReminderSentCalls = append(m.MarkReminderSentCalls, matchID)
	fn := m.MarkReminderSentFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, matchID)
	}
	return nil
}

func (m *MockStore) GetMatch(ctx context.Context, matchID string) (Match, bool, error) {
	if m.GetMatchFunc != nil {
		return m.GetMatchFunc(ctx, matchID)
	}
	return Match{}, false, nil
}

func (m *MockStore) ListMatches(ctx context.Context) ([]Match, error) {
	if m.ListMatchesFunc != nil {
		return m.ListMatchesFunc(ctx)
	}
	return nil, nil
}

func (m *MockStore) MatchesForPlayer(ctx context.Context, playerID int64) ([]Match, error) {
	if m.MatchesForPlayerFunc != nil {
		return m.MatchesForPlayerFunc(ctx, playerID)
	}
	return nil, nil
}

func (m *MockStore) UpcomingMatches(ctx context.Context, now time.Time) ([]Match, error) {
	if m.UpcomingMatchesFunc != nil {
		return m.UpcomingMatchesFunc(ctx, now)
	}
	return nil, nil
}

// Getters for call records

func (m *MockStore) GetSetMatchStatusCalls() []struct {
	MatchID string
	Status  Status
} {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]struct {
		MatchID string
		Status  Status
	}(nil), m.SetMatchStatusCalls...)
}

func (m *MockStore) GetMarkReminderSentCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.MarkReminderSentCalls...)
}
