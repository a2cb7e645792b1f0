package tournament

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/duel-keeper/internal/clock"
	"github.com/mauv0809/duel-keeper/internal/recordstore"
)

// New creates a tournament Store over the given player and match collections.
func New(players recordstore.Store[Player], matches recordstore.Store[Match], clk clock.Clock) Store {
	return &store{
		players: players,
		matches: matches,
		clock:   clk,
	}
}

func playerKey(id int64) string {
	return strconv.FormatInt(id, 10)
}

// MatchID derives the id of a match from its participants and start time.
func MatchID(player1ID, player2ID int64, at time.Time) string {
	return fmt.Sprintf("%d_%d_%d", player1ID, player2ID, at.Unix())
}

// RegisterPlayer adds a new player with zeroed counters. Registering an id
// twice is rejected and leaves the first record unchanged.
func (s *store) RegisterPlayer(ctx context.Context, id int64, name string, adminID int64) (Player, error) {
	name = strings.TrimSpace(name)
	if id <= 0 {
		return Player{}, ErrInvalidID
	}
	if name == "" {
		return Player{}, ErrInvalidName
	}

	player, err := s.players.Update(ctx, playerKey(id), func(current Player, exists bool) (Player, error) {
		if exists {
			return current, ErrAlreadyRegistered
		}
		return Player{
			ID:           id,
			DisplayName:  name,
			RegisteredAt: s.clock.Now(),
			RegisteredBy: adminID,
		}, nil
	})
	if err != nil {
		log.Warn("Player registration rejected", "playerID", id, "error", err)
		return Player{}, err
	}
	log.Info("Registered player", "playerID", id, "name", name, "admin", adminID)
	return player, nil
}

// RemovePlayer permanently deletes a player. Their matches are left as they are.
func (s *store) RemovePlayer(ctx context.Context, id int64) (Player, error) {
	player, ok, err := s.players.Get(ctx, playerKey(id))
	if err != nil {
		return Player{}, err
	}
	if !ok {
		return Player{}, fmt.Errorf("player %d: %w", id, ErrNotFound)
	}
	if err := s.players.Delete(ctx, playerKey(id)); err != nil {
		return Player{}, err
	}
	log.Info("Removed player", "playerID", id, "name", player.DisplayName)
	return player, nil
}

// UpdatePlayerStats adds delta to the player's counters.
func (s *store) UpdatePlayerStats(ctx context.Context, id int64, delta StatsDelta) (Player, error) {
	if delta.Wins < 0 || delta.Losses < 0 || delta.Draws < 0 || delta.Kills < 0 || delta.Deaths < 0 {
		return Player{}, ErrInvalidDelta
	}

	player, err := s.players.Update(ctx, playerKey(id), func(current Player, exists bool) (Player, error) {
		if !exists {
			return current, fmt.Errorf("player %d: %w", id, ErrNotFound)
		}
		current.Wins += delta.Wins
		current.Losses += delta.Losses
		current.Draws += delta.Draws
		current.Kills += delta.Kills
		current.Deaths += delta.Deaths
		now := s.clock.Now()
		current.LastUpdated = &now
		return current, nil
	})
	if err != nil {
		return Player{}, err
	}
	log.Info("Updated player stats", "playerID", id, "wins", player.Wins, "losses", player.Losses, "draws", player.Draws, "kills", player.Kills, "deaths", player.Deaths)
	return player, nil
}

func (s *store) GetPlayer(ctx context.Context, id int64) (Player, bool, error) {
	return s.players.Get(ctx, playerKey(id))
}

// ListPlayers returns all players ordered by id.
func (s *store) ListPlayers(ctx context.Context) ([]Player, error) {
	all, err := s.players.List(ctx)
	if err != nil {
		return nil, err
	}
	players := make([]Player, 0, len(all))
	for _, p := range all {
		players = append(players, p)
	}
	sort.Slice(players, func(i, j int) bool { return players[i].ID < players[j].ID })
	return players, nil
}

// ScheduleMatch creates a match between two distinct registered players at a
// time strictly after now. A request identical to an existing match is rejected.
func (s *store) ScheduleMatch(ctx context.Context, player1ID, player2ID int64, at time.Time, adminID int64) (Match, error) {
	if player1ID == player2ID {
		return Match{}, ErrSelfMatch
	}
	now := s.clock.Now()
	at = at.UTC().Truncate(time.Second)
	if !at.After(now) {
		return Match{}, fmt.Errorf("%w (requested %s, now %s)", ErrScheduledInPast, at.Format(time.RFC3339), now.Format(time.RFC3339))
	}

	p1, err := s.requirePlayer(ctx, player1ID)
	if err != nil {
		return Match{}, err
	}
	p2, err := s.requirePlayer(ctx, player2ID)
	if err != nil {
		return Match{}, err
	}

	id := MatchID(player1ID, player2ID, at)
	match, err := s.matches.Update(ctx, id, func(current Match, exists bool) (Match, error) {
		if exists {
			return current, ErrDuplicateMatch
		}
		return Match{
			ID:            id,
			Player1ID:     p1.ID,
			Player2ID:     p2.ID,
			Player1Name:   p1.DisplayName,
			Player2Name:   p2.DisplayName,
			ScheduledTime: at,
			Status:        StatusScheduled,
			CreatedAt:     now,
			CreatedBy:     adminID,
		}, nil
	})
	if err != nil {
		log.Warn("Match scheduling rejected", "matchID", id, "error", err)
		return Match{}, err
	}
	log.Info("Scheduled match", "matchID", id, "player1", p1.DisplayName, "player2", p2.DisplayName, "at", at)
	return match, nil
}

func (s *store) requirePlayer(ctx context.Context, id int64) (Player, error) {
	p, ok, err := s.players.Get(ctx, playerKey(id))
	if err != nil {
		return Player{}, err
	}
	if !ok {
		return Player{}, fmt.Errorf("player %d is not registered: %w", id, ErrNotFound)
	}
	return p, nil
}

// CancelMatch removes a scheduled match. idOrPrefix may be the full match id
// or a prefix that identifies exactly one match. The returned copy carries
// the cancelled status; the record itself is gone.
func (s *store) CancelMatch(ctx context.Context, idOrPrefix string) (Match, error) {
	resolved, err := s.resolveMatch(ctx, idOrPrefix)
	if err != nil {
		return Match{}, err
	}
	// The status is checked again under the store lock so a concurrent
	// start cannot slip between the check and the delete.
	match, err := s.matches.DeleteIf(ctx, resolved.ID, func(current Match, exists bool) error {
		if !exists {
			return fmt.Errorf("match %s: %w", resolved.ID, ErrNotFound)
		}
		if current.Status != StatusScheduled {
			return fmt.Errorf("match %s is %s: %w", current.ID, current.Status, ErrNotCancellable)
		}
		return nil
	})
	if err != nil {
		return Match{}, err
	}
	match.Status = StatusCancelled
	log.Info("Cancelled match", "matchID", match.ID)
	return match, nil
}

func (s *store) resolveMatch(ctx context.Context, idOrPrefix string) (Match, error) {
	idOrPrefix = strings.TrimSpace(idOrPrefix)
	if idOrPrefix == "" {
		return Match{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}
	if m, ok, err := s.matches.Get(ctx, idOrPrefix); err != nil {
		return Match{}, err
	} else if ok {
		return m, nil
	}

	all, err := s.matches.List(ctx)
	if err != nil {
		return Match{}, err
	}
	var found []Match
	for id, m := range all {
		if strings.HasPrefix(id, idOrPrefix) {
			found = append(found, m)
		}
	}
	switch len(found) {
	case 0:
		return Match{}, fmt.Errorf("match %q: %w", idOrPrefix, ErrNotFound)
	case 1:
		return found[0], nil
	default:
		return Match{}, fmt.Errorf("%q: %w", idOrPrefix, ErrAmbiguousID)
	}
}

// SetMatchStatus overwrites the status of an existing match.
func (s *store) SetMatchStatus(ctx context.Context, matchID string, status Status) (Match, error) {
	if !status.Valid() {
		return Match{}, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}
	match, err := s.matches.Update(ctx, matchID, func(current Match, exists bool) (Match, error) {
		if !exists {
			return current, fmt.Errorf("match %s: %w", matchID, ErrNotFound)
		}
		current.Status = status
		return current, nil
	})
	if err != nil {
		return Match{}, err
	}
	log.Debug("Updated match status", "matchID", matchID, "status", status)
	return match, nil
}

// MarkReminderSent persists that the reminder for matchID went out.
func (s *store) MarkReminderSent(ctx context.Context, matchID string) error {
	_, err := s.matches.Update(ctx, matchID, func(current Match, exists bool) (Match, error) {
		if !exists {
			return current, fmt.Errorf("match %s: %w", matchID, ErrNotFound)
		}
		current.ReminderSent = true
		return current, nil
	})
	return err
}

func (s *store) GetMatch(ctx context.Context, matchID string) (Match, bool, error) {
	return s.matches.Get(ctx, matchID)
}

// ListMatches returns every match ordered by scheduled time, then id.
func (s *store) ListMatches(ctx context.Context) ([]Match, error) {
	all, err := s.matches.List(ctx)
	if err != nil {
		return nil, err
	}
	matches := make([]Match, 0, len(all))
	for _, m := range all {
		matches = append(matches, m)
	}
	sortByTime(matches)
	return matches, nil
}

// MatchesForPlayer returns the player's matches, most recent first.
func (s *store) MatchesForPlayer(ctx context.Context, playerID int64) ([]Match, error) {
	all, err := s.ListMatches(ctx)
	if err != nil {
		return nil, err
	}
	var matches []Match
	for i := len(all) - 1; i >= 0; i-- {
		if all[i].Involves(playerID) {
			matches = append(matches, all[i])
		}
	}
	return matches, nil
}

// UpcomingMatches returns scheduled matches that start after now, soonest first.
func (s *store) UpcomingMatches(ctx context.Context, now time.Time) ([]Match, error) {
	all, err := s.ListMatches(ctx)
	if err != nil {
		return nil, err
	}
	var upcoming []Match
	for _, m := range all {
		if m.Status == StatusScheduled && m.ScheduledTime.After(now) {
			upcoming = append(upcoming, m)
		}
	}
	return upcoming, nil
}

func sortByTime(matches []Match) {
	sort.Slice(matches, func(i, j int) bool {
		if !matches[i].ScheduledTime.Equal(matches[j].ScheduledTime) {
			return matches[i].ScheduledTime.Before(matches[j].ScheduledTime)
		}
		return matches[i].ID < matches[j].ID
	})
}
