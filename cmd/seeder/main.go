package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/charmbracelet/log"
	"github.com/mauv0809/duel-keeper/internal/clock"
	"github.com/mauv0809/duel-keeper/internal/config"
	"github.com/mauv0809/duel-keeper/internal/tournament"
	"github.com/spf13/cobra"
)

var (
	playerCount int
	matchCount  int
	seed        int64
	adminID     int64
)

var rootCmd = &cobra.Command{
	Use:   "seeder",
	Short: "Seed the configured store with demo players and duels",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context())
	},
}

func init() {
	rootCmd.Flags().IntVar(&playerCount, "players", 8, "Number of players to register")
	rootCmd.Flags().IntVar(&matchCount, "matches", 6, "Number of duels to schedule")
	rootCmd.Flags().Int64Var(&seed, "seed", 0, "Random seed (0 uses the current time)")
	rootCmd.Flags().Int64Var(&adminID, "admin", 1, "Admin id recorded as registrar and match creator")
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Error("Seeding failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	log.Info("Starting seeder...")
	cfg := config.Load()
	clk := clock.New()

	backend, err := tournament.Open(cfg, clk)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer backend.Close()

	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	faker := gofakeit.New(uint64(seed))
	log.Info("Seeding", "backend", cfg.StoreBackend, "players", playerCount, "matches", matchCount, "seed", seed)

	players := seedPlayers(ctx, backend.Store, faker)
	if len(players) < 2 {
		return fmt.Errorf("need at least two players to schedule duels, have %d", len(players))
	}
	scheduled := seedMatches(ctx, backend.Store, faker, players, clk.Now())

	log.Info("Seeding complete", "players", len(players), "matches", scheduled)
	return nil
}

func seedPlayers(ctx context.Context, store tournament.Store, faker *gofakeit.Faker) []tournament.Player {
	players := make([]tournament.Player, 0, playerCount)
	for i := 0; i < playerCount; i++ {
		id, err := strconv.ParseInt("1"+faker.Numerify("#################"), 10, 64)
		if err != nil {
			log.Warn("Skipping player with unusable id", "error", err)
			continue
		}

		p, err := store.RegisterPlayer(ctx, id, faker.Username(), adminID)
		if err != nil {
			log.Warn("Failed to register player", "id", id, "error", err)
			continue
		}

		updated, err := store.UpdatePlayerStats(ctx, p.ID, tournament.StatsDelta{
			Wins:   faker.Number(0, 20),
			Losses: faker.Number(0, 20),
			Draws:  faker.Number(0, 5),
			Kills:  faker.Number(0, 150),
			Deaths: faker.Number(0, 150),
		})
		if err != nil {
			log.Warn("Failed to seed stats", "player", id, "error", err)
		} else {
			p = updated
		}
		log.Debug("Seeded player", "id", p.ID, "name", p.DisplayName, "wins", p.Wins)
		players = append(players, p)
	}
	return players
}

func seedMatches(ctx context.Context, store tournament.Store, faker *gofakeit.Faker, players []tournament.Player, now time.Time) int {
	scheduled := 0
	for i := 0; i < matchCount; i++ {
		a := players[faker.Number(0, len(players)-1)]
		b := players[faker.Number(0, len(players)-1)]
		if a.ID == b.ID {
			continue
		}
		at := now.Add(time.Duration(faker.Number(10, 7*24*60)) * time.Minute)

		m, err := store.ScheduleMatch(ctx, a.ID, b.ID, at, adminID)
		if errors.Is(err, tournament.ErrConflict) {
			log.Warn("Skipping conflicting duel", "player1", a.ID, "player2", b.ID, "error", err)
			continue
		}
		if err != nil {
			log.Warn("Failed to schedule duel", "error", err)
			continue
		}
		log.Debug("Seeded duel", "id", m.ID, "at", m.ScheduledTime)
		scheduled++
	}
	return scheduled
}
