package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(metricsCmd)

	rootCmd.AddCommand(playersCmd)
	rootCmd.AddCommand(playerCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(statsUpdateCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(findCmd)

	rootCmd.AddCommand(matchesCmd)
	rootCmd.AddCommand(upcomingCmd)
	rootCmd.AddCommand(scheduleCmd)
	rootCmd.AddCommand(cancelCmd)

	rootCmd.AddCommand(leaderboardCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(rankCmd)
	rootCmd.AddCommand(compareCmd)

	rootCmd.AddCommand(tickCmd)
	rootCmd.AddCommand(backupCmd)

	leaderboardCmd.Flags().String("sort", "wins", "Sort key: wins, win_rate, kills, kd_ratio or total_matches (alias matches)")
	leaderboardCmd.Flags().Int("limit", 10, "Number of entries to show (0 for all)")

	statsUpdateCmd.Flags().Int("wins", 0, "Wins to add")
	statsUpdateCmd.Flags().Int("losses", 0, "Losses to add")
	statsUpdateCmd.Flags().Int("draws", 0, "Draws to add")
	statsUpdateCmd.Flags().Int("kills", 0, "Kills to add")
	statsUpdateCmd.Flags().Int("deaths", 0, "Deaths to add")
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/health")
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/metrics")
	},
}

var playersCmd = &cobra.Command{
	Use:   "players",
	Short: "List registered players",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/players")
	},
}

var playerCmd = &cobra.Command{
	Use:   "player <id>",
	Short: "Show a single player",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/players/" + url.PathEscape(args[0]))
	},
}

var registerCmd = &cobra.Command{
	Use:   "register <id> <display name>",
	Short: "Register a player",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid player id %q: %w", args[0], err)
		}
		return performRequest(http.MethodPost, "/players", map[string]any{
			"user_id":      id,
			"display_name": args[1],
		})
	},
}

var removeCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a player",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodDelete, "/players/"+url.PathEscape(args[0]), nil)
	},
}

var statsUpdateCmd = &cobra.Command{
	Use:   "stats-update <id>",
	Short: "Add wins, losses, draws, kills or deaths to a player",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		delta := map[string]int{}
		for _, name := range []string{"wins", "losses", "draws", "kills", "deaths"} {
			v, err := cmd.Flags().GetInt(name)
			if err != nil {
				return err
			}
			delta[name] = v
		}
		return performRequest(http.MethodPost, "/players/"+url.PathEscape(args[0])+"/stats", delta)
	},
}

var historyCmd = &cobra.Command{
	Use:   "history <id>",
	Short: "List a player's matches, newest first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/players/" + url.PathEscape(args[0]) + "/matches")
	},
}

var findCmd = &cobra.Command{
	Use:   "find <name>",
	Short: "Find players by display name",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		q := url.Values{}
		q.Set("q", strings.Join(args, " "))
		return performGetRequest("/players/search?" + q.Encode())
	},
}

var matchesCmd = &cobra.Command{
	Use:   "matches",
	Short: "List all matches",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/matches")
	},
}

var upcomingCmd = &cobra.Command{
	Use:   "upcoming",
	Short: "List scheduled matches that have not started yet",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/matches/upcoming")
	},
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule <player1> <player2> <time>",
	Short: "Schedule a duel",
	Long: `Schedule a duel between two registered players. The time is RFC3339
or natural language such as "tomorrow at 6pm" or "in 2 hours".`,
	Args: cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		p1, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid player id %q: %w", args[0], err)
		}
		p2, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid player id %q: %w", args[1], err)
		}
		at, err := parseMatchTime(strings.Join(args[2:], " "), time.Now())
		if err != nil {
			return err
		}
		fmt.Printf("Scheduling for %s\n", at.Format(time.RFC1123))
		return performRequest(http.MethodPost, "/matches", map[string]any{
			"player1_id":     p1,
			"player2_id":     p2,
			"scheduled_time": at,
		})
	},
}

var cancelCmd = &cobra.Command{
	Use:   "cancel <match id or prefix>",
	Short: "Cancel a scheduled duel and notify both players",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodDelete, "/matches/"+url.PathEscape(args[0]), nil)
	},
}

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Show the leaderboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		sort, _ := cmd.Flags().GetString("sort")
		limit, _ := cmd.Flags().GetInt("limit")
		q := url.Values{}
		q.Set("sort", sort)
		q.Set("limit", strconv.Itoa(limit))
		return performGetRequest("/leaderboard?" + q.Encode())
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show tournament-wide statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/stats")
	},
}

var rankCmd = &cobra.Command{
	Use:   "rank <id>",
	Short: "Show a player's rank",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/players/" + url.PathEscape(args[0]) + "/rank")
	},
}

var compareCmd = &cobra.Command{
	Use:   "compare <a> <b>",
	Short: "Compare two players head to head",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		q := url.Values{}
		q.Set("a", args[0])
		q.Set("b", args[1])
		return performGetRequest("/compare?" + q.Encode())
	},
}

var tickCmd = &cobra.Command{
	Use:   "tick",
	Short: "Run one scheduler pass now",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, "/tick", nil)
	},
}

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Back up the record files",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, "/backup", nil)
	},
}

func performGetRequest(endpoint string) error {
	return performRequest(http.MethodGet, endpoint, nil)
}

func performRequest(method, endpoint string, payload any) error {
	target := host + endpoint
	fmt.Printf("Making %s request to %s\n", method, target)

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, target, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method != http.MethodGet && admin != 0 {
		req.Header.Set("X-Admin-ID", strconv.FormatInt(admin, 10))
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(respBody))

	return nil
}
