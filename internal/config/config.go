package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

// Load reads configuration from environment variables and .env file.
// Invalid values are fatal.
func Load() Config {
	err := godotenv.Load()
	if err != nil {
		log.Info("No .env file found, reading from environment variables")
	}

	cfg, err := FromLookup(os.LookupEnv)
	if err != nil {
		log.Fatal("Invalid configuration", "error", err)
	}
	return cfg
}

// FromLookup builds a Config from lookup, applying defaults for unset keys.
func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	getEnv := func(key, fallback string) string {
		if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value)
		}
		return fallback
	}

	cfg := Config{
		DataDir:      getEnv("DATA_DIR", "data"),
		StoreBackend: strings.ToLower(getEnv("STORE_BACKEND", BackendJSON)),
		DBName:       getEnv("DB_NAME", "duels.db"),
		Port:         getEnv("PORT", "8080"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		Turso: TursoConfig{
			PrimaryURL: getEnv("TURSO_PRIMARY_URL", ""),
			AuthToken:  getEnv("TURSO_AUTH_TOKEN", ""),
		},
		Scheduler: SchedulerConfig{
			GameServer: getEnv("GAME_SERVER_ADDR", ""),
		},
		Notifier: NotifierConfig{
			Kind: strings.ToLower(getEnv("NOTIFIER", NotifierLog)),
			Slack: SlackConfig{
				Token: getEnv("SLACK_BOT_TOKEN", ""),
			},
			ProjectID: getEnv("GCP_PROJECT", ""),
		},
	}

	var err error
	if cfg.Scheduler.PollInterval, err = parseDuration("POLL_INTERVAL", getEnv("POLL_INTERVAL", "30s")); err != nil {
		return Config{}, err
	}
	if cfg.Scheduler.ReminderLead, err = parseDuration("REMINDER_LEAD", getEnv("REMINDER_LEAD", "5m")); err != nil {
		return Config{}, err
	}
	if cfg.Scheduler.PollInterval >= cfg.Scheduler.ReminderLead {
		return Config{}, fmt.Errorf("POLL_INTERVAL (%s) must be shorter than REMINDER_LEAD (%s)", cfg.Scheduler.PollInterval, cfg.Scheduler.ReminderLead)
	}
	if cfg.AdminIDs, err = ParseIDList(getEnv("ADMIN_IDS", "")); err != nil {
		return Config{}, fmt.Errorf("ADMIN_IDS: %w", err)
	}
	if cfg.Notifier.Slack.UserMap, err = ParseUserMap(getEnv("SLACK_USER_MAP", "")); err != nil {
		return Config{}, fmt.Errorf("SLACK_USER_MAP: %w", err)
	}

	switch cfg.StoreBackend {
	case BackendJSON, BackendSQLite:
	default:
		return Config{}, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}

	switch cfg.Notifier.Kind {
	case NotifierLog:
	case NotifierSlack:
		if cfg.Notifier.Slack.Token == "" {
			return Config{}, fmt.Errorf("SLACK_BOT_TOKEN is required when NOTIFIER=%s", NotifierSlack)
		}
	case NotifierPubSub:
		if cfg.Notifier.ProjectID == "" {
			return Config{}, fmt.Errorf("GCP_PROJECT is required when NOTIFIER=%s", NotifierPubSub)
		}
	default:
		return Config{}, fmt.Errorf("unknown NOTIFIER %q", cfg.Notifier.Kind)
	}
	return cfg, nil
}

func parseDuration(key, value string) (time.Duration, error) {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", key, d)
	}
	return d, nil
}

// ParseIDList parses a comma separated list of positive ids.
func ParseIDList(value string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid id %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// ParseUserMap parses "playerID:slackID" pairs separated by commas.
func ParseUserMap(value string) (map[int64]string, error) {
	users := make(map[int64]string)
	for _, pair := range strings.Split(value, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		playerID, slackID, ok := strings.Cut(pair, ":")
		if !ok || strings.TrimSpace(slackID) == "" {
			return nil, fmt.Errorf("invalid mapping %q", pair)
		}
		id, err := strconv.ParseInt(strings.TrimSpace(playerID), 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid player id in %q", pair)
		}
		users[id] = strings.TrimSpace(slackID)
	}
	return users, nil
}
