package config

import "time"

// Config holds all configuration for the application.
type Config struct {
	DataDir      string
	StoreBackend string
	DBName       string
	Port         string
	LogLevel     string
	AdminIDs     []int64
	Turso        TursoConfig
	Scheduler    SchedulerConfig
	Notifier     NotifierConfig
}

type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}

type SchedulerConfig struct {
	PollInterval time.Duration
	ReminderLead time.Duration
	// GameServer is included in reminder notifications so players know where to connect.
	GameServer string
}

type NotifierConfig struct {
	Kind      string
	Slack     SlackConfig
	ProjectID string
}

type SlackConfig struct {
	Token string
	// UserMap maps tournament player ids to Slack member ids.
	UserMap map[int64]string
}

// Store backends.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Notifier kinds.
const (
	NotifierLog    = "log"
	NotifierSlack  = "slack"
	NotifierPubSub = "pubsub"
)
