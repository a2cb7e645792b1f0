package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	host  string
	admin int64
)

var rootCmd = &cobra.Command{
	Use:   "duel-cli",
	Short: "A CLI to interact with the duel-keeper server",
	Long: `A command-line interface for making requests to the various endpoints
of the duel-keeper application: players, matches, leaderboards and the scheduler.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&host, "host", "http://localhost:8080", "The host address of the server")
	rootCmd.PersistentFlags().Int64Var(&admin, "admin", 0, "Admin user id sent with state-changing requests")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Whoops. There was an error while executing your command '%s'\n", err)
		os.Exit(1)
	}
}

func main() {
	Execute()
}
