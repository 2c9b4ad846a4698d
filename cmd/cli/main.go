package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const (
	ExitSuccess   = 0
	ExitError     = 1
	ExitURLsDown  = 2
	defaultAPIURL = "http://localhost:8080"
)

var (
	configPath string
	apiBase    string
	apiKey     string
)

var rootCmd = &cobra.Command{
	Use:   "urlreporter",
	Short: "Check URLs and talk to a running reporter",
	Long: `A command-line companion for the URL reporter daemon.

check runs a one-shot check from the local config; status and trigger
call a running daemon's ops API.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", os.Getenv("CONFIG_FILE"), "Path to YAML config file (env: CONFIG_FILE)")
	rootCmd.PersistentFlags().StringVar(&apiBase, "api", envOr("API_BASE", defaultAPIURL), "Base URL of the reporter ops API (env: API_BASE)")
	rootCmd.PersistentFlags().StringVar(&apiKey, "key", os.Getenv("API_KEY"), "API key sent as X-API-Key (env: API_KEY)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, errURLsDown) {
			os.Exit(ExitURLsDown)
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(ExitError)
	}
}
