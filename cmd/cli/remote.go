package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Ask a running reporter for the current status of every URL",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		body, err := callAPI(cmd.Context(), http.MethodGet, "/api/status")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), body)
		return nil
	},
}

var triggerCmd = &cobra.Command{
	Use:       "trigger <alert|digest>",
	Short:     "Run an alert or digest cycle on a running reporter now",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"alert", "digest"},
	RunE: func(cmd *cobra.Command, args []string) error {
		body, err := callAPI(cmd.Context(), http.MethodPost, "/api/cycles/"+args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), body)
		return nil
	},
}

func callAPI(ctx context.Context, method, path string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, strings.TrimRight(apiBase, "/")+path, nil)
	if err != nil {
		return "", err
	}
	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("contact reporter API: %w", err)
	}
	defer resp.Body.Close()

	b, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	body := strings.TrimSpace(string(b))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return body, fmt.Errorf("reporter API returned %s: %s", resp.Status, body)
	}
	return body, nil
}

func init() {
	rootCmd.AddCommand(statusCmd, triggerCmd)
}
