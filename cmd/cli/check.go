package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hamed0406/urlreporter/internal/config"
	"github.com/hamed0406/urlreporter/internal/notify"
	"github.com/hamed0406/urlreporter/internal/probe"
	"github.com/hamed0406/urlreporter/internal/report"
)

// errURLsDown makes check exit with ExitURLsDown.
var errURLsDown = errors.New("one or more URLs are down")

var (
	onlyFailures bool
	sendReport   bool
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check every configured URL once and print the report",
	Long: `Check every configured URL once and print the report.

Exits with status 2 when at least one URL is down.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		checker := probe.NewURLChecker(zap.NewNop(), probe.NewHTTPChecker(probe.HTTPOptions{
			Timeout:         cfg.HTTP.Timeout,
			UserAgent:       cfg.HTTP.UserAgent,
			FollowRedirects: cfg.HTTP.FollowRedirects,
			VerifyTLS:       cfg.HTTP.VerifyTLS,
		}), cfg.HTTP.Timeout)
		rep := checker.CheckAll(cmd.Context(), cfg.URLs)

		title := report.DigestTitle(rep)
		if onlyFailures {
			title = report.AlertTitle(rep)
		}
		text := report.Format(rep, onlyFailures)
		if text == "" {
			text = report.HealthyBody(rep)
		}
		fmt.Fprintln(cmd.OutOrStdout(), title)
		fmt.Fprintln(cmd.OutOrStdout(), text)

		if sendReport {
			n := notify.NewWebhooks(cfg.WebhookURLs, cfg.Webhook.Timeout)
			if err := n.Send(cmd.Context(), title, text); err != nil {
				return fmt.Errorf("deliver report: %w", err)
			}
			fmt.Fprintln(cmd.ErrOrStderr(), "report delivered")
		}

		if rep.DownCount() > 0 {
			return fmt.Errorf("%w: %s", errURLsDown, report.Summary(rep))
		}
		return nil
	},
}

func init() {
	checkCmd.Flags().BoolVar(&onlyFailures, "only-failures", false, "Only list URLs that are down")
	checkCmd.Flags().BoolVar(&sendReport, "send", false, "Deliver the report to the configured webhook(s)")
	rootCmd.AddCommand(checkCmd)
}
