// cmd/preflight/main.go
package main

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/hamed0406/urlreporter/internal/config"
)

func main() {
	os.Exit(run(os.Getenv("CONFIG_FILE"), os.Stdout, os.Stderr))
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return true
	}
	return false
}

func run(configPath string, stdout, stderr io.Writer) int {
	fail := func(msg string) { fmt.Fprintln(stderr, "✖", msg) }
	warn := func(msg string) { fmt.Fprintln(stderr, "⚠", msg) }
	ok := func(msg string) { fmt.Fprintln(stdout, "✔", msg) }

	cfg, err := config.Load(configPath)
	if err != nil {
		fail(err.Error())
		return 1
	}
	ok(fmt.Sprintf("%d URL(s), %d webhook(s)", len(cfg.URLs), len(cfg.WebhookURLs)))

	for i, u := range cfg.URLs {
		switch {
		case u == "":
			warn(fmt.Sprintf("URLS entry %d is blank; it will always be reported down.", i+1))
		case !isHTTPURL(u):
			warn(fmt.Sprintf("URL %q has no http(s) scheme; it will be reported down.", u))
		}
	}

	if cfg.Alert.Interval == 0 {
		warn("ALERT_INTERVAL is 0; the alert cycle is disabled.")
	} else {
		ok("alert every " + cfg.Alert.Interval.String())
	}
	if cfg.Digest.Schedule == "" {
		warn("DIGEST_SCHEDULE is empty; the daily digest is disabled.")
	} else {
		loc, _ := cfg.Location()
		ok(fmt.Sprintf("digest at %q (%s)", cfg.Digest.Schedule, loc))
	}

	if cfg.API.Addr == "" {
		warn("API_ADDR is empty; the ops API is disabled.")
	} else {
		ok("API_ADDR=" + cfg.API.Addr)
		if len(cfg.API.AdminKeys) == 0 {
			warn("API_ADMIN_KEYS is empty; anyone who can reach the API can trigger cycles.")
		}
		if len(cfg.API.PublicKeys) == 0 && len(cfg.API.AdminKeys) == 0 {
			warn("no API keys configured; read routes are open.")
		}
		if len(cfg.API.AllowedOrigins) == 0 {
			warn("API_ALLOWED_ORIGINS empty; CORS allows every origin.")
		}
	}

	if !cfg.HTTP.VerifyTLS {
		warn("HTTP_VERIFY_TLS=false; certificate errors will not mark URLs down.")
	}

	ok("preflight passed")
	return 0
}
