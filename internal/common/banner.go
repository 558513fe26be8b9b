package common

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ternarybob/banner"
)

// storageSummary describes where baselines live for the startup banner.
func storageSummary(cfg StorageConfig) string {
	switch cfg.Backend {
	case "surrealdb":
		return fmt.Sprintf("surrealdb %s (%s/%s)", cfg.Address, cfg.Namespace, cfg.Database)
	case "":
		return "file " + cfg.Path
	default:
		return cfg.Backend + " " + cfg.Path
	}
}

// PrintBanner displays the application startup banner to stderr.
func PrintBanner(config *Config, logger *Logger) {
	printBanner(os.Stderr, config, logger)
}

func printBanner(w io.Writer, config *Config, logger *Logger) {
	bi := CurrentBuild()
	serviceURL := fmt.Sprintf("http://%s:%d", config.Server.Host, config.Server.Port)
	storage := storageSummary(config.Storage)

	lineColor := banner.ColorCyan
	textColor := banner.ColorBold + banner.ColorWhite
	width := 64
	hr := lineColor + strings.Repeat("═", width) + banner.ColorReset

	art := []string{
		`  ____       _          ____            _    `,
		` |  _ \ _ __(_) ___ ___|  _ \  ___  ___| | __`,
		` | |_) | '__| |/ __/ _ \ | | |/ _ \/ __| |/ /`,
		` |  __/| |  | | (_|  __/ |_| |  __/\__ \   < `,
		` |_|   |_|  |_|\___\___|____/ \___||___/_|\_\`,
	}

	fmt.Fprintf(w, "\n%s\n\n", hr)
	for _, line := range art {
		fmt.Fprintf(w, "%s%s%s\n", textColor, line, banner.ColorReset)
	}
	fmt.Fprintf(w, "\n%s  Session prices, 5-day and year-to-date change%s\n", textColor, banner.ColorReset)
	fmt.Fprintf(w, "\n%s\n\n", hr)

	kvPad := 16
	kvLines := [][2]string{
		{"Version", bi.Version},
		{"Build", bi.Build},
		{"Commit", bi.Commit},
		{"Environment", config.Environment},
		{"Service URL", serviceURL},
		{"Baselines", storage},
		{"Tiers", strings.Join(config.Fetch.Tiers, " > ")},
	}
	for _, kv := range kvLines {
		fmt.Fprintf(w, "%s  %-*s %s%s\n", textColor, kvPad, kv[0], kv[1], banner.ColorReset)
	}

	fmt.Fprintf(w, "\n%s\n\n", hr)

	logger.Info().
		Str("version", bi.Version).
		Str("build", bi.Build).
		Str("commit", bi.Commit).
		Str("environment", config.Environment).
		Str("service_url", serviceURL).
		Str("storage", storage).
		Msg("Application started")
}

// PrintShutdownBanner displays the application shutdown banner to stderr.
func PrintShutdownBanner(logger *Logger) {
	lineColor := banner.ColorCyan
	textColor := banner.ColorBold + banner.ColorWhite
	hr := lineColor + strings.Repeat("═", 42) + banner.ColorReset

	fmt.Fprintf(os.Stderr, "\n%s\n", hr)
	fmt.Fprintf(os.Stderr, "%s  PRICEDESK: SHUTTING DOWN%s\n", textColor, banner.ColorReset)
	fmt.Fprintf(os.Stderr, "%s\n\n", hr)

	logger.Info().Msg("Application shutting down")
}
