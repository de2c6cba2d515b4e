package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/polarhive/timetable-backend/internal/config"
	"github.com/polarhive/timetable-backend/internal/logger"
	"github.com/polarhive/timetable-backend/internal/scraper"
	"github.com/polarhive/timetable-backend/internal/service"
	"github.com/polarhive/timetable-backend/internal/timetable"
)

func main() {
	asICS := flag.Bool("ics", false, "emit an iCalendar document instead of JSON")
	startStr := flag.String("start", "", "anchor date for ICS events (YYYY-MM-DD, default today)")
	flag.Parse()

	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()

	// ─── CLI Input ─────────────────────────────────────────────────────
	reader := bufio.NewReader(os.Stdin)

	fmt.Fprintln(os.Stderr, "=== Fetch Timetable ===")

	fmt.Fprint(os.Stderr, "Enter SRN: ")
	srn, _ := reader.ReadString('\n')
	srn = strings.TrimSpace(srn)
	if srn == "" {
		fmt.Fprintln(os.Stderr, "Error: SRN is required")
		os.Exit(1)
	}

	fmt.Fprint(os.Stderr, "Enter Password: ")
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		fmt.Fprintln(os.Stderr, "\nError reading password")
		os.Exit(1)
	}
	password := string(bytePassword)
	fmt.Fprintln(os.Stderr) // Newline after password input
	if password == "" {
		fmt.Fprintln(os.Stderr, "Error: Password is required")
		os.Exit(1)
	}

	// ─── Scrape and Normalize ──────────────────────────────────────────
	portal := scraper.NewClient(cfg.PortalBaseURL, srn, password, cfg.PortalTimeout, log)
	if err := portal.Login(ctx); err != nil {
		log.Fatal().Err(err).Msg("Portal login failed")
	}
	defer portal.Logout(ctx)

	raw, err := portal.FetchTimetable(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Timetable fetch failed")
	}

	grid, err := timetable.Normalize(raw)
	if err != nil {
		log.Fatal().Err(err).Msg("Timetable normalization failed")
	}

	name := timetable.DeriveName(srn, grid.Meta)
	fmt.Fprintf(os.Stderr, "Fetched timetable %s (%d days)\n", name, len(grid.Schedule))

	// ─── Output ────────────────────────────────────────────────────────
	if *asICS {
		start := time.Now()
		if *startStr != "" {
			start, err = time.Parse("2006-01-02", *startStr)
			if err != nil {
				fmt.Fprintln(os.Stderr, "Error: start date must be YYYY-MM-DD")
				os.Exit(1)
			}
		}
		calendar := service.NewCalendarService(log)
		fmt.Print(calendar.BuildICS(grid, start, map[string]string{}))
		return
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(grid); err != nil {
		log.Fatal().Err(err).Msg("Encode failed")
	}
}
