// Command rollover prepares teams.yaml for a new season: fresh season
// window, standard Massachusetts school-calendar blackouts, and cleared
// date-specific practice entries. Without --apply it previews the changes.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"bballcal/internal/config"
	appLog "bballcal/internal/log"
	"bballcal/internal/rollover"
)

func main() {
	var (
		apply     bool
		keepAdhoc bool
		keepMods  bool
		cfgPath   string
	)
	flag.BoolVar(&apply, "apply", false, "Write the changes to the config file (preview otherwise)")
	flag.BoolVar(&keepAdhoc, "keep-adhoc", false, "Keep existing adhoc practices instead of clearing them")
	flag.BoolVar(&keepMods, "keep-modifications", false, "Keep existing modifications instead of clearing them")
	flag.StringVar(&cfgPath, "config", "teams.yaml", "Path to config file")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: rollover [flags] <year>")
		flag.PrintDefaults()
		os.Exit(2)
	}
	year, err := strconv.Atoi(flag.Arg(0))
	if err != nil || year < 2000 || year > 2200 {
		fmt.Fprintf(os.Stderr, "invalid year %q\n", flag.Arg(0))
		os.Exit(2)
	}

	season := rollover.SeasonFor(year)
	fmt.Printf("Season Rollover for %d\n", year)
	fmt.Println("========================================")
	fmt.Printf("Season: %s to %s\n\nBlackouts:\n", season.Start, season.End)
	for _, b := range season.Blackouts {
		if b.Start == b.End {
			fmt.Printf("  %s: %s\n", b.Start, b.Reason)
		} else {
			fmt.Printf("  %s to %s: %s\n", b.Start, b.End, b.Reason)
		}
	}
	fmt.Println()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", cfgPath)
		os.Exit(1)
	}

	opts := rollover.Options{KeepAdhoc: keepAdhoc, KeepModifications: keepMods}

	if !apply {
		// Preview: apply to the in-memory copy only and report.
		changes := rollover.Apply(cfg, year, opts)
		fmt.Println("Preview mode - no changes made.")
		fmt.Printf("Run with --apply to update %s\n", cfgPath)
		if len(changes) > 0 {
			fmt.Println("\nEntries that would be cleared:")
			for _, ch := range changes {
				fmt.Printf("  %s: %d adhoc, %d modifications\n",
					ch.Team.Short(), ch.AdhocCleared, ch.ModificationsCleared)
			}
			fmt.Println("\nUse --keep-adhoc or --keep-modifications to preserve them.")
		}
		return
	}

	changes := rollover.Apply(cfg, year, opts)
	if err := cfg.Save(cfgPath); err != nil {
		appLog.Error("failed to save config", err, "config_path", cfgPath)
		os.Exit(1)
	}

	fmt.Printf("Updated %s\n", cfgPath)
	for _, ch := range changes {
		fmt.Printf("  %s: cleared %d adhoc, %d modifications\n",
			ch.Team.Short(), ch.AdhocCleared, ch.ModificationsCleared)
	}
}
