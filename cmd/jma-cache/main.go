package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ngmaloney/jma-terminal/internal/cache"
	"github.com/ngmaloney/jma-terminal/internal/config"
	"github.com/ngmaloney/jma-terminal/internal/hierarchy"
	"github.com/ngmaloney/jma-terminal/internal/jma"
	"github.com/ngmaloney/jma-terminal/internal/navigation"
	"github.com/ngmaloney/jma-terminal/internal/ui"
)

func main() {
	configPath := flag.String("config", config.DefaultPath, "Path to the TOML configuration file")
	dbPath := flag.String("db", "", "Forecast cache location (overrides cache.db_path)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}
	if *dbPath != "" {
		cfg.Cache.DBPath = *dbPath
	}

	logFile, err := tea.LogToFile(cfg.Logging.File, "jma-cache")
	if err != nil {
		fmt.Printf("Error opening log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()

	client := jma.NewClient(jma.Options{
		AreaURL:         cfg.JMA.AreaURL,
		ForecastBaseURL: cfg.JMA.ForecastBaseURL,
		UserAgent:       cfg.JMA.UserAgent,
		Timeout:         cfg.JMA.Timeout(),
	})

	// The cache is rebuilt from scratch on every start
	provision := func(progress chan<- string) error {
		ctx := context.Background()

		progress <- "Fetching area definitions..."
		snapshot, err := hierarchy.Load(ctx, client, jma.RegionGroups)
		if err != nil {
			return err
		}

		report, err := cache.Rebuild(ctx, cache.RebuildOptions{
			DBPath:   cfg.Cache.DBPath,
			Snapshot: snapshot,
			Fetcher:  client,
			Progress: progress,
		})
		if err != nil {
			return err
		}

		log.Printf("Cache rebuilt in %s: %d regions, %d prefectures, %d areas, %d observations",
			report.Duration, report.Counts.Regions, report.Counts.Prefectures, report.Counts.Areas, report.Counts.Observations)
		if failed := report.Failed(); len(failed) > 0 {
			log.Printf("No forecast cached for %d codes: %v", len(failed), failed)
		}
		return nil
	}

	nav := navigation.New(navigation.NewCacheSource(cache.NewStore(cfg.Cache.DBPath)))
	model := ui.NewModel(nav,
		ui.WithTitle("気象庁 天気予報 (cached)"),
		ui.WithTimeout(cfg.JMA.Timeout()),
		ui.WithProvisioning(provision),
	)

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running application: %v\n", err)
		os.Exit(1)
	}
}
