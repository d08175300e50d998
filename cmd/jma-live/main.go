package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ngmaloney/jma-terminal/internal/config"
	"github.com/ngmaloney/jma-terminal/internal/hierarchy"
	"github.com/ngmaloney/jma-terminal/internal/jma"
	"github.com/ngmaloney/jma-terminal/internal/navigation"
	"github.com/ngmaloney/jma-terminal/internal/ui"
)

func main() {
	configPath := flag.String("config", config.DefaultPath, "Path to the TOML configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	logFile, err := tea.LogToFile(cfg.Logging.File, "jma-live")
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

	// Area definitions are read once; every later lookup uses the snapshot
	snapshot, err := hierarchy.Load(context.Background(), client, jma.RegionGroups)
	if err != nil {
		log.Printf("Failed to load area definitions: %v", err)
		fmt.Printf("Error loading area definitions: %v\n", err)
		os.Exit(1)
	}

	nav := navigation.New(navigation.NewLiveSource(snapshot, client))
	p := tea.NewProgram(ui.NewModel(nav,
		ui.WithTitle("気象庁 天気予報 (live)"),
		ui.WithTimeout(cfg.JMA.Timeout()),
	), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running application: %v\n", err)
		os.Exit(1)
	}
}
