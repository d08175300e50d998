package cache

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/ngmaloney/jma-terminal/internal/database"
	"github.com/ngmaloney/jma-terminal/internal/hierarchy"
	"github.com/ngmaloney/jma-terminal/internal/jma"
)

// RebuildOptions configures Rebuild
type RebuildOptions struct {
	DBPath   string
	Snapshot *hierarchy.Snapshot
	Fetcher  jma.ForecastFetcher
	// Codes to fetch, in order. Defaults to jma.AllowedAreaCodes.
	Codes []string
	// Progress receives human readable status lines. May be nil.
	Progress chan<- string
}

// CodeResult is the outcome of one forecast fetch during a rebuild
type CodeResult struct {
	Code     string
	Fetched  bool
	Inserted int
	Err      error
}

// RebuildReport summarizes a rebuild
type RebuildReport struct {
	Hierarchy hierarchy.Stats
	Results   []CodeResult
	Counts    Counts
	Duration  time.Duration
}

// Failed returns the codes whose forecast could not be fetched or stored
func (r *RebuildReport) Failed() []string {
	var codes []string
	for _, res := range r.Results {
		if !res.Fetched || res.Err != nil {
			codes = append(codes, res.Code)
		}
	}
	return codes
}

// Rebuild deletes the cache at opts.DBPath and builds it again: schema, the
// hierarchy snapshot, then one sequential fetch per code. A failed fetch or
// insert is logged and skipped; only schema and hierarchy failures abort.
func Rebuild(ctx context.Context, opts RebuildOptions) (*RebuildReport, error) {
	started := clock.Now()
	codes := opts.Codes
	if codes == nil {
		codes = jma.AllowedAreaCodes
	}

	sendProgress := func(msg string) {
		if opts.Progress != nil {
			opts.Progress <- msg
		} else {
			log.Println(msg)
		}
	}

	sendProgress(fmt.Sprintf("Recreating forecast cache at %s...", opts.DBPath))
	if err := database.Reset(opts.DBPath); err != nil {
		return nil, err
	}
	if err := database.EnsureSchema(opts.DBPath); err != nil {
		return nil, err
	}

	store := NewStore(opts.DBPath)
	report := &RebuildReport{}

	sendProgress("Storing regions, prefectures and areas...")
	err := store.Batch(func(tx *Tx) error {
		stats, err := hierarchy.Populate(ctx, tx, opts.Snapshot)
		report.Hierarchy = stats
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("populating hierarchy: %w", err)
	}

	for i, code := range codes {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		sendProgress(fmt.Sprintf("Fetching forecast %d/%d (%s)...", i+1, len(codes), code))

		result := CodeResult{Code: code}
		doc := jma.FetchWeatherData(ctx, opts.Fetcher, code)
		if doc != nil {
			result.Fetched = true
			result.Inserted, result.Err = store.StoreForecast(doc)
			if result.Err != nil {
				log.Printf("Failed to store forecast for %s: %v", code, result.Err)
			}
		}
		report.Results = append(report.Results, result)
	}

	counts, err := store.Counts()
	if err != nil {
		return report, err
	}
	report.Counts = counts
	report.Duration = clock.Since(started)

	sendProgress(fmt.Sprintf("Cached %d observations for %d areas in %s",
		counts.Observations, counts.Areas, report.Duration.Round(time.Millisecond)))
	return report, nil
}
