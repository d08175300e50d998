package navigation

import (
	"context"
	"fmt"

	"github.com/ngmaloney/jma-terminal/internal/hierarchy"
	"github.com/ngmaloney/jma-terminal/internal/jma"
)

// LiveSource serves regions and prefectures from a hierarchy snapshot and asks
// JMA for everything below. Keys are natural codes.
type LiveSource struct {
	snapshot *hierarchy.Snapshot
	fetcher  jma.ForecastFetcher
}

// NewLiveSource creates a source over snap that fetches forecasts with fetcher
func NewLiveSource(snap *hierarchy.Snapshot, fetcher jma.ForecastFetcher) *LiveSource {
	return &LiveSource{snapshot: snap, fetcher: fetcher}
}

// Regions lists the regions of the snapshot
func (s *LiveSource) Regions(ctx context.Context) ([]Option, error) {
	regions := s.snapshot.Regions()
	opts := make([]Option, 0, len(regions))
	for _, r := range regions {
		opts = append(opts, Option{Key: r.Code, Label: r.Name})
	}
	return opts, nil
}

// Prefectures lists the prefectures of the region with code regionKey
func (s *LiveSource) Prefectures(ctx context.Context, regionKey string) ([]Option, error) {
	_, prefectures, ok := s.snapshot.Region(regionKey)
	if !ok {
		return nil, fmt.Errorf("unknown region %s", regionKey)
	}
	opts := make([]Option, 0, len(prefectures))
	for _, p := range prefectures {
		opts = append(opts, Option{Key: p.Code, Label: p.Name})
	}
	return opts, nil
}

// Areas lists the areas named in the prefecture's current forecast. A missing
// forecast yields no areas.
func (s *LiveSource) Areas(ctx context.Context, prefectureKey string) ([]Option, error) {
	doc := jma.FetchWeatherData(ctx, s.fetcher, prefectureKey)
	series := doc.PrimarySeries()
	if series == nil {
		return nil, nil
	}
	opts := make([]Option, 0, len(series.Areas))
	for _, a := range series.Areas {
		opts = append(opts, Option{Key: a.Area.Code, Label: a.Area.Name})
	}
	return opts, nil
}

// Forecast fetches the prefecture's forecast and returns every time-define for
// the area with code areaKey
func (s *LiveSource) Forecast(ctx context.Context, prefectureKey, areaKey string) (Forecast, error) {
	doc := jma.FetchWeatherData(ctx, s.fetcher, prefectureKey)
	af, ok := doc.PrimarySeries().Forecast(areaKey, 0)
	if !ok {
		return Forecast{}, nil
	}

	f := Forecast{AreaName: af.Name}
	for _, e := range af.Entries {
		f.Rows = append(f.Rows, ForecastRow{
			Date:    e.Date,
			Weather: e.Weather,
			Wind:    e.Wind,
			Wave:    e.Wave,
		})
	}
	return f, nil
}
