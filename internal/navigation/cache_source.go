package navigation

import (
	"context"
	"fmt"
	"strconv"

	"github.com/ngmaloney/jma-terminal/internal/cache"
)

// CacheSource reads the hierarchy and forecasts from the SQLite cache. Keys are
// the decimal row ids of the cached entities.
type CacheSource struct {
	store *cache.Store
}

// NewCacheSource creates a source over store
func NewCacheSource(store *cache.Store) *CacheSource {
	return &CacheSource{store: store}
}

// Regions lists the cached regions in insertion order
func (s *CacheSource) Regions(ctx context.Context) ([]Option, error) {
	regions, err := s.store.ListRegions()
	if err != nil {
		return nil, err
	}
	opts := make([]Option, 0, len(regions))
	for _, r := range regions {
		opts = append(opts, Option{Key: idKey(r.ID), Label: r.Name})
	}
	return opts, nil
}

// Prefectures lists the prefectures of the region with id regionKey
func (s *CacheSource) Prefectures(ctx context.Context, regionKey string) ([]Option, error) {
	regionID, err := parseID(regionKey)
	if err != nil {
		return nil, err
	}
	prefectures, err := s.store.ListPrefectures(regionID)
	if err != nil {
		return nil, err
	}
	opts := make([]Option, 0, len(prefectures))
	for _, p := range prefectures {
		opts = append(opts, Option{Key: idKey(p.ID), Label: p.Name})
	}
	return opts, nil
}

// Areas lists the areas of the prefecture with id prefectureKey
func (s *CacheSource) Areas(ctx context.Context, prefectureKey string) ([]Option, error) {
	prefectureID, err := parseID(prefectureKey)
	if err != nil {
		return nil, err
	}
	areas, err := s.store.ListAreas(prefectureID)
	if err != nil {
		return nil, err
	}
	opts := make([]Option, 0, len(areas))
	for _, a := range areas {
		opts = append(opts, Option{Key: idKey(a.ID), Label: a.Name})
	}
	return opts, nil
}

// Forecast returns the cached observations of the area with id areaKey
func (s *CacheSource) Forecast(ctx context.Context, prefectureKey, areaKey string) (Forecast, error) {
	areaID, err := parseID(areaKey)
	if err != nil {
		return Forecast{}, err
	}
	observations, err := s.store.ListObservations(areaID)
	if err != nil {
		return Forecast{}, err
	}

	var f Forecast
	for _, o := range observations {
		f.Rows = append(f.Rows, ForecastRow{
			Date:    o.Date,
			Weather: o.Weather,
			Wind:    o.Wind,
			Wave:    o.Wave,
		})
	}
	return f, nil
}

func idKey(id int64) string {
	return strconv.FormatInt(id, 10)
}

func parseID(key string) (int64, error) {
	id, err := strconv.ParseInt(key, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid cache key %q: %w", key, err)
	}
	return id, nil
}
