package hierarchy

import (
	"context"
	"fmt"
)

// Writer stores hierarchy rows keyed by natural code. Upserts return the id of
// the existing row when the code is already present.
type Writer interface {
	UpsertRegion(code, name string) (int64, error)
	UpsertPrefecture(regionID int64, code, name string) (int64, error)
	UpsertArea(prefectureID int64, code, name string) (int64, error)
}

// Stats counts the records written (or found) by Populate
type Stats struct {
	Regions     int
	Prefectures int
	Areas       int
}

// Populate writes the snapshot through w. Running it against an already
// populated store adds no rows.
func Populate(ctx context.Context, w Writer, snap *Snapshot) (Stats, error) {
	var stats Stats
	if snap == nil {
		return stats, nil
	}
	for _, r := range snap.Nodes() {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		regionID, err := w.UpsertRegion(r.Region.Code, r.Region.Name)
		if err != nil {
			return stats, fmt.Errorf("storing region %s: %w", r.Region.Code, err)
		}
		stats.Regions++

		for _, p := range r.Prefectures {
			prefID, err := w.UpsertPrefecture(regionID, p.Prefecture.Code, p.Prefecture.Name)
			if err != nil {
				return stats, fmt.Errorf("storing prefecture %s: %w", p.Prefecture.Code, err)
			}
			stats.Prefectures++

			for _, a := range p.Areas {
				if _, err := w.UpsertArea(prefID, a.Code, a.Name); err != nil {
					return stats, fmt.Errorf("storing area %s: %w", a.Code, err)
				}
				stats.Areas++
			}
		}
	}
	return stats, nil
}
