// Package hierarchy builds the region → prefecture → area tree from the JMA
// area-metadata document and writes it into the cache.
package hierarchy

import (
	"context"
	"fmt"
	"sort"

	"github.com/ngmaloney/jma-terminal/internal/jma"
	"github.com/ngmaloney/jma-terminal/internal/models"
)

// RegionNode is a region and its prefectures
type RegionNode struct {
	Region      models.Region
	Prefectures []PrefectureNode
}

// PrefectureNode is a prefecture and its areas
type PrefectureNode struct {
	Prefecture models.Prefecture
	Areas      []models.Area
}

// Snapshot is an immutable hierarchy built once per process. IDs are zero;
// records are identified by natural code.
type Snapshot struct {
	regions     []RegionNode
	prefectures map[string]*PrefectureNode
	regionByKey map[string]int
}

// Build derives the hierarchy from doc for the given region groups.
//
// A region's code is the first two characters of its first listed code.
// Prefecture codes missing from doc.Offices are skipped. Areas are every
// class15s, class10s and class20s entry whose parent is the prefecture code,
// in that tier order; an area code already placed elsewhere is not repeated.
func Build(doc *jma.AreaDocument, groups []jma.RegionGroup) *Snapshot {
	snap := &Snapshot{
		prefectures: make(map[string]*PrefectureNode),
		regionByKey: make(map[string]int),
	}

	children := childrenByParent(doc)
	seenPrefectures := make(map[string]bool)
	seenAreas := make(map[string]bool)

	for _, g := range groups {
		if len(g.Codes) == 0 {
			continue
		}
		code := regionCode(g.Codes[0])
		idx, exists := snap.regionByKey[code]
		if !exists {
			idx = len(snap.regions)
			snap.regionByKey[code] = idx
			snap.regions = append(snap.regions, RegionNode{Region: models.Region{Code: code, Name: g.Name}})
		}

		for _, prefCode := range g.Codes {
			if seenPrefectures[prefCode] {
				continue
			}
			name, ok := doc.OfficeName(prefCode)
			if !ok {
				continue
			}
			seenPrefectures[prefCode] = true

			pref := PrefectureNode{Prefecture: models.Prefecture{Code: prefCode, Name: name}}
			for _, a := range children[prefCode] {
				if seenAreas[a.Code] {
					continue
				}
				seenAreas[a.Code] = true
				pref.Areas = append(pref.Areas, a)
			}
			snap.regions[idx].Prefectures = append(snap.regions[idx].Prefectures, pref)
		}
	}

	for ri := range snap.regions {
		for pi := range snap.regions[ri].Prefectures {
			p := &snap.regions[ri].Prefectures[pi]
			snap.prefectures[p.Prefecture.Code] = p
		}
	}
	return snap
}

// Load fetches the area document once and builds the snapshot from it
func Load(ctx context.Context, fetcher jma.AreaFetcher, groups []jma.RegionGroup) (*Snapshot, error) {
	doc, err := fetcher.AreaDocument(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching area document: %w", err)
	}
	return Build(doc, groups), nil
}

// childrenByParent groups tier entries by parent code, tiers in merge order and
// codes sorted within a tier
func childrenByParent(doc *jma.AreaDocument) map[string][]models.Area {
	out := make(map[string][]models.Area)
	for _, tier := range doc.Tiers() {
		codes := make([]string, 0, len(tier))
		for code := range tier {
			codes = append(codes, code)
		}
		sort.Strings(codes)

		for _, code := range codes {
			entry := tier[code]
			if entry.Parent == "" {
				continue
			}
			out[entry.Parent] = append(out[entry.Parent], models.Area{Code: code, Name: entry.Name})
		}
	}
	return out
}

func regionCode(prefectureCode string) string {
	if len(prefectureCode) < 2 {
		return prefectureCode
	}
	return prefectureCode[:2]
}

// Regions returns the regions in group order
func (s *Snapshot) Regions() []models.Region {
	out := make([]models.Region, len(s.regions))
	for i, r := range s.regions {
		out[i] = r.Region
	}
	return out
}

// Region returns the region with code and its prefectures
func (s *Snapshot) Region(code string) (models.Region, []models.Prefecture, bool) {
	i, ok := s.regionByKey[code]
	if !ok {
		return models.Region{}, nil, false
	}
	node := s.regions[i]
	prefs := make([]models.Prefecture, len(node.Prefectures))
	for j, p := range node.Prefectures {
		prefs[j] = p.Prefecture
	}
	return node.Region, prefs, true
}

// Prefecture returns the prefecture with code
func (s *Snapshot) Prefecture(code string) (models.Prefecture, bool) {
	p, ok := s.prefectures[code]
	if !ok {
		return models.Prefecture{}, false
	}
	return p.Prefecture, true
}

// Areas returns the areas of the prefecture with code
func (s *Snapshot) Areas(prefectureCode string) []models.Area {
	p, ok := s.prefectures[prefectureCode]
	if !ok {
		return nil
	}
	return append([]models.Area(nil), p.Areas...)
}

// Nodes returns a copy of the full tree
func (s *Snapshot) Nodes() []RegionNode {
	out := make([]RegionNode, len(s.regions))
	for i, r := range s.regions {
		prefs := make([]PrefectureNode, len(r.Prefectures))
		for j, p := range r.Prefectures {
			prefs[j] = PrefectureNode{
				Prefecture: p.Prefecture,
				Areas:      append([]models.Area(nil), p.Areas...),
			}
		}
		out[i] = RegionNode{Region: r.Region, Prefectures: prefs}
	}
	return out
}
