package hierarchy

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"

	"github.com/ngmaloney/jma-terminal/internal/jma"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadAreaDocument(t *testing.T) *jma.AreaDocument {
	t.Helper()
	data, err := os.ReadFile("../jma/testdata/area.json")
	require.NoError(t, err)
	var doc jma.AreaDocument
	require.NoError(t, json.Unmarshal(data, &doc))
	return &doc
}

var testGroups = []jma.RegionGroup{
	{Name: "北海道", Codes: []string{"011000", "016000"}},
	{Name: "東北地方", Codes: []string{"020000"}},
	{Name: "未知", Codes: []string{"999999"}},
}

func TestBuild_Hokkaido(t *testing.T) {
	snap := Build(loadAreaDocument(t), testGroups)

	regions := snap.Regions()
	require.Len(t, regions, 3)
	assert.Equal(t, "01", regions[0].Code, "region code comes from the first listed code even if it is skipped")
	assert.Equal(t, "北海道", regions[0].Name)
	assert.Equal(t, "02", regions[1].Code)
	assert.Equal(t, "99", regions[2].Code)

	_, prefs, ok := snap.Region("01")
	require.True(t, ok)
	require.Len(t, prefs, 1, "011000 is not in offices and is skipped")
	assert.Equal(t, "016000", prefs[0].Code)
	assert.Equal(t, "石狩・空知・後志地方", prefs[0].Name)

	var codes []string
	for _, a := range snap.Areas("016000") {
		codes = append(codes, a.Code)
	}
	// class15s, then class10s, then class20s; only direct children of 016000
	assert.Equal(t, []string{"016012", "016010", "016020", "016030", "0120000"}, codes)
}

func TestBuild_SkipsUnknownPrefectures(t *testing.T) {
	snap := Build(loadAreaDocument(t), testGroups)

	_, ok := snap.Prefecture("011000")
	assert.False(t, ok)
	assert.Nil(t, snap.Areas("011000"))

	_, prefs, ok := snap.Region("99")
	require.True(t, ok)
	assert.Empty(t, prefs)
}

func TestBuild_MissingTiers(t *testing.T) {
	doc := &jma.AreaDocument{
		Offices: map[string]jma.AreaEntry{"130000": {Name: "東京都"}},
		Class10s: map[string]jma.AreaEntry{
			"130010": {Name: "東京地方", Parent: "130000"},
		},
	}
	snap := Build(doc, []jma.RegionGroup{{Name: "関東地方", Codes: []string{"130000"}}})

	areas := snap.Areas("130000")
	require.Len(t, areas, 1)
	assert.Equal(t, "東京地方", areas[0].Name)
}

func TestBuild_DuplicateCodesFirstWins(t *testing.T) {
	doc := &jma.AreaDocument{
		Offices: map[string]jma.AreaEntry{"130000": {Name: "東京都"}},
	}
	groups := []jma.RegionGroup{
		{Name: "関東地方", Codes: []string{"130000", "130000"}},
		{Name: "関東その他", Codes: []string{"130000"}},
	}
	snap := Build(doc, groups)

	regions := snap.Regions()
	require.Len(t, regions, 1)
	assert.Equal(t, "関東地方", regions[0].Name)

	_, prefs, _ := snap.Region("13")
	assert.Len(t, prefs, 1)
}

func TestSnapshot_ReturnsCopies(t *testing.T) {
	snap := Build(loadAreaDocument(t), testGroups)

	areas := snap.Areas("016000")
	areas[0].Name = "changed"
	assert.NotEqual(t, "changed", snap.Areas("016000")[0].Name)

	nodes := snap.Nodes()
	nodes[0].Prefectures[0].Areas[0].Name = "changed"
	assert.NotEqual(t, "changed", snap.Nodes()[0].Prefectures[0].Areas[0].Name)
}

type stubAreaFetcher struct {
	doc *jma.AreaDocument
	err error
}

func (f stubAreaFetcher) AreaDocument(ctx context.Context) (*jma.AreaDocument, error) {
	return f.doc, f.err
}

func TestLoad(t *testing.T) {
	snap, err := Load(context.Background(), stubAreaFetcher{doc: loadAreaDocument(t)}, testGroups)
	require.NoError(t, err)
	assert.Len(t, snap.Regions(), 3)

	_, err = Load(context.Background(), stubAreaFetcher{err: errors.New("connection refused")}, testGroups)
	assert.ErrorContains(t, err, "fetching area document")
}
