package cache

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/ngmaloney/jma-terminal/internal/database"
	"github.com/ngmaloney/jma-terminal/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "weather.db")
	require.NoError(t, database.EnsureSchema(dbPath))
	return NewStore(dbPath)
}

func freezeClock(t *testing.T) *clockwork.FakeClock {
	t.Helper()
	fc := clockwork.NewFakeClockAt(time.Date(2024, time.June, 1, 8, 0, 0, 0, time.UTC))
	SetClock(fc)
	t.Cleanup(func() { SetClock(nil) })
	return fc
}

func TestStore_UpsertFirstWriteWins(t *testing.T) {
	s := newTestStore(t)

	regionID, err := s.UpsertRegion("01", "北海道")
	require.NoError(t, err)
	again, err := s.UpsertRegion("01", "別名")
	require.NoError(t, err)
	assert.Equal(t, regionID, again)

	prefID, err := s.UpsertPrefecture(regionID, "016000", "石狩・空知・後志地方")
	require.NoError(t, err)
	prefAgain, err := s.UpsertPrefecture(regionID, "016000", "別名")
	require.NoError(t, err)
	assert.Equal(t, prefID, prefAgain)

	areaID, err := s.UpsertArea(prefID, "016010", "石狩地方")
	require.NoError(t, err)
	areaAgain, err := s.UpsertArea(prefID, "016010", "別名")
	require.NoError(t, err)
	assert.Equal(t, areaID, areaAgain)

	regions, err := s.ListRegions()
	require.NoError(t, err)
	require.Len(t, regions, 1)
	assert.Equal(t, "北海道", regions[0].Name)

	areas, err := s.ListAreas(prefID)
	require.NoError(t, err)
	require.Len(t, areas, 1)
	assert.Equal(t, "石狩地方", areas[0].Name)
}

func TestStore_ListsByParent(t *testing.T) {
	s := newTestStore(t)

	hokkaido, _ := s.UpsertRegion("01", "北海道")
	tohoku, _ := s.UpsertRegion("02", "東北地方")
	_, _ = s.UpsertPrefecture(hokkaido, "016000", "石狩・空知・後志地方")
	aomori, _ := s.UpsertPrefecture(tohoku, "020000", "青森県")
	_, _ = s.UpsertPrefecture(tohoku, "030000", "岩手県")

	prefs, err := s.ListPrefectures(tohoku)
	require.NoError(t, err)
	require.Len(t, prefs, 2)
	assert.Equal(t, "020000", prefs[0].Code)
	assert.Equal(t, "030000", prefs[1].Code)

	areas, err := s.ListAreas(aomori)
	require.NoError(t, err)
	assert.Empty(t, areas)

	none, err := s.ListPrefectures(999)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestStore_InsertObservationKeepsFirst(t *testing.T) {
	s := newTestStore(t)
	fc := freezeClock(t)

	regionID, _ := s.UpsertRegion("01", "北海道")
	prefID, _ := s.UpsertPrefecture(regionID, "016000", "石狩・空知・後志地方")
	areaID, _ := s.UpsertArea(prefID, "016010", "石狩地方")

	obs := models.Observation{
		Date:     "2024-06-01T17:00:00+09:00",
		AreaID:   areaID,
		Code:     "016010",
		AreaName: "石狩地方",
		Weather:  "晴れ",
		Wind:     "北の風",
		Wave:     "１メートル",
	}
	var inserted bool
	require.NoError(t, s.Batch(func(tx *Tx) (err error) {
		inserted, err = tx.InsertObservation(obs)
		return err
	}))
	assert.True(t, inserted)

	fc.Advance(time.Hour)
	obs.Weather = "雨"
	require.NoError(t, s.Batch(func(tx *Tx) (err error) {
		inserted, err = tx.InsertObservation(obs)
		return err
	}))
	assert.False(t, inserted)

	rows, err := s.ListObservations(areaID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "晴れ", rows[0].Weather)
	assert.Equal(t, "１メートル", rows[0].Wave)
	assert.True(t, rows[0].FetchedAt.Equal(time.Date(2024, time.June, 1, 8, 0, 0, 0, time.UTC)))
}

func TestStore_AreaIDByCode(t *testing.T) {
	s := newTestStore(t)
	regionID, _ := s.UpsertRegion("01", "北海道")
	prefID, _ := s.UpsertPrefecture(regionID, "016000", "石狩・空知・後志地方")
	areaID, _ := s.UpsertArea(prefID, "016010", "石狩地方")

	require.NoError(t, s.Batch(func(tx *Tx) error {
		id, ok, err := tx.AreaIDByCode("016010")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, areaID, id)

		_, ok, err = tx.AreaIDByCode("999999")
		require.NoError(t, err)
		assert.False(t, ok)
		return nil
	}))
}

func TestStore_MissingDatabaseTablesError(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "empty.db"))

	_, err := s.ListRegions()
	assert.Error(t, err)
}
