// Package cache persists the region/prefecture/area hierarchy and per-area
// forecast observations in SQLite.
package cache

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/ngmaloney/jma-terminal/internal/database"
	"github.com/ngmaloney/jma-terminal/internal/models"
	_ "modernc.org/sqlite"
)

// Store reads and writes the cache. Every operation opens its own connection.
type Store struct {
	dbPath string
}

// NewStore creates a store over the database at dbPath
func NewStore(dbPath string) *Store {
	return &Store{dbPath: dbPath}
}

// querier is satisfied by *sql.DB and *sql.Tx
type querier interface {
	Exec(query string, args ...any) (sql.Result, error)
	QueryRow(query string, args ...any) *sql.Row
}

// withTx runs fn in a transaction on a fresh connection
func (s *Store) withTx(fn func(tx *sql.Tx) error) error {
	return database.WithDB(s.dbPath, func(db *sql.DB) error {
		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("beginning transaction: %w", err)
		}
		defer tx.Rollback()

		if err := fn(tx); err != nil {
			return err
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing transaction: %w", err)
		}
		return nil
	})
}

// UpsertRegion returns the id of the region with code, inserting it if absent.
// An existing row keeps its name.
func (s *Store) UpsertRegion(code, name string) (id int64, err error) {
	err = s.withTx(func(tx *sql.Tx) error {
		id, err = upsertRegion(tx, code, name)
		return err
	})
	return id, err
}

// UpsertPrefecture returns the id of the prefecture with code, inserting it under regionID if absent
func (s *Store) UpsertPrefecture(regionID int64, code, name string) (id int64, err error) {
	err = s.withTx(func(tx *sql.Tx) error {
		id, err = upsertPrefecture(tx, regionID, code, name)
		return err
	})
	return id, err
}

// UpsertArea returns the id of the area with code, inserting it under prefectureID if absent
func (s *Store) UpsertArea(prefectureID int64, code, name string) (id int64, err error) {
	err = s.withTx(func(tx *sql.Tx) error {
		id, err = upsertArea(tx, prefectureID, code, name)
		return err
	})
	return id, err
}

func upsertRegion(q querier, code, name string) (int64, error) {
	return lookupOrInsert(q,
		"SELECT id FROM region WHERE code = ?", []any{code},
		"INSERT INTO region (code, name) VALUES (?, ?)", []any{code, name})
}

func upsertPrefecture(q querier, regionID int64, code, name string) (int64, error) {
	return lookupOrInsert(q,
		"SELECT id FROM prefecture WHERE code = ?", []any{code},
		"INSERT INTO prefecture (region_id, code, name) VALUES (?, ?, ?)", []any{regionID, code, name})
}

func upsertArea(q querier, prefectureID int64, code, name string) (int64, error) {
	return lookupOrInsert(q,
		"SELECT id FROM area WHERE code = ?", []any{code},
		"INSERT INTO area (prefecture_id, code, name) VALUES (?, ?, ?)", []any{prefectureID, code, name})
}

// lookupOrInsert implements first-write-wins keyed by natural code
func lookupOrInsert(q querier, selectSQL string, selectArgs []any, insertSQL string, insertArgs []any) (int64, error) {
	var id int64
	err := q.QueryRow(selectSQL, selectArgs...).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("looking up %v: %w", selectArgs, err)
	}

	res, err := q.Exec(insertSQL, insertArgs...)
	if err != nil {
		return 0, fmt.Errorf("inserting %v: %w", insertArgs, err)
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}
	return id, nil
}

func insertObservation(q querier, obs models.Observation) (bool, error) {
	if obs.FetchedAt.IsZero() {
		obs.FetchedAt = clock.Now()
	}

	res, err := q.Exec(`
		INSERT OR IGNORE INTO weather (date, area_id, code, area_name, weather_description, wind, wave, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		obs.Date, obs.AreaID, obs.Code, obs.AreaName, obs.Weather, obs.Wind, obs.Wave, obs.FetchedAt,
	)
	if err != nil {
		return false, fmt.Errorf("inserting weather for %s on %s: %w", obs.Code, obs.Date, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("checking inserted weather rows: %w", err)
	}
	return n > 0, nil
}

func areaIDByCode(q querier, code string) (int64, bool, error) {
	var id int64
	err := q.QueryRow("SELECT id FROM area WHERE code = ?", code).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("querying area %s: %w", code, err)
	}
	return id, true, nil
}

// ListRegions returns all regions in insertion order
func (s *Store) ListRegions() ([]models.Region, error) {
	var regions []models.Region
	err := database.WithDB(s.dbPath, func(db *sql.DB) error {
		rows, err := db.Query("SELECT id, code, name FROM region ORDER BY id")
		if err != nil {
			return fmt.Errorf("querying regions: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var r models.Region
			if err := rows.Scan(&r.ID, &r.Code, &r.Name); err != nil {
				return fmt.Errorf("scanning region: %w", err)
			}
			regions = append(regions, r)
		}
		return rows.Err()
	})
	return regions, err
}

// ListPrefectures returns the prefectures of a region in insertion order
func (s *Store) ListPrefectures(regionID int64) ([]models.Prefecture, error) {
	var prefectures []models.Prefecture
	err := database.WithDB(s.dbPath, func(db *sql.DB) error {
		rows, err := db.Query("SELECT id, region_id, code, name FROM prefecture WHERE region_id = ? ORDER BY id", regionID)
		if err != nil {
			return fmt.Errorf("querying prefectures: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var p models.Prefecture
			if err := rows.Scan(&p.ID, &p.RegionID, &p.Code, &p.Name); err != nil {
				return fmt.Errorf("scanning prefecture: %w", err)
			}
			prefectures = append(prefectures, p)
		}
		return rows.Err()
	})
	return prefectures, err
}

// ListAreas returns the areas of a prefecture in insertion order
func (s *Store) ListAreas(prefectureID int64) ([]models.Area, error) {
	var areas []models.Area
	err := database.WithDB(s.dbPath, func(db *sql.DB) error {
		rows, err := db.Query("SELECT id, prefecture_id, code, name FROM area WHERE prefecture_id = ? ORDER BY id", prefectureID)
		if err != nil {
			return fmt.Errorf("querying areas: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var a models.Area
			if err := rows.Scan(&a.ID, &a.PrefectureID, &a.Code, &a.Name); err != nil {
				return fmt.Errorf("scanning area: %w", err)
			}
			areas = append(areas, a)
		}
		return rows.Err()
	})
	return areas, err
}

// ListObservations returns the stored forecast days of an area in insertion order
func (s *Store) ListObservations(areaID int64) ([]models.Observation, error) {
	var observations []models.Observation
	err := database.WithDB(s.dbPath, func(db *sql.DB) error {
		rows, err := db.Query(`
			SELECT id, date, area_id, code, area_name, weather_description, wind, wave, fetched_at
			FROM weather WHERE area_id = ? ORDER BY id`, areaID)
		if err != nil {
			return fmt.Errorf("querying weather: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var o models.Observation
			var areaName, weather, wind, wave sql.NullString
			var fetchedAt sql.NullTime
			if err := rows.Scan(&o.ID, &o.Date, &o.AreaID, &o.Code, &areaName, &weather, &wind, &wave, &fetchedAt); err != nil {
				return fmt.Errorf("scanning weather: %w", err)
			}
			o.AreaName = areaName.String
			o.Weather = weather.String
			o.Wind = wind.String
			o.Wave = wave.String
			o.FetchedAt = fetchedAt.Time
			observations = append(observations, o)
		}
		return rows.Err()
	})
	return observations, err
}

// Counts holds the number of rows per table
type Counts struct {
	Regions      int
	Prefectures  int
	Areas        int
	Observations int
}

// Counts returns the row count of every cache table
func (s *Store) Counts() (Counts, error) {
	var c Counts
	err := database.WithDB(s.dbPath, func(db *sql.DB) error {
		targets := []struct {
			table string
			dest  *int
		}{
			{"region", &c.Regions},
			{"prefecture", &c.Prefectures},
			{"area", &c.Areas},
			{"weather", &c.Observations},
		}
		for _, t := range targets {
			if err := db.QueryRow("SELECT COUNT(*) FROM " + t.table).Scan(t.dest); err != nil {
				return fmt.Errorf("counting %s: %w", t.table, err)
			}
		}
		return nil
	})
	return c, err
}

// Tx is a write batch sharing one connection and transaction
type Tx struct {
	tx *sql.Tx
}

// Batch runs fn inside a single transaction. Nothing is committed if fn fails.
func (s *Store) Batch(fn func(tx *Tx) error) error {
	return s.withTx(func(tx *sql.Tx) error {
		return fn(&Tx{tx: tx})
	})
}

// UpsertRegion is Store.UpsertRegion inside the batch
func (t *Tx) UpsertRegion(code, name string) (int64, error) {
	return upsertRegion(t.tx, code, name)
}

// UpsertPrefecture is Store.UpsertPrefecture inside the batch
func (t *Tx) UpsertPrefecture(regionID int64, code, name string) (int64, error) {
	return upsertPrefecture(t.tx, regionID, code, name)
}

// UpsertArea is Store.UpsertArea inside the batch
func (t *Tx) UpsertArea(prefectureID int64, code, name string) (int64, error) {
	return upsertArea(t.tx, prefectureID, code, name)
}

// InsertObservation stores obs unless a row with the same (date, area, code)
// exists, in which case nothing changes. It reports whether a row was written.
func (t *Tx) InsertObservation(obs models.Observation) (bool, error) {
	return insertObservation(t.tx, obs)
}

// AreaIDByCode returns the id of the area with code. ok is false when unknown.
func (t *Tx) AreaIDByCode(code string) (int64, bool, error) {
	return areaIDByCode(t.tx, code)
}
