package cache

import (
	"github.com/ngmaloney/jma-terminal/internal/jma"
	"github.com/ngmaloney/jma-terminal/internal/models"
)

// ObservationDays is the number of forecast days kept per area
const ObservationDays = 3

// StoreForecast writes the short-term forecast of doc into the weather table.
// Only the first time series of the first group is read. Areas whose code is not
// in the area table are skipped, and at most ObservationDays rows are written per
// area. It returns the number of new rows.
func (s *Store) StoreForecast(doc jma.ForecastDocument) (int, error) {
	series := doc.PrimarySeries()
	if series == nil {
		return 0, nil
	}

	inserted := 0
	err := s.Batch(func(tx *Tx) error {
		now := clock.Now()
		for _, af := range series.Forecasts(ObservationDays) {
			areaID, ok, err := tx.AreaIDByCode(af.Code)
			if err != nil {
				return err
			}
			if !ok {
				continue
			}

			for _, e := range af.Entries {
				added, err := tx.InsertObservation(models.Observation{
					Date:      e.Date,
					AreaID:    areaID,
					Code:      af.Code,
					AreaName:  af.Name,
					Weather:   e.Weather,
					Wind:      e.Wind,
					Wave:      e.Wave,
					FetchedAt: now,
				})
				if err != nil {
					return err
				}
				if added {
					inserted++
				}
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}
