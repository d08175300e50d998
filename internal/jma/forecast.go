package jma

import "github.com/ngmaloney/jma-terminal/internal/models"

// ForecastDocument is the response of forecast/<code>.json: a list of forecast groups.
// The first group holds the short-term (3 day) forecast.
type ForecastDocument []ForecastGroup

// ForecastGroup is one publication inside a forecast document
type ForecastGroup struct {
	PublishingOffice string       `json:"publishingOffice"`
	ReportDatetime   string       `json:"reportDatetime"`
	TimeSeries       []TimeSeries `json:"timeSeries"`
}

// TimeSeries pairs a list of time-defines with per-area value lists
type TimeSeries struct {
	TimeDefines []string     `json:"timeDefines"`
	Areas       []SeriesArea `json:"areas"`
}

// SeriesArea holds the values for one area, index-aligned with TimeDefines
type SeriesArea struct {
	Area struct {
		Name string `json:"name"`
		Code string `json:"code"`
	} `json:"area"`
	Weathers []string `json:"weathers"`
	Winds    []string `json:"winds"`
	Waves    []string `json:"waves,omitempty"`
}

// Entry is one normalized forecast day
type Entry struct {
	Date    string
	Weather string
	Wind    string
	Wave    string
}

// AreaForecast is the normalized forecast for one area
type AreaForecast struct {
	Code    string
	Name    string
	Entries []Entry
}

// PrimarySeries returns the first time series of the first group, or nil when the
// document does not have that shape.
func (d ForecastDocument) PrimarySeries() *TimeSeries {
	if len(d) == 0 || len(d[0].TimeSeries) == 0 {
		return nil
	}
	return &d[0].TimeSeries[0]
}

// Forecasts normalizes every area of the series. At most limit entries are
// produced per area; limit <= 0 means all time-defines.
func (ts *TimeSeries) Forecasts(limit int) []AreaForecast {
	if ts == nil {
		return nil
	}
	out := make([]AreaForecast, 0, len(ts.Areas))
	for _, a := range ts.Areas {
		out = append(out, ts.normalize(a, limit))
	}
	return out
}

// Forecast normalizes the area with the given code
func (ts *TimeSeries) Forecast(code string, limit int) (AreaForecast, bool) {
	if ts == nil {
		return AreaForecast{}, false
	}
	for _, a := range ts.Areas {
		if a.Area.Code == code {
			return ts.normalize(a, limit), true
		}
	}
	return AreaForecast{}, false
}

func (ts *TimeSeries) normalize(a SeriesArea, limit int) AreaForecast {
	n := len(ts.TimeDefines)
	if limit > 0 && limit < n {
		n = limit
	}

	af := AreaForecast{
		Code:    a.Area.Code,
		Name:    a.Area.Name,
		Entries: make([]Entry, 0, n),
	}
	for i := 0; i < n; i++ {
		af.Entries = append(af.Entries, Entry{
			Date:    ts.TimeDefines[i],
			Weather: valueAt(a.Weathers, i),
			Wind:    valueAt(a.Winds, i),
			Wave:    valueAt(a.Waves, i),
		})
	}
	return af
}

// valueAt returns values[i], or the not-available sentinel when the list is short
func valueAt(values []string, i int) string {
	if i < len(values) {
		return values[i]
	}
	return models.NotAvailable
}
