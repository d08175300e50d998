package models

import "time"

// NotAvailable is stored in place of weather, wind or wave text the source did not provide
const NotAvailable = "なし"

// Observation is one forecast day for an area as stored in the cache
type Observation struct {
	ID        int64
	Date      string // time-define as published, e.g. "2024-06-01T17:00:00+09:00"
	AreaID    int64
	Code      string
	AreaName  string // name at fetch time
	Weather   string
	Wind      string
	Wave      string
	FetchedAt time.Time
}
