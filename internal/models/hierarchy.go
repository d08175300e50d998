package models

// Region is the top tier of the forecast hierarchy (e.g. 東北地方)
type Region struct {
	ID   int64
	Code string // two-character prefix of its first prefecture code
	Name string
}

// Prefecture is a JMA forecast office area belonging to one Region
type Prefecture struct {
	ID       int64
	RegionID int64
	Code     string // six digits, e.g. "016000"
	Name     string
}

// Area is a forecast sub-area belonging to one Prefecture.
// The class10/15/20 tier it came from is not retained.
type Area struct {
	ID           int64
	PrefectureID int64
	Code         string
	Name         string
}
