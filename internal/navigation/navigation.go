// Package navigation turns a region/prefecture/area selection into the list of
// child options or the forecast rows the presentation layer should show.
package navigation

import (
	"context"
	"fmt"
	"log"
	"strings"
)

// Placeholder messages shown alongside an option list or an empty forecast
const (
	MessageSelectRegion     = "地方を選択してください。"
	MessageSelectPrefecture = "都道府県を選択してください。"
	MessageSelectArea       = "地域を選択してください。"
	MessageNoWeather        = "天気情報がありません。"
)

// Level identifies which part of the hierarchy a View describes
type Level int

const (
	LevelRegions Level = iota
	LevelPrefectures
	LevelAreas
	LevelForecast
)

func (l Level) String() string {
	switch l {
	case LevelRegions:
		return "regions"
	case LevelPrefectures:
		return "prefectures"
	case LevelAreas:
		return "areas"
	case LevelForecast:
		return "forecast"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// Option is one selectable entry. Key is opaque to callers and is handed back
// to the Source unchanged.
type Option struct {
	Key   string
	Label string
}

// ForecastRow is one forecast day
type ForecastRow struct {
	Date    string
	Weather string
	Wind    string
	Wave    string
}

// String formats the row the way the forecast pane prints it
func (r ForecastRow) String() string {
	return fmt.Sprintf("%s: 天気 - %s, 風 - %s, 波 - %s", r.Date, r.Weather, r.Wind, r.Wave)
}

// Forecast is the forecast for a single area
type Forecast struct {
	AreaName string
	Rows     []ForecastRow
}

// Source supplies hierarchy levels and forecasts
type Source interface {
	Regions(ctx context.Context) ([]Option, error)
	Prefectures(ctx context.Context, regionKey string) ([]Option, error)
	Areas(ctx context.Context, prefectureKey string) ([]Option, error)
	Forecast(ctx context.Context, prefectureKey, areaKey string) (Forecast, error)
}

// Selection holds the keys chosen so far. A key is only considered when every
// key above it is set.
type Selection struct {
	Region     string
	Prefecture string
	Area       string
}

// View is what the presentation layer renders for a selection
type View struct {
	Level    Level
	Options  []Option
	AreaName string
	Rows     []ForecastRow
	Message  string
}

// Text returns the forecast pane contents
func (v View) Text() string {
	if len(v.Rows) == 0 {
		return v.Message
	}

	var b strings.Builder
	if v.AreaName != "" {
		fmt.Fprintf(&b, "地域: %s\n", v.AreaName)
	}
	for _, row := range v.Rows {
		b.WriteString(row.String())
		b.WriteString("\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// Navigator resolves selections against a Source
type Navigator struct {
	source Source
}

// New creates a navigator over source
func New(source Source) *Navigator {
	return &Navigator{source: source}
}

// Resolve returns the view for sel. It never fails: source errors are logged
// and yield an empty view with the placeholder message.
func (n *Navigator) Resolve(ctx context.Context, sel Selection) View {
	switch {
	case sel.Region == "":
		return n.options(LevelRegions, MessageSelectRegion, func() ([]Option, error) {
			return n.source.Regions(ctx)
		})
	case sel.Prefecture == "":
		return n.options(LevelPrefectures, MessageSelectPrefecture, func() ([]Option, error) {
			return n.source.Prefectures(ctx, sel.Region)
		})
	case sel.Area == "":
		return n.options(LevelAreas, MessageSelectArea, func() ([]Option, error) {
			return n.source.Areas(ctx, sel.Prefecture)
		})
	}

	view := View{Level: LevelForecast}
	forecast, err := n.source.Forecast(ctx, sel.Prefecture, sel.Area)
	if err != nil {
		log.Printf("Error loading forecast for area %s: %v", sel.Area, err)
		view.Message = MessageNoWeather
		return view
	}
	if len(forecast.Rows) == 0 {
		view.Message = MessageNoWeather
		return view
	}
	view.AreaName = forecast.AreaName
	view.Rows = forecast.Rows
	return view
}

func (n *Navigator) options(level Level, message string, load func() ([]Option, error)) View {
	opts, err := load()
	if err != nil {
		log.Printf("Error loading %s: %v", level, err)
		opts = nil
	}
	return View{Level: level, Options: opts, Message: message}
}
