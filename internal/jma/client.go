package jma

import "context"

// AreaFetcher defines the interface for fetching the JMA area-metadata document
type AreaFetcher interface {
	// AreaDocument retrieves area.json
	AreaDocument(ctx context.Context) (*AreaDocument, error)
}

// ForecastFetcher defines the interface for fetching forecast documents
type ForecastFetcher interface {
	// Forecast retrieves the forecast document for an allow-listed office code
	Forecast(ctx context.Context, code string) (ForecastDocument, error)
}
