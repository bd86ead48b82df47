package domain

import "context"

// WeatherSource supplies the 24-hour rainfall figure for a region. Real
// ingestion is out of scope; production wiring uses a pseudo-random stub
// adapter, tests use fixed values. The risk engine itself never samples
// weather; the figure always arrives through this interface.
type WeatherSource interface {
	Rainfall24h(ctx context.Context, regionID int64) (float64, error)
}
