package predict

import (
	"context"

	"github.com/aegisflood/alert-service/internal/domain"
)

// FirstRegionLocator is a deterministic placeholder for geospatial lookup:
// it ignores the coordinates and returns the lowest-ID region. It exists so
// the location endpoint has stable behavior until a PostGIS-backed locator
// replaces it.
type FirstRegionLocator struct {
	Regions RegionDirectory
}

// Locate returns the first region in directory order, or nil when the
// directory is empty.
func (l FirstRegionLocator) Locate(ctx context.Context, _, _ float64) (*domain.Region, error) {
	regions, err := l.Regions.List(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(regions) == 0 {
		return nil, nil
	}
	return &regions[0], nil
}
