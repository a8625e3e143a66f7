package mapview

import (
	"context"

	"github.com/kagai-portal/hanamachi/internal/records"
)

// PlaceSource lists the districts of a region.
type PlaceSource interface {
	Places(ctx context.Context, region records.Region) []records.PlaceRecord
}

// SourceLoader adapts a PlaceSource. A cancelled context is a load error.
func SourceLoader(src PlaceSource) Loader {
	return func(ctx context.Context, region records.Region) ([]records.PlaceRecord, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		places := src.Places(ctx, region)
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return places, nil
	}
}
