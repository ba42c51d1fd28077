package geocoding

import (
	"context"

	"github.com/pooltablesquad/backoffice/internal/models"
)

// Provider is an interface that defines a method for geocoding an address.
// Geocode returns (nil, nil) when the address cannot be resolved; callers
// treat an unresolvable address as a normal not-found value, while a non-nil
// error means the geocoding service itself was unreachable.
type Provider interface {
	Geocode(ctx context.Context, address string) (*models.Coordinates, error)
}
