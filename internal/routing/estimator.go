package routing

import (
	"context"

	"github.com/pooltablesquad/backoffice/internal/models"
)

// Estimator computes the driving distance in miles between two points.
// A nil origin or destination means "no such leg" and yields zero distance
// without touching the routing service.
type Estimator interface {
	RouteDistance(ctx context.Context, origin, destination *models.Coordinates) (float64, error)
}
