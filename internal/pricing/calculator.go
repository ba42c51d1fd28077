package pricing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pooltablesquad/backoffice/internal/geocoding"
	"github.com/pooltablesquad/backoffice/internal/metrics"
	"github.com/pooltablesquad/backoffice/internal/models"
	"github.com/pooltablesquad/backoffice/internal/routing"
	"golang.org/x/sync/errgroup"
)

// Assignment thresholds. Jobs beyond these distances route to a human for
// manual scheduling instead of being auto-assigned.
const (
	Leg1MaxMiles = 60.0 // depot -> job site
	Leg2MaxMiles = 40.0 // job site -> delivery
)

// ManualReview is the suggestion returned when no contractor can be
// auto-assigned and no nearest candidate exists either.
const ManualReview = "Manual Review"

var (
	// ErrContractorNotFound is returned when the contractor id is unknown.
	ErrContractorNotFound = errors.New("contractor not found")
	// ErrUnroutableAddress is returned when a required address cannot be
	// geocoded. This is a client-input condition, not an infrastructure one.
	ErrUnroutableAddress = errors.New("could not geocode a required address")
)

// ContractorStore is the slice of the relational store the calculator reads.
// Both lookups are read-only; GetContractorRate returns (nil, nil) when the
// contractor does not exist.
type ContractorStore interface {
	GetContractorRate(ctx context.Context, contractorID int64) (*models.ContractorRate, error)
	ListActiveContractors(ctx context.Context) ([]models.Contractor, error)
}

// Quote is the result of the two-leg distance and surcharge computation.
// Leg distances are rounded to whole miles for display; the surcharge is in
// two-decimal currency units.
type Quote struct {
	Leg1Miles int     `json:"leg1_distance"`
	Leg2Miles int     `json:"leg2_distance"`
	Surcharge float64 `json:"mileage_surcharge"`
}

// Suggestion is the outcome of the contractor-assignment heuristic. The
// suggestion is either a contractor's display name or a manual-review marker
// with a reason tag. BestContractorID is set whenever at least one candidate
// geocoded and routed, even when the suggestion is manual review, so a human
// can still see the nearest option.
type Suggestion struct {
	Suggestion       string `json:"suggestion"`
	BestContractorID *int64 `json:"best_contractor_id"`
}

// Calculator orchestrates geocoding, route-distance estimation, and surcharge
// math for the dashboard's mileage tools. It holds no mutable state; every
// request is computed fresh and nothing is persisted.
type Calculator struct {
	log      *slog.Logger
	store    ContractorStore
	geocoder geocoding.Provider
	router   routing.Estimator
	metrics  *metrics.Metrics
}

// NewCalculator wires a Calculator from its collaborators.
func NewCalculator(
	log *slog.Logger,
	store ContractorStore,
	geocoder geocoding.Provider,
	router routing.Estimator,
	appMetrics *metrics.Metrics,
) *Calculator {
	return &Calculator{
		log:      log,
		store:    store,
		geocoder: geocoder,
		router:   router,
		metrics:  appMetrics,
	}
}

// QuoteDistance computes both travel legs for a job and the resulting mileage
// surcharge using the contractor's per-mile rate.
//
// The contractor's base address and both job addresses are geocoded
// concurrently. The contractor and primary addresses are required: if either
// fails to resolve the result is ErrUnroutableAddress. A missing delivery
// address contributes a zero-distance second leg.
func (c *Calculator) QuoteDistance(
	ctx context.Context,
	contractorID int64,
	primaryAddress, deliveryAddress string,
) (*Quote, error) {
	rate, err := c.store.GetContractorRate(ctx, contractorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load contractor %d: %w", contractorID, err)
	}
	if rate == nil {
		return nil, ErrContractorNotFound
	}

	contractorAddress := fmt.Sprintf("%s, %s", rate.City, rate.State)

	var contractorCoords, primaryCoords, deliveryCoords *models.Coordinates

	grp, grpCtx := errgroup.WithContext(ctx)
	grp.Go(func() (gerr error) {
		contractorCoords, gerr = c.geocode(grpCtx, contractorAddress)
		return gerr
	})
	grp.Go(func() (gerr error) {
		primaryCoords, gerr = c.geocode(grpCtx, primaryAddress)
		return gerr
	})
	grp.Go(func() (gerr error) {
		// Empty delivery addresses short-circuit inside the geocoder.
		deliveryCoords, gerr = c.geocode(grpCtx, deliveryAddress)
		return gerr
	})
	if err = grp.Wait(); err != nil {
		return nil, err
	}

	if contractorCoords == nil || primaryCoords == nil {
		return nil, ErrUnroutableAddress
	}

	leg1, err := c.routeDistance(ctx, contractorCoords, primaryCoords)
	if err != nil {
		return nil, err
	}
	leg2, err := c.routeDistance(ctx, primaryCoords, deliveryCoords)
	if err != nil {
		return nil, err
	}

	surcharge := Surcharge(leg1, rate.PerMileRate) + Surcharge(leg2, rate.PerMileRate)

	c.log.DebugContext(ctx, "Computed mileage quote",
		"contractor_id", contractorID, "leg1_miles", leg1, "leg2_miles", leg2, "surcharge", surcharge)

	return &Quote{
		Leg1Miles: roundMiles(leg1),
		Leg2Miles: roundMiles(leg2),
		Surcharge: roundMoney(surcharge),
	}, nil
}

// Suggest picks the contractor closest to the primary job address and applies
// the assignment thresholds.
//
// Candidates are evaluated sequentially: ties must keep the first-seen
// candidate in roster order, and the roster is small. Candidates whose base
// address fails to geocode produced no distance and are skipped.
func (c *Calculator) Suggest(
	ctx context.Context,
	primaryAddress, deliveryAddress string,
) (*Suggestion, error) {
	var primaryCoords, deliveryCoords *models.Coordinates

	grp, grpCtx := errgroup.WithContext(ctx)
	grp.Go(func() (gerr error) {
		primaryCoords, gerr = c.geocode(grpCtx, primaryAddress)
		return gerr
	})
	grp.Go(func() (gerr error) {
		deliveryCoords, gerr = c.geocode(grpCtx, deliveryAddress)
		return gerr
	})
	if err := grp.Wait(); err != nil {
		return nil, err
	}

	if primaryCoords == nil {
		return nil, ErrUnroutableAddress
	}

	contractors, err := c.store.ListActiveContractors(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active contractors: %w", err)
	}

	var best *models.Contractor
	var bestDistance float64

	for i := range contractors {
		candidate := &contractors[i]
		candidateAddress := fmt.Sprintf("%s, %s", candidate.City, candidate.State)

		coords, gerr := c.geocode(ctx, candidateAddress)
		if gerr != nil {
			return nil, gerr
		}
		if coords == nil {
			c.log.WarnContext(ctx, "Skipping contractor with unroutable base address",
				"contractor_id", candidate.ID, "address", candidateAddress)
			continue
		}

		distance, derr := c.routeDistance(ctx, coords, primaryCoords)
		if derr != nil {
			return nil, derr
		}

		// Strict less-than keeps the first-seen candidate on ties.
		if best == nil || distance < bestDistance {
			best = candidate
			bestDistance = distance
		}
	}

	if best == nil {
		return &Suggestion{Suggestion: ManualReview}, nil
	}

	leg2Distance, err := c.routeDistance(ctx, primaryCoords, deliveryCoords)
	if err != nil {
		return nil, err
	}

	result := &Suggestion{BestContractorID: &best.ID}
	switch {
	case bestDistance > Leg1MaxMiles:
		result.Suggestion = fmt.Sprintf("%s (Leg 1 > %.0f miles)", ManualReview, Leg1MaxMiles)
	case deliveryAddress != "" && leg2Distance > Leg2MaxMiles:
		result.Suggestion = fmt.Sprintf("%s - %s (Leg 2 > %.0f miles)", ManualReview, best.Name, Leg2MaxMiles)
	default:
		result.Suggestion = best.Name
	}

	c.log.DebugContext(ctx, "Computed assignment suggestion",
		"best_contractor_id", best.ID, "leg1_miles", bestDistance, "leg2_miles", leg2Distance,
		"suggestion", result.Suggestion)

	return result, nil
}

func (c *Calculator) geocode(ctx context.Context, address string) (*models.Coordinates, error) {
	start := time.Now()
	coords, err := c.geocoder.Geocode(ctx, address)
	c.metrics.ExternalAPISeconds.WithLabelValues("geocoding").Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.ExternalAPIErrors.Inc()
		return nil, err
	}

	return coords, nil
}

func (c *Calculator) routeDistance(
	ctx context.Context,
	origin, destination *models.Coordinates,
) (float64, error) {
	start := time.Now()
	miles, err := c.router.RouteDistance(ctx, origin, destination)
	c.metrics.ExternalAPISeconds.WithLabelValues("routing").Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.ExternalAPIErrors.Inc()
		return 0, err
	}

	return miles, nil
}
