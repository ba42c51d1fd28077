package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/pooltablesquad/backoffice/internal/geocoding"
	"github.com/pooltablesquad/backoffice/internal/metrics"
	"github.com/pooltablesquad/backoffice/internal/models"
)

// batchLimit caps how many stored requests one polling cycle picks up.
const batchLimit = 100

// BackfillStore is the slice of the repository the backfill reads and writes.
type BackfillStore interface {
	FetchRequestsForGeocoding(ctx context.Context, limit int) ([]models.GeocodeJob, error)
	UpdateRequestCoordinates(ctx context.Context, requestID int64, coords models.Coordinates) error
	IncrementGeocodeFailureCount(ctx context.Context, requestID int64, errMsg string) error
}

// BackfillService resolves job-site coordinates for stored service requests
// in the background, so the dashboard map and the assignment heuristic do not
// pay a geocoding call per page view. It polls the database for requests
// without coordinates and fans the batch out over a small worker pool.
type BackfillService struct {
	log          *slog.Logger
	repo         BackfillStore
	provider     geocoding.Provider
	metrics      *metrics.Metrics
	numWorkers   int
	pollInterval time.Duration
}

// NewBackfillService creates a backfill worker over the given store and
// geocoding provider.
func NewBackfillService(
	log *slog.Logger,
	repo BackfillStore,
	provider geocoding.Provider,
	appMetrics *metrics.Metrics,
	numWorkers int,
	pollInterval time.Duration,
) *BackfillService {
	return &BackfillService{
		log:          log,
		repo:         repo,
		provider:     provider,
		metrics:      appMetrics,
		numWorkers:   numWorkers,
		pollInterval: pollInterval,
	}
}

// Run polls until the context is cancelled.
func (bs *BackfillService) Run(ctx context.Context) {
	ticker := time.NewTicker(bs.pollInterval)
	defer ticker.Stop()

	bs.log.InfoContext(ctx, "Geocoding backfill started")

	for {
		select {
		case <-ctx.Done():
			bs.log.InfoContext(ctx, "Geocoding backfill stopped")
			return
		case <-ticker.C:
			bs.processBatch(ctx)
		}
	}
}

// processBatch fetches one batch of unresolved requests and runs it through
// the worker pool, blocking until the batch is done.
func (bs *BackfillService) processBatch(ctx context.Context) {
	requests, err := bs.repo.FetchRequestsForGeocoding(ctx, batchLimit)
	if err != nil {
		bs.log.ErrorContext(ctx, "Failed to fetch requests for geocoding", "error", err)
		return
	}
	if len(requests) == 0 {
		return
	}

	bs.log.InfoContext(ctx, "Backfilling request coordinates",
		"jobs", len(requests), "num_workers", bs.numWorkers)

	jobs := make(chan models.GeocodeJob, len(requests))
	var wgr sync.WaitGroup

	for i := 1; i <= bs.numWorkers; i++ {
		wgr.Add(1)
		go bs.worker(ctx, i, &wgr, jobs)
	}

	for _, job := range requests {
		jobs <- job
	}
	close(jobs)

	wgr.Wait()
	bs.log.InfoContext(ctx, "Backfill batch finished")
}

// worker drains the jobs channel. Provider errors and empty geocoding results
// both count against the request's attempt budget so a hopeless address is
// eventually dropped from the queue.
func (bs *BackfillService) worker(ctx context.Context, idx int, wg *sync.WaitGroup, jobs <-chan models.GeocodeJob) {
	defer wg.Done()
	for job := range jobs {
		bs.metrics.ActiveWorkers.Inc()
		bs.log.DebugContext(ctx, "Geocoding request address", "worker", idx, "request", job.RequestID)

		start := time.Now()
		coords, err := bs.provider.Geocode(ctx, job.Address)
		bs.metrics.ExternalAPISeconds.WithLabelValues("geocoding").Observe(time.Since(start).Seconds())

		if err != nil {
			bs.log.ErrorContext(ctx, "Failed to geocode request address",
				"worker", idx, "request", job.RequestID, "error", err)
			bs.metrics.BackfillProcessed.WithLabelValues("failure").Inc()
			bs.metrics.ExternalAPIErrors.Inc()

			if err = bs.repo.IncrementGeocodeFailureCount(ctx, job.RequestID, err.Error()); err != nil {
				bs.log.ErrorContext(ctx, "Could not update failure count for request",
					"worker", idx, "request", job.RequestID, "error", err)
			}
			bs.metrics.ActiveWorkers.Dec()
			continue
		}

		if coords == nil {
			bs.log.WarnContext(ctx, "Request address produced no geocoding results",
				"worker", idx, "request", job.RequestID, "address", job.Address)
			bs.metrics.BackfillProcessed.WithLabelValues("failure").Inc()

			if err = bs.repo.IncrementGeocodeFailureCount(ctx, job.RequestID, "no results"); err != nil {
				bs.log.ErrorContext(ctx, "Could not update failure count for request",
					"worker", idx, "request", job.RequestID, "error", err)
			}
			bs.metrics.ActiveWorkers.Dec()
			continue
		}

		bs.metrics.BackfillProcessed.WithLabelValues("success").Inc()

		if err = bs.repo.UpdateRequestCoordinates(ctx, job.RequestID, *coords); err != nil {
			bs.log.ErrorContext(ctx, "Failed to store request coordinates",
				"worker", idx, "request", job.RequestID, "error", err)
		}

		bs.metrics.ActiveWorkers.Dec()
	}
}
