package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pooltablesquad/backoffice/internal/models"
)

// InsertTableRequest stores the main row of a service-request submission and
// returns its id. Child collections are inserted separately.
func (r *Repository) InsertTableRequest(ctx context.Context, req *models.TableRequest) (int64, error) {
	query := `
		INSERT INTO pool_table_requests (
			customer_id, email, name_first, name_last, phone_number,
			pool_table_brand, other_table_brand, pool_table_size, pool_table_style, pool_table_slate,
			service_looking, felt_preference, color_preference, other_service,
			assembly_address_addr_line_1, assembly_address_addr_line_2, assembly_address_city,
			assembly_address_state, assembly_address_postal,
			move_address_addr_line_1, move_address_addr_line_2, move_address_city,
			move_address_state, move_address_postal,
			delivery_address_addr_line_1, delivery_address_addr_line_2, delivery_address_city,
			delivery_address_state, delivery_address_postal,
			repairs_address_addr_line_1, repairs_address_addr_line_2, repairs_address_city,
			repairs_address_state, repairs_address_postal,
			flights_assembly, delivery_flights,
			preferred_date, preferred_date_2, preferred_date_3, anything_else,
			google_ads, bing_ads, facebook_ads, ad_blocker
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18, $19, $20,
			$21, $22, $23, $24, $25, $26, $27, $28, $29, $30,
			$31, $32, $33, $34, $35, $36, $37, $38, $39, $40,
			$41, $42, $43, $44
		) RETURNING id;
	`

	var requestID int64
	err := r.db.QueryRow(ctx, query,
		req.CustomerID, req.Email, req.NameFirst, req.NameLast, req.PhoneNumber,
		req.PoolTableBrand, req.OtherTableBrand, req.PoolTableSize, req.PoolTableStyle, req.PoolTableSlate,
		req.ServiceLooking, req.FeltPreference, req.ColorPreference, req.OtherService,
		req.AssemblyAddress.Line1, req.AssemblyAddress.Line2, req.AssemblyAddress.City,
		req.AssemblyAddress.State, req.AssemblyAddress.Postal,
		req.MoveAddress.Line1, req.MoveAddress.Line2, req.MoveAddress.City,
		req.MoveAddress.State, req.MoveAddress.Postal,
		req.DeliveryAddress.Line1, req.DeliveryAddress.Line2, req.DeliveryAddress.City,
		req.DeliveryAddress.State, req.DeliveryAddress.Postal,
		req.RepairsAddress.Line1, req.RepairsAddress.Line2, req.RepairsAddress.City,
		req.RepairsAddress.State, req.RepairsAddress.Postal,
		req.FlightsAssembly, req.DeliveryFlights,
		req.PreferredDate, req.PreferredDate2, req.PreferredDate3, req.AnythingElse,
		req.GoogleAds, req.BingAds, req.FacebookAds, req.AdBlocker,
	).Scan(&requestID)
	if err != nil {
		return 0, fmt.Errorf("failed to insert table request: %w", constraintError(err))
	}

	return requestID, nil
}

// request child tables all share the shape (request_id, value).
const (
	insertRepairQuery    = `INSERT INTO repairs_requested (request_id, repair) VALUES ($1, $2);`
	insertAccessoryQuery = `INSERT INTO accessories_moving (request_id, accessory) VALUES ($1, $2);`
	insertServiceQuery   = `INSERT INTO services_requested (request_id, service) VALUES ($1, $2);`
	insertTablePhotoQry  = `INSERT INTO table_photos (request_id, photo_url) VALUES ($1, $2);`
	insertPocketImageQry = `INSERT INTO pocket_images (request_id, image_url) VALUES ($1, $2);`
)

func (r *Repository) insertChildValues(ctx context.Context, query string, requestID int64, values []string) error {
	for _, value := range values {
		if _, err := r.db.Exec(ctx, query, requestID, value); err != nil {
			return fmt.Errorf("failed to insert request child row: %w", err)
		}
	}

	return nil
}

// InsertRequestChildren stores the repeated sections of a request submission:
// requested repairs, moving accessories, requested services, and photo URLs.
func (r *Repository) InsertRequestChildren(ctx context.Context, requestID int64, req *models.TableRequest) error {
	if err := r.insertChildValues(ctx, insertRepairQuery, requestID, req.RepairsRequested); err != nil {
		return err
	}
	if err := r.insertChildValues(ctx, insertAccessoryQuery, requestID, req.Accessories); err != nil {
		return err
	}
	if err := r.insertChildValues(ctx, insertServiceQuery, requestID, req.ServicesRequested); err != nil {
		return err
	}
	if err := r.insertChildValues(ctx, insertTablePhotoQry, requestID, req.TablePhotos); err != nil {
		return err
	}

	return r.insertChildValues(ctx, insertPocketImageQry, requestID, req.PocketImages)
}

// ListRequests returns one page of service requests, newest first, optionally
// filtered by a case-insensitive search over the submitter's name and email.
func (r *Repository) ListRequests(
	ctx context.Context,
	page, pageSize int,
	search string,
) ([]models.TableRequest, int, error) {
	offset := (page - 1) * pageSize

	countQuery := `
		SELECT COUNT(*)
		FROM pool_table_requests
		WHERE ($1 = '' OR name_first ILIKE '%' || $1 || '%'
			OR name_last ILIKE '%' || $1 || '%'
			OR email ILIKE '%' || $1 || '%');
	`

	var total int
	if err := r.db.QueryRow(ctx, countQuery, search).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count table requests: %w", err)
	}

	dataQuery := `
		SELECT id, customer_id, status, email, name_first, name_last, phone_number,
			service_looking, pool_table_brand, pool_table_size,
			contractor_id, scheduled_date, created_at
		FROM pool_table_requests
		WHERE ($1 = '' OR name_first ILIKE '%' || $1 || '%'
			OR name_last ILIKE '%' || $1 || '%'
			OR email ILIKE '%' || $1 || '%')
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3;
	`

	rows, err := r.db.Query(ctx, dataQuery, search, pageSize, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query table requests: %w", err)
	}
	defer rows.Close()

	var requests []models.TableRequest
	for rows.Next() {
		var req models.TableRequest
		if errScan := rows.Scan(
			&req.ID, &req.CustomerID, &req.Status, &req.Email, &req.NameFirst, &req.NameLast,
			&req.PhoneNumber, &req.ServiceLooking, &req.PoolTableBrand, &req.PoolTableSize,
			&req.ContractorID, &req.ScheduledDate, &req.CreatedAt,
		); errScan != nil {
			return nil, 0, fmt.Errorf("failed to scan table request: %w", errScan)
		}
		requests = append(requests, req)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read row: %w", err)
	}

	return requests, total, nil
}

// GetRequest returns one request with all of its child collections.
func (r *Repository) GetRequest(ctx context.Context, requestID int64) (*models.TableRequest, error) {
	query := `
		SELECT id, customer_id, status, email, name_first, name_last, phone_number,
			pool_table_brand, other_table_brand, pool_table_size, pool_table_style, pool_table_slate,
			service_looking, felt_preference, color_preference, other_service,
			assembly_address_addr_line_1, assembly_address_addr_line_2, assembly_address_city,
			assembly_address_state, assembly_address_postal,
			move_address_addr_line_1, move_address_addr_line_2, move_address_city,
			move_address_state, move_address_postal,
			delivery_address_addr_line_1, delivery_address_addr_line_2, delivery_address_city,
			delivery_address_state, delivery_address_postal,
			repairs_address_addr_line_1, repairs_address_addr_line_2, repairs_address_city,
			repairs_address_state, repairs_address_postal,
			flights_assembly, delivery_flights,
			preferred_date, preferred_date_2, preferred_date_3, anything_else,
			google_ads, bing_ads, facebook_ads, ad_blocker,
			contractor_id, scheduled_date, latitude, longitude, created_at
		FROM pool_table_requests
		WHERE id = $1;
	`

	var req models.TableRequest
	err := r.db.QueryRow(ctx, query, requestID).Scan(
		&req.ID, &req.CustomerID, &req.Status, &req.Email, &req.NameFirst, &req.NameLast, &req.PhoneNumber,
		&req.PoolTableBrand, &req.OtherTableBrand, &req.PoolTableSize, &req.PoolTableStyle, &req.PoolTableSlate,
		&req.ServiceLooking, &req.FeltPreference, &req.ColorPreference, &req.OtherService,
		&req.AssemblyAddress.Line1, &req.AssemblyAddress.Line2, &req.AssemblyAddress.City,
		&req.AssemblyAddress.State, &req.AssemblyAddress.Postal,
		&req.MoveAddress.Line1, &req.MoveAddress.Line2, &req.MoveAddress.City,
		&req.MoveAddress.State, &req.MoveAddress.Postal,
		&req.DeliveryAddress.Line1, &req.DeliveryAddress.Line2, &req.DeliveryAddress.City,
		&req.DeliveryAddress.State, &req.DeliveryAddress.Postal,
		&req.RepairsAddress.Line1, &req.RepairsAddress.Line2, &req.RepairsAddress.City,
		&req.RepairsAddress.State, &req.RepairsAddress.Postal,
		&req.FlightsAssembly, &req.DeliveryFlights,
		&req.PreferredDate, &req.PreferredDate2, &req.PreferredDate3, &req.AnythingElse,
		&req.GoogleAds, &req.BingAds, &req.FacebookAds, &req.AdBlocker,
		&req.ContractorID, &req.ScheduledDate, &req.Latitude, &req.Longitude, &req.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query table request: %w", err)
	}

	children := []struct {
		query string
		dest  *[]string
	}{
		{`SELECT repair FROM repairs_requested WHERE request_id = $1;`, &req.RepairsRequested},
		{`SELECT accessory FROM accessories_moving WHERE request_id = $1;`, &req.Accessories},
		{`SELECT service FROM services_requested WHERE request_id = $1;`, &req.ServicesRequested},
		{`SELECT photo_url FROM table_photos WHERE request_id = $1;`, &req.TablePhotos},
		{`SELECT image_url FROM pocket_images WHERE request_id = $1;`, &req.PocketImages},
	}
	for _, child := range children {
		values, cerr := r.queryStrings(ctx, child.query, requestID)
		if cerr != nil {
			return nil, cerr
		}
		*child.dest = values
	}

	return &req, nil
}

func (r *Repository) queryStrings(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query request children: %w", err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if errScan := rows.Scan(&v); errScan != nil {
			return nil, fmt.Errorf("failed to scan request child: %w", errScan)
		}
		values = append(values, v)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read row: %w", err)
	}

	return values, nil
}

// UpdateRequestStatus moves a request through the triage workflow.
func (r *Repository) UpdateRequestStatus(ctx context.Context, requestID int64, status string) error {
	query := `
		UPDATE pool_table_requests
		SET status = $1
		WHERE id = $2;
	`

	tag, err := r.db.Exec(ctx, query, status, requestID)
	if err != nil {
		return fmt.Errorf("failed to update request status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// AssignRequestContractor records who will do the job and when.
func (r *Repository) AssignRequestContractor(
	ctx context.Context,
	requestID int64,
	contractorID *int64,
	scheduledDate *time.Time,
) error {
	query := `
		UPDATE pool_table_requests
		SET contractor_id = $1, scheduled_date = $2
		WHERE id = $3;
	`

	tag, err := r.db.Exec(ctx, query, contractorID, scheduledDate, requestID)
	if err != nil {
		return fmt.Errorf("failed to assign contractor: %w", constraintError(err))
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// FetchRequestsForGeocoding retrieves requests whose job address has not been
// resolved yet: no latitude, a non-empty job city, and fewer than 5 attempts.
// Results are ordered by creation date and limited to the requested count.
func (r *Repository) FetchRequestsForGeocoding(ctx context.Context, limit int) ([]models.GeocodeJob, error) {
	query := `
		SELECT id, CONCAT_WS(', ',
			COALESCE(assembly_address_city, move_address_city, repairs_address_city),
			COALESCE(assembly_address_state, move_address_state, repairs_address_state)
		) AS job_address
		FROM pool_table_requests
		WHERE
			latitude IS NULL
			AND geocoding_attempts < 5
			AND COALESCE(assembly_address_city, move_address_city, repairs_address_city) IS NOT NULL
		ORDER BY created_at ASC
		LIMIT $1;
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query requests for geocoding: %w", err)
	}
	defer rows.Close()

	var jobs []models.GeocodeJob
	for rows.Next() {
		var job models.GeocodeJob
		if errScan := rows.Scan(&job.RequestID, &job.Address); errScan != nil {
			return nil, fmt.Errorf("failed to scan geocode job: %w", errScan)
		}
		jobs = append(jobs, job)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read row: %w", err)
	}

	return jobs, nil
}

// UpdateRequestCoordinates stores a resolved job location and clears any
// previous geocoding error.
func (r *Repository) UpdateRequestCoordinates(
	ctx context.Context,
	requestID int64,
	coords models.Coordinates,
) error {
	query := `
		UPDATE pool_table_requests
		SET latitude = $1, longitude = $2, geocoding_error = NULL
		WHERE id = $3;
	`

	if _, err := r.db.Exec(ctx, query, coords.Latitude, coords.Longitude, requestID); err != nil {
		return fmt.Errorf("failed to update request coordinates: %w", err)
	}

	return nil
}

// IncrementGeocodeFailureCount bumps the attempt counter and records the last
// error so the backfill stops retrying hopeless addresses.
func (r *Repository) IncrementGeocodeFailureCount(ctx context.Context, requestID int64, errMsg string) error {
	query := `
		UPDATE pool_table_requests
		SET geocoding_attempts = geocoding_attempts + 1, geocoding_error = $1
		WHERE id = $2;
	`

	if _, err := r.db.Exec(ctx, query, errMsg, requestID); err != nil {
		return fmt.Errorf("failed to update geocoding error and number of attempts: %w", err)
	}

	return nil
}
