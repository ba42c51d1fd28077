package repository_test

import (
	"log/slog"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/pooltablesquad/backoffice/internal/models"
	"github.com/pooltablesquad/backoffice/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (pgxmock.PgxPoolIface, *repository.Repository) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	return mock, repository.NewRepository(mock, slog.Default())
}

func TestGetContractorRate(t *testing.T) {
	t.Parallel()
	ctx := t.Context()

	t.Run("returns the rate row", func(t *testing.T) {
		t.Parallel()
		mock, repo := newMockRepo(t)

		mock.ExpectQuery(regexp.QuoteMeta("SELECT city, state, per_mile_rate")).
			WithArgs(int64(7)).
			WillReturnRows(pgxmock.NewRows([]string{"city", "state", "per_mile_rate"}).
				AddRow("Allentown", "PA", 2.5))

		rate, err := repo.GetContractorRate(ctx, 7)

		require.NoError(t, err)
		require.NotNil(t, rate)
		assert.Equal(t, "Allentown", rate.City)
		assert.Equal(t, "PA", rate.State)
		assert.InDelta(t, 2.5, rate.PerMileRate, 0.0001)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown contractor is nil, nil", func(t *testing.T) {
		t.Parallel()
		mock, repo := newMockRepo(t)

		mock.ExpectQuery(regexp.QuoteMeta("SELECT city, state, per_mile_rate")).
			WithArgs(int64(99)).
			WillReturnRows(pgxmock.NewRows([]string{"city", "state", "per_mile_rate"}))

		rate, err := repo.GetContractorRate(ctx, 99)

		require.NoError(t, err)
		require.Nil(t, rate)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("query error propagates", func(t *testing.T) {
		t.Parallel()
		mock, repo := newMockRepo(t)

		mock.ExpectQuery(regexp.QuoteMeta("SELECT city, state, per_mile_rate")).
			WithArgs(int64(7)).
			WillReturnError(assert.AnError)

		_, err := repo.GetContractorRate(ctx, 7)

		require.Error(t, err)
		require.ErrorIs(t, err, assert.AnError)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestListActiveContractors(t *testing.T) {
	t.Parallel()
	ctx := t.Context()

	t.Run("returns the roster in id order", func(t *testing.T) {
		t.Parallel()
		mock, repo := newMockRepo(t)

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name, city, state`)).
			WillReturnRows(pgxmock.NewRows([]string{"id", "name", "city", "state"}).
				AddRow(int64(1), "Alpha Billiards", "Reading", "PA").
				AddRow(int64(2), "Keystone Tables", "York", "PA"))

		contractors, err := repo.ListActiveContractors(ctx)

		require.NoError(t, err)
		require.Len(t, contractors, 2)
		assert.Equal(t, int64(1), contractors[0].ID)
		assert.Equal(t, "Keystone Tables", contractors[1].Name)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("scan error propagates", func(t *testing.T) {
		t.Parallel()
		mock, repo := newMockRepo(t)

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name, city, state`)).
			WillReturnRows(pgxmock.NewRows([]string{"id", "name", "city", "state"}).
				AddRow("not-an-id", "Alpha Billiards", "Reading", "PA"))

		contractors, err := repo.ListActiveContractors(ctx)

		require.Nil(t, contractors)
		require.Error(t, err)
		require.ErrorContains(t, err, "failed to scan active contractor")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUpsertCustomerByEmail(t *testing.T) {
	t.Parallel()
	ctx := t.Context()

	t.Run("returns the customer id", func(t *testing.T) {
		t.Parallel()
		mock, repo := newMockRepo(t)

		first := "Ada"
		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO customers")).
			WithArgs("ada@example.com", &first, (*string)(nil), (*string)(nil)).
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(42)))

		customerID, err := repo.UpsertCustomerByEmail(ctx, "ada@example.com", &first, nil, nil)

		require.NoError(t, err)
		assert.Equal(t, int64(42), customerID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("query error propagates", func(t *testing.T) {
		t.Parallel()
		mock, repo := newMockRepo(t)

		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO customers")).
			WithArgs("ada@example.com", (*string)(nil), (*string)(nil), (*string)(nil)).
			WillReturnError(assert.AnError)

		_, err := repo.UpsertCustomerByEmail(ctx, "ada@example.com", nil, nil, nil)

		require.Error(t, err)
		require.ErrorContains(t, err, "failed to upsert customer")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSoftDeleteContractor(t *testing.T) {
	t.Parallel()
	ctx := t.Context()

	t.Run("marks the row deleted", func(t *testing.T) {
		t.Parallel()
		mock, repo := newMockRepo(t)

		mock.ExpectExec(regexp.QuoteMeta(`UPDATE contractors`)).
			WithArgs(int64(7)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		require.NoError(t, repo.SoftDeleteContractor(ctx, 7))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing row is not found", func(t *testing.T) {
		t.Parallel()
		mock, repo := newMockRepo(t)

		mock.ExpectExec(regexp.QuoteMeta(`UPDATE contractors`)).
			WithArgs(int64(99)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err := repo.SoftDeleteContractor(ctx, 99)

		require.ErrorIs(t, err, repository.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUpdateRequestStatus(t *testing.T) {
	t.Parallel()
	ctx := t.Context()

	t.Run("updates the row", func(t *testing.T) {
		t.Parallel()
		mock, repo := newMockRepo(t)

		mock.ExpectExec(regexp.QuoteMeta(`UPDATE pool_table_requests`)).
			WithArgs("responded", int64(5)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		require.NoError(t, repo.UpdateRequestStatus(ctx, 5, "responded"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing request is not found", func(t *testing.T) {
		t.Parallel()
		mock, repo := newMockRepo(t)

		mock.ExpectExec(regexp.QuoteMeta(`UPDATE pool_table_requests`)).
			WithArgs("responded", int64(404)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err := repo.UpdateRequestStatus(ctx, 404, "responded")

		require.ErrorIs(t, err, repository.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestFetchRequestsForGeocoding(t *testing.T) {
	t.Parallel()
	ctx := t.Context()

	t.Run("returns pending jobs", func(t *testing.T) {
		t.Parallel()
		mock, repo := newMockRepo(t)

		mock.ExpectQuery(regexp.QuoteMeta(`FROM pool_table_requests`)).
			WithArgs(100).
			WillReturnRows(pgxmock.NewRows([]string{"id", "job_address"}).
				AddRow(int64(11), "Lancaster, PA").
				AddRow(int64(12), "York, PA"))

		jobs, err := repo.FetchRequestsForGeocoding(ctx, 100)

		require.NoError(t, err)
		require.Len(t, jobs, 2)
		assert.Equal(t, int64(11), jobs[0].RequestID)
		assert.Equal(t, "Lancaster, PA", jobs[0].Address)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("query error propagates", func(t *testing.T) {
		t.Parallel()
		mock, repo := newMockRepo(t)

		mock.ExpectQuery(regexp.QuoteMeta(`FROM pool_table_requests`)).
			WithArgs(100).
			WillReturnError(assert.AnError)

		jobs, err := repo.FetchRequestsForGeocoding(ctx, 100)

		require.Nil(t, jobs)
		require.ErrorIs(t, err, assert.AnError)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUpdateRequestCoordinates(t *testing.T) {
	t.Parallel()
	ctx := t.Context()
	mock, repo := newMockRepo(t)

	coords := models.Coordinates{Latitude: 40.03, Longitude: -76.3}
	mock.ExpectExec(regexp.QuoteMeta(`SET latitude = $1, longitude = $2`)).
		WithArgs(coords.Latitude, coords.Longitude, int64(11)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, repo.UpdateRequestCoordinates(ctx, 11, coords))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIncrementGeocodeFailureCount(t *testing.T) {
	t.Parallel()
	ctx := t.Context()
	mock, repo := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(`geocoding_attempts = geocoding_attempts + 1`)).
		WithArgs("no results", int64(11)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, repo.IncrementGeocodeFailureCount(ctx, 11, "no results"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateService(t *testing.T) {
	t.Parallel()
	ctx := t.Context()

	t.Run("duplicate maps to the duplicate sentinel", func(t *testing.T) {
		t.Parallel()
		mock, repo := newMockRepo(t)

		size := 8.0
		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO services`)).
			WithArgs("Refelt", &size).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "services_name_size_key"})

		_, err := repo.CreateService(ctx, "Refelt", &size)

		require.ErrorIs(t, err, repository.ErrDuplicate)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns the stored row", func(t *testing.T) {
		t.Parallel()
		mock, repo := newMockRepo(t)

		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO services`)).
			WithArgs("Refelt", (*float64)(nil)).
			WillReturnRows(pgxmock.NewRows([]string{"service_id", "service_name", "table_size_ft"}).
				AddRow(int64(3), "Refelt", (*float64)(nil)))

		service, err := repo.CreateService(ctx, "Refelt", nil)

		require.NoError(t, err)
		assert.Equal(t, int64(3), service.ServiceID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDeleteService(t *testing.T) {
	t.Parallel()
	ctx := t.Context()

	t.Run("referenced service maps to the in-use sentinel", func(t *testing.T) {
		t.Parallel()
		mock, repo := newMockRepo(t)

		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM services`)).
			WithArgs(int64(3)).
			WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "contractor_prices_service_id_fkey"})

		err := repo.DeleteService(ctx, 3)

		require.ErrorIs(t, err, repository.ErrInUse)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing service is not found", func(t *testing.T) {
		t.Parallel()
		mock, repo := newMockRepo(t)

		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM services`)).
			WithArgs(int64(99)).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		err := repo.DeleteService(ctx, 99)

		require.ErrorIs(t, err, repository.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGetStaffUserByEmail(t *testing.T) {
	t.Parallel()
	ctx := t.Context()

	t.Run("unknown account is nil, nil", func(t *testing.T) {
		t.Parallel()
		mock, repo := newMockRepo(t)

		mock.ExpectQuery(regexp.QuoteMeta(`FROM staff_users`)).
			WithArgs("nobody@example.com").
			WillReturnRows(pgxmock.NewRows([]string{"id", "email", "password_hash"}))

		user, err := repo.GetStaffUserByEmail(ctx, "nobody@example.com")

		require.NoError(t, err)
		require.Nil(t, user)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns the account", func(t *testing.T) {
		t.Parallel()
		mock, repo := newMockRepo(t)

		mock.ExpectQuery(regexp.QuoteMeta(`FROM staff_users`)).
			WithArgs("staff@example.com").
			WillReturnRows(pgxmock.NewRows([]string{"id", "email", "password_hash"}).
				AddRow(int64(1), "staff@example.com", "$2a$10$hash"))

		user, err := repo.GetStaffUserByEmail(ctx, "staff@example.com")

		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, int64(1), user.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestListLeads(t *testing.T) {
	t.Parallel()
	ctx := t.Context()

	leadColumns := []string{
		"id", "status", "name_first", "name_last", "full_name",
		"created_at", "contractor_id", "contractor_name", "job_type", "source",
	}

	t.Run("filters by search and status on both sides of the union", func(t *testing.T) {
		t.Parallel()
		mock, repo := newMockRepo(t)

		created := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
		status := "new"
		first := "Ada"
		source := "request"

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM (`)).
			WithArgs("%ada%", "%ada%", "new", "new").
			WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(1))

		mock.ExpectQuery(regexp.QuoteMeta(`UNION ALL`)).
			WithArgs("%ada%", "%ada%", "new", "new", 20, 0).
			WillReturnRows(pgxmock.NewRows(leadColumns).
				AddRow(int64(1), &status, &first, (*string)(nil), (*string)(nil),
					created, (*int64)(nil), (*string)(nil), (*string)(nil), source))

		filter := repository.LeadFilter{Search: "ada", Statuses: []string{"new"}, Page: 1, PageSize: 20}
		leads, total, err := repo.ListLeads(ctx, filter)

		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, leads, 1)
		assert.Equal(t, "request", leads[0].Source)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no filter pages the whole feed", func(t *testing.T) {
		t.Parallel()
		mock, repo := newMockRepo(t)

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM (`)).
			WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(0))

		mock.ExpectQuery(regexp.QuoteMeta(`UNION ALL`)).
			WithArgs(20, 20).
			WillReturnRows(pgxmock.NewRows(leadColumns))

		filter := repository.LeadFilter{Page: 2, PageSize: 20}
		leads, total, err := repo.ListLeads(ctx, filter)

		require.NoError(t, err)
		assert.Zero(t, total)
		assert.Empty(t, leads)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUpdateSellingLeadStatus(t *testing.T) {
	t.Parallel()
	ctx := t.Context()

	t.Run("updates the row", func(t *testing.T) {
		t.Parallel()
		mock, repo := newMockRepo(t)

		mock.ExpectExec(regexp.QuoteMeta(`UPDATE selling_leads`)).
			WithArgs("contacted", int64(9)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		require.NoError(t, repo.UpdateSellingLeadStatus(ctx, 9, "contacted"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing lead is not found", func(t *testing.T) {
		t.Parallel()
		mock, repo := newMockRepo(t)

		mock.ExpectExec(regexp.QuoteMeta(`UPDATE selling_leads`)).
			WithArgs("contacted", int64(404)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		require.ErrorIs(t, repo.UpdateSellingLeadStatus(ctx, 404, "contacted"), repository.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
