package models

import "time"

// Contractor is a service provider on the company roster.
type Contractor struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	Phone        *string    `json:"phone,omitempty"`
	Email        *string    `json:"email,omitempty"`
	AddressLine1 *string    `json:"address_line1,omitempty"`
	AddressLine2 *string    `json:"address_line2,omitempty"`
	City         string     `json:"city"`
	State        string     `json:"state"`
	PostalCode   *string    `json:"postal_code,omitempty"`
	Notes        *string    `json:"notes,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
}

// ContractorRate is the subset of contractor data the mileage calculator needs:
// the base location and the billable per-mile rate.
type ContractorRate struct {
	City        string
	State       string
	PerMileRate float64
}

// PriceRow is one line of a contractor's full pricing sheet: the contractor's
// price overrides joined with the service catalog entry they apply to.
type PriceRow struct {
	ServiceID    int64    `json:"service_id"`
	Price        float64  `json:"price"`
	SubPrice     *float64 `json:"sub_price"`
	MaterialCost *float64 `json:"material_cost"`
	ServiceName  string   `json:"service_name"`
	TableSizeFt  *float64 `json:"table_size_ft"`
}

// Service is a catalog entry (e.g. "Refelt", 8 ft).
type Service struct {
	ServiceID   int64    `json:"service_id"`
	ServiceName string   `json:"service_name"`
	TableSizeFt *float64 `json:"table_size_ft"`
}
