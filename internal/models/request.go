package models

import "time"

// TableRequest is a pool-table service request submitted through the main
// JotForm. Address groups are stored flat, one column set per purpose, because
// the form only ever fills in the groups relevant to the requested service.
type TableRequest struct {
	ID         int64  `json:"id"`
	CustomerID int64  `json:"customer_id"`
	Status     string `json:"status"`

	Email       string  `json:"email"`
	NameFirst   *string `json:"name_first,omitempty"`
	NameLast    *string `json:"name_last,omitempty"`
	PhoneNumber *string `json:"phone_number,omitempty"`

	PoolTableBrand  *string `json:"pool_table_brand,omitempty"`
	OtherTableBrand *string `json:"other_table_brand,omitempty"`
	PoolTableSize   *string `json:"pool_table_size,omitempty"`
	PoolTableStyle  *string `json:"pool_table_style,omitempty"`
	PoolTableSlate  *string `json:"pool_table_slate,omitempty"`

	ServiceLooking  *string `json:"service_looking,omitempty"`
	FeltPreference  *string `json:"felt_preference,omitempty"`
	ColorPreference *string `json:"color_preference,omitempty"`
	OtherService    *string `json:"other_service,omitempty"`

	AssemblyAddress Address `json:"assembly_address"`
	MoveAddress     Address `json:"move_address"`
	DeliveryAddress Address `json:"delivery_address"`
	RepairsAddress  Address `json:"repairs_address"`

	FlightsAssembly *string `json:"flights_assembly,omitempty"`
	DeliveryFlights *string `json:"delivery_flights,omitempty"`

	PreferredDate  *string `json:"preferred_date,omitempty"`
	PreferredDate2 *string `json:"preferred_date_2,omitempty"`
	PreferredDate3 *string `json:"preferred_date_3,omitempty"`
	AnythingElse   *string `json:"anything_else,omitempty"`

	GoogleAds   bool `json:"google_ads"`
	BingAds     bool `json:"bing_ads"`
	FacebookAds bool `json:"facebook_ads"`
	AdBlocker   bool `json:"ad_blocker"`

	ContractorID  *int64     `json:"contractor_id,omitempty"`
	ScheduledDate *time.Time `json:"scheduled_date,omitempty"`

	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`

	CreatedAt time.Time `json:"created_at"`

	// Child collections, populated only on single-request reads.
	RepairsRequested  []string `json:"repairs_requested,omitempty"`
	ServicesRequested []string `json:"services_requested,omitempty"`
	Accessories       []string `json:"accessories,omitempty"`
	TablePhotos       []string `json:"table_photos,omitempty"`
	PocketImages      []string `json:"pocket_images,omitempty"`
}

// Address is one flat address group from a form submission.
type Address struct {
	Line1  *string `json:"addr_line1,omitempty"`
	Line2  *string `json:"addr_line2,omitempty"`
	City   *string `json:"city,omitempty"`
	State  *string `json:"state,omitempty"`
	Postal *string `json:"postal,omitempty"`
}

// GeocodeJob is a stored request whose job address still lacks coordinates.
type GeocodeJob struct {
	RequestID int64  // RequestID identifies the pool-table request.
	Address   string // Address is the job-site address to resolve.
}
