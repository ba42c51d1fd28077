package models

import "time"

// Customer is a person who submitted any of the public forms. Customers are
// deduplicated by email on ingestion.
type Customer struct {
	ID        int64      `json:"id"`
	Email     string     `json:"email"`
	NameFirst *string    `json:"name_first,omitempty"`
	NameLast  *string    `json:"name_last,omitempty"`
	Phone     *string    `json:"phone,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// CustomerNote is a free-form staff note attached to a customer.
type CustomerNote struct {
	ID         int64     `json:"id"`
	CustomerID int64     `json:"customer_id"`
	Note       string    `json:"note"`
	Date       time.Time `json:"date"`
}

// Contact is a "contact us" form submission joined with its customer.
type Contact struct {
	ID        int64     `json:"id"`
	Status    *string   `json:"status,omitempty"`
	Comments  *string   `json:"comments,omitempty"`
	NameFirst *string   `json:"name_first,omitempty"`
	NameLast  *string   `json:"name_last,omitempty"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
