package models

import "time"

// SellingLead is a "sell your table" form submission.
type SellingLead struct {
	ID          int64     `json:"id"`
	CustomerID  int64     `json:"customer_id"`
	Status      string    `json:"status"`
	Brand       *string   `json:"brand,omitempty"`
	Model       *string   `json:"model,omitempty"`
	Size        *string   `json:"size,omitempty"`
	City        *string   `json:"city,omitempty"`
	State       *string   `json:"state,omitempty"`
	AskingPrice *string   `json:"asking_price,omitempty"`
	Defects     *string   `json:"defects,omitempty"`
	SellerNotes *string   `json:"seller_notes,omitempty"`
	NameFirst   *string   `json:"name_first,omitempty"`
	NameLast    *string   `json:"name_last,omitempty"`
	Email       string    `json:"email"`
	PhoneNumber *string   `json:"phone_number,omitempty"`
	Images      []string  `json:"images,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// BuyingLead is a "looking to buy" modal submission.
type BuyingLead struct {
	ID               int64     `json:"id"`
	CustomerID       int64     `json:"customer_id"`
	NameFirst        *string   `json:"name_first,omitempty"`
	NameLast         *string   `json:"name_last,omitempty"`
	Email            string    `json:"email"`
	PhoneNumber      *string   `json:"phone_number,omitempty"`
	City             *string   `json:"city,omitempty"`
	State            *string   `json:"state,omitempty"`
	Budget           *string   `json:"budget,omitempty"`
	DesiredTableSize *string   `json:"desired_table_size,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// TableInquiry is a question about a specific listed table.
type TableInquiry struct {
	ID             int64     `json:"id"`
	CustomerID     int64     `json:"customer_id"`
	Status         string    `json:"status"`
	NameFirst      *string   `json:"name_first,omitempty"`
	NameLast       *string   `json:"name_last,omitempty"`
	Email          string    `json:"email"`
	ProductID      *string   `json:"product_id,omitempty"`
	ProductURL     *string   `json:"product_url,omitempty"`
	QuestionsAbout *string   `json:"questions_about,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// Lead is one row of the combined dashboard view over service requests and
// contact submissions.
type Lead struct {
	ID             int64     `json:"id"`
	Status         *string   `json:"status,omitempty"`
	NameFirst      *string   `json:"name_first,omitempty"`
	NameLast       *string   `json:"name_last,omitempty"`
	FullName       *string   `json:"full_name,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	ContractorID   *int64    `json:"contractor_id,omitempty"`
	ContractorName *string   `json:"contractor_name,omitempty"`
	JobType        *string   `json:"job_type,omitempty"`
	Source         string    `json:"source"`
}

// StaffUser is a dashboard login.
type StaffUser struct {
	ID           int64
	Email        string
	PasswordHash string
}
