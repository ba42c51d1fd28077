package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/pooltablesquad/backoffice/internal/models"
)

// InsertContact stores a "contact us" submission linked to its customer.
func (r *Repository) InsertContact(ctx context.Context, customerID int64, comments *string) (int64, error) {
	query := `
		INSERT INTO contacts (customer_id, comments)
		VALUES ($1, $2)
		RETURNING id;
	`

	var contactID int64
	if err := r.db.QueryRow(ctx, query, customerID, comments).Scan(&contactID); err != nil {
		return 0, fmt.Errorf("failed to insert contact: %w", constraintError(err))
	}

	return contactID, nil
}

// ListContacts returns every contact submission joined with its customer,
// newest first.
func (r *Repository) ListContacts(ctx context.Context) ([]models.Contact, error) {
	query := `
		SELECT ct.id, ct.status, ct.comments,
			c.name_first, c.name_last, c.email, c.phone, ct.created_at
		FROM contacts ct
		JOIN customers c ON c.id = ct.customer_id
		ORDER BY ct.created_at DESC;
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query contacts: %w", err)
	}
	defer rows.Close()

	var contacts []models.Contact
	for rows.Next() {
		var c models.Contact
		if errScan := rows.Scan(
			&c.ID, &c.Status, &c.Comments,
			&c.NameFirst, &c.NameLast, &c.Email, &c.Phone, &c.CreatedAt,
		); errScan != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", errScan)
		}
		contacts = append(contacts, c)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read row: %w", err)
	}

	return contacts, nil
}

// GetContact returns one contact submission joined with its customer.
func (r *Repository) GetContact(ctx context.Context, contactID int64) (*models.Contact, error) {
	query := `
		SELECT ct.id, ct.status, ct.comments,
			c.name_first, c.name_last, c.email, c.phone, ct.created_at
		FROM contacts ct
		JOIN customers c ON c.id = ct.customer_id
		WHERE ct.id = $1;
	`

	var c models.Contact
	err := r.db.QueryRow(ctx, query, contactID).Scan(
		&c.ID, &c.Status, &c.Comments,
		&c.NameFirst, &c.NameLast, &c.Email, &c.Phone, &c.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query contact: %w", err)
	}

	return &c, nil
}

// UpdateContactStatus moves a contact submission through triage.
func (r *Repository) UpdateContactStatus(ctx context.Context, contactID int64, status string) error {
	query := `
		UPDATE contacts
		SET status = $1
		WHERE id = $2;
	`

	tag, err := r.db.Exec(ctx, query, status, contactID)
	if err != nil {
		return fmt.Errorf("failed to update contact status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// InsertSellingLead stores a "sell your table" submission and its photo URLs.
func (r *Repository) InsertSellingLead(ctx context.Context, lead *models.SellingLead) (int64, error) {
	query := `
		INSERT INTO selling_leads
			(customer_id, brand, model, size, city, state, asking_price, defects, seller_notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id;
	`

	var leadID int64
	err := r.db.QueryRow(ctx, query,
		lead.CustomerID, lead.Brand, lead.Model, lead.Size, lead.City, lead.State,
		lead.AskingPrice, lead.Defects, lead.SellerNotes,
	).Scan(&leadID)
	if err != nil {
		return 0, fmt.Errorf("failed to insert selling lead: %w", constraintError(err))
	}

	for _, url := range lead.Images {
		insertQuery := `INSERT INTO selling_lead_images (lead_id, image_url) VALUES ($1, $2);`
		if _, err = r.db.Exec(ctx, insertQuery, leadID, url); err != nil {
			return 0, fmt.Errorf("failed to insert selling lead image: %w", err)
		}
	}

	return leadID, nil
}

// ListSellingLeads returns every selling lead joined with its customer and
// image URLs, newest first.
func (r *Repository) ListSellingLeads(ctx context.Context) ([]models.SellingLead, error) {
	query := `
		SELECT sl.id, sl.customer_id, sl.status, sl.brand, sl.model, sl.size, sl.city, sl.state,
			sl.asking_price, sl.defects, sl.seller_notes,
			c.name_first, c.name_last, c.email, c.phone, sl.created_at
		FROM selling_leads sl
		JOIN customers c ON c.id = sl.customer_id
		ORDER BY sl.created_at DESC;
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query selling leads: %w", err)
	}
	defer rows.Close()

	var leads []models.SellingLead
	for rows.Next() {
		var l models.SellingLead
		if errScan := rows.Scan(
			&l.ID, &l.CustomerID, &l.Status, &l.Brand, &l.Model, &l.Size, &l.City, &l.State,
			&l.AskingPrice, &l.Defects, &l.SellerNotes,
			&l.NameFirst, &l.NameLast, &l.Email, &l.PhoneNumber, &l.CreatedAt,
		); errScan != nil {
			return nil, fmt.Errorf("failed to scan selling lead: %w", errScan)
		}
		leads = append(leads, l)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read row: %w", err)
	}

	for i := range leads {
		images, ierr := r.queryStrings(ctx,
			`SELECT image_url FROM selling_lead_images WHERE lead_id = $1;`, leads[i].ID)
		if ierr != nil {
			return nil, ierr
		}
		leads[i].Images = images
	}

	return leads, nil
}

// UpdateSellingLeadStatus moves a selling lead through triage.
func (r *Repository) UpdateSellingLeadStatus(ctx context.Context, leadID int64, status string) error {
	query := `
		UPDATE selling_leads
		SET status = $1
		WHERE id = $2;
	`

	tag, err := r.db.Exec(ctx, query, status, leadID)
	if err != nil {
		return fmt.Errorf("failed to update selling lead status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// InsertBuyingLead stores a "looking to buy" submission.
func (r *Repository) InsertBuyingLead(ctx context.Context, lead *models.BuyingLead) (int64, error) {
	query := `
		INSERT INTO buying_leads (customer_id, city, state, budget, desired_table_size)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id;
	`

	var leadID int64
	err := r.db.QueryRow(ctx, query,
		lead.CustomerID, lead.City, lead.State, lead.Budget, lead.DesiredTableSize,
	).Scan(&leadID)
	if err != nil {
		return 0, fmt.Errorf("failed to insert buying lead: %w", constraintError(err))
	}

	return leadID, nil
}

// ListBuyingLeads returns every buying lead joined with its customer, newest
// first.
func (r *Repository) ListBuyingLeads(ctx context.Context) ([]models.BuyingLead, error) {
	query := `
		SELECT bl.id, bl.customer_id, c.name_first, c.name_last, c.email, c.phone,
			bl.city, bl.state, bl.budget, bl.desired_table_size, bl.created_at
		FROM buying_leads bl
		JOIN customers c ON c.id = bl.customer_id
		ORDER BY bl.created_at DESC;
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query buying leads: %w", err)
	}
	defer rows.Close()

	var leads []models.BuyingLead
	for rows.Next() {
		var l models.BuyingLead
		if errScan := rows.Scan(
			&l.ID, &l.CustomerID, &l.NameFirst, &l.NameLast, &l.Email, &l.PhoneNumber,
			&l.City, &l.State, &l.Budget, &l.DesiredTableSize, &l.CreatedAt,
		); errScan != nil {
			return nil, fmt.Errorf("failed to scan buying lead: %w", errScan)
		}
		leads = append(leads, l)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read row: %w", err)
	}

	return leads, nil
}

// InsertTableInquiry stores a question about a specific listed table.
func (r *Repository) InsertTableInquiry(ctx context.Context, inquiry *models.TableInquiry) (int64, error) {
	query := `
		INSERT INTO table_inquiries (customer_id, product_id, product_url, questions_about)
		VALUES ($1, $2, $3, $4)
		RETURNING id;
	`

	var inquiryID int64
	err := r.db.QueryRow(ctx, query,
		inquiry.CustomerID, inquiry.ProductID, inquiry.ProductURL, inquiry.QuestionsAbout,
	).Scan(&inquiryID)
	if err != nil {
		return 0, fmt.Errorf("failed to insert table inquiry: %w", constraintError(err))
	}

	return inquiryID, nil
}

// ListTableInquiries returns every inquiry joined with its customer, newest
// first.
func (r *Repository) ListTableInquiries(ctx context.Context) ([]models.TableInquiry, error) {
	query := `
		SELECT ti.id, ti.customer_id, ti.status, c.name_first, c.name_last, c.email,
			ti.product_id, ti.product_url, ti.questions_about, ti.created_at
		FROM table_inquiries ti
		JOIN customers c ON c.id = ti.customer_id
		ORDER BY ti.created_at DESC;
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query table inquiries: %w", err)
	}
	defer rows.Close()

	var inquiries []models.TableInquiry
	for rows.Next() {
		var ti models.TableInquiry
		if errScan := rows.Scan(
			&ti.ID, &ti.CustomerID, &ti.Status, &ti.NameFirst, &ti.NameLast, &ti.Email,
			&ti.ProductID, &ti.ProductURL, &ti.QuestionsAbout, &ti.CreatedAt,
		); errScan != nil {
			return nil, fmt.Errorf("failed to scan table inquiry: %w", errScan)
		}
		inquiries = append(inquiries, ti)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read row: %w", err)
	}

	return inquiries, nil
}

// UpdateTableInquiryStatus moves an inquiry through triage.
func (r *Repository) UpdateTableInquiryStatus(ctx context.Context, inquiryID int64, status string) error {
	query := `
		UPDATE table_inquiries
		SET status = $1
		WHERE id = $2;
	`

	tag, err := r.db.Exec(ctx, query, status, inquiryID)
	if err != nil {
		return fmt.Errorf("failed to update table inquiry status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// LeadFilter narrows and pages the combined dashboard feed. Search matches
// first or last names on both sides of the union; Statuses is an OR list.
type LeadFilter struct {
	Search   string
	Statuses []string
	Page     int
	PageSize int
}

// ListLeads returns the combined dashboard feed: service requests and contact
// submissions in one stream, newest first, plus the unpaged total for the
// filter. The source column tells the two apart, and requests carry their
// assigned contractor's name when set.
func (r *Repository) ListLeads(ctx context.Context, filter LeadFilter) ([]models.Lead, int, error) {
	var args []any
	var requestClauses, contactClauses []string

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		args = append(args, pattern)
		requestClauses = append(requestClauses,
			fmt.Sprintf("(r.name_first ILIKE $%d OR r.name_last ILIKE $%d)", len(args), len(args)))
		args = append(args, pattern)
		contactClauses = append(contactClauses,
			fmt.Sprintf("(c.name_first ILIKE $%d OR c.name_last ILIKE $%d)", len(args), len(args)))
	}
	if len(filter.Statuses) > 0 {
		requestClauses = append(requestClauses, "r.status IN ("+placeholders(&args, filter.Statuses)+")")
		contactClauses = append(contactClauses, "ct.status IN ("+placeholders(&args, filter.Statuses)+")")
	}

	requestWhere := whereClause(requestClauses)
	contactWhere := whereClause(contactClauses)

	countQuery := fmt.Sprintf(`
		SELECT COUNT(*) FROM (
			SELECT r.id FROM pool_table_requests r %s
			UNION ALL
			SELECT ct.id FROM contacts ct
			JOIN customers c ON c.id = ct.customer_id %s
		) AS combined;
	`, requestWhere, contactWhere)

	var total int
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count leads: %w", err)
	}

	args = append(args, filter.PageSize, (filter.Page-1)*filter.PageSize)
	query := fmt.Sprintf(`
		SELECT r.id, r.status, r.name_first, r.name_last,
			TRIM(CONCAT_WS(' ', r.name_first, r.name_last)) AS full_name,
			r.created_at, r.contractor_id, co.name AS contractor_name,
			r.service_looking AS job_type, 'request' AS source
		FROM pool_table_requests r
		LEFT JOIN contractors co ON co.id = r.contractor_id
		%s
		UNION ALL
		SELECT ct.id, ct.status, c.name_first, c.name_last,
			TRIM(CONCAT_WS(' ', c.name_first, c.name_last)) AS full_name,
			ct.created_at, NULL, NULL, NULL, 'contact' AS source
		FROM contacts ct
		JOIN customers c ON c.id = ct.customer_id
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d;
	`, requestWhere, contactWhere, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query leads: %w", err)
	}
	defer rows.Close()

	var leads []models.Lead
	for rows.Next() {
		var l models.Lead
		if errScan := rows.Scan(
			&l.ID, &l.Status, &l.NameFirst, &l.NameLast, &l.FullName,
			&l.CreatedAt, &l.ContractorID, &l.ContractorName, &l.JobType, &l.Source,
		); errScan != nil {
			return nil, 0, fmt.Errorf("failed to scan lead: %w", errScan)
		}
		leads = append(leads, l)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read row: %w", err)
	}

	return leads, total, nil
}

// placeholders appends values to args and returns their placeholder list.
func placeholders(args *[]any, values []string) string {
	ph := make([]string, 0, len(values))
	for _, v := range values {
		*args = append(*args, v)
		ph = append(ph, fmt.Sprintf("$%d", len(*args)))
	}

	return strings.Join(ph, ", ")
}

func whereClause(clauses []string) string {
	if len(clauses) == 0 {
		return ""
	}

	return "WHERE " + strings.Join(clauses, " AND ")
}

// ListLeadStatuses returns the distinct status values currently in use across
// requests and contacts, for the dashboard's filter dropdown.
func (r *Repository) ListLeadStatuses(ctx context.Context) ([]string, error) {
	query := `
		SELECT DISTINCT status FROM (
			SELECT status FROM pool_table_requests WHERE status IS NOT NULL
			UNION ALL
			SELECT status FROM contacts WHERE status IS NOT NULL
		) AS s
		ORDER BY status ASC;
	`

	return r.queryStrings(ctx, query)
}
