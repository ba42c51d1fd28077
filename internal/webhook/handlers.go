package webhook

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pooltablesquad/backoffice/internal/metrics"
	"github.com/pooltablesquad/backoffice/internal/models"
)

// Store is the slice of the repository the webhook handlers write through.
type Store interface {
	UpsertCustomerByEmail(ctx context.Context, email string, nameFirst, nameLast, phone *string) (int64, error)
	InsertTableRequest(ctx context.Context, req *models.TableRequest) (int64, error)
	InsertRequestChildren(ctx context.Context, requestID int64, req *models.TableRequest) error
	InsertContact(ctx context.Context, customerID int64, comments *string) (int64, error)
	InsertSellingLead(ctx context.Context, lead *models.SellingLead) (int64, error)
	InsertBuyingLead(ctx context.Context, lead *models.BuyingLead) (int64, error)
	InsertTableInquiry(ctx context.Context, inquiry *models.TableInquiry) (int64, error)
}

// Handler ingests form-provider webhooks. Each public form posts to its own
// route; all of them upsert the customer by email first and then store the
// form-specific rows.
type Handler struct {
	log     *slog.Logger
	store   Store
	metrics *metrics.Metrics
}

func NewHandler(log *slog.Logger, store Store, appMetrics *metrics.Metrics) *Handler {
	return &Handler{log: log, store: store, metrics: appMetrics}
}

// Register mounts the five form endpoints on the given route group.
func (h *Handler) Register(group *gin.RouterGroup) {
	group.POST("/request", h.HandleRequest)
	group.POST("/contact", h.HandleContact)
	group.POST("/selling", h.HandleSelling)
	group.POST("/buying-modal", h.HandleBuying)
	group.POST("/table-inquiry", h.HandleTableInquiry)
}

// rawRequest pulls the provider's JSON payload out of the multipart form.
// A missing field is a client error, not a server one.
func (h *Handler) rawRequest(c *gin.Context) (string, bool) {
	raw := c.PostForm("rawRequest")
	if raw == "" {
		c.String(http.StatusBadRequest, "rawRequest form field is required")
		return "", false
	}

	return raw, true
}

func (h *Handler) submission(c *gin.Context, form string, status string) {
	h.metrics.WebhookSubmissions.WithLabelValues(form, status).Inc()
}

// HandleRequest ingests the main service-request form.
func (h *Handler) HandleRequest(c *gin.Context) {
	raw, ok := h.rawRequest(c)
	if !ok {
		h.submission(c, "request", "bad_request")
		return
	}

	var payload requestPayload
	if err := parsePayload(raw, &payload); err != nil {
		h.log.WarnContext(c.Request.Context(), "Rejected malformed request payload", "error", err)
		h.submission(c, "request", "bad_request")
		c.String(http.StatusBadRequest, "Malformed rawRequest payload")
		return
	}

	if payload.Email == "" {
		h.submission(c, "request", "bad_request")
		c.String(http.StatusBadRequest, "Email is required to process request.")
		return
	}

	ctx := c.Request.Context()
	req := payload.toModel()

	customerID, err := h.store.UpsertCustomerByEmail(ctx, payload.Email, req.NameFirst, req.NameLast, req.PhoneNumber)
	if err != nil {
		h.fail(c, "request", "failed to upsert customer", err)
		return
	}
	req.CustomerID = customerID

	requestID, err := h.store.InsertTableRequest(ctx, req)
	if err != nil {
		h.fail(c, "request", "failed to store table request", err)
		return
	}

	if err = h.store.InsertRequestChildren(ctx, requestID, req); err != nil {
		h.fail(c, "request", "failed to store request details", err)
		return
	}

	h.log.InfoContext(ctx, "Stored service request", "request_id", requestID, "customer_id", customerID)
	h.submission(c, "request", "ok")
	c.String(http.StatusOK, "Data inserted successfully")
}

// HandleContact ingests the "contact us" form.
func (h *Handler) HandleContact(c *gin.Context) {
	raw, ok := h.rawRequest(c)
	if !ok {
		h.submission(c, "contact", "bad_request")
		return
	}

	var payload contactPayload
	if err := parsePayload(raw, &payload); err != nil {
		h.log.WarnContext(c.Request.Context(), "Rejected malformed contact payload", "error", err)
		h.submission(c, "contact", "bad_request")
		c.String(http.StatusBadRequest, "Malformed rawRequest payload")
		return
	}

	if payload.Email == "" {
		h.submission(c, "contact", "bad_request")
		c.String(http.StatusBadRequest, "Email is required to process request.")
		return
	}

	ctx := c.Request.Context()

	customerID, err := h.store.UpsertCustomerByEmail(ctx, payload.Email,
		optional(payload.Name.First), optional(payload.Name.Last), optional(payload.Phone.Full))
	if err != nil {
		h.fail(c, "contact", "failed to upsert customer", err)
		return
	}

	contactID, err := h.store.InsertContact(ctx, customerID, optional(payload.Comments))
	if err != nil {
		h.fail(c, "contact", "failed to store contact", err)
		return
	}

	h.log.InfoContext(ctx, "Stored contact submission", "contact_id", contactID, "customer_id", customerID)
	h.submission(c, "contact", "ok")
	c.String(http.StatusOK, "Contact form submitted successfully.")
}

// HandleSelling ingests the "sell your table" form.
func (h *Handler) HandleSelling(c *gin.Context) {
	raw, ok := h.rawRequest(c)
	if !ok {
		h.submission(c, "selling", "bad_request")
		return
	}

	var payload sellingPayload
	if err := parsePayload(raw, &payload); err != nil {
		h.log.WarnContext(c.Request.Context(), "Rejected malformed selling payload", "error", err)
		h.submission(c, "selling", "bad_request")
		c.String(http.StatusBadRequest, "Malformed rawRequest payload")
		return
	}

	if payload.Email == "" {
		h.submission(c, "selling", "bad_request")
		c.String(http.StatusBadRequest, "Email is required to process request.")
		return
	}

	ctx := c.Request.Context()

	customerID, err := h.store.UpsertCustomerByEmail(ctx, payload.Email,
		optional(payload.Name.First), optional(payload.Name.Last), optional(payload.Phone.Full))
	if err != nil {
		h.fail(c, "selling", "failed to upsert customer", err)
		return
	}

	lead := &models.SellingLead{
		CustomerID:  customerID,
		Brand:       optional(payload.TableBrand),
		Model:       optional(payload.TableModel),
		Size:        optional(payload.TableSize),
		City:        optional(payload.City),
		State:       optional(payload.State),
		AskingPrice: optional(payload.AskingPrice),
		Defects:     optional(payload.Defects),
		SellerNotes: optional(payload.SellerNotes),
		Images:      payload.images(),
	}

	leadID, err := h.store.InsertSellingLead(ctx, lead)
	if err != nil {
		h.fail(c, "selling", "failed to store selling lead", err)
		return
	}

	h.log.InfoContext(ctx, "Stored selling lead", "lead_id", leadID, "customer_id", customerID)
	h.submission(c, "selling", "ok")
	c.String(http.StatusOK, "Selling form processed successfully.")
}

// HandleBuying ingests the "looking to buy" modal.
func (h *Handler) HandleBuying(c *gin.Context) {
	raw, ok := h.rawRequest(c)
	if !ok {
		h.submission(c, "buying", "bad_request")
		return
	}

	var payload buyingPayload
	if err := parsePayload(raw, &payload); err != nil {
		h.log.WarnContext(c.Request.Context(), "Rejected malformed buying payload", "error", err)
		h.submission(c, "buying", "bad_request")
		c.String(http.StatusBadRequest, "Malformed rawRequest payload")
		return
	}

	if payload.Email == "" {
		h.submission(c, "buying", "bad_request")
		c.String(http.StatusBadRequest, "Email is required to process request.")
		return
	}

	ctx := c.Request.Context()

	customerID, err := h.store.UpsertCustomerByEmail(ctx, payload.Email,
		optional(payload.Name.First), optional(payload.Name.Last), optional(payload.Phone.Full))
	if err != nil {
		h.fail(c, "buying", "failed to upsert customer", err)
		return
	}

	lead := &models.BuyingLead{
		CustomerID:       customerID,
		City:             optional(payload.City),
		State:            optional(payload.State),
		Budget:           optional(payload.Budget),
		DesiredTableSize: optional(payload.DesiredTableSize),
	}

	leadID, err := h.store.InsertBuyingLead(ctx, lead)
	if err != nil {
		h.fail(c, "buying", "failed to store buying lead", err)
		return
	}

	h.log.InfoContext(ctx, "Stored buying lead", "lead_id", leadID, "customer_id", customerID)
	h.submission(c, "buying", "ok")
	c.String(http.StatusOK, "Buying modal data processed successfully.")
}

// HandleTableInquiry ingests questions about a specific listed table.
func (h *Handler) HandleTableInquiry(c *gin.Context) {
	raw, ok := h.rawRequest(c)
	if !ok {
		h.submission(c, "table_inquiry", "bad_request")
		return
	}

	var payload inquiryPayload
	if err := parsePayload(raw, &payload); err != nil {
		h.log.WarnContext(c.Request.Context(), "Rejected malformed inquiry payload", "error", err)
		h.submission(c, "table_inquiry", "bad_request")
		c.String(http.StatusBadRequest, "Malformed rawRequest payload")
		return
	}

	if payload.Email == "" {
		h.submission(c, "table_inquiry", "bad_request")
		c.String(http.StatusBadRequest, "Email is required to process request.")
		return
	}

	ctx := c.Request.Context()

	customerID, err := h.store.UpsertCustomerByEmail(ctx, payload.Email,
		optional(payload.Name.First), optional(payload.Name.Last), nil)
	if err != nil {
		h.fail(c, "table_inquiry", "failed to upsert customer", err)
		return
	}

	inquiry := &models.TableInquiry{
		CustomerID:     customerID,
		ProductID:      optional(payload.ProductID),
		ProductURL:     optional(payload.ProductURL),
		QuestionsAbout: optional(payload.QuestionsAbout),
	}

	inquiryID, err := h.store.InsertTableInquiry(ctx, inquiry)
	if err != nil {
		h.fail(c, "table_inquiry", "failed to store table inquiry", err)
		return
	}

	h.log.InfoContext(ctx, "Stored table inquiry", "inquiry_id", inquiryID, "customer_id", customerID)
	h.submission(c, "table_inquiry", "ok")
	c.String(http.StatusOK, "Table inquiry processed successfully.")
}

func (h *Handler) fail(c *gin.Context, form, msg string, err error) {
	h.log.ErrorContext(c.Request.Context(), msg, "form", form, "error", err)
	h.submission(c, form, "error")
	c.String(http.StatusInternalServerError, "Internal Server Error")
}
