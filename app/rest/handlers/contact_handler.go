package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/cattyman919/contact/app/domain"
	"github.com/cattyman919/contact/app/port"
	apperrors "github.com/cattyman919/contact/app/utils/errors"
	"github.com/cattyman919/contact/app/utils/validator"
)

// ContactView is the public representation of a contact
type ContactView struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Phone string    `json:"phone"`
	Email string    `json:"email"`
}

func toContactView(c *domain.Contact) ContactView {
	return ContactView{ID: c.ID, Name: c.Name, Phone: c.Phone, Email: c.Email}
}

func toContactViews(contacts []*domain.Contact) []ContactView {
	views := make([]ContactView, 0, len(contacts))
	for _, c := range contacts {
		views = append(views, toContactView(c))
	}
	return views
}

// ListContactsQuery holds the paginated listing parameters.
// Cursor is a legacy alias of NextCursor.
type ListContactsQuery struct {
	NextCursor string `query:"nextCursor"`
	PrevCursor string `query:"prevCursor"`
	Cursor     string `query:"cursor"`
	Limit      int    `query:"limit" validate:"min=1"`
}

// ContactHandler handles contact HTTP requests
type ContactHandler struct {
	contactUsecase port.ContactUsecase
	paginator      port.ContactPaginator
	defaultLimit   int
	maxLimit       int
	logger         *slog.Logger
}

// NewContactHandler creates a new contact handler
func NewContactHandler(
	contactUsecase port.ContactUsecase,
	paginator port.ContactPaginator,
	defaultLimit, maxLimit int,
	logger *slog.Logger,
) *ContactHandler {
	return &ContactHandler{
		contactUsecase: contactUsecase,
		paginator:      paginator,
		defaultLimit:   defaultLimit,
		maxLimit:       maxLimit,
		logger:         logger.With("component", "contact_handler"),
	}
}

// List returns one page of contacts
// @Summary List contacts
// @Tags contacts
// @Produce json
// @Param nextCursor query string false "Cursor of the last contact seen"
// @Param prevCursor query string false "Cursor of the first contact seen"
// @Param limit query int false "Page size (1-100)"
// @Success 200 {object} PageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /api/v1/contacts [get]
func (h *ContactHandler) List(c echo.Context) error {
	query := ListContactsQuery{Limit: h.defaultLimit}
	err := echo.QueryParamsBinder(c).
		String("nextCursor", &query.NextCursor).
		String("prevCursor", &query.PrevCursor).
		String("cursor", &query.Cursor).
		Int("limit", &query.Limit).
		BindError()
	if err != nil {
		return apperrors.NewInvalidArgument("limit must be an integer", err)
	}
	if err := c.Validate(&query); err != nil {
		return requestError(err)
	}
	if query.Limit > h.maxLimit {
		return apperrors.NewValidationError(fmt.Sprintf("limit must not be greater than %d", h.maxLimit))
	}

	nextCursor := query.NextCursor
	if nextCursor == "" {
		nextCursor = query.Cursor
	}

	page, err := h.paginator.Paginate(c.Request().Context(), domain.ContactPageQuery{
		NextCursor: nextCursor,
		PrevCursor: query.PrevCursor,
		Limit:      query.Limit,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, PageResponse{
		Status:     statusSuccess,
		StatusCode: http.StatusOK,
		Data:       toContactViews(page.Data),
		NextCursor: page.NextCursor,
		PrevCursor: page.PrevCursor,
	})
}

// ListAll returns every contact
// @Summary List all contacts
// @Tags contacts
// @Produce json
// @Success 200 {object} SuccessResponse
// @Router /api/v1/contacts/all [get]
func (h *ContactHandler) ListAll(c echo.Context) error {
	contacts, err := h.contactUsecase.FindAll(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, toContactViews(contacts))
}

// ListAllDev returns every contact including its timestamps
// @Summary List all contacts with timestamps
// @Tags contacts
// @Produce json
// @Success 200 {object} SuccessResponse
// @Router /api/v1/contacts/dev/all [get]
func (h *ContactHandler) ListAllDev(c echo.Context) error {
	contacts, err := h.contactUsecase.FindAll(c.Request().Context())
	if err != nil {
		return err
	}
	if contacts == nil {
		contacts = []*domain.Contact{}
	}
	return respond(c, http.StatusOK, contacts)
}

// Count returns the number of contacts
// @Summary Count contacts
// @Tags contacts
// @Produce json
// @Success 200 {object} SuccessResponse
// @Router /api/v1/contacts/count [get]
func (h *ContactHandler) Count(c echo.Context) error {
	count, err := h.contactUsecase.Count(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, count)
}

// Create creates a contact
// @Summary Create contact
// @Tags contacts
// @Accept json
// @Produce json
// @Param body body domain.CreateContactRequest true "Contact"
// @Success 201 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/contacts [post]
func (h *ContactHandler) Create(c echo.Context) error {
	var req domain.CreateContactRequest
	if err := (&echo.DefaultBinder{}).BindBody(c, &req); err != nil {
		return apperrors.NewInvalidArgument("Invalid request body.", err)
	}
	req.Normalize()
	if err := c.Validate(&req); err != nil {
		return requestError(err)
	}

	contact, err := h.contactUsecase.Create(c.Request().Context(), &req)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, toContactView(contact))
}

// CreateBulk creates many contacts in one transaction
// @Summary Create contacts in bulk
// @Tags contacts
// @Accept json
// @Produce json
// @Param body body []domain.CreateContactRequest true "Contacts"
// @Success 201 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/contacts/bulk [post]
func (h *ContactHandler) CreateBulk(c echo.Context) error {
	var reqs []*domain.CreateContactRequest
	if err := (&echo.DefaultBinder{}).BindBody(c, &reqs); err != nil {
		return apperrors.NewInvalidArgument("Invalid request body.", err)
	}
	if len(reqs) == 0 {
		return apperrors.NewInvalidArgument("At least one contact is required.", domain.ErrInvalidInput)
	}

	failures := &validator.ValidationError{Errors: map[string]string{}}
	for i, req := range reqs {
		prefix := fmt.Sprintf("[%d]", i)
		if req == nil {
			failures.Errors[prefix] = prefix + ": contact is required"
			continue
		}
		req.Normalize()
		err := c.Validate(req)
		var validationErr *validator.ValidationError
		switch {
		case err == nil:
		case errors.As(err, &validationErr):
			for field, msg := range validationErr.Prefixed(prefix).Errors {
				failures.Errors[field] = msg
			}
		default:
			return requestError(err)
		}
	}
	if len(failures.Errors) > 0 {
		return requestError(failures)
	}

	contacts, err := h.contactUsecase.CreateBulk(c.Request().Context(), reqs)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, toContactViews(contacts))
}

// Get returns a single contact
// @Summary Get contact
// @Tags contacts
// @Produce json
// @Param id path string true "Contact ID"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/contacts/{id} [get]
func (h *ContactHandler) Get(c echo.Context) error {
	id, err := parseContactID(c)
	if err != nil {
		return err
	}

	contact, err := h.contactUsecase.FindOne(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, toContactView(contact))
}

// Update applies a partial update to a contact
// @Summary Update contact
// @Tags contacts
// @Accept json
// @Produce json
// @Param id path string true "Contact ID"
// @Param body body domain.UpdateContactRequest true "Fields to change"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/contacts/{id} [patch]
func (h *ContactHandler) Update(c echo.Context) error {
	id, err := parseContactID(c)
	if err != nil {
		return err
	}

	var req domain.UpdateContactRequest
	if err := (&echo.DefaultBinder{}).BindBody(c, &req); err != nil {
		return apperrors.NewInvalidArgument("Invalid request body.", err)
	}
	req.Normalize()
	if err := c.Validate(&req); err != nil {
		return requestError(err)
	}

	contact, err := h.contactUsecase.Update(c.Request().Context(), id, &req)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, toContactView(contact))
}

// Remove deletes a contact
// @Summary Remove contact
// @Tags contacts
// @Produce json
// @Param id path string true "Contact ID"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/contacts/{id} [delete]
func (h *ContactHandler) Remove(c echo.Context) error {
	id, err := parseContactID(c)
	if err != nil {
		return err
	}

	if err := h.contactUsecase.Remove(c.Request().Context(), id); err != nil {
		return err
	}
	return respond(c, http.StatusOK, MessageResponse{
		Message: fmt.Sprintf("Contact with ID %q has been removed.", id.String()),
	})
}

func parseContactID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, apperrors.NewInvalidArgument("Validation failed (uuid is expected)", err)
	}
	return id, nil
}
