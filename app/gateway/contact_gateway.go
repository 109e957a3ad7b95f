package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/cattyman919/contact/app/domain"
	"github.com/cattyman919/contact/app/port"
	apperrors "github.com/cattyman919/contact/app/utils/errors"
)

const pgUniqueViolation = "23505"

const (
	msgConflict      = "Phone number or email already exists."
	msgBatchConflict = "One or more phone numbers or emails already exist."
	msgUnavailable   = "contact store unavailable"
)

// ContactGateway implements port.ContactGateway.
// It turns driver errors into AppErrors wrapping the domain sentinels.
type ContactGateway struct {
	repo   port.ContactRepository
	logger *slog.Logger
}

// NewContactGateway creates a new ContactGateway instance
func NewContactGateway(repo port.ContactRepository, logger *slog.Logger) *ContactGateway {
	return &ContactGateway{
		repo:   repo,
		logger: logger.With("component", "contact_gateway"),
	}
}

// Create stores a new contact
func (g *ContactGateway) Create(ctx context.Context, contact *domain.Contact) (*domain.Contact, error) {
	stored, err := g.repo.Insert(ctx, contact)
	if err != nil {
		return nil, g.translateWrite(ctx, err, msgConflict, contact.ID)
	}
	return stored, nil
}

// CreateBatch stores all contacts atomically
func (g *ContactGateway) CreateBatch(ctx context.Context, contacts []*domain.Contact) ([]*domain.Contact, error) {
	stored, err := g.repo.InsertBatch(ctx, contacts)
	if err != nil {
		return nil, g.translateWrite(ctx, err, msgBatchConflict, uuid.Nil)
	}
	return stored, nil
}

// ListAll returns every contact
func (g *ContactGateway) ListAll(ctx context.Context) ([]*domain.Contact, error) {
	contacts, err := g.repo.FindAll(ctx)
	if err != nil {
		return nil, g.translate(ctx, err, uuid.Nil)
	}
	return contacts, nil
}

// Count returns the number of contacts
func (g *ContactGateway) Count(ctx context.Context) (int64, error) {
	count, err := g.repo.Count(ctx)
	if err != nil {
		return 0, g.translate(ctx, err, uuid.Nil)
	}
	return count, nil
}

// GetByID returns a NotFound AppError when the contact does not exist
func (g *ContactGateway) GetByID(ctx context.Context, id uuid.UUID) (*domain.Contact, error) {
	contact, err := g.repo.FindByID(ctx, id)
	if err != nil {
		return nil, g.translate(ctx, err, id)
	}
	return contact, nil
}

// Update applies a partial update
func (g *ContactGateway) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateContactRequest) (*domain.Contact, error) {
	contact, err := g.repo.Update(ctx, id, req)
	if err != nil {
		return nil, g.translateWrite(ctx, err, msgConflict, id)
	}
	return contact, nil
}

// Delete removes a contact
func (g *ContactGateway) Delete(ctx context.Context, id uuid.UUID) error {
	removed, err := g.repo.Delete(ctx, id)
	if err != nil {
		return g.translate(ctx, err, id)
	}
	if !removed {
		return notFound(id, domain.ErrContactNotFound)
	}
	return nil
}

// FetchRange reads one bounded range of contacts
func (g *ContactGateway) FetchRange(ctx context.Context, r domain.ContactRange) ([]*domain.Contact, error) {
	contacts, err := g.repo.FetchRange(ctx, r)
	if err != nil {
		return nil, g.translate(ctx, err, uuid.Nil)
	}
	return contacts, nil
}

// translateWrite maps unique violations to a Conflict carrying conflictMsg
func (g *ContactGateway) translateWrite(ctx context.Context, err error, conflictMsg string, id uuid.UUID) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		g.logger.InfoContext(ctx, "unique constraint violated", "constraint", pgErr.ConstraintName)
		return apperrors.NewConflict(conflictMsg, fmt.Errorf("%w: %w", domain.ErrContactConflict, err))
	}
	return g.translate(ctx, err, id)
}

func (g *ContactGateway) translate(ctx context.Context, err error, id uuid.UUID) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return notFound(id, fmt.Errorf("%w: %w", domain.ErrContactNotFound, err))
	}
	g.logger.ErrorContext(ctx, "contact store failure", "error", err)
	return apperrors.NewServiceUnavailable(msgUnavailable, fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err))
}

func notFound(id uuid.UUID, cause error) error {
	return apperrors.NewNotFound(fmt.Sprintf("Contact with ID %q not found.", id.String()), cause)
}
