package usecase

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/cattyman919/contact/app/domain"
	"github.com/cattyman919/contact/app/port"
	apperrors "github.com/cattyman919/contact/app/utils/errors"
	"github.com/cattyman919/contact/app/utils/metrics"
)

// ContactUsecase implements port.ContactUsecase on top of a ContactGateway
type ContactUsecase struct {
	gateway port.ContactGateway
	logger  *slog.Logger
}

func NewContactUsecase(gateway port.ContactGateway, logger *slog.Logger) *ContactUsecase {
	return &ContactUsecase{
		gateway: gateway,
		logger:  logger.With("component", "contact_usecase"),
	}
}

func (u *ContactUsecase) Create(ctx context.Context, req *domain.CreateContactRequest) (*domain.Contact, error) {
	contact, err := domain.NewContact(req)
	if err != nil {
		return nil, apperrors.NewInvalidArgument("Invalid contact.", err)
	}

	stored, err := u.gateway.Create(ctx, contact)
	metrics.RecordContactWrite("create", err)
	if err != nil {
		return nil, err
	}

	u.logger.InfoContext(ctx, "contact created", "contact_id", stored.ID)
	return stored, nil
}

// CreateBulk stores all contacts or none of them
func (u *ContactUsecase) CreateBulk(ctx context.Context, reqs []*domain.CreateContactRequest) ([]*domain.Contact, error) {
	if len(reqs) == 0 {
		return nil, apperrors.NewInvalidArgument("At least one contact is required.", domain.ErrInvalidInput)
	}

	contacts := make([]*domain.Contact, 0, len(reqs))
	for _, req := range reqs {
		contact, err := domain.NewContact(req)
		if err != nil {
			return nil, apperrors.NewInvalidArgument("Invalid contact.", err)
		}
		contacts = append(contacts, contact)
	}

	stored, err := u.gateway.CreateBatch(ctx, contacts)
	metrics.RecordContactWrite("create_bulk", err)
	if err != nil {
		return nil, err
	}

	u.logger.InfoContext(ctx, "contacts created", "count", len(stored))
	return stored, nil
}

func (u *ContactUsecase) FindAll(ctx context.Context) ([]*domain.Contact, error) {
	return u.gateway.ListAll(ctx)
}

func (u *ContactUsecase) Count(ctx context.Context) (int64, error) {
	return u.gateway.Count(ctx)
}

func (u *ContactUsecase) FindOne(ctx context.Context, id uuid.UUID) (*domain.Contact, error) {
	return u.gateway.GetByID(ctx, id)
}

// Update applies the present fields. An empty update returns the contact as stored.
func (u *ContactUsecase) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateContactRequest) (*domain.Contact, error) {
	if req.IsEmpty() {
		return u.gateway.GetByID(ctx, id)
	}
	req.Normalize()
	if err := req.Check(); err != nil {
		return nil, apperrors.NewInvalidArgument("Invalid contact.", err)
	}

	contact, err := u.gateway.Update(ctx, id, req)
	metrics.RecordContactWrite("update", err)
	if err != nil {
		return nil, err
	}

	u.logger.InfoContext(ctx, "contact updated", "contact_id", id)
	return contact, nil
}

func (u *ContactUsecase) Remove(ctx context.Context, id uuid.UUID) error {
	err := u.gateway.Delete(ctx, id)
	metrics.RecordContactWrite("delete", err)
	if err != nil {
		return err
	}

	u.logger.InfoContext(ctx, "contact removed", "contact_id", id)
	return nil
}
