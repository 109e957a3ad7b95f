package port

//go:generate mockgen -source=contact_port.go -destination=../mocks/mock_contact_port.go

import (
	"context"

	"github.com/cattyman919/contact/app/domain"
	"github.com/google/uuid"
)

// ContactUsecase defines contact management business logic interface
type ContactUsecase interface {
	Create(ctx context.Context, req *domain.CreateContactRequest) (*domain.Contact, error)
	CreateBulk(ctx context.Context, reqs []*domain.CreateContactRequest) ([]*domain.Contact, error)
	FindAll(ctx context.Context) ([]*domain.Contact, error)
	Count(ctx context.Context) (int64, error)
	FindOne(ctx context.Context, id uuid.UUID) (*domain.Contact, error)
	Update(ctx context.Context, id uuid.UUID, req *domain.UpdateContactRequest) (*domain.Contact, error)
	Remove(ctx context.Context, id uuid.UUID) error
}

// ContactPaginator returns pages of contacts in (created_at, id) order
type ContactPaginator interface {
	Paginate(ctx context.Context, query domain.ContactPageQuery) (*domain.ContactPage, error)
}

// ContactRangeGateway reads one bounded, ordered range of contacts
type ContactRangeGateway interface {
	FetchRange(ctx context.Context, r domain.ContactRange) ([]*domain.Contact, error)
}

// ContactGateway defines contact gateway interface.
// Errors are returned as AppErrors wrapping the domain sentinels.
type ContactGateway interface {
	ContactRangeGateway

	Create(ctx context.Context, contact *domain.Contact) (*domain.Contact, error)
	CreateBatch(ctx context.Context, contacts []*domain.Contact) ([]*domain.Contact, error)
	ListAll(ctx context.Context) ([]*domain.Contact, error)
	Count(ctx context.Context) (int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Contact, error)
	Update(ctx context.Context, id uuid.UUID, req *domain.UpdateContactRequest) (*domain.Contact, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ContactRepository defines contact data access interface
type ContactRepository interface {
	Insert(ctx context.Context, contact *domain.Contact) (*domain.Contact, error)
	InsertBatch(ctx context.Context, contacts []*domain.Contact) ([]*domain.Contact, error)
	FindAll(ctx context.Context) ([]*domain.Contact, error)
	Count(ctx context.Context) (int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Contact, error)
	Update(ctx context.Context, id uuid.UUID, req *domain.UpdateContactRequest) (*domain.Contact, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	FetchRange(ctx context.Context, r domain.ContactRange) ([]*domain.Contact, error)
}

// HealthChecker reports whether a dependency is reachable
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}
