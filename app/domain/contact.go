package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// MinNameLength is the shortest name accepted after trimming
const MinNameLength = 3

// Contact is a single address-book entry.
// CreatedAt is assigned by the store and never changes afterwards.
type Contact struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreateContactRequest carries the fields accepted when creating a contact
type CreateContactRequest struct {
	Name  string `json:"name" validate:"required,min=3,max=255"`
	Phone string `json:"phone" validate:"required,id_phone"`
	Email string `json:"email" validate:"required,email,max=255"`
}

// UpdateContactRequest carries a partial update; nil fields are left untouched
type UpdateContactRequest struct {
	Name  *string `json:"name,omitempty" validate:"omitempty,min=3,max=255"`
	Phone *string `json:"phone,omitempty" validate:"omitempty,id_phone"`
	Email *string `json:"email,omitempty" validate:"omitempty,email,max=255"`
}

// NewContact creates a contact with a fresh identifier.
// Timestamps stay zero until the store assigns them.
func NewContact(req *CreateContactRequest) (*Contact, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: contact request is required", ErrInvalidInput)
	}

	normalized := *req
	normalized.Normalize()
	if err := checkName(normalized.Name); err != nil {
		return nil, err
	}

	return &Contact{
		ID:    uuid.New(),
		Name:  normalized.Name,
		Phone: normalized.Phone,
		Email: normalized.Email,
	}, nil
}

// Normalize trims every field in place and lowercases the email
func (r *CreateContactRequest) Normalize() {
	if r == nil {
		return
	}
	r.Name = strings.TrimSpace(r.Name)
	r.Phone = strings.TrimSpace(r.Phone)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

func checkName(name string) error {
	if utf8.RuneCountInString(name) < MinNameLength {
		return fmt.Errorf("%w: name must be at least %d characters", ErrInvalidInput, MinNameLength)
	}
	return nil
}

// IsEmpty reports whether the update carries no field at all
func (r *UpdateContactRequest) IsEmpty() bool {
	return r == nil || (r.Name == nil && r.Phone == nil && r.Email == nil)
}

// Normalize trims the present fields in place
func (r *UpdateContactRequest) Normalize() {
	if r == nil {
		return
	}
	if r.Name != nil {
		name := strings.TrimSpace(*r.Name)
		r.Name = &name
	}
	if r.Phone != nil {
		phone := strings.TrimSpace(*r.Phone)
		r.Phone = &phone
	}
	if r.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*r.Email))
		r.Email = &email
	}
}

// Check reports an invalid present field once the request is normalized
func (r *UpdateContactRequest) Check() error {
	if r == nil || r.Name == nil {
		return nil
	}
	return checkName(*r.Name)
}
