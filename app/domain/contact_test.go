package domain_test

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cattyman919/contact/app/domain"
)

func TestContact_NewContact(t *testing.T) {
	tests := []struct {
		name    string
		req     *domain.CreateContactRequest
		want    *domain.Contact
		wantErr bool
	}{
		{
			name: "valid contact",
			req:  &domain.CreateContactRequest{Name: "Budi Santoso", Phone: "081234567890", Email: "budi@example.com"},
			want: &domain.Contact{Name: "Budi Santoso", Phone: "081234567890", Email: "budi@example.com"},
		},
		{
			name: "fields are trimmed and email lowercased",
			req:  &domain.CreateContactRequest{Name: "  Siti  ", Phone: " +6281234567890 ", Email: " Siti@Example.COM "},
			want: &domain.Contact{Name: "Siti", Phone: "+6281234567890", Email: "siti@example.com"},
		},
		{
			name:    "nil request",
			req:     nil,
			wantErr: true,
		},
		{
			name:    "name shorter than the minimum once trimmed",
			req:     &domain.CreateContactRequest{Name: "  ab  ", Phone: "081234567890", Email: "a@b.co"},
			wantErr: true,
		},
		{
			name:    "blank name",
			req:     &domain.CreateContactRequest{Name: "   ", Phone: "081234567890", Email: "a@b.co"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			contact, err := domain.NewContact(tt.req)

			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, domain.ErrInvalidInput))
				assert.Nil(t, contact)
				return
			}

			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, contact.ID)
			assert.Equal(t, tt.want.Name, contact.Name)
			assert.Equal(t, tt.want.Phone, contact.Phone)
			assert.Equal(t, tt.want.Email, contact.Email)
			assert.True(t, contact.CreatedAt.IsZero())
		})
	}
}

func TestUpdateContactRequest_IsEmpty(t *testing.T) {
	name := "Andi"

	var nilReq *domain.UpdateContactRequest
	assert.True(t, nilReq.IsEmpty())
	assert.True(t, (&domain.UpdateContactRequest{}).IsEmpty())
	assert.False(t, (&domain.UpdateContactRequest{Name: &name}).IsEmpty())
}

func TestUpdateContactRequest_Normalize(t *testing.T) {
	name := "  Andi Wijaya "
	email := "ANDI@Example.com "
	req := &domain.UpdateContactRequest{Name: &name, Email: &email}

	req.Normalize()

	assert.Equal(t, "Andi Wijaya", *req.Name)
	assert.Equal(t, "andi@example.com", *req.Email)
	assert.Nil(t, req.Phone)
}

func TestCreateContactRequest_Normalize(t *testing.T) {
	req := &domain.CreateContactRequest{Name: " Budi ", Phone: " 081234567890 ", Email: " Budi@Example.COM"}

	req.Normalize()

	assert.Equal(t, domain.CreateContactRequest{Name: "Budi", Phone: "081234567890", Email: "budi@example.com"}, *req)
}

func TestUpdateContactRequest_Check(t *testing.T) {
	blank, short, ok := "   ", " ab ", " Andi "

	tests := []struct {
		name    string
		req     *domain.UpdateContactRequest
		wantErr bool
	}{
		{name: "nil request", req: nil},
		{name: "name absent", req: &domain.UpdateContactRequest{}},
		{name: "valid name", req: &domain.UpdateContactRequest{Name: &ok}},
		{name: "blank name", req: &domain.UpdateContactRequest{Name: &blank}, wantErr: true},
		{name: "short name", req: &domain.UpdateContactRequest{Name: &short}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.req.Normalize()
			err := tt.req.Check()

			if tt.wantErr {
				assert.True(t, errors.Is(err, domain.ErrInvalidInput))
				return
			}
			assert.NoError(t, err)
		})
	}
}
