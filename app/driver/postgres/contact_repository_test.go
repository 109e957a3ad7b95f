package postgres

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cattyman919/contact/app/domain"
	"github.com/cattyman919/contact/app/utils/logger"
)

var contactRowColumns = []string{"id", "name", "phone", "email", "created_at", "updated_at"}

// Helper function to create a test contact repository with mocked database
func createTestContactRepository(t *testing.T) (*ContactRepository, pgxmock.PgxPoolIface) {
	t.Helper()

	mockDB, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockDB.Close)

	testLogger, err := logger.NewWithWriter("debug", io.Discard)
	require.NoError(t, err)

	return NewContactRepository(mockDB, testLogger).(*ContactRepository), mockDB
}

func testContact(name string, createdAt time.Time) *domain.Contact {
	return &domain.Contact{
		ID:        uuid.New(),
		Name:      name,
		Phone:     "081234567890",
		Email:     "contact@example.com",
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func contactRows(contacts ...*domain.Contact) *pgxmock.Rows {
	rows := pgxmock.NewRows(contactRowColumns)
	for _, c := range contacts {
		rows.AddRow(c.ID, c.Name, c.Phone, c.Email, c.CreatedAt, c.UpdatedAt)
	}
	return rows
}

func TestContactRepository_Insert(t *testing.T) {
	createdAt := time.Date(2025, 8, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		setupDB func(pgxmock.PgxPoolIface, *domain.Contact)
		wantErr error
	}{
		{
			name: "successful insert",
			setupDB: func(mockDB pgxmock.PgxPoolIface, c *domain.Contact) {
				mockDB.ExpectQuery(regexp.QuoteMeta(insertContactSQL)).
					WithArgs(c.ID, c.Name, c.Phone, c.Email).
					WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(createdAt, createdAt))
			},
		},
		{
			name: "unique violation is wrapped",
			setupDB: func(mockDB pgxmock.PgxPoolIface, c *domain.Contact) {
				mockDB.ExpectQuery(regexp.QuoteMeta(insertContactSQL)).
					WithArgs(c.ID, c.Name, c.Phone, c.Email).
					WillReturnError(&pgconn.PgError{Code: "23505"})
			},
			wantErr: &pgconn.PgError{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mockDB := createTestContactRepository(t)
			contact := testContact("Budi", time.Time{})
			tt.setupDB(mockDB, contact)

			stored, err := repo.Insert(context.Background(), contact)

			if tt.wantErr != nil {
				require.Error(t, err)
				var pgErr *pgconn.PgError
				assert.True(t, errors.As(err, &pgErr))
				assert.Nil(t, stored)
			} else {
				require.NoError(t, err)
				assert.Equal(t, contact.ID, stored.ID)
				assert.True(t, stored.CreatedAt.Equal(createdAt))
				assert.True(t, contact.CreatedAt.IsZero(), "input must not be mutated")
			}
			assert.NoError(t, mockDB.ExpectationsWereMet())
		})
	}
}

func TestContactRepository_InsertBatch(t *testing.T) {
	createdAt := time.Date(2025, 8, 15, 12, 0, 0, 0, time.UTC)

	t.Run("commits when every insert succeeds", func(t *testing.T) {
		repo, mockDB := createTestContactRepository(t)
		first, second := testContact("Andi", time.Time{}), testContact("Siti", time.Time{})

		mockDB.ExpectBegin()
		for _, c := range []*domain.Contact{first, second} {
			mockDB.ExpectQuery(regexp.QuoteMeta(insertContactSQL)).
				WithArgs(c.ID, c.Name, c.Phone, c.Email).
				WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(createdAt, createdAt))
		}
		mockDB.ExpectCommit()

		stored, err := repo.InsertBatch(context.Background(), []*domain.Contact{first, second})

		require.NoError(t, err)
		require.Len(t, stored, 2)
		assert.Equal(t, first.ID, stored[0].ID)
		assert.Equal(t, second.ID, stored[1].ID)
		assert.NoError(t, mockDB.ExpectationsWereMet())
	})

	t.Run("rolls back on the first failure", func(t *testing.T) {
		repo, mockDB := createTestContactRepository(t)
		first, second := testContact("Andi", time.Time{}), testContact("Siti", time.Time{})

		mockDB.ExpectBegin()
		mockDB.ExpectQuery(regexp.QuoteMeta(insertContactSQL)).
			WithArgs(first.ID, first.Name, first.Phone, first.Email).
			WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(createdAt, createdAt))
		mockDB.ExpectQuery(regexp.QuoteMeta(insertContactSQL)).
			WithArgs(second.ID, second.Name, second.Phone, second.Email).
			WillReturnError(&pgconn.PgError{Code: "23505"})
		mockDB.ExpectRollback()

		stored, err := repo.InsertBatch(context.Background(), []*domain.Contact{first, second})

		require.Error(t, err)
		assert.Nil(t, stored)
		assert.NoError(t, mockDB.ExpectationsWereMet())
	})

	t.Run("begin failure", func(t *testing.T) {
		repo, mockDB := createTestContactRepository(t)
		mockDB.ExpectBegin().WillReturnError(errors.New("connection refused"))

		_, err := repo.InsertBatch(context.Background(), []*domain.Contact{testContact("Andi", time.Time{})})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to begin transaction")
		assert.NoError(t, mockDB.ExpectationsWereMet())
	})
}

func TestContactRepository_FindAll(t *testing.T) {
	repo, mockDB := createTestContactRepository(t)
	base := time.Date(2025, 8, 15, 12, 0, 0, 0, time.UTC)
	first, second := testContact("Andi", base), testContact("Siti", base.Add(time.Second))

	mockDB.ExpectQuery(regexp.QuoteMeta(selectContactsSQL)).WillReturnRows(contactRows(first, second))

	contacts, err := repo.FindAll(context.Background())

	require.NoError(t, err)
	require.Len(t, contacts, 2)
	assert.Equal(t, first.ID, contacts[0].ID)
	assert.Equal(t, "Siti", contacts[1].Name)
	assert.NoError(t, mockDB.ExpectationsWereMet())
}

func TestContactRepository_Count(t *testing.T) {
	repo, mockDB := createTestContactRepository(t)
	mockDB.ExpectQuery(regexp.QuoteMeta(countContactsSQL)).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(42)))

	count, err := repo.Count(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(42), count)
	assert.NoError(t, mockDB.ExpectationsWereMet())
}

func TestContactRepository_FindByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		repo, mockDB := createTestContactRepository(t)
		contact := testContact("Andi", time.Now().UTC())
		mockDB.ExpectQuery(regexp.QuoteMeta(selectContactSQL)).
			WithArgs(contact.ID).
			WillReturnRows(contactRows(contact))

		got, err := repo.FindByID(context.Background(), contact.ID)

		require.NoError(t, err)
		assert.Equal(t, contact.Email, got.Email)
		assert.NoError(t, mockDB.ExpectationsWereMet())
	})

	t.Run("missing row keeps pgx.ErrNoRows", func(t *testing.T) {
		repo, mockDB := createTestContactRepository(t)
		id := uuid.New()
		mockDB.ExpectQuery(regexp.QuoteMeta(selectContactSQL)).
			WithArgs(id).
			WillReturnError(pgx.ErrNoRows)

		got, err := repo.FindByID(context.Background(), id)

		assert.Nil(t, got)
		assert.True(t, errors.Is(err, pgx.ErrNoRows))
		assert.NoError(t, mockDB.ExpectationsWereMet())
	})
}

func TestContactRepository_Update(t *testing.T) {
	repo, mockDB := createTestContactRepository(t)
	contact := testContact("Andi Wijaya", time.Now().UTC())
	name := "Andi Wijaya"
	req := &domain.UpdateContactRequest{Name: &name}

	mockDB.ExpectQuery(regexp.QuoteMeta(updateContactSQL)).
		WithArgs(contact.ID, &name, (*string)(nil), (*string)(nil)).
		WillReturnRows(contactRows(contact))

	got, err := repo.Update(context.Background(), contact.ID, req)

	require.NoError(t, err)
	assert.Equal(t, "Andi Wijaya", got.Name)
	assert.NoError(t, mockDB.ExpectationsWereMet())
}

func TestContactRepository_Delete(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		want     bool
	}{
		{name: "row removed", affected: 1, want: true},
		{name: "nothing removed", affected: 0, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mockDB := createTestContactRepository(t)
			id := uuid.New()
			mockDB.ExpectExec(regexp.QuoteMeta(deleteContactSQL)).
				WithArgs(id).
				WillReturnResult(pgxmock.NewResult("DELETE", tt.affected))

			removed, err := repo.Delete(context.Background(), id)

			require.NoError(t, err)
			assert.Equal(t, tt.want, removed)
			assert.NoError(t, mockDB.ExpectationsWereMet())
		})
	}
}

func TestContactRepository_FetchRange(t *testing.T) {
	base := time.Date(2025, 8, 15, 12, 0, 0, 0, time.UTC)
	bound := domain.Cursor{CreatedAt: base, ID: uuid.MustParse("00000000-0000-4000-8000-000000000003")}

	tests := []struct {
		name      string
		cr        domain.ContactRange
		wantQuery string
		wantArgs  []any
	}{
		{
			name:      "first page ascending",
			cr:        domain.ContactRange{Direction: domain.ScanAscending, Limit: 6},
			wantQuery: "SELECT id, name, phone, email, created_at, updated_at FROM contacts ORDER BY created_at ASC, id ASC LIMIT $1",
			wantArgs:  []any{6},
		},
		{
			name:      "after bound ascending",
			cr:        domain.ContactRange{After: &bound, Direction: domain.ScanAscending, Limit: 6},
			wantQuery: "SELECT id, name, phone, email, created_at, updated_at FROM contacts WHERE (created_at, id) > ($1, $2) ORDER BY created_at ASC, id ASC LIMIT $3",
			wantArgs:  []any{bound.CreatedAt, bound.ID, 6},
		},
		{
			name:      "before bound descending",
			cr:        domain.ContactRange{After: &bound, Direction: domain.ScanDescending, Limit: 3},
			wantQuery: "SELECT id, name, phone, email, created_at, updated_at FROM contacts WHERE (created_at, id) < ($1, $2) ORDER BY created_at DESC, id DESC LIMIT $3",
			wantArgs:  []any{bound.CreatedAt, bound.ID, 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mockDB := createTestContactRepository(t)
			row := testContact("Andi", base.Add(time.Second))
			mockDB.ExpectQuery("^" + regexp.QuoteMeta(tt.wantQuery) + "$").
				WithArgs(tt.wantArgs...).
				WillReturnRows(contactRows(row))

			contacts, err := repo.FetchRange(context.Background(), tt.cr)

			require.NoError(t, err)
			require.Len(t, contacts, 1)
			assert.Equal(t, row.ID, contacts[0].ID)
			assert.NoError(t, mockDB.ExpectationsWereMet())
		})
	}

	t.Run("store error is wrapped", func(t *testing.T) {
		repo, mockDB := createTestContactRepository(t)
		storeErr := errors.New("connection reset")
		mockDB.ExpectQuery(regexp.QuoteMeta(fmt.Sprintf(rangeFirstPageSQL, "ASC"))).
			WithArgs(11).
			WillReturnError(storeErr)

		contacts, err := repo.FetchRange(context.Background(), domain.ContactRange{Limit: 11})

		assert.Nil(t, contacts)
		assert.True(t, errors.Is(err, storeErr))
		assert.NoError(t, mockDB.ExpectationsWereMet())
	})

	t.Run("empty range", func(t *testing.T) {
		repo, mockDB := createTestContactRepository(t)
		mockDB.ExpectQuery(regexp.QuoteMeta(fmt.Sprintf(rangeFirstPageSQL, "ASC"))).
			WithArgs(11).
			WillReturnRows(pgxmock.NewRows(contactRowColumns))

		contacts, err := repo.FetchRange(context.Background(), domain.ContactRange{Limit: 11})

		require.NoError(t, err)
		assert.Empty(t, contacts)
		assert.NotNil(t, contacts)
		assert.NoError(t, mockDB.ExpectationsWereMet())
	})
}
