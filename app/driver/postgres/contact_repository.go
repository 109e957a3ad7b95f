package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/cattyman919/contact/app/domain"
	"github.com/cattyman919/contact/app/port"
)

const contactColumns = "id, name, phone, email, created_at, updated_at"

const (
	insertContactSQL   = "INSERT INTO contacts (id, name, phone, email) VALUES ($1, $2, $3, $4) RETURNING created_at, updated_at"
	selectContactsSQL  = "SELECT " + contactColumns + " FROM contacts ORDER BY created_at ASC, id ASC"
	countContactsSQL   = "SELECT COUNT(*) FROM contacts"
	selectContactSQL   = "SELECT " + contactColumns + " FROM contacts WHERE id = $1"
	updateContactSQL   = "UPDATE contacts SET name = COALESCE($2, name), phone = COALESCE($3, phone), email = COALESCE($4, email), updated_at = now() WHERE id = $1 RETURNING " + contactColumns
	deleteContactSQL   = "DELETE FROM contacts WHERE id = $1"
	rangeFirstPageSQL  = "SELECT " + contactColumns + " FROM contacts ORDER BY created_at %[1]s, id %[1]s LIMIT $1"
	rangeAfterBoundSQL = "SELECT " + contactColumns + " FROM contacts WHERE (created_at, id) %[2]s ($1, $2) ORDER BY created_at %[1]s, id %[1]s LIMIT $3"
)

// ContactRepository implements port.ContactRepository for PostgreSQL
type ContactRepository struct {
	db     DatabaseIface
	logger *slog.Logger
}

// NewContactRepository creates a new PostgreSQL contact repository
func NewContactRepository(db DatabaseIface, logger *slog.Logger) port.ContactRepository {
	return &ContactRepository{
		db:     db,
		logger: logger.With("component", "contact_repository"),
	}
}

// Insert stores a contact; the store assigns its timestamps
func (r *ContactRepository) Insert(ctx context.Context, contact *domain.Contact) (*domain.Contact, error) {
	stored := *contact
	err := r.db.QueryRow(ctx, insertContactSQL,
		contact.ID, contact.Name, contact.Phone, contact.Email,
	).Scan(&stored.CreatedAt, &stored.UpdatedAt)
	if err != nil {
		r.logger.ErrorContext(ctx, "failed to insert contact", "contact_id", contact.ID, "error", err)
		return nil, fmt.Errorf("failed to insert contact: %w", err)
	}

	r.logger.DebugContext(ctx, "contact inserted", "contact_id", stored.ID)
	return &stored, nil
}

// InsertBatch stores all contacts in one transaction, or none of them
func (r *ContactRepository) InsertBatch(ctx context.Context, contacts []*domain.Contact) ([]*domain.Contact, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	stored := make([]*domain.Contact, 0, len(contacts))
	for _, contact := range contacts {
		row := *contact
		err := tx.QueryRow(ctx, insertContactSQL,
			contact.ID, contact.Name, contact.Phone, contact.Email,
		).Scan(&row.CreatedAt, &row.UpdatedAt)
		if err != nil {
			r.rollback(ctx, tx)
			r.logger.ErrorContext(ctx, "failed to insert contact batch", "contact_id", contact.ID, "error", err)
			return nil, fmt.Errorf("failed to insert contact batch: %w", err)
		}
		stored = append(stored, &row)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit contact batch: %w", err)
	}

	r.logger.InfoContext(ctx, "contact batch inserted", "count", len(stored))
	return stored, nil
}

func (r *ContactRepository) rollback(ctx context.Context, tx pgx.Tx) {
	if err := tx.Rollback(ctx); err != nil {
		r.logger.WarnContext(ctx, "failed to roll back transaction", "error", err)
	}
}

// FindAll returns every contact in (created_at, id) order
func (r *ContactRepository) FindAll(ctx context.Context) ([]*domain.Contact, error) {
	rows, err := r.db.Query(ctx, selectContactsSQL)
	if err != nil {
		r.logger.ErrorContext(ctx, "failed to query contacts", "error", err)
		return nil, fmt.Errorf("failed to query contacts: %w", err)
	}
	return scanContacts(rows)
}

// Count returns the number of stored contacts
func (r *ContactRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, countContactsSQL).Scan(&count); err != nil {
		r.logger.ErrorContext(ctx, "failed to count contacts", "error", err)
		return 0, fmt.Errorf("failed to count contacts: %w", err)
	}
	return count, nil
}

// FindByID returns pgx.ErrNoRows (wrapped) when the contact does not exist
func (r *ContactRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Contact, error) {
	contact, err := scanContact(r.db.QueryRow(ctx, selectContactSQL, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get contact %s: %w", id, err)
	}
	return contact, nil
}

// Update applies the present fields of req and bumps updated_at
func (r *ContactRepository) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateContactRequest) (*domain.Contact, error) {
	contact, err := scanContact(r.db.QueryRow(ctx, updateContactSQL, id, req.Name, req.Phone, req.Email))
	if err != nil {
		return nil, fmt.Errorf("failed to update contact %s: %w", id, err)
	}

	r.logger.InfoContext(ctx, "contact updated", "contact_id", id)
	return contact, nil
}

// Delete reports whether a row was removed
func (r *ContactRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.db.Exec(ctx, deleteContactSQL, id)
	if err != nil {
		r.logger.ErrorContext(ctx, "failed to delete contact", "contact_id", id, "error", err)
		return false, fmt.Errorf("failed to delete contact %s: %w", id, err)
	}
	return tag.RowsAffected() > 0, nil
}

// FetchRange issues one bounded range read ordered by (created_at, id).
// The bound is exclusive: rows strictly after r.After in scan direction.
func (r *ContactRepository) FetchRange(ctx context.Context, cr domain.ContactRange) ([]*domain.Contact, error) {
	order, op := "ASC", ">"
	if cr.Direction == domain.ScanDescending {
		order, op = "DESC", "<"
	}

	var (
		query string
		args  []any
	)
	if cr.After == nil {
		query = fmt.Sprintf(rangeFirstPageSQL, order)
		args = []any{cr.Limit}
	} else {
		query = fmt.Sprintf(rangeAfterBoundSQL, order, op)
		args = []any{cr.After.CreatedAt, cr.After.ID, cr.Limit}
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.logger.ErrorContext(ctx, "failed to fetch contact range",
			"direction", cr.Direction.String(), "limit", cr.Limit, "error", err)
		return nil, fmt.Errorf("failed to fetch contact range: %w", err)
	}
	return scanContacts(rows)
}

func scanContact(row pgx.Row) (*domain.Contact, error) {
	var c domain.Contact
	if err := row.Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func scanContacts(rows pgx.Rows) ([]*domain.Contact, error) {
	defer rows.Close()

	contacts := make([]*domain.Contact, 0)
	for rows.Next() {
		contact, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		contacts = append(contacts, contact)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate contacts: %w", err)
	}
	return contacts, nil
}
