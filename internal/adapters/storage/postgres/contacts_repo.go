package postgres

import (
	"context"
	"database/sql"
	"strings"

	"medication-reminder/internal/domain/contacts"
)

type ContactsRepo struct {
	db *sql.DB
}

func NewContactsRepo(db *sql.DB) *ContactsRepo {
	return &ContactsRepo{db: db}
}

func (r *ContactsRepo) Create(ctx context.Context, c contacts.Contact) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO family_contacts (
			id, owner_user_id, name, relationship, email, phone, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7)
	`,
		c.ID,
		c.OwnerUserID,
		c.Name,
		c.Relationship,
		c.Email,
		c.Phone,
		c.CreatedAt,
	)
	return err
}

func (r *ContactsRepo) GetByID(ctx context.Context, id string) (contacts.Contact, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return contacts.Contact{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT id, owner_user_id, name, relationship, email, phone, created_at
		FROM family_contacts
		WHERE id = $1
	`, id)

	var c contacts.Contact
	if err := row.Scan(&c.ID, &c.OwnerUserID, &c.Name, &c.Relationship, &c.Email, &c.Phone, &c.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return contacts.Contact{}, ErrNotFound
		}
		return contacts.Contact{}, err
	}

	return c, nil
}

func (r *ContactsRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]contacts.Contact, error) {
	return r.list(ctx, ownerUserID, false)
}

func (r *ContactsRepo) ListWithEmailByOwner(ctx context.Context, ownerUserID string) ([]contacts.Contact, error) {
	return r.list(ctx, ownerUserID, true)
}

func (r *ContactsRepo) list(ctx context.Context, ownerUserID string, onlyWithEmail bool) ([]contacts.Contact, error) {
	ownerUserID = strings.TrimSpace(ownerUserID)
	if ownerUserID == "" {
		return nil, nil
	}

	q := `
		SELECT id, owner_user_id, name, relationship, email, phone, created_at
		FROM family_contacts
		WHERE owner_user_id = $1
	`
	if onlyWithEmail {
		q += ` AND email <> ''`
	}
	q += ` ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, q, ownerUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]contacts.Contact, 0)
	for rows.Next() {
		var c contacts.Contact
		if err := rows.Scan(&c.ID, &c.OwnerUserID, &c.Name, &c.Relationship, &c.Email, &c.Phone, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}

	return out, rows.Err()
}

func (r *ContactsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM family_contacts WHERE id = $1
	`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
