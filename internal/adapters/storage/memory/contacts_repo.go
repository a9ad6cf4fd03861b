package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"medication-reminder/internal/domain/contacts"
)

type contactsRepo struct {
	mu   sync.RWMutex
	byID map[string]contacts.Contact
}

func NewContactsRepo() contacts.Repository {
	return &contactsRepo{
		byID: make(map[string]contacts.Contact),
	}
}

func (r *contactsRepo) Create(ctx context.Context, c contacts.Contact) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(c.ID) == "" {
		return errors.New("contact id required")
	}
	if _, exists := r.byID[c.ID]; exists {
		return errors.New("contact already exists")
	}
	r.byID[c.ID] = c
	return nil
}

func (r *contactsRepo) GetByID(ctx context.Context, id string) (contacts.Contact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.byID[id]
	if !ok {
		return contacts.Contact{}, ErrNotFound
	}
	return c, nil
}

func (r *contactsRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]contacts.Contact, error) {
	return r.list(ownerUserID, false)
}

func (r *contactsRepo) ListWithEmailByOwner(ctx context.Context, ownerUserID string) ([]contacts.Contact, error) {
	return r.list(ownerUserID, true)
}

func (r *contactsRepo) list(ownerUserID string, onlyWithEmail bool) ([]contacts.Contact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]contacts.Contact, 0)
	for _, c := range r.byID {
		if c.OwnerUserID != ownerUserID {
			continue
		}
		if onlyWithEmail && strings.TrimSpace(c.Email) == "" {
			continue
		}
		out = append(out, c)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	return out, nil
}

func (r *contactsRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}
