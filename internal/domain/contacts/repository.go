package contacts

import "context"

type Repository interface {
	Create(ctx context.Context, c Contact) error
	GetByID(ctx context.Context, id string) (Contact, error)
	ListByOwner(ctx context.Context, ownerUserID string) ([]Contact, error)
	ListWithEmailByOwner(ctx context.Context, ownerUserID string) ([]Contact, error)
	Delete(ctx context.Context, id string) error
}
