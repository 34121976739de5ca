package documentdb

import (
	"context"
	"errors"

	"github.com/cmlabs-hris/faculty-attendance/internal/domain/identity"
	"github.com/cmlabs-hris/faculty-attendance/internal/pkg/docstore"
)

type identityRepositoryImpl struct {
	store docstore.Store
}

func NewIdentityRepository(store docstore.Store) identity.IdentityRepository {
	return &identityRepositoryImpl{store: store}
}

func identityPath(alias string) string {
	return "identities/" + identity.NormalizeAlias(alias)
}

// Lookup implements identity.IdentityRepository.
func (r *identityRepositoryImpl) Lookup(ctx context.Context, alias string) (string, error) {
	var doc identity.Alias
	err := r.store.Get(ctx, identityPath(alias), &doc)
	if errors.Is(err, docstore.ErrNotFound) {
		return "", identity.ErrUnknownIdentity
	} else if err != nil {
		return "", err
	}
	if doc.UserID == "" {
		return "", identity.ErrUnknownIdentity
	}
	return doc.UserID, nil
}

// Save implements identity.IdentityRepository.
func (r *identityRepositoryImpl) Save(ctx context.Context, alias string, userID string) error {
	return r.store.Set(ctx, identityPath(alias), identity.Alias{UserID: userID})
}
