package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/faculty-attendance/internal/domain/identity"
)

type IdentityServiceImpl struct {
	identity.IdentityRepository
}

func NewIdentityService(repo identity.IdentityRepository) identity.IdentityService {
	return &IdentityServiceImpl{IdentityRepository: repo}
}

// Resolve implements identity.IdentityService.
func (s *IdentityServiceImpl) Resolve(ctx context.Context, candidates []string) (string, error) {
	for _, candidate := range candidates {
		if identity.NormalizeAlias(candidate) == "" {
			continue
		}
		userID, err := s.IdentityRepository.Lookup(ctx, candidate)
		if errors.Is(err, identity.ErrUnknownIdentity) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("failed to look up identity %q: %w", candidate, err)
		}
		return userID, nil
	}
	return "", identity.ErrUnknownIdentity
}

// Register implements identity.IdentityService.
func (s *IdentityServiceImpl) Register(ctx context.Context, req identity.RegisterRequest) (identity.RegisterResponse, error) {
	if err := req.Validate(); err != nil {
		return identity.RegisterResponse{}, err
	}

	aliases := []string{identity.NormalizeAlias(req.UserID)}
	seen := map[string]bool{aliases[0]: true}
	for _, alias := range req.Aliases {
		alias = identity.NormalizeAlias(alias)
		if !seen[alias] {
			seen[alias] = true
			aliases = append(aliases, alias)
		}
	}

	for _, alias := range aliases {
		existing, err := s.IdentityRepository.Lookup(ctx, alias)
		switch {
		case errors.Is(err, identity.ErrUnknownIdentity):
		case err != nil:
			return identity.RegisterResponse{}, fmt.Errorf("failed to look up identity %q: %w", alias, err)
		case existing != req.UserID:
			return identity.RegisterResponse{}, fmt.Errorf("%q: %w", alias, identity.ErrAliasTaken)
		}
	}

	for _, alias := range aliases {
		if err := s.IdentityRepository.Save(ctx, alias, req.UserID); err != nil {
			return identity.RegisterResponse{}, fmt.Errorf("failed to save identity %q: %w", alias, err)
		}
	}

	slog.Info("identity registered", "user_id", req.UserID, "aliases", len(aliases))
	return identity.RegisterResponse{UserID: req.UserID, Aliases: aliases}, nil
}
