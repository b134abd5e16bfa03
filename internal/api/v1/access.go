package v1

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/kadichii/kadichii/internal/domain"
	"github.com/kadichii/kadichii/internal/server/middleware"
)

// currentUser pulls the authenticated user's id and email out of the request
// context.
func currentUser(ctx context.Context) (uuid.UUID, string, error) {
	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		return uuid.Nil, "", huma.Error401Unauthorized("missing user context")
	}
	email, ok := middleware.UserEmailFromContext(ctx)
	if !ok {
		return uuid.Nil, "", huma.Error401Unauthorized("missing user context")
	}
	return userID, email, nil
}

// requireMember verifies that the authenticated user belongs to the project.
// Non-members get 403 without learning whether the project exists.
func requireMember(ctx context.Context, store DataStore, projectID uuid.UUID) (*domain.Member, error) {
	_, email, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}

	member, err := store.Members().GetByEmail(ctx, projectID, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, huma.Error403Forbidden("not a member of this project")
		}
		return nil, huma.Error500InternalServerError("failed to check membership", err)
	}

	return member, nil
}
