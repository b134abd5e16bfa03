package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/kadichii/kadichii/internal/domain"
)

type GetMeInput struct{}

type GetMeOutput struct {
	Body *domain.User
}

type UpdateProfileInput struct {
	Body struct {
		DisplayName string `json:"display_name,omitempty" maxLength:"255" doc:"Display name"`
		Avatar      string `json:"avatar,omitempty" maxLength:"2048" doc:"Avatar image URL or glyph"`
	}
}

type UpdateProfileOutput struct {
	Body *domain.User
}

func RegisterUserRoutes(api huma.API, store DataStore) {
	huma.Register(api, huma.Operation{
		OperationID: "get-me",
		Method:      http.MethodGet,
		Path:        "/me",
		Summary:     "Get the current user's profile",
		Tags:        []string{"Users"},
	}, func(ctx context.Context, _ *GetMeInput) (*GetMeOutput, error) {
		userID, _, err := currentUser(ctx)
		if err != nil {
			return nil, err
		}

		user, err := store.Users().GetByID(ctx, userID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("user not found")
			}
			return nil, huma.Error500InternalServerError("failed to get user", err)
		}

		user.PasswordHash = ""
		return &GetMeOutput{Body: user}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-profile",
		Method:      http.MethodPut,
		Path:        "/me",
		Summary:     "Update the current user's profile",
		Tags:        []string{"Users"},
	}, func(ctx context.Context, input *UpdateProfileInput) (*UpdateProfileOutput, error) {
		userID, _, err := currentUser(ctx)
		if err != nil {
			return nil, err
		}

		user, err := store.Users().GetByID(ctx, userID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("user not found")
			}
			return nil, huma.Error500InternalServerError("failed to get user", err)
		}

		if input.Body.DisplayName != "" {
			user.DisplayName = input.Body.DisplayName
		}
		if input.Body.Avatar != "" {
			user.Avatar = domain.ParseAvatar(input.Body.Avatar)
		}

		err = store.Users().Update(ctx, user)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to update user", err)
		}

		user.PasswordHash = ""
		return &UpdateProfileOutput{Body: user}, nil
	})
}
