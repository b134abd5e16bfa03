package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/kadichii/kadichii/internal/domain"
	"github.com/kadichii/kadichii/internal/store/redis"
)

type SendMessageInput struct {
	ProjectID uuid.UUID `path:"projectID" doc:"Project ID"`
	Body      struct {
		Text string `json:"text" minLength:"1" maxLength:"4000" doc:"Message text"`
	}
}

type SendMessageOutput struct {
	Body *domain.ChatMessage
}

type ListMessagesInput struct {
	ProjectID uuid.UUID `path:"projectID" doc:"Project ID"`
}

type ListMessagesOutput struct {
	Body []*domain.ChatMessage
}

func RegisterChatRoutes(api huma.API, store DataStore, pub EventPublisher) {
	huma.Register(api, huma.Operation{
		OperationID: "send-message",
		Method:      http.MethodPost,
		Path:        "/projects/{projectID}/chat",
		Summary:     "Send a chat message to the project channel",
		Tags:        []string{"Chat"},
	}, func(ctx context.Context, input *SendMessageInput) (*SendMessageOutput, error) {
		userID, _, err := currentUser(ctx)
		if err != nil {
			return nil, err
		}
		if _, err := requireMember(ctx, store, input.ProjectID); err != nil {
			return nil, err
		}

		sender, err := store.Users().GetByID(ctx, userID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("user not found")
			}
			return nil, huma.Error500InternalServerError("failed to get user", err)
		}

		msg, err := domain.NewChatMessage(input.ProjectID, sender, input.Body.Text)
		if err != nil {
			return nil, huma.Error400BadRequest(err.Error())
		}

		if appendErr := store.Chat().Append(ctx, msg); appendErr != nil {
			return nil, huma.Error500InternalServerError("failed to send message", appendErr)
		}

		notifyChanged(ctx, pub, redis.ChatChannel(input.ProjectID))
		return &SendMessageOutput{Body: msg}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-messages",
		Method:      http.MethodGet,
		Path:        "/projects/{projectID}/chat",
		Summary:     "List a project's chat history in send order",
		Tags:        []string{"Chat"},
	}, func(ctx context.Context, input *ListMessagesInput) (*ListMessagesOutput, error) {
		if _, err := requireMember(ctx, store, input.ProjectID); err != nil {
			return nil, err
		}

		messages, err := store.Chat().ListByProject(ctx, input.ProjectID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list messages", err)
		}
		if messages == nil {
			messages = []*domain.ChatMessage{}
		}

		return &ListMessagesOutput{Body: messages}, nil
	})
}
