package v1

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/kadichii/kadichii/internal/domain"
)

type InviteMemberInput struct {
	ProjectID uuid.UUID `path:"projectID" doc:"Project ID"`
	Body      struct {
		Email string `json:"email" minLength:"3" maxLength:"255" doc:"Invitee email"`
	}
}

type InviteMemberOutput struct {
	Body *domain.Invitation
}

type ListInvitationsInput struct{}

type ListInvitationsOutput struct {
	Body []*domain.Invitation
}

type AcceptInvitationInput struct {
	ID uuid.UUID `path:"id" doc:"Invitation ID"`
}

type DeclineInvitationInput struct {
	ID uuid.UUID `path:"id" doc:"Invitation ID"`
}

func RegisterInvitationRoutes(api huma.API, store DataStore) {
	huma.Register(api, huma.Operation{
		OperationID: "invite-member",
		Method:      http.MethodPost,
		Path:        "/projects/{projectID}/invitations",
		Summary:     "Invite a user to a project by email",
		Tags:        []string{"Invitations"},
	}, func(ctx context.Context, input *InviteMemberInput) (*InviteMemberOutput, error) {
		_, inviterEmail, err := currentUser(ctx)
		if err != nil {
			return nil, err
		}
		if _, err := requireMember(ctx, store, input.ProjectID); err != nil {
			return nil, err
		}

		email := strings.ToLower(strings.TrimSpace(input.Body.Email))
		if email == "" {
			return nil, huma.Error400BadRequest("email is required")
		}

		if _, err := store.Members().GetByEmail(ctx, input.ProjectID, email); err == nil {
			return nil, huma.Error409Conflict("user is already a member")
		} else if !errors.Is(err, domain.ErrNotFound) {
			return nil, huma.Error500InternalServerError("failed to check membership", err)
		}

		if _, err := store.Invitations().FindPending(ctx, input.ProjectID, email); err == nil {
			return nil, huma.Error409Conflict("an invitation is already pending for this email")
		} else if !errors.Is(err, domain.ErrNotFound) {
			return nil, huma.Error500InternalServerError("failed to check invitations", err)
		}

		project, err := store.Projects().GetByID(ctx, input.ProjectID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("project not found")
			}
			return nil, huma.Error500InternalServerError("failed to get project", err)
		}

		inv := &domain.Invitation{
			ID:          uuid.New(),
			Email:       email,
			ProjectID:   input.ProjectID,
			ProjectName: project.Name,
			InvitedBy:   inviterEmail,
			Status:      domain.InvitationPending,
			CreatedAt:   time.Now(),
		}
		if err := store.Invitations().Create(ctx, inv); err != nil {
			return nil, huma.Error500InternalServerError("failed to create invitation", err)
		}

		return &InviteMemberOutput{Body: inv}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-invitations",
		Method:      http.MethodGet,
		Path:        "/invitations",
		Summary:     "List pending invitations for the current user",
		Tags:        []string{"Invitations"},
	}, func(ctx context.Context, _ *ListInvitationsInput) (*ListInvitationsOutput, error) {
		_, email, err := currentUser(ctx)
		if err != nil {
			return nil, err
		}

		invitations, err := store.Invitations().ListPendingByEmail(ctx, email)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list invitations", err)
		}
		if invitations == nil {
			invitations = []*domain.Invitation{}
		}

		return &ListInvitationsOutput{Body: invitations}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "accept-invitation",
		Method:      http.MethodPost,
		Path:        "/invitations/{id}/accept",
		Summary:     "Accept an invitation and join the project",
		Tags:        []string{"Invitations"},
	}, func(ctx context.Context, input *AcceptInvitationInput) (*struct{}, error) {
		userID, email, err := currentUser(ctx)
		if err != nil {
			return nil, err
		}

		inv, err := store.Invitations().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("invitation not found")
			}
			return nil, huma.Error500InternalServerError("failed to get invitation", err)
		}
		if inv.Email != email {
			return nil, huma.Error403Forbidden("invitation was issued to a different email")
		}

		if err := store.Invitations().Accept(ctx, input.ID, userID, email); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error409Conflict("invitation is no longer pending")
			}
			return nil, huma.Error500InternalServerError("failed to accept invitation", err)
		}

		return nil, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "decline-invitation",
		Method:      http.MethodPost,
		Path:        "/invitations/{id}/decline",
		Summary:     "Decline an invitation",
		Tags:        []string{"Invitations"},
	}, func(ctx context.Context, input *DeclineInvitationInput) (*struct{}, error) {
		_, email, err := currentUser(ctx)
		if err != nil {
			return nil, err
		}

		inv, err := store.Invitations().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("invitation not found")
			}
			return nil, huma.Error500InternalServerError("failed to get invitation", err)
		}
		if inv.Email != email {
			return nil, huma.Error403Forbidden("invitation was issued to a different email")
		}

		if err := store.Invitations().Delete(ctx, input.ID); err != nil {
			return nil, huma.Error500InternalServerError("failed to decline invitation", err)
		}

		return nil, nil
	})
}
