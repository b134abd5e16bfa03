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

type ListMembersInput struct {
	ProjectID uuid.UUID `path:"projectID" doc:"Project ID"`
}

type ListMembersOutput struct {
	Body []*domain.MemberProfile
}

type AddMemberInput struct {
	ProjectID uuid.UUID `path:"projectID" doc:"Project ID"`
	Body      struct {
		Email string `json:"email" format:"email" doc:"Email of an existing account to add"`
	}
}

type AddMemberOutput struct {
	Body *domain.MemberProfile
}

type RemoveMemberInput struct {
	ProjectID uuid.UUID `path:"projectID" doc:"Project ID"`
	UserID    uuid.UUID `path:"userID" doc:"Member's user ID"`
}

func RegisterMemberRoutes(api huma.API, store DataStore) {
	huma.Register(api, huma.Operation{
		OperationID: "list-members",
		Method:      http.MethodGet,
		Path:        "/projects/{projectID}/members",
		Summary:     "List project members with their profiles",
		Tags:        []string{"Members"},
	}, func(ctx context.Context, input *ListMembersInput) (*ListMembersOutput, error) {
		if _, err := requireMember(ctx, store, input.ProjectID); err != nil {
			return nil, err
		}

		members, err := store.Members().ListByProject(ctx, input.ProjectID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list members", err)
		}

		ids := make([]uuid.UUID, 0, len(members))
		for _, m := range members {
			ids = append(ids, m.UserID)
		}
		users, err := store.Users().ListByIDs(ctx, ids)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to load member profiles", err)
		}
		byID := make(map[uuid.UUID]*domain.User, len(users))
		for _, u := range users {
			byID[u.ID] = u
		}

		profiles := make([]*domain.MemberProfile, 0, len(members))
		for _, m := range members {
			p := &domain.MemberProfile{
				UserID: m.UserID,
				Email:  m.Email,
				Role:   m.Role,
			}
			// Deleted accounts keep their membership row until removed;
			// show them by email only.
			if u, ok := byID[m.UserID]; ok {
				p.Name = u.DisplayName
				p.Avatar = u.Avatar
			}
			profiles = append(profiles, p)
		}

		return &ListMembersOutput{Body: profiles}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "add-member",
		Method:      http.MethodPost,
		Path:        "/projects/{projectID}/members",
		Summary:     "Add an existing user to a project directly by email",
		Tags:        []string{"Members"},
	}, func(ctx context.Context, input *AddMemberInput) (*AddMemberOutput, error) {
		member, err := requireMember(ctx, store, input.ProjectID)
		if err != nil {
			return nil, err
		}
		if member.Role != domain.RoleOwner {
			return nil, huma.Error403Forbidden("only the owner can add members")
		}

		email := strings.ToLower(strings.TrimSpace(input.Body.Email))

		user, err := store.Users().GetByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("no account with that email; send an invitation instead")
			}
			return nil, huma.Error500InternalServerError("failed to look up user", err)
		}

		if _, err := store.Members().GetByEmail(ctx, input.ProjectID, email); err == nil {
			return nil, huma.Error409Conflict("user is already a member of this project")
		} else if !errors.Is(err, domain.ErrNotFound) {
			return nil, huma.Error500InternalServerError("failed to check membership", err)
		}

		m := &domain.Member{
			UserID:    user.ID,
			ProjectID: input.ProjectID,
			Email:     email,
			Role:      domain.RoleMember,
			JoinedAt:  time.Now(),
		}
		if err := store.Members().Add(ctx, m); err != nil {
			return nil, huma.Error500InternalServerError("failed to add member", err)
		}
		if err := store.Users().AddProject(ctx, user.ID, input.ProjectID); err != nil {
			return nil, huma.Error500InternalServerError("failed to update member profile", err)
		}

		return &AddMemberOutput{Body: &domain.MemberProfile{
			UserID: user.ID,
			Email:  email,
			Role:   domain.RoleMember,
			Name:   user.DisplayName,
			Avatar: user.Avatar,
		}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "remove-member",
		Method:      http.MethodDelete,
		Path:        "/projects/{projectID}/members/{userID}",
		Summary:     "Remove a member from a project",
		Tags:        []string{"Members"},
	}, func(ctx context.Context, input *RemoveMemberInput) (*struct{}, error) {
		userID, _, err := currentUser(ctx)
		if err != nil {
			return nil, err
		}

		member, err := requireMember(ctx, store, input.ProjectID)
		if err != nil {
			return nil, err
		}

		// Owners can remove anyone but themselves; everyone can leave.
		if input.UserID == userID {
			if member.Role == domain.RoleOwner {
				return nil, huma.Error409Conflict("the owner cannot leave the project; delete it instead")
			}
		} else if member.Role != domain.RoleOwner {
			return nil, huma.Error403Forbidden("only the owner can remove other members")
		}

		if err := store.Members().Remove(ctx, input.ProjectID, input.UserID); err != nil {
			return nil, huma.Error500InternalServerError("failed to remove member", err)
		}
		if err := store.Users().RemoveProject(ctx, input.UserID, input.ProjectID); err != nil {
			return nil, huma.Error500InternalServerError("failed to update member profile", err)
		}

		return nil, nil
	})
}
