package idp

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/workos/workos-go/v4/pkg/usermanagement"
)

// WorkOS provisions accounts through the WorkOS user management API. When an
// organization id is configured the new user is added to it with the role
// slug, which WorkOS then includes in the session token.
type WorkOS struct {
	client         *usermanagement.Client
	organizationID string
	logger         zerolog.Logger
}

func NewWorkOS(apiKey, organizationID string, logger zerolog.Logger) *WorkOS {
	return &WorkOS{
		client:         usermanagement.NewClient(apiKey),
		organizationID: organizationID,
		logger:         logger.With().Str("component", "workos").Logger(),
	}
}

func (w *WorkOS) CreateUser(ctx context.Context, acct Account) (string, error) {
	user, err := w.client.CreateUser(ctx, usermanagement.CreateUserOpts{
		Email:         acct.Email,
		Password:      acct.Password,
		FirstName:     acct.FirstName,
		LastName:      acct.LastName,
		EmailVerified: true,
	})
	if err != nil {
		return "", fmt.Errorf("workos create user: %w", err)
	}

	if w.organizationID != "" && acct.Role != "" {
		_, err := w.client.CreateOrganizationMembership(ctx, usermanagement.CreateOrganizationMembershipOpts{
			UserID:         user.ID,
			OrganizationID: w.organizationID,
			RoleSlug:       acct.Role,
		})
		if err != nil {
			// The account exists but carries no role; remove it so the caller
			// sees a clean failure.
			if delErr := w.DeleteUser(ctx, user.ID); delErr != nil {
				w.logger.Error().Err(delErr).Str("user_id", user.ID).Msg("failed to remove user after membership error")
			}
			return "", fmt.Errorf("workos assign role %q: %w", acct.Role, err)
		}
	}

	w.logger.Info().Str("user_id", user.ID).Str("role", acct.Role).Msg("identity account created")
	return user.ID, nil
}

func (w *WorkOS) DeleteUser(ctx context.Context, userID string) error {
	if err := w.client.DeleteUser(ctx, usermanagement.DeleteUserOpts{User: userID}); err != nil {
		return fmt.Errorf("workos delete user %s: %w", userID, err)
	}
	w.logger.Info().Str("user_id", userID).Msg("identity account deleted")
	return nil
}
