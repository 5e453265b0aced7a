package usecase

import (
	"context"
	"fmt"
	"regexp"

	"AstroView/internal/domain/models"
	"AstroView/internal/service/botapi"
	"AstroView/internal/service/poller"
	"AstroView/pkg/logger"
)

// User IDs become poll-key segments and backend path segments, so the
// charset is locked down.
var userIDPattern = regexp.MustCompile(`^[a-z0-9\-]{2,32}$`)

// AdminUsecase manages the bot roster.
type AdminUsecase struct {
	client *botapi.Client
	polls  *poller.Store
	dash   *DashboardUsecase
	logger *logger.Logger
}

// NewAdminUsecase creates the admin use case.
func NewAdminUsecase(client *botapi.Client, polls *poller.Store, dash *DashboardUsecase, l *logger.Logger) *AdminUsecase {
	return &AdminUsecase{client: client, polls: polls, dash: dash, logger: l}
}

// ValidateUserID checks the roster ID charset.
func ValidateUserID(id string) error {
	if !userIDPattern.MatchString(id) {
		return fmt.Errorf("user id must match [a-z0-9-]{2,32}")
	}
	return nil
}

// Register adds a bot instance and refreshes the roster slot. Returns the
// backend's provisioning log.
func (u *AdminUsecase) Register(ctx context.Context, req *models.RegisterUserRequest) (string, error) {
	if err := ValidateUserID(req.Username); err != nil {
		return "", err
	}
	provisionLog, err := u.client.RegisterUser(ctx, req)
	if err != nil {
		return "", err
	}
	u.logger.Info("user registered", logger.String("user", req.Username))
	u.polls.Refresh(KeyUsers())
	return provisionLog, nil
}

// Remove drops a bot instance, tears down its poll scope and refreshes the
// roster slot.
func (u *AdminUsecase) Remove(ctx context.Context, userID string) error {
	if err := ValidateUserID(userID); err != nil {
		return err
	}
	if err := u.client.RemoveUser(ctx, userID); err != nil {
		return err
	}
	u.dash.ReleaseUser(userID)
	u.logger.Info("user removed", logger.String("user", userID))
	u.polls.Refresh(KeyUsers())
	return nil
}
