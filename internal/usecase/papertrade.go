package usecase

import (
	"context"
	"fmt"

	"AstroView/internal/domain/models"
	"AstroView/internal/service/botapi"
	"AstroView/internal/service/poller"
	"AstroView/pkg/logger"
)

// PaperTradeUsecase opens and closes manual simulated trades. Directional
// level checks run locally so an inverted stop or target never reaches the
// backend; after a successful mutation the affected poll slots are
// refreshed instead of waiting out the interval.
type PaperTradeUsecase struct {
	client *botapi.Client
	polls  *poller.Store
	logger *logger.Logger
}

// NewPaperTradeUsecase creates the paper trade use case.
func NewPaperTradeUsecase(client *botapi.Client, polls *poller.Store, l *logger.Logger) *PaperTradeUsecase {
	return &PaperTradeUsecase{client: client, polls: polls, logger: l}
}

// ValidatePaperTrade checks the directional sanity of the levels. For a
// BUY the stop must sit below entry and the target above; a SELL is the
// mirror image.
func ValidatePaperTrade(req *models.PaperTradeRequest) error {
	switch req.Side {
	case "BUY":
		if req.SL >= req.Entry {
			return fmt.Errorf("SL must be below entry for BUY")
		}
		if req.TP <= req.Entry {
			return fmt.Errorf("TP must be above entry for BUY")
		}
	case "SELL":
		if req.SL <= req.Entry {
			return fmt.Errorf("SL must be above entry for SELL")
		}
		if req.TP >= req.Entry {
			return fmt.Errorf("TP must be below entry for SELL")
		}
	default:
		return fmt.Errorf("side must be BUY or SELL")
	}
	return nil
}

// RiskPreview returns the notional at risk and at reward for the request,
// shown before submission.
func RiskPreview(req *models.PaperTradeRequest) (risk, reward float64) {
	return RiskAmount(req.Entry, req.SL, req.Notional),
		RewardAmount(req.Entry, req.TP, req.Notional)
}

// Open validates and submits a manual paper trade, then refreshes the
// user's position and equity slots.
func (u *PaperTradeUsecase) Open(ctx context.Context, req *models.PaperTradeRequest) error {
	if err := ValidatePaperTrade(req); err != nil {
		return err
	}
	if err := u.client.OpenPaperTrade(ctx, req); err != nil {
		return err
	}
	u.logger.Info("paper trade opened",
		logger.String("user", req.UserID),
		logger.String("side", req.Side),
		logger.Float64("entry", req.Entry),
		logger.Float64("notional", req.Notional))
	u.refreshUser(req.UserID)
	return nil
}

// Close closes the paper position at index in the user's open list.
func (u *PaperTradeUsecase) Close(ctx context.Context, userID string, index int) error {
	if index < 0 {
		return fmt.Errorf("position index must not be negative")
	}
	if err := u.client.ClosePaperTrade(ctx, userID, index); err != nil {
		return err
	}
	u.logger.Info("paper trade closed",
		logger.String("user", userID),
		logger.Int("index", index))
	u.refreshUser(userID)
	return nil
}

func (u *PaperTradeUsecase) refreshUser(userID string) {
	u.polls.Refresh(KeyPositions(userID))
	u.polls.Refresh(KeyEquity(userID))
	u.polls.Refresh(KeyStats(userID))
}
