// Package service implements the business logic layer of the application.
package service

import (
	"context"

	"inkwell/internal/models"
	"inkwell/internal/observability"
	"inkwell/internal/repository"
)

// RewardAction names an activity that accrues reward points.
type RewardAction string

const (
	RewardActionBlog    RewardAction = "blog"
	RewardActionLike    RewardAction = "like"
	RewardActionComment RewardAction = "comment"
)

// Reward and credit tariff. Redeeming converts RedeemRewardCost points into
// RedeemCredits AI credits.
const (
	RewardForBlog    = 10
	RewardForLike    = 1
	RewardForComment = 5

	DebitCost        = 20
	RedeemRewardCost = 100
	RedeemCredits    = 100
)

var rewardTariff = map[RewardAction]int{
	RewardActionBlog:    RewardForBlog,
	RewardActionLike:    RewardForLike,
	RewardActionComment: RewardForComment,
}

// LedgerService manages the per-user reward and AI-credit balances.
type LedgerService struct {
	userRepo repository.UserRepository
}

// NewLedgerService returns a new LedgerService.
func NewLedgerService(userRepo repository.UserRepository) *LedgerService {
	return &LedgerService{userRepo: userRepo}
}

// DebitCredits charges one AI generation against the user's credit balance
// and returns the updated user. An insufficient balance rejects the debit
// rather than letting the balance go negative.
func (s *LedgerService) DebitCredits(ctx context.Context, userID uint) (*models.User, error) {
	if err := s.userRepo.DebitCredits(ctx, userID, DebitCost); err != nil {
		return nil, err
	}
	observability.CreditsDebited.Add(float64(DebitCost))
	return s.userRepo.GetByID(ctx, userID)
}

// AccrueReward grants the tariff amount for the action to the user.
func (s *LedgerService) AccrueReward(ctx context.Context, userID uint, action RewardAction) (*models.User, error) {
	delta, ok := rewardTariff[action]
	if !ok {
		return nil, models.NewInvalidRewardTypeError()
	}
	if err := s.userRepo.AccrueReward(ctx, userID, delta); err != nil {
		return nil, err
	}
	observability.RewardsAccrued.WithLabelValues(string(action)).Add(float64(delta))
	return s.userRepo.GetByID(ctx, userID)
}

// RedeemRewards converts accumulated reward points into AI credits and
// returns the updated user.
func (s *LedgerService) RedeemRewards(ctx context.Context, userID uint) (*models.User, error) {
	if err := s.userRepo.RedeemRewards(ctx, userID, RedeemRewardCost, RedeemCredits); err != nil {
		return nil, err
	}
	return s.userRepo.GetByID(ctx, userID)
}
