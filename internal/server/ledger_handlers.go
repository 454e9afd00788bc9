package server

import (
	"inkwell/internal/models"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// DebitCredits handles POST /api/users/me/credits/debit. Each call charges
// one AI generation against the caller's credit balance.
// @Summary Debit AI credits
// @Tags ledger
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{rewards=int,total_ai_credits=int}
// @Failure 400 {object} object{error=string}
// @Router /users/me/credits/debit [post]
func (s *Server) DebitCredits(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	user, err := s.ledgerService.DebitCredits(c.Context(), userID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(fiber.Map{
		"rewards":          user.Rewards,
		"total_ai_credits": user.TotalAiCredits,
	})
}

// AccrueReward handles POST /api/users/me/rewards with body {"type": "blog"|"like"|"comment"}.
// @Summary Accrue reward points
// @Tags ledger
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{type=string} true "Reward type"
// @Success 200 {object} object{rewards=int,total_ai_credits=int}
// @Failure 400 {object} object{error=string}
// @Router /users/me/rewards [post]
func (s *Server) AccrueReward(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req struct {
		Type string `json:"type"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.ledgerService.AccrueReward(c.Context(), userID, service.RewardAction(req.Type))
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(fiber.Map{
		"rewards":          user.Rewards,
		"total_ai_credits": user.TotalAiCredits,
	})
}

// RedeemRewards handles POST /api/users/me/rewards/redeem, converting 100
// reward points into 100 AI credits.
// @Summary Redeem reward points for AI credits
// @Tags ledger
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{rewards=int,total_ai_credits=int}
// @Failure 400 {object} object{error=string}
// @Router /users/me/rewards/redeem [post]
func (s *Server) RedeemRewards(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	user, err := s.ledgerService.RedeemRewards(c.Context(), userID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(fiber.Map{
		"rewards":          user.Rewards,
		"total_ai_credits": user.TotalAiCredits,
	})
}
