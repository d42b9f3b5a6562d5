package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/crm-service/internal/api/dto"
	"github.com/spec-kit/crm-service/internal/domain"
	"github.com/spec-kit/crm-service/internal/service"
	apperrors "github.com/spec-kit/crm-service/pkg/util"
)

// IntroductionsHandler manages sales lead endpoints.
type IntroductionsHandler struct {
	introductions *service.IntroductionService
	referrals     *service.ReferralService
}

// NewIntroductionsHandler constructs handler.
func NewIntroductionsHandler(introductions *service.IntroductionService, referrals *service.ReferralService) *IntroductionsHandler {
	return &IntroductionsHandler{introductions: introductions, referrals: referrals}
}

// CreateIntroduction POST /introductions.
func (h *IntroductionsHandler) CreateIntroduction(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.CreateIntroductionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	intro, err := h.introductions.CreateIntroduction(c.Context(), principal.User, service.IntroductionCreateInput{
		AssignedTo:    req.AssignedTo,
		ProspectName:  req.ProspectName,
		ProspectPhone: req.ProspectPhone,
		CompanyName:   req.CompanyName,
		Notes:         req.Notes,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": introductionResponse(intro)})
}

// ListIntroductions GET /introductions.
func (h *IntroductionsHandler) ListIntroductions(c *fiber.Ctx) error {
	if _, err := requirePrincipal(c); err != nil {
		return err
	}
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	intros, err := h.introductions.ListIntroductions(c.Context(), pageSize, (page-1)*pageSize)
	if err != nil {
		return err
	}
	items := make([]dto.IntroductionResponse, 0, len(intros))
	for i := range intros {
		items = append(items, introductionResponse(&intros[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetIntroduction GET /introductions/:id.
func (h *IntroductionsHandler) GetIntroduction(c *fiber.Ctx) error {
	if _, err := requirePrincipal(c); err != nil {
		return err
	}
	id, err := paramID(c)
	if err != nil {
		return err
	}
	intro, err := h.introductions.GetIntroduction(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": introductionResponse(intro)})
}

// UpdateIntroduction PATCH /introductions/:id.
func (h *IntroductionsHandler) UpdateIntroduction(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var req dto.UpdateIntroductionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	intro, err := h.introductions.UpdateIntroduction(c.Context(), principal.User, id, service.IntroductionUpdateInput{
		AssignedTo:    req.AssignedTo,
		ProspectName:  req.ProspectName,
		ProspectPhone: req.ProspectPhone,
		CompanyName:   req.CompanyName,
		Notes:         req.Notes,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": introductionResponse(intro)})
}

// DeleteIntroduction DELETE /introductions/:id.
func (h *IntroductionsHandler) DeleteIntroduction(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := h.introductions.DeleteIntroduction(c.Context(), principal.User, id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// StartIntroduction POST /introductions/:id/start.
func (h *IntroductionsHandler) StartIntroduction(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	id, err := paramID(c)
	if err != nil {
		return err
	}
	intro, err := h.introductions.StartIntroduction(c.Context(), principal.User, id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": introductionResponse(intro)})
}

// LoseIntroduction POST /introductions/:id/lose.
func (h *IntroductionsHandler) LoseIntroduction(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	id, err := paramID(c)
	if err != nil {
		return err
	}
	intro, err := h.introductions.LoseIntroduction(c.Context(), principal.User, id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": introductionResponse(intro)})
}

// ReferIntroduction POST /introductions/:id/refer.
func (h *IntroductionsHandler) ReferIntroduction(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var req dto.ReferIntroductionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.ReferredTo == "" {
		return apperrors.NewValidationError("referred_to required", nil)
	}
	intro, err := h.referrals.ReferIntroduction(c.Context(), principal.User, id, req.ReferredTo)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": introductionResponse(intro)})
}

// ConvertIntroduction POST /introductions/:id/convert.
func (h *IntroductionsHandler) ConvertIntroduction(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var req dto.ConvertIntroductionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	intro, customer, err := h.introductions.ConvertIntroduction(c.Context(), principal.User, id, service.ConvertInput{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		MobileNumber: req.MobileNumber,
		Email:        req.Email,
		Address:      req.Address,
		SoftwareType: req.SoftwareType,
		Level:        req.Level,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"introduction": introductionResponse(intro),
		"customer":     customerResponse(customer),
	}})
}

// ListReferrals GET /introductions/:id/referrals.
func (h *IntroductionsHandler) ListReferrals(c *fiber.Ctx) error {
	if _, err := requirePrincipal(c); err != nil {
		return err
	}
	id, err := paramID(c)
	if err != nil {
		return err
	}
	history, err := h.referrals.ListIntroductionReferrals(c.Context(), id)
	if err != nil {
		return err
	}
	items := make([]dto.IntroductionReferralResponse, 0, len(history))
	for _, r := range history {
		items = append(items, dto.IntroductionReferralResponse{
			ID:             r.ID,
			IntroductionID: r.IntroductionID,
			ReferredBy:     r.ReferredBy,
			ReferredTo:     r.ReferredTo,
			ReferredAt:     r.ReferredAt,
		})
	}
	return c.JSON(fiber.Map{
		"data":            items,
		"history_enabled": h.referrals.HistoryEnabled(),
	})
}

func introductionResponse(intro *domain.CustomerIntroduction) dto.IntroductionResponse {
	return dto.IntroductionResponse{
		ID:            intro.ID,
		IntroducedBy:  intro.IntroducedBy,
		AssignedTo:    intro.AssignedTo,
		Status:        intro.Status,
		ProspectName:  intro.ProspectName,
		ProspectPhone: intro.ProspectPhone,
		CompanyName:   intro.CompanyName,
		Notes:         intro.Notes,
		CustomerID:    intro.CustomerID,
		CreatedAt:     intro.CreatedAt,
		UpdatedAt:     intro.UpdatedAt,
	}
}
