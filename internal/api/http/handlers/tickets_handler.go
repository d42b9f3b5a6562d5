package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/crm-service/internal/api/dto"
	"github.com/spec-kit/crm-service/internal/auth"
	"github.com/spec-kit/crm-service/internal/domain"
	"github.com/spec-kit/crm-service/internal/repository"
	"github.com/spec-kit/crm-service/internal/service"
	apperrors "github.com/spec-kit/crm-service/pkg/util"
)

// TicketsHandler manages ticket endpoints.
type TicketsHandler struct {
	tickets   *service.TicketService
	referrals *service.ReferralService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(tickets *service.TicketService, referrals *service.ReferralService) *TicketsHandler {
	return &TicketsHandler{tickets: tickets, referrals: referrals}
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Title == "" || req.CustomerID == 0 {
		return apperrors.NewValidationError("title and customer_id required", nil)
	}

	ticket, err := h.tickets.CreateTicket(c.Context(), principal.User, service.TicketCreateInput{
		Title:       req.Title,
		Description: req.Description,
		CustomerID:  req.CustomerID,
		Priority:    req.Priority,
		Type:        req.Type,
		Channel:     req.Channel,
		AssignedTo:  req.AssignedTo,
		Attachments: req.Attachments,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": h.ticketResponse(ticket)})
}

// ListTickets GET /tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	if _, err := requirePrincipal(c); err != nil {
		return err
	}
	tickets, err := h.tickets.ListTickets(c.Context(), parseTicketQuery(c))
	if err != nil {
		return err
	}
	items := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, h.ticketResponse(&tickets[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	if _, err := requirePrincipal(c); err != nil {
		return err
	}
	id, err := paramID(c)
	if err != nil {
		return err
	}
	ticket, err := h.tickets.GetTicket(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": h.ticketResponse(ticket)})
}

// UpdateTicket PATCH /tickets/:id.
func (h *TicketsHandler) UpdateTicket(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var req dto.UpdateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.tickets.UpdateTicket(c.Context(), principal.User, id, service.TicketUpdateInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Type:        req.Type,
		Channel:     req.Channel,
		Attachments: req.Attachments,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": h.ticketResponse(ticket)})
}

// DeleteTicket DELETE /tickets/:id.
func (h *TicketsHandler) DeleteTicket(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if _, err := h.tickets.GetTicket(c.Context(), id); err != nil {
		return err
	}
	if err := h.tickets.DeleteTickets(c.Context(), principal.User, []int64{id}); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ToggleWork POST /tickets/:id/toggle-work.
func (h *TicketsHandler) ToggleWork(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	id, err := paramID(c)
	if err != nil {
		return err
	}
	ticket, err := h.tickets.ToggleWork(c.Context(), principal.User, id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": h.ticketResponse(ticket)})
}

// ReferTicket POST /tickets/:id/refer.
func (h *TicketsHandler) ReferTicket(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var req dto.ReferTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.ReferredTo == "" {
		return apperrors.NewValidationError("referred_to required", nil)
	}
	ticket, err := h.referrals.ReferTicket(c.Context(), principal.User, id, req.ReferredTo)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": h.ticketResponse(ticket)})
}

// ReopenTicket POST /tickets/:id/reopen.
func (h *TicketsHandler) ReopenTicket(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	id, err := paramID(c)
	if err != nil {
		return err
	}
	ticket, err := h.tickets.ReopenTicket(c.Context(), principal.User, id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": h.ticketResponse(ticket)})
}

// ExtendEditWindow POST /tickets/:id/extend-edit.
func (h *TicketsHandler) ExtendEditWindow(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	id, err := paramID(c)
	if err != nil {
		return err
	}
	ticket, err := h.tickets.ExtendEditWindow(c.Context(), principal.User, id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": h.ticketResponse(ticket)})
}

// ListReferrals GET /tickets/:id/referrals.
func (h *TicketsHandler) ListReferrals(c *fiber.Ctx) error {
	if _, err := requirePrincipal(c); err != nil {
		return err
	}
	id, err := paramID(c)
	if err != nil {
		return err
	}
	referrals, err := h.tickets.ListReferrals(c.Context(), id)
	if err != nil {
		return err
	}
	items := make([]dto.ReferralResponse, 0, len(referrals))
	for _, r := range referrals {
		items = append(items, dto.ReferralResponse{
			ID:         r.ID,
			TicketID:   r.TicketID,
			ReferredBy: r.ReferredBy,
			ReferredTo: r.ReferredTo,
			ReferredAt: r.ReferredAt,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}

// EligibleTargets GET /tickets/eligible-targets?ids=1,2.
func (h *TicketsHandler) EligibleTargets(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	ids, err := parseIDList(c.Query("ids"))
	if err != nil {
		return err
	}
	targets, err := h.referrals.EligibleTargets(c.Context(), principal.User, ids)
	if err != nil {
		return err
	}
	items := make([]dto.UserResponse, 0, len(targets))
	for i := range targets {
		items = append(items, userResponse(&targets[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// BulkComplete POST /tickets/bulk/complete.
func (h *TicketsHandler) BulkComplete(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.BulkTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if len(req.TicketIDs) == 0 {
		return apperrors.NewValidationError("ticket_ids required", nil)
	}
	completed, failures := h.tickets.CompleteTickets(c.Context(), principal.User, req.TicketIDs)
	items := make([]dto.TicketResponse, 0, len(completed))
	for i := range completed {
		items = append(items, h.ticketResponse(&completed[i]))
	}
	return c.JSON(fiber.Map{
		"data":     items,
		"failures": bulkFailures(failures),
	})
}

// BulkRefer POST /tickets/bulk/refer.
func (h *TicketsHandler) BulkRefer(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.BulkReferRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if len(req.TicketIDs) == 0 || req.ReferredTo == "" {
		return apperrors.NewValidationError("ticket_ids and referred_to required", nil)
	}
	result := h.referrals.ReferTickets(c.Context(), principal.User, req.TicketIDs, req.ReferredTo)
	return c.JSON(fiber.Map{
		"data":     fiber.Map{"referred": result.Referred},
		"failures": bulkFailures(result.Failures),
	})
}

// Rescore POST /tickets/rescore. Score recomputation is an explicit
// step, never a side effect of other mutations.
func (h *TicketsHandler) Rescore(c *fiber.Ctx) error {
	if _, err := requirePrincipal(c); err != nil {
		return err
	}
	tickets, err := h.tickets.RescoreTickets(c.Context())
	if err != nil {
		return err
	}
	items := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, h.ticketResponse(&tickets[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// BulkDelete DELETE /tickets/bulk.
func (h *TicketsHandler) BulkDelete(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.BulkTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if len(req.TicketIDs) == 0 {
		return apperrors.NewValidationError("ticket_ids required", nil)
	}
	if err := h.tickets.DeleteTickets(c.Context(), principal.User, req.TicketIDs); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *TicketsHandler) ticketResponse(ticket *domain.Ticket) dto.TicketResponse {
	return dto.TicketResponse{
		ID:                   ticket.ID,
		TicketNumber:         ticket.TicketNumber,
		Title:                ticket.Title,
		Description:          ticket.Description,
		CustomerID:           ticket.CustomerID,
		Status:               ticket.Status,
		Priority:             ticket.Priority,
		Type:                 ticket.Type,
		Channel:              ticket.Channel,
		AssignedTo:           ticket.AssignedTo,
		Attachments:          ticket.Attachments,
		EditableUntil:        ticket.EditableUntil,
		Editable:             domain.IsEditable(ticket, h.tickets.Now()),
		WorkSessionStartedAt: ticket.WorkSessionStartedAt,
		TotalWorkDuration:    ticket.TotalWorkDuration,
		Score:                ticket.Score,
		CreatedAt:            ticket.CreatedAt,
		UpdatedAt:            ticket.UpdatedAt,
	}
}

func parseTicketQuery(c *fiber.Ctx) repository.TicketFilter {
	filter := repository.TicketFilter{}
	if statusStr := c.Query("status"); statusStr != "" {
		for _, part := range strings.Split(statusStr, ",") {
			filter.Statuses = append(filter.Statuses, domain.TicketStatus(strings.TrimSpace(part)))
		}
	}
	if priorityStr := c.Query("priority"); priorityStr != "" {
		for _, part := range strings.Split(priorityStr, ",") {
			filter.Priorities = append(filter.Priorities, domain.TicketPriority(strings.TrimSpace(part)))
		}
	}
	if assignee := c.Query("assigned_to"); assignee != "" {
		filter.AssignedTo = &assignee
	}
	if customer := c.Query("customer_id"); customer != "" {
		if id, err := strconv.ParseInt(customer, 10, 64); err == nil {
			filter.CustomerID = &id
		}
	}
	if search := c.Query("q"); search != "" {
		filter.SearchTerm = &search
	}
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	filter.Offset = (page - 1) * pageSize
	filter.Limit = pageSize
	return filter
}

func bulkFailures(failures []service.BulkFailure) []dto.BulkFailureResponse {
	items := make([]dto.BulkFailureResponse, 0, len(failures))
	for _, f := range failures {
		items = append(items, dto.BulkFailureResponse{TicketID: f.TicketID, Reason: f.Reason})
	}
	return items
}

func requirePrincipal(c *fiber.Ctx) (*auth.Principal, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return nil, apperrors.NewUnauthorized("user required")
	}
	return principal, nil
}

func paramID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid id", nil)
	}
	return id, nil
}

func parseIDList(val string) ([]int64, error) {
	if val == "" {
		return nil, apperrors.NewValidationError("ids required", nil)
	}
	var ids []int64
	for _, part := range strings.Split(val, ",") {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil || id <= 0 {
			return nil, apperrors.NewValidationError("invalid id list", nil)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}
