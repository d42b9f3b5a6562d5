package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/crm-service/internal/api/dto"
	"github.com/spec-kit/crm-service/internal/domain"
	"github.com/spec-kit/crm-service/internal/service"
	apperrors "github.com/spec-kit/crm-service/pkg/util"
)

// CustomersHandler manages customer endpoints.
type CustomersHandler struct {
	customers *service.CustomerService
}

// NewCustomersHandler constructs handler.
func NewCustomersHandler(customers *service.CustomerService) *CustomersHandler {
	return &CustomersHandler{customers: customers}
}

// CreateCustomer POST /customers.
func (h *CustomersHandler) CreateCustomer(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.CustomerRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	customer, err := h.customers.CreateCustomer(c.Context(), principal.User, customerInput(req))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": customerResponse(customer)})
}

// ListCustomers GET /customers.
func (h *CustomersHandler) ListCustomers(c *fiber.Ctx) error {
	if _, err := requirePrincipal(c); err != nil {
		return err
	}
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	customers, err := h.customers.ListCustomers(c.Context(), pageSize, (page-1)*pageSize)
	if err != nil {
		return err
	}
	items := make([]dto.CustomerResponse, 0, len(customers))
	for i := range customers {
		items = append(items, customerResponse(&customers[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetCustomer GET /customers/:id.
func (h *CustomersHandler) GetCustomer(c *fiber.Ctx) error {
	if _, err := requirePrincipal(c); err != nil {
		return err
	}
	id, err := paramID(c)
	if err != nil {
		return err
	}
	customer, err := h.customers.GetCustomer(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": customerResponse(customer)})
}

// UpdateCustomer PATCH /customers/:id.
func (h *CustomersHandler) UpdateCustomer(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var req dto.CustomerRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	customer, err := h.customers.UpdateCustomer(c.Context(), principal.User, id, customerInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": customerResponse(customer)})
}

// DeleteCustomer DELETE /customers/:id.
func (h *CustomersHandler) DeleteCustomer(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := h.customers.DeleteCustomer(c.Context(), principal.User, id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListContracts GET /customers/:id/contracts.
func (h *CustomersHandler) ListContracts(c *fiber.Ctx) error {
	if _, err := requirePrincipal(c); err != nil {
		return err
	}
	id, err := paramID(c)
	if err != nil {
		return err
	}
	contracts, err := h.customers.ListContracts(c.Context(), id)
	if err != nil {
		return err
	}
	items := make([]dto.ContractResponse, 0, len(contracts))
	for _, contract := range contracts {
		items = append(items, dto.ContractResponse{
			ID:               contract.ID,
			CustomerID:       contract.CustomerID,
			OrganizationName: contract.OrganizationName,
			SoftwareName:     contract.SoftwareName,
			Level:            contract.Level,
			Status:           contract.Status,
			StartDate:        contract.StartDate,
			EndDate:          contract.EndDate,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}

func customerInput(req dto.CustomerRequest) service.CustomerInput {
	return service.CustomerInput{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		CompanyName:  req.CompanyName,
		MobileNumber: req.MobileNumber,
		Email:        req.Email,
		Address:      req.Address,
		SoftwareType: req.SoftwareType,
		Level:        req.Level,
		Status:       req.Status,
	}
}

func customerResponse(customer *domain.Customer) dto.CustomerResponse {
	return dto.CustomerResponse{
		ID:           customer.ID,
		FirstName:    customer.FirstName,
		LastName:     customer.LastName,
		CompanyName:  customer.CompanyName,
		MobileNumber: customer.MobileNumber,
		Email:        customer.Email,
		Address:      customer.Address,
		SoftwareType: customer.SoftwareType,
		Level:        customer.Level,
		Status:       customer.Status,
		CreatedAt:    customer.CreatedAt,
		UpdatedAt:    customer.UpdatedAt,
	}
}
