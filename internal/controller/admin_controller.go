// FILE: internal/controller/admin_controller.go
package controller

import (
	"subtracker-be/internal/dto"
	"subtracker-be/internal/pkg/apperror"
	"subtracker-be/internal/pkg/serverutils"
	"subtracker-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAdminController interface {
	RegisterRoutes(r fiber.Router, jwtMiddleware fiber.Handler)
	GetDashboardStats(ctx *fiber.Ctx) error
	GetAuditLogs(ctx *fiber.Ctx) error
	GetSystemLogs(ctx *fiber.Ctx) error

	// Catalog Management
	CreateCategory(ctx *fiber.Ctx) error
	UpdateCategory(ctx *fiber.Ctx) error
	DeleteCategory(ctx *fiber.Ctx) error
	GetAllProducts(ctx *fiber.Ctx) error
	CreateProduct(ctx *fiber.Ctx) error
	UpdateProduct(ctx *fiber.Ctx) error
	DeleteProduct(ctx *fiber.Ctx) error
	CreatePlan(ctx *fiber.Ctx) error
	UpdatePlan(ctx *fiber.Ctx) error
	DeletePlan(ctx *fiber.Ctx) error
	CreatePrice(ctx *fiber.Ctx) error
	UpdatePrice(ctx *fiber.Ctx) error
	DeletePrice(ctx *fiber.Ctx) error
	GetPriceHistory(ctx *fiber.Ctx) error
}

type adminController struct {
	service     service.IAdminService
	userService service.IUserService
}

func NewAdminController(service service.IAdminService, userService service.IUserService) IAdminController {
	return &adminController{
		service:     service,
		userService: userService,
	}
}

// adminMiddleware runs after the JWT check. The role lives in our users table, not in
// the provider's token.
func (c *adminController) adminMiddleware(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	ok, err := c.userService.IsAdmin(ctx.UserContext(), userId)
	if err != nil {
		return err
	}
	if !ok {
		return apperror.NewForbidden("Admin access required")
	}
	return ctx.Next()
}

func (c *adminController) RegisterRoutes(r fiber.Router, jwtMiddleware fiber.Handler) {
	h := r.Group("/admin", jwtMiddleware, c.adminMiddleware)
	h.Get("/stats", c.GetDashboardStats)
	h.Get("/audit-logs", c.GetAuditLogs)
	h.Get("/logs", c.GetSystemLogs)

	h.Post("/categories", c.CreateCategory)
	h.Put("/categories/:id", c.UpdateCategory)
	h.Delete("/categories/:id", c.DeleteCategory)

	h.Get("/products", c.GetAllProducts)
	h.Post("/products", c.CreateProduct)
	h.Put("/products/:id", c.UpdateProduct)
	h.Delete("/products/:id", c.DeleteProduct)

	h.Post("/plans", c.CreatePlan)
	h.Put("/plans/:id", c.UpdatePlan)
	h.Delete("/plans/:id", c.DeletePlan)

	h.Post("/prices", c.CreatePrice)
	h.Put("/prices/:id", c.UpdatePrice)
	h.Delete("/prices/:id", c.DeletePrice)
	h.Get("/prices/:id/history", c.GetPriceHistory)
}

func (c *adminController) GetDashboardStats(ctx *fiber.Ctx) error {
	res, err := c.service.GetStats(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Dashboard stats", res))
}

func (c *adminController) GetAuditLogs(ctx *fiber.Ctx) error {
	var req dto.AuditLogListRequest
	if err := parseQuery(ctx, &req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.GetAuditLogs(ctx.UserContext(), req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.PaginatedResponse(res.Logs, res.Page, res.Limit, res.Total))
}

func (c *adminController) GetSystemLogs(ctx *fiber.Ctx) error {
	var req dto.SystemLogListRequest
	if err := parseQuery(ctx, &req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.GetSystemLogs(ctx.UserContext(), req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("System logs", res))
}

// --- Catalog Management ---

func (c *adminController) CreateCategory(ctx *fiber.Ctx) error {
	actor, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	var req dto.CreateCategoryRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.CreateCategory(ctx.UserContext(), actor, req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Category created", res))
}

func (c *adminController) UpdateCategory(ctx *fiber.Ctx) error {
	actor, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateCategoryRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.UpdateCategory(ctx.UserContext(), actor, id, req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Category updated", res))
}

func (c *adminController) DeleteCategory(ctx *fiber.Ctx) error {
	actor, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}

	if err := c.service.DeleteCategory(ctx.UserContext(), actor, id); err != nil {
		return err
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}

func (c *adminController) GetAllProducts(ctx *fiber.Ctx) error {
	res, err := c.service.ListProducts(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Products", res))
}

func (c *adminController) CreateProduct(ctx *fiber.Ctx) error {
	actor, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	var req dto.CreateProductRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.CreateProduct(ctx.UserContext(), actor, req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Product created", res))
}

func (c *adminController) UpdateProduct(ctx *fiber.Ctx) error {
	actor, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateProductRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.UpdateProduct(ctx.UserContext(), actor, id, req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Product updated", res))
}

func (c *adminController) DeleteProduct(ctx *fiber.Ctx) error {
	actor, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}

	if err := c.service.DeleteProduct(ctx.UserContext(), actor, id); err != nil {
		return err
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}

func (c *adminController) CreatePlan(ctx *fiber.Ctx) error {
	actor, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	var req dto.CreatePlanRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.CreatePlan(ctx.UserContext(), actor, req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Plan created", res))
}

func (c *adminController) UpdatePlan(ctx *fiber.Ctx) error {
	actor, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}
	var req dto.UpdatePlanRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.UpdatePlan(ctx.UserContext(), actor, id, req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Plan updated", res))
}

func (c *adminController) DeletePlan(ctx *fiber.Ctx) error {
	actor, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}

	if err := c.service.DeletePlan(ctx.UserContext(), actor, id); err != nil {
		return err
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}

func (c *adminController) CreatePrice(ctx *fiber.Ctx) error {
	actor, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	var req dto.CreatePriceRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.CreatePrice(ctx.UserContext(), actor, req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Price created", res))
}

func (c *adminController) UpdatePrice(ctx *fiber.Ctx) error {
	actor, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}
	var req dto.UpdatePriceRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.UpdatePrice(ctx.UserContext(), actor, id, req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Price updated", res))
}

func (c *adminController) DeletePrice(ctx *fiber.Ctx) error {
	actor, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}

	if err := c.service.DeletePrice(ctx.UserContext(), actor, id); err != nil {
		return err
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}

func (c *adminController) GetPriceHistory(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}

	res, err := c.service.GetPriceHistory(ctx.UserContext(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Price history", res))
}
