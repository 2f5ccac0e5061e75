package controller

import (
	"subtracker-be/internal/dto"
	"subtracker-be/internal/pkg/serverutils"
	"subtracker-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAnalyticsController interface {
	RegisterRoutes(r fiber.Router, jwtMiddleware fiber.Handler)
	GetDashboard(ctx *fiber.Ctx) error
	GetSpending(ctx *fiber.Ctx) error
	GetRenewals(ctx *fiber.Ctx) error
}

type analyticsController struct {
	service service.IAnalyticsService
}

func NewAnalyticsController(service service.IAnalyticsService) IAnalyticsController {
	return &analyticsController{service: service}
}

func (c *analyticsController) RegisterRoutes(r fiber.Router, jwtMiddleware fiber.Handler) {
	h := r.Group("/analytics", jwtMiddleware)
	h.Get("/dashboard", c.GetDashboard)
	h.Get("/spending", c.GetSpending)
	h.Get("/renewals", c.GetRenewals)
}

func (c *analyticsController) GetDashboard(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.GetDashboardStats(ctx.UserContext(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("", res))
}

// GetSpending serves ?type=summary (default), category or trend.
func (c *analyticsController) GetSpending(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}

	var req dto.SpendingRequest
	if err := parseQuery(ctx, &req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	switch req.Type {
	case "category":
		res, err := c.service.GetSpendingByCategory(ctx.UserContext(), userId)
		if err != nil {
			return err
		}
		return ctx.JSON(serverutils.SuccessResponse("", res))
	case "trend":
		res, err := c.service.GetSpendingTrend(ctx.UserContext(), userId)
		if err != nil {
			return err
		}
		return ctx.JSON(serverutils.SuccessResponse("", res))
	default:
		res, err := c.service.GetSpending(ctx.UserContext(), userId)
		if err != nil {
			return err
		}
		return ctx.JSON(serverutils.SuccessResponse("", res))
	}
}

func (c *analyticsController) GetRenewals(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}

	var req dto.RenewalsRequest
	if err := parseQuery(ctx, &req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.GetUpcomingRenewals(ctx.UserContext(), userId, req.Days)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("", res))
}
