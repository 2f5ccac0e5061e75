package controller

import (
	"subtracker-be/internal/dto"
	"subtracker-be/internal/pkg/serverutils"
	"subtracker-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ICatalogController interface {
	RegisterRoutes(r fiber.Router, jwtMiddleware fiber.Handler)
	ListCategories(ctx *fiber.Ctx) error
	GetCategory(ctx *fiber.Ctx) error
	ListProducts(ctx *fiber.Ctx) error
	GetProduct(ctx *fiber.Ctx) error
	CreateCustomProduct(ctx *fiber.Ctx) error
}

type catalogController struct {
	service       service.ICatalogService
	customProduct service.ICustomProductService
}

func NewCatalogController(service service.ICatalogService, customProduct service.ICustomProductService) ICatalogController {
	return &catalogController{
		service:       service,
		customProduct: customProduct,
	}
}

func (c *catalogController) RegisterRoutes(r fiber.Router, jwtMiddleware fiber.Handler) {
	r.Get("/categories", c.ListCategories)
	r.Get("/categories/:idOrSlug", c.GetCategory)

	products := r.Group("/products")
	products.Get("", c.ListProducts)
	// registered before :idOrSlug so "custom" is never read as a slug
	products.Post("/custom", jwtMiddleware, c.CreateCustomProduct)
	products.Get("/:idOrSlug", c.GetProduct)
}

func (c *catalogController) ListCategories(ctx *fiber.Ctx) error {
	res, err := c.service.ListCategories(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("", res))
}

func (c *catalogController) GetCategory(ctx *fiber.Ctx) error {
	res, err := c.service.GetCategory(ctx.UserContext(), ctx.Params("idOrSlug"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("", res))
}

func (c *catalogController) ListProducts(ctx *fiber.Ctx) error {
	var req dto.ProductListRequest
	if err := parseQuery(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.ListProducts(ctx.UserContext(), req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("", res))
}

func (c *catalogController) GetProduct(ctx *fiber.Ctx) error {
	res, err := c.service.GetProduct(ctx.UserContext(), ctx.Params("idOrSlug"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("", res))
}

func (c *catalogController) CreateCustomProduct(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserID(ctx)
	if err != nil {
		return err
	}

	var req dto.CreateCustomProductRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.customProduct.Create(ctx.UserContext(), userId, req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Custom product created", res))
}
