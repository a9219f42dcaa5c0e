package controller

import (
	"ship-consultant-be/internal/dto"
	"ship-consultant-be/internal/pkg/serverutils"
	"ship-consultant-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IShipController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	GetAll(ctx *fiber.Ctx) error
	Search(ctx *fiber.Ctx) error
}

type shipController struct {
	service service.IShipService
}

func NewShipController(service service.IShipService) IShipController {
	return &shipController{service: service}
}

func (c *shipController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/ship/v1")
	h.Get("/ships", c.GetAll)
	h.Post("/ships", c.Create)
	h.Get("/ships/search", c.Search)
	h.Get("/ships/:id", c.Show)
}

func (c *shipController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateShipRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Create(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Ship created", res))
}

func (c *shipController) Show(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid ship id")
	}

	res, err := c.service.Show(ctx.Context(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show ship", res))
}

func (c *shipController) GetAll(ctx *fiber.Ctx) error {
	res, err := c.service.GetAll(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get all ships", res))
}

func (c *shipController) Search(ctx *fiber.Ctx) error {
	var req dto.SearchShipsRequest
	if err := ctx.QueryParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid query parameters")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Search(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success search ships", res))
}
