package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"nissanscraper/internal/model"
	"nissanscraper/internal/service"
)

// ListVehicles godoc
// @Summary List stored vehicles
// @Tags vehicles
// @Produce json
// @Param model query string false "case-insensitive model designation substring"
// @Param year query string false "four digit year"
// @Param limit query int false "page size (default 10, max 100)"
// @Param offset query int false "rows to skip"
// @Success 200 {object} service.VehicleListResult
// @Failure 400 {object} errorPayload
// @Router /api/v1/vehicles [get]
func ListVehicles(svc service.VehicleService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}

		res, err := svc.List(c.UserContext(), service.VehicleQuery{
			Model:  c.Query("model"),
			Year:   c.Query("year"),
			Limit:  limit,
			Offset: offset,
		})
		if err != nil {
			if errors.Is(err, service.ErrInvalidYear) {
				return writeError(c, fiber.StatusBadRequest, "INVALID_YEAR", "year must be a four digit number")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(res)
	}
}

// GetVehicle godoc
// @Summary Get a vehicle by id
// @Tags vehicles
// @Produce json
// @Param id path string true "vehicle id (uuid)"
// @Success 200 {object} model.Vehicle
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /api/v1/vehicles/{id} [get]
func GetVehicle(svc service.VehicleService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		v, err := svc.Get(c.UserContext(), id)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "vehicle not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(v)
	}
}

// ListModels godoc
// @Summary List model designations with vehicle counts
// @Tags vehicles
// @Produce json
// @Success 200 {object} map[string][]model.ModelSummary
// @Router /api/v1/models [get]
func ListModels(svc service.VehicleService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		models, err := svc.Models(c.UserContext())
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		if models == nil {
			models = []model.ModelSummary{}
		}
		return c.JSON(fiber.Map{"data": models})
	}
}
