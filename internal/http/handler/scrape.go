package handler

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"nissanscraper/internal/scraper"
	"nissanscraper/internal/service"
)

// scrapeResponse wraps a successful scrape.
type scrapeResponse struct {
	Success bool                  `json:"success"`
	Data    *service.ScrapeResult `json:"data"`
}

// Scrape godoc
// @Summary Scrape a vehicle listing page and store its vehicles
// @Tags scrape
// @Accept json
// @Produce json
// @Param request body service.ScrapeRequest true "page to scrape"
// @Success 200 {object} scrapeResponse
// @Failure 400 {object} errorPayload
// @Failure 422 {object} errorPayload
// @Failure 429 {object} errorPayload
// @Failure 502 {object} errorPayload
// @Router /api/v1/scrape [post]
func Scrape(svc service.ScrapeService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req service.ScrapeRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		}
		if strings.TrimSpace(req.URL) == "" {
			return writeError(c, fiber.StatusBadRequest, "URL_REQUIRED", "url is required")
		}

		res, err := svc.Scrape(c.UserContext(), req)
		if err != nil {
			return writeScrapeError(c, err)
		}
		return c.JSON(scrapeResponse{Success: true, Data: res})
	}
}

func writeScrapeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidURL):
		return writeError(c, fiber.StatusBadRequest, "INVALID_URL", "url must be an absolute http or https url")
	case errors.Is(err, service.ErrHostNotAllowed):
		return writeError(c, fiber.StatusBadRequest, "HOST_NOT_ALLOWED", "url host is not allowed")
	case errors.Is(err, service.ErrNoVehicles):
		return writeError(c, fiber.StatusUnprocessableEntity, "NO_VEHICLES_FOUND", "no vehicles found on page")
	case errors.Is(err, scraper.ErrNotHTML), errors.Is(err, scraper.ErrBodyTooLarge):
		return writeError(c, fiber.StatusUnprocessableEntity, "UNPROCESSABLE_PAGE", "page cannot be processed")
	case errors.Is(err, scraper.ErrUpstream):
		return writeError(c, fiber.StatusBadGateway, "UPSTREAM_ERROR", "failed to fetch page")
	default:
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}
