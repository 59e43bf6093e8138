package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"nissanscraper/internal/service"
)

// ListSnapshots godoc
// @Summary List archived pages
// @Tags snapshots
// @Produce json
// @Param limit query int false "page size"
// @Param offset query int false "rows to skip"
// @Success 200 {object} service.SnapshotListResult
// @Router /api/v1/snapshots [get]
func ListSnapshots(svc service.SnapshotService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}

		res, err := svc.List(c.UserContext(), limit, offset)
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(res)
	}
}

// GetSnapshot godoc
// @Summary Get snapshot metadata with a download link
// @Tags snapshots
// @Produce json
// @Param id path string true "snapshot id (uuid)"
// @Success 200 {object} service.SnapshotDetail
// @Failure 404 {object} errorPayload
// @Router /api/v1/snapshots/{id} [get]
func GetSnapshot(svc service.SnapshotService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		snap, err := svc.Get(c.UserContext(), id)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "snapshot not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(snap)
	}
}

// DownloadSnapshot godoc
// @Summary Stream the archived page
// @Tags snapshots
// @Produce html
// @Param id path string true "snapshot id (uuid)"
// @Success 200 {string} string
// @Failure 404 {object} errorPayload
// @Failure 503 {object} errorPayload
// @Router /api/v1/snapshots/{id}/raw [get]
func DownloadSnapshot(svc service.SnapshotService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		rc, snap, err := svc.Open(c.UserContext(), id)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrNotFound):
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "snapshot not found")
			case errors.Is(err, service.ErrStorageDisabled):
				return writeError(c, fiber.StatusServiceUnavailable, "STORAGE_DISABLED", "snapshot storage is not configured")
			default:
				return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
			}
		}

		ct := snap.ContentType
		if ct == "" {
			ct = fiber.MIMETextHTMLCharsetUTF8
		}
		c.Set(fiber.HeaderContentType, ct)
		size := int(snap.Size)
		if size <= 0 {
			size = -1
		}
		// fasthttp closes rc once the body is written
		return c.SendStream(rc, size)
	}
}

// DeleteSnapshot godoc
// @Summary Delete an archived page and its record
// @Tags snapshots
// @Param id path string true "snapshot id (uuid)"
// @Success 204
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Failure 503 {object} errorPayload
// @Router /api/v1/snapshots/{id} [delete]
func DeleteSnapshot(svc service.SnapshotService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := svc.Delete(c.UserContext(), id); err != nil {
			switch {
			case errors.Is(err, service.ErrNotFound):
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "snapshot not found")
			case errors.Is(err, service.ErrStorageDisabled):
				return writeError(c, fiber.StatusServiceUnavailable, "STORAGE_DISABLED", "snapshot storage is not configured")
			default:
				return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
			}
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
