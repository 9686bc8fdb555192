// SPDX-License-Identifier: GPL-3.0-only

package handlers

import (
	"net/http"
	"time"

	"alimenta-server/models"

	"github.com/labstack/echo/v4"
)

// GetEventsHandler godoc
// @Summary      Get account activity
// @Description  Retrieves the authenticated user's audit trail: signups, logins, verifications, and published donations.
// @Tags         events
// @Produce      json
// @Security     BearerAuth
// @Param        Authorization  header  string  true  "Bearer token for authentication. Replace <your_token_here> with a valid token."  default(Bearer <your_token_here>)
// @Param        page      query   int     false  "Page number (default 1)"
// @Param        page_size query   int     false  "Page size (default 10, max 100)"
// @Success      200 {object} EventListResponse "Paginated list of events"
// @Failure      401 {object} echo.HTTPError     "Unauthorized, invalid or expired session token"
// @Failure      500 {object} echo.HTTPError     "Internal server error"
// @Router       /v1/events [get]
func (h *Handler) GetEventsHandler(c echo.Context) error {
	logger := c.Logger()

	user, err := h.Auth.GetAuthenticatedUser(c)
	if err != nil {
		logger.Error("Failed to get authenticated user:", err)
		return &echo.HTTPError{
			Code:    http.StatusUnauthorized,
			Message: "Invalid or expired authentication token, please login again",
		}
	}

	page, pageSize := paginationParams(c)

	var total int64
	if err := h.DB.Model(&models.EventLog{}).Where("user_id = ?", user.ID).Count(&total).Error; err != nil {
		logger.Errorf("Failed to count events: %v", err)
		return echo.ErrInternalServerError
	}

	offset := (page - 1) * pageSize
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))

	var events []models.EventLog
	if err := h.DB.Where("user_id = ?", user.ID).
		Order("created_at DESC").
		Limit(pageSize).
		Offset(offset).
		Find(&events).Error; err != nil {
		logger.Errorf("Failed to fetch events: %v", err)
		return echo.ErrInternalServerError
	}

	details := make([]EventDetails, 0, len(events))
	for _, event := range events {
		detail := EventDetails{
			EID:       event.EID.String(),
			CreatedAt: event.CreatedAt.Format(time.RFC3339),
		}
		if event.Category != nil {
			detail.Category = string(*event.Category)
		}
		if event.Status != nil {
			detail.Status = string(*event.Status)
		}
		if event.Description != nil {
			detail.Description = *event.Description
		}
		details = append(details, detail)
	}

	return c.JSON(http.StatusOK, EventListResponse{
		Data: details,
		Pagination: PaginationDetails{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
		},
		Message: "Events retrieved successfully",
	})
}
