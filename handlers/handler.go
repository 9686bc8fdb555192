// SPDX-License-Identifier: GPL-3.0-only

package handlers

import (
	"fmt"

	"alimenta-server/cep"
	"alimenta-server/crypto"
	"alimenta-server/middlewares"
	"alimenta-server/models"
	"alimenta-server/notifications"
	"alimenta-server/verification"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// Handler carries the dependencies every endpoint needs. Everything is
// injected at startup; handlers hold no package-level state.
type Handler struct {
	DB           *gorm.DB
	Crypto       *crypto.Crypto
	Verification *verification.Service
	Dispatcher   *notifications.Dispatcher
	CEP          *cep.Client
	Auth         *middlewares.SessionAuth
}

func NewHandler(conn *gorm.DB, dispatcher *notifications.Dispatcher, cepClient *cep.Client) *Handler {
	return &Handler{
		DB:           conn,
		Crypto:       crypto.NewCrypto(),
		Verification: verification.NewService(conn, dispatcher),
		Dispatcher:   dispatcher,
		CEP:          cepClient,
		Auth:         middlewares.NewSessionAuth(conn),
	}
}

// logEvent appends to the user's audit trail. Failures are logged and
// swallowed; the trail never blocks the operation it records.
func (h *Handler) logEvent(c echo.Context, userID uint, category models.EventCategory, status models.EventStatus, description string) {
	event := models.EventLog{
		Category:    &category,
		Status:      &status,
		Description: &description,
		UserID:      userID,
	}
	if err := h.DB.Create(&event).Error; err != nil {
		c.Logger().Errorf("Failed to record event log entry: %v", err)
	}
}

func paginationParams(c echo.Context) (page, pageSize int) {
	page = 1
	pageSize = 10
	if p := c.QueryParam("page"); p != "" {
		if _, err := fmt.Sscanf(p, "%d", &page); err != nil || page < 1 {
			page = 1
		}
	}
	if ps := c.QueryParam("page_size"); ps != "" {
		if _, err := fmt.Sscanf(ps, "%d", &pageSize); err != nil || pageSize < 1 {
			pageSize = 10
		}
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}
