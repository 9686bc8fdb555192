// SPDX-License-Identifier: GPL-3.0-only

package routes

import (
	"alimenta-server/commons"
	"alimenta-server/handlers"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo, h *handlers.Handler) {
	commons.Logger.Debug("Registering v1 routes")
	authRequired := h.Auth.VerifySession
	api_v1 := e.Group("/v1")
	api_v1.POST("/auth/signup", h.SignupHandler)
	api_v1.POST("/auth/login", h.LoginHandler)
	api_v1.POST("/auth/logout", h.LogoutHandler, authRequired)
	api_v1.POST("/auth/verify-email", h.VerifyEmailHandler)
	api_v1.POST("/auth/resend-verification", h.ResendVerificationHandler)
	api_v1.GET("/users/me", h.GetUserHandler, authRequired)
	api_v1.PATCH("/users/me", h.UpdateProfileHandler, authRequired)
	api_v1.GET("/cep/:code", h.CEPLookupHandler)
	api_v1.POST("/donations", h.CreateDonationHandler, authRequired)
	api_v1.GET("/donations", h.ListDonationsHandler)
	api_v1.GET("/donations/history", h.DonationHistoryHandler, authRequired)
	api_v1.GET("/donations/:donation_id", h.GetDonationHandler)
	api_v1.GET("/events", h.GetEventsHandler, authRequired)
	commons.Logger.Info("v1 routes registered successfully")
}
