// SPDX-License-Identifier: GPL-3.0-only

package handlers

import (
	"errors"
	"net/http"
	"strings"

	"alimenta-server/cep"
	"alimenta-server/cpf"

	"github.com/labstack/echo/v4"
)

// GetUserHandler godoc
// @Summary      Get user profile
// @Description  Retrieves the authenticated user's account details.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        Authorization  header  string  true  "Bearer token for authentication. Replace <your_token_here> with a valid token."  default(Bearer <your_token_here>)
// @Success      200 {object} GetUserResponse "User retrieved successfully"
// @Failure      401 {object} echo.HTTPError     "Unauthorized, invalid or expired session token"
// @Failure      500 {object} echo.HTTPError     "Internal server error"
// @Router       /v1/users/me [get]
func (h *Handler) GetUserHandler(c echo.Context) error {
	logger := c.Logger()

	user, err := h.Auth.GetAuthenticatedUser(c)
	if err != nil {
		logger.Error("Failed to get authenticated user:", err)
		return &echo.HTTPError{
			Code:    http.StatusUnauthorized,
			Message: "Invalid or expired authentication token, please login again",
		}
	}

	return c.JSON(http.StatusOK, GetUserResponse{
		AccountID:         user.AccountID,
		Name:              user.Name,
		Email:             user.Email,
		CPF:               cpf.Format(user.CPF),
		CEP:               cep.Format(user.CEP),
		City:              user.City,
		Street:            user.Street,
		Neighborhood:      user.Neighborhood,
		AddressComplement: user.AddressComplement,
		BirthDate:         user.BirthDate.Format("2006-01-02"),
		IsEmailVerified:   user.IsEmailVerified,
		ProfileComplete:   user.ProfileComplete,
		Message:           "User retrieved successfully",
	})
}

// UpdateProfileHandler godoc
// @Summary      Update user profile
// @Description  Updates the authenticated user's name and address fields. Email, CPF, and birth date are fixed at signup.
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Authorization  header  string  true  "Bearer token for authentication. Replace <your_token_here> with a valid token."  default(Bearer <your_token_here>)
// @Param        updateProfileRequest  body  UpdateProfileRequest  true  "Profile fields to update"
// @Success      200 {object} GetUserResponse "Profile updated successfully"
// @Failure      400 {object} echo.HTTPError     "Bad request, invalid fields"
// @Failure      401 {object} echo.HTTPError     "Unauthorized, invalid or expired session token"
// @Failure      500 {object} echo.HTTPError     "Internal server error"
// @Router       /v1/users/me [patch]
func (h *Handler) UpdateProfileHandler(c echo.Context) error {
	logger := c.Logger()

	user, err := h.Auth.GetAuthenticatedUser(c)
	if err != nil {
		logger.Error("Failed to get authenticated user:", err)
		return &echo.HTTPError{
			Code:    http.StatusUnauthorized,
			Message: "Invalid or expired authentication token, please login again",
		}
	}

	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid profile update payload:", err)
		return echo.ErrBadRequest
	}

	if req.Name != nil {
		if err := validateName(*req.Name); err != nil {
			logger.Error("Name validation failed: ", err)
			return &echo.HTTPError{
				Code:    http.StatusBadRequest,
				Message: err.Error(),
			}
		}
		user.Name = strings.TrimSpace(*req.Name)
	}

	if req.CEP != nil {
		if !cep.ValidateFormat(*req.CEP) {
			logger.Error("CEP validation failed.")
			return &echo.HTTPError{
				Code:    http.StatusBadRequest,
				Message: "CEP must have exactly 8 digits",
			}
		}
		user.CEP = cep.Digits(*req.CEP)
	}

	for field, update := range map[string]struct {
		value    *string
		target   *string
		required bool
	}{
		"city":               {req.City, &user.City, true},
		"street":             {req.Street, &user.Street, true},
		"neighborhood":       {req.Neighborhood, &user.Neighborhood, true},
		"address_complement": {req.AddressComplement, &user.AddressComplement, false},
	} {
		if update.value == nil {
			continue
		}
		if err := validateAddressField(field, *update.value, update.required); err != nil {
			logger.Error("Address validation failed: ", err)
			return &echo.HTTPError{
				Code:    http.StatusBadRequest,
				Message: err.Error(),
			}
		}
		*update.target = strings.TrimSpace(*update.value)
	}

	user.ProfileComplete = user.Name != "" && user.CEP != "" &&
		user.City != "" && user.Street != "" && user.Neighborhood != ""

	if err := h.DB.Save(user).Error; err != nil {
		logger.Errorf("Failed to update profile: %v", err)
		return echo.ErrInternalServerError
	}

	return c.JSON(http.StatusOK, GetUserResponse{
		AccountID:         user.AccountID,
		Name:              user.Name,
		Email:             user.Email,
		CPF:               cpf.Format(user.CPF),
		CEP:               cep.Format(user.CEP),
		City:              user.City,
		Street:            user.Street,
		Neighborhood:      user.Neighborhood,
		AddressComplement: user.AddressComplement,
		BirthDate:         user.BirthDate.Format("2006-01-02"),
		IsEmailVerified:   user.IsEmailVerified,
		ProfileComplete:   user.ProfileComplete,
		Message:           "Profile updated successfully",
	})
}

// CEPLookupHandler godoc
// @Summary      Resolve a CEP to an address
// @Description  Looks up a postal code for address autofill during signup or profile editing.
// @Tags         users
// @Produce      json
// @Param        code  path  string  true  "CEP, with or without punctuation"
// @Success      200 {object} CEPLookupResponse "Address resolved"
// @Failure      400 {object} echo.HTTPError     "Malformed CEP"
// @Failure      404 {object} echo.HTTPError     "Unknown CEP"
// @Failure      502 {object} echo.HTTPError     "Lookup service unavailable"
// @Router       /v1/cep/{code} [get]
func (h *Handler) CEPLookupHandler(c echo.Context) error {
	logger := c.Logger()

	code := c.Param("code")
	if !cep.ValidateFormat(code) {
		logger.Error("CEP validation failed.")
		return &echo.HTTPError{
			Code:    http.StatusBadRequest,
			Message: "CEP must have exactly 8 digits",
		}
	}

	addr, err := h.CEP.Lookup(c.Request().Context(), code)
	if err != nil {
		if errors.Is(err, cep.ErrNotFound) {
			return &echo.HTTPError{
				Code:    http.StatusNotFound,
				Message: "No address found for this CEP",
			}
		}
		logger.Errorf("CEP lookup failed: %v", err)
		return &echo.HTTPError{
			Code:    http.StatusBadGateway,
			Message: "Address lookup is unavailable right now, please try again",
		}
	}

	return c.JSON(http.StatusOK, CEPLookupResponse{
		CEP:          cep.Format(addr.CEP),
		Street:       addr.Street,
		Neighborhood: addr.Neighborhood,
		City:         addr.City,
		State:        addr.State,
	})
}
