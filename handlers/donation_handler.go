// SPDX-License-Identifier: GPL-3.0-only

package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"alimenta-server/crypto"
	"alimenta-server/models"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// CreateDonationHandler godoc
// @Summary      Publish a donation
// @Description  Creates a donation listing owned by the authenticated user. Listings are immutable once published.
// @Tags         donations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Authorization  header  string  true  "Bearer token for authentication. Replace <your_token_here> with a valid token."  default(Bearer <your_token_here>)
// @Param        createDonationRequest  body  CreateDonationRequest  true  "Donation payload"
// @Success      201 {object} CreateDonationResponse "Donation published successfully"
// @Failure      400 {object} echo.HTTPError     "Bad request, missing or invalid fields"
// @Failure      401 {object} echo.HTTPError     "Unauthorized, invalid or expired session token"
// @Failure      500 {object} echo.HTTPError     "Internal server error"
// @Router       /v1/donations [post]
func (h *Handler) CreateDonationHandler(c echo.Context) error {
	logger := c.Logger()

	user, err := h.Auth.GetAuthenticatedUser(c)
	if err != nil {
		logger.Error("Failed to get authenticated user:", err)
		return &echo.HTTPError{
			Code:    http.StatusUnauthorized,
			Message: "Invalid or expired authentication token, please login again",
		}
	}

	var req CreateDonationRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid donation request payload:", err)
		return echo.ErrBadRequest
	}

	if strings.TrimSpace(req.Name) == "" {
		logger.Error("Donation name is required.")
		return &echo.HTTPError{
			Code:    http.StatusBadRequest,
			Message: "name field is required",
		}
	}

	if len([]rune(req.Description)) > maxDescriptionLength {
		logger.Error("Donation description too long.")
		return &echo.HTTPError{
			Code:    http.StatusBadRequest,
			Message: "description must be at most 500 characters",
		}
	}

	photos, err := validatePhotos(req.Photos)
	if err != nil {
		logger.Error("Photo validation failed: ", err)
		return &echo.HTTPError{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		}
	}

	did, err := crypto.GenerateRandomString("don_", 16, "hex")
	if err != nil {
		logger.Errorf("Failed to generate donation ID: %v", err)
		return echo.ErrInternalServerError
	}

	donation := models.Donation{
		DonationID:  did,
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		UserID:      user.ID,
	}
	if len(photos) > 0 {
		encoded, err := json.Marshal(photos)
		if err != nil {
			logger.Errorf("Failed to serialize photos: %v", err)
			return echo.ErrInternalServerError
		}
		donation.Photos = encoded
	}

	if err := h.DB.Create(&donation).Error; err != nil {
		logger.Errorf("Failed to create donation: %v", err)
		return echo.ErrInternalServerError
	}
	donation.User = *user

	h.logEvent(c, user.ID, models.CategoryDonation, models.StatusSucceeded, "Donation published")

	logger.Infof("Donation %s published successfully", donation.DonationID)
	return c.JSON(http.StatusCreated, CreateDonationResponse{
		Donation: donationDetails(&donation),
		Message:  "Donation published successfully",
	})
}

// ListDonationsHandler godoc
// @Summary      Browse donations
// @Description  Lists published donations, newest first. Pass the name query parameter to filter by item name.
// @Tags         donations
// @Produce      json
// @Param        name      query   string  false  "Case-insensitive name filter"
// @Param        page      query   int     false  "Page number (default 1)"
// @Param        page_size query   int     false  "Page size (default 10, max 100)"
// @Success      200 {object} DonationListResponse "Paginated list of donations"
// @Failure      500 {object} echo.HTTPError     "Internal server error"
// @Router       /v1/donations [get]
func (h *Handler) ListDonationsHandler(c echo.Context) error {
	return h.listDonations(c, nil)
}

// DonationHistoryHandler godoc
// @Summary      List own donations
// @Description  Lists the authenticated user's published donations, newest first.
// @Tags         donations
// @Produce      json
// @Security     BearerAuth
// @Param        Authorization  header  string  true  "Bearer token for authentication. Replace <your_token_here> with a valid token."  default(Bearer <your_token_here>)
// @Param        page      query   int     false  "Page number (default 1)"
// @Param        page_size query   int     false  "Page size (default 10, max 100)"
// @Success      200 {object} DonationListResponse "Paginated list of the user's donations"
// @Failure      401 {object} echo.HTTPError     "Unauthorized, invalid or expired session token"
// @Failure      500 {object} echo.HTTPError     "Internal server error"
// @Router       /v1/donations/history [get]
func (h *Handler) DonationHistoryHandler(c echo.Context) error {
	user, err := h.Auth.GetAuthenticatedUser(c)
	if err != nil {
		c.Logger().Error("Failed to get authenticated user:", err)
		return &echo.HTTPError{
			Code:    http.StatusUnauthorized,
			Message: "Invalid or expired authentication token, please login again",
		}
	}
	return h.listDonations(c, &user.ID)
}

func (h *Handler) listDonations(c echo.Context, ownerID *uint) error {
	logger := c.Logger()

	page, pageSize := paginationParams(c)

	query := h.DB.Model(&models.Donation{})
	if ownerID != nil {
		query = query.Where("user_id = ?", *ownerID)
	}
	if name := strings.TrimSpace(c.QueryParam("name")); name != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(name)+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.Errorf("Failed to count donations: %v", err)
		return echo.ErrInternalServerError
	}

	offset := (page - 1) * pageSize
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))

	var donations []models.Donation
	if err := query.Preload("User").
		Order("created_at DESC").
		Limit(pageSize).
		Offset(offset).
		Find(&donations).Error; err != nil {
		logger.Errorf("Failed to fetch donations: %v", err)
		return echo.ErrInternalServerError
	}

	details := make([]DonationDetails, 0, len(donations))
	for i := range donations {
		details = append(details, donationDetails(&donations[i]))
	}

	return c.JSON(http.StatusOK, DonationListResponse{
		Data: details,
		Pagination: PaginationDetails{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
		},
		Message: "Donations retrieved successfully",
	})
}

// GetDonationHandler godoc
// @Summary      Get a donation
// @Description  Retrieves a single donation by its public ID.
// @Tags         donations
// @Produce      json
// @Param        donation_id  path  string  true  "Public donation ID"
// @Success      200 {object} DonationDetails "Donation retrieved successfully"
// @Failure      404 {object} echo.HTTPError     "Donation not found"
// @Failure      500 {object} echo.HTTPError     "Internal server error"
// @Router       /v1/donations/{donation_id} [get]
func (h *Handler) GetDonationHandler(c echo.Context) error {
	logger := c.Logger()

	donationID := c.Param("donation_id")
	donation := models.Donation{}
	err := h.DB.Preload("User").Where("donation_id = ?", donationID).First(&donation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &echo.HTTPError{
				Code:    http.StatusNotFound,
				Message: "Donation not found",
			}
		}
		logger.Errorf("Failed to fetch donation: %v", err)
		return echo.ErrInternalServerError
	}

	return c.JSON(http.StatusOK, donationDetails(&donation))
}

func donationDetails(donation *models.Donation) DonationDetails {
	detail := DonationDetails{
		DonationID:  donation.DonationID,
		Name:        donation.Name,
		Description: donation.Description,
		DonorName:   donation.User.Name,
		City:        donation.User.City,
		CreatedAt:   donation.CreatedAt.Format(time.RFC3339),
	}
	if len(donation.Photos) > 0 {
		var photos []string
		if err := json.Unmarshal(donation.Photos, &photos); err == nil {
			detail.Photos = photos
		}
	}
	return detail
}
