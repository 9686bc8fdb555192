// SPDX-License-Identifier: GPL-3.0-only

package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/mail"
	"time"

	"alimenta-server/cep"
	"alimenta-server/commons"
	"alimenta-server/cpf"
	"alimenta-server/crypto"
	"alimenta-server/models"
	"alimenta-server/passwordcheck"
	"alimenta-server/verification"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// SignupHandler godoc
// @Summary      Register a new user
// @Description  Creates a new user account, issues an email verification token, and returns a session token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        signupRequest  body  SignupRequest  true  "Signup request payload"
// @Success      201 {object} AuthResponse 	 "Signup successful"
// @Failure      400 {object} echo.HTTPError     "Bad request, missing or invalid fields"
// @Failure      409 {object} echo.HTTPError     "Duplicate CPF or email"
// @Failure      500 {object} echo.HTTPError     "Internal server error"
// @Router       /v1/auth/signup [post]
func (h *Handler) SignupHandler(c echo.Context) error {
	logger := c.Logger()

	var req SignupRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid signup request payload:", err)
		return echo.ErrBadRequest
	}

	if req.Email == "" {
		logger.Error("Email is required.")
		return &echo.HTTPError{
			Code:    http.StatusBadRequest,
			Message: "email field is required",
		}
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		logger.Error("Email is malformed.")
		return &echo.HTTPError{
			Code:    http.StatusBadRequest,
			Message: "email address is not valid",
		}
	}

	if req.Password == "" {
		logger.Error("Password is required.")
		return &echo.HTTPError{
			Code:    http.StatusBadRequest,
			Message: "password field is required",
		}
	}

	if err := passwordcheck.ValidatePassword(c.Request().Context(), req.Password); err != nil {
		logger.Error("Password validation failed: ", err)
		return &echo.HTTPError{
			Code:    http.StatusBadRequest,
			Message: fmt.Sprintf("Invalid password: %v", err.Error()),
		}
	}

	if err := validateName(req.Name); err != nil {
		logger.Error("Name validation failed: ", err)
		return &echo.HTTPError{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		}
	}

	if !cpf.Validate(req.CPF) {
		logger.Error("CPF validation failed.")
		return &echo.HTTPError{
			Code:    http.StatusBadRequest,
			Message: "CPF is not valid",
		}
	}

	if !cep.ValidateFormat(req.CEP) {
		logger.Error("CEP validation failed.")
		return &echo.HTTPError{
			Code:    http.StatusBadRequest,
			Message: "CEP must have exactly 8 digits",
		}
	}

	birthDate, err := validateBirthDate(req.BirthDate)
	if err != nil {
		logger.Error("Birth date validation failed: ", err)
		return &echo.HTTPError{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		}
	}

	for field, value := range map[string]string{
		"city":         req.City,
		"street":       req.Street,
		"neighborhood": req.Neighborhood,
	} {
		if err := validateAddressField(field, value, true); err != nil {
			logger.Error("Address validation failed: ", err)
			return &echo.HTTPError{
				Code:    http.StatusBadRequest,
				Message: err.Error(),
			}
		}
	}
	if err := validateAddressField("address_complement", req.AddressComplement, false); err != nil {
		logger.Error("Address validation failed: ", err)
		return &echo.HTTPError{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		}
	}

	cpfDigits := cpf.Digits(req.CPF)

	count := h.DB.Where("email = ?", req.Email).First(&models.User{}).RowsAffected
	if count > 0 {
		logger.Errorf("This email is already registered.")
		return &echo.HTTPError{
			Code:    http.StatusConflict,
			Message: "This email is already registered, please try another one.",
		}
	}

	count = h.DB.Where("cpf = ?", cpfDigits).First(&models.User{}).RowsAffected
	if count > 0 {
		logger.Errorf("This CPF is already registered.")
		return &echo.HTTPError{
			Code:    http.StatusConflict,
			Message: "This CPF is already registered.",
		}
	}

	hash, err := h.Crypto.HashPassword(req.Password)
	if err != nil {
		logger.Errorf("Failed to hash password: %v", err)
		return echo.ErrInternalServerError
	}

	aid, err := crypto.GenerateRandomString("acct_", 16, "hex")
	if err != nil {
		logger.Errorf("Failed to generate account ID: %v", err)
		return echo.ErrInternalServerError
	}

	user := models.User{
		AccountID:         aid,
		Name:              req.Name,
		Email:             req.Email,
		Password:          hash,
		CPF:               cpfDigits,
		CEP:               cep.Digits(req.CEP),
		City:              req.City,
		Street:            req.Street,
		Neighborhood:      req.Neighborhood,
		AddressComplement: req.AddressComplement,
		BirthDate:         birthDate,
		ProfileComplete:   true,
	}

	// The pre-checks above race with concurrent signups; the unique indexes
	// on email and cpf make the Create the authoritative check.
	if err := h.DB.Create(&user).Error; err != nil {
		logger.Errorf("Failed to create user: %v", err)
		return &echo.HTTPError{
			Code:    http.StatusConflict,
			Message: "An account with this email or CPF already exists.",
		}
	}

	record, err := h.Verification.Generate(user.Email)
	if err != nil {
		logger.Errorf("Failed to issue verification token: %v", err)
		return echo.ErrInternalServerError
	}
	h.Verification.SendVerification(&user, record.Token)

	h.logEvent(c, user.ID, models.CategoryAuth, models.StatusSucceeded, "Account created")

	tokenString, err := h.createSession(&user)
	if err != nil {
		logger.Errorf("Failed to create session: %v", err)
		return echo.ErrInternalServerError
	}

	logger.Infof("User signed up successfully")
	return c.JSON(http.StatusCreated, AuthResponse{SessionToken: tokenString, Message: "Signup successful"})
}

// LoginHandler godoc
// @Summary      Login a user
// @Description  Authenticates a user and returns a token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        loginRequest  body  LoginRequest  true  "Login request payload"
// @Success      200 {object} AuthResponse 	 "Login successful"
// @Failure      400 {object} echo.HTTPError     "Bad request, missing required fields"
// @Failure      401 {object} echo.HTTPError     "Unauthorized"
// @Failure      500 {object} echo.HTTPError     "Internal server error"
// @Router       /v1/auth/login [post]
func (h *Handler) LoginHandler(c echo.Context) error {
	logger := c.Logger()

	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid login request payload:", err)
		return echo.ErrBadRequest
	}

	if req.Email == "" {
		logger.Error("Email is required.")
		return &echo.HTTPError{
			Code:    http.StatusBadRequest,
			Message: "email field is required",
		}
	}

	if req.Password == "" {
		logger.Error("Password is required.")
		return &echo.HTTPError{
			Code:    http.StatusBadRequest,
			Message: "password field is required",
		}
	}

	user := models.User{}
	err := h.DB.Where("email = ?", req.Email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Error("User not found.")
			return &echo.HTTPError{
				Code:    http.StatusUnauthorized,
				Message: "Credentials are incorrect, please check your email and password",
			}
		}

		logger.Errorf("Failed to find user: %v", err)
		return echo.ErrInternalServerError
	}

	if err := h.Crypto.VerifyPassword(req.Password, user.Password); err != nil {
		logger.Error("Password verification failed.")
		h.logEvent(c, user.ID, models.CategoryAuth, models.StatusFailed, "Login rejected: wrong password")
		return &echo.HTTPError{
			Code:    http.StatusUnauthorized,
			Message: "Credentials are incorrect, please check your email and password",
		}
	}

	tokenString, err := h.createSession(&user)
	if err != nil {
		logger.Errorf("Failed to create session: %v", err)
		return echo.ErrInternalServerError
	}

	h.logEvent(c, user.ID, models.CategoryAuth, models.StatusSucceeded, "User logged in")
	return c.JSON(http.StatusOK, AuthResponse{SessionToken: tokenString, Message: "Login successful"})
}

// createSession upserts the user's DB session and signs the JWT that
// references it.
func (h *Handler) createSession(user *models.User) (string, error) {
	sessionToken, err := crypto.GenerateRandomString("st_long_", 32, "hex")
	if err != nil {
		return "", err
	}

	sessionExp := time.Now().Add(30 * 24 * time.Hour)
	sessionLastUsed := time.Now()
	session := models.Session{}

	if err := h.DB.Where("user_id = ?", user.ID).Assign(models.Session{
		Token:      sessionToken,
		LastUsedAt: &sessionLastUsed,
		ExpiresAt:  &sessionExp,
	}).FirstOrCreate(&session).Error; err != nil {
		return "", err
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iss": "https://alimentamais.com",
		"iat": time.Now().Unix(),
		"sub": user.AccountID,
		"aud": "https://api.alimentamais.com",
		"jti": sessionToken,
		"sid": session.ID,
		"uid": user.ID,
		"exp": session.ExpiresAt.Unix(),
	})
	return token.SignedString([]byte(commons.GetEnv("JWT_SECRET", "default_very_secret_key")))
}

// LogoutHandler godoc
// @Summary      Logout a user
// @Description  Deletes the current session, invalidating its token.
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Param        Authorization  header  string  true  "Bearer token for authentication. Replace <your_token_here> with a valid token."  default(Bearer <your_token_here>)
// @Success      200 {object} GenericResponse "Logout successful"
// @Failure      401 {object} echo.HTTPError     "Unauthorized, invalid or expired session token"
// @Failure      500 {object} echo.HTTPError     "Internal server error"
// @Router       /v1/auth/logout [post]
func (h *Handler) LogoutHandler(c echo.Context) error {
	logger := c.Logger()

	session, ok := c.Get("session").(models.Session)
	if !ok {
		logger.Error("Current session not found.")
		return &echo.HTTPError{
			Code:    http.StatusUnauthorized,
			Message: "Invalid or expired authentication token, please login again",
		}
	}

	if err := h.DB.Unscoped().Delete(&session).Error; err != nil {
		logger.Errorf("Failed to delete session: %v", err)
		return echo.ErrInternalServerError
	}

	logger.Infof("Session %d deleted successfully", session.ID)
	return c.JSON(http.StatusOK, GenericResponse{Message: "Logout successful"})
}

// VerifyEmailHandler godoc
// @Summary      Verify an email address
// @Description  Redeems a verification token, marking the account's email as verified.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        verifyEmailRequest  body  VerifyEmailRequest  true  "Verification payload"
// @Success      200 {object} GenericResponse "Email verified"
// @Failure      400 {object} echo.HTTPError     "Token mismatch, already used, or expired"
// @Failure      404 {object} echo.HTTPError     "Token not found"
// @Failure      500 {object} echo.HTTPError     "Internal server error"
// @Router       /v1/auth/verify-email [post]
func (h *Handler) VerifyEmailHandler(c echo.Context) error {
	logger := c.Logger()

	var req VerifyEmailRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid verification request payload:", err)
		return echo.ErrBadRequest
	}

	if req.Email == "" || req.Token == "" {
		logger.Error("Email and token are required.")
		return &echo.HTTPError{
			Code:    http.StatusBadRequest,
			Message: "email and token fields are required",
		}
	}

	if err := h.Verification.Verify(req.Email, req.Token); err != nil {
		logger.Error("Verification failed: ", err)
		switch {
		case errors.Is(err, verification.ErrTokenNotFound):
			return &echo.HTTPError{
				Code:    http.StatusNotFound,
				Message: "Verification token not found",
			}
		case errors.Is(err, verification.ErrEmailMismatch):
			return &echo.HTTPError{
				Code:    http.StatusBadRequest,
				Message: "This token was issued for a different email",
			}
		case errors.Is(err, verification.ErrTokenUsed):
			return &echo.HTTPError{
				Code:    http.StatusBadRequest,
				Message: "This token has already been used",
			}
		case errors.Is(err, verification.ErrTokenExpired):
			return &echo.HTTPError{
				Code:    http.StatusBadRequest,
				Message: "This token has expired, please request a new one",
			}
		default:
			return echo.ErrInternalServerError
		}
	}

	var user models.User
	if err := h.DB.Where("email = ?", req.Email).First(&user).Error; err == nil {
		h.logEvent(c, user.ID, models.CategoryVerification, models.StatusSucceeded, "Email verified")
	}

	return c.JSON(http.StatusOK, GenericResponse{Message: "Email verified successfully"})
}

// ResendVerificationHandler godoc
// @Summary      Resend the verification email
// @Description  Issues a fresh verification token for an unverified account, at most once per minute.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        resendVerificationRequest  body  ResendVerificationRequest  true  "Resend payload"
// @Success      200 {object} GenericResponse "Verification email sent"
// @Failure      404 {object} echo.HTTPError     "No account for this email"
// @Failure      409 {object} echo.HTTPError     "Email already verified"
// @Failure      429 {object} echo.HTTPError     "Resend requested too soon"
// @Failure      500 {object} echo.HTTPError     "Internal server error"
// @Router       /v1/auth/resend-verification [post]
func (h *Handler) ResendVerificationHandler(c echo.Context) error {
	logger := c.Logger()

	var req ResendVerificationRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid resend request payload:", err)
		return echo.ErrBadRequest
	}

	if req.Email == "" {
		logger.Error("Email is required.")
		return &echo.HTTPError{
			Code:    http.StatusBadRequest,
			Message: "email field is required",
		}
	}

	if err := h.Verification.Resend(req.Email); err != nil {
		logger.Error("Resend failed: ", err)
		switch {
		case errors.Is(err, verification.ErrUserNotFound):
			return &echo.HTTPError{
				Code:    http.StatusNotFound,
				Message: "No account is registered for this email",
			}
		case errors.Is(err, verification.ErrAlreadyVerified):
			return &echo.HTTPError{
				Code:    http.StatusConflict,
				Message: "This email is already verified",
			}
		case errors.Is(err, verification.ErrResendCooldown):
			return &echo.HTTPError{
				Code:    http.StatusTooManyRequests,
				Message: "A verification email was sent moments ago, please wait before trying again",
			}
		default:
			return echo.ErrInternalServerError
		}
	}

	return c.JSON(http.StatusOK, GenericResponse{Message: "Verification email sent"})
}
