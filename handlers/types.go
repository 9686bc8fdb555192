// SPDX-License-Identifier: GPL-3.0-only

package handlers

// swagger:model SignupRequest
type SignupRequest struct {
	// User's full name
	// required: true
	Name string `json:"name" example:"Maria Silva"`
	// User's email address
	// required: true
	Email string `json:"email" example:"maria@example.com"`
	// User's password
	// required: true
	Password string `json:"password" example:"MySecretPassword@123"`
	// User's CPF, with or without punctuation
	// required: true
	CPF string `json:"cpf" example:"529.982.247-25"`
	// User's CEP, with or without punctuation
	// required: true
	CEP string `json:"cep" example:"01310-100"`
	// City resolved for the CEP
	City string `json:"city" example:"São Paulo"`
	// Street address
	Street string `json:"street" example:"Avenida Paulista"`
	// Neighborhood
	Neighborhood string `json:"neighborhood" example:"Bela Vista"`
	// Optional address complement
	AddressComplement string `json:"address_complement" example:"Apto 42"`
	// Birth date in YYYY-MM-DD format
	// required: true
	BirthDate string `json:"birth_date" example:"1990-05-01"`
}

// swagger:model AuthResponse
type AuthResponse struct {
	// Authentication session token
	// This token is used for subsequent authenticated requests.
	// It should be stored securely by the client.
	// Should be used in the Authorization header as a Bearer token.
	SessionToken string `json:"session_token" example:"sample_session_token"`
	// Message indicating successful operation
	Message string `json:"message" example:"Operation successful"`
}

// swagger:model LoginRequest
type LoginRequest struct {
	// User's email address
	Email string `json:"email" example:"maria@example.com"`
	// User's password
	Password string `json:"password" example:"MySecretPassword@123"`
}

// swagger:model VerifyEmailRequest
type VerifyEmailRequest struct {
	// Email the token was issued for
	Email string `json:"email" example:"maria@example.com"`
	// Verification token received by email
	Token string `json:"token" example:"evt_6a1f..."`
}

// swagger:model ResendVerificationRequest
type ResendVerificationRequest struct {
	// Email to resend the verification token to
	Email string `json:"email" example:"maria@example.com"`
}

// swagger:model GetUserResponse
type GetUserResponse struct {
	// Unique identifier for the user
	AccountID string `json:"account_id" example:"acct_1234567890"`
	// Full name of the user
	Name string `json:"name" example:"Maria Silva"`
	// Email address associated with the user's account
	Email string `json:"email" example:"maria@example.com"`
	// CPF formatted with punctuation
	CPF string `json:"cpf" example:"529.982.247-25"`
	// CEP formatted with punctuation
	CEP string `json:"cep" example:"01310-100"`
	// City
	City string `json:"city" example:"São Paulo"`
	// Street address
	Street string `json:"street" example:"Avenida Paulista"`
	// Neighborhood
	Neighborhood string `json:"neighborhood" example:"Bela Vista"`
	// Address complement
	AddressComplement string `json:"address_complement" example:"Apto 42"`
	// Birth date in YYYY-MM-DD format
	BirthDate string `json:"birth_date" example:"1990-05-01"`
	// Whether the user's email is verified
	IsEmailVerified bool `json:"is_email_verified" example:"true"`
	// Whether all profile fields are filled in
	ProfileComplete bool `json:"profile_complete" example:"true"`
	// Message indicating successful retrieval
	Message string `json:"message" example:"User retrieved successfully"`
}

// swagger:model UpdateProfileRequest
type UpdateProfileRequest struct {
	// New full name
	Name *string `json:"name" example:"Maria Silva"`
	// New CEP, with or without punctuation
	CEP *string `json:"cep" example:"01310-100"`
	// New city
	City *string `json:"city" example:"São Paulo"`
	// New street address
	Street *string `json:"street" example:"Avenida Paulista"`
	// New neighborhood
	Neighborhood *string `json:"neighborhood" example:"Bela Vista"`
	// New address complement
	AddressComplement *string `json:"address_complement" example:"Apto 42"`
}

// swagger:model CEPLookupResponse
type CEPLookupResponse struct {
	// CEP formatted with punctuation
	CEP string `json:"cep" example:"01310-100"`
	// Street resolved for the CEP
	Street string `json:"street" example:"Avenida Paulista"`
	// Neighborhood resolved for the CEP
	Neighborhood string `json:"neighborhood" example:"Bela Vista"`
	// City resolved for the CEP
	City string `json:"city" example:"São Paulo"`
	// State abbreviation resolved for the CEP
	State string `json:"state" example:"SP"`
}

// swagger:model CreateDonationRequest
type CreateDonationRequest struct {
	// Name of the donated item
	// required: true
	Name string `json:"name" example:"Cesta básica"`
	// Description of the donation, up to 500 characters
	Description string `json:"description" example:"Arroz, feijão e óleo."`
	// Up to two base64-encoded JPEG photos
	Photos []string `json:"photos"`
}

// swagger:model DonationDetails
type DonationDetails struct {
	// Public ID of the donation
	DonationID string `json:"donation_id" example:"don_jkdfkjdfkdfjkd"`
	// Name of the donated item
	Name string `json:"name" example:"Cesta básica"`
	// Description of the donation
	Description string `json:"description" example:"Arroz, feijão e óleo."`
	// Base64-encoded photos
	Photos []string `json:"photos,omitempty"`
	// Name of the donor
	DonorName string `json:"donor_name" example:"Maria Silva"`
	// City the donation is offered in
	City string `json:"city" example:"São Paulo"`
	// Timestamp of when the donation was published
	CreatedAt string `json:"created_at" example:"2023-10-01T12:00:00Z"`
}

// swagger:model CreateDonationResponse
type CreateDonationResponse struct {
	// The created donation
	Donation DonationDetails `json:"donation"`
	// Message indicating successful creation
	Message string `json:"message" example:"Donation published successfully"`
}

// swagger:model PaginationDetails
type PaginationDetails struct {
	// Current page number
	Page int `json:"page"`
	// Page size
	PageSize int `json:"page_size"`
	// Total number of items
	Total int64 `json:"total"`
	// Total number of pages
	TotalPages int `json:"total_pages"`
}

// swagger:model DonationListResponse
type DonationListResponse struct {
	// List of donations, newest first
	Data []DonationDetails `json:"data"`
	// Pagination details
	Pagination PaginationDetails `json:"pagination"`
	// Message indicating successful retrieval
	Message string `json:"message" example:"Donations retrieved successfully"`
}

// swagger:model EventDetails
type EventDetails struct {
	// Public ID of the event
	EID string `json:"eid" example:"d9f0c1ce-5c71-4c47-8d89-4d44ad34c4a0"`
	// Event category
	Category string `json:"category" example:"AUTH"`
	// Event status
	Status string `json:"status" example:"SUCCEEDED"`
	// Human-readable description
	Description string `json:"description" example:"User logged in"`
	// Timestamp of when the event was recorded
	CreatedAt string `json:"created_at" example:"2023-10-01T12:00:00Z"`
}

// swagger:model EventListResponse
type EventListResponse struct {
	// List of events, newest first
	Data []EventDetails `json:"data"`
	// Pagination details
	Pagination PaginationDetails `json:"pagination"`
	// Message indicating successful retrieval
	Message string `json:"message" example:"Events retrieved successfully"`
}

// swagger:model GenericResponse
type GenericResponse struct {
	// Message indicating the result of the operation
	Message string `json:"message" example:"Operation successful"`
}
