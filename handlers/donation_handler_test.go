// SPDX-License-Identifier: GPL-3.0-only

package handlers

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"alimenta-server/models"

	"github.com/labstack/echo/v4"
)

var testCPFs = map[string]string{
	"maria@example.com": "52998224725",
	"joao@example.com":  "16899535009",
}

func seedUser(t *testing.T, h *Handler, email, name string) (*models.User, models.Session) {
	t.Helper()
	user := &models.User{
		AccountID:       "acct_" + email,
		Name:            name,
		Email:           email,
		Password:        "hash",
		CPF:             testCPFs[email],
		CEP:             "01310100",
		City:            "São Paulo",
		Street:          "Avenida Paulista",
		Neighborhood:    "Bela Vista",
		BirthDate:       time.Date(1990, 5, 1, 0, 0, 0, 0, time.UTC),
		IsEmailVerified: true,
		ProfileComplete: true,
	}
	if err := h.DB.Create(user).Error; err != nil {
		t.Fatalf("Failed to seed user: %v", err)
	}

	exp := time.Now().Add(time.Hour)
	session := models.Session{Token: "st_long_" + email, ExpiresAt: &exp, UserID: user.ID}
	if err := h.DB.Create(&session).Error; err != nil {
		t.Fatalf("Failed to seed session: %v", err)
	}
	return user, session
}

func doAuthedJSON(t *testing.T, e *echo.Echo, handler echo.HandlerFunc, session models.Session, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("session", session)
	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestCreateDonationHandler(t *testing.T) {
	h, e := newTestHandler(t)
	_, session := seedUser(t, h, "maria@example.com", "Maria Silva")

	photo := base64.StdEncoding.EncodeToString([]byte("jpeg-bytes"))
	body := `{"name": "Cesta básica", "description": "Arroz e feijão.", "photos": ["` + photo + `"]}`

	rec := doAuthedJSON(t, e, h.CreateDonationHandler, session, http.MethodPost, "/v1/donations", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp CreateDonationResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if !strings.HasPrefix(resp.Donation.DonationID, "don_") {
		t.Errorf("Expected don_ prefix, got %s", resp.Donation.DonationID)
	}
	if resp.Donation.DonorName != "Maria Silva" {
		t.Errorf("Expected donor name, got %s", resp.Donation.DonorName)
	}
	if len(resp.Donation.Photos) != 1 || resp.Donation.Photos[0] != photo {
		t.Errorf("Expected the photo back, got %v", resp.Donation.Photos)
	}
}

func TestCreateDonationHandlerValidation(t *testing.T) {
	h, e := newTestHandler(t)
	_, session := seedUser(t, h, "maria@example.com", "Maria Silva")

	cases := map[string]string{
		"missing name":    `{"description": "Sem nome"}`,
		"long desc":       `{"name": "Cesta", "description": "` + strings.Repeat("a", 501) + `"}`,
		"too many photos": `{"name": "Cesta", "photos": ["YQ==", "YQ==", "YQ=="]}`,
		"bad base64":      `{"name": "Cesta", "photos": ["not base64!!!"]}`,
	}
	for name, body := range cases {
		if rec := doAuthedJSON(t, e, h.CreateDonationHandler, session, http.MethodPost, "/v1/donations", body); rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", name, rec.Code)
		}
	}
}

func TestListDonationsHandler(t *testing.T) {
	h, e := newTestHandler(t)
	_, session := seedUser(t, h, "maria@example.com", "Maria Silva")

	base := time.Now().Add(-time.Hour)
	for i, name := range []string{"Cesta básica", "Leite em pó", "Cesta de frutas"} {
		body := `{"name": "` + name + `"}`
		if rec := doAuthedJSON(t, e, h.CreateDonationHandler, session, http.MethodPost, "/v1/donations", body); rec.Code != http.StatusCreated {
			t.Fatalf("Failed to create donation %q: %d", name, rec.Code)
		}
		// Space publication times out so ordering is unambiguous.
		if err := h.DB.Model(&models.Donation{}).Where("name = ?", name).
			Update("created_at", base.Add(time.Duration(i)*time.Minute)).Error; err != nil {
			t.Fatalf("Failed to set created_at: %v", err)
		}
	}

	rec := doJSON(t, e, h.ListDonationsHandler, http.MethodGet, "/v1/donations", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var resp DonationListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if resp.Pagination.Total != 3 {
		t.Errorf("Expected 3 donations, got %d", resp.Pagination.Total)
	}
	if len(resp.Data) != 3 || resp.Data[0].Name != "Cesta de frutas" {
		t.Errorf("Expected newest first, got %+v", resp.Data)
	}

	// Case-insensitive name filter.
	rec = doJSON(t, e, h.ListDonationsHandler, http.MethodGet, "/v1/donations?name=cesta", "", "")
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if resp.Pagination.Total != 2 {
		t.Errorf("Expected 2 matches for 'cesta', got %d", resp.Pagination.Total)
	}

	rec = doJSON(t, e, h.ListDonationsHandler, http.MethodGet, "/v1/donations?page=1&page_size=2", "", "")
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if len(resp.Data) != 2 || resp.Pagination.TotalPages != 2 {
		t.Errorf("Expected 2 items over 2 pages, got %d items, %d pages", len(resp.Data), resp.Pagination.TotalPages)
	}
}

func TestDonationHistoryHandler(t *testing.T) {
	h, e := newTestHandler(t)
	_, mariaSession := seedUser(t, h, "maria@example.com", "Maria Silva")
	_, joaoSession := seedUser(t, h, "joao@example.com", "João Souza")

	if rec := doAuthedJSON(t, e, h.CreateDonationHandler, mariaSession, http.MethodPost, "/v1/donations", `{"name": "Cesta básica"}`); rec.Code != http.StatusCreated {
		t.Fatalf("Failed to create donation: %d", rec.Code)
	}
	if rec := doAuthedJSON(t, e, h.CreateDonationHandler, joaoSession, http.MethodPost, "/v1/donations", `{"name": "Leite em pó"}`); rec.Code != http.StatusCreated {
		t.Fatalf("Failed to create donation: %d", rec.Code)
	}

	rec := doAuthedJSON(t, e, h.DonationHistoryHandler, mariaSession, http.MethodGet, "/v1/donations/history", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var resp DonationListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if len(resp.Data) != 1 || resp.Data[0].Name != "Cesta básica" {
		t.Errorf("Expected only Maria's donation, got %+v", resp.Data)
	}
}

func TestGetDonationHandler(t *testing.T) {
	h, e := newTestHandler(t)
	_, session := seedUser(t, h, "maria@example.com", "Maria Silva")

	rec := doAuthedJSON(t, e, h.CreateDonationHandler, session, http.MethodPost, "/v1/donations", `{"name": "Cesta básica"}`)
	var created CreateDonationResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/donations/"+created.Donation.DonationID, nil)
	w := httptest.NewRecorder()
	c := e.NewContext(req, w)
	c.SetParamNames("donation_id")
	c.SetParamValues(created.Donation.DonationID)
	if err := h.GetDonationHandler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/donations/don_missing", nil)
	w = httptest.NewRecorder()
	c = e.NewContext(req, w)
	c.SetParamNames("donation_id")
	c.SetParamValues("don_missing")
	if err := h.GetDonationHandler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", w.Code)
	}
}
