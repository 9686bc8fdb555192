// SPDX-License-Identifier: GPL-3.0-only

package cep

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFormat(t *testing.T) {
	if got := Format("01310100"); got != "01310-100" {
		t.Errorf("Expected 01310-100, got %s", got)
	}
	if got := Format("01310-100"); got != "01310-100" {
		t.Errorf("Expected 01310-100, got %s", got)
	}
	if got := Format("01310"); got != "01310" {
		t.Errorf("Expected 01310, got %s", got)
	}
}

func TestValidateFormat(t *testing.T) {
	valid := []string{"01310100", "01310-100", "01.310-100"}
	for _, v := range valid {
		if !ValidateFormat(v) {
			t.Errorf("Expected %q to be valid", v)
		}
	}

	invalid := []string{"", "0131010", "013101001", "abcdefgh"}
	for _, v := range invalid {
		if ValidateFormat(v) {
			t.Errorf("Expected %q to be invalid", v)
		}
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(srv.URL)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	return client, srv
}

func TestLookup(t *testing.T) {
	var requested string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requested = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"cep": "01310-100",
			"logradouro": "Avenida Paulista",
			"bairro": "Bela Vista",
			"localidade": "São Paulo",
			"uf": "SP"
		}`))
	})

	addr, err := client.Lookup(context.Background(), "01310-100")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}

	if requested != "/ws/01310100/json/" {
		t.Errorf("Unexpected request path: %s", requested)
	}
	if addr.CEP != "01310100" {
		t.Errorf("Expected digits-only CEP, got %s", addr.CEP)
	}
	if addr.Street != "Avenida Paulista" || addr.Neighborhood != "Bela Vista" {
		t.Errorf("Unexpected address: %+v", addr)
	}
	if addr.City != "São Paulo" || addr.State != "SP" {
		t.Errorf("Unexpected city/state: %+v", addr)
	}
}

func TestLookupUnknownCode(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"erro": true}`))
	})

	if _, err := client.Lookup(context.Background(), "99999999"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestLookupRejectsShortCode(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("Lookup should not issue a request for a short code")
	})

	if _, err := client.Lookup(context.Background(), "0131010"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestAutoLookupGuards(t *testing.T) {
	calls := 0
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"cep": "01310-100", "logradouro": "Avenida Paulista", "bairro": "Bela Vista", "localidade": "São Paulo", "uf": "SP"}`))
	})

	// Incomplete code: no request.
	if addr, err := client.AutoLookup(context.Background(), "01310"); addr != nil || err != nil {
		t.Errorf("Expected (nil, nil) for incomplete code, got (%v, %v)", addr, err)
	}
	if calls != 0 {
		t.Fatalf("Expected 0 calls, got %d", calls)
	}

	addr, err := client.AutoLookup(context.Background(), "01310-100")
	if err != nil || addr == nil {
		t.Fatalf("AutoLookup failed: (%v, %v)", addr, err)
	}
	if calls != 1 {
		t.Fatalf("Expected 1 call, got %d", calls)
	}

	// Same code again: guarded, no second request.
	if addr, err := client.AutoLookup(context.Background(), "01310100"); addr != nil || err != nil {
		t.Errorf("Expected (nil, nil) for already-fetched code, got (%v, %v)", addr, err)
	}
	if calls != 1 {
		t.Errorf("Expected 1 call after guard, got %d", calls)
	}
}
