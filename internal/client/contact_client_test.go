package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"contact-service/internal/model"
	"contact-service/internal/validation"
)

func TestListContacts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/tenants/1/contacts" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":1,"tenant_id":1,"name":"Amy","email":"amy@x.com"}]`))
	}))
	defer server.Close()

	c := NewContactClient(server.URL)
	contacts, err := c.ListContacts(context.Background(), 1)
	if err != nil {
		t.Fatalf("list contacts: %v", err)
	}
	if len(contacts) != 1 || contacts[0].Name != "Amy" || contacts[0].TenantID != 1 {
		t.Fatalf("unexpected contacts: %+v", contacts)
	}
}

func TestCreateContactSendsJSONBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/tenants/2/contacts" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected content type %q", ct)
		}
		var in validation.ContactInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(model.Contact{ID: 7, TenantID: 2, Name: in.Name, Email: in.Email})
	}))
	defer server.Close()

	c := NewContactClient(server.URL)
	created, err := c.CreateContact(context.Background(), 2, validation.ContactInput{Name: "Jo", Email: "jo@x.com"})
	if err != nil {
		t.Fatalf("create contact: %v", err)
	}
	if created.ID != 7 || created.TenantID != 2 || created.Name != "Jo" {
		t.Fatalf("unexpected contact: %+v", created)
	}
}

func TestAPIErrorCarriesServerMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Contact not found"}`))
	}))
	defer server.Close()

	c := NewContactClient(server.URL)
	err := c.DeleteContact(context.Background(), 999999)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusNotFound || apiErr.Message != "Contact not found" {
		t.Fatalf("unexpected api error: %+v", apiErr)
	}
}

func TestUnreachableServerIsDistinguished(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // nothing is listening anymore

	c := NewContactClient(server.URL)
	_, err := c.ListContacts(context.Background(), 1)
	if !errors.Is(err, ErrServerUnreachable) {
		t.Fatalf("expected ErrServerUnreachable, got %v", err)
	}

	// An application-level error is NOT an unreachable error
	live := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"message":"Failed to fetch contacts"}`))
	}))
	defer live.Close()

	c = NewContactClient(live.URL)
	_, err = c.ListContacts(context.Background(), 1)
	if errors.Is(err, ErrServerUnreachable) {
		t.Fatalf("application error must not be wrapped as unreachable: %v", err)
	}
}

func TestHealth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	c := NewContactClient(server.URL)
	if err := c.Health(context.Background()); err != nil {
		t.Fatalf("health: %v", err)
	}

	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"ok":false,"error":"Database unreachable"}`))
	}))
	defer down.Close()

	c = NewContactClient(down.URL)
	err := c.Health(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.Message != "Database unreachable" {
		t.Fatalf("unexpected message %q", apiErr.Message)
	}
}
