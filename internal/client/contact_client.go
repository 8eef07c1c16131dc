// Package client provides a typed HTTP client for the contact service API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"contact-service/internal/model"
	"contact-service/internal/validation"
)

// ErrServerUnreachable marks transport-level failures (the service process is
// not reachable at all), as opposed to the service responding with an error.
var ErrServerUnreachable = errors.New("contact service unreachable")

// APIError is an error response delivered by the service itself.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// errorPayload covers both error body shapes the service emits:
// {message} on the contact routes, {error} on the health route.
type errorPayload struct {
	Message string `json:"message"`
	Err     string `json:"error"`
}

// healthResponse is the body of the health endpoint.
type healthResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// DeleteResponse is the confirmation payload of a delete.
type DeleteResponse struct {
	Message string `json:"message"`
}

// ContactClient communicates with the contact service over JSON/HTTP.
type ContactClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewContactClient creates a client for the given base URL, which should
// include the API prefix (e.g. http://localhost:8080/api).
func NewContactClient(baseURL string) *ContactClient {
	return &ContactClient{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// ListContacts fetches every contact of the tenant, ordered by name.
func (c *ContactClient) ListContacts(ctx context.Context, tenantID uint) ([]model.Contact, error) {
	var contacts []model.Contact
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/tenants/%d/contacts", tenantID), nil, &contacts); err != nil {
		return nil, err
	}
	return contacts, nil
}

// CreateContact creates a contact under the tenant and returns the stored
// record including its generated id.
func (c *ContactClient) CreateContact(ctx context.Context, tenantID uint, in validation.ContactInput) (*model.Contact, error) {
	var contact model.Contact
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/tenants/%d/contacts", tenantID), in, &contact); err != nil {
		return nil, err
	}
	return &contact, nil
}

// UpdateContact replaces the name and email of the contact and returns the
// updated record.
func (c *ContactClient) UpdateContact(ctx context.Context, id uint, in validation.ContactInput) (*model.Contact, error) {
	var contact model.Contact
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/contacts/%d", id), in, &contact); err != nil {
		return nil, err
	}
	return &contact, nil
}

// DeleteContact removes the contact.
func (c *ContactClient) DeleteContact(ctx context.Context, id uint) error {
	var resp DeleteResponse
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/contacts/%d", id), nil, &resp)
}

// Health probes the service health endpoint.
func (c *ContactClient) Health(ctx context.Context) error {
	var resp healthResponse
	return c.do(ctx, http.MethodGet, "/health", nil, &resp)
}

// do performs one request/response round trip. Transport failures are wrapped
// with ErrServerUnreachable; non-2xx responses become *APIError.
func (c *ContactClient) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrServerUnreachable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= http.StatusBadRequest {
		var payload errorPayload
		msg := fmt.Sprintf("Request failed (%d)", resp.StatusCode)
		if err := json.Unmarshal(raw, &payload); err == nil {
			if payload.Message != "" {
				msg = payload.Message
			} else if payload.Err != "" {
				msg = payload.Err
			}
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return err
		}
	}
	return nil
}
