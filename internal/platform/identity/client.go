package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Client calls the hosted identity provider's invitation API.
// It implements the invitation-service ProviderGateway port.
type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
	Logger     *slog.Logger
}

var ErrProviderUnavailable = errors.New("identity provider request failed")

func NewClient(baseURL, apiKey string, logger *slog.Logger) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		APIKey:     apiKey,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
		Logger:     logger,
	}
}

type createInvitationRequest struct {
	EmailAddress   string         `json:"email_address"`
	PublicMetadata map[string]any `json:"public_metadata,omitempty"`
}

type invitationResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// CreateInvitation issues a provider invitation carrying the tenant and role
// as public metadata so the webhook flow can recover them.
func (c *Client) CreateInvitation(ctx context.Context, email, tenantID, role string) (string, error) {
	payload, err := json.Marshal(createInvitationRequest{
		EmailAddress: email,
		PublicMetadata: map[string]any{
			"tenant_id": tenantID,
			"role":      role,
		},
	})
	if err != nil {
		return "", err
	}

	resp, err := c.do(ctx, http.MethodPost, "/v1/invitations", payload)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("%w: create invitation status %d", ErrProviderUnavailable, resp.StatusCode)
	}

	var out invitationResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode invitation response: %w", err)
	}
	return out.ID, nil
}

// RevokeInvitation revokes a provider invitation. A 404 from the provider is
// treated as already revoked.
func (c *Client) RevokeInvitation(ctx context.Context, providerInvitationID string) error {
	resp, err := c.do(ctx, http.MethodPost, "/v1/invitations/"+providerInvitationID+"/revoke", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNotFound:
		return nil
	default:
		return fmt.Errorf("%w: revoke invitation status %d", ErrProviderUnavailable, resp.StatusCode)
	}
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	var reader *bytes.Reader
	if body == nil {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		if c.Logger != nil {
			c.Logger.Error("identity provider request failed",
				"event", "identity_request_failed",
				"module", "internal/platform/identity",
				"layer", "platform",
				"method", method,
				"path", path,
				"error", err.Error(),
			)
		}
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	return resp, nil
}
