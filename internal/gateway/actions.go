package gateway

import (
	"context"
	"encoding/json"

	"github.com/spec-kit/admin-console/internal/domain"
	apperrors "github.com/spec-kit/admin-console/pkg/util"
)

// Login exchanges credentials for a (descriptor, token) pair. Sent without a
// token; credential verification happens backend-side.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	data, err := c.Call(ctx, "login", map[string]any{
		"username": username,
		"password": password,
	}, "")
	if err != nil {
		return nil, err
	}
	var result LoginResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, apperrors.NewNetworkFailure(err)
	}
	return &result, nil
}

// GetDashboardData loads the role-scoped summary entries for the token's
// identity.
func (c *Client) GetDashboardData(ctx context.Context, token string) ([]domain.DashboardEntry, error) {
	data, err := c.Call(ctx, "getDashboardData", nil, token)
	if err != nil {
		return nil, err
	}
	var entries []domain.DashboardEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, apperrors.NewNetworkFailure(err)
	}
	return entries, nil
}

// GetAdminData loads the attendance records plus the institution name map.
func (c *Client) GetAdminData(ctx context.Context, token string) (*AdminData, error) {
	data, err := c.Call(ctx, "getAdminData", nil, token)
	if err != nil {
		return nil, err
	}
	var result AdminData
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, apperrors.NewNetworkFailure(err)
	}
	return &result, nil
}

// GetActionLog loads the audit entries visible to the token's identity.
func (c *Client) GetActionLog(ctx context.Context, token string) ([]domain.ActionLogEntry, error) {
	data, err := c.Call(ctx, "getActionLog", nil, token)
	if err != nil {
		return nil, err
	}
	var entries []domain.ActionLogEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, apperrors.NewNetworkFailure(err)
	}
	return entries, nil
}

// AddUser creates a subordinate account.
func (c *Client) AddUser(ctx context.Context, token, username, password string, role domain.Role) error {
	_, err := c.Call(ctx, "addUser", map[string]any{
		"username": username,
		"password": password,
		"role":     role,
	}, token)
	return err
}

// ArchiveUser archives a subordinate account.
func (c *Client) ArchiveUser(ctx context.Context, token, id string) error {
	_, err := c.Call(ctx, "archiveUser", map[string]any{"id": id}, token)
	return err
}

// ImpersonateUser exchanges a subordinate id for a (descriptor, token) pair
// scoped to that subordinate. The wire contract carries no error codes, so a
// backend rejection that is not an auth failure is a refusal to impersonate
// (target not a subordinate) and is reported as PERMISSION_DENIED.
func (c *Client) ImpersonateUser(ctx context.Context, token, targetID string) (*LoginResult, error) {
	data, err := c.Call(ctx, "impersonateUser", map[string]any{"id": targetID}, token)
	if err != nil {
		de := apperrors.ToDomainError(err)
		if de.Code == "GATEWAY_ERROR" {
			return nil, apperrors.NewPermissionDenied(de.Message)
		}
		return nil, err
	}
	var result LoginResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, apperrors.NewNetworkFailure(err)
	}
	return &result, nil
}
