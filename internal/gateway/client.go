// Package gateway is the HTTP client for the backend record store. The store
// exposes one RPC-style endpoint accepting {action, payload, token} and
// answering {status: "success", data} or {status: "error", message}.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/admin-console/internal/domain"
	"github.com/spec-kit/admin-console/internal/observability"
	apperrors "github.com/spec-kit/admin-console/pkg/util"
)

// Backend error messages containing these substrings mean the credential is
// expired or invalid; both force a logout.
const (
	expiredMarker = "منقضی"
	invalidMarker = "نامعتبر"
)

// API is the gateway surface the services depend on.
type API interface {
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	GetDashboardData(ctx context.Context, token string) ([]domain.DashboardEntry, error)
	GetAdminData(ctx context.Context, token string) (*AdminData, error)
	GetActionLog(ctx context.Context, token string) ([]domain.ActionLogEntry, error)
	AddUser(ctx context.Context, token, username, password string, role domain.Role) error
	ArchiveUser(ctx context.Context, token, id string) error
	ImpersonateUser(ctx context.Context, token, targetID string) (*LoginResult, error)
}

// LoginResult carries the (descriptor, token) pair issued by login and
// impersonateUser.
type LoginResult struct {
	User  domain.UserDescriptor `json:"user"`
	Token string                `json:"token"`
}

// AdminData is the getAdminData response: the attendance records plus the
// institution id to name map used to populate the institution filter.
type AdminData struct {
	Records          []domain.AttendanceRecord `json:"records"`
	InstitutionNames map[string]string         `json:"institutionNames"`
}

// Client calls the backend endpoint.
type Client struct {
	url        string
	httpClient *http.Client
	logger     *zap.Logger
	metrics    *observability.Metrics
}

// NewClient builds the gateway client.
func NewClient(url string, timeout time.Duration, logger *zap.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.With(zap.String("component", "gateway")),
		metrics:    metrics,
	}
}

type rpcRequest struct {
	Action  string `json:"action"`
	Payload any    `json:"payload"`
	Token   string `json:"token,omitempty"`
}

type rpcResponse struct {
	Status  string          `json:"status"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// Call posts one action to the endpoint and returns the raw data payload.
// Transport and decode failures come back as NETWORK_FAILURE; backend errors
// whose message marks the token expired or invalid come back as AUTH_EXPIRED
// or AUTH_INVALID; every other backend error is surfaced as-is.
func (c *Client) Call(ctx context.Context, action string, payload any, token string) (json.RawMessage, error) {
	if payload == nil {
		payload = map[string]any{}
	}
	body, err := json.Marshal(rpcRequest{Action: action, Payload: payload, Token: token})
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	start := time.Now()
	data, err := c.post(ctx, body)
	c.metrics.RecordGatewayCall(action, outcome(err), time.Since(start))
	if err != nil {
		c.logger.Warn("gateway call failed", zap.String("action", action), zap.Error(err))
		return nil, err
	}
	return data, nil
}

func (c *Client) post(ctx context.Context, body []byte) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.NewNetworkFailure(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.NewNetworkFailure(err)
	}

	var rpc rpcResponse
	if err := json.Unmarshal(raw, &rpc); err != nil {
		return nil, apperrors.NewNetworkFailure(err)
	}

	if rpc.Status != "success" {
		return nil, classifyMessage(rpc.Message)
	}
	return rpc.Data, nil
}

// classifyMessage maps a backend error message onto the error taxonomy.
func classifyMessage(message string) error {
	switch {
	case strings.Contains(message, expiredMarker):
		return apperrors.NewAuthExpired(message)
	case strings.Contains(message, invalidMarker):
		return apperrors.NewAuthInvalid(message)
	default:
		return apperrors.NewGatewayError(message)
	}
}

func outcome(err error) string {
	if err == nil {
		return "success"
	}
	return apperrors.ToDomainError(err).Code
}
