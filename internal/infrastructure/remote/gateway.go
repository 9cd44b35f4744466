package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/atelier/backend/internal/domain/client"
	"github.com/atelier/backend/internal/infrastructure/config"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
)

// Gateway translates between the legacy client service's wire format
// and the domain model. Any HTTP status below 400 counts as success:
// the backend is known to answer writes with redirects, so the
// conventional 2xx band is deliberately widened and redirects are
// never followed.
type Gateway struct {
	http    *http.Client
	baseURL string
	log     *zap.Logger
}

// NewGateway creates a gateway for the configured remote service.
// Retries happen only on transport-level failures; an HTTP response,
// whatever its status, is never retried.
func NewGateway(cfg config.RemoteConfig, log *zap.Logger) *Gateway {
	rc := retryablehttp.NewClient()
	rc.RetryMax = cfg.RetryMax
	rc.RetryWaitMin = cfg.RetryWaitMin
	rc.RetryWaitMax = cfg.RetryWaitMax
	rc.HTTPClient.Timeout = cfg.Timeout
	rc.Logger = nil

	rc.CheckRetry = func(ctx context.Context, resp *http.Response, err error) (bool, error) {
		if err != nil {
			return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
		}
		return false, nil
	}
	rc.HTTPClient.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}

	std := rc.StandardClient()
	std.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}

	return &Gateway{
		http:    std,
		baseURL: strings.TrimSuffix(cfg.BaseURL(), "/"),
		log:     log,
	}
}

// List fetches all clients known to the remote service. Records that
// cannot be converted to a valid domain client are skipped with a
// warning instead of failing the whole list; one bad row on the
// backend must not make every other client unavailable.
func (g *Gateway) List(ctx context.Context) ([]*client.Client, error) {
	body, _, err := g.do(ctx, "list", http.MethodGet, "/clientes", nil)
	if err != nil {
		return nil, err
	}

	var records []clientRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, unavailable("list", 0, fmt.Errorf("unexpected response shape: %w", err))
	}

	clients := make([]*client.Client, 0, len(records))
	for _, rec := range records {
		converted, err := fromRecord(rec)
		if err != nil {
			g.log.Warn("skipping malformed remote client record",
				zap.Int64p("remote_id", rec.ID),
				zap.Error(err))
			continue
		}
		clients = append(clients, converted)
	}
	return clients, nil
}

// GetByID fetches a single client by its remote identifier
func (g *Gateway) GetByID(ctx context.Context, id int64) (*client.Client, error) {
	body, _, err := g.do(ctx, "get", http.MethodGet, fmt.Sprintf("/cliente/%d", id), nil)
	if err != nil {
		return nil, err
	}

	var rec clientRecord
	if err := json.Unmarshal(body, &rec); err != nil {
		return nil, unavailable("get", 0, fmt.Errorf("unexpected response shape: %w", err))
	}
	converted, err := fromRecord(rec)
	if err != nil {
		return nil, unavailable("get", 0, fmt.Errorf("unexpected response shape: %w", err))
	}
	return converted, nil
}

// Create registers a client with the remote service. When the backend
// acknowledges the write with an empty body, a client is synthesized
// from the just-sent payload with a timestamp-derived identifier
// standing in for the one the backend would normally assign.
func (g *Gateway) Create(ctx context.Context, c *client.Client) (*client.Client, error) {
	rec := toRecord(c)
	body, status, err := g.do(ctx, "create", http.MethodPost, "/cliente/cadastrar", rec)
	if err != nil {
		return nil, err
	}

	if emptyBody(body) {
		g.log.Debug("remote create acknowledged with empty body, synthesizing client",
			zap.Int("status", status))
		return g.synthesize("create", rec, time.Now().UnixMilli())
	}

	var created clientRecord
	if err := json.Unmarshal(body, &created); err != nil {
		return nil, unavailable("create", 0, fmt.Errorf("unexpected response shape: %w", err))
	}
	converted, err := fromRecord(created)
	if err != nil {
		return nil, unavailable("create", 0, fmt.Errorf("unexpected response shape: %w", err))
	}
	return converted, nil
}

// Update replaces the remote client identified by id. Empty-body
// acknowledgements are tolerated the same way as on Create, reusing
// the known identifier.
func (g *Gateway) Update(ctx context.Context, id int64, c *client.Client) (*client.Client, error) {
	rec := toRecord(c)
	rec.ID = &id
	body, status, err := g.do(ctx, "update", http.MethodPut, "/cliente/atualizar", rec)
	if err != nil {
		return nil, err
	}

	if emptyBody(body) {
		g.log.Debug("remote update acknowledged with empty body, synthesizing client",
			zap.Int("status", status))
		return g.synthesize("update", rec, id)
	}

	var updated clientRecord
	if err := json.Unmarshal(body, &updated); err != nil {
		return nil, unavailable("update", 0, fmt.Errorf("unexpected response shape: %w", err))
	}
	converted, err := fromRecord(updated)
	if err != nil {
		return nil, unavailable("update", 0, fmt.Errorf("unexpected response shape: %w", err))
	}
	return converted, nil
}

// Delete removes the remote client identified by id
func (g *Gateway) Delete(ctx context.Context, id int64) error {
	_, _, err := g.do(ctx, "delete", http.MethodDelete, "/cliente/excluir", map[string]int64{"id": id})
	return err
}

// do issues one request and returns the response body when the status
// falls inside the accepted success band.
func (g *Gateway) do(ctx context.Context, op, method, path string, payload any) ([]byte, int, error) {
	var reqBody io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, 0, unavailable(op, 0, err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, reqBody)
	if err != nil {
		return nil, 0, unavailable(op, 0, err)
	}
	req.Header.Set("Accept", "application/json; charset=utf-8")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json; charset=utf-8")
	}

	resp, err := g.http.Do(req)
	if err != nil {
		g.log.Warn("remote request failed", zap.String("op", op), zap.Error(err))
		return nil, 0, unavailable(op, 0, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		g.log.Warn("remote request rejected",
			zap.String("op", op),
			zap.Int("status", resp.StatusCode))
		return nil, resp.StatusCode, unavailable(op, resp.StatusCode, nil)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, unavailable(op, 0, err)
	}
	return body, resp.StatusCode, nil
}

func (g *Gateway) synthesize(op string, rec clientRecord, id int64) (*client.Client, error) {
	rec.ID = &id
	for i := range rec.Telefones {
		rec.Telefones[i].ID = int64(i + 1)
	}
	converted, err := fromRecord(rec)
	if err != nil {
		return nil, unavailable(op, 0, err)
	}
	return converted, nil
}

func emptyBody(body []byte) bool {
	trimmed := strings.TrimSpace(string(body))
	return trimmed == "" || trimmed == "{}" || trimmed == "null"
}
