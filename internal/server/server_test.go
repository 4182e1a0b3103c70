package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Rana718/gridbase/internal/config"
	"github.com/Rana718/gridbase/internal/database/sqlite"
	"github.com/Rana718/gridbase/internal/grid"
	"github.com/Rana718/gridbase/internal/types"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*Server, *grid.Service) {
	t.Helper()
	ctx := context.Background()

	store := sqlite.New(1)
	require.NoError(t, store.Connect(ctx, filepath.Join(t.TempDir(), "api.db")))
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Init(ctx))

	cfg := config.DefaultConfig()
	cfg.Database.Provider = "sqlite"
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc, err := grid.NewService(store, cfg, logger)
	require.NoError(t, err)
	return NewServer(svc, cfg, logger), svc
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func do(t *testing.T, s *Server, method, path string, body any) (*http.Response, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := s.App().Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(raw, &env))
	}
	return resp, env
}

func decode[T any](t *testing.T, env envelope) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(env.Data, &v))
	return v
}

func TestHealthAndRequestID(t *testing.T) {
	s, _ := newTestServer(t)

	resp, env := do(t, s, http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.True(t, env.Success)
	require.NotEmpty(t, resp.Header.Get(requestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set(requestIDHeader, "trace-123")
	resp, err := s.App().Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, "trace-123", resp.Header.Get(requestIDHeader))
}

func TestErrorEnvelope(t *testing.T) {
	s, _ := newTestServer(t)

	tests := []struct {
		name    string
		method  string
		path    string
		body    any
		status  int
		message string
	}{
		{"missing base", http.MethodGet, "/api/bases/42", nil, http.StatusNotFound, "base 42 not found"},
		{"bad id", http.MethodGet, "/api/bases/abc", nil, http.StatusBadRequest, "Invalid id"},
		{"short name", http.MethodPost, "/api/bases", map[string]string{"name": "abc"}, http.StatusBadRequest, ""},
		{"bad cursor", http.MethodGet, "/api/tables/1/rows?cursor=%21%21", nil, http.StatusBadRequest, "Invalid cursor"},
		{"bad page size", http.MethodGet, "/api/tables/1/rows?pageSize=many", nil, http.StatusBadRequest, "Invalid pageSize"},
		{"unknown route", http.MethodGet, "/api/nowhere", nil, http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, env := do(t, s, tt.method, tt.path, tt.body)
			require.Equal(t, tt.status, resp.StatusCode)
			require.False(t, env.Success)
			if tt.message != "" {
				require.Equal(t, tt.message, env.Message)
			}
		})
	}
}

func TestRowPagingOverHTTP(t *testing.T) {
	s, _ := newTestServer(t)

	resp, env := do(t, s, http.MethodPost, "/api/bases", map[string]string{"name": "API base"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	base := decode[types.Base](t, env)

	resp, env = do(t, s, http.MethodPost, fmt.Sprintf("/api/bases/%d/tables", base.ID), map[string]any{
		"name":    "Scores",
		"columns": []map[string]string{{"name": "Player", "type": "text"}, {"name": "Score", "type": "number"}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	table := decode[types.TableWithColumns](t, env)
	require.Len(t, table.Columns, 2)
	score := table.Columns[1].ID

	for i := 0; i < 5; i++ {
		resp, env = do(t, s, http.MethodPost, fmt.Sprintf("/api/tables/%d/rows", table.ID), nil)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		row := decode[types.Row](t, env)

		resp, _ = do(t, s, http.MethodPatch,
			fmt.Sprintf("/api/tables/%d/rows/%d/cells/%d", table.ID, row.ID, score),
			map[string]any{"value": 50 - i})
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	resp, _ = do(t, s, http.MethodPatch, fmt.Sprintf("/api/views/%d/config", table.View.ID), map[string]any{
		"sort": []map[string]any{{"columnId": score, "direction": "asc"}},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var scores []float64
	token := ""
	for page := 0; page < 10; page++ {
		path := fmt.Sprintf("/api/tables/%d/rows?pageSize=2", table.ID)
		if token != "" {
			path += "&cursor=" + token
		}
		resp, env = do(t, s, http.MethodGet, path, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		result := decode[pageResponse](t, env)
		for _, r := range result.Rows {
			scores = append(scores, r.Attributes["Score"].(float64))
		}
		if !result.HasMore {
			require.Empty(t, result.NextCursorToken)
			break
		}
		token = result.NextCursorToken
		require.NotEmpty(t, token)
	}
	require.Equal(t, []float64{46, 47, 48, 49, 50}, scores)

	resp, env = do(t, s, http.MethodPost, fmt.Sprintf("/api/tables/%d/rows/query", table.ID), map[string]any{
		"pageSize": 10,
		"search":   "48",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	result := decode[pageResponse](t, env)
	require.Len(t, result.Rows, 1)
}

func TestStrictViewConfig(t *testing.T) {
	s, svc := newTestServer(t)
	ctx := context.Background()

	base, err := svc.CreateBase(ctx, "Strict base")
	require.NoError(t, err)
	table, err := svc.CreateTable(ctx, base.ID, "Items", []types.ColumnDef{{Name: "Title"}})
	require.NoError(t, err)

	body := map[string]any{
		"filters": []map[string]any{{"columnId": table.Columns[0].ID, "operator": "equals", "value": ""}},
	}
	resp, _ := do(t, s, http.MethodPatch, fmt.Sprintf("/api/views/%d/config?strict=true", table.View.ID), body)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, s, http.MethodPatch, fmt.Sprintf("/api/views/%d/config", table.View.ID), body)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, env := do(t, s, http.MethodDelete,
		fmt.Sprintf("/api/views/%d/filters/%d", table.View.ID, table.Columns[0].ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	view := decode[types.View](t, env)
	require.Empty(t, view.Config.Filters)
}

func TestMetricsEndpoint(t *testing.T) {
	s, _ := newTestServer(t)

	do(t, s, http.MethodGet, "/api/bases", nil)

	resp, err := s.App().Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), `gridbase_http_requests_total{method="GET",route="/api/bases",status="200"} 1`)
}

func TestPanicIsLoggedAndCounted(t *testing.T) {
	s, _ := newTestServer(t)
	s.App().Get("/api/boom", func(c *fiber.Ctx) error {
		panic("handler exploded")
	})

	resp, env := do(t, s, http.MethodGet, "/api/boom", nil)
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	require.False(t, env.Success)
	require.Equal(t, "Internal server error", env.Message)
	require.NotEmpty(t, resp.Header.Get(requestIDHeader))

	resp, err := s.App().Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), `gridbase_http_requests_total{method="GET",route="/api/boom",status="500"} 1`)
}
