package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var rows = []map[string]any{
	{"id": 1, "name": "Science", "description": "Natural sciences", "departments": []map[string]any{{"id": 11, "name": "Physics"}}},
	{"id": 2, "name": "Social Science", "description": "Economics and sociology"},
	{"id": 3, "name": "Law", "description": "Public and private law"},
}

func newAPI(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/faculties", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		page, _ := strconv.Atoi(q.Get("page"))
		limit, _ := strconv.Atoi(q.Get("limit"))
		var match []map[string]any
		for _, row := range rows {
			if strings.Contains(strings.ToLower(row["name"].(string)), strings.ToLower(q.Get("search"))) {
				match = append(match, row)
			}
		}
		start := min((page-1)*limit, len(match))
		end := min(start+limit, len(match))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data":    match[start:end],
			"total":   len(match),
			"page":    page,
			"limit":   limit,
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("RPS_LOG_FILE", "stderr")
	t.Setenv("RPS_LOG_LEVEL", "error")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestList_SearchAndPage(t *testing.T) {
	srv := newAPI(t)
	out, err := runCLI(t, "--api-url", srv.URL+"/api/v1", "list", "--search", "science", "--page", "2", "--limit", "1")
	require.NoError(t, err)

	assert.Contains(t, out, "Social Science")
	assert.NotContains(t, out, "Physics")
	assert.Contains(t, out, "page 2 of 2, showing 2-2 of 2")
}

func TestList_FirstPageShowsDepartments(t *testing.T) {
	srv := newAPI(t)
	out, err := runCLI(t, "--api-url", srv.URL+"/api/v1", "list")
	require.NoError(t, err)

	assert.Contains(t, out, "DEPARTMENTS")
	assert.Contains(t, out, "Physics")
	assert.Contains(t, out, "page 1 of 1, showing 1-3 of 3")
}

func TestList_EmptyResult(t *testing.T) {
	srv := newAPI(t)
	out, err := runCLI(t, "--api-url", srv.URL+"/api/v1", "list", "--search", "medicine")
	require.NoError(t, err)
	assert.Contains(t, out, `No faculties match "medicine".`)
}

func TestList_PageOutOfRange(t *testing.T) {
	srv := newAPI(t)
	_, err := runCLI(t, "--api-url", srv.URL+"/api/v1", "list", "--page", "4")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")
}

func TestList_RejectsNegativeLimit(t *testing.T) {
	srv := newAPI(t)
	_, err := runCLI(t, "--api-url", srv.URL+"/api/v1", "list", "--limit", "-5")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--limit must not be negative")
}

func TestList_RejectsBadAPIURL(t *testing.T) {
	_, err := runCLI(t, "--api-url", "ftp://example.com", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported scheme")
}

func TestList_ServerDown(t *testing.T) {
	srv := newAPI(t)
	url := srv.URL + "/api/v1"
	srv.Close()

	_, err := runCLI(t, "--api-url", url, "list")
	require.Error(t, err)
}
