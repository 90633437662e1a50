package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/foomo/reportviewer/nav"
	"github.com/foomo/reportviewer/page"
	"github.com/foomo/reportviewer/record"
	"github.com/foomo/reportviewer/service"
	"github.com/foomo/reportviewer/service/vo"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapLoader map[vo.RecordKey]*vo.ContentRecord

func (m mapLoader) Load(ctx context.Context, course vo.CourseID, project int) (*vo.ContentRecord, error) {
	if r, ok := m[vo.RecordKey{Course: course, Project: project}]; ok {
		return r, nil
	}
	return nil, record.ErrStatus
}

func newTestHTTPServer(t *testing.T, gatherer prometheus.Gatherer) *ViewerHTTPServer {
	t.Helper()
	loader := mapLoader{
		{Course: "3a", Project: 2}: {
			Nombre: "Huerta",
			Sections: map[vo.SectionID]vo.Section{
				vo.SectionIntroduccion: &vo.Legacy{Texto: "T", Lista: []string{"a"}},
			},
		},
	}
	catalog := nav.DefaultCatalog()
	viewer, err := service.NewViewer(nil, catalog, loader, strings.NewReader(page.Skeleton))
	require.NoError(t, err)
	s := NewServer(service.NewService(nil, catalog, loader))
	return NewViewerHTTPServer(nil, s, viewer, nil, "/mcp", gatherer)
}

func get(t *testing.T, h http.Handler, path string, accept string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func snapshot(t *testing.T, rec *httptest.ResponseRecorder) vo.NavigationSnapshot {
	t.Helper()
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var s vo.NavigationSnapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &s))
	return s
}

func TestViewerHTTPServerPage(t *testing.T) {
	vs := newTestHTTPServer(t, nil)

	rec := get(t, vs, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	assert.Contains(t, body, `id="introduccion-3a-proyecto1"`)
	assert.Contains(t, body, `data-loaded="false"`)
	assert.Contains(t, body, `formaction="/projects/conclusion/3d/2"`)
}

func TestViewerHTTPServerTransitionsRedirect(t *testing.T) {
	vs := newTestHTTPServer(t, nil)

	for _, path := range []string{"/tabs/2", "/carousel/next", "/keys/ArrowLeft", "/courses/objetivo/3c"} {
		rec := get(t, vs, path, "text/html")
		assert.Equal(t, http.StatusSeeOther, rec.Code, path)
		assert.Equal(t, "/", rec.Header().Get("Location"), path)
	}

	s := snapshot(t, get(t, vs, "/state", ""))
	assert.Equal(t, 2, s.Tab)
	assert.Equal(t, vo.SectionDesarrollo, s.Section)
	assert.Equal(t, vo.CourseID("3c"), s.Courses[vo.SectionObjetivo])
}

func TestViewerHTTPServerTransitionsJSON(t *testing.T) {
	vs := newTestHTTPServer(t, nil)

	s := snapshot(t, get(t, vs, "/carousel/prev", "application/json"))
	assert.Equal(t, 0, s.Tab)
	assert.True(t, s.PrevDisabled)

	s = snapshot(t, get(t, vs, "/tabs/4", "application/json"))
	assert.Equal(t, vo.SectionConclusion, s.Section)
	assert.True(t, s.NextDisabled)

	s = snapshot(t, get(t, vs, "/keys/ArrowLeft", "application/json"))
	assert.Equal(t, 3, s.Tab)
}

func TestViewerHTTPServerProject(t *testing.T) {
	vs := newTestHTTPServer(t, nil)

	s := snapshot(t, get(t, vs, "/projects/introduccion/3a/2", "application/json"))
	assert.Equal(t, 2, s.Projects["introduccion-3a"])
	assert.Equal(t, []string{"introduccion-3a-proyecto2"}, s.Loaded)

	rec := get(t, vs, "/containers/introduccion-3a-proyecto2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "<h4>Huerta</h4><p>T</p><ul><li>a</li></ul>", rec.Body.String())

	// a failed load does not fail the request
	s = snapshot(t, get(t, vs, "/projects/objetivo/3b/1", "application/json"))
	assert.Equal(t, []string{"introduccion-3a-proyecto2"}, s.Loaded)
	rec = get(t, vs, "/containers/objetivo-3b-proyecto1", "")
	assert.Equal(t, "<p>Error al cargar el contenido del proyecto.</p>", rec.Body.String())
}

func TestViewerHTTPServerErrors(t *testing.T) {
	vs := newTestHTTPServer(t, nil)

	tests := []struct {
		path string
		code int
	}{
		{"/tabs/9", http.StatusNotFound},
		{"/tabs/x", http.StatusBadRequest},
		{"/carousel/up", http.StatusBadRequest},
		{"/courses/anexo/3a", http.StatusNotFound},
		{"/courses/objetivo/4z", http.StatusNotFound},
		{"/projects/objetivo/3a/3", http.StatusNotFound},
		{"/projects/objetivo/3a/one", http.StatusBadRequest},
		{"/containers/missing", http.StatusNotFound},
	}
	for _, tt := range tests {
		rec := get(t, vs, tt.path, "application/json")
		assert.Equal(t, tt.code, rec.Code, tt.path)
	}

	s := snapshot(t, get(t, vs, "/state", ""))
	assert.Equal(t, 0, s.Tab)
	assert.Empty(t, s.Loaded)
}

func TestViewerHTTPServerMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := record.NewMetrics(registry)
	metrics.CacheHits.Inc()
	vs := newTestHTTPServer(t, registry)

	rec := get(t, vs, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "reportviewer_record_cache_hits_total 1")

	// not mounted without a gatherer
	rec = get(t, newTestHTTPServer(t, nil), "/metrics", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestViewerHTTPServerMCPEndpoint(t *testing.T) {
	vs := newTestHTTPServer(t, nil)

	body := `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2025-03-26","capabilities":{},"clientInfo":{"name":"test","version":"1.0.0"}}}`
	req := httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, text/event-stream")
	rec := httptest.NewRecorder()
	vs.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "Project Report Viewer MCP")
}
