package mcp

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/foomo/reportviewer/nav"
	"github.com/foomo/reportviewer/service"
	"github.com/foomo/reportviewer/service/vo"
	"github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// NewMcpHTTPServer creates a new MCP HTTP server with traditional MCP endpoints
func NewMcpHTTPServer(s *server.MCPServer, endpoint string) *server.StreamableHTTPServer {
	return server.NewStreamableHTTPServer(
		s,
		server.WithEndpointPath(endpoint),
	)
}

// ViewerHTTPServer serves the tabbed viewer, the MCP endpoint, the viewer event
// stream and metrics on one mux.
type ViewerHTTPServer struct {
	logger    *zap.Logger
	mux       *http.ServeMux
	viewer    *service.Viewer
	sseServer *SSEServer
}

func NewViewerHTTPServer(
	logger *zap.Logger,
	s *server.MCPServer,
	viewer *service.Viewer,
	sseServer *SSEServer,
	endpoint string,
	gatherer prometheus.Gatherer,
) *ViewerHTTPServer {
	if logger == nil {
		logger = zap.NewNop()
	}
	vs := &ViewerHTTPServer{
		logger:    logger,
		mux:       http.NewServeMux(),
		viewer:    viewer,
		sseServer: sseServer,
	}

	vs.mux.HandleFunc("GET /{$}", vs.handlePage)
	vs.mux.HandleFunc("GET /state", vs.handleState)
	vs.mux.HandleFunc("GET /containers/{id}", vs.handleContainer)
	vs.mux.HandleFunc("GET /tabs/{index}", vs.handleTab)
	vs.mux.HandleFunc("GET /carousel/{dir}", vs.handleCarousel)
	vs.mux.HandleFunc("GET /keys/{key}", vs.handleKey)
	vs.mux.HandleFunc("GET /courses/{section}/{course}", vs.handleCourse)
	vs.mux.HandleFunc("GET /projects/{section}/{course}/{project}", vs.handleProject)

	if gatherer != nil {
		vs.mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	if s != nil {
		vs.mux.Handle(endpoint, NewMcpHTTPServer(s, endpoint))
	}

	if sseServer != nil {
		vs.mux.HandleFunc(endpoint+"/sse", sseServer.HandleSSE)
		vs.mux.HandleFunc(endpoint+"/sse/clients", func(w http.ResponseWriter, r *http.Request) {
			clients := sseServer.GetConnectedClients()
			writeJSON(w, map[string]interface{}{
				"connectedClients": len(clients),
				"clients":          clients,
			})
		})
		vs.mux.HandleFunc(endpoint+"/sse/stats", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, sseServer.GetStats())
		})
	}

	return vs
}

// ServeHTTP implements http.Handler
func (vs *ViewerHTTPServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	vs.mux.ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	_ = json.NewEncoder(w).Encode(v)
}

func (vs *ViewerHTTPServer) handlePage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := vs.viewer.Render(w); err != nil {
		vs.logger.Error("failed to render page", zap.Error(err))
	}
}

func (vs *ViewerHTTPServer) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, vs.viewer.Snapshot())
}

func (vs *ViewerHTTPServer) handleContainer(w http.ResponseWriter, r *http.Request) {
	markup, err := vs.viewer.Container(r.PathValue("id"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(markup))
}

func (vs *ViewerHTTPServer) handleTab(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		http.Error(w, "invalid tab index", http.StatusBadRequest)
		return
	}
	vs.respond(w, r, vs.viewer.OpenTab(index))
}

func (vs *ViewerHTTPServer) handleCarousel(w http.ResponseWriter, r *http.Request) {
	switch r.PathValue("dir") {
	case "prev":
		vs.viewer.Step(-1)
	case "next":
		vs.viewer.Step(1)
	default:
		http.Error(w, "direction must be prev or next", http.StatusBadRequest)
		return
	}
	vs.respond(w, r, nil)
}

func (vs *ViewerHTTPServer) handleKey(w http.ResponseWriter, r *http.Request) {
	vs.viewer.HandleKey(r.PathValue("key"))
	vs.respond(w, r, nil)
}

func (vs *ViewerHTTPServer) handleCourse(w http.ResponseWriter, r *http.Request) {
	err := vs.viewer.OpenCourse(vo.SectionID(r.PathValue("section")), vo.CourseID(r.PathValue("course")))
	vs.respond(w, r, err)
}

func (vs *ViewerHTTPServer) handleProject(w http.ResponseWriter, r *http.Request) {
	project, err := strconv.Atoi(r.PathValue("project"))
	if err != nil {
		http.Error(w, "invalid project number", http.StatusBadRequest)
		return
	}
	err = vs.viewer.OpenProject(r.Context(), vo.SectionID(r.PathValue("section")), vo.CourseID(r.PathValue("course")), project)
	vs.respond(w, r, err)
}

// respond finishes a transition request. Unknown targets are 404; load failures
// are already visible in the project container and do not fail the request.
func (vs *ViewerHTTPServer) respond(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, nav.ErrUnknownTarget) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		vs.logger.Warn("navigation finished with error", zap.String("path", r.URL.Path), zap.Error(err))
	}
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		writeJSON(w, vs.viewer.Snapshot())
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
