package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/foomo/reportviewer/nav"
	"github.com/foomo/reportviewer/service"
	"github.com/foomo/reportviewer/service/vo"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const Version = "0.1.0"

type RenderSectionRequest struct {
	Course  string `json:"course"`  // Course id, e.g. 3a
	Project int    `json:"project"` // Project number within the course, starting at 1
	Section string `json:"section"` // Report section id
}

type RenderSectionResponse struct {
	Section *vo.RenderedSection `json:"section"` // Rendered markup and its markdown form
}

type ListCatalogResponse struct {
	Catalog nav.Catalog `json:"catalog"`
}

// NewServer creates a new MCP server with the renderSection and listCatalog tools
func NewServer(serviceInstance service.Service) *server.MCPServer {
	s := server.NewMCPServer(
		"Project Report Viewer MCP",
		Version,
		server.WithToolCapabilities(false),
	)

	renderSectionTool := mcp.NewTool("renderSection",
		mcp.WithDescription("Render one report section of a course project as HTML and markdown"),
		mcp.WithString("course",
			mcp.Required(),
			mcp.Description("The course id (e.g. '3a')"),
		),
		mcp.WithNumber("project",
			mcp.Required(),
			mcp.Description("The project number within the course, starting at 1"),
		),
		mcp.WithString("section",
			mcp.Required(),
			mcp.Description("One of introduccion, objetivo, desarrollo, resultados, conclusion"),
		),
	)
	s.AddTool(renderSectionTool, mcp.NewTypedToolHandler(getRenderSectionHandler(serviceInstance)))

	listCatalogTool := mcp.NewTool("listCatalog",
		mcp.WithDescription("List the sections, courses and project counts known to the viewer"),
	)
	s.AddTool(listCatalogTool, getListCatalogHandler(serviceInstance))

	return s
}

func getRenderSectionHandler(serviceInstance service.Service) func(ctx context.Context, request mcp.CallToolRequest, args RenderSectionRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest, args RenderSectionRequest) (*mcp.CallToolResult, error) {
		if args.Course == "" {
			return mcp.NewToolResultError("course is required"), nil
		}
		if args.Project < 1 {
			return mcp.NewToolResultError("project must be a positive number"), nil
		}
		if args.Section == "" {
			return mcp.NewToolResultError("section is required"), nil
		}

		section, err := serviceInstance.GetSection(ctx, vo.CourseID(args.Course), args.Project, vo.SectionID(args.Section))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to render section: %v", err)), nil
		}

		responseBytes, err := json.Marshal(RenderSectionResponse{Section: section})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
		}

		return mcp.NewToolResultText(string(responseBytes)), nil
	}
}

func getListCatalogHandler(serviceInstance service.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		responseBytes, err := json.Marshal(ListCatalogResponse{Catalog: serviceInstance.Catalog()})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
		}
		return mcp.NewToolResultText(string(responseBytes)), nil
	}
}
