package mcp

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"workflow-controller/internal/sessions"
	"workflow-controller/pkg/models"
)

// Server exposes the session lifecycle controller over the MCP protocol so
// agent clients can open and close interactive sessions with the same
// semantics as the REST API.
type Server struct {
	mcpServer  *server.MCPServer
	controller *sessions.Controller
}

// NewServer creates a new MCP server wrapping the given controller.
func NewServer(controller *sessions.Controller) *Server {
	s := &Server{
		mcpServer: server.NewMCPServer(
			"Workflow Controller",
			"1.0.0",
			server.WithToolCapabilities(true),
		),
		controller: controller,
	}

	s.registerTools()
	return s
}

func (s *Server) GetMCPServer() *server.MCPServer {
	return s.mcpServer
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(
		mcp.NewTool(
			"open_interactive_session",
			mcp.WithDescription("Open an interactive session inside a workflow's workspace"),
			mcp.WithString("workflow", mcp.Required(), mcp.Description("Workflow UUID or name")),
			mcp.WithString("user", mcp.Required(), mcp.Description("UUID of the workflow owner")),
			mcp.WithString("type", mcp.Required(), mcp.Description("Interactive session type, e.g. jupyter")),
			mcp.WithString("image", mcp.Description("Optional replacement container image")),
		),
		s.handleOpen,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"close_interactive_session",
			mcp.WithDescription("Close a workflow's interactive session"),
			mcp.WithString("workflow", mcp.Required(), mcp.Description("Workflow UUID or name")),
			mcp.WithString("user", mcp.Required(), mcp.Description("UUID of the workflow owner")),
		),
		s.handleClose,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"list_session_types",
			mcp.WithDescription("List the supported interactive session types"),
		),
		s.handleListTypes,
	)
}

func (s *Server) handleOpen(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("Invalid arguments type"), nil
	}

	workflow, ok := args["workflow"].(string)
	if !ok || workflow == "" {
		return mcp.NewToolResultError("Missing required parameter: workflow"), nil
	}

	owner, err := parseOwner(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	sessionType, ok := args["type"].(string)
	if !ok || sessionType == "" {
		return mcp.NewToolResultError("Missing required parameter: type"), nil
	}

	image, _ := args["image"].(string)

	path, err := s.controller.Open(ctx, sessions.OpenRequest{
		WorkflowRef: workflow,
		Owner:       owner,
		SessionType: sessionType,
		Image:       image,
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(path), nil
}

func (s *Server) handleClose(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("Invalid arguments type"), nil
	}

	workflow, ok := args["workflow"].(string)
	if !ok || workflow == "" {
		return mcp.NewToolResultError("Missing required parameter: workflow"), nil
	}

	owner, err := parseOwner(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := s.controller.Close(ctx, workflow, owner); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText("The interactive session has been closed"), nil
}

func (s *Server) handleListTypes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(models.SessionTypeNames()), nil
}

func parseOwner(args map[string]interface{}) (uuid.UUID, error) {
	raw, ok := args["user"].(string)
	if !ok || raw == "" {
		return uuid.Nil, fmt.Errorf("Missing required parameter: user")
	}
	owner, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("Parameter user must be a UUID")
	}
	return owner, nil
}

// MountHTTPHandlers wires the MCP server's SSE endpoints onto a mux.
func MountHTTPHandlers(mux *http.ServeMux, mcpServer *server.MCPServer) {
	sseServer := server.NewSSEServer(mcpServer, server.WithStaticBasePath("/mcp"))

	mux.HandleFunc("/mcp", func(w http.ResponseWriter, r *http.Request) {
		// Direct POST for tool calls
		if r.Method == http.MethodPost {
			sseServer.ServeHTTP(w, r)
			return
		}
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	})

	mux.HandleFunc("/mcp/sse", sseServer.ServeHTTP)
	mux.HandleFunc("/mcp/message", sseServer.ServeHTTP)
}
