package mcp

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/joescharf/seva/internal/catalog"
	"github.com/joescharf/seva/internal/dashboard"
	"github.com/joescharf/seva/internal/form"
	"github.com/joescharf/seva/internal/intake"
	"github.com/joescharf/seva/internal/models"
	"github.com/joescharf/seva/internal/session"
	"github.com/joescharf/seva/internal/store"
)

// Server exposes the grievance portal as MCP tools.
type Server struct {
	store      store.Store
	classifier intake.Classifier
	assembler  *form.Assembler
	version    string
}

// NewServer creates the MCP server wrapper. A nil classifier uses random labels.
func NewServer(s store.Store, c intake.Classifier, a *form.Assembler, version string) *Server {
	if c == nil {
		c = intake.NewRandomClassifier()
	}
	if a == nil {
		a = form.NewAssembler()
	}
	return &Server{store: s, classifier: c, assembler: a, version: version}
}

// MCPServer returns a configured mcp-go server with all tools registered.
func (s *Server) MCPServer() *server.MCPServer {
	srv := server.NewMCPServer("seva", s.version, server.WithToolCapabilities(true))

	srv.AddTool(s.listDepartmentsTool())
	srv.AddTool(s.submitIssueTool())
	srv.AddTool(s.listIssuesTool())
	srv.AddTool(s.dashboardTool())

	return srv
}

// ServeStdio starts the stdio transport, blocking until ctx is cancelled.
func (s *Server) ServeStdio(ctx context.Context) error {
	stdioServer := server.NewStdioServer(s.MCPServer())
	return stdioServer.Listen(ctx, os.Stdin, os.Stdout)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// ---------------------------------------------------------------------------
// Tool definitions and handlers
// ---------------------------------------------------------------------------

// seva_list_departments
func (s *Server) listDepartmentsTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("seva_list_departments",
		mcp.WithDescription("List the departments a grievance can be routed to. Returns a JSON array with id and name."),
	)
	return tool, s.handleListDepartments
}

func (s *Server) handleListDepartments(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(catalog.List())
}

// seva_submit_issue
func (s *Server) submitIssueTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("seva_submit_issue",
		mcp.WithDescription("Submit a citizen grievance. Title, description and location are required. Returns the created issue and the confirmation message as JSON."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Short issue title")),
		mcp.WithString("description", mcp.Required(), mcp.Description("Detailed description")),
		mcp.WithString("location", mcp.Required(), mcp.Description("Address or landmark")),
		mcp.WithString("department", mcp.Description("Department id (default: transport). See seva_list_departments.")),
		mcp.WithString("urgency", mcp.Description("Urgency: low, medium, high (default: medium)")),
		mcp.WithString("contact_phone", mcp.Description("Optional phone number for updates")),
		mcp.WithString("image_base64", mcp.Description("Optional base64-encoded image to attach")),
		mcp.WithString("image_name", mcp.Description("File name for the attached image")),
	)
	return tool, s.handleSubmitIssue
}

func (s *Server) handleSubmitIssue(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess := session.New(s.store, intake.New(s.classifier), s.assembler)

	for _, field := range []string{form.FieldTitle, form.FieldDescription, form.FieldLocation} {
		v, err := request.RequireString(field)
		if err != nil {
			return mcp.NewToolResultError("missing required parameter: " + field), nil
		}
		_ = sess.SetField(field, v)
	}
	if v := request.GetString("urgency", ""); v != "" {
		_ = sess.SetField(form.FieldUrgency, v)
	}
	_ = sess.SetField(form.FieldContactPhone, request.GetString("contact_phone", ""))

	if dept := request.GetString("department", ""); dept != "" {
		if err := sess.SelectDepartment(dept); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("%v (known: %s)", err, strings.Join(catalog.IDs(), ", "))), nil
		}
	}

	var rejected []string
	if encoded := request.GetString("image_base64", ""); encoded != "" {
		data, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return mcp.NewToolResultError("image_base64 is not valid base64"), nil
		}
		name := request.GetString("image_name", "image")
		_, rej := sess.AddFiles(ctx, []intake.Candidate{{
			Name:        name,
			ContentType: intake.DetectContentType(data),
			Size:        int64(len(data)),
			Data:        data,
		}})
		rejected = intake.RejectedNames(rej)
	}

	issue, note, err := sess.Submit(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to submit issue: %v", err)), nil
	}

	return jsonResult(map[string]any{
		"issue":        issue,
		"notification": note,
		"rejected":     rejected,
	})
}

// seva_list_issues
func (s *Server) listIssuesTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("seva_list_issues",
		mcp.WithDescription("List submitted issues, newest first, optionally filtered by department, status and urgency. Returns a JSON array."),
		mcp.WithString("department", mcp.Description("Department id filter")),
		mcp.WithString("status", mcp.Description("Status filter: submitted, in-progress, completed")),
		mcp.WithString("urgency", mcp.Description("Urgency filter: low, medium, high")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of issues to return")),
	)
	return tool, s.handleListIssues
}

func (s *Server) handleListIssues(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filter := store.IssueListFilter{
		Department: request.GetString("department", ""),
		Status:     models.IssueStatus(request.GetString("status", "")),
		Urgency:    models.IssueUrgency(request.GetString("urgency", "")),
		Limit:      request.GetInt("limit", 0),
	}

	issues, err := s.store.ListIssues(ctx, filter)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list issues: %v", err)), nil
	}
	if issues == nil {
		issues = []*models.Issue{}
	}
	return jsonResult(issues)
}

// seva_dashboard
func (s *Server) dashboardTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("seva_dashboard",
		mcp.WithDescription("Get dashboard counts (total, submitted, in_progress, completed), per-department counts and the most recent issues."),
		mcp.WithNumber("recent", mcp.Description("Number of recent issues to include (default 5)")),
	)
	return tool, s.handleDashboard
}

func (s *Server) handleDashboard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	n := request.GetInt("recent", dashboard.DefaultPreview)
	summary, err := dashboard.Build(ctx, s.store, n)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to build dashboard: %v", err)), nil
	}
	return jsonResult(summary)
}
