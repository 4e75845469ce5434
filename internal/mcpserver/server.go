// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes Noteboard tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starling/noteboard/internal/noteservice"
	"github.com/starling/noteboard/internal/query"
)

// Server wraps the MCP server with Noteboard tools.
type Server struct {
	mcp *server.MCPServer
	svc *noteservice.Service
}

// New creates an MCP server with all Noteboard tools registered.
func New(svc *noteservice.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Noteboard",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_notes",
		mcp.WithDescription("List notes with optional class, tag, author, and search filters."),
		mcp.WithString("class", mcp.Description("Class code filter (e.g. CS124), empty for all")),
		mcp.WithString("tag", mcp.Description("Tag filter, empty for all")),
		mcp.WithString("author", mcp.Description("Author filter, empty for all")),
		mcp.WithString("search", mcp.Description("Case-insensitive search over title and body")),
		mcp.WithString("sort", mcp.Description("Sort key: recent, oldest, title, author, most_liked, most_commented, popular")),
	), s.listNotes)

	s.mcp.AddTool(mcp.NewTool("read_note",
		mcp.WithDescription("Read a single note with its comments and attachment list."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Note id")),
	), s.readNote)

	s.mcp.AddTool(mcp.NewTool("summarize_text",
		mcp.WithDescription("Produce an extractive bullet-point summary of the given text."),
		mcp.WithString("text", mcp.Required(), mcp.Description("Text to summarize")),
	), s.summarizeText)

	s.mcp.AddTool(mcp.NewTool("tag_cloud",
		mcp.WithDescription("Return tag occurrence counts across the whole board."),
	), s.tagCloud)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) listNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	spec := query.DefaultSpec()
	if v := req.GetString("class", ""); v != "" {
		spec.Class = v
	}
	if v := req.GetString("tag", ""); v != "" {
		spec.Tag = v
	}
	if v := req.GetString("author", ""); v != "" {
		spec.Author = v
	}
	spec.Search = req.GetString("search", "")
	if v := req.GetString("sort", ""); v != "" {
		spec.Sort = query.SortKey(v)
	}

	result, err := s.svc.List(ctx, spec)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireInt("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	note, err := s.svc.Get(ctx, int64(id))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("note %d: %v", id, err)), nil
	}
	out, _ := json.MarshalIndent(note, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) summarizeText(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	summary, err := s.svc.Summarize(ctx, text)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(summary), nil
}

func (s *Server) tagCloud(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := s.svc.List(ctx, query.DefaultSpec())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(result.TagCloud, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}
