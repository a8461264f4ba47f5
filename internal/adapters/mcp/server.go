// Package mcpadapter publishes ranking and comparison as MCP tools.
package mcpadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kirillkom/resume-ranker/internal/core/domain"
	"github.com/kirillkom/resume-ranker/internal/core/ports"
)

const (
	serverName    = "resume-ranker"
	serverVersion = "1.0.0"
)

type Tools struct {
	ranker   ports.ResumeRanker
	comparer ports.ResumeComparer
	logger   *slog.Logger
}

func NewTools(ranker ports.ResumeRanker, comparer ports.ResumeComparer, logger *slog.Logger) *Tools {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tools{ranker: ranker, comparer: comparer, logger: logger}
}

// NewServer registers every tool on a fresh MCP server.
func (t *Tools) NewServer() *server.MCPServer {
	s := server.NewMCPServer(serverName, serverVersion, server.WithToolCapabilities(false))

	s.AddTool(mcp.NewTool("rank_resume",
		mcp.WithDescription("Score how well a resume matches a job description with TF-IDF cosine similarity. Returns a percentage and a category (bad, average, good)."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithString("resume_text", mcp.Required(), mcp.Description("Plain resume text.")),
		mcp.WithString("job_description", mcp.Required(), mcp.Description("Plain job description text.")),
	), t.rankResume)

	s.AddTool(mcp.NewTool("rank_resume_file",
		mcp.WithDescription("Extract text from a local PDF or DOCX resume and score it against a job description."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path to a .pdf or .docx file.")),
		mcp.WithString("job_description", mcp.Required(), mcp.Description("Plain job description text.")),
	), t.rankResumeFile)

	s.AddTool(mcp.NewTool("compare_resumes",
		mcp.WithDescription("Share of the first resume's distinct words that also appear in the second. The score is directional."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithString("text1", mcp.Required(), mcp.Description("First resume text.")),
		mcp.WithString("text2", mcp.Required(), mcp.Description("Second resume text.")),
	), t.compareResumes)

	return s
}

// ServeStdio blocks serving the tools over stdin/stdout.
func (t *Tools) ServeStdio() error {
	return server.ServeStdio(t.NewServer())
}

func (t *Tools) rankResume(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	resume, err := request.RequireString("resume_text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	job, err := request.RequireString("job_description")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := t.ranker.Rank(ctx, resume, job)
	if err != nil {
		return t.toolError("rank_resume", err), nil
	}
	return jsonResult(result)
}

func (t *Tools) rankResumeFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	job, err := request.RequireString("job_description")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if _, err := domain.DetectFormat(path); err != nil {
		return t.toolError("rank_resume_file", err), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return t.toolError("rank_resume_file", domain.WrapError(domain.ErrInvalidInput, "read resume file", err)), nil
	}

	result, err := t.ranker.RankDocument(ctx, job, domain.Upload{Filename: filepath.Base(path), Data: data})
	if err != nil {
		return t.toolError("rank_resume_file", err), nil
	}
	return jsonResult(result)
}

func (t *Tools) compareResumes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text1, err := request.RequireString("text1")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	text2, err := request.RequireString("text2")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := t.comparer.Compare(ctx, text1, text2)
	if err != nil {
		return t.toolError("compare_resumes", err), nil
	}
	return jsonResult(result)
}

// toolError reports domain failures inside the tool result so the client
// model sees them; protocol errors are reserved for transport problems.
func (t *Tools) toolError(tool string, err error) *mcp.CallToolResult {
	t.logger.Warn("mcp_tool_failed", "tool", tool, "kind", domain.KindOf(err), "error", err)
	return mcp.NewToolResultError(fmt.Sprintf("%s (%s)", domain.UserMessage(err), domain.KindOf(err)))
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode tool result: %w", err)
	}
	return mcp.NewToolResultText(string(raw)), nil
}
