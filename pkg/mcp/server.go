// Package mcp exposes study-pack generation and grading as MCP tools over
// Stdio, so editor agents can drive the pipeline directly.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/praachilabs/studypack/pkg/docpipe"
	"github.com/praachilabs/studypack/pkg/studypack"
)

// MCPServer wraps the studypack service for the MCP surface.
type MCPServer struct {
	svc  *studypack.Service
	pipe *docpipe.Pipeline
}

// Run starts the MCP server on Stdio. Tool handlers receive their context
// from the framework per call.
func Run(svc *studypack.Service, pipe *docpipe.Pipeline) error {
	s := server.NewMCPServer(
		"StudyPack",
		"0.1.0",
		server.WithLogging(),
	)

	ms := &MCPServer{svc: svc, pipe: pipe}

	// Tool: Generate Study Pack
	s.AddTool(
		mcp.NewTool(
			"generate_study_pack",
			mcp.WithDescription("Generate a textbook, flashcards, question bank and exam from course documents (pdf, docx, pptx, txt)."),
			mcp.WithString("files", mcp.Required(), mcp.Description("Newline- or comma-separated paths to course documents")),
			mcp.WithString("subject", mcp.Description("Subject name (defaults to a placeholder)")),
			mcp.WithString("exam_instructions", mcp.Description("Optional instructions for the exam section")),
		),
		ms.handleGenerate,
	)

	// Tool: Grade Exam
	s.AddTool(
		mcp.NewTool(
			"grade_exam",
			mcp.WithDescription("Grade free-text exam answers against a previously generated exam."),
			mcp.WithString("exam", mcp.Required(), mcp.Description("The exam text")),
			mcp.WithString("answers", mcp.Required(), mcp.Description("The learner's answers")),
		),
		ms.handleGrade,
	)

	// Tool: Extract Text
	s.AddTool(
		mcp.NewTool(
			"extract_text",
			mcp.WithDescription("Extract plain text from a single course document without generating anything."),
			mcp.WithString("path", mcp.Required(), mcp.Description("Path to the document")),
		),
		ms.handleExtract,
	)

	slog.Info("Starting MCP server on Stdio")
	return server.ServeStdio(s)
}

// --- Tool Handlers ---

func (ms *MCPServer) handleGenerate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	fileList, ok := args["files"].(string)
	if !ok || strings.TrimSpace(fileList) == "" {
		return mcp.NewToolResultError("files argument required"), nil
	}
	subject, _ := args["subject"].(string)
	examInstructions, _ := args["exam_instructions"].(string)

	docs, err := loadDocuments(fileList)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	pack, err := ms.svc.Generate(ctx, docs, subject, examInstructions)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("generation failed: %v", err)), nil
	}

	jsonBytes, err := json.MarshalIndent(pack, "", "  ")
	if err != nil {
		return mcp.NewToolResultError("failed to marshal study pack"), nil
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (ms *MCPServer) handleGrade(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	exam, _ := args["exam"].(string)
	answers, ok := args["answers"].(string)
	if !ok {
		return mcp.NewToolResultError("answers argument required"), nil
	}

	feedback, err := ms.svc.Grade(ctx, exam, answers)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("grading failed: %v", err)), nil
	}
	return mcp.NewToolResultText(feedback), nil
}

func (ms *MCPServer) handleExtract(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	path, ok := args["path"].(string)
	if !ok || path == "" {
		return mcp.NewToolResultError("path argument required"), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("read %s: %v", path, err)), nil
	}

	text := ms.pipe.Extract(ctx, docpipe.Document{Name: path, Data: data})
	if text == "" {
		return mcp.NewToolResultText("(no extractable text)"), nil
	}
	return mcp.NewToolResultText(text), nil
}

// loadDocuments reads a separated path list into Documents, preserving the
// listed order.
func loadDocuments(fileList string) ([]docpipe.Document, error) {
	fields := strings.FieldsFunc(fileList, func(r rune) bool {
		return r == '\n' || r == ','
	})

	var docs []docpipe.Document
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		data, err := os.ReadFile(f)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f, err)
		}
		docs = append(docs, docpipe.Document{Name: f, Data: data})
	}
	return docs, nil
}
