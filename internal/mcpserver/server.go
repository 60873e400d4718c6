// Package mcpserver exposes the operations registry as MCP tools and the
// resource reader as MCP resource templates, served over stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/matsen/scimcp/internal/args"
	"github.com/matsen/scimcp/internal/metrics"
	"github.com/matsen/scimcp/internal/ops"
	"github.com/matsen/scimcp/internal/tools"
)

// Recorder receives one observation per tool call.
type Recorder interface {
	ObserveToolCall(tool, outcome string, elapsed time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) ObserveToolCall(string, string, time.Duration) {}

// Options configure New.
type Options struct {
	Name     string
	Version  string
	Logger   *zap.Logger
	Recorder Recorder
}

// Server wraps an MCP server built from a registry.
type Server struct {
	mcp       *server.MCPServer
	reg       *ops.Registry
	resources *tools.Resources
	logger    *zap.Logger
	recorder  Recorder
}

// New registers every operation as a tool and every resource family as a
// template.
func New(reg *ops.Registry, resources *tools.Resources, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Recorder == nil {
		opts.Recorder = nopRecorder{}
	}
	s := &Server{
		reg:       reg,
		resources: resources,
		logger:    opts.Logger,
		recorder:  opts.Recorder,
	}
	hooks := &server.Hooks{}
	hooks.AddOnRequestInitialization(s.checkRequest)
	s.mcp = server.NewMCPServer(
		opts.Name,
		opts.Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, false),
		server.WithHooks(hooks),
		server.WithRecovery(),
	)

	for _, op := range reg.Operations() {
		s.mcp.AddTool(toolFor(op), s.toolHandler(op.Name))
	}
	for _, tmpl := range tools.ResourceTemplates() {
		s.mcp.AddResourceTemplate(
			mcp.NewResourceTemplate(
				tmpl.URI,
				tmpl.Name,
				mcp.WithTemplateDescription(tmpl.Description),
				mcp.WithTemplateMIMEType("application/json"),
			),
			s.readResource,
		)
	}
	return s
}

// MCP returns the underlying server.
func (s *Server) MCP() *server.MCPServer {
	return s.mcp
}

// Serve runs the stdio transport until in is closed or ctx is done.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	stdio := server.NewStdioServer(s.mcp)
	stdio.SetErrorLogger(zap.NewStdLog(s.logger.Named("stdio")))
	s.logger.Info("serving MCP on stdio", zap.Int("tools", len(s.reg.Operations())))
	return stdio.Listen(ctx, in, out)
}

// Invoke runs one operation with logging and metrics. It is the path shared
// by MCP tool calls and the CLI.
func (s *Server) Invoke(ctx context.Context, name string, raw map[string]any) (any, error) {
	callID := uuid.NewString()
	log := s.logger.With(zap.String("call_id", callID), zap.String("tool", name))
	start := time.Now()

	out, err := s.reg.Call(ctx, name, raw)
	elapsed := time.Since(start)

	outcome := metrics.OutcomeOK
	switch {
	case err == nil:
		log.Info("tool call", zap.Duration("elapsed", elapsed))
	case errors.Is(err, args.ErrInvalidInput):
		outcome = metrics.OutcomeInvalidInput
		log.Info("tool call rejected", zap.Duration("elapsed", elapsed), zap.Error(err))
	default:
		outcome = metrics.OutcomeError
		log.Warn("tool call failed", zap.Duration("elapsed", elapsed), zap.Error(err))
	}
	s.recorder.ObserveToolCall(name, outcome, elapsed)
	return out, err
}

// ReadResource reads one resource URI through the registry.
func (s *Server) ReadResource(ctx context.Context, uri string) (any, error) {
	out, err := s.resources.Read(ctx, uri)
	if err != nil {
		s.logger.Info("resource read failed", zap.String("uri", uri), zap.Error(err))
	}
	return out, err
}

// checkRequest rejects a resources/read whose URI cannot be served before
// template matching, so every malformed URI gets the same JSON-RPC
// invalid-request error instead of "resource not found" or an internal error.
func (s *Server) checkRequest(_ context.Context, _ any, message any) error {
	raw, ok := message.(json.RawMessage)
	if !ok {
		return nil
	}
	var req struct {
		Method mcp.MCPMethod `json:"method"`
		Params struct {
			URI string `json:"uri"`
		} `json:"params"`
	}
	if err := json.Unmarshal(raw, &req); err != nil || req.Method != mcp.MethodResourcesRead {
		return nil
	}
	if err := s.resources.Check(req.Params.URI); err != nil {
		s.logger.Info("resource read rejected", zap.String("uri", req.Params.URI), zap.Error(err))
		return err
	}
	return nil
}

func (s *Server) toolHandler(name string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		op, ok := s.reg.Lookup(name)
		if !ok {
			return mcp.NewToolResultError("unknown tool " + name), nil
		}
		out, err := s.Invoke(ctx, name, req.GetArguments())
		if err != nil {
			return mcp.NewToolResultError(op.FailureMessage(err)), nil
		}
		text, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return mcp.NewToolResultError(op.FailureMessage(err)), nil
		}
		return mcp.NewToolResultText(string(text)), nil
	}
}

func (s *Server) readResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uri := req.Params.URI
	out, err := s.ReadResource(ctx, uri)
	if err != nil {
		return nil, err
	}
	text, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{URI: uri, MIMEType: "application/json", Text: string(text)},
	}, nil
}
