package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/internal/compiler"
	"github.com/aretw0/turing/internal/logging"
	"github.com/aretw0/turing/internal/presentation/graph"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/ports"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Engine compiles programs and wraps stored tables. *turing.Engine implements it.
type Engine interface {
	Compile(src string) (*turing.Program, error)
	FromTable(table *domain.Table) *turing.Program
}

// SourceArgs carries program text.
type SourceArgs struct {
	Source string `json:"source"`
}

// RunArgs carries program text and the input tapes.
type RunArgs struct {
	Source string   `json:"source"`
	Inputs []string `json:"inputs"`
}

// TableArgs names a stored table, with optional inputs for run_table.
type TableArgs struct {
	Name   string   `json:"name"`
	Inputs []string `json:"inputs"`
}

// CompileResponse is a compiled table in canonical form.
type CompileResponse struct {
	InitialState string `json:"initial_state" jsonschema_description:"The state the machine starts in"`
	Transitions  int    `json:"transitions" jsonschema_description:"Number of transitions in the table"`
	Canonical    string `json:"canonical" jsonschema_description:"The table as five-field lines"`
}

// RunResult is one run outcome plus the classic output line.
type RunResult struct {
	domain.Result
	Line string `json:"line" jsonschema_description:"The result as '<input> -> <tape>: <state>'"`
}

// RunResponse lists results in input order.
type RunResponse struct {
	Results []RunResult `json:"results" jsonschema_description:"One result per input, in order"`
}

// TablesResponse lists stored table names.
type TablesResponse struct {
	Tables []string `json:"tables" jsonschema_description:"Names of stored tables"`
}

// Server exposes the compiler and the table store as MCP tools.
type Server struct {
	engine    Engine
	store     ports.TableStore
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets a custom structured logger for the server.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance. store may be nil, in which case
// the table tools and resources are not registered.
func NewServer(engine Engine, store ports.TableStore, opts ...Option) *Server {
	s := &Server{
		engine:    engine,
		store:     store,
		mcpServer: server.NewMCPServer("turing-mcp", strings.TrimSpace(turing.Version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logging.NewNop()
	}
	s.registerTools()
	if store != nil {
		s.registerTableTools()
		s.registerResources()
	}
	return s
}

// MCPServer returns the underlying server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves MCP over SSE on addr until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, addr, baseURL string) error {
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	s.logger.Info("MCP Server listening (SSE)", "address", addr)
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: compile_program
	compileTool := mcp.NewTool("compile_program",
		mcp.WithDescription("Compile a Turing machine program and return its canonical five-field table."),
		mcp.WithString("source", mcp.Required(), mcp.Description("Program text")),
		mcp.WithOutputSchema[CompileResponse](),
	)
	s.mcpServer.AddTool(compileTool, mcp.NewStructuredToolHandler(s.handleCompile))

	// TOOL: run_program
	runTool := mcp.NewTool("run_program",
		mcp.WithDescription("Compile a program and run it on each input tape. Use 'epsilon' for the empty tape."),
		mcp.WithString("source", mcp.Required(), mcp.Description("Program text")),
		mcp.WithArray("inputs", mcp.Required(), mcp.Description("Input tapes"), mcp.WithStringItems()),
		mcp.WithOutputSchema[RunResponse](),
	)
	s.mcpServer.AddTool(runTool, mcp.NewStructuredToolHandler(s.handleRun))

	// TOOL: graph_program
	s.mcpServer.AddTool(mcp.NewTool("graph_program",
		mcp.WithDescription("Render a program's state diagram as a Mermaid flowchart."),
		mcp.WithString("source", mcp.Required(), mcp.Description("Program text")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		src := request.GetString("source", "")
		p, err := s.engine.Compile(src)
		if err != nil {
			return mcp.NewToolResultError(compileMessage(err)), nil
		}
		return mcp.NewToolResultText(graph.GenerateMermaid(p.Table(), nil)), nil
	})
}

func (s *Server) registerTableTools() {
	// TOOL: list_tables
	listTool := mcp.NewTool("list_tables",
		mcp.WithDescription("List the names of stored tables."),
		mcp.WithOutputSchema[TablesResponse](),
	)
	s.mcpServer.AddTool(listTool, mcp.NewStructuredToolHandler(s.handleListTables))

	// TOOL: run_table
	runTool := mcp.NewTool("run_table",
		mcp.WithDescription("Run a stored table on each input tape."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Table name")),
		mcp.WithArray("inputs", mcp.Required(), mcp.Description("Input tapes"), mcp.WithStringItems()),
		mcp.WithOutputSchema[RunResponse](),
	)
	s.mcpServer.AddTool(runTool, mcp.NewStructuredToolHandler(s.handleRunTable))
}

func (s *Server) registerResources() {
	// EXPOSE: turing://tables
	s.mcpServer.AddResource(mcp.NewResource("turing://tables", "Stored Tables",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		names, err := s.store.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list tables: %w", err)
		}
		jsonBytes, _ := json.Marshal(TablesResponse{Tables: names})

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "turing://tables",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}

// Handler methods for structured tools

func (s *Server) handleCompile(ctx context.Context, request mcp.CallToolRequest, args SourceArgs) (CompileResponse, error) {
	p, err := s.engine.Compile(args.Source)
	if err != nil {
		return CompileResponse{}, errors.New(compileMessage(err))
	}

	var canonical strings.Builder
	if err := p.WriteCanonical(&canonical); err != nil {
		return CompileResponse{}, err
	}
	return CompileResponse{
		InitialState: p.Table().InitialState(),
		Transitions:  p.Table().Len(),
		Canonical:    canonical.String(),
	}, nil
}

func (s *Server) handleRun(ctx context.Context, request mcp.CallToolRequest, args RunArgs) (RunResponse, error) {
	p, err := s.engine.Compile(args.Source)
	if err != nil {
		return RunResponse{}, errors.New(compileMessage(err))
	}
	return runAll(ctx, p, args.Inputs)
}

func (s *Server) handleListTables(ctx context.Context, request mcp.CallToolRequest, args struct{}) (TablesResponse, error) {
	names, err := s.store.List(ctx)
	if err != nil {
		return TablesResponse{}, fmt.Errorf("list failed: %w", err)
	}
	if names == nil {
		names = []string{}
	}
	return TablesResponse{Tables: names}, nil
}

func (s *Server) handleRunTable(ctx context.Context, request mcp.CallToolRequest, args TableArgs) (RunResponse, error) {
	table, err := s.store.Load(ctx, args.Name)
	if err != nil {
		return RunResponse{}, fmt.Errorf("load %q: %w", args.Name, err)
	}
	return runAll(ctx, s.engine.FromTable(table), args.Inputs)
}

func runAll(ctx context.Context, p *turing.Program, args []string) (RunResponse, error) {
	inputs := make([]string, len(args))
	for i, arg := range args {
		inputs[i] = domain.NormalizeInput(arg)
	}

	results, err := p.RunAll(ctx, inputs)
	if err != nil {
		return RunResponse{}, fmt.Errorf("run failed: %w", err)
	}

	resp := RunResponse{Results: make([]RunResult, len(results))}
	for i, res := range results {
		resp.Results[i] = RunResult{Result: res, Line: turing.PlainRenderer(args[i], res)}
	}
	return resp, nil
}

// compileMessage keeps the source line in front of the model.
func compileMessage(err error) string {
	var cerr *compiler.Error
	if errors.As(err, &cerr) {
		return fmt.Sprintf("compile failed at line %d: %v", cerr.Line, cerr.Err)
	}
	return fmt.Sprintf("compile failed: %v", err)
}
