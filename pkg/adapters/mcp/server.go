package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/blink"
	"github.com/aretw0/blink/pkg/domain"
	"github.com/aretw0/blink/pkg/ports"
	"github.com/aretw0/blink/pkg/stone"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// CountResponse is the structured output of the count_stones tool.
type CountResponse struct {
	Total      uint64 `json:"total" jsonschema_description:"Number of stones after the blinks"`
	Iterations uint32 `json:"iterations" jsonschema_description:"Number of blinks applied"`
	Stones     int    `json:"stones" jsonschema_description:"Number of initial stones"`
	Strategy   string `json:"strategy" jsonschema_description:"Evaluator that produced the total"`
	Cached     bool   `json:"cached" jsonschema_description:"Whether the result came from the result store"`
}

// ExpandResponse is the structured output of the expand_stones tool.
type ExpandResponse struct {
	Stones []uint64 `json:"stones" jsonschema_description:"Ordered arrangement of stones"`
	Count  int      `json:"count" jsonschema_description:"Number of stones"`
}

// Server wraps the blink Engine and exposes it as an MCP Server.
type Server struct {
	engine    ports.Engine
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(engine ports.Engine) *Server {
	s := &Server{
		engine:    engine,
		mcpServer: server.NewMCPServer("blink-mcp", strings.TrimSpace(blink.Version)),
	}
	s.registerTools()
	return s
}

// MCPServer returns the underlying mcp-go server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops it when
// ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
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

func (s *Server) registerTools() {
	countTool := mcp.NewTool("count_stones",
		mcp.WithDescription("Count the stones a whitespace separated list of numbers becomes after a number of blinks."),
		mcp.WithString("stones", mcp.Required(), mcp.Description("Whitespace separated non-negative integers, e.g. \"125 17\"")),
		mcp.WithNumber("blinks", mcp.Description("Number of blinks (defaults to the blinks of part)")),
		mcp.WithNumber("part", mcp.Description("Puzzle part: 1 = 25 blinks, 2 = 75 blinks (default 1)")),
		mcp.WithOutputSchema[CountResponse](),
	)
	s.mcpServer.AddTool(countTool, mcp.NewStructuredToolHandler(s.handleCount))

	expandTool := mcp.NewTool("expand_stones",
		mcp.WithDescription("List the ordered stones after a small number of blinks."),
		mcp.WithString("stones", mcp.Required(), mcp.Description("Whitespace separated non-negative integers")),
		mcp.WithNumber("blinks", mcp.Required(), mcp.Description("Number of blinks")),
		mcp.WithOutputSchema[ExpandResponse](),
	)
	s.mcpServer.AddTool(expandTool, mcp.NewStructuredToolHandler(s.handleExpand))
}

func (s *Server) handleCount(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (CountResponse, error) {
	input, _ := args["stones"].(string)

	blinks, err := blinksArg(args)
	if err != nil {
		return CountResponse{}, err
	}

	res, err := s.engine.RunInput(ctx, input, blinks)
	if err != nil {
		return CountResponse{}, fmt.Errorf("count failed: %w", err)
	}

	return CountResponse{
		Total:      res.Total,
		Iterations: res.Iterations,
		Stones:     res.Stones,
		Strategy:   string(res.Strategy),
		Cached:     res.Cached,
	}, nil
}

func (s *Server) handleExpand(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ExpandResponse, error) {
	input, _ := args["stones"].(string)

	values, err := stone.Parse(input)
	if err != nil {
		return ExpandResponse{}, err
	}

	blinks, ok, err := intArg(args, "blinks")
	if err != nil {
		return ExpandResponse{}, err
	}
	if !ok {
		return ExpandResponse{}, fmt.Errorf("%w: blinks is required", domain.ErrInvalidInput)
	}

	stones, err := s.engine.Expand(ctx, values, blinks)
	if err != nil {
		return ExpandResponse{}, fmt.Errorf("expand failed: %w", err)
	}
	return ExpandResponse{Stones: stones, Count: len(stones)}, nil
}

// blinksArg prefers an explicit blinks argument and falls back to part.
// A present but malformed argument is an error, never a fallback.
func blinksArg(args map[string]interface{}) (int, error) {
	n, ok, err := intArg(args, "blinks")
	if err != nil {
		return 0, err
	}
	if ok {
		return n, nil
	}

	part, ok, err := intArg(args, "part")
	if err != nil {
		return 0, fmt.Errorf("%w: %w", domain.ErrInvalidPart, err)
	}
	if !ok {
		part = 1
	}
	return domain.BlinksForPart(part)
}

// maxExactInt is the largest magnitude a float64 holds without rounding.
const maxExactInt = 1 << 53

// intArg reads a whole number from JSON arguments, which arrive as float64
// (or json.Number, or a numeric string from lenient clients). ok is false
// when the argument is absent; a present value that is not a whole number
// fails with domain.ErrInvalidInput.
func intArg(args map[string]interface{}, name string) (n int, ok bool, err error) {
	raw, present := args[name]
	if !present || raw == nil {
		return 0, false, nil
	}

	switch v := raw.(type) {
	case float64:
		if v != math.Trunc(v) || math.Abs(v) > maxExactInt {
			return 0, true, fmt.Errorf("%w: %s must be a whole number, got %v", domain.ErrInvalidInput, name, v)
		}
		return int(v), true, nil
	case int:
		return v, true, nil
	case json.Number:
		n, err := strconv.Atoi(v.String())
		if err != nil {
			return 0, true, fmt.Errorf("%w: %s must be a whole number, got %q", domain.ErrInvalidInput, name, v.String())
		}
		return n, true, nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, true, fmt.Errorf("%w: %s must be a whole number, got %q", domain.ErrInvalidInput, name, v)
		}
		return n, true, nil
	default:
		return 0, true, fmt.Errorf("%w: %s must be a whole number, got %T", domain.ErrInvalidInput, name, raw)
	}
}
