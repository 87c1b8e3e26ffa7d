package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aretw0/blink"
	"github.com/aretw0/blink/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	eng, err := blink.New(blink.WithExpandLimit(64))
	require.NoError(t, err)
	return NewServer(eng)
}

func TestHandleCount(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	t.Run("explicit blinks", func(t *testing.T) {
		resp, err := s.handleCount(ctx, mcp.CallToolRequest{}, map[string]interface{}{
			"stones": "125 17",
			"blinks": float64(6),
		})
		require.NoError(t, err)
		assert.Equal(t, uint64(22), resp.Total)
		assert.Equal(t, uint32(6), resp.Iterations)
		assert.Equal(t, 2, resp.Stones)
	})

	t.Run("part two", func(t *testing.T) {
		resp, err := s.handleCount(ctx, mcp.CallToolRequest{}, map[string]interface{}{
			"stones": "125 17",
			"part":   float64(2),
		})
		require.NoError(t, err)
		assert.Equal(t, uint64(65601038650482), resp.Total)
		assert.Equal(t, string(domain.StrategyHistogram), resp.Strategy)
	})

	t.Run("default part", func(t *testing.T) {
		resp, err := s.handleCount(ctx, mcp.CallToolRequest{}, map[string]interface{}{"stones": "125 17"})
		require.NoError(t, err)
		assert.Equal(t, uint64(55312), resp.Total)
	})

	t.Run("invalid input", func(t *testing.T) {
		_, err := s.handleCount(ctx, mcp.CallToolRequest{}, map[string]interface{}{
			"stones": "12 abc",
			"blinks": float64(1),
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("invalid part", func(t *testing.T) {
		_, err := s.handleCount(ctx, mcp.CallToolRequest{}, map[string]interface{}{
			"stones": "1",
			"part":   float64(3),
		})
		assert.ErrorIs(t, err, domain.ErrInvalidPart)
	})
}

func TestHandleExpand(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	resp, err := s.handleExpand(ctx, mcp.CallToolRequest{}, map[string]interface{}{
		"stones": "125 17",
		"blinks": float64(3),
	})
	require.NoError(t, err)
	assert.Equal(t, []uint64{512072, 1, 20, 24, 28676032}, resp.Stones)
	assert.Equal(t, 5, resp.Count)

	_, err = s.handleExpand(ctx, mcp.CallToolRequest{}, map[string]interface{}{"stones": "125 17"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = s.handleExpand(ctx, mcp.CallToolRequest{}, map[string]interface{}{
		"stones": "125 17",
		"blinks": float64(25),
	})
	assert.ErrorIs(t, err, domain.ErrTooManyStones)
}

func TestToolsAreListed(t *testing.T) {
	s := newTestServer(t)

	msg := json.RawMessage(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`)
	resp := s.MCPServer().HandleMessage(context.Background(), msg)
	require.NotNil(t, resp)

	raw, err := json.Marshal(resp)
	require.NoError(t, err)

	var decoded struct {
		Result struct {
			Tools []struct {
				Name string `json:"name"`
			} `json:"tools"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(raw, &decoded))

	var names []string
	for _, tool := range decoded.Result.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{"count_stones", "expand_stones"}, names)
}

func TestIntArg(t *testing.T) {
	args := map[string]interface{}{
		"float":    float64(7),
		"frac":     7.5,
		"huge":     1e300,
		"number":   json.Number("9"),
		"badnum":   json.Number("9.5"),
		"string":   "11",
		"trailing": "6xyz",
		"word":     "abc",
		"garbage":  true,
		"null":     nil,
	}

	valid := map[string]int{"float": 7, "number": 9, "string": 11}
	for name, want := range valid {
		n, ok, err := intArg(args, name)
		require.NoError(t, err, name)
		assert.True(t, ok, name)
		assert.Equal(t, want, n, name)
	}

	for _, name := range []string{"frac", "huge", "badnum", "trailing", "word", "garbage"} {
		_, ok, err := intArg(args, name)
		assert.True(t, ok, name)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, name)
	}

	for _, name := range []string{"missing", "null"} {
		_, ok, err := intArg(args, name)
		assert.NoError(t, err, name)
		assert.False(t, ok, name)
	}
}

func TestHandleCount_MalformedBlinksIsRejected(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	for _, blinks := range []interface{}{2.5, "abc", "6xyz", true} {
		_, err := s.handleCount(ctx, mcp.CallToolRequest{}, map[string]interface{}{
			"stones": "125 17",
			"blinks": blinks,
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "blinks %v", blinks)
	}

	_, err := s.handleCount(ctx, mcp.CallToolRequest{}, map[string]interface{}{
		"stones": "125 17",
		"part":   "two",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidPart)

	resp, err := s.handleCount(ctx, mcp.CallToolRequest{}, map[string]interface{}{
		"stones": "125 17",
		"blinks": "6",
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(22), resp.Total)
}

func TestHandleExpand_MalformedBlinksIsRejected(t *testing.T) {
	s := newTestServer(t)
	_, err := s.handleExpand(context.Background(), mcp.CallToolRequest{}, map[string]interface{}{
		"stones": "125 17",
		"blinks": 1.5,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
