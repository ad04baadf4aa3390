package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/tinyland-inc/boardroom/pkg/providers"
)

// MCPClient speaks JSON-RPC 2.0 over HTTP to a remote MCP tool server.
type MCPClient struct {
	url        string
	httpClient *http.Client
	nextID     atomic.Uint64
}

// RPCRequest is a JSON-RPC 2.0 request.
type RPCRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      uint64 `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

// RPCResponse is a JSON-RPC 2.0 response.
type RPCResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      uint64          `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

// RPCError is a JSON-RPC 2.0 error.
type RPCError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func NewMCPClient(url string) *MCPClient {
	return &MCPClient{
		url:        url,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// ToolInfo describes one tool advertised by a remote MCP server.
type ToolInfo struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

type listToolsResult struct {
	Tools []ToolInfo `json:"tools"`
}

// ListTools queries the server's tool inventory.
func (c *MCPClient) ListTools(ctx context.Context) ([]ToolInfo, error) {
	var result listToolsResult
	if err := c.call(ctx, "tools/list", nil, &result); err != nil {
		return nil, err
	}
	return result.Tools, nil
}

type callToolParams struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

type callToolResult struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	IsError bool `json:"isError,omitempty"`
}

// CallTool invokes a named tool and returns its textual output.
func (c *MCPClient) CallTool(ctx context.Context, name string, args map[string]any) (string, error) {
	var result callToolResult
	if err := c.call(ctx, "tools/call", callToolParams{Name: name, Arguments: args}, &result); err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, part := range result.Content {
		if part.Type == "text" {
			sb.WriteString(part.Text)
		}
	}
	if result.IsError {
		return "", fmt.Errorf("tool %s failed: %s", name, sb.String())
	}
	return sb.String(), nil
}

func (c *MCPClient) call(ctx context.Context, method string, params, out any) error {
	reqBody, err := json.Marshal(RPCRequest{
		JSONRPC: "2.0",
		ID:      c.nextID.Add(1),
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return fmt.Errorf("encode rpc request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(reqBody))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("mcp request: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		return fmt.Errorf("mcp server returned %d", httpResp.StatusCode)
	}

	var rpcResp RPCResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&rpcResp); err != nil {
		return fmt.Errorf("decode rpc response: %w", err)
	}
	if rpcResp.Error != nil {
		return fmt.Errorf("rpc error %d: %s", rpcResp.Error.Code, rpcResp.Error.Message)
	}
	if out != nil {
		if err := json.Unmarshal(rpcResp.Result, out); err != nil {
			return fmt.Errorf("decode rpc result: %w", err)
		}
	}
	return nil
}

// LoadSet builds a tool set from the server's advertised inventory. Each
// tool name gets the given prefix so sets from different servers cannot
// collide inside one agent.
func LoadSet(ctx context.Context, name, prefix string, client *MCPClient) (*Set, error) {
	infos, err := client.ListTools(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing tools from %s: %w", name, err)
	}

	set := &Set{Name: name}
	for _, info := range infos {
		remoteName := info.Name
		params := info.InputSchema
		if params == nil {
			params = map[string]any{"type": "object", "properties": map[string]any{}}
		}
		set.Tools = append(set.Tools, Tool{
			Definition: providers.ToolDefinition{
				Type: "function",
				Function: providers.ToolFunctionDefinition{
					Name:        prefix + remoteName,
					Description: info.Description,
					Parameters:  params,
				},
			},
			Execute: func(ctx context.Context, args map[string]any) (string, error) {
				return client.CallTool(ctx, remoteName, args)
			},
		})
	}
	return set, nil
}
