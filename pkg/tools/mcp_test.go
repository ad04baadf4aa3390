package tools

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tinyland-inc/boardroom/pkg/providers"
)

// fakeMCPServer answers tools/list and tools/call with fixed fixtures.
func fakeMCPServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req RPCRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		resp := RPCResponse{JSONRPC: "2.0", ID: req.ID}
		switch req.Method {
		case "tools/list":
			resp.Result = json.RawMessage(`{
				"tools": [
					{
						"name": "create_quotation",
						"description": "Create a sales quotation",
						"inputSchema": {
							"type": "object",
							"properties": {"customer": {"type": "string"}},
							"required": ["customer"]
						}
					},
					{"name": "list_customers", "description": "List CRM customers"}
				]
			}`)
		case "tools/call":
			params, _ := json.Marshal(req.Params)
			var call callToolParams
			json.Unmarshal(params, &call)
			switch call.Name {
			case "create_quotation":
				resp.Result = json.RawMessage(`{
					"content": [{"type": "text", "text": "Quotation QTN-001 created"}]
				}`)
			case "broken_tool":
				resp.Result = json.RawMessage(`{
					"content": [{"type": "text", "text": "customer not found"}],
					"isError": true
				}`)
			default:
				resp.Error = &RPCError{Code: -32601, Message: "unknown tool"}
			}
		default:
			resp.Error = &RPCError{Code: -32601, Message: "method not found"}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
}

func TestMCPClient_ListTools(t *testing.T) {
	server := fakeMCPServer(t)
	defer server.Close()

	client := NewMCPClient(server.URL)
	infos, err := client.ListTools(t.Context())
	if err != nil {
		t.Fatalf("ListTools() error: %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("len(infos) = %d, want 2", len(infos))
	}
	if infos[0].Name != "create_quotation" || infos[0].Description != "Create a sales quotation" {
		t.Errorf("infos[0] = %+v", infos[0])
	}
	if infos[0].InputSchema["type"] != "object" {
		t.Errorf("InputSchema = %v", infos[0].InputSchema)
	}
}

func TestMCPClient_CallTool(t *testing.T) {
	server := fakeMCPServer(t)
	defer server.Close()

	client := NewMCPClient(server.URL)
	out, err := client.CallTool(t.Context(), "create_quotation", map[string]any{"customer": "ACME"})
	if err != nil {
		t.Fatalf("CallTool() error: %v", err)
	}
	if out != "Quotation QTN-001 created" {
		t.Errorf("out = %q", out)
	}
}

func TestMCPClient_CallTool_IsError(t *testing.T) {
	server := fakeMCPServer(t)
	defer server.Close()

	client := NewMCPClient(server.URL)
	_, err := client.CallTool(t.Context(), "broken_tool", nil)
	if err == nil {
		t.Fatal("expected error for isError result")
	}
	if !strings.Contains(err.Error(), "customer not found") {
		t.Errorf("error = %v, want server text", err)
	}
}

func TestMCPClient_RPCError(t *testing.T) {
	server := fakeMCPServer(t)
	defer server.Close()

	client := NewMCPClient(server.URL)
	if _, err := client.CallTool(t.Context(), "no_such_tool", nil); err == nil {
		t.Fatal("expected rpc error")
	}
}

func TestLoadSet_PrefixesAndProxies(t *testing.T) {
	server := fakeMCPServer(t)
	defer server.Close()

	set, err := LoadSet(t.Context(), "erpnext-crm", "erpnext_crm_", NewMCPClient(server.URL))
	if err != nil {
		t.Fatalf("LoadSet() error: %v", err)
	}
	if len(set.Tools) != 2 {
		t.Fatalf("len(Tools) = %d, want 2", len(set.Tools))
	}

	tool := set.Find("erpnext_crm_create_quotation")
	if tool == nil {
		t.Fatal("prefixed tool not found")
	}
	// Execution strips the prefix when calling the remote server.
	out, err := tool.Execute(t.Context(), map[string]any{"customer": "ACME"})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if out != "Quotation QTN-001 created" {
		t.Errorf("out = %q", out)
	}
}

func TestLoadSet_MissingSchemaDefaulted(t *testing.T) {
	server := fakeMCPServer(t)
	defer server.Close()

	set, err := LoadSet(t.Context(), "erpnext-crm", "erpnext_crm_", NewMCPClient(server.URL))
	if err != nil {
		t.Fatal(err)
	}
	tool := set.Find("erpnext_crm_list_customers")
	if tool == nil {
		t.Fatal("tool not found")
	}
	params := tool.Definition.Function.Parameters
	if params["type"] != "object" {
		t.Errorf("missing schema not defaulted: %v", params)
	}
}

func TestSet_Definitions(t *testing.T) {
	set := &Set{Name: "x", Tools: []Tool{
		{Definition: providers.ToolDefinition{Type: "function", Function: providers.ToolFunctionDefinition{Name: "a"}}},
		{Definition: providers.ToolDefinition{Type: "function", Function: providers.ToolFunctionDefinition{Name: "b"}}},
	}}
	defs := set.Definitions()
	if len(defs) != 2 || defs[1].Function.Name != "b" {
		t.Errorf("defs = %+v", defs)
	}
}

func TestMerge(t *testing.T) {
	a := &Set{Name: "a", Tools: []Tool{
		{Definition: providers.ToolDefinition{Function: providers.ToolFunctionDefinition{Name: "one"}}},
	}}
	b := &Set{Name: "b", Tools: []Tool{
		{Definition: providers.ToolDefinition{Function: providers.ToolFunctionDefinition{Name: "two"}}},
	}}

	merged := Merge("combined", a, nil, b)
	if len(merged.Tools) != 2 {
		t.Fatalf("len(Tools) = %d, want 2", len(merged.Tools))
	}
	if merged.Find("one") == nil || merged.Find("two") == nil {
		t.Error("merged set missing tools")
	}
	if merged.Find("three") != nil {
		t.Error("Find returned a tool that does not exist")
	}
}
