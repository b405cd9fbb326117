package ledger

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/paywall/internal/logging"
)

type rpcRequest struct {
	ID     json.RawMessage `json:"id"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params"`
}

type rpcFailure struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// rpcHandler returns either a result or a JSON-RPC error for one call.
type rpcHandler func(params json.RawMessage) (any, *rpcFailure)

type fakeNode struct {
	t        *testing.T
	mu       sync.Mutex
	handlers map[string]rpcHandler
	calls    map[string]int
}

func newFakeNode(t *testing.T, handlers map[string]rpcHandler) (*fakeNode, *RPCClient) {
	t.Helper()
	n := &fakeNode{t: t, handlers: handlers, calls: map[string]int{}}
	srv := httptest.NewServer(n)
	t.Cleanup(srv.Close)
	return n, NewRPCClient(srv.URL, 5*time.Millisecond, logging.Discard())
}

func (n *fakeNode) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req rpcRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		n.t.Errorf("decode rpc request: %v", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	n.mu.Lock()
	n.calls[req.Method]++
	h, ok := n.handlers[req.Method]
	n.mu.Unlock()

	resp := map[string]any{"jsonrpc": "2.0", "id": req.ID}
	if !ok {
		resp["error"] = rpcFailure{Code: -32601, Message: "method not found: " + req.Method}
	} else if result, failure := h(req.Params); failure != nil {
		resp["error"] = failure
	} else {
		resp["result"] = result
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func (n *fakeNode) count(method string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.calls[method]
}

func withContext(value any) map[string]any {
	return map[string]any{"context": map[string]any{"slot": 1}, "value": value}
}

func result(v any) rpcHandler {
	return func(json.RawMessage) (any, *rpcFailure) { return v, nil }
}
