package oauth

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net"
	"net/http"
	"time"
)

// CallbackResult contains the OAuth callback response
type CallbackResult struct {
	Code  string // Authorization code
	State string // State parameter for CSRF protection
	Error string // Error if authorization failed
}

// CallbackServer receives the authorization redirect on the loopback
// interface
type CallbackServer struct {
	server   *http.Server
	listener net.Listener
	result   chan CallbackResult
}

// NewCallbackServer creates a server answering on addr and path
func NewCallbackServer(addr, path string) *CallbackServer {
	cs := &CallbackServer{
		result: make(chan CallbackResult, 1),
	}

	mux := http.NewServeMux()
	mux.HandleFunc(path, cs.handleCallback)

	cs.server = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return cs
}

func (cs *CallbackServer) handleCallback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	result := CallbackResult{
		Code:  query.Get("code"),
		State: query.Get("state"),
		Error: query.Get("error"),
	}

	select {
	case cs.result <- result:
	default:
	}

	w.Header().Set("Content-Type", "text/html")
	if result.Error != "" {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprintf(w, `<!DOCTYPE html>
<html>
<head><title>spotui login failed</title></head>
<body>
	<h1>Authentication Failed</h1>
	<p>Error: %s</p>
	<p>You can close this window.</p>
</body>
</html>`, html.EscapeString(result.Error))
		return
	}

	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, `<!DOCTYPE html>
<html>
<head><title>spotui login</title></head>
<body>
	<h1>Authentication Successful!</h1>
	<p>You can close this window and return to the terminal.</p>
	<script>window.close();</script>
</body>
</html>`)
}

// Start binds the listener and serves in the background.
// A port already in use is reported here.
func (cs *CallbackServer) Start() error {
	ln, err := net.Listen("tcp", cs.server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cs.server.Addr, err)
	}
	cs.listener = ln

	go func() {
		if err := cs.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			select {
			case cs.result <- CallbackResult{Error: err.Error()}:
			default:
			}
		}
	}()
	return nil
}

// Addr returns the bound address, useful when started on port 0
func (cs *CallbackServer) Addr() string {
	if cs.listener == nil {
		return cs.server.Addr
	}
	return cs.listener.Addr().String()
}

// WaitForCallback waits for the redirect until ctx ends or timeout passes
func (cs *CallbackServer) WaitForCallback(ctx context.Context, timeout time.Duration) (*CallbackResult, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case result := <-cs.result:
		return &result, nil
	case <-timer.C:
		return nil, fmt.Errorf("timeout waiting for OAuth callback")
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Shutdown gracefully shuts down the server
func (cs *CallbackServer) Shutdown(ctx context.Context) error {
	return cs.server.Shutdown(ctx)
}
