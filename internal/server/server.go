package server

import (
    "net/http"

    "github.com/charmbracelet/log"
    "github.com/modelcontextprotocol/go-sdk/mcp"
)

type Dependencies struct {
    MCP    *mcp.Server
    Logger *log.Logger
}

type HTTPOptions struct {
    Enable bool
}

// RegisterRoutes mounts /healthz and, when enabled, the streamable HTTP MCP
// endpoint at /mcp.
func RegisterRoutes(mux *http.ServeMux, d Dependencies, o HTTPOptions) {
    mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
        w.WriteHeader(http.StatusOK)
        _, _ = w.Write([]byte("ok"))
    })

    if o.Enable && d.MCP != nil {
        s := d.MCP
        mux.Handle("/mcp", mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server { return s }, nil))
        d.logger().Info("HTTP MCP endpoint enabled", "path", "/mcp")
    }
}
