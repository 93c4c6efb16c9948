package main

import (
    "context"
    "errors"
    "fmt"
    "net"
    "net/http"
    "os"
    "strconv"
    "time"

    "github.com/caarlos0/ctrlc"
    "github.com/charmbracelet/log"
    "github.com/modelcontextprotocol/go-sdk/mcp"
    "github.com/spf13/cobra"
    "golang.org/x/sync/errgroup"

    "voispark-mcp/internal/config"
    "voispark-mcp/internal/gateway"
    "voispark-mcp/internal/logging"
    "voispark-mcp/internal/server"
    "voispark-mcp/internal/transport"
)

const shutdownTimeout = 10 * time.Second

var version = "dev"

var (
    cfgPath string
    verbose bool
    stdio   bool
)

func init() {
    rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "Path to a JSON config file")
    rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose debug logging")
    rootCmd.PersistentFlags().BoolVar(&stdio, "stdio", true, "Serve MCP over stdin/stdout")
}

var rootCmd = &cobra.Command{
    Use:   "voispark-mcp",
    Short: "VoiSpark MCP server",
    Long: `VoiSpark MCP server.

Exposes the VoiSpark voice platform (text-to-speech, voice changing, voice
cloning, multi-speaker conversations, voice listing and history) as MCP
resources and tools.

The API endpoint and token come from VOISPARK_API_URL and VOISPARK_API_KEY,
read from the environment or a .env file in the working directory.`,
    Version:       version,
    Args:          cobra.NoArgs,
    SilenceUsage:  true,
    RunE: func(cmd *cobra.Command, args []string) error {
        cfg, err := config.Load(cfgPath)
        if err != nil { return err }
        logger := logging.New(cfg.Log.Level, verbose)
        if !stdio && !cfg.Listening() {
            return errors.New("nothing to serve: stdio is off and no listener is enabled")
        }

        ctx, cancel := context.WithCancel(cmd.Context())
        defer cancel()
        done := make(chan error, 1)
        err = ctrlc.Default.Run(ctx, func() error {
            err := run(ctx, cfg, logger)
            done <- err
            return err
        })
        if errors.As(err, &ctrlc.ErrorCtrlC{}) {
            logger.Warn("Exiting...")
            cancel()
            select {
            case <-done:
            case <-time.After(shutdownTimeout + time.Second):
            }
            return nil
        }
        if err != nil { return fmt.Errorf("failed while serving MCP: %w", err) }
        return nil
    },
}

// Execute runs the root command.
func Execute() {
    if err := rootCmd.Execute(); err != nil {
        os.Exit(1)
    }
}

func run(ctx context.Context, cfg config.Config, logger *log.Logger) error {
    api := transport.New(transport.Options{BaseURL: cfg.API.URL, APIKey: cfg.API.Key, Timeout: cfg.API.Timeout()})
    s := server.NewMCPServer(gateway.New(api, logger), server.MCPOptions{Version: version, Logger: logger})

    ctx, cancel := context.WithCancel(ctx)
    defer cancel()
    g, ctx := errgroup.WithContext(ctx)

    addr := "disabled"
    if cfg.Listening() {
        mux := http.NewServeMux()
        deps := server.Dependencies{MCP: s, Logger: logger}
        server.RegisterRoutes(mux, deps, server.HTTPOptions{Enable: cfg.Server.Enabled})
        server.RegisterWSRoutes(mux, deps, server.WSOptions{Enable: cfg.WebSocket.Enabled, PathPrefix: cfg.WebSocket.PathPrefix})

        // bind explicitly so port 0 works and the real address is logged
        ln, err := net.Listen("tcp", net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)))
        if err != nil { return fmt.Errorf("listen: %w", err) }
        addr = ln.Addr().String()
        srv := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}

        g.Go(func() error {
            if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
                return fmt.Errorf("http server: %w", err)
            }
            return nil
        })
        g.Go(func() error {
            <-ctx.Done()
            logger.Info("shutting down...")
            shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
            defer cancelShutdown()
            return srv.Shutdown(shutdownCtx)
        })
    }

    httpStatus, wsStatus := "disabled", "disabled"
    if cfg.Listening() && cfg.Server.Enabled { httpStatus = "enabled (path=/mcp)" }
    if cfg.Listening() && cfg.WebSocket.Enabled { wsStatus = "enabled (path=" + cfg.WebSocket.PathPrefix + "/mcp)" }
    logger.Info("Startup summary",
        "version", version,
        "api", cfg.API.URL,
        "token", cfg.API.Key != "",
        "stdio", stdio,
        "address", addr,
        "http", httpStatus,
        "websocket", wsStatus,
    )
    if cfg.API.Key == "" {
        logger.Warn("VOISPARK_API_KEY is not set; API calls will be rejected")
    }

    if stdio {
        g.Go(func() error {
            // the client closing stdin ends the whole process
            defer cancel()
            if err := s.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
                return fmt.Errorf("failed to serve MCP: %w", err)
            }
            return nil
        })
    }
    return g.Wait()
}
