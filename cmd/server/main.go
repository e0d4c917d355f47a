// Command server runs the EnreachVoice MCP server.
//
// Credentials come from the environment (or a YAML config file):
//
//	ENREACHVOICE_APIUSER    - EnreachVoice API username (required)
//	ENREACHVOICE_APISECRET  - EnreachVoice API secret key (required)
//	ENREACHVOICE_ENDPOINT   - API base URL (optional, skips discovery)
//	ENREACHVOICE_CONFIG     - Path to config.yaml (optional)
//	ENREACHVOICE_TRANSPORT  - "stdio" (default) or "http"
//	ENREACHVOICE_PORT       - Listen port for the http transport (default: 8080)
//
// A missing or empty credential is a fatal configuration error: the
// process exits before any tool becomes callable.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/enreach/enreachvoice-mcp/pkg/auth"
	"github.com/enreach/enreachvoice-mcp/pkg/config"
	"github.com/enreach/enreachvoice-mcp/pkg/debug"
	"github.com/enreach/enreachvoice-mcp/pkg/enreach"
	"github.com/enreach/enreachvoice-mcp/pkg/tools"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to config.yaml")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	debug.Init(cfg.Debug.Categories, cfg.Debug.Level)

	// Create the API client and resolve endpoint + identity up front so
	// a bad credential fails before any tool call is accepted.
	client, err := enreach.New(enreach.Config{
		User:         cfg.API.User,
		SecretKey:    cfg.API.Secret,
		Password:     cfg.API.Password,
		Endpoint:     cfg.API.Endpoint,
		DiscoveryURL: cfg.API.DiscoveryURL,
		Timeout:      cfg.API.Timeout,
	})
	if err != nil {
		return fmt.Errorf("creating API client: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := client.Connect(ctx); err != nil {
		return fmt.Errorf("connecting to EnreachVoice: %w", err)
	}
	slog.Info("connected to EnreachVoice", "endpoint", client.Endpoint(), "user_id", client.UserID())

	// Build the MCP server.
	srv := tools.New(client, tools.Config{
		DefaultDirectory:       cfg.Tools.DefaultDirectory,
		MaxDirectoryEntries:    cfg.Tools.MaxDirectoryEntries,
		RecordingsDir:          cfg.Tools.RecordingsDir,
		TranscriptPollInterval: cfg.Tools.TranscriptPollInterval,
		TranscriptPollAttempts: cfg.Tools.TranscriptPollAttempts,
	}).MCPServer(version)

	switch cfg.Server.Transport {
	case "http":
		return serveHTTP(ctx, srv, cfg)
	default:
		slog.Info("serving MCP over stdio", "version", version)
		return srv.Run(ctx, &mcp.StdioTransport{})
	}
}

// serveHTTP exposes the MCP server over streamable HTTP with health,
// metrics, and bearer authentication.
func serveHTTP(ctx context.Context, srv *mcp.Server, cfg *config.Config) error {
	handler := mcp.NewStreamableHTTPHandler(func(r *http.Request) *mcp.Server {
		return srv
	}, nil)

	mux := http.NewServeMux()
	mux.Handle("/mcp", handler)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok\n"))
	})

	bypass := []string{"/healthz"}
	if cfg.Observability.Metrics.Enabled {
		mux.Handle("GET "+cfg.Observability.Metrics.Path, promhttp.Handler())
		bypass = append(bypass, cfg.Observability.Metrics.Path)
	}

	chain, err := buildAuthChain(cfg.Auth)
	if err != nil {
		return err
	}
	root := auth.Middleware(chain, bypass)(mux)

	httpSrv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      root,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("serving MCP over http", "port", cfg.Server.Port, "auth", cfg.Auth.Type, "version", version)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutting down gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

// buildAuthChain assembles the authenticator chain for the HTTP transport.
func buildAuthChain(cfg config.AuthConfig) (*auth.Chain, error) {
	switch cfg.Type {
	case "none":
		return &auth.Chain{DefaultDecision: auth.Yes}, nil

	case "apikey":
		entries := make([]auth.RawKeyEntry, 0, len(cfg.APIKeys))
		for _, k := range cfg.APIKeys {
			subject := k.Subject
			if subject == "" {
				subject = "apikey"
			}
			entries = append(entries, auth.RawKeyEntry{Key: k.Key, Subject: subject})
		}
		return &auth.Chain{
			Authenticators:  []auth.Authenticator{auth.NewAPIKey(entries)},
			DefaultDecision: auth.No,
		}, nil

	case "jwt":
		return &auth.Chain{
			Authenticators: []auth.Authenticator{auth.NewJWT(auth.JWTConfig{
				Secret:   cfg.JWTSecret,
				Issuer:   cfg.Issuer,
				Audience: cfg.Audience,
			})},
			DefaultDecision: auth.No,
		}, nil

	default:
		return nil, fmt.Errorf("unknown auth type %q", cfg.Type)
	}
}
