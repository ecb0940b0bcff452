package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	grpc_logging "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	grpc_recovery "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"

	"github.com/KirkDiggler/rpg-perception/internal/clients/socket"
	"github.com/KirkDiggler/rpg-perception/internal/config"
	"github.com/KirkDiggler/rpg-perception/internal/handlers/perception/v1alpha1"
	"github.com/KirkDiggler/rpg-perception/internal/handlers/web"
	"github.com/KirkDiggler/rpg-perception/internal/orchestrators/perception"
	"github.com/KirkDiggler/rpg-perception/internal/render/raster"
)

var (
	configPath string
	grpcPort   int
	httpPort   int
	redisAddr  string
	fogBackend string
	logLevel   string
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the gRPC server",
	Long:  `Start the perception gRPC server and the HTTP debug and websocket listener.`,
	RunE:  runServer,
}

func init() {
	serverCmd.Flags().StringVar(&configPath, "config", "", "YAML config file")
	serverCmd.Flags().IntVar(&grpcPort, "port", 0, "gRPC server port (overrides config)")
	serverCmd.Flags().IntVar(&httpPort, "http-port", -1, "HTTP port, 0 disables (overrides config)")
	serverCmd.Flags().StringVar(&redisAddr, "redis", "", "redis endpoints (overrides config)")
	serverCmd.Flags().StringVar(&fogBackend, "fog-backend", "", "fog storage: redis, minio or memory (overrides config)")
	serverCmd.Flags().StringVar(&logLevel, "log-level", "info", "debug, info, warn or error")
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if grpcPort > 0 {
		cfg.Server.GRPCPort = grpcPort
	}
	if httpPort >= 0 {
		cfg.Server.HTTPPort = httpPort
	}
	if redisAddr != "" {
		cfg.Redis.Endpoints = redisAddr
	}
	if fogBackend != "" {
		cfg.Fog.Backend = config.FogBackend(fogBackend)
	}
	return cfg, cfg.Validate()
}

func runServer(cmd *cobra.Command, args []string) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", logLevel, err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	backends, err := newBackends(ctx, cfg)
	if err != nil {
		return err
	}
	defer backends.Close()

	perceptionService, err := perception.NewOrchestrator(&perception.Config{
		Host:        raster.New(&raster.Config{MaxPixels: cfg.Perception.MaxTexturePixels}),
		Repository:  backends.Repository,
		Broadcaster: backends.Broadcaster,
		Fog: perception.FogOptions{
			CommitThreshold: cfg.Fog.CommitThreshold,
			SaveDelay:       cfg.Fog.SaveDelay,
			MaxTextureSize:  cfg.Fog.MaxTextureSize,
			Overlay:         cfg.Fog.Overlay,
		},
		Density:      cfg.Perception.Density,
		TickInterval: cfg.Perception.TickInterval,
	})
	if err != nil {
		return fmt.Errorf("failed to create perception orchestrator: %w", err)
	}
	defer func() {
		if err := perceptionService.Close(context.Background()); err != nil {
			slog.Error("failed to close perception sessions", "error", err)
		}
	}()

	perceptionHandler, err := v1alpha1.NewHandler(&v1alpha1.HandlerConfig{
		PerceptionService: perceptionService,
	})
	if err != nil {
		return fmt.Errorf("failed to create perception handler: %w", err)
	}

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.Server.GRPCPort))
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			grpc_logging.UnaryServerInterceptor(grpc_logging.LoggerFunc(logFunc)),
			grpc_recovery.UnaryServerInterceptor(),
		),
		grpc.ChainStreamInterceptor(
			grpc_logging.StreamServerInterceptor(grpc_logging.LoggerFunc(logFunc)),
			grpc_recovery.StreamServerInterceptor(),
		),
	)
	v1alpha1.RegisterPerceptionServiceServer(srv, perceptionHandler)

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(srv, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(v1alpha1.ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)

	reflection.Register(srv)

	errChan := make(chan error, 2)
	go func() {
		slog.Info("gRPC server starting", "port", cfg.Server.GRPCPort, "fog_backend", cfg.Fog.Backend)
		if err := srv.Serve(lis); err != nil {
			errChan <- fmt.Errorf("failed to serve: %w", err)
		}
	}()

	var httpServer *http.Server
	if cfg.Server.HTTPPort > 0 {
		httpServer, err = newHTTPServer(ctx, cfg, perceptionService, backends.Broadcaster)
		if err != nil {
			srv.Stop()
			return err
		}
		go func() {
			slog.Info("HTTP server starting", "port", cfg.Server.HTTPPort)
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errChan <- fmt.Errorf("failed to serve http: %w", err)
			}
		}()
	}

	select {
	case <-ctx.Done():
		slog.Info("Shutting down servers")
	case err := <-errChan:
		srv.Stop()
		return err
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	healthServer.Shutdown()
	if httpServer != nil {
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			slog.Warn("HTTP shutdown incomplete", "error", err)
		}
	}

	stopped := make(chan struct{})
	go func() {
		srv.GracefulStop()
		close(stopped)
	}()

	select {
	case <-shutdownCtx.Done():
		slog.Warn("Graceful shutdown timeout exceeded, forcing stop")
		srv.Stop()
	case <-stopped:
		slog.Info("Server stopped gracefully")
	}
	return nil
}

func newHTTPServer(ctx context.Context, cfg *config.Config, svc perception.Service, broadcaster socket.Broadcaster) (*http.Server, error) {
	hub, err := socket.NewHub(&socket.HubConfig{Broadcaster: broadcaster})
	if err != nil {
		return nil, fmt.Errorf("failed to create websocket hub: %w", err)
	}
	if err := hub.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start websocket hub: %w", err)
	}

	router, err := web.NewRouter(&web.Config{PerceptionService: svc, Socket: hub})
	if err != nil {
		hub.Close()
		return nil, fmt.Errorf("failed to create router: %w", err)
	}

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
	}
	httpServer.RegisterOnShutdown(hub.Close)
	return httpServer, nil
}

func logFunc(ctx context.Context, level grpc_logging.Level, msg string, fields ...any) {
	slog.Log(ctx, slog.Level(level), msg, fields...)
}
