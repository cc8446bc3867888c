package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/tools/clientcmd"

	"github.com/demikl/tarnfui/internal/adapters/outbound/k8s"
	"github.com/demikl/tarnfui/internal/config"
	"github.com/demikl/tarnfui/internal/httpserver"
	"github.com/demikl/tarnfui/internal/infra/appstate"
	"github.com/demikl/tarnfui/internal/infra/shutdown"
	"github.com/demikl/tarnfui/internal/logic/scheduler"
	"github.com/demikl/tarnfui/internal/logic/workload"
)

type App struct {
	logger        *slog.Logger
	cfg           *config.Config
	appState      *appstate.AppState
	scheduler     *scheduler.Service
	httpServer    *httpserver.Server
	metricsServer *httpserver.MetricsServer
	signalHandler *shutdown.Handler
}

// New creates a new application instance with all dependencies wired.
func New(
	logger *slog.Logger,
	cfg *config.Config,
	appStart time.Time,
	signals <-chan os.Signal,
) (*App, error) {
	// Empty master URL and kubeconfig path fall back to in-cluster config.
	kubeConfig, err := clientcmd.BuildConfigFromFlags(cfg.KubeMaster, cfg.KubeConfig)
	if err != nil {
		return nil, fmt.Errorf("build k8s config: %w", err)
	}

	clientset, err := kubernetes.NewForConfig(kubeConfig)
	if err != nil {
		return nil, fmt.Errorf("create clientset: %w", err)
	}

	dynamicClient, err := dynamic.NewForConfig(kubeConfig)
	if err != nil {
		return nil, fmt.Errorf("create dynamic client: %w", err)
	}

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "tarnfui"
	}

	repo := k8s.New(logger, clientset, dynamicClient, hostname)

	controller := workload.NewController(logger, repo, cfg.Namespace, cfg.ResourceTypes)

	schedulerService := scheduler.New(logger, cfg.Window(), controller, cfg.Interval)

	appState := appstate.New(logger, appStart, signals)

	return &App{
		logger:        logger,
		cfg:           cfg,
		appState:      appState,
		scheduler:     schedulerService,
		httpServer:    httpserver.New(logger, appState, schedulerService, cfg.HTTPPort),
		metricsServer: httpserver.NewMetricsServer(logger, cfg.MetricsPort),
		signalHandler: shutdown.New(logger, appState),
	}, nil
}

// Run starts the application and blocks until the context is cancelled or,
// in one-shot mode, until a single reconciliation completed.
func (a *App) Run(originCtx context.Context) error {
	ctx, cancel := context.WithCancel(originCtx)
	defer cancel()

	go a.signalHandler.HandleSignals(ctx, cancel)

	if err := a.appState.SetStarting(ctx); err != nil {
		return fmt.Errorf("set starting state: %w", err)
	}

	if a.cfg.ReconcileOnce {
		a.logger.InfoContext(ctx, "running a single reconciliation")

		return a.scheduler.ReconcileCommand(ctx)
	}

	if err := a.metricsServer.Start(ctx); err != nil {
		return fmt.Errorf("start metrics server: %w", err)
	}

	a.appState.RegisterShutdowner(a.metricsServer)

	if err := a.httpServer.Start(ctx); err != nil {
		return fmt.Errorf("start http server: %w", err)
	}

	a.appState.RegisterShutdowner(a.httpServer)

	if err := a.scheduler.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}

	a.appState.RegisterShutdowner(a.scheduler)

	if err := a.appState.SetRunning(ctx); err != nil {
		return fmt.Errorf("set running state: %w", err)
	}

	a.logger.InfoContext(ctx, "tarnfui is running",
		"namespace", a.cfg.Namespace,
		"interval", a.cfg.Interval,
	)

	<-ctx.Done()

	return a.appState.Shutdown(ctx)
}
