package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ThaiHongHung/ThaiHung-Architecture-CRM/internal/config"
	"github.com/ThaiHongHung/ThaiHung-Architecture-CRM/internal/handler"
	"github.com/ThaiHongHung/ThaiHung-Architecture-CRM/internal/repository"
	"github.com/ThaiHongHung/ThaiHung-Architecture-CRM/internal/server"
	"github.com/ThaiHongHung/ThaiHung-Architecture-CRM/internal/service"
	"github.com/ThaiHongHung/ThaiHung-Architecture-CRM/internal/store"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st := store.New()
	if cfg.SeedDemo {
		if err := repository.SeedDemo(ctx, st); err != nil {
			logger.Error("failed to seed demo data", "err", err)
			os.Exit(1)
		}
		logger.Info("seeded demo data")
	}

	// repositories
	clientRepo := repository.ClientRepository{Store: st}
	projectRepo := repository.ProjectRepository{Store: st}
	financeRepo := repository.FinanceRepository{Store: st}
	dashboardRepo := repository.DashboardRepository{Store: st}
	workloadRepo := repository.WorkloadRepository{Store: st}

	// services
	authSvc := service.AuthService{Config: cfg, Logger: logger}

	// handlers
	healthHandler := handler.HealthHandler{State: st}
	authHandler := handler.AuthHandler{Service: &authSvc}
	clientHandler := handler.ClientHandler{Repo: clientRepo, Projects: projectRepo}
	projectHandler := handler.ProjectHandler{Repo: projectRepo, Clients: clientRepo, ArchiveRoot: cfg.ArchiveRoot}
	financeHandler := handler.FinanceHandler{Repo: financeRepo}
	dashboardHandler := handler.DashboardHandler{Repo: dashboardRepo}
	workloadHandler := handler.WorkloadHandler{Repo: workloadRepo}
	docsHandler := handler.DocsHandler{OpenAPIPath: "api/openapi.yaml"}
	homeHandler := handler.HomeHandler{}

	router := server.NewRouter(cfg, logger, healthHandler, authHandler, clientHandler, projectHandler, financeHandler, dashboardHandler, workloadHandler, docsHandler, homeHandler)

	if err := server.Start(ctx, cfg, router, logger); err != nil {
		logger.Error("server error", "err", err)
		os.Exit(1)
	}
}
