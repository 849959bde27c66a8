package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"tarefaTracker/internal/config"
	"tarefaTracker/internal/handlers"
	"tarefaTracker/internal/logger"
	"tarefaTracker/internal/middleware"
	"tarefaTracker/internal/migrations"
	"tarefaTracker/internal/repository/tarefa/inmemory"
	"tarefaTracker/internal/repository/tarefa/postgres"
	"tarefaTracker/internal/repository/tarefa/sqlite"
	"tarefaTracker/internal/service"
	"tarefaTracker/internal/tracing"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

const serviceName = "tarefas-api"

type App struct {
	config     *config.Config
	server     *http.Server
	router     *chi.Mux
	repository service.TarefaRepository
	service    handlers.Service
	metrics    *middleware.Metrics
	shutdowns  []func() // функции для graceful shutdown, выполняются в обратном порядке
}

func New(cfg *config.Config) *App {
	return &App{
		config:    cfg,
		shutdowns: make([]func(), 0),
	}
}

func (a *App) Init(ctx context.Context) error {
	if err := logger.Init(a.config.Logging.Development, a.config.Logging.Level); err != nil {
		return fmt.Errorf("инициализация логгера: %w", err)
	}

	a.shutdowns = append(a.shutdowns, func() {
		logger.Info("App: Завершение работы логгирования...")
		logger.Sync()
	})

	shutdownTracing, err := tracing.Init(ctx, a.config.Tracing, serviceName)
	if err != nil {
		a.Close()
		return fmt.Errorf("инициализация трассировки: %w", err)
	}
	a.shutdowns = append(a.shutdowns, func() {
		ctx, cancel := context.WithTimeout(context.Background(), a.config.Server.ShutdownTimeout)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			logger.Error("App: Ошибка остановки трассировки", err)
		}
	})

	repo, err := a.initRepository(ctx)
	if err != nil {
		a.Close()
		return fmt.Errorf("инициализация репозитория: %w", err)
	}
	a.repository = repo
	a.service = service.NewTarefaService(repo)
	a.metrics = middleware.NewMetrics()
	a.router = a.initRouter()

	a.server = &http.Server{
		Addr:         a.config.GetServerAddr(),
		Handler:      otelhttp.NewHandler(a.router, serviceName),
		ReadTimeout:  a.config.Server.ReadTimeout,
		WriteTimeout: a.config.Server.WriteTimeout,
		IdleTimeout:  a.config.Server.IdleTimeout,
	}

	logger.Info("App: Инициализация завершена",
		zap.String("repository", a.config.Repository.Type),
		zap.String("addr", a.server.Addr))
	return nil
}

func (a *App) initRepository(ctx context.Context) (service.TarefaRepository, error) {
	switch a.config.Repository.Type {
	case config.RepositoryPostgres:
		if a.config.Migrations.Enabled {
			if err := migrations.UpPostgres(a.config.Database.URL); err != nil {
				return nil, err
			}
		}

		storage, err := postgres.New(ctx, a.config.Database.URL, postgres.Options{
			MaxConns:        a.config.Database.MaxConnections,
			MinConns:        a.config.Database.MinConnections,
			MaxConnIdleTime: a.config.Database.IdleTimeout,
		})
		if err != nil {
			return nil, err
		}
		a.shutdowns = append(a.shutdowns, storage.Close)
		return storage, nil

	case config.RepositorySQLite:
		dsn, err := sqlite.FileDSN(a.config.Database.SQLitePath)
		if err != nil {
			return nil, err
		}

		storage, err := sqlite.New(ctx, dsn)
		if err != nil {
			return nil, err
		}
		a.shutdowns = append(a.shutdowns, func() {
			if err := storage.Close(); err != nil {
				logger.Error("App: Ошибка закрытия SQLite", err)
			}
		})

		if a.config.Migrations.Enabled {
			if err := migrations.UpSQLite(storage.DB()); err != nil {
				return nil, err
			}
		}
		return storage, nil

	case config.RepositoryInMemory:
		return inmemory.NewTarefaStorage(), nil

	default:
		return nil, fmt.Errorf("неизвестный тип репозитория %q", a.config.Repository.Type)
	}
}

func (a *App) initRouter() *chi.Mux {
	tarefaHandler := handlers.NewTarefaHandler(a.service)

	r := chi.NewRouter()

	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Tracing)
	r.Use(middleware.Logging)
	r.Use(a.metrics.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: a.config.Server.CorsAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", middleware.RequestIdHeader},
		ExposedHeaders: []string{middleware.RequestIdHeader, middleware.TraceIdHeader},
		MaxAge:         300,
	}))

	r.Get("/health", tarefaHandler.HealthCheck)
	r.Handle("/metrics", a.metrics.Handler())
	r.Mount("/api/tarefas", tarefaHandler.Routes())

	return r
}

// Handler - корневой обработчик без сетевого слушателя, для тестов
func (a *App) Handler() http.Handler {
	return a.server.Handler
}

// Run блокируется до ошибки сервера или отмены ctx, после отмены делает graceful shutdown
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("App: Сервер запущен", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("запуск сервера: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("App: Остановка сервера")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("остановка сервера: %w", err)
	}
	return nil
}

func (a *App) Close() {
	for i := len(a.shutdowns) - 1; i >= 0; i-- {
		a.shutdowns[i]()
	}
	a.shutdowns = nil
}
