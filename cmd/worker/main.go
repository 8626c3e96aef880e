// worker procesa las tareas asíncronas de la API (cola asynq en Redis):
// el barrido de cuentas por cobrar vencidas, programado por cron y disparable desde /api/admin/jobs.
package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/jhoicas/pdv-api/internal/application/receivables"
	"github.com/jhoicas/pdv-api/internal/infrastructure/postgres"
	"github.com/jhoicas/pdv-api/internal/jobs"
	"github.com/jhoicas/pdv-api/internal/observability"
	"github.com/jhoicas/pdv-api/pkg/config"
	"github.com/jhoicas/pdv-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "worker"})

	if !cfg.Redis.Enabled() {
		log.Fatal().Msg("REDIS_ADDR es obligatorio para el worker")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	zl := log.Zerolog()
	receivableUC := receivables.NewReceivableUseCase(postgres.NewTxRunner(pool), postgres.NewRepos(pool), zl)

	sweep, err := jobs.NewMarkOverdueTask(jobs.MarkOverduePayload{Trigger: "cron"})
	if err != nil {
		log.Fatal().Err(err).Msg("tarea de barrido")
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts:   jobs.RedisOpt(cfg.Redis),
		Concurrency: cfg.Worker.Concurrency,
		Logger:      zl,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskMarkOverdue, Handler: jobs.NewMarkOverdueHandler(receivableUC, observability.NewMetrics(), zl)},
		},
		Cron: []jobs.CronRegistration{
			{Spec: cfg.Worker.OverdueSweepCron, Task: sweep},
		},
	})
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar worker")
	}

	log.Info().Str("cron", cfg.Worker.OverdueSweepCron).Int("concurrency", cfg.Worker.Concurrency).Msg("worker iniciado")
	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("worker finalizado")
	}
}
