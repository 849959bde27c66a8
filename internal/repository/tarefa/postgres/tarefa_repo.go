package postgres

import (
	"context"
	"errors"
	"fmt"
	"tarefaTracker/internal/logger"
	"tarefaTracker/internal/models/tarefa"
	repo "tarefaTracker/internal/repository"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const selectColumns = `id, nome, descricao, status, observacoes, data_criacao, data_atualizacao`

type Options struct {
	MaxConns        int32
	MinConns        int32
	MaxConnIdleTime time.Duration
}

type Storage struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, connString string, opts Options) (*Storage, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		logger.Error("Repository: Ошибка загрузки конфига", err)
		return nil, fmt.Errorf("загрузка конфига: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnIdleTime = time.Minute * 5
	if opts.MaxConns > 0 {
		config.MaxConns = opts.MaxConns
	}
	if opts.MinConns > 0 {
		config.MinConns = opts.MinConns
	}
	if opts.MaxConnIdleTime > 0 {
		config.MaxConnIdleTime = opts.MaxConnIdleTime
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		logger.Error("Repository: Ошибка создания пула", err)
		return nil, fmt.Errorf("создание пула: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		logger.Error("Repository: Неудачная проверка ping", err)
		return nil, fmt.Errorf("проверка соединения ping: %w", err)
	}

	logger.Info("Repository: Успешное создание подключения к PostgreSQL")
	return &Storage{pool: pool}, nil
}

func (s *Storage) Close() {
	s.pool.Close()
	logger.Info("Repository: Закрытие всех соединений PostgreSQL")
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		logger.Error("Repository: Неудачная проверка ping", err)
		return fmt.Errorf("проверка соединения ping: %w", err)
	}
	return nil
}

func (s *Storage) FindAll(ctx context.Context) ([]*tarefa.Tarefa, error) {
	start := time.Now()

	query := `SELECT ` + selectColumns + ` FROM tarefas ORDER BY id`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		logger.Error("Repository: Не удалось получить задачи", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение задач: %w", err)
	}
	defer rows.Close()

	tarefas := []*tarefa.Tarefa{}
	for rows.Next() {
		t, err := scanTarefa(rows)
		if err != nil {
			logger.Error("Repository: Ошибка сканирования задачи", err)
			return nil, fmt.Errorf("сканирование задачи: %w", err)
		}
		tarefas = append(tarefas, t)
	}

	if err := rows.Err(); err != nil {
		logger.Error("Repository: Ошибка итерации по строкам", err)
		return nil, fmt.Errorf("итерация по строкам: %w", err)
	}

	warnIfSlow(start, time.Millisecond*100)
	return tarefas, nil
}

func (s *Storage) FindByID(ctx context.Context, id int64) (*tarefa.Tarefa, error) {
	start := time.Now()

	query := `SELECT ` + selectColumns + ` FROM tarefas WHERE id = $1`

	t, err := scanTarefa(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить задачу", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение задачи: %w", err)
	}

	warnIfSlow(start, time.Millisecond*100)
	return t, nil
}

func (s *Storage) Save(ctx context.Context, t *tarefa.Tarefa) error {
	start := time.Now()

	var row pgx.Row
	if t.ID == 0 {
		query := `INSERT INTO tarefas (nome, descricao, status, observacoes, data_criacao, data_atualizacao)
				VALUES ($1, $2, $3, $4, NOW(), NOW())
				RETURNING ` + selectColumns

		row = s.pool.QueryRow(ctx, query, t.Nome, t.Descricao, t.Status, t.Observacoes)
	} else {
		// data_criacao не входит в SET и при конфликте сохраняется
		query := `INSERT INTO tarefas (id, nome, descricao, status, observacoes, data_criacao, data_atualizacao)
				VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
				ON CONFLICT (id) DO UPDATE
				SET nome = EXCLUDED.nome,
					descricao = EXCLUDED.descricao,
					status = EXCLUDED.status,
					observacoes = EXCLUDED.observacoes,
					data_atualizacao = NOW()
				RETURNING ` + selectColumns

		row = s.pool.QueryRow(ctx, query, t.ID, t.Nome, t.Descricao, t.Status, t.Observacoes)
	}

	saved, err := scanTarefa(row)
	if err != nil {
		logger.Error("Repository: Не удалось сохранить задачу", err,
			zap.Int64("task_id", t.ID),
			zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("сохранение задачи: %w", err)
	}
	*t = *saved

	warnIfSlow(start, time.Millisecond*50)
	return nil
}

func (s *Storage) DeleteByID(ctx context.Context, id int64) error {
	start := time.Now()

	query := `DELETE FROM tarefas WHERE id = $1`

	if _, err := s.pool.Exec(ctx, query, id); err != nil {
		logger.Error("Repository: Не удалось удалить задачу", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("удаление задачи: %w", err)
	}

	warnIfSlow(start, time.Millisecond*100)
	return nil
}

func scanTarefa(row pgx.Row) (*tarefa.Tarefa, error) {
	t := &tarefa.Tarefa{}
	err := row.Scan(
		&t.ID,
		&t.Nome,
		&t.Descricao,
		&t.Status,
		&t.Observacoes,
		&t.DataCriacao,
		&t.DataAtualizacao,
	)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func warnIfSlow(start time.Time, threshold time.Duration) {
	if elapsed := time.Since(start); elapsed > threshold {
		logger.Warn("Repository: Медленный запрос", zap.Duration("ms", elapsed))
	}
}
