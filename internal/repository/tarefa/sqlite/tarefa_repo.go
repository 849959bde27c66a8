package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"tarefaTracker/internal/logger"
	"tarefaTracker/internal/models/tarefa"
	repo "tarefaTracker/internal/repository"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

const selectColumns = `id, nome, descricao, status, observacoes, data_criacao, data_atualizacao`

// даты хранятся как TEXT в RFC3339Nano
const timeLayout = time.RFC3339Nano

type Storage struct {
	db  *sql.DB
	now func() time.Time
}

func New(ctx context.Context, dsn string) (*Storage, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		logger.Error("Repository: Не удалось открыть SQLite", err)
		return nil, fmt.Errorf("открытие sqlite: %w", err)
	}
	// один писатель, иначе SQLITE_BUSY под нагрузкой
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, `
		PRAGMA journal_mode=WAL;
		PRAGMA synchronous=NORMAL;
		PRAGMA foreign_keys=ON;
	`); err != nil {
		_ = db.Close()
		logger.Error("Repository: Не удалось настроить SQLite", err)
		return nil, fmt.Errorf("настройка sqlite: %w", err)
	}

	logger.Info("Repository: Успешное подключение к SQLite")
	return &Storage{db: db, now: time.Now}, nil
}

// FileDSN создаёт каталог и возвращает DSN вида file:/abs/path?_pragma=busy_timeout(5000)
func FileDSN(path string) (string, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("создание каталога: %w", err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("путь к базе: %w", err)
	}
	return "file:" + filepath.ToSlash(abs) + "?_pragma=busy_timeout(5000)", nil
}

func (s *Storage) DB() *sql.DB {
	return s.db
}

func (s *Storage) Close() error {
	logger.Info("Repository: Закрытие соединения SQLite")
	return s.db.Close()
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		logger.Error("Repository: Неудачная проверка ping", err)
		return fmt.Errorf("проверка соединения ping: %w", err)
	}
	return nil
}

func (s *Storage) FindAll(ctx context.Context) ([]*tarefa.Tarefa, error) {
	start := time.Now()

	rows, err := s.db.QueryContext(ctx, `SELECT `+selectColumns+` FROM tarefas ORDER BY id ASC`)
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

	row := s.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM tarefas WHERE id = ?`, id)
	t, err := scanTarefa(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
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
	now := s.now().UTC().Format(timeLayout)

	var row *sql.Row
	if t.ID == 0 {
		row = s.db.QueryRowContext(ctx, `
			INSERT INTO tarefas (nome, descricao, status, observacoes, data_criacao, data_atualizacao)
			VALUES (?, ?, ?, ?, ?, ?)
			RETURNING `+selectColumns,
			t.Nome, t.Descricao, string(t.Status), t.Observacoes, now, now)
	} else {
		row = s.db.QueryRowContext(ctx, `
			INSERT INTO tarefas (id, nome, descricao, status, observacoes, data_criacao, data_atualizacao)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE
			SET nome = excluded.nome,
				descricao = excluded.descricao,
				status = excluded.status,
				observacoes = excluded.observacoes,
				data_atualizacao = excluded.data_atualizacao
			RETURNING `+selectColumns,
			t.ID, t.Nome, t.Descricao, string(t.Status), t.Observacoes, now, now)
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

	if _, err := s.db.ExecContext(ctx, `DELETE FROM tarefas WHERE id = ?`, id); err != nil {
		logger.Error("Repository: Не удалось удалить задачу", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("удаление задачи: %w", err)
	}

	warnIfSlow(start, time.Millisecond*100)
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTarefa(row scanner) (*tarefa.Tarefa, error) {
	var (
		t               tarefa.Tarefa
		status          string
		dataCriacao     string
		dataAtualizacao string
	)
	if err := row.Scan(&t.ID, &t.Nome, &t.Descricao, &status, &t.Observacoes, &dataCriacao, &dataAtualizacao); err != nil {
		return nil, err
	}
	t.Status = tarefa.Status(status)

	var err error
	if t.DataCriacao, err = time.Parse(timeLayout, dataCriacao); err != nil {
		return nil, fmt.Errorf("data_criacao %q: %w", dataCriacao, err)
	}
	if t.DataAtualizacao, err = time.Parse(timeLayout, dataAtualizacao); err != nil {
		return nil, fmt.Errorf("data_atualizacao %q: %w", dataAtualizacao, err)
	}
	return &t, nil
}

func warnIfSlow(start time.Time, threshold time.Duration) {
	if elapsed := time.Since(start); elapsed > threshold {
		logger.Warn("Repository: Медленный запрос", zap.Duration("ms", elapsed))
	}
}
