package service

import (
	"context"
	"errors"
	"fmt"
	"tarefaTracker/internal/logger"
	"tarefaTracker/internal/models/tarefa"
	rep "tarefaTracker/internal/repository"
	"time"

	"go.uber.org/zap"
)

const resourceTarefa = "Tarefa"

// здесь только сквозные вызовы хранилища и слияние при обновлении.
// Блокировок нет: параллельные обновления одной задачи - побеждает последняя запись.

type TarefaService struct {
	repo TarefaRepository
}

func NewTarefaService(repo TarefaRepository) *TarefaService {
	return &TarefaService{
		repo: repo,
	}
}

func (s *TarefaService) HealthCheck(ctx context.Context) error {
	if err := s.repo.HealthCheck(ctx); err != nil {
		return fmt.Errorf("проверка здоровья сервиса: %w", err)
	}
	return nil
}

func (s *TarefaService) ListTarefas(ctx context.Context) ([]*tarefa.Tarefa, error) {
	tarefas, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("получение задач: %w", err)
	}
	if tarefas == nil {
		tarefas = []*tarefa.Tarefa{}
	}
	return tarefas, nil
}

// CreateTarefa игнорирует переданные id и даты: их назначает хранилище
func (s *TarefaService) CreateTarefa(ctx context.Context, t tarefa.Tarefa) (*tarefa.Tarefa, error) {
	t.ID = 0
	t.DataCriacao = time.Time{}
	t.DataAtualizacao = time.Time{}

	if err := s.repo.Save(ctx, &t); err != nil {
		return nil, fmt.Errorf("создание задачи: %w", err)
	}

	logger.Info("Service: Задача создана", zap.Int64("task_id", t.ID))
	return &t, nil
}

func (s *TarefaService) UpdateTarefa(ctx context.Context, id int64, patch tarefa.Patch) (*tarefa.Tarefa, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			logger.Info("Service: Задача не найдена", zap.Int64("target_id", id))
			return nil, NewNotFound(resourceTarefa, id, err)
		}
		return nil, fmt.Errorf("получение задачи: %w", err)
	}

	existing.Apply(patch.Options()...)

	if err := s.repo.Save(ctx, existing); err != nil {
		return nil, fmt.Errorf("обновление задачи: %w", err)
	}
	return existing, nil
}

// DeleteTarefa не проверяет существование: удаление идемпотентно
func (s *TarefaService) DeleteTarefa(ctx context.Context, id int64) error {
	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("удаление задачи: %w", err)
	}
	return nil
}
