package service

import (
	"context"
	"tarefaTracker/internal/models/tarefa"
)

// TarefaRepository - шлюз к хранилищу задач
type TarefaRepository interface {
	HealthCheck(context.Context) error
	FindAll(context.Context) ([]*tarefa.Tarefa, error)
	FindByID(context.Context, int64) (*tarefa.Tarefa, error)
	Save(context.Context, *tarefa.Tarefa) error
	DeleteByID(context.Context, int64) error
}
