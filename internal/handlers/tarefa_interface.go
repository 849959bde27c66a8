package handlers

import (
	"context"
	"tarefaTracker/internal/models/tarefa"
)

type Service interface {
	HealthCheck(context.Context) error
	ListTarefas(context.Context) ([]*tarefa.Tarefa, error)
	CreateTarefa(context.Context, tarefa.Tarefa) (*tarefa.Tarefa, error)
	UpdateTarefa(context.Context, int64, tarefa.Patch) (*tarefa.Tarefa, error)
	DeleteTarefa(context.Context, int64) error
}
