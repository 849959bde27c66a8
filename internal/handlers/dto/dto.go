package dto

import (
	"tarefaTracker/internal/models/tarefa"
	"time"
)

// TarefaRequest - тело POST и PUT. id и даты из запроса не читаются.
type TarefaRequest struct {
	Nome        string        `json:"nome"`
	Descricao   string        `json:"descricao"`
	Status      tarefa.Status `json:"status"`
	Observacoes string        `json:"observacoes"`
}

func (r TarefaRequest) ToTarefa() tarefa.Tarefa {
	return tarefa.Tarefa{
		Nome:        r.Nome,
		Descricao:   r.Descricao,
		Status:      r.Status,
		Observacoes: r.Observacoes,
	}
}

func (r TarefaRequest) ToPatch() tarefa.Patch {
	return tarefa.Patch{
		Nome:        r.Nome,
		Descricao:   r.Descricao,
		Status:      r.Status,
		Observacoes: r.Observacoes,
	}
}

type TarefaResponse struct {
	ID              int64     `json:"id"`
	Nome            string    `json:"nome"`
	Descricao       string    `json:"descricao"`
	Status          string    `json:"status"`
	Observacoes     string    `json:"observacoes"`
	DataCriacao     time.Time `json:"dataCriacao"`
	DataAtualizacao time.Time `json:"dataAtualizacao"`
}

func FromTarefa(t *tarefa.Tarefa) TarefaResponse {
	return TarefaResponse{
		ID:              t.ID,
		Nome:            t.Nome,
		Descricao:       t.Descricao,
		Status:          string(t.Status),
		Observacoes:     t.Observacoes,
		DataCriacao:     t.DataCriacao,
		DataAtualizacao: t.DataAtualizacao,
	}
}

func FromTarefaList(tarefas []*tarefa.Tarefa) []TarefaResponse {
	result := make([]TarefaResponse, len(tarefas))
	for i, t := range tarefas {
		result[i] = FromTarefa(t)
	}
	return result
}
