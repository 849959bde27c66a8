package tarefa

import "time"

type Tarefa struct {
	ID              int64     `json:"id" db:"id"`
	Nome            string    `json:"nome" db:"nome"`
	Descricao       string    `json:"descricao" db:"descricao"`
	Status          Status    `json:"status" db:"status"`
	Observacoes     string    `json:"observacoes" db:"observacoes"`
	DataCriacao     time.Time `json:"dataCriacao" db:"data_criacao"`
	DataAtualizacao time.Time `json:"dataAtualizacao" db:"data_atualizacao"`
}

// Status не ограничен перечислением, любая строка допустима
type Status string

const StatusPendente Status = "PENDENTE"
const StatusConcluida Status = "CONCLUIDA"

// Patch - изменяемые поля существующей задачи
type Patch struct {
	Nome        string
	Descricao   string
	Status      Status
	Observacoes string
}

// Options возвращает ровно четыре опции обновления.
// id и даты через Patch изменить нельзя.
func (p Patch) Options() []TarefaOption {
	return []TarefaOption{
		WithNome(p.Nome),
		WithDescricao(p.Descricao),
		WithStatus(p.Status),
		WithObservacoes(p.Observacoes),
	}
}
