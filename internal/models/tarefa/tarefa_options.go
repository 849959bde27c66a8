package tarefa

type TarefaOption func(*Tarefa)

func WithNome(nome string) TarefaOption {
	return func(t *Tarefa) {
		t.Nome = nome
	}
}

func WithDescricao(descricao string) TarefaOption {
	return func(t *Tarefa) {
		t.Descricao = descricao
	}
}

func WithStatus(status Status) TarefaOption {
	return func(t *Tarefa) {
		t.Status = status
	}
}

func WithObservacoes(observacoes string) TarefaOption {
	return func(t *Tarefa) {
		t.Observacoes = observacoes
	}
}

func (t *Tarefa) Apply(options ...TarefaOption) {
	for _, opt := range options {
		if opt != nil {
			opt(t)
		}
	}
}
