package inmemory

import (
	"context"
	"sync"
	"tarefaTracker/internal/models/tarefa"
	repo "tarefaTracker/internal/repository"
	"time"
)

// TarefaStorage хранит копии записей, наружу тоже отдаются копии
type TarefaStorage struct {
	storage map[int64]tarefa.Tarefa
	mtx     *sync.RWMutex
	ids     []int64
	seq     int64
	now     func() time.Time
}

func NewTarefaStorage() *TarefaStorage {
	return &TarefaStorage{
		storage: make(map[int64]tarefa.Tarefa),
		mtx:     &sync.RWMutex{},
		ids:     []int64{},
		now:     time.Now,
	}
}

func (s *TarefaStorage) HealthCheck(ctx context.Context) error {
	return nil
}

func (s *TarefaStorage) FindAll(ctx context.Context) ([]*tarefa.Tarefa, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	tarefas := make([]*tarefa.Tarefa, 0, len(s.ids))
	for _, id := range s.ids {
		t := s.storage[id]
		tarefas = append(tarefas, &t)
	}
	return tarefas, nil
}

func (s *TarefaStorage) FindByID(ctx context.Context, id int64) (*tarefa.Tarefa, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	t, ok := s.storage[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &t, nil
}

// Save вставляет запись при ID == 0, иначе обновляет (или вставляет с этим ID)
func (s *TarefaStorage) Save(ctx context.Context, t *tarefa.Tarefa) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	now := s.now()

	existing, ok := s.storage[t.ID]
	if t.ID != 0 && ok {
		existing.Nome = t.Nome
		existing.Descricao = t.Descricao
		existing.Status = t.Status
		existing.Observacoes = t.Observacoes
		existing.DataAtualizacao = now

		s.storage[t.ID] = existing
		*t = existing
		return nil
	}

	if t.ID == 0 {
		s.seq++
		t.ID = s.seq
	} else if t.ID > s.seq {
		s.seq = t.ID
	}

	t.DataCriacao = now
	t.DataAtualizacao = now

	s.storage[t.ID] = *t
	s.ids = append(s.ids, t.ID)
	return nil
}

// DeleteByID не возвращает ошибку для отсутствующего id
func (s *TarefaStorage) DeleteByID(ctx context.Context, id int64) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.storage[id]; !ok {
		return nil
	}

	delete(s.storage, id)
	for i, storedID := range s.ids {
		if storedID == id {
			s.ids = append(s.ids[:i], s.ids[i+1:]...)
			break
		}
	}
	return nil
}
