// Package tarefatest содержит общие проверки для всех реализаций хранилища задач.
package tarefatest

import (
	"context"
	"strings"
	"sync"
	"tarefaTracker/internal/models/tarefa"
	"tarefaTracker/internal/repository"
	"tarefaTracker/internal/service"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunContract прогоняет проверки на пустом хранилище, которое newRepo создаёт для каждого подтеста
func RunContract(t *testing.T, newRepo func(t *testing.T) service.TarefaRepository) {
	t.Run("HealthCheck", func(t *testing.T) {
		assert.NoError(t, newRepo(t).HealthCheck(context.Background()))
	})

	t.Run("SaveAssignsIDAndDates", func(t *testing.T) {
		ctx := context.Background()
		store := newRepo(t)

		first := &tarefa.Tarefa{Nome: "Comprar Leite", Status: tarefa.StatusPendente}
		require.NoError(t, store.Save(ctx, first))
		assert.NotZero(t, first.ID)
		assert.False(t, first.DataCriacao.IsZero())
		assert.False(t, first.DataAtualizacao.IsZero())

		second := &tarefa.Tarefa{Nome: "Outra"}
		require.NoError(t, store.Save(ctx, second))
		assert.Greater(t, second.ID, first.ID)
	})

	// длина полей не ограничивается ни одной реализацией
	t.Run("SaveKeepsLongText", func(t *testing.T) {
		ctx := context.Background()
		store := newRepo(t)

		longNome := strings.Repeat("Comprar Leite ", 40)
		longStatus := tarefa.Status(strings.Repeat("S", 80))

		created := &tarefa.Tarefa{Nome: longNome, Status: longStatus}
		require.NoError(t, store.Save(ctx, created))

		stored, err := store.FindByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, longNome, stored.Nome)
		assert.Equal(t, longStatus, stored.Status)

		stored.Status = tarefa.Status(strings.Repeat("C", 300))
		require.NoError(t, store.Save(ctx, stored))

		updated, err := store.FindByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, stored.Status, updated.Status)
	})

	t.Run("SaveUpdatesExisting", func(t *testing.T) {
		ctx := context.Background()
		store := newRepo(t)

		created := &tarefa.Tarefa{Nome: "Comprar Pão", Descricao: "Ir na padaria", Status: tarefa.StatusPendente}
		require.NoError(t, store.Save(ctx, created))
		originalCreatedAt := created.DataCriacao

		update := &tarefa.Tarefa{
			ID:          created.ID,
			Nome:        "Comprar Pão e Café",
			Descricao:   "Ir na padaria e na cafeteria",
			Status:      tarefa.StatusConcluida,
			Observacoes: "Pegar na porta",
		}
		require.NoError(t, store.Save(ctx, update))

		stored, err := store.FindByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.ID, stored.ID)
		assert.Equal(t, "Comprar Pão e Café", stored.Nome)
		assert.Equal(t, "Ir na padaria e na cafeteria", stored.Descricao)
		assert.Equal(t, tarefa.StatusConcluida, stored.Status)
		assert.Equal(t, "Pegar na porta", stored.Observacoes)
		assert.True(t, stored.DataCriacao.Equal(originalCreatedAt), "data de criação alterada")
		assert.False(t, stored.DataAtualizacao.Before(stored.DataCriacao))
		assert.True(t, update.DataCriacao.Equal(originalCreatedAt))

		all, err := store.FindAll(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})

	t.Run("FindByIDMissing", func(t *testing.T) {
		_, err := newRepo(t).FindByID(context.Background(), 999)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("FindAllEmpty", func(t *testing.T) {
		all, err := newRepo(t).FindAll(context.Background())
		require.NoError(t, err)
		assert.NotNil(t, all)
		assert.Empty(t, all)
	})

	t.Run("FindAllReturnsEveryRecord", func(t *testing.T) {
		ctx := context.Background()
		store := newRepo(t)

		for _, nome := range []string{"Tarefa 1", "Tarefa 2", "Tarefa 3"} {
			require.NoError(t, store.Save(ctx, &tarefa.Tarefa{Nome: nome}))
		}

		all, err := store.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, "Tarefa 1", all[0].Nome)
		assert.Equal(t, "Tarefa 3", all[2].Nome)
	})

	t.Run("DeleteByIDIsIdempotent", func(t *testing.T) {
		ctx := context.Background()
		store := newRepo(t)

		kept := &tarefa.Tarefa{Nome: "fica"}
		removed := &tarefa.Tarefa{Nome: "sai"}
		require.NoError(t, store.Save(ctx, kept))
		require.NoError(t, store.Save(ctx, removed))

		require.NoError(t, store.DeleteByID(ctx, removed.ID))
		require.NoError(t, store.DeleteByID(ctx, removed.ID))
		require.NoError(t, store.DeleteByID(ctx, 12345))

		_, err := store.FindByID(ctx, removed.ID)
		assert.ErrorIs(t, err, repository.ErrNotFound)

		all, err := store.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.Equal(t, kept.ID, all[0].ID)
	})

	t.Run("ServiceScenario", func(t *testing.T) {
		ctx := context.Background()
		svc := service.NewTarefaService(newRepo(t))

		created, err := svc.CreateTarefa(ctx, tarefa.Tarefa{Nome: "Comprar Leite", Status: tarefa.StatusPendente})
		require.NoError(t, err)
		assert.NotZero(t, created.ID)

		list, err := svc.ListTarefas(ctx)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, created.ID, list[0].ID)

		updated, err := svc.UpdateTarefa(ctx, created.ID, tarefa.Patch{
			Nome:   "Comprar Leite e Pão",
			Status: tarefa.StatusConcluida,
		})
		require.NoError(t, err)
		assert.Equal(t, created.ID, updated.ID)
		assert.Equal(t, "Comprar Leite e Pão", updated.Nome)
		assert.Equal(t, tarefa.StatusConcluida, updated.Status)
		assert.True(t, updated.DataCriacao.Equal(created.DataCriacao))

		_, err = svc.UpdateTarefa(ctx, 999, tarefa.Patch{Nome: "fantasma"})
		var businessErr *service.BusinessError
		require.ErrorAs(t, err, &businessErr)
		assert.Equal(t, service.CodeNotFound, businessErr.Code)

		list, err = svc.ListTarefas(ctx)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "Comprar Leite e Pão", list[0].Nome)

		require.NoError(t, svc.DeleteTarefa(ctx, created.ID))
		list, err = svc.ListTarefas(ctx)
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("ConcurrentSaves", func(t *testing.T) {
		ctx := context.Background()
		store := newRepo(t)

		var wg sync.WaitGroup
		errs := make(chan error, 20)
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				errs <- store.Save(ctx, &tarefa.Tarefa{Nome: "paralela"})
			}()
		}
		wg.Wait()
		close(errs)

		for err := range errs {
			require.NoError(t, err)
		}

		all, err := store.FindAll(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 20)

		seen := make(map[int64]bool)
		for _, t2 := range all {
			assert.False(t, seen[t2.ID], "id duplicado %d", t2.ID)
			seen[t2.ID] = true
		}
	})
}
