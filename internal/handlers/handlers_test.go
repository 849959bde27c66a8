package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"tarefaTracker/internal/handlers"
	"tarefaTracker/internal/handlers/dto"
	"tarefaTracker/internal/models/tarefa"
	"tarefaTracker/internal/repository"
	"tarefaTracker/internal/service"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockTarefaService - мок сервиса
type MockTarefaService struct {
	mock.Mock
}

func (m *MockTarefaService) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTarefaService) ListTarefas(ctx context.Context) ([]*tarefa.Tarefa, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*tarefa.Tarefa), args.Error(1)
}

func (m *MockTarefaService) CreateTarefa(ctx context.Context, t tarefa.Tarefa) (*tarefa.Tarefa, error) {
	args := m.Called(ctx, t)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tarefa.Tarefa), args.Error(1)
}

func (m *MockTarefaService) UpdateTarefa(ctx context.Context, id int64, patch tarefa.Patch) (*tarefa.Tarefa, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tarefa.Tarefa), args.Error(1)
}

func (m *MockTarefaService) DeleteTarefa(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

var _ handlers.Service = (*MockTarefaService)(nil)

func newRouter(svc handlers.Service) http.Handler {
	h := handlers.NewTarefaHandler(svc)
	r := chi.NewRouter()
	r.Get("/health", h.HealthCheck)
	r.Mount("/api/tarefas", h.Routes())
	return r
}

func serve(t *testing.T, svc handlers.Service, method, target, contentType, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Buffer
	if body != "" {
		reader = bytes.NewBufferString(body)
	} else {
		reader = &bytes.Buffer{}
	}

	req := httptest.NewRequest(method, target, reader)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(w, req)
	return w
}

// TestTarefaHandler_HealthCheck тестирует HealthCheck
func TestTarefaHandler_HealthCheck(t *testing.T) {
	tests := []struct {
		name           string
		setupMock      func(*MockTarefaService)
		expectedStatus int
	}{
		{
			name: "success - healthy",
			setupMock: func(m *MockTarefaService) {
				m.On("HealthCheck", mock.Anything).Return(nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "error - unhealthy",
			setupMock: func(m *MockTarefaService) {
				m.On("HealthCheck", mock.Anything).Return(errors.New("service unavailable"))
			},
			expectedStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockTarefaService)
			tt.setupMock(mockService)

			w := serve(t, mockService, http.MethodGet, "/health", "", "")

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), "tarefas-api")
			mockService.AssertExpectations(t)
		})
	}
}

// TestTarefaHandler_ListTarefas тестирует GET /api/tarefas
func TestTarefaHandler_ListTarefas(t *testing.T) {
	tests := []struct {
		name           string
		setupMock      func(*MockTarefaService)
		expectedStatus int
		expectedNames  []string
	}{
		{
			name: "success - two tasks",
			setupMock: func(m *MockTarefaService) {
				m.On("ListTarefas", mock.Anything).Return([]*tarefa.Tarefa{
					{ID: 1, Nome: "Tarefa de Teste 1", Status: tarefa.StatusPendente},
					{ID: 2, Nome: "Tarefa de Teste 2", Status: tarefa.StatusConcluida},
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedNames:  []string{"Tarefa de Teste 1", "Tarefa de Teste 2"},
		},
		{
			name: "success - empty list",
			setupMock: func(m *MockTarefaService) {
				m.On("ListTarefas", mock.Anything).Return([]*tarefa.Tarefa{}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedNames:  []string{},
		},
		{
			name: "error - service error",
			setupMock: func(m *MockTarefaService) {
				m.On("ListTarefas", mock.Anything).Return(nil, errors.New("db down"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockTarefaService)
			tt.setupMock(mockService)

			w := serve(t, mockService, http.MethodGet, "/api/tarefas", "", "")

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

			if tt.expectedStatus == http.StatusOK {
				var response []dto.TarefaResponse
				require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
				require.NotNil(t, response)
				require.Len(t, response, len(tt.expectedNames))
				for i, nome := range tt.expectedNames {
					assert.Equal(t, nome, response[i].Nome)
				}
			}
			mockService.AssertExpectations(t)
		})
	}
}

// TestTarefaHandler_PostTarefa тестирует создание задачи
func TestTarefaHandler_PostTarefa(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)

	tests := []struct {
		name           string
		requestBody    string
		contentType    string
		setupMock      func(*MockTarefaService)
		expectedStatus int
	}{
		{
			name: "success - create task, id and unknown fields ignored",
			requestBody: `{
				"id": 99,
				"nome": "Nova Tarefa",
				"descricao": "Descrição da nova tarefa",
				"status": "PENDENTE",
				"prioridade": "alta"
			}`,
			contentType: "application/json; charset=utf-8",
			setupMock: func(m *MockTarefaService) {
				m.On("CreateTarefa", mock.Anything, tarefa.Tarefa{
					Nome:      "Nova Tarefa",
					Descricao: "Descrição da nova tarefa",
					Status:    tarefa.StatusPendente,
				}).Return(&tarefa.Tarefa{
					ID:              3,
					Nome:            "Nova Tarefa",
					Descricao:       "Descrição da nova tarefa",
					Status:          tarefa.StatusPendente,
					DataCriacao:     now,
					DataAtualizacao: now,
				}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "error - invalid content type",
			requestBody:    `{}`,
			contentType:    "text/plain",
			setupMock:      func(m *MockTarefaService) {},
			expectedStatus: http.StatusUnsupportedMediaType,
		},
		{
			name:           "error - invalid JSON",
			requestBody:    `{invalid json}`,
			contentType:    "application/json",
			setupMock:      func(m *MockTarefaService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "error - empty body",
			requestBody:    "",
			contentType:    "application/json",
			setupMock:      func(m *MockTarefaService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:        "error - service error",
			requestBody: `{"nome": "Nova Tarefa"}`,
			contentType: "application/json",
			setupMock: func(m *MockTarefaService) {
				m.On("CreateTarefa", mock.Anything, tarefa.Tarefa{Nome: "Nova Tarefa"}).
					Return(nil, errors.New("service error"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockTarefaService)
			tt.setupMock(mockService)

			w := serve(t, mockService, http.MethodPost, "/api/tarefas", tt.contentType, tt.requestBody)

			assert.Equal(t, tt.expectedStatus, w.Code)

			if tt.expectedStatus == http.StatusOK {
				var response dto.TarefaResponse
				require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
				assert.Equal(t, int64(3), response.ID)
				assert.Equal(t, "Nova Tarefa", response.Nome)
				assert.True(t, response.DataCriacao.Equal(now))
			}
			mockService.AssertExpectations(t)
		})
	}
}

// TestTarefaHandler_UpdateTarefaByID тестирует обновление задачи
func TestTarefaHandler_UpdateTarefaByID(t *testing.T) {
	patch := tarefa.Patch{Nome: "Tarefa Atualizada", Status: tarefa.StatusConcluida}

	tests := []struct {
		name           string
		target         string
		requestBody    string
		contentType    string
		setupMock      func(*MockTarefaService)
		expectedStatus int
		expectedError  string
	}{
		{
			name:        "success - update task",
			target:      "/api/tarefas/1",
			requestBody: `{"id": 5, "nome": "Tarefa Atualizada", "status": "CONCLUIDA"}`,
			contentType: "application/json",
			setupMock: func(m *MockTarefaService) {
				m.On("UpdateTarefa", mock.Anything, int64(1), patch).
					Return(&tarefa.Tarefa{ID: 1, Nome: "Tarefa Atualizada", Status: tarefa.StatusConcluida}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "error - invalid id",
			target:         "/api/tarefas/abc",
			requestBody:    `{}`,
			contentType:    "application/json",
			setupMock:      func(m *MockTarefaService) {},
			expectedStatus: http.StatusBadRequest,
			expectedError:  service.CodeValidationError,
		},
		{
			name:           "error - non positive id",
			target:         "/api/tarefas/0",
			requestBody:    `{}`,
			contentType:    "application/json",
			setupMock:      func(m *MockTarefaService) {},
			expectedStatus: http.StatusBadRequest,
			expectedError:  service.CodeValidationError,
		},
		{
			name:           "error - invalid content type",
			target:         "/api/tarefas/1",
			requestBody:    `{}`,
			contentType:    "text/plain",
			setupMock:      func(m *MockTarefaService) {},
			expectedStatus: http.StatusUnsupportedMediaType,
		},
		{
			name:           "error - invalid JSON",
			target:         "/api/tarefas/1",
			requestBody:    `{invalid json}`,
			contentType:    "application/json",
			setupMock:      func(m *MockTarefaService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:        "error - task not found",
			target:      "/api/tarefas/999",
			requestBody: `{"nome": "Tarefa Atualizada", "status": "CONCLUIDA"}`,
			contentType: "application/json",
			setupMock: func(m *MockTarefaService) {
				m.On("UpdateTarefa", mock.Anything, int64(999), patch).
					Return(nil, service.NewNotFound("Tarefa", 999, repository.ErrNotFound))
			},
			expectedStatus: http.StatusNotFound,
			expectedError:  service.CodeNotFound,
		},
		{
			name:        "error - service error",
			target:      "/api/tarefas/1",
			requestBody: `{"nome": "Tarefa Atualizada", "status": "CONCLUIDA"}`,
			contentType: "application/json",
			setupMock: func(m *MockTarefaService) {
				m.On("UpdateTarefa", mock.Anything, int64(1), patch).
					Return(nil, errors.New("internal error"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockTarefaService)
			tt.setupMock(mockService)

			w := serve(t, mockService, http.MethodPut, tt.target, tt.contentType, tt.requestBody)

			assert.Equal(t, tt.expectedStatus, w.Code)

			if tt.expectedStatus == http.StatusOK {
				var response dto.TarefaResponse
				require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
				assert.Equal(t, int64(1), response.ID)
				assert.Equal(t, "Tarefa Atualizada", response.Nome)
				assert.Equal(t, "CONCLUIDA", response.Status)
			}

			if tt.expectedError != "" {
				var response map[string]any
				require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
				assert.Equal(t, tt.expectedError, response["error"])
				assert.NotEmpty(t, response["message"])
			}
			mockService.AssertExpectations(t)
		})
	}
}

// TestTarefaHandler_DeleteTarefaByID тестирует удаление задачи
func TestTarefaHandler_DeleteTarefaByID(t *testing.T) {
	tests := []struct {
		name           string
		target         string
		setupMock      func(*MockTarefaService)
		expectedStatus int
	}{
		{
			name:   "success - delete task",
			target: "/api/tarefas/1",
			setupMock: func(m *MockTarefaService) {
				m.On("DeleteTarefa", mock.Anything, int64(1)).Return(nil)
			},
			expectedStatus: http.StatusNoContent,
		},
		{
			name:   "success - delete missing task",
			target: "/api/tarefas/999",
			setupMock: func(m *MockTarefaService) {
				m.On("DeleteTarefa", mock.Anything, int64(999)).Return(nil)
			},
			expectedStatus: http.StatusNoContent,
		},
		{
			name:           "error - invalid id",
			target:         "/api/tarefas/abc",
			setupMock:      func(m *MockTarefaService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:   "error - service error",
			target: "/api/tarefas/1",
			setupMock: func(m *MockTarefaService) {
				m.On("DeleteTarefa", mock.Anything, int64(1)).Return(errors.New("db down"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockTarefaService)
			tt.setupMock(mockService)

			w := serve(t, mockService, http.MethodDelete, tt.target, "", "")

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusNoContent {
				assert.Empty(t, w.Body.String())
			}
			mockService.AssertExpectations(t)
		})
	}
}

func TestTarefaHandler_MethodNotAllowed(t *testing.T) {
	mockService := new(MockTarefaService)

	w := serve(t, mockService, http.MethodPatch, "/api/tarefas/1", "application/json", `{}`)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	mockService.AssertExpectations(t)
}

// TestTarefaHandler_ClientErrorMessages клиент получает тексты на португальском без внутренних деталей
func TestTarefaHandler_ClientErrorMessages(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		target         string
		contentType    string
		body           string
		setupMock      func(*MockTarefaService)
		expectedStatus int
		wantError      string
		wantMessage    string
	}{
		{
			name:           "invalid content type",
			method:         http.MethodPost,
			target:         "/api/tarefas",
			contentType:    "text/plain",
			body:           `{}`,
			setupMock:      func(m *MockTarefaService) {},
			expectedStatus: http.StatusUnsupportedMediaType,
			wantError:      "Content-Type deve ser application/json",
		},
		{
			name:           "invalid id",
			method:         http.MethodDelete,
			target:         "/api/tarefas/abc",
			setupMock:      func(m *MockTarefaService) {},
			expectedStatus: http.StatusBadRequest,
			wantError:      service.CodeValidationError,
			wantMessage:    "Valor inválido para o campo 'id': deve ser um número inteiro",
		},
		{
			name:        "not found",
			method:      http.MethodPut,
			target:      "/api/tarefas/999",
			contentType: "application/json",
			body:        `{"nome": "x"}`,
			setupMock: func(m *MockTarefaService) {
				m.On("UpdateTarefa", mock.Anything, int64(999), mock.Anything).
					Return(nil, service.NewNotFound("Tarefa", 999, repository.ErrNotFound))
			},
			expectedStatus: http.StatusNotFound,
			wantError:      service.CodeNotFound,
			wantMessage:    "Tarefa 999 não encontrada",
		},
		{
			name:   "store failure",
			method: http.MethodGet,
			target: "/api/tarefas",
			setupMock: func(m *MockTarefaService) {
				m.On("ListTarefas", mock.Anything).
					Return(nil, fmt.Errorf("получение задач: %w", errors.New("conn closed")))
			},
			expectedStatus: http.StatusInternalServerError,
			wantError:      "erro interno do servidor",
		},
		{
			name:   "store unavailable",
			method: http.MethodGet,
			target: "/health",
			setupMock: func(m *MockTarefaService) {
				m.On("HealthCheck", mock.Anything).
					Return(fmt.Errorf("проверка здоровья сервиса: %w", errors.New("conn closed")))
			},
			expectedStatus: http.StatusServiceUnavailable,
			wantError:      "armazenamento indisponível",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockTarefaService)
			tt.setupMock(mockService)

			w := serve(t, mockService, tt.method, tt.target, tt.contentType, tt.body)
			assert.Equal(t, tt.expectedStatus, w.Code)

			var body map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantError, body["error"])
			if tt.wantMessage != "" {
				assert.Equal(t, tt.wantMessage, body["message"])
			}

			assert.NotContains(t, w.Body.String(), "conn closed")
			assert.NotContains(t, w.Body.String(), "получение")
			mockService.AssertExpectations(t)
		})
	}
}
