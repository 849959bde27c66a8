package handlers

import (
	"encoding/json"
	"net/http"
	"tarefaTracker/internal/handlers/dto"
	"tarefaTracker/internal/logger"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const serviceName = "tarefas-api"

type TarefaHandler struct {
	TarefaService Service
}

func NewTarefaHandler(tarefaService Service) *TarefaHandler {
	return &TarefaHandler{
		TarefaService: tarefaService,
	}
}

// Routes монтируется на /api/tarefas
func (h *TarefaHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ListTarefas) // GET /api/tarefas
	r.Post("/", h.PostTarefa) // POST /api/tarefas

	r.Route("/{id}", func(r chi.Router) {
		r.Put("/", h.UpdateTarefaByID)    // PUT /api/tarefas/{id}
		r.Delete("/", h.DeleteTarefaByID) // DELETE /api/tarefas/{id}
	})

	return r
}

func (h *TarefaHandler) ListTarefas(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	tarefas, err := h.TarefaService.ListTarefas(r.Context())
	if err != nil {
		handleServiceError(w, r, err, "list_tarefas")
		return
	}

	logger.Info("HTTP_OUT: Задачи получены",
		zap.Int("count", len(tarefas)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithBody(w, http.StatusOK, dto.FromTarefaList(tarefas))
}

func (h *TarefaHandler) PostTarefa(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	request, ok := decodeTarefaRequest(w, r)
	if !ok {
		return
	}

	created, err := h.TarefaService.CreateTarefa(r.Context(), request.ToTarefa())
	if err != nil {
		handleServiceError(w, r, err, "create_tarefa")
		return
	}

	logger.Info("HTTP_OUT: Задача создана",
		zap.Int64("task_id", created.ID),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithBody(w, http.StatusOK, dto.FromTarefa(created))
}

func (h *TarefaHandler) UpdateTarefaByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, err := parseID(r)
	if err != nil {
		handleBusinessError(w, err)
		return
	}

	request, ok := decodeTarefaRequest(w, r)
	if !ok {
		return
	}

	updated, err := h.TarefaService.UpdateTarefa(r.Context(), id, request.ToPatch())
	if err != nil {
		handleServiceError(w, r, err, "update_tarefa")
		return
	}

	logger.Info("HTTP_OUT: Задача обновлена",
		zap.Int64("task_id", id),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithBody(w, http.StatusOK, dto.FromTarefa(updated))
}

func (h *TarefaHandler) DeleteTarefaByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, err := parseID(r)
	if err != nil {
		handleBusinessError(w, err)
		return
	}

	if err := h.TarefaService.DeleteTarefa(r.Context(), id); err != nil {
		handleServiceError(w, r, err, "delete_tarefa")
		return
	}

	logger.Info("HTTP_OUT: Задача удалена",
		zap.Int64("task_id", id),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusNoContent))

	w.WriteHeader(http.StatusNoContent)
}

func (h *TarefaHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP: Health check")

	if err := h.TarefaService.HealthCheck(r.Context()); err != nil {
		logger.Error("HTTP: Сервис недоступен", err)
		responseWithJSON(w, http.StatusServiceUnavailable,
			toPayload("status", "unavailable"),
			toPayload("service", serviceName),
			toPayload("error", msgStoreUnavailable),
		)
		return
	}

	responseWithJSON(w, http.StatusOK,
		toPayload("status", "ok"),
		toPayload("service", serviceName),
	)
}

func decodeTarefaRequest(w http.ResponseWriter, r *http.Request) (dto.TarefaRequest, bool) {
	var request dto.TarefaRequest

	if !checkContentType(r, "application/json") {
		logger.Warn("HTTP: Неверный тип контента",
			zap.String("expected", "application/json"),
			zap.String("received", r.Header.Get("Content-Type")),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusUnsupportedMediaType, msgInvalidContentType)
		return request, false
	}

	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.Warn("HTTP: ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, msgInvalidBody+": "+err.Error())
		return request, false
	}

	return request, true
}
