package handlers

import (
	"errors"
	"net/http"
	"tarefaTracker/internal/logger"
	"tarefaTracker/internal/service"

	"go.uber.org/zap"
)

// тексты для клиента на португальском, как и поля API; логи на русском
const (
	msgInternalError      = "erro interno do servidor"
	msgStoreUnavailable   = "armazenamento indisponível"
	msgInvalidContentType = "Content-Type deve ser application/json"
	msgInvalidBody        = "corpo da requisição inválido"
)

func handleBusinessError(w http.ResponseWriter, err error) bool {
	var businessErr *service.BusinessError
	if !errors.As(err, &businessErr) {
		return false
	}

	statusCode := mapBusinessErrorToHTTP(businessErr.Code)

	logger.Warn("HTTP: Бизнес-ошибка",
		zap.String("error_code", businessErr.Code),
		zap.Int("http_status", statusCode))

	responseWithJSON(w, statusCode,
		toPayload("error", businessErr.Code),
		toPayload("message", businessErr.Message),
		toPayload("details", businessErr.Details),
	)
	return true
}

// NOT_FOUND отдаётся как 404, а не как общая ошибка сервера
func mapBusinessErrorToHTTP(code string) int {
	switch code {
	case service.CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusBadRequest
	}
}

func handleServiceError(w http.ResponseWriter, r *http.Request, err error, operation string) {
	if handleBusinessError(w, err) {
		return
	}

	logger.Error("HTTP: Ошибка в Service", err,
		zap.String("operation", operation),
		zap.String("client_ip", r.RemoteAddr))

	// подробности только в логе, клиенту общий текст
	responseWithError(w, http.StatusInternalServerError, msgInternalError)
}
