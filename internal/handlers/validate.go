package handlers

import (
	"mime"
	"net/http"
	"strconv"
	"tarefaTracker/internal/service"

	"github.com/go-chi/chi/v5"
)

func checkContentType(r *http.Request, target string) bool {
	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		return false
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}

	return mediaType == target
}

func parseID(r *http.Request) (int64, error) {
	idParam := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idParam, 10, 64)
	if err != nil {
		return 0, service.NewValidationError("id", "deve ser um número inteiro")
	}
	if id <= 0 {
		return 0, service.NewValidationError("id", "deve ser positivo")
	}
	return id, nil
}
