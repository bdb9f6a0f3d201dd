package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// ErrorResponse стандартное тело ошибки API
type ErrorResponse struct {
	Error string `json:"error"`
}

// ConflictResponse тело ответа 409 с альтернативным слотом
type ConflictResponse struct {
	Error       string       `json:"error"`
	Code        string       `json:"code"` // SLOT_TAKEN | ALREADY_CLAIMED
	Alternative *SlotPayload `json:"alternative,omitempty"`
}

// SlotPayload свободный интервал в ответе API
type SlotPayload struct {
	StartTime       string `json:"startTime"`
	EndTime         string `json:"endTime"`
	DurationMinutes int    `json:"durationMinutes"`
}

// DecodeJSON декодирует тело запроса в целевую структуру
func DecodeJSON(r *http.Request, dst interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}

// RespondJSON отправляет JSON ответ с указанным статусом
func RespondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		// Ошибку записи уже некуда репортить - заголовки отправлены
		_ = json.NewEncoder(w).Encode(payload)
	}
}

// RespondBadRequest отправляет 400 с сообщением
func RespondBadRequest(w http.ResponseWriter, message string) {
	RespondJSON(w, http.StatusBadRequest, ErrorResponse{Error: message})
}

// RespondNotFound отправляет 404 с сообщением
func RespondNotFound(w http.ResponseWriter, message string) {
	RespondJSON(w, http.StatusNotFound, ErrorResponse{Error: message})
}

// RespondForbidden отправляет 403 с сообщением
func RespondForbidden(w http.ResponseWriter, message string) {
	RespondJSON(w, http.StatusForbidden, ErrorResponse{Error: message})
}

// RespondUnauthorized отправляет 401 с сообщением
func RespondUnauthorized(w http.ResponseWriter, message string) {
	RespondJSON(w, http.StatusUnauthorized, ErrorResponse{Error: message})
}

// RespondConflict отправляет 409 с кодом конфликта и, если есть,
// альтернативным слотом
func RespondConflict(w http.ResponseWriter, message, code string, alternative *SlotPayload) {
	RespondJSON(w, http.StatusConflict, ConflictResponse{
		Error:       message,
		Code:        code,
		Alternative: alternative,
	})
}

// RespondUnprocessable отправляет 422 с сообщением
// Используется для нелегальных переходов статуса
func RespondUnprocessable(w http.ResponseWriter, message string) {
	RespondJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Error: message})
}

// RespondInternalError отправляет 500 с нейтральным сообщением
func RespondInternalError(w http.ResponseWriter) {
	RespondJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "внутренняя ошибка сервера"})
}
