package calendarmirror

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент зеркального календаря мастера
// Зеркалирование best-effort: ошибка логируется вызывающим кодом
// и не откатывает зафиксированное резервирование
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента зеркального календаря
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// PushEvent отправляет занятый интервал в зеркальный календарь
func (c *Client) PushEvent(ctx context.Context, event MirrorEvent) error {
	url := fmt.Sprintf("%s/internal/calendar/events", c.baseURL)

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal event: %v", ErrInternal, err)
	}

	return c.do(ctx, http.MethodPost, url, body)
}

// RemoveEvent удаляет событие блока из зеркального календаря
func (c *Client) RemoveEvent(ctx context.Context, blockID int64) error {
	url := fmt.Sprintf("%s/internal/calendar/events/%d", c.baseURL, blockID)
	return c.do(ctx, http.MethodDelete, url, nil)
}

// do выполняет запрос с идемпотентным ключом
// Ключ позволяет зеркалу схлопывать ретраи того же вызова
func (c *Client) do(ctx context.Context, method, url string, body []byte) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Удаление уже отсутствующего события не считается ошибкой
	if resp.StatusCode == http.StatusNotFound && method == http.MethodDelete {
		return nil
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(respBody))
	}

	return nil
}
