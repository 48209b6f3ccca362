package availabilityservice

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент для сервиса доступности слотов
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetAvailability получает слоты подсценария с доступностью на дату или диапазон
func (c *Client) GetAvailability(ctx context.Context, q Query) ([]SlotDescriptor, error) {
	params := url.Values{}
	params.Set("initialDate", q.InitialDate)
	if q.FinalDate != nil {
		params.Set("finalDate", *q.FinalDate)
	}
	if len(q.Weekdays) > 0 {
		days := make([]string, len(q.Weekdays))
		for i, d := range q.Weekdays {
			days[i] = strconv.Itoa(d)
		}
		params.Set("weekdays", strings.Join(days, ","))
	}

	endpoint := fmt.Sprintf("%s/api/v1/sub-scenarios/%d/availability?%s", c.baseURL, q.SubScenarioID, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusBadRequest:
		return nil, fmt.Errorf("%w: %s", ErrInvalidQuery, errorMessage(resp.Body))
	case http.StatusNotFound:
		return nil, ErrSubScenarioNotFound
	default:
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, errorMessage(resp.Body))
	}

	var payload AvailabilityResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	c.log.Info("Availability fetched for sub_scenario_id=%d initial=%s slots=%d",
		q.SubScenarioID, q.InitialDate, len(payload.TimeSlots))

	return payload.TimeSlots, nil
}

// errorMessage достает message из ErrorResponse, иначе возвращает тело как есть
func errorMessage(body io.Reader) string {
	raw, _ := io.ReadAll(body)
	var errResp ErrorResponse
	if err := json.Unmarshal(raw, &errResp); err == nil && errResp.Message != "" {
		return errResp.Message
	}
	return strings.TrimSpace(string(raw))
}
