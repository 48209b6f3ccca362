package reservationservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
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

// Client клиент для сервиса бронирований
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

// CreateReservation создает бронирование от имени пользователя
// Отказы сервиса возвращаются как *CreateError с типом ошибки
func (c *Client) CreateReservation(ctx context.Context, userID int64, body CreateReservationRequest) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("%w: failed to encode request: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/reservations", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", strconv.FormatInt(userID, 10))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read response: %v", ErrInternal, err)
	}

	var result CreateReservationResponse
	decodeErr := json.Unmarshal(raw, &result)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if decodeErr != nil {
			return fmt.Errorf("%w: failed to decode response: %v", ErrInternal, decodeErr)
		}
		if result.Success {
			c.log.Info("Reservation created: sub_scenario_id=%d, user_id=%d, slots=%d",
				body.SubScenarioID, userID, len(body.TimeSlotIDs))
			return nil
		}
	}

	createErr := &CreateError{
		Kind:       kindFromStatus(resp.StatusCode),
		Message:    result.Error,
		StatusCode: resp.StatusCode,
	}
	if result.ErrorKind != "" {
		createErr.Kind = normalizeKind(result.ErrorKind)
	}
	if createErr.Message == "" {
		createErr.Message = strings.TrimSpace(string(raw))
	}

	c.log.Warn("Reservation rejected: sub_scenario_id=%d, user_id=%d, kind=%s, status=%d",
		body.SubScenarioID, userID, createErr.Kind, resp.StatusCode)
	return createErr
}

func kindFromStatus(status int) ErrorKind {
	switch status {
	case http.StatusConflict:
		return ErrorKindConflict
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return ErrorKindValidation
	default:
		return ErrorKindUnknown
	}
}

func normalizeKind(kind ErrorKind) ErrorKind {
	switch ErrorKind(strings.ToLower(string(kind))) {
	case ErrorKindConflict:
		return ErrorKindConflict
	case ErrorKindValidation:
		return ErrorKindValidation
	default:
		return ErrorKindUnknown
	}
}
