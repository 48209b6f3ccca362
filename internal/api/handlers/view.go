package handlers

import (
	"net/http"

	"github.com/m04kA/SMC-SlotScheduler/internal/domain"
	"github.com/m04kA/SMC-SlotScheduler/internal/service/session"
	"github.com/m04kA/SMC-SlotScheduler/internal/service/urlstate"
	"github.com/m04kA/SMC-SlotScheduler/internal/usecase/submit_reservation"
)

const msgAvailabilityUnavailable = "не удалось обновить доступность, показаны последние известные данные"

// SessionViewResponse состояние страницы планирования
type SessionViewResponse struct {
	SessionID         string              `json:"sessionId"`
	SubScenarioID     int64               `json:"subScenarioId"`
	Location          string              `json:"location"`
	Schedule          ScheduleResponse    `json:"schedule"`
	MinDate           string              `json:"minDate"`
	MinEndDate        *string             `json:"minEndDate,omitempty"`
	Slots             []SlotResponse      `json:"slots"`
	SelectedSlotIDs   []int64             `json:"selectedSlotIds"`
	AvailabilityError *string             `json:"availabilityError,omitempty"`
	IsLoading         bool                `json:"isLoading"`
	IsSubmitting      bool                `json:"isSubmitting"`
	SubmissionStatus  string              `json:"submissionStatus"`
	LastSubmission    *SubmissionResponse `json:"lastSubmission,omitempty"`
	PendingAuth       bool                `json:"pendingAuth"`
	Rejections        []string            `json:"rejections"`
}

// ScheduleResponse конфигурация дат
type ScheduleResponse struct {
	Date                *string  `json:"date"`
	EndDate             *string  `json:"endDate,omitempty"`
	Mode                string   `json:"mode"`
	HasWeekdaySelection bool     `json:"hasWeekdaySelection"`
	Weekdays            []int    `json:"weekdays"`
	ExpandedPeriods     []string `json:"expandedPeriods"`
}

// SlotResponse слот сетки
type SlotResponse struct {
	ID           int64   `json:"id"`
	HourLabel    string  `json:"hourLabel"`
	StartTime    *string `json:"startTime,omitempty"`
	EndTime      *string `json:"endTime,omitempty"`
	Availability string  `json:"availability"`
	Elapsed      bool    `json:"elapsed"`
	Selected     bool    `json:"selected"`
}

// SubmissionResponse итог отправки бронирования
type SubmissionResponse struct {
	Status         string  `json:"status"`
	Message        string  `json:"message"`
	RemovedSlotIDs []int64 `json:"removedSlotIds,omitempty"`
}

// SubmitResponse ответ на отправку: итог и обновленное состояние
type SubmitResponse struct {
	Submission SubmissionResponse  `json:"submission"`
	Session    SessionViewResponse `json:"session"`
}

// NewSessionViewResponse конвертирует состояние сессии в HTTP ответ
func NewSessionViewResponse(v session.View) SessionViewResponse {
	resp := SessionViewResponse{
		SessionID:        v.SessionID,
		SubScenarioID:    v.SubScenarioID,
		Location:         v.Location,
		Schedule:         newScheduleResponse(v),
		MinDate:          domain.FormatDate(v.MinDate),
		Slots:            make([]SlotResponse, 0, len(v.Slots)),
		SelectedSlotIDs:  v.SelectedSlotIDs,
		IsLoading:        v.IsLoading,
		IsSubmitting:     v.IsSubmitting,
		SubmissionStatus: string(v.SubmissionStatus),
		PendingAuth:      v.PendingAuth,
		Rejections:       v.Rejections,
	}
	if resp.SelectedSlotIDs == nil {
		resp.SelectedSlotIDs = []int64{}
	}
	if resp.Rejections == nil {
		resp.Rejections = []string{}
	}
	if v.MinEndDate != nil {
		d := domain.FormatDate(*v.MinEndDate)
		resp.MinEndDate = &d
	}
	if v.AvailabilityError != nil {
		msg := msgAvailabilityUnavailable
		resp.AvailabilityError = &msg
	}
	if v.LastSubmission != nil {
		sub := NewSubmissionResponse(*v.LastSubmission)
		resp.LastSubmission = &sub
	}

	for _, s := range v.Slots {
		slot := SlotResponse{
			ID:           s.ID,
			HourLabel:    s.HourLabel,
			Availability: string(s.Availability),
			Elapsed:      s.Elapsed,
			Selected:     s.Selected,
		}
		if s.StartTime != nil {
			start := s.StartTime.String()
			slot.StartTime = &start
		}
		if s.EndTime != nil {
			end := s.EndTime.String()
			slot.EndTime = &end
		}
		resp.Slots = append(resp.Slots, slot)
	}
	return resp
}

// NewSubmissionResponse конвертирует итог отправки в HTTP ответ
func NewSubmissionResponse(res submit_reservation.Result) SubmissionResponse {
	return SubmissionResponse{
		Status:         string(res.Status),
		Message:        res.Message,
		RemovedSlotIDs: res.RemovedSlotIDs,
	}
}

// SubmissionStatusCode HTTP код для итога отправки
func SubmissionStatusCode(status submit_reservation.Status) int {
	switch status {
	case submit_reservation.StatusSucceeded:
		return http.StatusCreated
	case submit_reservation.StatusAuthRequired:
		return http.StatusAccepted
	case submit_reservation.StatusConflictRetry:
		return http.StatusConflict
	case submit_reservation.StatusRejected:
		return http.StatusUnprocessableEntity
	case submit_reservation.StatusFailed:
		return http.StatusBadGateway
	default:
		return http.StatusOK
	}
}

func newScheduleResponse(v session.View) ScheduleResponse {
	params := urlstate.ToParams(v.Schedule)
	resp := ScheduleResponse{
		Mode:                string(params.Mode),
		HasWeekdaySelection: v.Schedule.Config.HasWeekdaySelection,
		Weekdays:            v.Schedule.Weekdays.Ints(),
		ExpandedPeriods:     []string{},
	}
	if v.Schedule.Range.From != nil {
		d := domain.FormatDate(*v.Schedule.Range.From)
		resp.Date = &d
	}
	if v.Schedule.Range.To != nil {
		d := domain.FormatDate(*v.Schedule.Range.To)
		resp.EndDate = &d
	}
	for _, p := range domain.Periods {
		if v.Schedule.Config.ExpandedPeriods[p] {
			resp.ExpandedPeriods = append(resp.ExpandedPeriods, string(p))
		}
	}
	return resp
}
