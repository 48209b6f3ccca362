package availabilityservice

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SlotScheduler/pkg/logger"
	"github.com/m04kA/SMC-SlotScheduler/pkg/ptr"
)

func TestClient_GetAvailability(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/sub-scenarios/7/availability", r.URL.Path)
		assert.Equal(t, "2024-02-10", r.URL.Query().Get("initialDate"))
		assert.Equal(t, "2024-02-15", r.URL.Query().Get("finalDate"))
		assert.Equal(t, "1,3", r.URL.Query().Get("weekdays"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(AvailabilityResponse{TimeSlots: []SlotDescriptor{
			{ID: 1, StartTime: "08:00:00", EndTime: "09:00:00", IsAvailableInAllDates: true},
			{ID: 2, StartTime: "09:00:00", EndTime: "10:00:00", IsAvailableInAllDates: false},
		}})
	}))
	defer srv.Close()

	client := NewClient(srv.URL+"/", time.Second, logger.NewNop())

	slots, err := client.GetAvailability(context.Background(), Query{
		SubScenarioID: 7,
		InitialDate:   "2024-02-10",
		FinalDate:     ptr.Ptr("2024-02-15"),
		Weekdays:      []int{1, 3},
	})
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.True(t, slots[0].IsAvailableInAllDates)
	assert.False(t, slots[1].IsAvailableInAllDates)
}

func TestClient_GetAvailability_SingleDayOmitsOptionalParams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hasFinal := r.URL.Query()["finalDate"]
		_, hasWeekdays := r.URL.Query()["weekdays"]
		assert.False(t, hasFinal)
		assert.False(t, hasWeekdays)
		_, _ = w.Write([]byte(`{"timeSlots":[]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, logger.NewNop())
	slots, err := client.GetAvailability(context.Background(), Query{SubScenarioID: 1, InitialDate: "2024-02-10"})
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestClient_GetAvailability_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{name: "not found", status: http.StatusNotFound, want: ErrSubScenarioNotFound},
		{name: "bad request", status: http.StatusBadRequest, body: `{"message":"bad date"}`, want: ErrInvalidQuery},
		{name: "server error", status: http.StatusBadGateway, want: ErrInvalidResponse},
		{name: "broken json", status: http.StatusOK, body: `{"timeSlots":`, want: ErrInvalidResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := NewClient(srv.URL, time.Second, logger.NewNop())
			_, err := client.GetAvailability(context.Background(), Query{SubScenarioID: 1, InitialDate: "2024-02-10"})
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestClient_GetAvailability_Unreachable(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", 200*time.Millisecond, logger.NewNop())
	_, err := client.GetAvailability(context.Background(), Query{SubScenarioID: 1, InitialDate: "2024-02-10"})
	assert.ErrorIs(t, err, ErrInternal)
}

func TestClient_GetAvailability_ErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "error response", body: `{"code":400,"message":"finalDate before initialDate"}`, want: "finalDate before initialDate"},
		{name: "plain text", body: "bad request\n", want: "bad request"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := NewClient(srv.URL, time.Second, logger.NewNop())
			_, err := client.GetAvailability(context.Background(), Query{SubScenarioID: 1, InitialDate: "2024-02-10"})
			require.ErrorIs(t, err, ErrInvalidQuery)
			assert.Equal(t, ErrInvalidQuery.Error()+": "+tt.want, err.Error())
		})
	}
}
