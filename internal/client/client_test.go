package client

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrino-academy/andrino-api/internal/dto"
	"github.com/andrino-academy/andrino-api/internal/models"
	appErrors "github.com/andrino-academy/andrino-api/pkg/errors"
)

func writeEnvelope(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func TestClientLoginStoresToken(t *testing.T) {
	var authHeader string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			var payload map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			assert.Equal(t, "instructor@andrino.academy", payload["email"])
			writeEnvelope(w, http.StatusOK, `{"data":{"accessToken":"tok-1","expiresIn":3600,"user":{"id":"inst-1","role":"INSTRUCTOR"}}}`)
		case "/api/tracks":
			authHeader = r.Header.Get("Authorization")
			assert.Equal(t, "true", r.URL.Query().Get("mine"))
			writeEnvelope(w, http.StatusOK, `{"data":{"tracks":[{"id":"track-1","name":"Python Basics","isActive":true}]}}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	c := New(server.URL + "/api/")
	res, err := c.Login(context.Background(), "instructor@andrino.academy", "password")
	require.NoError(t, err)
	assert.Equal(t, models.RoleInstructor, res.User.Role)

	tracks, err := c.Tracks(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, tracks, 1)
	assert.Equal(t, "Python Basics", tracks[0].Name)
	assert.Equal(t, "Bearer tok-1", authHeader)
}

func TestClientAvailabilityRoundTrip(t *testing.T) {
	var saved dto.SaveAvailabilityRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/instructor/availability":
			assert.Equal(t, "track-1", r.URL.Query().Get("trackId"))
			assert.Equal(t, "2024-01-07", r.URL.Query().Get("weekStartDate"))
			writeEnvelope(w, http.StatusOK, `{"data":{"availability":[{"id":"a","dayOfWeek":1,"startHour":13,"endHour":14,"isBooked":false,"isConfirmed":true}],"weekStartDate":"2024-01-07","etag":"e1"}}`)
		case r.Method == http.MethodPost && r.URL.Path == "/api/instructor/availability":
			require.NoError(t, json.NewDecoder(r.Body).Decode(&saved))
			writeEnvelope(w, http.StatusOK, `{"data":{"message":"Availability saved successfully","created":1,"removed":0,"unchanged":0,"skipped":0}}`)
		case r.Method == http.MethodPut && r.URL.Path == "/api/instructor/availability/confirm":
			writeEnvelope(w, http.StatusOK, `{"data":{"message":"Availability confirmed successfully","confirmedCount":1}}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	c := New(server.URL+"/api", WithToken("tok"))
	ctx := context.Background()

	got, err := c.Availability(ctx, "track-1", "2024-01-07")
	require.NoError(t, err)
	require.Len(t, got.Availability, 1)
	assert.True(t, got.Availability[0].IsConfirmed)
	assert.Equal(t, "e1", got.ETag)

	saveRes, err := c.SaveAvailability(ctx, dto.SaveAvailabilityRequest{
		TrackID: "track-1", WeekStartDate: "2024-01-07",
		Slots: []models.SlotInput{{DayOfWeek: 2, StartHour: 20, EndHour: 21}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, saveRes.Created)
	assert.Equal(t, []models.SlotInput{{DayOfWeek: 2, StartHour: 20, EndHour: 21}}, saved.Slots)

	confirmRes, err := c.ConfirmAvailability(ctx, dto.ConfirmAvailabilityRequest{TrackID: "track-1", WeekStartDate: "2024-01-07"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), confirmRes.ConfirmedCount)
}

func TestClientDecodesAPIErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/instructor/availability/confirm" {
			writeEnvelope(w, http.StatusNotFound, `{"error":{"code":"NOTHING_TO_CONFIRM","message":"no unconfirmed availability to confirm","status":404}}`)
			return
		}
		w.WriteHeader(http.StatusBadGateway)
		_, _ = io.WriteString(w, "<html>bad gateway</html>")
	}))
	defer server.Close()

	c := New(server.URL + "/api")

	_, err := c.ConfirmAvailability(context.Background(), dto.ConfirmAvailabilityRequest{TrackID: "t", WeekStartDate: "2024-01-07"})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrNothingToConfirm))
	assert.Equal(t, http.StatusNotFound, appErrors.FromError(err).Status)

	_, err = c.Availability(context.Background(), "t", "2024-01-07")
	require.Error(t, err)
	apiErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, appErrors.ErrInternal.Code, apiErr.Code)
}

func TestClientTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	_, err := New(server.URL).ScheduleSettings(context.Background())
	require.Error(t, err)
	var apiErr *appErrors.Error
	assert.False(t, errors.As(err, &apiErr))
}
