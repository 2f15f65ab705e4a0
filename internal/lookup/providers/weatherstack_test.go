package providers

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/location-weather/internal/lookup"
)

var paris = lookup.Location{City: "Paris", CountryName: "France"}

func TestWeatherstackResolveWeather(t *testing.T) {
	var gotQuery, gotKey string
	body := `{"request":{"type":"City"},"current":{"temperature":18,"weather_descriptions":["Cloudy"],"astro":{"sunrise":"07:12","sunset":"19:45"}}}`
	srv := jsonServer(t, http.StatusOK, body, func(r *http.Request) {
		gotQuery = r.URL.Query().Get("query")
		gotKey = r.URL.Query().Get("access_key")
	})

	w, err := NewWeatherstackResolver(testHTTPConfig(), srv.URL, "secret").ResolveWeather(context.Background(), paris)

	require.NoError(t, err)
	assert.Equal(t, lookup.Weather{
		TemperatureCelsius: 18,
		Description:        "Cloudy",
		Sunrise:            "07:12",
		Sunset:             "19:45",
		Condition:          lookup.ConditionCloudy,
	}, w)
	assert.Equal(t, "Paris,France", gotQuery)
	assert.Equal(t, "secret", gotKey)
}

func TestWeatherstackZeroTemperatureIsValid(t *testing.T) {
	srv := jsonServer(t, http.StatusOK, `{"current":{"temperature":0,"weather_descriptions":["Light snow"]}}`, nil)

	w, err := NewWeatherstackResolver(testHTTPConfig(), srv.URL, "k").ResolveWeather(context.Background(), paris)

	require.NoError(t, err)
	assert.Equal(t, 0.0, w.TemperatureCelsius)
	assert.Equal(t, lookup.ConditionSnow, w.Condition)
	assert.Empty(t, w.Sunrise)
}

func TestWeatherstackResolveWeatherFailures(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		kind    lookup.ErrorKind
		message string
		field   string
	}{
		{
			name:    "error descriptor",
			body:    `{"success":false,"error":{"code":615,"type":"request_failed","info":"query not found"}}`,
			kind:    lookup.KindUpstream,
			message: "query not found",
		},
		{
			name:    "empty error descriptor",
			body:    `{"success":false,"error":{}}`,
			kind:    lookup.KindUpstream,
			message: lookup.MsgWeatherFailed,
		},
		{
			name:    "empty description list",
			body:    `{"current":{"temperature":18,"weather_descriptions":[]}}`,
			kind:    lookup.KindMalformed,
			message: lookup.MsgWeatherFailed,
			field:   "current.weather_descriptions",
		},
		{
			name:    "missing current",
			body:    `{"location":{"name":"Paris"}}`,
			kind:    lookup.KindMalformed,
			message: lookup.MsgWeatherFailed,
			field:   "current",
		},
		{
			name:    "missing temperature",
			body:    `{"current":{"weather_descriptions":["Sunny"]}}`,
			kind:    lookup.KindMalformed,
			message: lookup.MsgWeatherFailed,
			field:   "current.temperature",
		},
		{
			name:    "unparseable body",
			body:    `<html></html>`,
			kind:    lookup.KindNetwork,
			message: lookup.MsgWeatherFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := jsonServer(t, http.StatusOK, tt.body, nil)

			_, err := NewWeatherstackResolver(testHTTPConfig(), srv.URL, "k").ResolveWeather(context.Background(), paris)

			require.Error(t, err)
			var stageErr *lookup.StageError
			require.ErrorAs(t, err, &stageErr)
			assert.Equal(t, lookup.StageWeather, stageErr.Stage)
			assert.Equal(t, tt.kind, stageErr.Kind)
			assert.Equal(t, tt.message, lookup.UserMessage(err))
			if tt.field != "" {
				assert.Contains(t, err.Error(), tt.field)
			}
		})
	}
}

func TestWeatherstackTransportFailure(t *testing.T) {
	_, err := NewWeatherstackResolver(testHTTPConfig(), closedServerURL(t), "k").ResolveWeather(context.Background(), paris)

	require.Error(t, err)
	assert.True(t, lookup.IsNetworkError(err))
}
