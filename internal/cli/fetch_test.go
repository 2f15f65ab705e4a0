package cli

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/location-weather/internal/config"
	"github.com/i474232898/location-weather/internal/lookup"
)

func upstreams(t *testing.T, weatherBody string) *config.AppConfig {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/ip", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ip":"203.0.113.7"}`))
	})
	mux.HandleFunc("/geo/203.0.113.7", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"city":"Paris","country_name":"France"}`))
	})
	mux.HandleFunc("/current", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(weatherBody))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return &config.AppConfig{
		IPStackAPIKey:      "ip-key",
		WeatherstackAPIKey: "wx-key",
		IPLookupURL:        srv.URL + "/ip",
		GeolocationURL:     srv.URL + "/geo",
		WeatherURL:         srv.URL + "/current",
		HTTPTimeout:        2 * time.Second,
		BreakerMaxFailures: 5,
		BreakerOpenTimeout: time.Minute,
		Port:               "8080",
	}
}

func TestOrchestratorEndToEnd(t *testing.T) {
	cfg := upstreams(t, `{"current":{"temperature":18,"weather_descriptions":["Partly cloudy"],"astro":{"sunrise":"06:12 AM","sunset":"08:45 PM"}}}`)

	snap, err := newOrchestrator(cfg).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, lookup.StatusSucceeded, snap.Status)
	require.NotNil(t, snap.Location)
	assert.Equal(t, "Paris", snap.Location.City)
	require.NotNil(t, snap.Weather)
	assert.Equal(t, 18.0, snap.Weather.TemperatureCelsius)
	assert.Equal(t, lookup.ConditionCloudy, snap.Weather.Condition)
	assert.False(t, snap.Loading)
}

func TestOrchestratorEndToEndWeatherFailure(t *testing.T) {
	cfg := upstreams(t, `{"success":false,"error":{"code":615,"type":"request_failed","info":"query not found"}}`)

	snap, err := newOrchestrator(cfg).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, lookup.StatusFailed, snap.Status)
	assert.Equal(t, "query not found", snap.Error)
	require.NotNil(t, snap.Location)
	assert.Nil(t, snap.Weather)
}

func TestReportFailedRunExitsNonZero(t *testing.T) {
	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)

	err := report(cmd, lookup.Snapshot{Status: lookup.StatusFailed, Error: "Unable to determine your IP address"}, formatText)
	assert.ErrorIs(t, err, errLookupFailed)
	assert.True(t, cmd.SilenceErrors)
	assert.True(t, strings.Contains(out.String(), "Unable to determine your IP address"))
}

func TestReportSucceededRun(t *testing.T) {
	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)

	require.NoError(t, report(cmd, parisSnapshot, formatJSON))
	assert.Contains(t, out.String(), `"city": "Paris"`)
}

func TestFetchRejectsUnknownFormat(t *testing.T) {
	root := NewRootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"fetch", "--output", "xml"})

	err := root.Execute()
	assert.ErrorContains(t, err, "unknown output format")
}
