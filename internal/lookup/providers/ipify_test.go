package providers

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/location-weather/internal/lookup"
)

func TestIPifyResolveIP(t *testing.T) {
	var gotFormat string
	srv := jsonServer(t, http.StatusOK, `{"ip":"1.2.3.4"}`, func(r *http.Request) {
		gotFormat = r.URL.Query().Get("format")
	})

	p := NewIPifyResolver(testHTTPConfig(), srv.URL)
	ip, err := p.ResolveIP(context.Background())

	require.NoError(t, err)
	assert.Equal(t, lookup.IPAddress("1.2.3.4"), ip)
	assert.Equal(t, "json", gotFormat)
	assert.Equal(t, "ipify", p.Name())
}

func TestIPifyResolveIPFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "missing ip field", status: http.StatusOK, body: `{"address":"1.2.3.4"}`},
		{name: "blank ip field", status: http.StatusOK, body: `{"ip":"  "}`},
		{name: "unparseable body", status: http.StatusOK, body: `1.2.3.4`},
		{name: "server error", status: http.StatusInternalServerError, body: ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := jsonServer(t, tt.status, tt.body, nil)

			_, err := NewIPifyResolver(testHTTPConfig(), srv.URL).ResolveIP(context.Background())

			require.Error(t, err)
			assert.True(t, lookup.IsNetworkError(err), "got %v", err)
			assert.Equal(t, lookup.MsgIPFailed, lookup.UserMessage(err))
		})
	}
}

func TestIPifyTransportFailure(t *testing.T) {
	_, err := NewIPifyResolver(testHTTPConfig(), closedServerURL(t)).ResolveIP(context.Background())

	require.Error(t, err)
	assert.True(t, lookup.IsNetworkError(err))
}
