package cli

import (
	"net/http"

	"github.com/go-resty/resty/v2"

	"github.com/i474232898/location-weather/internal/config"
	"github.com/i474232898/location-weather/internal/lookup"
	"github.com/i474232898/location-weather/internal/lookup/providers"
	"github.com/i474232898/location-weather/internal/store"
)

// newOrchestrator assembles the resolvers, the state store and the
// orchestrator from the loaded configuration.
func newOrchestrator(cfg *config.AppConfig, opts ...lookup.Option) *lookup.Orchestrator {
	// Shared HTTP client for outbound provider calls.
	client := resty.NewWithClient(&http.Client{Timeout: cfg.HTTPTimeout}).
		SetDebug(cfg.HTTPTrace)

	httpCfg := providers.HTTPClientConfig{
		Client:  client,
		Breaker: cfg.Breaker(),
	}

	return lookup.NewOrchestrator(
		store.NewMemoryStore(),
		providers.NewIPifyResolver(httpCfg, cfg.IPLookupURL),
		providers.NewIPStackResolver(httpCfg, cfg.GeolocationURL, cfg.IPStackAPIKey),
		providers.NewWeatherstackResolver(httpCfg, cfg.WeatherURL, cfg.WeatherstackAPIKey),
		opts...,
	)
}
