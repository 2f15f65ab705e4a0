package providers

import (
	"context"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker"

	"github.com/i474232898/location-weather/internal/lookup"
)

// DefaultIPStackURL is the ipstack API root; the IP is appended as a path segment.
const DefaultIPStackURL = "http://api.ipstack.com"

// IPStackResolver implements lookup.GeoResolver against ipstack.
type IPStackResolver struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

type ipstackResponse struct {
	City        string `json:"city" validate:"required"`
	CountryName string `json:"country_name" validate:"required"`
}

func NewIPStackResolver(httpCfg HTTPClientConfig, baseURL, apiKey string) *IPStackResolver {
	if baseURL == "" {
		baseURL = DefaultIPStackURL
	}
	return &IPStackResolver{
		name:    "ipstack",
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpCfg: httpCfg,
		circuit: newCircuitBreaker("ipstack", httpCfg.Breaker),
	}
}

func (p *IPStackResolver) Name() string {
	return p.name
}

func (p *IPStackResolver) ResolveLocation(ctx context.Context, ip lookup.IPAddress) (lookup.Location, error) {
	// A missing key is sent as-is; ipstack answers with an error descriptor.
	body, err := doRequest(ctx, p.httpCfg, p.circuit, lookup.StageGeolocation, p.baseURL+"/{ip}", func(r *resty.Request) *resty.Request {
		return r.
			SetPathParam("ip", string(ip)).
			SetQueryParam("access_key", p.apiKey)
	})
	if err != nil {
		return lookup.Location{}, err
	}

	var payload ipstackResponse
	if err := decodeBody(lookup.StageGeolocation, body, &payload); err != nil {
		return lookup.Location{}, err
	}

	return lookup.Location{
		City:        payload.City,
		CountryName: payload.CountryName,
	}, nil
}
