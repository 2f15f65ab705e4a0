package providers

import (
	"context"
	"errors"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker"

	"github.com/i474232898/location-weather/internal/lookup"
)

// DefaultIPifyURL is the public IP echo endpoint.
const DefaultIPifyURL = "https://api.ipify.org"

// IPifyResolver implements lookup.IPResolver against ipify.
type IPifyResolver struct {
	name    string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewIPifyResolver(httpCfg HTTPClientConfig, baseURL string) *IPifyResolver {
	if baseURL == "" {
		baseURL = DefaultIPifyURL
	}
	return &IPifyResolver{
		name:    "ipify",
		baseURL: baseURL,
		httpCfg: httpCfg,
		circuit: newCircuitBreaker("ipify", httpCfg.Breaker),
	}
}

func (p *IPifyResolver) Name() string {
	return p.name
}

func (p *IPifyResolver) ResolveIP(ctx context.Context) (lookup.IPAddress, error) {
	body, err := doRequest(ctx, p.httpCfg, p.circuit, lookup.StageIP, p.baseURL, func(r *resty.Request) *resty.Request {
		return r.SetQueryParam("format", "json")
	})
	if err != nil {
		return "", err
	}

	var payload struct {
		IP string `json:"ip"`
	}
	if err := decodeBody(lookup.StageIP, body, &payload); err != nil {
		return "", err
	}

	// A missing address is reported as a network failure for this stage.
	ip := strings.TrimSpace(payload.IP)
	if ip == "" {
		return "", lookup.NetworkError(lookup.StageIP, errors.New("response is missing ip"))
	}

	return lookup.IPAddress(ip), nil
}
