package providers

import (
	"context"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker"

	"github.com/i474232898/location-weather/internal/lookup"
)

// DefaultWeatherstackURL is the current-conditions endpoint.
const DefaultWeatherstackURL = "http://api.weatherstack.com/current"

// WeatherstackResolver implements lookup.WeatherResolver against weatherstack.
type WeatherstackResolver struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

// weatherstackResponse is the subset of /current we read. An empty
// description list is rejected rather than read past its end.
type weatherstackResponse struct {
	Current *struct {
		Temperature         *float64 `json:"temperature" validate:"required"`
		WeatherDescriptions []string `json:"weather_descriptions" validate:"min=1"`
		Astro               struct {
			Sunrise string `json:"sunrise"`
			Sunset  string `json:"sunset"`
		} `json:"astro"`
	} `json:"current" validate:"required"`
}

func NewWeatherstackResolver(httpCfg HTTPClientConfig, baseURL, apiKey string) *WeatherstackResolver {
	if baseURL == "" {
		baseURL = DefaultWeatherstackURL
	}
	return &WeatherstackResolver{
		name:    "weatherstack",
		apiKey:  apiKey,
		baseURL: baseURL,
		httpCfg: httpCfg,
		circuit: newCircuitBreaker("weatherstack", httpCfg.Breaker),
	}
}

func (p *WeatherstackResolver) Name() string {
	return p.name
}

func (p *WeatherstackResolver) ResolveWeather(ctx context.Context, loc lookup.Location) (lookup.Weather, error) {
	body, err := doRequest(ctx, p.httpCfg, p.circuit, lookup.StageWeather, p.baseURL, func(r *resty.Request) *resty.Request {
		return r.SetQueryParams(map[string]string{
			"access_key": p.apiKey,
			"query":      loc.Query(),
		})
	})
	if err != nil {
		return lookup.Weather{}, err
	}

	var payload weatherstackResponse
	if err := decodeBody(lookup.StageWeather, body, &payload); err != nil {
		return lookup.Weather{}, err
	}

	description := payload.Current.WeatherDescriptions[0]

	return lookup.Weather{
		TemperatureCelsius: *payload.Current.Temperature,
		Description:        description,
		Sunrise:            payload.Current.Astro.Sunrise,
		Sunset:             payload.Current.Astro.Sunset,
		Condition:          lookup.ConditionFromDescription(description),
	}, nil
}
