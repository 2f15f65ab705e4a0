package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker"

	"github.com/i474232898/location-weather/internal/common"
	"github.com/i474232898/location-weather/internal/lookup"
)

// BreakerConfig controls when an upstream is considered down.
// MaxFailures of zero disables the breaker.
type BreakerConfig struct {
	MaxFailures uint32
	OpenTimeout time.Duration
}

// HTTPClientConfig bundles the HTTP client and resilience settings.
type HTTPClientConfig struct {
	Client  *resty.Client
	Breaker BreakerConfig
}

var (
	errServerError  = errors.New("server error")
	errUnexpected   = errors.New("unexpected status code")
	errCircuitOpen  = errors.New("circuit breaker open")
	errNoHTTPClient = errors.New("http client not configured")
)

var validate = newValidator()

// newValidator reports fields by their JSON names so malformed-response
// errors point at the upstream payload.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// errorDescriptor is the service-level failure object embedded in a body,
// e.g. {"success": false, "error": {"code": 101, "type": "invalid_access_key", "info": "..."}}.
type errorDescriptor struct {
	Code int    `json:"code"`
	Type string `json:"type"`
	Info string `json:"info"`
}

func newCircuitBreaker(name string, cfg BreakerConfig) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    1 * time.Minute,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return cfg.MaxFailures > 0 && counts.ConsecutiveFailures >= cfg.MaxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Printf("WARN: circuit %s: %s -> %s", name, from, to)
		},
	})
}

// doRequest issues a single GET through the circuit breaker and returns the
// body of a successful response. Failures are returned as *lookup.StageError.
// There is no retry: one trigger means one call per stage.
func doRequest(
	ctx context.Context,
	cfg HTTPClientConfig,
	cb *gobreaker.CircuitBreaker,
	stage lookup.Stage,
	url string,
	buildRequest func(*resty.Request) *resty.Request,
) ([]byte, error) {
	if cfg.Client == nil {
		return nil, lookup.NetworkError(stage, errNoHTTPClient)
	}

	var resp *resty.Response
	_, err := cb.Execute(func() (interface{}, error) {
		req := cfg.Client.R().
			SetContext(ctx).
			SetHeader("Accept", "application/json")
		if buildRequest != nil {
			req = buildRequest(req)
		}

		r, execErr := req.Get(url)
		if execErr != nil {
			return nil, execErr
		}
		resp = r

		// Only availability problems count against the breaker.
		if r.StatusCode() == http.StatusTooManyRequests || r.StatusCode() >= 500 {
			return r, fmt.Errorf("%w: %d", errServerError, r.StatusCode())
		}
		return r, nil
	})

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, lookup.NetworkError(stage, fmt.Errorf("%w: %v", errCircuitOpen, err))
	}
	if resp == nil {
		return nil, lookup.NetworkError(stage, err)
	}

	body := resp.Body()
	if desc := parseErrorDescriptor(body); desc != nil {
		log.Printf("WARN: %s upstream reported error code=%d type=%s", stage, desc.Code, desc.Type)
		return nil, lookup.UpstreamError(stage, common.FirstNonEmpty(desc.Info))
	}
	if !resp.IsSuccess() {
		return nil, lookup.NetworkError(stage, fmt.Errorf("%w: %d", errUnexpected, resp.StatusCode()))
	}

	return body, nil
}

// parseErrorDescriptor returns the embedded error object, or nil when the
// body has none or is not a JSON object.
func parseErrorDescriptor(body []byte) *errorDescriptor {
	var envelope struct {
		Error *errorDescriptor `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil
	}
	return envelope.Error
}

// decodeBody unmarshals a successful body and checks its validate tags.
// Unparseable JSON is a network-class failure; a missing field is malformed.
func decodeBody(stage lookup.Stage, body []byte, out interface{}) error {
	if err := json.Unmarshal(body, out); err != nil {
		return lookup.NetworkError(stage, fmt.Errorf("decoding response: %w", err))
	}

	if err := validate.Struct(out); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return lookup.MalformedResponseError(stage, fieldPath(verrs[0].Namespace()))
		}
		return lookup.NetworkError(stage, err)
	}
	return nil
}

// fieldPath drops the root struct name from a validator namespace.
func fieldPath(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		return rest
	}
	return namespace
}
