package lookup

import (
	"errors"
	"fmt"
)

// ErrInFlight is returned when an invocation is requested while another one
// is still running.
var ErrInFlight = errors.New("a lookup is already in progress")

// Stage identifies one network call in the chain.
type Stage string

const (
	StageIP          Stage = "ip"
	StageGeolocation Stage = "geolocation"
	StageWeather     Stage = "weather"
)

// Generic messages used when an upstream does not describe its failure.
const (
	MsgIPFailed          = "Unable to determine your IP address"
	MsgGeolocationFailed = "Error in getting location information"
	MsgWeatherFailed     = "Failed to get weather information"
	MsgUnexpected        = "An error has occurred, please try again"
)

// ErrorKind classifies a stage failure.
type ErrorKind int

const (
	// KindNetwork covers calls that did not complete or returned unparseable data.
	KindNetwork ErrorKind = iota + 1
	// KindUpstream is a service-level failure reported inside a valid response.
	KindUpstream
	// KindMalformed is a parsed response missing an expected field.
	KindMalformed
)

func (k ErrorKind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindUpstream:
		return "upstream"
	case KindMalformed:
		return "malformed_response"
	default:
		return "unknown"
	}
}

// StageError is the failure returned by every resolver.
// Message is safe to show to a user; Err keeps the underlying cause for logs.
type StageError struct {
	Stage   Stage
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *StageError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s error: %s: %v", e.Stage, e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s %s error: %s", e.Stage, e.Kind, e.Message)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// NetworkError builds a KindNetwork failure with the stage's generic message.
func NetworkError(stage Stage, err error) *StageError {
	return &StageError{Stage: stage, Kind: KindNetwork, Message: genericMessage(stage), Err: err}
}

// UpstreamError builds a KindUpstream failure. An empty message falls back to
// the stage's generic message.
func UpstreamError(stage Stage, message string) *StageError {
	if message == "" {
		message = genericMessage(stage)
	}
	return &StageError{Stage: stage, Kind: KindUpstream, Message: message}
}

// MalformedResponseError builds a KindMalformed failure naming the missing field.
func MalformedResponseError(stage Stage, field string) *StageError {
	return &StageError{
		Stage:   stage,
		Kind:    KindMalformed,
		Message: genericMessage(stage),
		Err:     fmt.Errorf("response is missing %s", field),
	}
}

// IsNetworkError reports whether err is a KindNetwork stage failure.
func IsNetworkError(err error) bool { return hasKind(err, KindNetwork) }

// IsUpstreamError reports whether err is a KindUpstream stage failure.
func IsUpstreamError(err error) bool { return hasKind(err, KindUpstream) }

// IsMalformedResponseError reports whether err is a KindMalformed stage failure.
func IsMalformedResponseError(err error) bool { return hasKind(err, KindMalformed) }

// UserMessage reduces any error to the single line stored in the snapshot.
func UserMessage(err error) string {
	var stageErr *StageError
	if errors.As(err, &stageErr) && stageErr.Message != "" {
		return stageErr.Message
	}
	return MsgUnexpected
}

func hasKind(err error, kind ErrorKind) bool {
	var stageErr *StageError
	if errors.As(err, &stageErr) {
		return stageErr.Kind == kind
	}
	return false
}

func genericMessage(stage Stage) string {
	switch stage {
	case StageIP:
		return MsgIPFailed
	case StageGeolocation:
		return MsgGeolocationFailed
	case StageWeather:
		return MsgWeatherFailed
	default:
		return MsgUnexpected
	}
}
