package lookup

import (
	"time"
)

// Condition represents a normalized high-level weather condition.
type Condition string

const (
	ConditionUnknown Condition = "unknown"
	ConditionClear   Condition = "clear"
	ConditionCloudy  Condition = "cloudy"
	ConditionRain    Condition = "rain"
	ConditionSnow    Condition = "snow"
	ConditionStorm   Condition = "storm"
	ConditionMist    Condition = "mist"
)

// IPAddress is the public address reported by the IP lookup service.
// It is treated as opaque; the only requirement is that it is non-empty.
type IPAddress string

// Location is the approximate place an IP address resolves to.
type Location struct {
	City        string `json:"city" yaml:"city"`
	CountryName string `json:"countryName" yaml:"countryName"`
}

// Query formats the location the way the weather service expects it.
func (l Location) Query() string {
	return l.City + "," + l.CountryName
}

// Weather holds the current conditions for a Location.
type Weather struct {
	TemperatureCelsius float64   `json:"temperatureCelsius" yaml:"temperatureCelsius"`
	Description        string    `json:"description" yaml:"description"`
	Sunrise            string    `json:"sunrise" yaml:"sunrise"`
	Sunset             string    `json:"sunset" yaml:"sunset"`
	Condition          Condition `json:"condition" yaml:"condition"`
}

// Status is the orchestrator state machine position.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Terminal reports whether a run has stopped advancing.
func (s Status) Terminal() bool {
	return s == StatusSucceeded || s == StatusFailed
}

// Snapshot is a read-only copy of the orchestration state.
// Absent values are nil pointers or the empty string.
type Snapshot struct {
	Status     Status    `json:"status" yaml:"status"`
	RunID      string    `json:"runId,omitempty" yaml:"runId,omitempty"`
	Location   *Location `json:"location" yaml:"location"`
	Weather    *Weather  `json:"weather" yaml:"weather"`
	Error      string    `json:"error,omitempty" yaml:"error,omitempty"`
	Loading    bool      `json:"loading" yaml:"loading"`
	StartedAt  time.Time `json:"startedAt,omitempty" yaml:"startedAt,omitempty"`
	FinishedAt time.Time `json:"finishedAt,omitempty" yaml:"finishedAt,omitempty"`
}

// Clone returns a deep copy so callers never share pointers with the store.
func (s Snapshot) Clone() Snapshot {
	out := s
	if s.Location != nil {
		loc := *s.Location
		out.Location = &loc
	}
	if s.Weather != nil {
		w := *s.Weather
		out.Weather = &w
	}
	return out
}
