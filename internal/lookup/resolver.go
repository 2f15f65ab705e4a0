package lookup

import (
	"context"
	"time"
)

// IPResolver returns the caller's public IP address.
type IPResolver interface {
	ResolveIP(ctx context.Context) (IPAddress, error)
}

// GeoResolver maps an IP address to a Location.
type GeoResolver interface {
	ResolveLocation(ctx context.Context, ip IPAddress) (Location, error)
}

// WeatherResolver returns current conditions for a Location.
type WeatherResolver interface {
	ResolveWeather(ctx context.Context, loc Location) (Weather, error)
}

// StateStore is the contract for the single orchestration aggregate.
// Only the Orchestrator writes to it.
type StateStore interface {
	Begin(runID string, startedAt time.Time) Snapshot
	SetLocation(loc Location) Snapshot
	Succeed(w Weather, finishedAt time.Time) Snapshot
	Fail(message string, finishedAt time.Time) Snapshot
	Snapshot() Snapshot
}
