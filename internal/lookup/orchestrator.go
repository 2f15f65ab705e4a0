package lookup

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Orchestrator runs the IP -> geolocation -> weather chain and owns the
// resulting state. Readers only ever see Snapshot copies.
type Orchestrator struct {
	ip      IPResolver
	geo     GeoResolver
	weather WeatherResolver
	state   StateStore

	mu      sync.Mutex
	running bool

	onChange func(Snapshot)
	now      func() time.Time
	newRunID func() string
}

// Option customizes an Orchestrator.
type Option func(*Orchestrator)

// WithObserver registers fn to be called after every state change.
// fn runs on the orchestrating goroutine and must not block.
func WithObserver(fn func(Snapshot)) Option {
	return func(o *Orchestrator) {
		o.onChange = fn
	}
}

// WithClock overrides the time source used for StartedAt/FinishedAt.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		o.now = now
	}
}

// NewOrchestrator creates a new Orchestrator.
func NewOrchestrator(state StateStore, ip IPResolver, geo GeoResolver, weather WeatherResolver, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		ip:       ip,
		geo:      geo,
		weather:  weather,
		state:    state,
		now:      time.Now,
		newRunID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run performs one full invocation and returns the terminal snapshot.
// It returns ErrInFlight without touching the state if a run is active.
func (o *Orchestrator) Run(ctx context.Context) (Snapshot, error) {
	started, err := o.begin()
	if err != nil {
		return o.Snapshot(), err
	}
	return o.execute(ctx, started.RunID), nil
}

// Trigger starts an invocation and returns as soon as the state has been
// reset. The chain keeps running after ctx is cancelled.
func (o *Orchestrator) Trigger(ctx context.Context) (Snapshot, error) {
	started, err := o.begin()
	if err != nil {
		return o.Snapshot(), err
	}
	go o.execute(context.WithoutCancel(ctx), started.RunID)
	return started, nil
}

// Snapshot returns a copy of the current state.
func (o *Orchestrator) Snapshot() Snapshot {
	return o.state.Snapshot()
}

// InFlight reports whether a run is currently active.
func (o *Orchestrator) InFlight() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.running
}

func (o *Orchestrator) begin() (Snapshot, error) {
	o.mu.Lock()
	if o.running {
		o.mu.Unlock()
		return Snapshot{}, ErrInFlight
	}
	o.running = true
	snap := o.state.Begin(o.newRunID(), o.now().UTC())
	o.mu.Unlock()

	log.Printf("INFO: run %s: started", snap.RunID)
	o.publish(snap)
	return snap, nil
}

func (o *Orchestrator) execute(ctx context.Context, runID string) Snapshot {
	w, err := o.resolve(ctx, runID)
	if err != nil {
		return o.fail(runID, err)
	}

	snap := o.state.Succeed(w, o.now().UTC())
	o.finish()
	log.Printf("INFO: run %s: succeeded (%s, %.1f°C)", runID, w.Description, w.TemperatureCelsius)
	o.publish(snap)
	return snap
}

// resolve runs the three stages in order. The first failing stage aborts the
// chain; the location is published before the weather stage starts.
func (o *Orchestrator) resolve(ctx context.Context, runID string) (w Weather, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic during lookup: %v", r)
		}
	}()

	ip, err := o.ip.ResolveIP(ctx)
	if err == nil && ip == "" {
		err = NetworkError(StageIP, errors.New("empty ip address"))
	}
	if err != nil {
		return Weather{}, err
	}
	log.Printf("DEBUG: run %s: resolved ip %s", runID, ip)

	loc, err := o.geo.ResolveLocation(ctx, ip)
	if err != nil {
		return Weather{}, err
	}
	log.Printf("DEBUG: run %s: resolved location %s", runID, loc.Query())
	o.publish(o.state.SetLocation(loc))

	return o.weather.ResolveWeather(ctx, loc)
}

func (o *Orchestrator) fail(runID string, err error) Snapshot {
	msg := UserMessage(err)
	snap := o.state.Fail(msg, o.now().UTC())
	o.finish()
	log.Printf("ERROR: run %s: failed: %v", runID, err)
	o.publish(snap)
	return snap
}

func (o *Orchestrator) finish() {
	o.mu.Lock()
	o.running = false
	o.mu.Unlock()
}

func (o *Orchestrator) publish(snap Snapshot) {
	if o.onChange != nil {
		o.onChange(snap.Clone())
	}
}
