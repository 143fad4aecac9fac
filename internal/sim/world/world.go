// Package world owns the authoritative game state. All mutation happens
// on the single goroutine running Run; sessions, timers and observers
// talk to it through channels, so no partial state is ever visible.
package world

import (
	"log"
	"math/rand"
	"sync/atomic"
	"time"

	"botfield.ai/internal/observerproto"
	"botfield.ai/internal/protocol"
)

// Pos is a board coordinate used as a map key.
type Pos struct {
	X int
	Y int
}

// Bot is the full per-nickname entity record. Keeping everything in one
// record under one map makes a half-purged bot unrepresentable.
type Bot struct {
	Nickname    string
	Pos         Pos
	Energy      int
	Color       string
	Path        []protocol.Coord
	Remembered  []protocol.Coord
	StartTime   time.Time
	StartEnergy int
}

// Food occupies exactly one cell; consuming it grants Value energy.
type Food struct {
	Pos   Pos
	Value int
}

type Config struct {
	BoardW int
	BoardH int

	StartEnergy int
	FoodValue   int

	FoodTarget        int
	FoodInitial       int
	FoodPlaceAttempts int
	RegenEvery        time.Duration

	IdleCheckEvery time.Duration
	IdleResetAfter time.Duration
	IdleResetMax   time.Duration

	Seed int64

	Palette       []string
	FallbackColor string
	Symbols       map[string]string
}

// UpdateRequest carries one bot tick into the world loop. Resp must be
// buffered (capacity 1) so the loop never blocks on a gone session.
type UpdateRequest struct {
	Msg  protocol.UpdateMsg
	Resp chan UpdateResult
}

// UpdateResult is the loop's answer to one tick. Err is set for
// recoverable validation failures (session stays open); Dead means the
// terminal reply was sent and the session should close.
type UpdateResult struct {
	Err   string
	Reply protocol.TickReply
	Dead  bool

	mutated bool
}

// ObserverJoinRequest subscribes an observer. Out receives serialized
// snapshots; the first is sent during join handling.
type ObserverJoinRequest struct {
	ID  string
	Out chan []byte
}

type observerState struct {
	out chan []byte
}

// EventEntry is one line of the operational event log. It is a
// side-channel; failures to write never affect world state.
type EventEntry struct {
	Time     time.Time `json:"time"`
	Kind     string    `json:"kind"`
	Nickname string    `json:"nickname,omitempty"`
	Pos      *[2]int   `json:"pos,omitempty"`
	Energy   int       `json:"energy,omitempty"`
	Bots     int       `json:"bots"`
	Foods    int       `json:"foods"`
}

// Event kinds.
const (
	EventJoin  = "join"
	EventTick  = "tick"
	EventDeath = "death"
	EventRegen = "regen"
	EventReset = "reset"
)

type EventLogger interface {
	WriteEvent(EventEntry) error
}

type World struct {
	cfg Config
	log *log.Logger

	bots   map[string]*Bot
	foods  map[Pos]Food
	record observerproto.Record

	colorNext int
	rng       *rand.Rand

	lastActivity time.Time
	resetArmed   bool

	observers map[string]*observerState

	updates       chan UpdateRequest
	observerJoin  chan ObserverJoinRequest
	observerLeave chan string
	stop          chan struct{}

	recordSink chan<- observerproto.Record
	events     EventLogger

	now func() time.Time

	// Gauges for /metrics, updated by the loop.
	botsN      atomic.Int64
	foodsN     atomic.Int64
	observersN atomic.Int64
	ticksN     atomic.Uint64
}

func New(cfg Config, rec observerproto.Record, logger *log.Logger) *World {
	w := &World{
		cfg:    cfg,
		log:    logger,
		bots:   make(map[string]*Bot),
		foods:  make(map[Pos]Food),
		record: rec,

		rng: rand.New(rand.NewSource(cfg.Seed)),

		observers: make(map[string]*observerState),

		updates:       make(chan UpdateRequest, 64),
		observerJoin:  make(chan ObserverJoinRequest, 8),
		observerLeave: make(chan string, 8),
		stop:          make(chan struct{}),

		now: time.Now,
	}
	w.placeSeededFood(cfg.FoodInitial)
	w.syncGauges()
	return w
}

func (w *World) Config() Config { return w.cfg }

// Record returns the record as of world construction or the last update
// applied by the loop goroutine. Safe for the loop and for wiring code
// before Run; concurrent readers should use Metrics instead.
func (w *World) Record() observerproto.Record { return w.record }

// SetRecordSink installs the channel receiving record improvements.
// Call before Run. Persistence happens on the consumer side, off the
// loop's hot path.
func (w *World) SetRecordSink(ch chan<- observerproto.Record) { w.recordSink = ch }

// SetEventLogger installs the operational event logger. Call before Run.
func (w *World) SetEventLogger(l EventLogger) { w.events = l }

func (w *World) Updates() chan<- UpdateRequest            { return w.updates }
func (w *World) ObserverJoin() chan<- ObserverJoinRequest { return w.observerJoin }
func (w *World) ObserverLeave() chan<- string             { return w.observerLeave }

func (w *World) inBounds(p Pos) bool {
	return p.X >= 0 && p.X < w.cfg.BoardW && p.Y >= 0 && p.Y < w.cfg.BoardH
}

func (w *World) syncGauges() {
	w.botsN.Store(int64(len(w.bots)))
	w.foodsN.Store(int64(len(w.foods)))
	w.observersN.Store(int64(len(w.observers)))
}

func (w *World) logEvent(e EventEntry) {
	if w.events == nil {
		return
	}
	e.Bots = len(w.bots)
	e.Foods = len(w.foods)
	if e.Time.IsZero() {
		e.Time = w.now()
	}
	if err := w.events.WriteEvent(e); err != nil && w.log != nil {
		w.log.Printf("event log: %v", err)
	}
}
