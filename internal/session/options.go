package session

import (
	"context"
	"log"
	"time"

	"github.com/louisbranch/swoq.bot/internal/game"
	platformgrpc "github.com/louisbranch/swoq.bot/internal/platform/grpc"
	"github.com/louisbranch/swoq.bot/internal/replay"
	"github.com/louisbranch/swoq.bot/internal/replay/storage"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	gogrpc "google.golang.org/grpc"
)

const tracerName = "github.com/louisbranch/swoq.bot/internal/session"

// Recorder receives the turns of one game.
type Recorder interface {
	Record(entry replay.Entry)
	Finalize(ctx context.Context) error
}

// RecorderFactory opens the recorder for a newly started game.
type RecorderFactory func(folder string, meta replay.Metadata) (Recorder, error)

// Turn describes one completed exchange, as seen by a turn observer.
type Turn struct {
	Tick   int32
	Action game.Action
	Result game.ActResult
	Status game.Status
}

// Option configures a Client and the games it starts.
type Option func(*options)

type options struct {
	logf        func(string, ...any)
	observer    func(Turn)
	recorders   RecorderFactory
	index       storage.Index
	dialer      platformgrpc.Dialer
	dialOptions []gogrpc.DialOption
	tracer      trace.Tracer
	now         func() time.Time
}

func newOptions(opts []Option) options {
	o := options{
		logf:   log.Printf,
		tracer: otel.Tracer(tracerName),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.recorders == nil {
		o.recorders = o.createReplay
	}
	return o
}

func (o options) createReplay(folder string, meta replay.Metadata) (Recorder, error) {
	replayOpts := []replay.Option{replay.WithLogf(o.logf), replay.WithClock(o.now)}
	if o.index != nil {
		replayOpts = append(replayOpts, replay.WithIndex(o.index))
	}
	rec, err := replay.Create(folder, meta, replayOpts...)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// WithLogf routes session diagnostics to logf.
func WithLogf(logf func(string, ...any)) Option {
	return func(o *options) {
		if logf != nil {
			o.logf = logf
		}
	}
}

// WithTurnObserver calls observe after every turn that produced a state.
// It runs on the goroutine calling Act.
func WithTurnObserver(observe func(Turn)) Option {
	return func(o *options) {
		o.observer = observe
	}
}

// WithRecorderFactory replaces the file recorder used when replays are on.
func WithRecorderFactory(factory RecorderFactory) Option {
	return func(o *options) {
		o.recorders = factory
	}
}

// WithReplayIndex records a summary of each finished replay in index.
func WithReplayIndex(index storage.Index) Option {
	return func(o *options) {
		o.index = index
	}
}

// WithDialer overrides how Connect dials the server.
func WithDialer(dialer platformgrpc.Dialer) Option {
	return func(o *options) {
		o.dialer = dialer
	}
}

// WithDialOptions appends gRPC dial options to the defaults.
func WithDialOptions(opts ...gogrpc.DialOption) Option {
	return func(o *options) {
		o.dialOptions = append(o.dialOptions, opts...)
	}
}

// WithTracer overrides the tracer used for Start and Act spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(o *options) {
		if tracer != nil {
			o.tracer = tracer
		}
	}
}

// WithClock overrides the clock used for replay timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}
