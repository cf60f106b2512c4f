package replay

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/louisbranch/swoq.bot/internal/game"
	"github.com/louisbranch/swoq.bot/internal/replay/storage"
	"github.com/louisbranch/swoq.bot/internal/transport/swoqpb"
	"google.golang.org/protobuf/encoding/protodelim"
	"google.golang.org/protobuf/proto"
)

const (
	defaultWriteTries    = 3
	defaultWriteInterval = 20 * time.Millisecond
	indexTimeout         = 2 * time.Second
)

// Metadata describes the game a replay is created for.
type Metadata struct {
	// UserName is written to the header and file name; empty falls back to
	// Request.UserName.
	UserName string
	Request  *game.StartRequest
	Response *game.StartResponse
	// Now is the start time of the game; zero means time.Now.
	Now time.Time
}

// Entry is one completed turn.
type Entry struct {
	Tick   int32
	Action game.Action
	Result game.ActResult
	State  *game.State
}

// Stats reports what a recorder wrote.
type Stats struct {
	Path        string
	Turns       int
	FailedTurns int
}

// Option configures a Recorder.
type Option func(*options)

type options struct {
	logf          func(string, ...any)
	index         storage.Index
	open          OpenFunc
	writeTries    uint
	writeInterval time.Duration
	now           func() time.Time
}

// WithLogf routes recorder diagnostics to logf.
func WithLogf(logf func(string, ...any)) Option {
	return func(o *options) {
		if logf != nil {
			o.logf = logf
		}
	}
}

// WithIndex writes a summary row to index when the recorder is finalized.
func WithIndex(index storage.Index) Option {
	return func(o *options) {
		o.index = index
	}
}

// WithOpenFunc overrides how the replay file is created.
func WithOpenFunc(open OpenFunc) Option {
	return func(o *options) {
		if open != nil {
			o.open = open
		}
	}
}

// WithWriteRetry sets how many times a turn write is attempted and the pause
// between attempts.
func WithWriteRetry(tries uint, interval time.Duration) Option {
	return func(o *options) {
		if tries > 0 {
			o.writeTries = tries
		}
		if interval >= 0 {
			o.writeInterval = interval
		}
	}
}

// WithClock overrides the clock used for the finish time.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// Recorder appends turns of one game to its replay file.
type Recorder struct {
	opts      options
	meta      Metadata
	path      string
	gameID    string
	startedAt time.Time

	sink   Sink
	offset int64

	mu     sync.Mutex
	queue  []Entry
	closed bool
	last   *Entry
	wake   chan struct{}
	done   chan struct{}

	turns    atomic.Int64
	failed   atomic.Int64
	closeErr error

	finalizeOnce sync.Once
	finalizeErr  error
}

// Create opens a new replay file in folder and writes the header frames.
func Create(folder string, meta Metadata, opts ...Option) (*Recorder, error) {
	o := options{
		logf:          log.Printf,
		open:          openExclusive,
		writeTries:    defaultWriteTries,
		writeInterval: defaultWriteInterval,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if meta.Request == nil || meta.Response == nil {
		return nil, fmt.Errorf("replay metadata requires start request and response")
	}
	if meta.Response.GameID == "" {
		return nil, fmt.Errorf("replay metadata requires a game id")
	}
	if meta.UserName == "" {
		meta.UserName = meta.Request.UserName
	}
	if meta.Now.IsZero() {
		meta.Now = o.now()
	}

	dir, err := filepath.Abs(folder)
	if err != nil {
		return nil, fmt.Errorf("resolve replay folder: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create replay folder: %w", err)
	}
	path := filepath.Join(dir, FileName(meta.UserName, meta.Now, meta.Response.GameID))
	sink, err := o.open(path)
	if err != nil {
		return nil, fmt.Errorf("create replay file: %w", err)
	}

	header, err := encodeFrames(
		swoqpb.EncodeReplayHeader(&game.ReplayHeader{UserName: meta.UserName, DateTime: meta.Now}),
		swoqpb.EncodeStartRequest(meta.Request),
		swoqpb.EncodeStartResponse(meta.Response),
	)
	if err == nil {
		_, err = sink.Write(header)
	}
	if err != nil {
		_ = sink.Close()
		_ = os.Remove(path)
		return nil, fmt.Errorf("write replay header: %w", err)
	}

	r := &Recorder{
		opts:      o,
		meta:      meta,
		path:      path,
		gameID:    meta.Response.GameID,
		startedAt: meta.Now,
		sink:      sink,
		offset:    int64(len(header)),
		wake:      make(chan struct{}, 1),
		done:      make(chan struct{}),
	}
	go r.run()
	return r, nil
}

// Path returns the replay file path.
func (r *Recorder) Path() string {
	if r == nil {
		return ""
	}
	return r.path
}

// Record queues a completed turn. It never waits on file I/O. Turns recorded
// after Finalize are dropped.
func (r *Recorder) Record(entry Entry) {
	if r == nil {
		return
	}
	entry.State = entry.State.Clone()

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		r.opts.logf("replay %s: dropped turn %d recorded after finalize", r.gameID, entry.Tick)
		return
	}
	r.queue = append(r.queue, entry)
	r.last = &entry
	r.mu.Unlock()

	select {
	case r.wake <- struct{}{}:
	default:
	}
}

// Stats returns the turns written and failed so far.
func (r *Recorder) Stats() Stats {
	if r == nil {
		return Stats{}
	}
	return Stats{
		Path:        r.path,
		Turns:       int(r.turns.Load()),
		FailedTurns: int(r.failed.Load()),
	}
}

// Finalize waits until every recorded turn has been written, closes the file
// and updates the index. Only the first call does work; later calls return
// its result.
func (r *Recorder) Finalize(ctx context.Context) error {
	if r == nil {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	r.finalizeOnce.Do(func() {
		r.finalizeErr = r.finalize(ctx)
	})
	return r.finalizeErr
}

func (r *Recorder) finalize(ctx context.Context) error {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
	select {
	case r.wake <- struct{}{}:
	default:
	}

	select {
	case <-r.done:
	case <-ctx.Done():
		return fmt.Errorf("finalize replay: %w", ctx.Err())
	}

	stats := r.Stats()
	if stats.FailedTurns > 0 {
		r.opts.logf("replay %s: %d of %d turns could not be written", r.gameID, stats.FailedTurns, stats.FailedTurns+stats.Turns)
	}

	var errs []error
	if r.closeErr != nil {
		errs = append(errs, fmt.Errorf("close replay: %w", r.closeErr))
	}
	if r.opts.index != nil {
		if err := r.writeIndex(ctx, stats); err != nil {
			errs = append(errs, fmt.Errorf("index replay: %w", err))
		}
	}
	return errors.Join(errs...)
}

func (r *Recorder) writeIndex(ctx context.Context, stats Stats) error {
	record := storage.GameRecord{
		GameID:      r.gameID,
		UserName:    r.meta.UserName,
		FilePath:    r.path,
		Turns:       stats.Turns,
		FailedTurns: stats.FailedTurns,
		StartedAt:   r.startedAt,
		FinishedAt:  r.opts.now(),
		Seed:        r.meta.Response.Seed,
	}
	if record.Seed == nil {
		record.Seed = r.meta.Request.Seed
	}
	state := r.meta.Response.State
	r.mu.Lock()
	if r.last != nil && r.last.State != nil {
		state = r.last.State
	}
	r.mu.Unlock()
	if state != nil {
		record.Level = state.Level
		record.FinalTick = state.Tick
		record.FinalStatus = state.Status
	} else if r.meta.Request.Level != nil {
		record.Level = *r.meta.Request.Level
	}

	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()
	return r.opts.index.PutGame(ctx, record)
}

func (r *Recorder) run() {
	defer close(r.done)
	for {
		r.mu.Lock()
		batch := r.queue
		r.queue = nil
		closed := r.closed
		r.mu.Unlock()

		for _, entry := range batch {
			if err := r.write(entry); err != nil {
				r.failed.Add(1)
				r.opts.logf("replay %s: write turn %d: %v", r.gameID, entry.Tick, err)
				continue
			}
			r.turns.Add(1)
		}
		if len(batch) > 0 {
			continue
		}
		if closed {
			break
		}
		<-r.wake
	}

	if err := r.sink.Sync(); err != nil {
		r.closeErr = err
	}
	if err := r.sink.Close(); err != nil && r.closeErr == nil {
		r.closeErr = err
	}
}

// write appends the frame pair of one turn. A failed attempt is rolled back
// to the last good offset so the file only ever holds whole turns.
func (r *Recorder) write(entry Entry) error {
	frames, err := encodeFrames(
		swoqpb.EncodeActRequest(&game.ActRequest{GameID: r.gameID, Action: entry.Action}),
		swoqpb.EncodeActResponse(&game.ActResponse{Result: entry.Result, State: entry.State}),
	)
	if err != nil {
		return err
	}

	attempt := func() (struct{}, error) {
		n, err := r.sink.Write(frames)
		if err == nil && n == len(frames) {
			r.offset += int64(n)
			return struct{}{}, nil
		}
		if err == nil {
			err = io.ErrShortWrite
		}
		if rollbackErr := r.rollback(); rollbackErr != nil {
			return struct{}{}, backoff.Permanent(errors.Join(err, rollbackErr))
		}
		return struct{}{}, err
	}
	_, err = backoff.Retry(context.Background(), attempt,
		backoff.WithBackOff(backoff.NewConstantBackOff(r.opts.writeInterval)),
		backoff.WithMaxTries(r.opts.writeTries),
	)
	return err
}

func (r *Recorder) rollback() error {
	if err := r.sink.Truncate(r.offset); err != nil {
		return fmt.Errorf("truncate: %w", err)
	}
	if _, err := r.sink.Seek(r.offset, io.SeekStart); err != nil {
		return fmt.Errorf("seek: %w", err)
	}
	return nil
}

func encodeFrames(msgs ...proto.Message) ([]byte, error) {
	var buf bytes.Buffer
	for _, msg := range msgs {
		if _, err := protodelim.MarshalTo(&buf, msg); err != nil {
			return nil, fmt.Errorf("encode frame: %w", err)
		}
	}
	return buf.Bytes(), nil
}
