package hdrw

import (
	"context"
	"fmt"
	"os"
	"sync"
)

// State tracks an image through its lifecycle.
type State int

const (
	StateCreated State = iota
	StateLoading
	StateLoaded
	StateDecoding
	StateDOSDecoded
	StateComplete
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateDecoding:
		return "decoding"
	case StateDOSDecoded:
		return "dos-header-decoded"
	case StateComplete:
		return "complete"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("unknown (%d)", int(s))
	}
}

// Stage is a completion notification. Stages carry no payload; consumers
// read results off the image itself.
type Stage int

const (
	StageLoaded Stage = iota
	StageDOSDecoded
	StageComplete
)

func (s Stage) String() string {
	switch s {
	case StageLoaded:
		return "loaded"
	case StageDOSDecoded:
		return "dos-header-decoded"
	case StageComplete:
		return "complete"
	default:
		return fmt.Sprintf("unknown (%d)", int(s))
	}
}

// Image owns the loaded buffer and the decoded header schemas of one file.
type Image struct {
	FileName string

	mu       sync.Mutex
	state    State
	data     []byte
	loadErr  error
	loadDone chan struct{}

	decodeMu  sync.Mutex
	decoded   bool
	decodeErr error
	dos       *Schema
	warnings  []string

	events     chan Stage
	closeEvent sync.Once
}

// Open begins loading the named file immediately. The read happens on a
// background goroutine; WaitLoaded or DecodeHeaders observe its outcome.
func Open(name string) *Image {
	img := &Image{
		FileName: name,
		state:    StateLoading,
		loadDone: make(chan struct{}),
		events:   make(chan Stage, 3),
	}
	go img.load()
	return img
}

// NewImage wraps an already materialized buffer; no I/O is performed.
// The buffer is copied so the image exclusively owns its bytes.
func NewImage(name string, data []byte) *Image {
	img := &Image{
		FileName: name,
		state:    StateLoaded,
		data:     append([]byte(nil), data...),
		loadDone: make(chan struct{}),
		events:   make(chan Stage, 3),
	}
	close(img.loadDone)
	img.events <- StageLoaded
	return img
}

func (img *Image) load() {
	data, err := os.ReadFile(img.FileName)

	img.mu.Lock()
	if err != nil {
		img.loadErr = fmt.Errorf("%w: %v", ErrLoadFailed, err)
		img.state = StateFailed
	} else {
		img.data = data
		img.state = StateLoaded
	}
	img.mu.Unlock()

	if err == nil {
		img.events <- StageLoaded
	} else {
		// nothing further will be emitted, unblock any range over Events
		img.closeEvents()
	}
	close(img.loadDone)
}

func (img *Image) closeEvents() {
	img.closeEvent.Do(func() { close(img.events) })
}

// WaitLoaded blocks until the buffer is fully loaded or the context is
// canceled. A failed load is reported to every caller, not just the first.
func (img *Image) WaitLoaded(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-img.loadDone:
	}
	img.mu.Lock()
	defer img.mu.Unlock()
	return img.loadErr
}

// DecodeHeaders waits for the load to finish, then decodes the DOS header
// from the buffer. strict turns a bad e_magic into a hard error instead of
// a warning. Calling DecodeHeaders again after completion is a no-op
// returning the cached outcome; the policy of the first call wins.
func (img *Image) DecodeHeaders(ctx context.Context, strict bool) (*Schema, error) {
	if err := img.WaitLoaded(ctx); err != nil {
		return nil, err
	}

	img.decodeMu.Lock()
	defer img.decodeMu.Unlock()
	if img.decoded {
		return img.dos, img.decodeErr
	}

	img.setState(StateDecoding)
	dos, err := NewDOSHeaderSchema().Decode(img.buffer(), 0)
	if err != nil {
		return nil, img.failDecode(err)
	}

	var warnings []string
	if magic := dos.Text("e_magic"); magic != DOSMagic {
		if strict {
			return nil, img.failDecode(fmt.Errorf("%w: e_magic is %q, want %q", ErrInvalidSignature, magic, DOSMagic))
		}
		warnings = append(warnings,
			fmt.Sprintf("e_magic is %q, want %q; offsets beyond the DOS header are unreliable", magic, DOSMagic))
	}

	img.mu.Lock()
	img.decoded = true
	img.dos = dos
	img.warnings = warnings
	img.state = StateDOSDecoded
	img.mu.Unlock()
	img.events <- StageDOSDecoded

	img.setState(StateComplete)
	img.events <- StageComplete
	img.closeEvents()
	return dos, nil
}

func (img *Image) failDecode(err error) error {
	img.mu.Lock()
	img.decoded = true
	img.decodeErr = err
	img.state = StateFailed
	img.mu.Unlock()
	img.closeEvents()
	return err
}

func (img *Image) setState(s State) {
	img.mu.Lock()
	img.state = s
	img.mu.Unlock()
}

func (img *Image) buffer() []byte {
	img.mu.Lock()
	defer img.mu.Unlock()
	return img.data
}

// Events delivers stage notifications in order. The channel is buffered so
// stages never block, and is closed once the image is complete or failed.
func (img *Image) Events() <-chan Stage {
	return img.events
}

// State returns the current lifecycle state.
func (img *Image) State() State {
	img.mu.Lock()
	defer img.mu.Unlock()
	return img.state
}

// DOSHeader returns the decoded DOS header schema, or nil before decoding.
func (img *Image) DOSHeader() *Schema {
	img.mu.Lock()
	defer img.mu.Unlock()
	return img.dos
}

// Warnings returns non-fatal findings recorded during decoding.
func (img *Image) Warnings() []string {
	img.mu.Lock()
	defer img.mu.Unlock()
	return img.warnings
}

// Data returns the loaded buffer, or nil before loading completes.
// Callers must treat it as read-only.
func (img *Image) Data() []byte {
	return img.buffer()
}
