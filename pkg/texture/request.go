// Package texture implements the bounded-concurrency texture download
// pipeline: admission control, progressive reassembly, retry/timeout,
// cache integration and progress callbacks (§4.4 "Texture Pipeline").
package texture

import (
	"sync"
	"time"

	"github.com/runZeroInc/lludp/pkg/frame"
	"github.com/runZeroInc/lludp/pkg/wire"
)

// State is a TextureRequest's lifecycle stage (§3 "state"). Transitions are
// monotone: Pending -> Started -> InProgress -> a terminal state; terminal
// states are sinks (§3 I2).
type State int

const (
	StatePending State = iota
	StateStarted
	StateInProgress
	StateFinished
	StateTimeout
	StateAborted
	StateNotFound
)

func (s State) Terminal() bool {
	switch s {
	case StateFinished, StateTimeout, StateAborted, StateNotFound:
		return true
	default:
		return false
	}
}

// Result is what a Sink receives: a terminal state (or, if Progressive,
// zero or more intermediate states) plus whatever bytes have accumulated
// so far (§3 "callbacks: ordered sequence of completion sinks").
type Result struct {
	State       State
	Transferred uint32
	Total       uint32
	Data        []byte
}

// Sink receives Result values for one TextureRequest, in order: zero or
// more Progress results followed by exactly one terminal result (§5
// "Ordering guarantees").
type Sink func(Result)

// cancelSignal is a one-shot, idempotent-to-fire wakeup (§5 "Cancellation
// semantics"). Workers treat a wakeup as "re-check state", never as a
// completion in itself.
type cancelSignal struct {
	once sync.Once
	ch   chan struct{}
}

func newCancelSignal() *cancelSignal {
	return &cancelSignal{ch: make(chan struct{})}
}

func (c *cancelSignal) Fire() {
	c.once.Do(func() { close(c.ch) })
}

func (c *cancelSignal) C() <-chan struct{} { return c.ch }

// TransferBuffer is the reassembly state for a multi-packet asset (§3
// "TransferBuffer").
type TransferBuffer struct {
	mu sync.Mutex

	TotalSize        uint32
	Codec            frame.ImageCodec
	PacketCount      uint16
	InitialChunkSize uint32
	Data             []byte
	Transferred      uint32
	PacketsSeen      map[uint16]struct{}
	Success          bool

	headerArrived chan struct{}
	headerOnce    sync.Once
}

func newTransferBuffer() *TransferBuffer {
	return &TransferBuffer{
		PacketsSeen:   make(map[uint16]struct{}),
		headerArrived: make(chan struct{}),
	}
}

func (t *TransferBuffer) signalHeaderArrived() {
	t.headerOnce.Do(func() { close(t.headerArrived) })
}

// WaitHeader blocks until the header packet has arrived or timeout
// elapses, returning false on timeout (§4.4 "BodyPacket... wait up to 5s
// on header_arrived").
func (t *TransferBuffer) WaitHeader(timeout time.Duration) bool {
	select {
	case <-t.headerArrived:
		return true
	case <-time.After(timeout):
		return false
	}
}

// bodyOffset returns the byte range body packet index occupies within
// Data (§3 I5): packet 0 is the header; body packet N (1-indexed) occupies
// [InitialChunkSize + 1000*(N-1), InitialChunkSize + 1000*(N-1) + len).
func (t *TransferBuffer) bodyOffset(index uint16) int {
	return int(t.InitialChunkSize) + 1000*(int(index)-1)
}

// firstGap returns the lowest packet index not yet present in PacketsSeen
// (§4.4 "resume_packet = first gap in packets_seen"), used both for the
// initial RequestImage (nothing seen yet, PacketCount unknown: returns 0)
// and for the refresh sweep's re-request after a stall.
func (t *TransferBuffer) firstGap() uint32 {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.PacketCount == 0 {
		return 0
	}
	for i := uint16(0); i < t.PacketCount; i++ {
		if _, seen := t.PacketsSeen[i]; !seen {
			return uint32(i)
		}
	}
	return uint32(t.PacketCount)
}

// Request is the unit of work in the texture pipeline (§3 "TextureRequest").
type Request struct {
	mu sync.Mutex

	AssetID      wire.AssetId
	State        State
	Kind         frame.ImageKind
	Priority     float32
	DiscardLevel int8
	Progressive  bool
	Callbacks    []Sink

	Transfer *TransferBuffer

	Cancel       *cancelSignal
	StartedAt    time.Time
	LastPacketAt time.Time

	// Done is closed exactly once, by Pipeline.finalize, when the request
	// reaches a terminal state. A worker blocks on it to know when to
	// release its admission slot (§4.4 "Admission... a slot is held until
	// the request reaches a terminal state").
	Done chan struct{}
}

// NewRequest constructs a Pending request (§4.4 "Admission: otherwise
// insert a new Pending request into the registry").
func NewRequest(id wire.AssetId, kind frame.ImageKind, priority float32, discard int8, progressive bool, sink Sink) *Request {
	return &Request{
		AssetID:      id,
		State:        StatePending,
		Kind:         kind,
		Priority:     priority,
		DiscardLevel: discard,
		Progressive:  progressive,
		Callbacks:    []Sink{sink},
		Transfer:     newTransferBuffer(),
		Cancel:       newCancelSignal(),
		Done:         make(chan struct{}),
	}
}

// AddCallback appends sink to the callback list, coalescing a late
// concurrent submission into the existing request (§3 I1).
func (r *Request) AddCallback(sink Sink) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Callbacks = append(r.Callbacks, sink)
}

// SetPriority updates the stored priority without re-issuing a request; the
// scheduler re-issues on its own cadence (§4.4 "Coalesce... A repeat call
// with a different priority updates the stored priority but does not
// re-issue until the scheduler acts").
func (r *Request) SetPriority(p float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Priority = p
}

// fireCallbacks invokes every registered sink with result, catching and
// discarding any panic from an individual callback so the rest still run
// (§4.4 "exceptions from any callback are caught and logged without
// aborting the others"). The caller supplies onPanic to log without this
// package depending on a particular logger.
func (r *Request) fireCallbacks(result Result, onPanic func(recovered any)) {
	r.mu.Lock()
	callbacks := make([]Sink, len(r.Callbacks))
	copy(callbacks, r.Callbacks)
	r.mu.Unlock()

	for _, cb := range callbacks {
		func() {
			defer func() {
				if rec := recover(); rec != nil && onPanic != nil {
					onPanic(rec)
				}
			}()
			cb(result)
		}()
	}
}
