package dummy

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/devaccess/devaccess-go/pkg/trace"
	"github.com/devaccess/devaccess-go/pkg/transfer"
	"github.com/devaccess/devaccess-go/pkg/version"
)

// ErrDeviceClosed is returned by transfers on a closed device.
var ErrDeviceClosed = errors.New("device closed")

// Option configures a Device.
type Option func(*Device)

// WithLogger sets the logger for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Device) { d.logger = logger }
}

// WithTrace sets the trace logger receiving one event per trigger.
func WithTrace(logger trace.Logger) Option {
	return func(d *Device) { d.trace = trace.NewRecorder(logger, trace.ComponentDevice) }
}

// WithQueueLength sets the read queue length of push-type accessors.
func WithQueueLength(n int) Option {
	return func(d *Device) { d.queueLength = n }
}

type register struct {
	info RegisterInfo

	mu    sync.Mutex
	words []int32

	reads       *xsync.Counter
	writes      *xsync.Counter
	subscribers *xsync.MapOf[transfer.ID, *transfer.Queue[[]int32]]
}

func (r *register) load(dst []int32, offset int) {
	r.mu.Lock()
	copy(dst, r.words[offset:])
	r.mu.Unlock()
}

func (r *register) store(src []int32, offset int) {
	r.mu.Lock()
	copy(r.words[offset:], src)
	r.mu.Unlock()
}

func (r *register) snapshot() []int32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int32(nil), r.words...)
}

// Device is a simulated device. It is safe for concurrent use; the
// accessors opened on it are not.
type Device struct {
	name      string
	registers map[string]*register
	order     []string
	closed    atomic.Bool

	queueLength int
	logger      *slog.Logger
	trace       *trace.Recorder
}

// NewDevice creates a device with the registers of m, all words zero.
func NewDevice(m *Map, opts ...Option) *Device {
	d := &Device{
		name:      m.Device,
		registers: make(map[string]*register, len(m.Registers)),
	}
	for _, opt := range opts {
		opt(d)
	}
	for _, info := range m.Registers {
		d.registers[info.Name] = &register{
			info:        info,
			words:       make([]int32, info.Words),
			reads:       xsync.NewCounter(),
			writes:      xsync.NewCounter(),
			subscribers: xsync.NewMapOf[transfer.ID, *transfer.Queue[[]int32]](),
		}
		d.order = append(d.order, info.Name)
	}
	return d
}

// Open loads a register map file and creates a device from it.
func Open(path string, opts ...Option) (*Device, error) {
	m, err := LoadMap(path)
	if err != nil {
		return nil, err
	}
	return NewDevice(m, opts...), nil
}

// Name returns the device name of the map.
func (d *Device) Name() string { return d.name }

// Registers returns the register descriptions in map order.
func (d *Device) Registers() []RegisterInfo {
	out := make([]RegisterInfo, 0, len(d.order))
	for _, name := range d.order {
		out = append(out, d.registers[name].info)
	}
	return out
}

func (d *Device) register(name string) (*register, error) {
	r, ok := d.registers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRegister, name)
	}
	return r, nil
}

// SetWords overwrites the register content from the device side without
// notifying push-type accessors.
func (d *Device) SetWords(name string, words ...int32) error {
	r, err := d.register(name)
	if err != nil {
		return err
	}
	if len(words) > len(r.words) {
		return fmt.Errorf("register %q holds %d words, got %d", name, len(r.words), len(words))
	}
	r.store(words, 0)
	return nil
}

// Words returns a copy of the register content.
func (d *Device) Words(name string) ([]int32, error) {
	r, err := d.register(name)
	if err != nil {
		return nil, err
	}
	return r.snapshot(), nil
}

// Trigger delivers the current content of a push register to every
// push-type accessor on it, tagged with a new version number.
func (d *Device) Trigger(name string) (version.Number, error) {
	return d.TriggerWithVersion(name, version.Next())
}

// TriggerWithVersion is Trigger with a caller-chosen version number. Use it
// to deliver values of several registers as one generation.
func (d *Device) TriggerWithVersion(name string, v version.Number) (version.Number, error) {
	if d.closed.Load() {
		return version.Number{}, ErrDeviceClosed
	}
	r, err := d.register(name)
	if err != nil {
		return version.Number{}, err
	}
	if !r.info.Push {
		return version.Number{}, fmt.Errorf("register %q does not push", name)
	}
	words := r.snapshot()
	delivered := 0
	r.subscribers.Range(func(_ transfer.ID, q *transfer.Queue[[]int32]) bool {
		q.Push(append([]int32(nil), words...), v)
		delivered++
		return true
	})

	value, _ := v.Value()
	d.trace.Record(trace.Event{
		Category:    trace.CategoryTransfer,
		Op:          "trigger",
		ElementName: name,
		Version:     value,
		Elements:    delivered,
	}, nil)
	return v, nil
}

// Publish sets the register content and triggers it.
func (d *Device) Publish(name string, words ...int32) (version.Number, error) {
	if err := d.SetWords(name, words...); err != nil {
		return version.Number{}, err
	}
	return d.Trigger(name)
}

// ActivateAsyncRead sends the current content of every push register to
// its push-type accessors, so that each of them starts with an initial value.
func (d *Device) ActivateAsyncRead() error {
	v := version.Next()
	for _, name := range d.order {
		if !d.registers[name].info.Push {
			continue
		}
		if _, err := d.TriggerWithVersion(name, v); err != nil {
			return err
		}
	}
	d.debugLog("dummy: async read activated", "device", d.name)
	return nil
}

// ReadCount returns the number of physical reads of a register.
func (d *Device) ReadCount(name string) int64 {
	r, err := d.register(name)
	if err != nil {
		return 0
	}
	return r.reads.Value()
}

// WriteCount returns the number of physical writes of a register.
func (d *Device) WriteCount(name string) int64 {
	r, err := d.register(name)
	if err != nil {
		return 0
	}
	return r.writes.Value()
}

// Subscribers returns the number of push-type accessors on a register.
func (d *Device) Subscribers(name string) int {
	r, err := d.register(name)
	if err != nil {
		return 0
	}
	return r.subscribers.Size()
}

// Close closes the read queues of all push-type accessors. Blocked reads
// return and later transfers fail with ErrDeviceClosed.
func (d *Device) Close() error {
	if d.closed.Swap(true) {
		return nil
	}
	for _, r := range d.registers {
		r.subscribers.Range(func(id transfer.ID, q *transfer.Queue[[]int32]) bool {
			q.Close()
			r.subscribers.Delete(id)
			return true
		})
	}
	d.debugLog("dummy: closed", "device", d.name)
	return nil
}

// IsClosed reports whether Close was called.
func (d *Device) IsClosed() bool { return d.closed.Load() }

func (d *Device) debugLog(msg string, args ...any) {
	if d.logger != nil {
		d.logger.Debug(msg, args...)
	}
}
