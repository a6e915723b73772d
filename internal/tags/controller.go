package tags

import (
	"context"
	"errors"
	"time"

	"github.com/golang/glog"
	"github.com/oklog/ulid/v2"
)

// DefaultRequestTimeout bounds every remote call so a tag cannot stay locked forever.
const DefaultRequestTimeout = 30 * time.Second

// Linker is the remote relationship store.
type Linker interface {
	CreateLink(ctx context.Context, rc RelationshipContext, relatedID string) error
	RemoveLink(ctx context.Context, rc RelationshipContext, relatedID string) error
	ListLinkedIDs(ctx context.Context, rc RelationshipContext) ([]string, error)
}

// Notifier surfaces a failure message to the user.
type Notifier interface {
	Notify(message string)
}

// NotifyFunc adapts a function to Notifier.
type NotifyFunc func(message string)

func (f NotifyFunc) Notify(message string) { f(message) }

// Options parameterizes the controller.
type Options struct {
	EnableSearch           bool
	AllowClickWhenDisabled bool
	Disabled               bool
	RequestTimeout         time.Duration
}

// Op is the mutation a request performs.
type Op int

const (
	OpCreate Op = iota
	OpRemove
)

func (o Op) String() string {
	if o == OpRemove {
		return "remove"
	}
	return "create"
}

// Controller drives the toggle state machine for one relationship context.
// Click, Apply, Refresh and ApplySweep belong on the event loop; Request.Run
// and Sweep.Run may run anywhere and never touch the board.
type Controller struct {
	rc       RelationshipContext
	linker   Linker
	notifier Notifier
	board    *Board
	opts     Options
}

// NewController builds a controller with an empty board.
func NewController(rc RelationshipContext, linker Linker, notifier Notifier, opts Options) *Controller {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = DefaultRequestTimeout
	}
	return &Controller{
		rc:       rc,
		linker:   linker,
		notifier: notifier,
		board:    NewBoard(),
		opts:     opts,
	}
}

// Board returns the live tag set.
func (c *Controller) Board() *Board { return c.board }

// Context returns the relationship context.
func (c *Controller) Context() RelationshipContext { return c.rc }

// Options returns the controller options.
func (c *Controller) Options() Options { return c.opts }

// Interactive reports whether clicks are accepted at all.
func (c *Controller) Interactive() bool {
	return !c.opts.Disabled || c.opts.AllowClickWhenDisabled
}

// Request is an accepted click waiting to be sent.
type Request struct {
	ID    string
	TagID string
	Op    Op

	gen     uint64
	rc      RelationshipContext
	linker  Linker
	timeout time.Duration
}

// Outcome is the result of a Request.
type Outcome struct {
	RequestID string
	TagID     string
	Op        Op
	Err       error

	gen uint64
}

// OK reports whether the mutation succeeded.
func (o Outcome) OK() bool { return o.Err == nil }

// Associated returns the association the tag has after a successful outcome.
func (o Outcome) Associated() bool { return o.Op == OpCreate }

// Click admits a toggle of the tag. It returns false, with no request and no
// signal, when the tag is locked, unknown, or clicks are disabled.
func (c *Controller) Click(id string) (*Request, bool) {
	if !c.Interactive() {
		return nil, false
	}
	pre, gen, ok := c.board.admit(id)
	if !ok {
		glog.V(2).Infof("click ignored: %s", id)
		return nil, false
	}
	op := OpCreate
	if pre.Associated {
		op = OpRemove
	}
	req := &Request{
		ID:      ulid.Make().String(),
		TagID:   pre.ID,
		Op:      op,
		gen:     gen,
		rc:      c.rc,
		linker:  c.linker,
		timeout: c.opts.RequestTimeout,
	}
	glog.V(1).Infof("[%s] %s link %s (gen %d)", req.ID, op, req.TagID, gen)
	return req, true
}

// Run sends the mutation and waits for it under the request timeout.
func (r *Request) Run(ctx context.Context) Outcome {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var err error
	switch r.Op {
	case OpRemove:
		err = r.linker.RemoveLink(ctx, r.rc, r.TagID)
	default:
		err = r.linker.CreateLink(ctx, r.rc, r.TagID)
	}
	if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		err = errTimeout{op: r.Op, cause: err}
	}
	return Outcome{RequestID: r.ID, TagID: r.TagID, Op: r.Op, Err: err, gen: r.gen}
}

// Apply settles an outcome on the board: unlocks the tag and flips its
// association on success, or keeps it and notifies on failure. Outcomes from
// a discarded generation are dropped. Returns whether the board changed.
func (c *Controller) Apply(o Outcome) bool {
	if !c.board.settle(o.gen, o.TagID, o.OK(), o.Associated()) {
		glog.V(1).Infof("[%s] stale outcome dropped for %s", o.RequestID, o.TagID)
		return false
	}
	if o.Err != nil {
		glog.Warningf("[%s] %s link %s failed: %v", o.RequestID, o.Op, o.TagID, o.Err)
		c.notify(o.Err.Error())
		return true
	}
	glog.V(1).Infof("[%s] %s link %s done", o.RequestID, o.Op, o.TagID)
	return true
}

// Toggle runs a whole click synchronously. Returns false if the click was ignored.
func (c *Controller) Toggle(ctx context.Context, id string) (Outcome, bool) {
	req, ok := c.Click(id)
	if !ok {
		return Outcome{}, false
	}
	out := req.Run(ctx)
	c.Apply(out)
	return out, true
}

func (c *Controller) notify(message string) {
	if c.notifier != nil {
		c.notifier.Notify(message)
	}
}

type errTimeout struct {
	op    Op
	cause error
}

func (e errTimeout) Error() string {
	return "request timed out: " + e.op.String() + " link"
}

func (e errTimeout) Unwrap() error { return e.cause }
