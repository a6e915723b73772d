package tags

import (
	"context"
	"errors"
	"time"

	"github.com/golang/glog"
	"github.com/oklog/ulid/v2"
)

// Sweep is a pending membership query bound to one board generation.
type Sweep struct {
	ID string

	gen     uint64
	rc      RelationshipContext
	linker  Linker
	timeout time.Duration
}

// SweepResult is the membership returned by a Sweep.
type SweepResult struct {
	SweepID string
	Linked  []string
	Err     error

	gen uint64
}

// Refresh discards the current tags, rebuilds them from rows, and returns the
// reconciliation sweep for the new generation. The caller runs the sweep
// without blocking rendering.
func (c *Controller) Refresh(rows []Row) *Sweep {
	gen := c.board.Reset(rows)
	glog.V(1).Infof("refresh: %d tags (gen %d)", c.board.Len(), gen)
	return c.sweep(gen)
}

// NewSweep returns a sweep for the current generation.
func (c *Controller) NewSweep() *Sweep {
	return c.sweep(c.board.Generation())
}

func (c *Controller) sweep(gen uint64) *Sweep {
	return &Sweep{
		ID:      ulid.Make().String(),
		gen:     gen,
		rc:      c.rc,
		linker:  c.linker,
		timeout: c.opts.RequestTimeout,
	}
}

// Run queries the store for the ids currently linked to the host record.
func (s *Sweep) Run(ctx context.Context) SweepResult {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	linked, err := s.linker.ListLinkedIDs(ctx, s.rc)
	if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		err = errSweepTimeout{cause: err}
	}
	return SweepResult{SweepID: s.ID, Linked: linked, Err: err, gen: s.gen}
}

// ApplySweep marks every tag in the result as associated. On failure the
// user is notified and every tag stays as it is. Results from a discarded
// generation are dropped. Returns whether the board was updated.
func (c *Controller) ApplySweep(res SweepResult) bool {
	if res.gen != c.board.Generation() {
		glog.V(1).Infof("[%s] stale sweep dropped", res.SweepID)
		return false
	}
	if res.Err != nil {
		glog.Warningf("[%s] list links failed: %v", res.SweepID, res.Err)
		c.notify(res.Err.Error())
		return false
	}
	linked := make(map[string]struct{}, len(res.Linked))
	for _, id := range res.Linked {
		linked[NormalizeID(id)] = struct{}{}
	}
	n, ok := c.board.markLinked(res.gen, linked)
	if ok {
		glog.V(1).Infof("[%s] %d of %d linked ids on board", res.SweepID, n, len(linked))
	}
	return ok
}

// Reconcile runs a sweep of the current generation synchronously.
func (c *Controller) Reconcile(ctx context.Context) error {
	res := c.NewSweep().Run(ctx)
	c.ApplySweep(res)
	return res.Err
}

type errSweepTimeout struct{ cause error }

func (e errSweepTimeout) Error() string { return "request timed out: list links" }

func (e errSweepTimeout) Unwrap() error { return e.cause }
