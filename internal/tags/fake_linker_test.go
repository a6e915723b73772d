package tags

import (
	"context"
	"errors"
	"sync"
)

type linkCall struct {
	op string
	id string
}

// fakeLinker records calls and answers from per-op error scripts.
type fakeLinker struct {
	mu        sync.Mutex
	calls     []linkCall
	linked    map[string]bool
	createErr error
	removeErr error
	listErr   error
	block     chan struct{}
}

func newFakeLinker(linked ...string) *fakeLinker {
	f := &fakeLinker{linked: map[string]bool{}}
	for _, id := range linked {
		f.linked[id] = true
	}
	return f
}

func (f *fakeLinker) wait(ctx context.Context) error {
	if f.block == nil {
		return nil
	}
	select {
	case <-f.block:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *fakeLinker) CreateLink(ctx context.Context, _ RelationshipContext, id string) error {
	f.record("create", id)
	if err := f.wait(ctx); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.linked[id] = true
	return nil
}

func (f *fakeLinker) RemoveLink(ctx context.Context, _ RelationshipContext, id string) error {
	f.record("remove", id)
	if err := f.wait(ctx); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.removeErr != nil {
		return f.removeErr
	}
	delete(f.linked, id)
	return nil
}

func (f *fakeLinker) ListLinkedIDs(ctx context.Context, _ RelationshipContext) ([]string, error) {
	f.record("list", "")
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	ids := make([]string, 0, len(f.linked))
	for id := range f.linked {
		ids = append(ids, id)
	}
	return ids, nil
}

func (f *fakeLinker) record(op, id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, linkCall{op: op, id: id})
}

func (f *fakeLinker) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c.op == op {
			n++
		}
	}
	return n
}

type notifications struct {
	messages []string
}

func (n *notifications) Notify(message string) {
	n.messages = append(n.messages, message)
}

var errNetwork = errors.New("network unreachable")

func testContext() RelationshipContext {
	return RelationshipContext{
		HostEntity:    "account",
		HostSet:       "accounts",
		HostID:        "host-1",
		Relationship:  "nn_account_tag",
		RelatedEntity: "nn_tag",
		RelatedSet:    "nn_tags",
	}
}

func rowsFor(ids ...string) []Row {
	rows := make([]Row, len(ids))
	for i, id := range ids {
		rows[i] = Row{ID: id, Cells: []Cell{{Column: "nn_name", Value: "tag " + id}}}
	}
	return rows
}

func newTestController(linker Linker, opts Options) (*Controller, *notifications) {
	n := &notifications{}
	return NewController(testContext(), linker, n, opts), n
}
