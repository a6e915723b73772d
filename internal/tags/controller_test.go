package tags

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleUnassociatedCreatesLink(t *testing.T) {
	linker := newFakeLinker()
	c, n := newTestController(linker, Options{})
	c.Refresh(rowsFor("t1"))

	out, ok := c.Toggle(context.Background(), "t1")
	require.True(t, ok)
	assert.True(t, out.OK())
	assert.Equal(t, OpCreate, out.Op)

	tag, _ := c.Board().Get("t1")
	assert.True(t, tag.Associated)
	assert.False(t, tag.Locked)
	assert.Equal(t, StateAssociated, tag.State())
	assert.Empty(t, n.messages)
}

func TestToggleRemoveFailureRollsBack(t *testing.T) {
	linker := newFakeLinker("t2")
	linker.removeErr = &testFailure{"Not Found"}
	c, n := newTestController(linker, Options{})
	c.Refresh(rowsFor("t2"))
	require.NoError(t, c.Reconcile(context.Background()))

	out, ok := c.Toggle(context.Background(), "t2")
	require.True(t, ok)
	assert.False(t, out.OK())
	assert.Equal(t, OpRemove, out.Op)

	tag, _ := c.Board().Get("t2")
	assert.True(t, tag.Associated)
	assert.False(t, tag.Locked)
	require.Len(t, n.messages, 1)
	assert.Equal(t, "Not Found", n.messages[0])
}

func TestRapidClicksIssueOneRequest(t *testing.T) {
	linker := newFakeLinker()
	c, _ := newTestController(linker, Options{})
	c.Refresh(rowsFor("t3"))

	req, ok := c.Click("t3")
	require.True(t, ok)
	_, again := c.Click("t3")
	assert.False(t, again)

	tag, _ := c.Board().Get("t3")
	assert.True(t, tag.Locked)
	assert.Equal(t, StateAssociating, tag.State())

	c.Apply(req.Run(context.Background()))
	assert.Equal(t, 1, linker.count("create"))

	tag, _ = c.Board().Get("t3")
	assert.False(t, tag.Locked)
	assert.True(t, tag.Associated)
}

func TestLockedWhileInFlight(t *testing.T) {
	linker := newFakeLinker()
	linker.block = make(chan struct{})
	c, _ := newTestController(linker, Options{})
	c.Refresh(rowsFor("t1"))

	req, ok := c.Click("t1")
	require.True(t, ok)

	done := make(chan Outcome, 1)
	go func() { done <- req.Run(context.Background()) }()

	tag, _ := c.Board().Get("t1")
	assert.True(t, tag.Locked)
	assert.Equal(t, 0, linker.count("remove"))

	close(linker.block)
	c.Apply(<-done)

	tag, _ = c.Board().Get("t1")
	assert.False(t, tag.Locked)
}

func TestRoundTripRestoresState(t *testing.T) {
	linker := newFakeLinker()
	c, _ := newTestController(linker, Options{})
	c.Refresh(rowsFor("t1"))

	_, ok := c.Toggle(context.Background(), "t1")
	require.True(t, ok)
	_, ok = c.Toggle(context.Background(), "t1")
	require.True(t, ok)

	tag, _ := c.Board().Get("t1")
	assert.False(t, tag.Associated)
	assert.False(t, tag.Locked)
	assert.Equal(t, 1, linker.count("create"))
	assert.Equal(t, 1, linker.count("remove"))
}

func TestCreateFailureKeepsUnassociated(t *testing.T) {
	linker := newFakeLinker()
	linker.createErr = errNetwork
	c, n := newTestController(linker, Options{})
	c.Refresh(rowsFor("t1"))

	_, ok := c.Toggle(context.Background(), "t1")
	require.True(t, ok)

	tag, _ := c.Board().Get("t1")
	assert.False(t, tag.Associated)
	assert.False(t, tag.Locked)
	assert.Equal(t, []string{"network unreachable"}, n.messages)
}

func TestClickUnknownTagIgnored(t *testing.T) {
	linker := newFakeLinker()
	c, _ := newTestController(linker, Options{})
	c.Refresh(rowsFor("t1"))

	_, ok := c.Click("missing")
	assert.False(t, ok)
}

func TestDisabledControlPolicy(t *testing.T) {
	linker := newFakeLinker()

	c, _ := newTestController(linker, Options{Disabled: true})
	c.Refresh(rowsFor("t1"))
	_, ok := c.Click("t1")
	assert.False(t, ok)
	tag, _ := c.Board().Get("t1")
	assert.False(t, tag.Locked)

	c, _ = newTestController(linker, Options{Disabled: true, AllowClickWhenDisabled: true})
	c.Refresh(rowsFor("t1"))
	_, ok = c.Click("t1")
	assert.True(t, ok)
}

func TestStaleOutcomeDroppedAfterRefresh(t *testing.T) {
	linker := newFakeLinker()
	c, n := newTestController(linker, Options{})
	c.Refresh(rowsFor("t1"))

	req, ok := c.Click("t1")
	require.True(t, ok)
	c.Refresh(rowsFor("t1"))

	applied := c.Apply(req.Run(context.Background()))
	assert.False(t, applied)

	tag, _ := c.Board().Get("t1")
	assert.False(t, tag.Locked)
	assert.False(t, tag.Associated)
	assert.Empty(t, n.messages)
}

func TestStaleFailureDoesNotNotify(t *testing.T) {
	linker := newFakeLinker()
	linker.createErr = errNetwork
	c, n := newTestController(linker, Options{})
	c.Refresh(rowsFor("t1"))

	req, _ := c.Click("t1")
	c.Refresh(rowsFor("t2"))
	c.Apply(req.Run(context.Background()))

	assert.Empty(t, n.messages)
}

func TestRequestTimeoutReleasesLock(t *testing.T) {
	linker := newFakeLinker()
	linker.block = make(chan struct{})
	c, n := newTestController(linker, Options{RequestTimeout: 20 * time.Millisecond})
	c.Refresh(rowsFor("t1"))

	out, ok := c.Toggle(context.Background(), "t1")
	require.True(t, ok)
	require.Error(t, out.Err)
	assert.ErrorIs(t, out.Err, context.DeadlineExceeded)

	tag, _ := c.Board().Get("t1")
	assert.False(t, tag.Locked)
	assert.False(t, tag.Associated)
	require.Len(t, n.messages, 1)
	assert.Contains(t, n.messages[0], "timed out")
}

func TestDefaultRequestTimeout(t *testing.T) {
	c, _ := newTestController(newFakeLinker(), Options{})
	assert.Equal(t, DefaultRequestTimeout, c.Options().RequestTimeout)
}

func TestNilNotifierIsSafe(t *testing.T) {
	linker := newFakeLinker()
	linker.createErr = errNetwork
	c := NewController(testContext(), linker, nil, Options{})
	c.Refresh(rowsFor("t1"))

	assert.NotPanics(t, func() { c.Toggle(context.Background(), "t1") })
}

func TestOtherTagsStayClickableWhileOneIsLocked(t *testing.T) {
	linker := newFakeLinker()
	c, _ := newTestController(linker, Options{})
	c.Refresh(rowsFor("a", "b"))

	_, ok := c.Click("a")
	require.True(t, ok)
	_, ok = c.Click("b")
	assert.True(t, ok)
}

type testFailure struct{ msg string }

func (e *testFailure) Error() string { return e.msg }
