package cba

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func searchTree(t *testing.T, handler HandlerFunc) *Tree {
	t.Helper()
	tree := NewTree()
	view := NewNode(KindGroup, "note-view").Append(
		NewNode(KindTextInput, "search").On("keyup", "handle_search"),
		NewNode(KindHTML, "note-detail"),
		NewNode(KindSelect, "tags").WithLabel("Tags"),
	)
	view.Handle("handle_search", handler)
	require.NoError(t, tree.Add(RootID, view))
	tags, _ := tree.Find("tags")
	tags.Multiple = true
	tags.Values = []string{"x"}
	return tree
}

func TestDispatch_AppliesValuesAndCallsAncestor(t *testing.T) {
	var seen string
	tree := searchTree(t, func(c *Context) error {
		seen = c.Event.Value
		c.State.Set("search", c.Event.Value)
		c.Tree.Refresh("note-detail")
		c.Info("searching")
		return nil
	})

	state := NewMapState()
	d := NewDispatcher(nil, nil)
	patch, err := d.Dispatch(NewContext(context.Background(), tree, state, nil, Event{
		ComponentID: "search",
		Name:        "keyup",
		Value:       "mm",
		Values:      map[string][]string{"search": {"mm"}, "tags": {}},
	}))
	require.NoError(t, err)

	assert.Equal(t, "mm", seen)
	assert.Equal(t, "mm", state.GetString("search"))
	search, _ := tree.Find("search")
	assert.Equal(t, "mm", search.Value)
	tags, _ := tree.Find("tags")
	assert.Empty(t, tags.Values, "an empty submission clears a multi select")

	require.Len(t, patch.Refresh, 1)
	assert.Equal(t, "note-detail", patch.Refresh[0].ID)
	assert.Equal(t, []Message{{Type: MessageInfo, Text: "searching"}}, patch.Messages)
	assert.Empty(t, tree.Dirty(), "dirty set is cleared after the patch")
}

func TestDispatch_Errors(t *testing.T) {
	tree := searchTree(t, func(c *Context) error { return nil })
	d := NewDispatcher(nil, nil)

	_, err := d.Dispatch(NewContext(context.Background(), tree, NewMapState(), nil, Event{ComponentID: "ghost", Name: "click"}))
	assert.ErrorIs(t, err, ErrComponentNotFound)

	_, err = d.Dispatch(NewContext(context.Background(), tree, NewMapState(), nil, Event{ComponentID: "search", Name: "click"}))
	assert.ErrorIs(t, err, ErrHandlerNotFound)

	detail, _ := tree.Find("note-detail")
	detail.On("click", "handle_edit_note")
	_, err = d.Dispatch(NewContext(context.Background(), tree, NewMapState(), nil, Event{ComponentID: "note-detail", Name: "click"}))
	assert.ErrorIs(t, err, ErrHandlerNotFound)
}

func TestDispatch_HandlerErrorAndPanic(t *testing.T) {
	boom := errors.New("boom")
	tree := searchTree(t, func(c *Context) error {
		c.Tree.Refresh("note-view")
		return boom
	})
	d := NewDispatcher(nil, nil)

	_, err := d.Dispatch(NewContext(context.Background(), tree, NewMapState(), nil, Event{ComponentID: "search", Name: "keyup"}))
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, tree.Dirty())

	tree = searchTree(t, func(c *Context) error { panic("bad handler") })
	_, err = d.Dispatch(NewContext(context.Background(), tree, NewMapState(), nil, Event{ComponentID: "search", Name: "keyup"}))
	assert.Error(t, err)
}

func TestDispatch_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	d := NewDispatcher(nil, m)
	tree := searchTree(t, func(c *Context) error { return nil })

	for i := 0; i < 3; i++ {
		_, err := d.Dispatch(NewContext(context.Background(), tree, NewMapState(), nil, Event{ComponentID: "search", Name: "keyup"}))
		require.NoError(t, err)
	}
	assert.Equal(t, float64(3), testutil.ToFloat64(m.events.WithLabelValues("handle_search", "ok")))
}

type fakeIdentity struct {
	uid  int64
	name string
}

func (f *fakeIdentity) UID() int64       { return f.uid }
func (f *fakeIdentity) Username() string { return f.name }
func (f *fakeIdentity) Login(uid int64, username string) {
	f.uid, f.name = uid, username
}
func (f *fakeIdentity) Logout() { f.uid, f.name = 0, "" }

func TestContext_Identity(t *testing.T) {
	c := NewContext(context.Background(), NewTree(), NewMapState(), nil, Event{})
	assert.False(t, c.IsAuthenticated())
	assert.Equal(t, int64(0), c.UID())

	id := &fakeIdentity{}
	c.Identity = id
	id.Login(7, "alice")
	assert.True(t, c.IsAuthenticated())
	assert.Equal(t, int64(7), c.UID())
}
