package cba

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfirmModal_ConfirmRunsContinuation(t *testing.T) {
	tree := NewTree()
	view := NewNode(KindGroup, "note-view")
	var got string
	view.Handle("delete_note", func(c *Context) error {
		got = c.Event.Value
		c.Tree.Refresh("note-view")
		return nil
	})
	require.NoError(t, tree.Add(RootID, view))
	require.NoError(t, tree.Add("note-view", NewConfirmModal("modal", "Really?", "delete_note", "delete-note-7")))

	d := NewDispatcher(nil, nil)
	patch, err := d.Dispatch(NewContext(context.Background(), tree, NewMapState(), nil, Event{ComponentID: "modal-confirm", Name: "click"}))
	require.NoError(t, err)

	assert.Equal(t, "delete-note-7", got)
	_, ok := tree.Find("modal")
	assert.False(t, ok, "modal is removed after confirm")
	assert.Empty(t, patch.Remove, "covered by the refreshed parent")
	require.Len(t, patch.Refresh, 1)
	assert.NotContains(t, patch.Refresh[0].HTML, "Really?")
}

func TestConfirmModal_DeclineOnlyRemoves(t *testing.T) {
	tree := NewTree()
	view := NewNode(KindGroup, "note-view")
	called := false
	view.Handle("delete_note", func(c *Context) error {
		called = true
		return nil
	})
	require.NoError(t, tree.Add(RootID, view))
	require.NoError(t, tree.Add("note-view", NewConfirmModal("modal", "Really?", "delete_note", "7")))

	d := NewDispatcher(nil, nil)
	patch, err := d.Dispatch(NewContext(context.Background(), tree, NewMapState(), nil, Event{ComponentID: "modal-decline", Name: "click"}))
	require.NoError(t, err)

	assert.False(t, called)
	assert.Equal(t, []string{"modal"}, patch.Remove)
	assert.Empty(t, patch.Refresh)
}

func TestModal_Close(t *testing.T) {
	tree := NewTree()
	require.NoError(t, tree.Add(RootID, NewModal("about-us", "About us", NewNode(KindText, "").WithText("hello"))))

	html, err := tree.Render("about-us")
	require.NoError(t, err)
	assert.Contains(t, string(html), "About us")
	assert.Contains(t, string(html), "hello")

	d := NewDispatcher(nil, nil)
	patch, err := d.Dispatch(NewContext(context.Background(), tree, NewMapState(), nil, Event{ComponentID: "about-us-decline", Name: "click"}))
	require.NoError(t, err)
	assert.Equal(t, []string{"about-us"}, patch.Remove)
}
