package cba

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_EscapesAndBindsEvents(t *testing.T) {
	tree := NewTree()
	require.NoError(t, tree.Add(RootID, NewNode(KindForm, "note-edit").Append(
		NewNode(KindTextInput, "title").WithLabel("Title").WithValue(`<script>x</script>`),
		NewNode(KindButton, "save").WithText("Save").On("click", "handle_save"),
	)))
	title, _ := tree.Find("title")
	title.Error = "Title is required!"

	html, err := tree.Render("note-edit")
	require.NoError(t, err)
	s := string(html)

	assert.Contains(t, s, `id="note-edit"`)
	assert.NotContains(t, s, "<script>x</script>")
	assert.Contains(t, s, "Title is required!")
	assert.Contains(t, s, `data-cba-input="title"`)
	assert.Contains(t, s, `data-cba-id="save" data-cba-events="click"`)
}

func TestRender_SelectMultiple(t *testing.T) {
	tree := NewTree()
	sel := NewNode(KindSelect, "tags")
	sel.Multiple = true
	sel.Options = []Option{{Value: "x", Label: "x"}, {Value: "y", Label: "y"}}
	sel.Values = []string{"y"}
	require.NoError(t, tree.Add(RootID, sel))

	html, err := tree.Render("tags")
	require.NoError(t, err)
	assert.Contains(t, string(html), `<option value="y" selected>`)
	assert.Contains(t, string(html), `<option value="x">`)
	assert.Contains(t, string(html), "multiple")
}

func TestRender_HTMLIsTrusted(t *testing.T) {
	tree := NewTree()
	require.NoError(t, tree.Add(RootID, NewNode(KindHTML, "note-detail").WithHTML("<h1>Alpha</h1>")))

	html, err := tree.Render("note-detail")
	require.NoError(t, err)
	assert.Contains(t, string(html), "<h1>Alpha</h1>")
}

func TestRenderPage(t *testing.T) {
	tree := NewTree()
	require.NoError(t, tree.Add(RootID, NewNode(KindHeading, "").WithText("Notes")))
	tree.RefreshAll()

	page, err := tree.RenderPage(Page{Title: "Notes", Endpoint: "/cba/event"})
	require.NoError(t, err)
	s := string(page)
	assert.Contains(t, s, "<!DOCTYPE html>")
	assert.Contains(t, s, `data-cba-endpoint="/cba/event"`)
	assert.Contains(t, s, `id="root"`)
	assert.Contains(t, s, "/static/cba.js")
	assert.Empty(t, tree.Dirty())
}

func TestRender_Unknown(t *testing.T) {
	tree := NewTree()
	_, err := tree.Render("nope")
	assert.ErrorIs(t, err, ErrComponentNotFound)
}

func TestRender_FileInputListsExisting(t *testing.T) {
	tree := NewTree()
	files := NewNode(KindFileInput, "files").WithLabel("Images")
	files.Existing = []Option{{Value: "/files/a.png", Label: "a.png"}}
	require.NoError(t, tree.Add(RootID, files))

	html, err := tree.Render("files")
	require.NoError(t, err)
	assert.Contains(t, string(html), `<a href="/files/a.png" target="_blank">a.png</a>`)
	assert.Contains(t, string(html), `data-cba-file="files"`)
}
