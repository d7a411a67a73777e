package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/haierkeys/fast-note-web/internal/domain"
	"github.com/haierkeys/fast-note-web/pkg/code"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noteTitles(notes []*domain.Note) []string {
	out := make([]string, 0, len(notes))
	for _, n := range notes {
		out = append(out, n.Title)
	}
	return out
}

func TestNoteService_BrowseScenario(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	notes := seedNotes(t, s)
	x := tagID(t, s, "x")

	list, err := s.notes.List(ctx, domain.NoteFilter{TagID: x}, 0, -1)
	require.NoError(t, err)
	assert.Equal(t, []string{"Alpha", "Gamma"}, noteTitles(list))

	list, err = s.notes.List(ctx, domain.NoteFilter{TagID: x, Search: "mm"}, 0, -1)
	require.NoError(t, err)
	assert.Equal(t, []string{"Gamma"}, noteTitles(list))

	list, err = s.notes.List(ctx, domain.NoteFilter{Search: "mm"}, 0, -1)
	require.NoError(t, err)
	assert.Equal(t, []string{"Gamma"}, noteTitles(list))

	res, err := s.notes.Browse(ctx, &BrowseParams{TagID: x, CurrentID: notes["Beta"].ID})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Total)
	assert.Equal(t, notes["Alpha"].ID, res.CurrentID(), "current falls back to the first note")

	res, err = s.notes.Browse(ctx, &BrowseParams{TagID: x, CurrentID: notes["Gamma"].ID})
	require.NoError(t, err)
	assert.Equal(t, notes["Gamma"].ID, res.CurrentID())

	res, err = s.notes.Browse(ctx, &BrowseParams{Search: "nothing matches"})
	require.NoError(t, err)
	assert.Zero(t, res.Total)
	assert.Nil(t, res.Current)
	assert.Zero(t, res.CurrentID())
}

func TestNoteService_BrowseIsIdempotent(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	seedNotes(t, s)
	x := tagID(t, s, "x")
	y := tagID(t, s, "y")

	params := gopter.DefaultTestParameters()
	params.MinSuccessfulTests = 30
	properties := gopter.NewProperties(params)
	properties.Property("browsing twice with the resolved current id is stable", prop.ForAll(
		func(tag int64, search string, current int64) bool {
			first, err := s.notes.Browse(ctx, &BrowseParams{TagID: tag, Search: search, CurrentID: current})
			if err != nil {
				return false
			}
			second, err := s.notes.Browse(ctx, &BrowseParams{TagID: tag, Search: search, CurrentID: first.CurrentID()})
			if err != nil {
				return false
			}
			return first.CurrentID() == second.CurrentID() && assert.ObjectsAreEqual(first.IDs, second.IDs)
		},
		gen.OneConstOf(int64(0), x, y, int64(999)),
		gen.OneConstOf("", "a", "mm", "ph", "x", "zz"),
		gen.Int64Range(0, 5),
	))
	properties.TestingRun(t)
}

func TestNoteService_SaveRequiresLogin(t *testing.T) {
	s := newTestServices(t)
	_, err := s.notes.Save(context.Background(), 0, &NoteSaveParams{Title: "t", Text: "b"})
	assert.ErrorIs(t, err, code.ErrorNotLoggedIn)

	total, err := s.notes.Count(context.Background(), domain.NoteFilter{})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestNoteService_SaveReplacesTags(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	notes := seedNotes(t, s)

	alpha := notes["Alpha"]
	updated, err := s.notes.Save(ctx, 1, &NoteSaveParams{ID: alpha.ID, Title: "AlphaX", Text: alpha.Text, Tags: []string{"y", " new  tag "}})
	require.NoError(t, err)
	assert.Equal(t, "AlphaX", updated.Title)
	assert.Equal(t, []string{"new tag", "y"}, updated.TagNames())

	all, err := s.tags.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3, "tag rows are never deleted")

	_, err = s.notes.Save(ctx, 1, &NoteSaveParams{ID: 999, Title: "ghost", Text: "b"})
	assert.ErrorIs(t, err, code.ErrorNoteNotFound)
}

func TestNoteService_SaveStoresFilesAndDeleteRemovesThem(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()

	headers := newFileHeaders(t, "files", map[string][]byte{"cat.png": []byte("png-data")})
	note, err := s.notes.Save(ctx, 1, &NoteSaveParams{Title: "Pics", Text: "see", Files: headers})
	require.NoError(t, err)
	require.Len(t, note.Files, 1)
	f := note.Files[0]
	assert.Equal(t, "cat.png", f.Name)
	assert.Equal(t, "/files/"+f.Key, f.URL)

	blob := filepath.Join(s.saveDir, f.Key)
	data, err := os.ReadFile(blob)
	require.NoError(t, err)
	assert.Equal(t, "png-data", string(data))

	deleted, err := s.notes.Delete(ctx, note.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pics", deleted.Title)

	assert.Eventually(t, func() bool {
		_, err := os.Stat(blob)
		return os.IsNotExist(err)
	}, 2*time.Second, 20*time.Millisecond)

	_, err = s.notes.Delete(ctx, note.ID)
	assert.ErrorIs(t, err, code.ErrorNoteNotFound)
}

func TestNoteService_UploadTooLarge(t *testing.T) {
	s := newTestServices(t)
	headers := newFileHeaders(t, "files", map[string][]byte{"big.png": make([]byte, 2<<20)})
	_, err := s.files.Upload(context.Background(), 1, headers)
	assert.ErrorIs(t, err, code.ErrorFileTooLarge)
}

func TestRenderNoteDetail(t *testing.T) {
	html, err := RenderNoteDetail(&domain.Note{
		Title: "Gamma <b>",
		Text:  "# Head\n\n| a | b |\n|---|---|\n| 1 | 2 |\n\n<script>alert(1)</script>",
		Tags:  []domain.Tag{{Name: "x"}, {Name: "y"}},
		Files: []domain.File{{URL: "/files/a.png"}},
	})
	require.NoError(t, err)
	out := string(html)
	assert.Contains(t, out, "<h1>Gamma &lt;b&gt;</h1><p>x, y</p>")
	assert.Contains(t, out, "<table>")
	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, `<h2>Images</h2><img src="/files/a.png" width="100px">`)

	plain, err := RenderNoteDetail(&domain.Note{Title: "t", Text: "b"})
	require.NoError(t, err)
	assert.NotContains(t, string(plain), "Images")

	empty, err := RenderNoteDetail(nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
