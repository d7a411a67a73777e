package components

import (
	"context"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/haierkeys/fast-note-web/internal/dao"
	"github.com/haierkeys/fast-note-web/internal/domain"
	"github.com/haierkeys/fast-note-web/internal/service"
	"github.com/haierkeys/fast-note-web/internal/session"
	"github.com/haierkeys/fast-note-web/pkg/cba"
	"github.com/haierkeys/fast-note-web/pkg/limiter"
	"github.com/haierkeys/fast-note-web/pkg/storage"
	"github.com/haierkeys/fast-note-web/pkg/workerpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type harness struct {
	t          *testing.T
	comps      *Components
	notes      service.NoteService
	tags       service.TagService
	users      service.UserService
	sess       *session.Session
	dispatcher *cba.Dispatcher
}

func newHarness(t *testing.T, loginLimiter *limiter.KeyLimiter) *harness {
	t.Helper()
	dir := t.TempDir()
	db, err := dao.NewDBEngine(dao.Config{
		Type:         "sqlite",
		Path:         filepath.Join(dir, "test.sqlite3"),
		MaxIdleConns: 1,
		MaxOpenConns: 1,
	}, zap.NewNop())
	require.NoError(t, err)
	d := dao.New(db, true, zap.NewNop())

	storageCfg := &storage.Config{Type: storage.LOCAL, IsEnabled: true, SavePath: filepath.Join(dir, "uploads")}
	storager, err := storage.NewClient(context.Background(), storageCfg, zap.NewNop())
	require.NoError(t, err)
	pool := workerpool.New(&workerpool.Config{MaxWorkers: 1, QueueSize: 8}, zap.NewNop())
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = pool.Shutdown(ctx)
		_ = d.Close()
	})

	cfg := &service.ServiceConfig{App: service.AppServiceConfig{UploadMaxSize: 1 << 20}}
	tags := service.NewTagService(dao.NewTagRepository(d), zap.NewNop())
	files := service.NewFileService(dao.NewFileRepository(d), storager, storageCfg, pool, zap.NewNop(), cfg)
	notes := service.NewNoteService(dao.NewNoteRepository(d), tags, files, zap.NewNop())
	users := service.NewUserService(dao.NewUserRepository(d), zap.NewNop())

	comps := New(Deps{Notes: notes, Tags: tags, Users: users, LoginLimiter: loginLimiter, PageSize: 2})
	sess := session.NewManager(session.Config{}, zap.NewNop(), nil).Create()
	return &harness{
		t:          t,
		comps:      comps,
		notes:      notes,
		tags:       tags,
		users:      users,
		sess:       sess,
		dispatcher: cba.NewDispatcher(zap.NewNop(), nil),
	}
}

func (h *harness) mount() {
	h.t.Helper()
	require.NoError(h.t, h.comps.Mount(context.Background(), h.sess.Tree, h.sess.State, h.sess))
	h.sess.Tree.ResetDirty()
}

func (h *harness) fire(componentID, event string, values map[string][]string) *cba.Patch {
	h.t.Helper()
	c := cba.NewContext(context.Background(), h.sess.Tree, h.sess.State, h.sess, cba.Event{
		ComponentID: componentID,
		Name:        event,
		Values:      values,
	})
	c.ClientIP = "192.0.2.1"
	patch, err := h.dispatcher.Dispatch(c)
	require.NoError(h.t, err)
	return patch
}

func (h *harness) createUser(name, password string) *domain.User {
	h.t.Helper()
	u, err := h.users.Create(context.Background(), name, password)
	require.NoError(h.t, err)
	return u
}

// loggedIn creates alice, seeds Alpha(x), Beta(y), Gamma(x, y) and mounts an authenticated tree
func (h *harness) loggedIn() map[string]*domain.Note {
	h.t.Helper()
	u := h.createUser("alice", "secret1")
	out := make(map[string]*domain.Note)
	for _, p := range []service.NoteSaveParams{
		{Title: "Alpha", Text: "first", Tags: []string{"x"}},
		{Title: "Beta", Text: "second", Tags: []string{"y"}},
		{Title: "Gamma", Text: "third", Tags: []string{"x", "y"}},
	} {
		p := p
		n, err := h.notes.Save(context.Background(), u.UID, &p)
		require.NoError(h.t, err)
		out[n.Title] = n
	}
	h.sess.Login(u.UID, u.Username)
	h.mount()
	return out
}

func (h *harness) current() int64 {
	id, _ := h.sess.State.GetInt64(StateCurrentNoteID)
	return id
}

func (h *harness) has(id string) bool {
	_, ok := h.sess.Tree.Find(id)
	return ok
}

func (h *harness) node(id string) *cba.Node {
	h.t.Helper()
	n, ok := h.sess.Tree.Find(id)
	require.True(h.t, ok, "node %q", id)
	return n
}

func (h *harness) tagID(name string) int64 {
	h.t.Helper()
	ids, err := h.tags.Resolve(context.Background(), []string{name})
	require.NoError(h.t, err)
	return ids[0]
}

// rowIDs returns the note ids of the table rows on the current page
func (h *harness) rowIDs() []string {
	var out []string
	for _, row := range h.sess.Tree.Children(IDNotesTable) {
		if row.Kind == cba.KindTableRow {
			out = append(out, row.Value)
		}
	}
	return out
}

func fragmentIDs(p *cba.Patch) []string {
	out := make([]string, 0, len(p.Refresh))
	for _, f := range p.Refresh {
		out = append(out, f.ID)
	}
	return out
}

func messageTexts(p *cba.Patch) []string {
	out := make([]string, 0, len(p.Messages))
	for _, m := range p.Messages {
		out = append(out, m.Text)
	}
	return out
}

func idString(id int64) string {
	return strconv.FormatInt(id, 10)
}

func TestLogin(t *testing.T) {
	h := newHarness(t, nil)
	h.createUser("alice", "secret1")
	h.mount()
	require.True(t, h.has(IDLogin))
	assert.False(t, h.has(IDMainMenu))

	p := h.fire(IDLoginButton, "click", map[string][]string{IDUsername: {"alice"}, IDPassword: {"wrong"}})
	assert.Equal(t, []string{"Username and password don't match!"}, messageTexts(p))
	assert.Empty(t, h.node(IDPassword).Value, "password is never echoed back")
	assert.Zero(t, h.sess.UID())

	p = h.fire(IDLoginButton, "click", map[string][]string{IDUsername: {"alice"}, IDPassword: {"secret1"}})
	assert.Equal(t, []string{"You are logged in!"}, messageTexts(p))
	assert.Equal(t, []string{cba.RootID}, fragmentIDs(p))
	assert.Equal(t, "alice", h.sess.Username())
	assert.True(t, h.has(IDNoteView))
	assert.True(t, h.has(IDTagExplorer))
	assert.False(t, h.has(IDLogin))
}

func TestLogin_Inactive(t *testing.T) {
	h := newHarness(t, nil)
	h.createUser("bob", "secret1")
	require.NoError(t, h.users.SetActive(context.Background(), "bob", false))
	h.mount()

	p := h.fire(IDLoginButton, "click", map[string][]string{IDUsername: {"bob"}, IDPassword: {"secret1"}})
	assert.Equal(t, []string{"Your account is not active!"}, messageTexts(p))
	assert.True(t, h.has(IDLogin))
}

func TestLogin_RateLimited(t *testing.T) {
	h := newHarness(t, limiter.NewKeyLimiter(limiter.BucketRule{FillInterval: time.Hour, Capacity: 1, Quantum: 1}))
	h.createUser("alice", "secret1")
	h.mount()

	p := h.fire(IDLoginButton, "click", map[string][]string{IDUsername: {"alice"}, IDPassword: {"wrong"}})
	assert.Equal(t, []string{"Username and password don't match!"}, messageTexts(p))

	p = h.fire(IDLoginButton, "click", map[string][]string{IDUsername: {"alice"}, IDPassword: {"secret1"}})
	assert.Equal(t, []string{"Too many requests"}, messageTexts(p))
	assert.Zero(t, h.sess.UID())
}

func TestLogout(t *testing.T) {
	h := newHarness(t, nil)
	h.loggedIn()
	h.sess.State.Set(StateSearch, "a")

	p := h.fire(IDMenuLogout, "click", nil)
	assert.Equal(t, []string{"You are logged out!"}, messageTexts(p))
	assert.Zero(t, h.sess.UID())
	assert.True(t, h.has(IDLogin))
	_, ok := h.sess.State.Get(StateSearch)
	assert.False(t, ok)
}

func TestAboutModal(t *testing.T) {
	h := newHarness(t, nil)
	h.loggedIn()

	p := h.fire(IDMenuAbout, "click", nil)
	assert.Equal(t, []string{IDOverlay}, fragmentIDs(p))
	require.True(t, h.has(IDAboutUs))

	p = h.fire(IDAboutUs+"-decline", "click", nil)
	assert.False(t, h.has(IDAboutUs))
	assert.Equal(t, []string{IDAboutUs}, p.Remove)
}

func TestBrowseScenario(t *testing.T) {
	h := newHarness(t, nil)
	notes := h.loggedIn()
	x := h.tagID("x")

	assert.Equal(t, notes["Alpha"].ID, h.current())
	assert.Contains(t, string(h.node(IDNoteDetail).HTML), "<h1>Alpha</h1>")

	h.fire("show-note-"+idString(notes["Beta"].ID), "click", nil)
	assert.Equal(t, notes["Beta"].ID, h.current())

	p := h.fire("tag-"+idString(x), "click", nil)
	assert.ElementsMatch(t, []string{IDNoteView, IDTagExplorer}, fragmentIDs(p))
	assert.Equal(t, []string{idString(notes["Alpha"].ID), idString(notes["Gamma"].ID)}, h.rowIDs())
	assert.Equal(t, notes["Alpha"].ID, h.current(), "Beta is filtered out")
	assert.True(t, h.node("tag-"+idString(x)).Selected)
	assert.False(t, h.node(IDTagReset).Selected)

	p = h.fire(IDSearch, "keyup", map[string][]string{IDSearch: {"mm"}})
	assert.Equal(t, []string{IDNotesTable, IDNoteDetail}, fragmentIDs(p))
	assert.Equal(t, []string{idString(notes["Gamma"].ID)}, h.rowIDs())
	assert.Equal(t, notes["Gamma"].ID, h.current())

	h.fire(IDTagReset, "click", nil)
	assert.Equal(t, []string{idString(notes["Gamma"].ID)}, h.rowIDs())
	_, selected := h.sess.State.Get(StateSelectedTagID)
	assert.False(t, selected)

	h.fire(IDSearch, "keyup", map[string][]string{IDSearch: {"nothing here"}})
	assert.Empty(t, h.rowIDs())
	assert.Zero(t, h.current())
	assert.Empty(t, h.node(IDNoteDetail).HTML)
}

func TestBrowse_CurrentNoteSelectsPage(t *testing.T) {
	h := newHarness(t, nil)
	notes := h.loggedIn()

	h.sess.State.Set(StateCurrentNoteID, notes["Gamma"].ID)
	require.NoError(t, h.comps.loadNoteView(context.Background(), h.sess.Tree, h.sess.State))
	assert.Equal(t, 2, h.node(IDNotesTable).Page)
	assert.Equal(t, []string{idString(notes["Gamma"].ID)}, h.rowIDs())
}

func TestTagExplorer_Counts(t *testing.T) {
	h := newHarness(t, nil)
	h.loggedIn()
	x, y := h.tagID("x"), h.tagID("y")

	items := h.sess.Tree.Children(IDTagList)
	require.Len(t, items, 3)
	assert.Equal(t, IDTagReset, items[0].ID())
	assert.Equal(t, "x (2)", items[1].Text)
	assert.Equal(t, "tag-"+idString(x), items[1].ID())
	assert.Equal(t, "y (2)", items[2].Text)
	assert.Equal(t, "tag-"+idString(y), items[2].ID())
}

func TestEditNote(t *testing.T) {
	h := newHarness(t, nil)
	notes := h.loggedIn()

	p := h.fire(IDNoteDetail, "click", nil)
	assert.Equal(t, []string{IDMain}, fragmentIDs(p))
	require.True(t, h.has(IDNoteEdit))
	assert.False(t, h.has(IDNoteView))
	assert.Equal(t, "Alpha", h.node(IDTitle).Value)
	assert.Equal(t, []string{"x"}, h.node(IDTags).Values)
	assert.Equal(t, idString(notes["Alpha"].ID), h.node(IDNoteID).Value)

	p = h.fire(IDSaveNote, "click", map[string][]string{IDTitle: {""}, IDText: {"still here"}})
	assert.Equal(t, []string{"Please correct the indicated errors!"}, messageTexts(p))
	assert.Equal(t, []string{IDNoteEdit}, fragmentIDs(p))
	assert.Equal(t, "Title is required!", h.node(IDTitle).Error)
	assert.Empty(t, h.node(IDText).Error)

	long := ""
	for i := 0; i < 51; i++ {
		long += "é"
	}
	h.fire(IDSaveNote, "click", map[string][]string{IDTitle: {long}, IDText: {""}})
	assert.Equal(t, "Title must be at most 50 characters!", h.node(IDTitle).Error)
	assert.Equal(t, "Text is required!", h.node(IDText).Error)

	p = h.fire(IDSaveNote, "click", map[string][]string{
		IDTitle:   {"Alpha 2"},
		IDText:    {"**bold**"},
		IDTags:    {"y"},
		IDNewTags: {"z, w"},
	})
	assert.Equal(t, []string{"Note has been modified!"}, messageTexts(p))
	assert.ElementsMatch(t, []string{IDMain, IDTagExplorer}, fragmentIDs(p))
	require.True(t, h.has(IDNoteView))
	assert.Equal(t, notes["Alpha"].ID, h.current())
	assert.Contains(t, string(h.node(IDNoteDetail).HTML), "<strong>bold</strong>")

	saved, err := h.notes.Get(context.Background(), notes["Alpha"].ID)
	require.NoError(t, err)
	assert.Equal(t, "Alpha 2", saved.Title)
	assert.Equal(t, []string{"w", "y", "z"}, saved.TagNames())
}

func TestEditNote_SnapshotIsolated(t *testing.T) {
	h := newHarness(t, nil)
	note := &domain.Note{ID: 7, Title: "orig", Tags: []domain.Tag{{ID: 1, Name: "x"}}}
	h.loggedIn()

	c := cba.NewContext(context.Background(), h.sess.Tree, h.sess.State, h.sess, cba.Event{})
	form, err := h.comps.newNoteEdit(c, note)
	require.NoError(t, err)
	note.Title = "changed"
	note.Tags[0].Name = "changed"

	require.NoError(t, h.sess.Tree.Replace(IDNoteView, form))
	assert.Equal(t, "orig", h.node(IDTitle).Value)
	assert.Equal(t, []string{"x"}, h.node(IDTags).Values)
}

func TestEditNote_ListsExistingFiles(t *testing.T) {
	h := newHarness(t, nil)
	h.loggedIn()
	note := &domain.Note{ID: 7, Title: "Pics", Text: "see", Files: []domain.File{
		{ID: 1, Name: "a.png", URL: "/files/a.png", ContentType: "image/png"},
		{ID: 2, Name: "b.txt", URL: "/files/b.txt", ContentType: "text/plain"},
	}}

	c := cba.NewContext(context.Background(), h.sess.Tree, h.sess.State, h.sess, cba.Event{})
	form, err := h.comps.newNoteEdit(c, note)
	require.NoError(t, err)
	note.Files[0].Name = "changed"
	require.NoError(t, h.sess.Tree.Replace(IDNoteView, form))

	assert.Equal(t, []cba.Option{
		{Value: "/files/a.png", Label: "a.png"},
		{Value: "/files/b.txt", Label: "b.txt"},
	}, h.node(IDFiles).Existing)

	html, err := h.sess.Tree.Render(IDFiles)
	require.NoError(t, err)
	assert.Contains(t, string(html), `href="/files/a.png"`)
	assert.Contains(t, string(html), ">b.txt</a>")
}

func TestAddNote_AndCancel(t *testing.T) {
	h := newHarness(t, nil)
	h.loggedIn()

	h.fire(IDMenuAddNote, "click", nil)
	require.True(t, h.has(IDNoteEdit))
	assert.Empty(t, h.node(IDNoteID).Value)
	assert.Empty(t, h.node(IDTitle).Value)

	p := h.fire(IDCancelEdit, "click", map[string][]string{IDTitle: {"draft"}})
	assert.Equal(t, []string{IDMain}, fragmentIDs(p))
	assert.True(t, h.has(IDNoteView))
	total, err := h.notes.Count(context.Background(), domain.NoteFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)

	h.fire(IDMenuAddNote, "click", nil)
	p = h.fire(IDSaveNote, "click", map[string][]string{IDTitle: {"Delta"}, IDText: {"fourth"}, IDNewTags: {"z"}})
	assert.Equal(t, []string{"Note has been added!"}, messageTexts(p))
	assert.True(t, h.has(IDNoteView))
	z := h.tagID("z")
	assert.Equal(t, "z (1)", h.node("tag-"+idString(z)).Text)

	current, err := h.notes.Get(context.Background(), h.current())
	require.NoError(t, err)
	assert.Equal(t, "Delta", current.Title)
}

func TestSave_RequiresLogin(t *testing.T) {
	h := newHarness(t, nil)
	h.loggedIn()
	h.fire(IDMenuAddNote, "click", nil)
	h.sess.Logout()

	p := h.fire(IDSaveNote, "click", map[string][]string{IDTitle: {"Delta"}, IDText: {"fourth"}})
	assert.Equal(t, []string{"You must be logged in to save notes!"}, messageTexts(p))
	assert.Empty(t, fragmentIDs(p))
	assert.True(t, h.has(IDNoteEdit))

	total, err := h.notes.Count(context.Background(), domain.NoteFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
}

func TestSave_NoteGone(t *testing.T) {
	h := newHarness(t, nil)
	notes := h.loggedIn()
	h.fire(IDNoteDetail, "click", nil)
	_, err := h.notes.Delete(context.Background(), notes["Alpha"].ID)
	require.NoError(t, err)

	p := h.fire(IDSaveNote, "click", map[string][]string{IDTitle: {"Alpha"}, IDText: {"first"}})
	assert.Equal(t, []string{"Note doesn't exist!"}, messageTexts(p))
	assert.True(t, h.has(IDNoteEdit))
}

func TestDeleteNote(t *testing.T) {
	h := newHarness(t, nil)
	notes := h.loggedIn()
	beta := notes["Beta"]
	button := "delete-note-" + idString(beta.ID)

	p := h.fire(button, "click", nil)
	assert.Equal(t, []string{IDNoteView}, fragmentIDs(p))
	modal := h.node(IDModal)
	assert.Equal(t, IDNoteView, modal.Parent())
	assert.Equal(t, "Do you really want to delete note 'Beta'?", modal.Text)
	assert.Equal(t, button, modal.Value)

	h.fire(IDModal+"-decline", "click", nil)
	assert.False(t, h.has(IDModal))
	_, err := h.notes.Get(context.Background(), beta.ID)
	require.NoError(t, err, "decline keeps the note")

	h.fire(button, "click", nil)
	p = h.fire(IDModal+"-confirm", "click", nil)
	assert.Equal(t, []string{"Note has been deleted!"}, messageTexts(p))
	assert.ElementsMatch(t, []string{IDNoteView, IDTagExplorer}, fragmentIDs(p))
	assert.False(t, h.has(IDModal))
	assert.NotContains(t, h.rowIDs(), idString(beta.ID))

	_, err = h.notes.Get(context.Background(), beta.ID)
	assert.Error(t, err)
	assert.Equal(t, "y (1)", h.node("tag-"+idString(h.tagID("y"))).Text)
}

func TestDeleteNote_AlreadyGone(t *testing.T) {
	h := newHarness(t, nil)
	notes := h.loggedIn()
	button := "delete-note-" + idString(notes["Beta"].ID)

	h.fire(button, "click", nil)
	_, err := h.notes.Delete(context.Background(), notes["Beta"].ID)
	require.NoError(t, err)

	p := h.fire(IDModal+"-confirm", "click", nil)
	assert.Equal(t, []string{"Note doesn't exist!"}, messageTexts(p))
	assert.False(t, h.has(IDModal))
	assert.ElementsMatch(t, []string{IDNoteView, IDTagExplorer}, fragmentIDs(p))
	assert.NotContains(t, h.rowIDs(), idString(notes["Beta"].ID), "the stale row is dropped")
	assert.Equal(t, []string{idString(notes["Alpha"].ID), idString(notes["Gamma"].ID)}, h.rowIDs())
	assert.Equal(t, "y (1)", h.node("tag-"+idString(h.tagID("y"))).Text)
}

func TestDeleteNote_CurrentAlreadyGone(t *testing.T) {
	h := newHarness(t, nil)
	notes := h.loggedIn()
	beta := notes["Beta"]
	h.sess.State.Set(StateCurrentNoteID, beta.ID)
	button := "delete-note-" + idString(beta.ID)

	h.fire(button, "click", nil)
	_, err := h.notes.Delete(context.Background(), beta.ID)
	require.NoError(t, err)

	h.fire(IDModal+"-confirm", "click", nil)
	assert.NotEqual(t, beta.ID, h.current(), "current note no longer points at the deleted note")
	assert.NotContains(t, string(h.node(IDNoteDetail).HTML), "Beta")
}

func TestSelectTag_WhileEditing(t *testing.T) {
	h := newHarness(t, nil)
	h.loggedIn()
	x := h.tagID("x")
	h.fire(IDMenuAddNote, "click", nil)

	p := h.fire("tag-"+idString(x), "click", nil)
	assert.Equal(t, []string{IDTagExplorer}, fragmentIDs(p))
	assert.True(t, h.has(IDNoteEdit))
	got, ok := h.sess.State.GetInt64(StateSelectedTagID)
	require.True(t, ok)
	assert.Equal(t, x, got)
}
