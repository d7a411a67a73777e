package service

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/textproto"
	"path/filepath"
	"testing"
	"time"

	"github.com/haierkeys/fast-note-web/internal/dao"
	"github.com/haierkeys/fast-note-web/internal/domain"
	"github.com/haierkeys/fast-note-web/pkg/storage"
	"github.com/haierkeys/fast-note-web/pkg/workerpool"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testServices struct {
	notes   NoteService
	tags    TagService
	files   FileService
	pool    *workerpool.Pool
	saveDir string
}

func newTestServices(t *testing.T) testServices {
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

	pool := workerpool.New(&workerpool.Config{MaxWorkers: 2, QueueSize: 16}, zap.NewNop())
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = pool.Shutdown(ctx)
		_ = d.Close()
	})

	cfg := &ServiceConfig{App: AppServiceConfig{UploadMaxSize: 1 << 20}}
	tags := NewTagService(dao.NewTagRepository(d), zap.NewNop())
	files := NewFileService(dao.NewFileRepository(d), storager, storageCfg, pool, zap.NewNop(), cfg)
	notes := NewNoteService(dao.NewNoteRepository(d), tags, files, zap.NewNop())
	return testServices{notes: notes, tags: tags, files: files, pool: pool, saveDir: storageCfg.SavePath}
}

// seedNotes saves Alpha(x), Beta(y), Gamma(x, y) as user 1
func seedNotes(t *testing.T, s testServices) map[string]*domain.Note {
	t.Helper()
	out := make(map[string]*domain.Note)
	for _, p := range []NoteSaveParams{
		{Title: "Alpha", Text: "first", Tags: []string{"x"}},
		{Title: "Beta", Text: "second", Tags: []string{"y"}},
		{Title: "Gamma", Text: "third", Tags: []string{"x", "y"}},
	} {
		p := p
		n, err := s.notes.Save(context.Background(), 1, &p)
		require.NoError(t, err)
		out[n.Title] = n
	}
	return out
}

func tagID(t *testing.T, s testServices, name string) int64 {
	t.Helper()
	ids, err := s.tags.Resolve(context.Background(), []string{name})
	require.NoError(t, err)
	return ids[0]
}

// newFileHeaders builds multipart file headers the way a form upload produces them
func newFileHeaders(t *testing.T, field string, files map[string][]byte) []*multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for name, data := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+name+`"`)
		h.Set("Content-Type", "image/png")
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File[field]
}
