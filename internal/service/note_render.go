package service

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/haierkeys/fast-note-web/internal/domain"
	"github.com/microcosm-cc/bluemonday"
	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var (
	markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))
	sanitize = bluemonday.UGCPolicy()

	detailTemplate = template.Must(template.New("note-detail").Parse(
		`<h1>{{.Title}}</h1><p>{{.Tags}}</p>{{.Body}}` +
			`{{with .Images}}<h2>Images</h2>{{range .}}<img src="{{.}}" width="100px">{{end}}{{end}}`,
	))
)

// RenderMarkdown converts markdown to sanitized HTML
// RenderMarkdown 将 Markdown 转换为经过清洗的 HTML
func RenderMarkdown(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return "", errors.Wrap(err, "convert markdown")
	}
	return template.HTML(sanitize.SanitizeBytes(buf.Bytes())), nil
}

// RenderNoteDetail renders title, tags, body and attached images of a note
// RenderNoteDetail 渲染笔记标题、标签、正文与附件图片
func RenderNoteDetail(note *domain.Note) (template.HTML, error) {
	if note == nil {
		return "", nil
	}
	body, err := RenderMarkdown(note.Text)
	if err != nil {
		return "", err
	}
	images := make([]string, 0, len(note.Files))
	for _, f := range note.Files {
		images = append(images, f.URL)
	}

	var buf bytes.Buffer
	err = detailTemplate.Execute(&buf, struct {
		Title  string
		Tags   string
		Body   template.HTML
		Images []string
	}{
		Title:  note.Title,
		Tags:   strings.Join(note.TagNames(), ", "),
		Body:   body,
		Images: images,
	})
	if err != nil {
		return "", errors.Wrap(err, "render note detail")
	}
	return template.HTML(buf.String()), nil
}
