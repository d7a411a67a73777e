package components

import (
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/haierkeys/fast-note-web/internal/domain"
	"github.com/haierkeys/fast-note-web/internal/service"
	"github.com/haierkeys/fast-note-web/pkg/cba"
	"github.com/haierkeys/fast-note-web/pkg/code"
	"github.com/jinzhu/copier"
	"github.com/pkg/errors"
)

// 编辑表单字段 ID
const (
	IDNoteID     = "note-id"
	IDTitle      = "title"
	IDText       = "text"
	IDFiles      = "files"
	IDTags       = "tags"
	IDNewTags    = "new-tags"
	IDSaveNote   = "save-note"
	IDCancelEdit = "cancel-edit"
)

// noteForm is the snapshot of a note held by the editor
// noteForm 编辑器持有的笔记快照
type noteForm struct {
	ID    int64
	Title string
	Text  string
	Tags  []domain.Tag
	Files []domain.File
}

func (f *noteForm) tagNames() []string {
	names := make([]string, 0, len(f.Tags))
	for _, t := range f.Tags {
		names = append(names, t.Name)
	}
	return names
}

// fieldErrors maps a failed struct field and rule to its message
var fieldErrors = map[string]map[string]*code.Code{
	"Title": {
		"required": code.ErrorNoteTitleRequired,
		"max":      code.ErrorNoteTitleTooLong,
	},
	"Text": {
		"required": code.ErrorNoteTextRequired,
	},
}

// openEditor swaps the note view (or an open editor) for a form holding a copy of note
// openEditor 用持有笔记副本的表单替换笔记视图（或已打开的编辑器）
func (c *Components) openEditor(cc *cba.Context, note *domain.Note) error {
	form, err := c.newNoteEdit(cc, note)
	if err != nil {
		return err
	}

	switch {
	case exists(cc.Tree, IDNoteView):
		err = cc.Tree.Replace(IDNoteView, form)
	case exists(cc.Tree, IDNoteEdit):
		err = cc.Tree.Replace(IDNoteEdit, form)
	default:
		err = cc.Tree.Add(IDMain, form)
	}
	if err != nil {
		return err
	}
	cc.Tree.Refresh(IDMain)
	return nil
}

func (c *Components) newNoteEdit(cc *cba.Context, note *domain.Note) (*cba.Node, error) {
	var snap noteForm
	if err := copier.CopyWithOption(&snap, note, copier.Option{DeepCopy: true}); err != nil {
		return nil, errors.Wrap(err, "snapshot note")
	}

	all, err := c.deps.Tags.ListAll(cc)
	if err != nil {
		return nil, err
	}
	options := make([]cba.Option, 0, len(all))
	for _, t := range all {
		options = append(options, cba.Option{Value: t.Name, Label: t.Name})
	}

	heading := "Add note"
	noteID := ""
	if snap.ID > 0 {
		heading = "Edit note"
		noteID = strconv.FormatInt(snap.ID, 10)
	}

	tags := cba.NewNode(cba.KindSelect, IDTags).WithLabel("Tags")
	tags.Multiple = true
	tags.Options = options
	tags.Values = snap.tagNames()

	files := cba.NewNode(cba.KindFileInput, IDFiles).WithLabel("Images")
	files.Multiple = true
	for _, f := range snap.Files {
		files.Existing = append(files.Existing, cba.Option{Value: f.URL, Label: f.Name})
	}

	form := cba.NewNode(cba.KindForm, IDNoteEdit).WithClass("cba-note-edit").Append(
		cba.NewNode(cba.KindHeading, "").WithText(heading),
		cba.NewNode(cba.KindHidden, IDNoteID).WithValue(noteID),
		cba.NewNode(cba.KindTextInput, IDTitle).WithLabel("Title").WithValue(snap.Title),
		cba.NewNode(cba.KindTextarea, IDText).WithLabel("Text").WithValue(snap.Text),
		files,
		tags,
		cba.NewNode(cba.KindTextInput, IDNewTags).WithLabel("New tags").WithPlaceholder("comma separated"),
		cba.NewNode(cba.KindButton, IDSaveNote).WithText("Save").On("click", "handle_save"),
		cba.NewNode(cba.KindButton, IDCancelEdit).WithText("Cancel").WithClass("cba-secondary").On("click", "handle_cancel"),
	)
	form.Handle("handle_save", c.handleSave)
	form.Handle("handle_cancel", c.handleCancel)
	return form, nil
}

func (c *Components) handleSave(cc *cba.Context) error {
	if !cc.IsAuthenticated() {
		cc.Error(msg(cc, code.ErrorNotLoggedIn))
		return nil
	}

	params, err := c.saveParams(cc)
	if err != nil {
		return err
	}
	if !c.validateForm(cc, params) {
		cc.Tree.Refresh(IDNoteEdit)
		cc.Error(msg(cc, code.ErrorNoteInvalidForm))
		return nil
	}

	done := code.SuccessNoteAdded
	if params.ID > 0 {
		done = code.SuccessNoteModified
	}
	note, err := c.deps.Notes.Save(cc, cc.UID(), params)
	if err != nil {
		return notify(cc, err)
	}

	cc.State.Set(StateCurrentNoteID, note.ID)
	if err := c.closeEditor(cc); err != nil {
		return err
	}
	if err := c.loadTagExplorer(cc, cc.Tree, cc.State); err != nil {
		return err
	}
	cc.Tree.Refresh(IDTagExplorer)
	cc.Success(msg(cc, done))
	return nil
}

func (c *Components) handleCancel(cc *cba.Context) error {
	return c.closeEditor(cc)
}

// closeEditor puts a freshly loaded note view in place of the editor
// closeEditor 用重新加载的笔记视图替换编辑器
func (c *Components) closeEditor(cc *cba.Context) error {
	if err := cc.Tree.Replace(IDNoteEdit, c.newNoteView(cc.State)); err != nil {
		return err
	}
	if err := c.loadNoteView(cc, cc.Tree, cc.State); err != nil {
		return err
	}
	cc.Tree.Refresh(IDMain)
	return nil
}

func (c *Components) saveParams(cc *cba.Context) (*service.NoteSaveParams, error) {
	params := &service.NoteSaveParams{
		Title: cc.FormValue(IDTitle),
		Text:  cc.FormValue(IDText),
		Files: cc.Files(IDFiles),
	}
	if raw := cc.FormValue(IDNoteID); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid note id %q", raw)
		}
		params.ID = id
	}
	params.Tags = append(params.Tags, cc.FormValues(IDTags)...)
	params.Tags = append(params.Tags, service.SplitTagNames(cc.FormValue(IDNewTags))...)
	return params, nil
}

// validateForm sets the error of every checked field and reports whether all passed
// validateForm 设置每个字段的错误信息，全部通过时返回 true
func (c *Components) validateForm(cc *cba.Context, params *service.NoteSaveParams) bool {
	failed := make(map[string]string)
	if err := c.deps.Validate.StructCtx(cc, params); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			failed["Title"] = err.Error()
		}
		for _, fe := range verrs {
			if _, seen := failed[fe.Field()]; seen {
				continue
			}
			if ce, ok := fieldErrors[fe.Field()][fe.Tag()]; ok {
				failed[fe.Field()] = msg(cc, ce)
			} else {
				failed[fe.Field()] = fe.Error()
			}
		}
	}

	for field, id := range map[string]string{"Title": IDTitle, "Text": IDText} {
		if n, ok := cc.Tree.Find(id); ok {
			n.Error = failed[field]
		}
	}
	return len(failed) == 0
}

func exists(t *cba.Tree, id string) bool {
	_, ok := t.Find(id)
	return ok
}
