package components

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/haierkeys/fast-note-web/internal/domain"
	"github.com/haierkeys/fast-note-web/internal/service"
	"github.com/haierkeys/fast-note-web/pkg/cba"
	"github.com/haierkeys/fast-note-web/pkg/code"
	"github.com/pkg/errors"
)

const (
	rowActionShow   = "show-note"
	rowActionDelete = "delete-note"
)

// NotesTableDataProvider feeds the notes table from the filter held in the session state
// NotesTableDataProvider 按会话状态中的筛选条件为笔记表格提供数据
type NotesTableDataProvider struct {
	notes service.NoteService
	state cba.State
}

// NewNotesTableDataProvider 创建笔记表格数据源
func NewNotesTableDataProvider(notes service.NoteService, state cba.State) *NotesTableDataProvider {
	return &NotesTableDataProvider{notes: notes, state: state}
}

func (p *NotesTableDataProvider) filter() domain.NoteFilter {
	tagID, _ := p.state.GetInt64(StateSelectedTagID)
	return domain.NoteFilter{TagID: tagID, Search: p.state.GetString(StateSearch)}
}

func (p *NotesTableDataProvider) TotalRows(ctx context.Context) (int, error) {
	total, err := p.notes.Count(ctx, p.filter())
	return int(total), err
}

func (p *NotesTableDataProvider) GetRows(ctx context.Context, start, end int) ([]cba.Row, error) {
	total, err := p.TotalRows(ctx)
	if err != nil {
		return nil, err
	}
	start, end = cba.ClampRange(start, end, total)
	if start == end {
		return []cba.Row{}, nil
	}

	notes, err := p.notes.List(ctx, p.filter(), start, end-start)
	if err != nil {
		return nil, err
	}
	current, _ := p.state.GetInt64(StateCurrentNoteID)
	rows := make([]cba.Row, 0, len(notes))
	for _, n := range notes {
		id := strconv.FormatInt(n.ID, 10)
		rows = append(rows, cba.Row{
			ID:       id,
			Selected: n.ID == current,
			Cells: []cba.Cell{
				{Text: n.Title},
				{Text: strings.Join(n.TagNames(), ", ")},
				{Node: cba.NewNode(cba.KindButton, rowActionDelete+"-"+id).
					WithText("Delete").
					WithClass("cba-danger").
					On("click", "handle_delete_note")},
			},
		})
	}
	return rows, nil
}

func (p *NotesTableDataProvider) Headers() []string {
	return []string{"Title", "Tags", ""}
}

var _ cba.DataProvider = (*NotesTableDataProvider)(nil)

// newNoteView builds the detached note view; loadNoteView fills it once it is in the tree
func (c *Components) newNoteView(state cba.State) *cba.Node {
	view := cba.NewNode(cba.KindGroup, IDNoteView).WithClass("cba-note-view")
	view.Append(
		cba.NewNode(cba.KindTextInput, IDSearch).WithPlaceholder("Search").On("keyup", "handle_search"),
		cba.NewTable(IDNotesTable, NewNotesTableDataProvider(c.deps.Notes, state), c.deps.PageSize).
			OnRow(rowActionShow, "click", "handle_show_note"),
		cba.NewNode(cba.KindHTML, IDNoteDetail).WithClass("cba-note-detail").On("click", "handle_edit_note"),
	)
	view.Handle("handle_search", c.handleSearch)
	view.Handle("handle_show_note", c.handleShowNote)
	view.Handle("handle_edit_note", c.handleEditNote)
	view.Handle("handle_delete_note", c.handleDeleteNote)
	view.Handle("delete_note", c.deleteNote)
	return view
}

// loadNoteView applies the filter, resolves and stores the current note, and
// reloads the table and the detail of the note view.
// loadNoteView 应用筛选条件，确定并保存当前笔记，重新加载表格与详情。
func (c *Components) loadNoteView(ctx context.Context, tree *cba.Tree, state cba.State) error {
	if _, ok := tree.Find(IDNoteView); !ok {
		return nil
	}
	tagID, _ := state.GetInt64(StateSelectedTagID)
	currentID, _ := state.GetInt64(StateCurrentNoteID)
	search := state.GetString(StateSearch)

	res, err := c.deps.Notes.Browse(ctx, &service.BrowseParams{TagID: tagID, Search: search, CurrentID: currentID})
	if err != nil {
		return err
	}
	if res.Current == nil {
		state.Delete(StateCurrentNoteID)
	} else {
		state.Set(StateCurrentNoteID, res.Current.ID)
	}

	if n, ok := tree.Find(IDSearch); ok {
		n.Value = search
	}

	table, ok := tree.Find(IDNotesTable)
	if !ok {
		return errors.Wrapf(cba.ErrComponentNotFound, "%q", IDNotesTable)
	}
	for i, id := range res.IDs {
		if id == res.CurrentID() {
			table.Page = i/table.PageSize + 1
			break
		}
	}
	if err := cba.LoadData(ctx, tree, IDNotesTable); err != nil {
		return err
	}

	detail, ok := tree.Find(IDNoteDetail)
	if !ok {
		return errors.Wrapf(cba.ErrComponentNotFound, "%q", IDNoteDetail)
	}
	html, err := service.RenderNoteDetail(res.Current)
	if err != nil {
		return err
	}
	detail.HTML = html
	return nil
}

func (c *Components) handleSearch(cc *cba.Context) error {
	search := strings.TrimSpace(cc.FormValue(IDSearch))
	if search == "" {
		cc.State.Delete(StateSearch)
	} else {
		cc.State.Set(StateSearch, search)
	}
	if err := c.loadNoteView(cc, cc.Tree, cc.State); err != nil {
		return err
	}
	cc.Tree.Refresh(IDNotesTable, IDNoteDetail)
	return nil
}

func (c *Components) handleShowNote(cc *cba.Context) error {
	id, err := strconv.ParseInt(cc.Event.Value, 10, 64)
	if err != nil {
		return errors.Wrapf(err, "show note %q", cc.Event.Value)
	}
	cc.State.Set(StateCurrentNoteID, id)
	if err := c.loadNoteView(cc, cc.Tree, cc.State); err != nil {
		return err
	}
	cc.Tree.Refresh(IDNotesTable, IDNoteDetail)
	return nil
}

func (c *Components) handleEditNote(cc *cba.Context) error {
	id, ok := cc.State.GetInt64(StateCurrentNoteID)
	if !ok {
		return nil
	}
	note, err := c.deps.Notes.Get(cc, id)
	if err != nil {
		return notify(cc, err)
	}
	return c.openEditor(cc, note)
}

func (c *Components) handleAddNote(cc *cba.Context) error {
	return c.openEditor(cc, &domain.Note{})
}

func (c *Components) handleDeleteNote(cc *cba.Context) error {
	id, err := noteIDFrom(cc.Event.ComponentID)
	if err != nil {
		return err
	}
	note, err := c.deps.Notes.Get(cc, id)
	if err != nil {
		return notify(cc, err)
	}

	modal := cba.NewConfirmModal(IDModal,
		fmt.Sprintf("Do you really want to delete note '%s'?", note.Title),
		"delete_note",
		cc.Event.ComponentID,
	)
	if _, open := cc.Tree.Find(IDModal); open {
		err = cc.Tree.Replace(IDModal, modal)
	} else {
		err = cc.Tree.Add(IDNoteView, modal)
	}
	if err != nil {
		return err
	}
	cc.Tree.Refresh(IDNoteView)
	return nil
}

// deleteNote is the continuation of the confirm modal, the event value is the clicked delete button id
func (c *Components) deleteNote(cc *cba.Context) error {
	id, err := noteIDFrom(cc.Event.Value)
	if err != nil {
		return err
	}
	if _, open := cc.Tree.Find(IDModal); open {
		if err := cc.Tree.Remove(IDModal); err != nil {
			return err
		}
	}

	// a note removed elsewhere is reported, the list is reloaded either way
	deleted := true
	if _, err := c.deps.Notes.Delete(cc, id); err != nil {
		if err := notify(cc, err); err != nil {
			return err
		}
		deleted = false
	}

	if err := c.loadNoteView(cc, cc.Tree, cc.State); err != nil {
		return err
	}
	cc.Tree.Refresh(IDNoteView)
	if err := c.loadTagExplorer(cc, cc.Tree, cc.State); err != nil {
		return err
	}
	cc.Tree.Refresh(IDTagExplorer)
	if deleted {
		cc.Success(msg(cc, code.SuccessNoteDeleted))
	}
	return nil
}

// noteIDFrom parses the note id out of a delete-note-<id> component id
func noteIDFrom(componentID string) (int64, error) {
	raw := strings.TrimPrefix(componentID, rowActionDelete+"-")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid note component %q", componentID)
	}
	return id, nil
}
