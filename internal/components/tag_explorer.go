package components

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/haierkeys/fast-note-web/pkg/cba"
	"github.com/pkg/errors"
)

const (
	IDTagReset = "tag-reset"
	tagPrefix  = "tag-"
)

func (c *Components) newTagExplorer() *cba.Node {
	explorer := cba.NewNode(cba.KindGroup, IDTagExplorer).WithClass("cba-tag-explorer").Append(
		cba.NewNode(cba.KindHeading, "").WithText("Tags"),
		cba.NewNode(cba.KindList, IDTagList),
	)
	explorer.Handle("handle_select_tag", c.handleSelectTag)
	explorer.Handle("handle_reset_tag", c.handleResetTag)
	return explorer
}

// loadTagExplorer rebuilds the tag list from the tags in use
// loadTagExplorer 按当前使用中的标签重建标签列表
func (c *Components) loadTagExplorer(ctx context.Context, tree *cba.Tree, state cba.State) error {
	if !exists(tree, IDTagList) {
		return nil
	}
	tags, err := c.deps.Tags.ListUsed(ctx)
	if err != nil {
		return err
	}
	selected, hasSelected := state.GetInt64(StateSelectedTagID)

	if err := tree.Clear(IDTagList); err != nil {
		return err
	}
	reset := cba.NewNode(cba.KindListItem, IDTagReset).WithText("All notes").On("click", "handle_reset_tag")
	reset.Selected = !hasSelected
	if err := tree.Add(IDTagList, reset); err != nil {
		return err
	}
	for _, t := range tags {
		id := strconv.FormatInt(t.ID, 10)
		item := cba.NewNode(cba.KindListItem, tagPrefix+id).
			WithText(fmt.Sprintf("%s (%d)", t.Name, t.NoteCount)).
			WithValue(id).
			On("click", "handle_select_tag")
		item.Selected = hasSelected && t.ID == selected
		if err := tree.Add(IDTagList, item); err != nil {
			return err
		}
	}
	return nil
}

func (c *Components) handleSelectTag(cc *cba.Context) error {
	raw := cc.Event.Value
	if raw == "" {
		raw = strings.TrimPrefix(cc.Event.ComponentID, tagPrefix)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return errors.Wrapf(err, "invalid tag %q", raw)
	}
	cc.State.Set(StateSelectedTagID, id)
	return c.tagFilterChanged(cc)
}

func (c *Components) handleResetTag(cc *cba.Context) error {
	cc.State.Delete(StateSelectedTagID)
	return c.tagFilterChanged(cc)
}

func (c *Components) tagFilterChanged(cc *cba.Context) error {
	if exists(cc.Tree, IDNoteView) {
		if err := c.loadNoteView(cc, cc.Tree, cc.State); err != nil {
			return err
		}
		cc.Tree.Refresh(IDNoteView)
	}
	if err := c.loadTagExplorer(cc, cc.Tree, cc.State); err != nil {
		return err
	}
	cc.Tree.Refresh(IDTagExplorer)
	return nil
}
