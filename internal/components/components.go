// Package components builds the notes application out of cba nodes
// Package components 使用 cba 节点构建笔记应用
package components

import (
	"context"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/haierkeys/fast-note-web/internal/service"
	"github.com/haierkeys/fast-note-web/pkg/cba"
	"github.com/haierkeys/fast-note-web/pkg/code"
	"github.com/haierkeys/fast-note-web/pkg/limiter"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// 会话状态键
const (
	StateCurrentNoteID = "current-note-id"
	StateSelectedTagID = "selected-tag-id"
	StateSearch        = "search"
)

// 组件 ID
const (
	IDLogin       = "login"
	IDMainMenu    = "main-menu"
	IDLayout      = "layout"
	IDMain        = "main"
	IDSidebar     = "sidebar"
	IDOverlay     = "overlay"
	IDNoteView    = "note-view"
	IDNoteEdit    = "note-edit"
	IDNotesTable  = "notes-table"
	IDNoteDetail  = "note-detail"
	IDSearch      = "search"
	IDTagExplorer = "tag-explorer"
	IDTagList     = "tag-list"
	IDModal       = "modal"
	IDAboutUs     = "about-us"
)

// Deps 组件依赖
type Deps struct {
	Notes    service.NoteService
	Tags     service.TagService
	Users    service.UserService
	Validate *validator.Validate
	// LoginLimiter limits login attempts per client ip, nil disables the limit
	LoginLimiter *limiter.KeyLimiter
	PageSize     int
	Logger       *zap.Logger
}

// Components builds and rebuilds the component tree of a session
// Components 构建并重建会话的组件树
type Components struct {
	deps Deps
}

// New 创建组件工厂
func New(deps Deps) *Components {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Validate == nil {
		deps.Validate = validator.New()
	}
	if deps.PageSize <= 0 {
		deps.PageSize = cba.DefaultPageSize
	}
	return &Components{deps: deps}
}

// Mount builds the root for the session identity once; a tree with content is left untouched
// Mount 为会话构建一次根节点，已有内容的树保持不变
func (c *Components) Mount(ctx context.Context, tree *cba.Tree, state cba.State, identity cba.Identity) error {
	if len(tree.Root().ChildIDs()) > 0 {
		return nil
	}
	return c.BuildRoot(ctx, tree, state, identity)
}

// BuildRoot replaces everything below the root: the login form for anonymous
// sessions, the menu with notes and tags otherwise.
// BuildRoot 重建根节点：匿名会话显示登录表单，否则显示菜单、笔记与标签。
func (c *Components) BuildRoot(ctx context.Context, tree *cba.Tree, state cba.State, identity cba.Identity) error {
	tree.Reset()

	if identity == nil || identity.UID() <= 0 {
		return tree.Add(cba.RootID, c.newLogin())
	}

	layout := cba.NewNode(cba.KindGrid, IDLayout).Append(
		cba.NewNode(cba.KindColumn, IDMain).WithClass("cba-main").Append(c.newNoteView(state)),
		cba.NewNode(cba.KindColumn, IDSidebar).WithClass("cba-sidebar").Append(c.newTagExplorer()),
	)
	for _, n := range []*cba.Node{
		c.newMainMenu(identity.Username()),
		layout,
		cba.NewNode(cba.KindGroup, IDOverlay),
	} {
		if err := tree.Add(cba.RootID, n); err != nil {
			return err
		}
	}

	if err := c.loadNoteView(ctx, tree, state); err != nil {
		return err
	}
	return c.loadTagExplorer(ctx, tree, state)
}

func (c *Components) rebuild(cc *cba.Context) error {
	return c.BuildRoot(cc, cc.Tree, cc.State, cc.Identity)
}

// notify turns a user facing code into a notice; server errors are returned
// notify 将面向用户的错误码转为提示，服务端错误原样返回
func notify(cc *cba.Context, err error) error {
	var ce *code.Code
	if !errors.As(err, &ce) || ce.StatusCode() >= http.StatusInternalServerError {
		return err
	}
	if ce.Status() {
		cc.Success(ce.Lang.In(cc.Lang))
	} else {
		cc.Error(ce.Lang.In(cc.Lang))
	}
	return nil
}

func msg(cc *cba.Context, c *code.Code) string {
	return c.Lang.In(cc.Lang)
}
