package cba

import (
	"github.com/pkg/errors"
)

const (
	// ConfirmHandler 确认按钮的处理器名称
	ConfirmHandler = "confirm"
	// DeclineHandler 取消按钮的处理器名称
	DeclineHandler = "decline"
)

// NewModal creates a dialog closed by its decline button
// NewModal 创建模态框，点击关闭按钮移除
func NewModal(id, title string, body ...*Node) *Node {
	n := NewNode(KindModal, id).WithLabel(title)
	n.Append(body...)
	n.Append(NewNode(KindButton, id+"-decline").WithText("Close").WithClass("cba-secondary").On("click", DeclineHandler))
	n.Handle(DeclineHandler, func(c *Context) error {
		return c.Tree.Remove(id)
	})
	return n
}

// NewConfirmModal creates a yes/no dialog. Confirming invokes continuation on the
// nearest ancestor of the modal with the event value set to value; declining only
// removes the modal.
// NewConfirmModal 创建确认框。确认时在模态框最近的祖先上调用 continuation，事件值为 value；取消时仅移除模态框。
func NewConfirmModal(id, text, continuation, value string) *Node {
	n := NewNode(KindConfirmModal, id).WithText(text).WithValue(value)
	n.Continuation = continuation
	n.Append(
		NewNode(KindButton, id+"-confirm").WithText("Yes").On("click", ConfirmHandler),
		NewNode(KindButton, id+"-decline").WithText("No").WithClass("cba-secondary").On("click", DeclineHandler),
	)
	n.Handle(ConfirmHandler, func(c *Context) error {
		fn, _, err := c.Tree.Resolve(n.Parent(), n.Continuation)
		if err != nil {
			return errors.Wrapf(err, "confirm modal %q", id)
		}
		c.Event.Value = n.Value
		if err := fn(c); err != nil {
			return err
		}
		if _, still := c.Tree.Find(id); still {
			return c.Tree.Remove(id)
		}
		return nil
	})
	n.Handle(DeclineHandler, func(c *Context) error {
		return c.Tree.Remove(id)
	})
	return n
}
