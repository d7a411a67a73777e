// Package cba implements a server side component tree: nodes addressed by id,
// event dispatch to named handlers, and partial re-rendering of dirty subtrees.
// Package cba 实现服务端组件树：按 ID 寻址的节点、按名称分发事件、局部重新渲染脏子树。
package cba

import (
	"html/template"
)

// Kind 节点类型，决定渲染模板
type Kind string

const (
	KindGroup        Kind = "group"
	KindGrid         Kind = "grid"
	KindColumn       Kind = "column"
	KindHeading      Kind = "heading"
	KindText         Kind = "text"
	KindHTML         Kind = "html"
	KindForm         Kind = "form"
	KindTextInput    Kind = "text-input"
	KindPassword     Kind = "password"
	KindTextarea     Kind = "textarea"
	KindHidden       Kind = "hidden"
	KindSelect       Kind = "select"
	KindFileInput    Kind = "file-input"
	KindButton       Kind = "button"
	KindMenu         Kind = "menu"
	KindMenuItem     Kind = "menu-item"
	KindList         Kind = "list"
	KindListItem     Kind = "list-item"
	KindTable        Kind = "table"
	KindTableRow     Kind = "table-row"
	KindTableCell    Kind = "table-cell"
	KindModal        Kind = "modal"
	KindConfirmModal Kind = "confirm-modal"
)

// IsInput reports whether the node carries a value edited by the browser
// IsInput 判断节点是否为浏览器可编辑的输入节点
func (k Kind) IsInput() bool {
	switch k {
	case KindTextInput, KindPassword, KindTextarea, KindHidden, KindSelect:
		return true
	}
	return false
}

// Option 下拉选项
type Option struct {
	Value string
	Label string
}

// Binding maps a browser event to a handler name
// Binding 将浏览器事件映射到处理器名称
type Binding struct {
	Event   string
	Handler string
}

// Node is one addressable component of the tree.
// Structure (parent, children) lives in the Tree arena and is referenced by id.
// Node 是组件树中可寻址的一个组件，结构关系保存在 Tree 中并以 ID 引用。
type Node struct {
	Kind Kind

	Class       string
	Text        string
	Label       string
	Placeholder string
	Value       string
	Values      []string
	Multiple    bool
	Options     []Option
	Error       string
	HTML        template.HTML
	Selected    bool

	// file-input: attachments already stored, Value is the link and Label the name
	// file-input: 已保存的附件，Value 为链接，Label 为文件名
	Existing []Option

	// table
	Provider   DataProvider
	Headers    []string
	Page       int
	PageSize   int
	TotalRows  int
	RowAction  string
	RowBinding Binding

	// confirm modal
	Continuation string

	id       string
	parent   string
	children []string
	bindings []Binding
	attached bool

	pending  []*Node
	handlers map[string]HandlerFunc
}

// NewNode creates a detached node, an empty id is replaced by an automatic one on adoption
// NewNode 创建游离节点，空 ID 在加入树时自动分配
func NewNode(kind Kind, id string) *Node {
	return &Node{Kind: kind, id: id}
}

func (n *Node) ID() string {
	return n.id
}

// Parent 返回父节点 ID，根节点为空
func (n *Node) Parent() string {
	return n.parent
}

// ChildIDs 返回子节点 ID 的副本
func (n *Node) ChildIDs() []string {
	out := make([]string, len(n.children))
	copy(out, n.children)
	return out
}

// Bindings 返回事件绑定的副本
func (n *Node) Bindings() []Binding {
	out := make([]Binding, len(n.bindings))
	copy(out, n.bindings)
	return out
}

// Binding 返回事件对应的处理器名称
func (n *Node) Binding(event string) (string, bool) {
	for _, b := range n.bindings {
		if b.Event == event {
			return b.Handler, true
		}
	}
	return "", false
}

// On binds event to handler, replacing an earlier binding of the same event
// On 绑定事件到处理器，同名事件覆盖之前的绑定
func (n *Node) On(event, handler string) *Node {
	for i, b := range n.bindings {
		if b.Event == event {
			n.bindings[i].Handler = handler
			return n
		}
	}
	n.bindings = append(n.bindings, Binding{Event: event, Handler: handler})
	return n
}

// Handle registers a handler that is moved into the tree handler table on adoption.
// Handle 注册处理器，加入树时迁移到树的处理器表。
func (n *Node) Handle(name string, fn HandlerFunc) *Node {
	if n.handlers == nil {
		n.handlers = make(map[string]HandlerFunc)
	}
	n.handlers[name] = fn
	return n
}

// Append adds detached children, use Tree.Add once the node is in a tree
// Append 添加游离子节点，节点加入树后请使用 Tree.Add
func (n *Node) Append(children ...*Node) *Node {
	if n.attached {
		panic("cba: Append on attached node " + n.id + ", use Tree.Add")
	}
	for _, c := range children {
		if c != nil {
			n.pending = append(n.pending, c)
		}
	}
	return n
}

func (n *Node) WithClass(class string) *Node {
	n.Class = class
	return n
}

func (n *Node) WithText(text string) *Node {
	n.Text = text
	return n
}

func (n *Node) WithLabel(label string) *Node {
	n.Label = label
	return n
}

func (n *Node) WithValue(value string) *Node {
	n.Value = value
	return n
}

func (n *Node) WithHTML(html template.HTML) *Node {
	n.HTML = html
	return n
}

func (n *Node) WithPlaceholder(p string) *Node {
	n.Placeholder = p
	return n
}

// events 返回绑定的事件名称，用于渲染
func (n *Node) events() []string {
	out := make([]string, 0, len(n.bindings))
	for _, b := range n.bindings {
		out = append(out, b.Event)
	}
	return out
}
