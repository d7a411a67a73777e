package cba

import (
	"context"
	"mime/multipart"
)

// HandlerFunc 事件处理器
type HandlerFunc func(c *Context) error

// Identity is the authentication state of the session behind a request
// Identity 请求所属会话的认证状态
type Identity interface {
	UID() int64
	Username() string
	Login(uid int64, username string)
	Logout()
}

// Event is one browser event addressed to a component
// Event 发往某个组件的浏览器事件
type Event struct {
	ComponentID string
	Name        string
	Value       string
	// Values holds the current value(s) of every input component, keyed by component id
	Values map[string][]string
	Files  map[string][]*multipart.FileHeader
}

// MessageType 提示类型
type MessageType string

const (
	MessageSuccess MessageType = "success"
	MessageError   MessageType = "error"
	MessageInfo    MessageType = "info"
)

// Message 一条用户提示
type Message struct {
	Type MessageType `json:"type"`
	Text string      `json:"text"`
}

// Context is passed to every handler invocation
// Context 每次调用处理器时传入
type Context struct {
	context.Context

	Tree     *Tree
	State    State
	Identity Identity
	Event    Event
	ClientIP string
	// Lang selects the language of notices, empty for the default
	Lang     string

	messages []Message
	reload   bool
}

// NewContext 创建处理器上下文
func NewContext(ctx context.Context, tree *Tree, state State, identity Identity, event Event) *Context {
	if event.Values == nil {
		event.Values = make(map[string][]string)
	}
	return &Context{
		Context:  ctx,
		Tree:     tree,
		State:    state,
		Identity: identity,
		Event:    event,
	}
}

// IsAuthenticated 会话用户是否已登录
func (c *Context) IsAuthenticated() bool {
	return c.Identity != nil && c.Identity.UID() > 0
}

// UID 返回会话用户 ID，匿名为 0
func (c *Context) UID() int64 {
	if c.Identity == nil {
		return 0
	}
	return c.Identity.UID()
}

func (c *Context) Success(text string) {
	c.messages = append(c.messages, Message{Type: MessageSuccess, Text: text})
}

func (c *Context) Error(text string) {
	c.messages = append(c.messages, Message{Type: MessageError, Text: text})
}

func (c *Context) Info(text string) {
	c.messages = append(c.messages, Message{Type: MessageInfo, Text: text})
}

// Messages 返回本次事件产生的提示
func (c *Context) Messages() []Message {
	return c.messages
}

// Reload asks the browser to load the page again
// Reload 要求浏览器重新加载页面
func (c *Context) Reload() {
	c.reload = true
}

// FormValue returns the first submitted value of the input id
// FormValue 返回输入组件 id 提交的第一个值
func (c *Context) FormValue(id string) string {
	if vs := c.Event.Values[id]; len(vs) > 0 {
		return vs[0]
	}
	if n, ok := c.Tree.Find(id); ok {
		return n.Value
	}
	return ""
}

// FormValues 返回输入组件 id 提交的所有值
func (c *Context) FormValues(id string) []string {
	if vs, ok := c.Event.Values[id]; ok {
		return vs
	}
	if n, ok := c.Tree.Find(id); ok {
		return n.Values
	}
	return nil
}

// Files 返回文件输入组件 id 上传的文件
func (c *Context) Files(id string) []*multipart.FileHeader {
	return c.Event.Files[id]
}
