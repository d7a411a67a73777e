package cba

import (
	"strconv"

	"github.com/pkg/errors"
)

// RootID 根节点 ID
const RootID = "root"

var (
	// ErrComponentNotFound 组件不存在
	ErrComponentNotFound = errors.New("cba: component not found")
	// ErrDuplicateID 组件 ID 已被占用
	ErrDuplicateID = errors.New("cba: duplicate component id")
	// ErrHandlerNotFound 事件处理器不存在
	ErrHandlerNotFound = errors.New("cba: handler not found")
	// ErrRootNode 根节点不能被替换或删除
	ErrRootNode = errors.New("cba: root node cannot be replaced or removed")
)

// Tree is an arena of nodes keyed by id. Parent and child links are ids.
// Tree 是按 ID 索引的节点池，父子关系以 ID 保存。
//
// A Tree is not safe for concurrent use; callers serialize access per session.
// Tree 不是并发安全的，调用方需按会话串行访问。
type Tree struct {
	nodes    map[string]*Node
	handlers map[string]map[string]HandlerFunc
	counter  int

	dirty      map[string]struct{}
	dirtyOrder []string
	removed    []removal
}

type removal struct {
	id     string
	parent string
}

// NewTree 创建只含根节点的树
func NewTree() *Tree {
	t := &Tree{
		nodes:    make(map[string]*Node),
		handlers: make(map[string]map[string]HandlerFunc),
		dirty:    make(map[string]struct{}),
	}
	root := NewNode(KindGroup, RootID)
	root.attached = true
	t.nodes[RootID] = root
	return t
}

// Root 返回根节点
func (t *Tree) Root() *Node {
	return t.nodes[RootID]
}

// Find 按 ID 查找节点
func (t *Tree) Find(id string) (*Node, bool) {
	n, ok := t.nodes[id]
	return n, ok
}

// Len 返回树中节点数量（含根节点）
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Children 返回子节点，按顺序
func (t *Tree) Children(id string) []*Node {
	n, ok := t.nodes[id]
	if !ok {
		return nil
	}
	out := make([]*Node, 0, len(n.children))
	for _, cid := range n.children {
		out = append(out, t.nodes[cid])
	}
	return out
}

// Ancestors returns the ids from the parent of id up to the root
// Ancestors 返回从父节点到根节点的 ID
func (t *Tree) Ancestors(id string) []string {
	var out []string
	n, ok := t.nodes[id]
	for ok && n.parent != "" {
		out = append(out, n.parent)
		n, ok = t.nodes[n.parent]
	}
	return out
}

// Add adopts node (and its detached children) as the last child of parentID
// Add 将节点（及其游离子节点）作为 parentID 的最后一个子节点加入树
func (t *Tree) Add(parentID string, node *Node) error {
	parent, ok := t.nodes[parentID]
	if !ok {
		return errors.Wrapf(ErrComponentNotFound, "add to %q", parentID)
	}
	if err := t.checkIDs(node, nil); err != nil {
		return err
	}
	t.adopt(parentID, node)
	parent.children = append(parent.children, node.id)
	return nil
}

// Replace puts node at the position of oldID; the old subtree leaves the tree
// Replace 将节点放到 oldID 的位置，旧子树从树中移除
func (t *Tree) Replace(oldID string, node *Node) error {
	if oldID == RootID {
		return ErrRootNode
	}
	old, ok := t.nodes[oldID]
	if !ok {
		return errors.Wrapf(ErrComponentNotFound, "replace %q", oldID)
	}

	leaving := make(map[string]struct{})
	t.walk(oldID, func(id string) { leaving[id] = struct{}{} })
	if err := t.checkIDs(node, leaving); err != nil {
		return err
	}

	parent := t.nodes[old.parent]
	index := indexOf(parent.children, oldID)
	t.detach(oldID)

	t.adopt(parent.id, node)
	parent.children[index] = node.id
	if node.id != oldID {
		t.removed = append(t.removed, removal{id: oldID, parent: parent.id})
	}
	return nil
}

// Remove detaches and discards the subtree rooted at id
// Remove 移除以 id 为根的子树
func (t *Tree) Remove(id string) error {
	if id == RootID {
		return ErrRootNode
	}
	n, ok := t.nodes[id]
	if !ok {
		return errors.Wrapf(ErrComponentNotFound, "remove %q", id)
	}
	parent := t.nodes[n.parent]
	parent.children = removeString(parent.children, id)
	t.detach(id)
	t.removed = append(t.removed, removal{id: id, parent: parent.id})
	return nil
}

// Clear removes all children of id
// Clear 移除 id 的所有子节点
func (t *Tree) Clear(id string) error {
	n, ok := t.nodes[id]
	if !ok {
		return errors.Wrapf(ErrComponentNotFound, "clear %q", id)
	}
	for _, cid := range n.children {
		t.detach(cid)
	}
	n.children = nil
	return nil
}

// Handle registers fn under name for the node id
// Handle 为节点注册处理器
func (t *Tree) Handle(nodeID, name string, fn HandlerFunc) error {
	if _, ok := t.nodes[nodeID]; !ok {
		return errors.Wrapf(ErrComponentNotFound, "handle %q on %q", name, nodeID)
	}
	if t.handlers[nodeID] == nil {
		t.handlers[nodeID] = make(map[string]HandlerFunc)
	}
	t.handlers[nodeID][name] = fn
	return nil
}

// Resolve finds the handler name on id or the nearest ancestor that registered it
// Resolve 在 id 或最近的祖先上查找处理器
func (t *Tree) Resolve(id, name string) (HandlerFunc, string, error) {
	if _, ok := t.nodes[id]; !ok {
		return nil, "", errors.Wrapf(ErrComponentNotFound, "resolve %q", id)
	}
	for _, cur := range append([]string{id}, t.Ancestors(id)...) {
		if fn, ok := t.handlers[cur][name]; ok {
			return fn, cur, nil
		}
	}
	return nil, "", errors.Wrapf(ErrHandlerNotFound, "%q from %q", name, id)
}

// Refresh marks the subtree of id for re-rendering, unknown ids are ignored
// Refresh 标记 id 的子树需要重新渲染，未知 ID 忽略
func (t *Tree) Refresh(ids ...string) {
	for _, id := range ids {
		if _, ok := t.nodes[id]; !ok {
			continue
		}
		if _, ok := t.dirty[id]; ok {
			continue
		}
		t.dirty[id] = struct{}{}
		t.dirtyOrder = append(t.dirtyOrder, id)
	}
}

// RefreshAll 标记整棵树需要重新渲染
func (t *Tree) RefreshAll() {
	t.Refresh(RootID)
}

// IsDirty reports whether id or one of its ancestors is marked
// IsDirty 判断 id 或其祖先是否已标记
func (t *Tree) IsDirty(id string) bool {
	if _, ok := t.dirty[id]; ok {
		return true
	}
	for _, a := range t.Ancestors(id) {
		if _, ok := t.dirty[a]; ok {
			return true
		}
	}
	return false
}

// Dirty returns the marked ids still in the tree whose ancestors are not marked, in marking order
// Dirty 返回仍在树中、且祖先未被标记的已标记 ID，按标记顺序
func (t *Tree) Dirty() []string {
	var out []string
	for _, id := range t.dirtyOrder {
		if _, ok := t.nodes[id]; !ok {
			continue
		}
		covered := false
		for _, a := range t.Ancestors(id) {
			if _, ok := t.dirty[a]; ok {
				covered = true
				break
			}
		}
		if !covered {
			out = append(out, id)
		}
	}
	return out
}

// Removed returns ids that left the tree and are not covered by a dirty ancestor
// Removed 返回已离开树、且未被脏祖先覆盖的 ID
func (t *Tree) Removed() []string {
	var out []string
	seen := make(map[string]struct{})
	for _, r := range t.removed {
		if _, ok := seen[r.id]; ok {
			continue
		}
		if _, back := t.nodes[r.id]; back {
			continue
		}
		if _, ok := t.nodes[r.parent]; !ok || t.IsDirty(r.parent) {
			continue
		}
		seen[r.id] = struct{}{}
		out = append(out, r.id)
	}
	return out
}

// ResetDirty 清空脏标记与移除记录
func (t *Tree) ResetDirty() {
	t.dirty = make(map[string]struct{})
	t.dirtyOrder = nil
	t.removed = nil
}

// Reset removes everything below the root and marks the root dirty
// Reset 移除根节点下的所有节点并标记根节点
func (t *Tree) Reset() {
	_ = t.Clear(RootID)
	t.RefreshAll()
}

func (t *Tree) walk(id string, fn func(id string)) {
	n, ok := t.nodes[id]
	if !ok {
		return
	}
	fn(id)
	for _, cid := range n.children {
		t.walk(cid, fn)
	}
}

func (t *Tree) detach(id string) {
	var ids []string
	t.walk(id, func(id string) { ids = append(ids, id) })
	for _, cur := range ids {
		if n, ok := t.nodes[cur]; ok {
			n.attached = false
		}
		delete(t.nodes, cur)
		delete(t.handlers, cur)
		if _, ok := t.dirty[cur]; ok {
			delete(t.dirty, cur)
			t.dirtyOrder = removeString(t.dirtyOrder, cur)
		}
	}
}

// assignIDs gives automatic ids to anonymous nodes of a detached subtree
func (t *Tree) assignIDs(n *Node) {
	if n.id == "" {
		for {
			t.counter++
			id := "c" + strconv.Itoa(t.counter)
			if _, taken := t.nodes[id]; !taken {
				n.id = id
				break
			}
		}
	}
	for _, c := range n.pending {
		t.assignIDs(c)
	}
}

func (t *Tree) checkIDs(n *Node, leaving map[string]struct{}) error {
	if n == nil {
		return errors.New("cba: nil node")
	}
	if n.attached {
		return errors.Wrapf(ErrDuplicateID, "%q is already in a tree", n.id)
	}
	t.assignIDs(n)

	seen := make(map[string]struct{})
	var check func(*Node) error
	check = func(cur *Node) error {
		if _, dup := seen[cur.id]; dup {
			return errors.Wrapf(ErrDuplicateID, "%q", cur.id)
		}
		seen[cur.id] = struct{}{}
		if _, taken := t.nodes[cur.id]; taken {
			if _, ok := leaving[cur.id]; !ok {
				return errors.Wrapf(ErrDuplicateID, "%q", cur.id)
			}
		}
		for _, c := range cur.pending {
			if err := check(c); err != nil {
				return err
			}
		}
		return nil
	}
	return check(n)
}

func (t *Tree) adopt(parentID string, n *Node) {
	n.parent = parentID
	n.attached = true
	t.nodes[n.id] = n
	if len(n.handlers) > 0 {
		t.handlers[n.id] = n.handlers
		n.handlers = nil
	}
	pending := n.pending
	n.pending = nil
	for _, c := range pending {
		t.adopt(n.id, c)
		n.children = append(n.children, c.id)
	}
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}

func removeString(list []string, s string) []string {
	out := list[:0]
	for _, v := range list {
		if v != s {
			out = append(out, v)
		}
	}
	return out
}
