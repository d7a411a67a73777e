package cba

import (
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTree(t *testing.T) *Tree {
	t.Helper()
	tree := NewTree()
	require.NoError(t, tree.Add(RootID, NewNode(KindGroup, "main").Append(
		NewNode(KindGroup, "note-view").Append(
			NewNode(KindTextInput, "search"),
			NewNode(KindHTML, "note-detail"),
		),
	)))
	require.NoError(t, tree.Add(RootID, NewNode(KindList, "tag-explorer")))
	return tree
}

func TestTree_AddAndFind(t *testing.T) {
	tree := buildTree(t)

	n, ok := tree.Find("search")
	require.True(t, ok)
	assert.Equal(t, "note-view", n.Parent())
	assert.Equal(t, []string{"note-view", "main", RootID}, tree.Ancestors("search"))
	assert.Equal(t, []string{"main", "tag-explorer"}, tree.Root().ChildIDs())
	assert.Equal(t, 6, tree.Len())
}

func TestTree_AutoIDs(t *testing.T) {
	tree := NewTree()
	a := NewNode(KindText, "")
	b := NewNode(KindText, "")
	require.NoError(t, tree.Add(RootID, NewNode(KindGroup, "").Append(a, b)))

	assert.NotEmpty(t, a.ID())
	assert.NotEqual(t, a.ID(), b.ID())
	_, ok := tree.Find(a.ID())
	assert.True(t, ok)
}

func TestTree_DuplicateID(t *testing.T) {
	tree := buildTree(t)

	err := tree.Add("main", NewNode(KindText, "search"))
	assert.ErrorIs(t, err, ErrDuplicateID)

	err = tree.Add("main", NewNode(KindGroup, "x").Append(NewNode(KindText, "y"), NewNode(KindText, "y")))
	assert.ErrorIs(t, err, ErrDuplicateID)
	_, ok := tree.Find("x")
	assert.False(t, ok, "failed add must not leave partial nodes")
}

func TestTree_UnknownIDs(t *testing.T) {
	tree := buildTree(t)

	assert.ErrorIs(t, tree.Add("nope", NewNode(KindText, "a")), ErrComponentNotFound)
	assert.ErrorIs(t, tree.Replace("nope", NewNode(KindText, "a")), ErrComponentNotFound)
	assert.ErrorIs(t, tree.Remove("nope"), ErrComponentNotFound)
	assert.ErrorIs(t, tree.Clear("nope"), ErrComponentNotFound)
	assert.ErrorIs(t, tree.Remove(RootID), ErrRootNode)
	assert.ErrorIs(t, tree.Replace(RootID, NewNode(KindGroup, "r")), ErrRootNode)
}

func TestTree_ReplaceSeversOldSubtree(t *testing.T) {
	tree := buildTree(t)
	require.NoError(t, tree.Handle("note-view", "handle_search", func(c *Context) error { return nil }))

	edit := NewNode(KindForm, "note-edit").Append(NewNode(KindTextInput, "title"))
	require.NoError(t, tree.Replace("note-view", edit))

	for _, id := range []string{"note-view", "search", "note-detail"} {
		_, ok := tree.Find(id)
		assert.False(t, ok, id)
	}
	assert.Equal(t, []string{"note-edit"}, idsOf(tree.Children("main")))
	assert.Equal(t, "main", edit.Parent())

	_, _, err := tree.Resolve("note-edit", "handle_search")
	assert.ErrorIs(t, err, ErrHandlerNotFound, "handlers of the old subtree are dropped")
}

func TestTree_ReplaceKeepsPosition(t *testing.T) {
	tree := buildTree(t)
	require.NoError(t, tree.Replace("main", NewNode(KindGroup, "main2")))
	assert.Equal(t, []string{"main2", "tag-explorer"}, tree.Root().ChildIDs())
}

func TestTree_ReplaceSameID(t *testing.T) {
	tree := buildTree(t)
	require.NoError(t, tree.Replace("note-view", NewNode(KindGroup, "note-view").Append(NewNode(KindTextInput, "search"))))

	_, ok := tree.Find("note-detail")
	assert.False(t, ok)
	_, ok = tree.Find("search")
	assert.True(t, ok)
	assert.Empty(t, tree.Removed(), "same id replacement is delivered as a refresh")
}

func TestTree_RemoveAndClear(t *testing.T) {
	tree := buildTree(t)

	require.NoError(t, tree.Remove("note-detail"))
	assert.Equal(t, []string{"search"}, idsOf(tree.Children("note-view")))
	assert.Equal(t, []string{"note-detail"}, tree.Removed())

	require.NoError(t, tree.Clear("main"))
	_, ok := tree.Find("search")
	assert.False(t, ok)
	assert.Equal(t, 3, tree.Len())
}

func TestTree_ResolveWalksAncestors(t *testing.T) {
	tree := buildTree(t)
	called := ""
	require.NoError(t, tree.Handle("main", "handle_search", func(c *Context) error {
		called = "main"
		return nil
	}))

	fn, owner, err := tree.Resolve("search", "handle_search")
	require.NoError(t, err)
	assert.Equal(t, "main", owner)
	require.NoError(t, fn(nil))
	assert.Equal(t, "main", called)

	// 最近的祖先优先
	require.NoError(t, tree.Handle("note-view", "handle_search", func(c *Context) error { return nil }))
	_, owner, err = tree.Resolve("search", "handle_search")
	require.NoError(t, err)
	assert.Equal(t, "note-view", owner)
}

func TestTree_DirtyIsMinimal(t *testing.T) {
	tree := buildTree(t)

	tree.Refresh("search", "tag-explorer", "note-view", "unknown")
	assert.Equal(t, []string{"tag-explorer", "note-view"}, tree.Dirty())

	tree.RefreshAll()
	assert.Equal(t, []string{RootID}, tree.Dirty())

	tree.ResetDirty()
	assert.Empty(t, tree.Dirty())
}

func TestTree_DirtyDropsRemovedNodes(t *testing.T) {
	tree := buildTree(t)
	tree.Refresh("note-detail", "tag-explorer")
	require.NoError(t, tree.Remove("note-detail"))

	assert.Equal(t, []string{"tag-explorer"}, tree.Dirty())
	assert.Equal(t, []string{"note-detail"}, tree.Removed())

	// 父节点已标记时，不再单独发送移除指令
	tree.Refresh("note-view")
	assert.Empty(t, tree.Removed())
}

func idsOf(nodes []*Node) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.ID())
	}
	return out
}

// 随机树上的脏集合：返回的 ID 互不为祖先，且覆盖所有被标记的节点
func TestProperty_DirtySetMinimalAndCovering(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("dirty set is minimal and covers every marked node", prop.ForAll(
		func(parents []int, marks []int) bool {
			tree := NewTree()
			ids := []string{RootID}
			for i, p := range parents {
				id := fmt.Sprintf("n%d", i)
				if err := tree.Add(ids[p%len(ids)], NewNode(KindGroup, id)); err != nil {
					return false
				}
				ids = append(ids, id)
			}
			marked := make([]string, 0, len(marks))
			for _, m := range marks {
				id := ids[m%len(ids)]
				tree.Refresh(id)
				marked = append(marked, id)
			}

			dirty := tree.Dirty()
			set := make(map[string]bool)
			for _, id := range dirty {
				set[id] = true
			}
			for _, id := range dirty {
				for _, a := range tree.Ancestors(id) {
					if set[a] {
						return false
					}
				}
			}
			for _, id := range marked {
				covered := set[id]
				for _, a := range tree.Ancestors(id) {
					covered = covered || set[a]
				}
				if !covered {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 1000)),
		gen.SliceOf(gen.IntRange(0, 1000)),
	))

	properties.TestingRun(t)
}
