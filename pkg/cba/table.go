package cba

import (
	"context"
	"strconv"

	"github.com/pkg/errors"
)

// PageHandler 表格翻页事件的处理器名称
const PageHandler = "cba:page"

// DefaultPageSize 默认每页行数
const DefaultPageSize = 10

// NewTable creates a table node fed by provider; rows get ids <rowAction>-<row id>
// NewTable 创建由 provider 提供数据的表格，行 ID 为 <rowAction>-<row id>
func NewTable(id string, provider DataProvider, pageSize int) *Node {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	n := NewNode(KindTable, id)
	n.Provider = provider
	n.Headers = provider.Headers()
	n.Page = 1
	n.PageSize = pageSize
	n.Handle(PageHandler, func(c *Context) error {
		return turnPage(c, n)
	})
	return n
}

// OnRow binds event of every row to handler
// OnRow 为每一行绑定事件处理器
func (n *Node) OnRow(action, event, handler string) *Node {
	n.RowAction = action
	n.RowBinding = Binding{Event: event, Handler: handler}
	return n
}

// PageCount 总页数，至少为 1
func (n *Node) PageCount() int {
	if n.PageSize <= 0 || n.TotalRows == 0 {
		return 1
	}
	return (n.TotalRows + n.PageSize - 1) / n.PageSize
}

// LoadData materializes the current page of the table as row nodes.
// The page is clamped to the page count of the provider's current total.
// LoadData 将当前页数据生成行节点，页码按当前总行数修正。
func LoadData(ctx context.Context, t *Tree, id string) error {
	n, ok := t.Find(id)
	if !ok {
		return errors.Wrapf(ErrComponentNotFound, "load data %q", id)
	}
	if n.Provider == nil {
		return errors.Errorf("cba: %q has no data provider", id)
	}

	total, err := n.Provider.TotalRows(ctx)
	if err != nil {
		return err
	}
	n.TotalRows = total
	if n.Page > n.PageCount() {
		n.Page = n.PageCount()
	}
	if n.Page < 1 {
		n.Page = 1
	}

	start := (n.Page - 1) * n.PageSize
	rows, err := n.Provider.GetRows(ctx, start, start+n.PageSize)
	if err != nil {
		return err
	}

	if err := t.Clear(id); err != nil {
		return err
	}
	for _, r := range rows {
		if err := t.Add(id, rowNode(n, r)); err != nil {
			return err
		}
	}
	if n.PageCount() > 1 {
		if err := t.Add(id, pagerNode(n)); err != nil {
			return err
		}
	}
	return nil
}

// SetPage changes the page and reloads rows
// SetPage 切换页码并重新加载
func SetPage(ctx context.Context, t *Tree, id string, page int) error {
	n, ok := t.Find(id)
	if !ok {
		return errors.Wrapf(ErrComponentNotFound, "set page %q", id)
	}
	n.Page = page
	return LoadData(ctx, t, id)
}

func rowNode(table *Node, r Row) *Node {
	rowID := ""
	if table.RowAction != "" {
		rowID = table.RowAction + "-" + r.ID
	}
	row := NewNode(KindTableRow, rowID).WithClass(r.Class).WithValue(r.ID)
	row.Selected = r.Selected
	if table.RowBinding.Event != "" {
		row.On(table.RowBinding.Event, table.RowBinding.Handler)
	}
	for _, c := range r.Cells {
		cell := NewNode(KindTableCell, "").WithText(c.Text)
		if c.Node != nil {
			cell.Append(c.Node)
		}
		row.Append(cell)
	}
	return row
}

func pagerNode(table *Node) *Node {
	pager := NewNode(KindGroup, table.ID()+"-pager").WithClass("cba-pager")
	if table.Page > 1 {
		pager.Append(NewNode(KindButton, table.ID()+"-prev").WithText("‹").WithValue("prev").On("click", PageHandler))
	}
	pager.Append(NewNode(KindText, "").WithText(strconv.Itoa(table.Page) + " / " + strconv.Itoa(table.PageCount())))
	if table.Page < table.PageCount() {
		pager.Append(NewNode(KindButton, table.ID()+"-next").WithText("›").WithValue("next").On("click", PageHandler))
	}
	return pager
}

func turnPage(c *Context, table *Node) error {
	page := table.Page
	switch v := c.Event.Value; v {
	case "prev":
		page--
	case "next":
		page++
	default:
		p, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrapf(err, "cba: invalid page %q", v)
		}
		page = p
	}
	if err := SetPage(c, c.Tree, table.ID(), page); err != nil {
		return err
	}
	c.Tree.Refresh(table.ID())
	return nil
}
