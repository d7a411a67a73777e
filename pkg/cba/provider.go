package cba

import (
	"context"
)

// Cell is one table cell: plain text or an interactive node
// Cell 表格单元格：纯文本或可交互节点
type Cell struct {
	Text string
	Node *Node
}

// Row 行描述
type Row struct {
	// ID is opaque, element ids are built as <action>-<ID>
	ID       string
	Class    string
	Selected bool
	Cells    []Cell
}

// DataProvider supplies the row count and row slices of a table
// DataProvider 为表格提供行数与分页行数据
type DataProvider interface {
	// TotalRows reflects the provider's filter at call time
	TotalRows(ctx context.Context) (int, error)
	// GetRows returns rows [start, end), clamped to [0, total]
	GetRows(ctx context.Context, start, end int) ([]Row, error)
	// Headers 列标题，生命周期内不变
	Headers() []string
}

// ClampRange limits [start, end) to [0, total]; inverted ranges become empty
// ClampRange 将 [start, end) 限制在 [0, total] 内，反向区间为空
func ClampRange(start, end, total int) (int, int) {
	if total < 0 {
		total = 0
	}
	clamp := func(v int) int {
		if v < 0 {
			return 0
		}
		if v > total {
			return total
		}
		return v
	}
	start, end = clamp(start), clamp(end)
	if end < start {
		end = start
	}
	return start, end
}
