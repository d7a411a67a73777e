package cba

import (
	"context"
	"strconv"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

// sliceProvider 测试用的内存数据源
type sliceProvider struct {
	titles   []string
	selected string
}

func (p *sliceProvider) TotalRows(ctx context.Context) (int, error) {
	return len(p.titles), nil
}

func (p *sliceProvider) GetRows(ctx context.Context, start, end int) ([]Row, error) {
	start, end = ClampRange(start, end, len(p.titles))
	rows := make([]Row, 0, end-start)
	for i := start; i < end; i++ {
		id := strconv.Itoa(i + 1)
		rows = append(rows, Row{
			ID:       id,
			Selected: id == p.selected,
			Cells: []Cell{
				{Text: p.titles[i]},
				{Node: NewNode(KindButton, "delete-note-"+id).WithText("x").On("click", "handle_delete_note")},
			},
		})
	}
	return rows, nil
}

func (p *sliceProvider) Headers() []string {
	return []string{"Title", ""}
}

func TestClampRange(t *testing.T) {
	cases := []struct {
		start, end, total int
		wantStart, wantEnd int
	}{
		{0, 10, 3, 0, 3},
		{2, 1, 3, 2, 2},
		{5, 8, 3, 3, 3},
		{-4, 2, 3, 0, 2},
		{0, 0, 0, 0, 0},
	}
	for _, c := range cases {
		s, e := ClampRange(c.start, c.end, c.total)
		assert.Equal(t, c.wantStart, s, "%+v", c)
		assert.Equal(t, c.wantEnd, e, "%+v", c)
	}
}

func TestProperty_GetRowsCount(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 300
	properties := gopter.NewProperties(parameters)

	min := func(a, b int) int {
		if a < b {
			return a
		}
		return b
	}

	properties.Property("get_rows(start,end) returns min(end,N)-min(start,N) rows", prop.ForAll(
		func(n, start, length int) bool {
			titles := make([]string, n)
			p := &sliceProvider{titles: titles}
			end := start + length
			rows, err := p.GetRows(context.Background(), start, end)
			if err != nil {
				return false
			}
			return len(rows) == min(end, n)-min(start, n)
		},
		gen.IntRange(0, 60),
		gen.IntRange(0, 80),
		gen.IntRange(0, 80),
	))

	properties.Property("clamped range stays within [0,total] and is never inverted", prop.ForAll(
		func(start, end, total int) bool {
			s, e := ClampRange(start, end, total)
			return s >= 0 && e >= s && e <= total && s <= total
		},
		gen.IntRange(-50, 150),
		gen.IntRange(-50, 150),
		gen.IntRange(0, 100),
	))

	properties.TestingRun(t)
}
