package network

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNodesAccess(t *testing.T) {
	nodes, err := NewNodes("a", "b")
	require.NoError(t, err)
	require.Equal(t, 2, nodes.GetNodeNum())

	id, ok := nodes.Lookup("b")
	require.True(t, ok)
	require.Equal(t, NodeID(1), id)
	require.Equal(t, "b", nodes.GetName(id))
	require.Equal(t, "", nodes.GetName(None))

	nodes.SetValue(id, 2)
	nodes.AddValue(id, 0.5)
	require.Equal(t, 2.5, nodes.GetValue(id))
	require.Equal(t, 0.0, nodes.GetValue(NodeID(7)))

	_, err = nodes.AddNode("a")
	require.ErrorIs(t, err, ErrNode)
	_, err = nodes.MustLookup("c")
	require.ErrorIs(t, err, ErrNode)
}

func TestNodesBeginStep(t *testing.T) {
	nodes, err := NewNodes("sum", "input", "plain")
	require.NoError(t, err)
	nodes.SetOutlets("e1", []NodeID{0})
	require.NoError(t, nodes.SetSeries(1, []float64{1, 2}))
	nodes.SetValue(0, 5)
	nodes.SetValue(2, 7)

	// 步长开始时只写入输入序列，出口节点保留上一个步长的值
	nodes.BeginStep(0)
	require.Equal(t, []float64{5, 1, 7}, nodes.Values())
	nodes.ClearOutlets()
	require.Equal(t, []float64{0, 1, 7}, nodes.Values())

	nodes.BeginStep(1)
	require.Equal(t, 2.0, nodes.GetValue(1))

	// 序列结束后保持最后的值
	nodes.BeginStep(5)
	require.Equal(t, 2.0, nodes.GetValue(1))

	require.ErrorIs(t, nodes.SetSeries(9, nil), ErrNode)
}

func TestNodesOutlets(t *testing.T) {
	nodes, err := NewNodes("a", "b", "c")
	require.NoError(t, err)
	nodes.SetOutlets("e1", []NodeID{2, 0})
	nodes.SetOutlets("e2", []NodeID{0, 9})
	require.Equal(t, []NodeID{0, 2}, nodes.Outlets())

	// 重新设置时替换旧的集合
	nodes.SetOutlets("e1", []NodeID{1})
	require.Equal(t, []NodeID{0, 1}, nodes.Outlets())
	nodes.SetValue(2, 3)
	nodes.ClearOutlets()
	require.Equal(t, 3.0, nodes.GetValue(2))

	nodes.SetOutlets("e2", nil)
	require.Equal(t, []NodeID{1}, nodes.Outlets())
}

func TestNodesCheck(t *testing.T) {
	nodes, err := NewNodes("a", "b")
	require.NoError(t, err)
	_, ok := nodes.Check()
	require.True(t, ok)
	nodes.SetValue(1, math.NaN())
	id, ok := nodes.Check()
	require.False(t, ok)
	require.Equal(t, NodeID(1), id)
}

func TestCalendarMonth(t *testing.T) {
	start := time.Date(2000, time.January, 30, 0, 0, 0, 0, time.UTC)
	cal, err := NewCalendar(start, 24*time.Hour, 5)
	require.NoError(t, err)
	require.Equal(t, 5, cal.StepNum())
	require.Equal(t, 0, cal.Month())
	require.Equal(t, 0, cal.MonthOf(1))
	require.Equal(t, 1, cal.MonthOf(2))

	require.NoError(t, cal.SetStep(3))
	require.Equal(t, 3, cal.Step())
	require.Equal(t, 1, cal.Month())
	require.Error(t, cal.SetStep(5))

	_, err = NewCalendar(start, 0, 5)
	require.Error(t, err)
	_, err = NewCalendar(start, time.Hour, 0)
	require.Error(t, err)
}
