package base

import (
	"testing"
	gotime "time"

	"hydro/network"
)

// newCalendar 创建从指定月份开始、按天推进的时间网格。
func newCalendar(t *testing.T, month gotime.Month, steps int) *network.Calendar {
	t.Helper()
	cal, err := network.NewCalendar(gotime.Date(2000, month, 1, 0, 0, 0, 0, gotime.UTC), 24*gotime.Hour, steps)
	if err != nil {
		t.Fatalf("创建时间网格失败 %s", err)
	}
	return cal
}

// newNodes 创建节点网络。
func newNodes(t *testing.T, names ...string) *network.Nodes {
	t.Helper()
	nodes, err := network.NewNodes(names...)
	if err != nil {
		t.Fatalf("创建节点失败 %s", err)
	}
	return nodes
}

// ids 按名称查找节点索引。
func ids(t *testing.T, nodes *network.Nodes, names ...string) []network.NodeID {
	t.Helper()
	out := make([]network.NodeID, len(names))
	for i, name := range names {
		id, err := nodes.MustLookup(name)
		if err != nil {
			t.Fatalf("%s", err)
		}
		out[i] = id
	}
	return out
}

// series 为节点设置输入序列。
func series(t *testing.T, nodes *network.Nodes, name string, values ...float64) {
	t.Helper()
	if err := nodes.SetSeries(ids(t, nodes, name)[0], values); err != nil {
		t.Fatalf("%s", err)
	}
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
