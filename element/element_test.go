package element

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"hydro/network"
)

// 测试模型：接收一个节点的值，乘以系数后按表格分配到按名称绑定的出口。
var sampleType = AddElement(100, &Config{
	Name: "Sample",
	Parameters: []Parameter{
		{Name: "k", Span: AtLeast(0), Init: []float64{1}},
		{Name: "monthly", NDim: 1, Monthly: true, Span: Unbounded, Init: []float64{0}},
		{Name: "table", NDim: 2, Span: Between(0, 1)},
	},
	Derived: []Derived{
		{Name: "rows", Update: func(node *Node, _ network.Time) []float64 {
			return []float64{float64(len(node.Rows(2)))}
		}},
	},
	Sequences: []Sequence{
		{Name: "last", Kind: KindLog, Size: 1},
		{Name: "scaled", Kind: KindFactor, Size: 1},
		{Name: "outs", Kind: KindFlux, SizeOf: func(node *Node) int { return len(node.Rows(2)) }},
	},
	Links: []Link{
		{Name: "in", Kind: LinkReceiver, Count: 1},
		{Name: "out", Kind: LinkOutlet, Names: func(node *Node) []string { return node.Keys(2) }},
	},
	Receive: []Method{{
		Name: "pick_last",
		Call: func(net network.Network, _ network.Time, node *Node) error {
			node.Seq(0)[0] = node.LinkValue(net, 0, 0)
			return nil
		},
		Requires: []string{"receivers.in"},
		Updates:  []string{"logs.last"},
	}},
	Run: []Method{{
		Name: "calc_scaled",
		Call: func(_ network.Network, _ network.Time, node *Node) error {
			node.Seq(1)[0] = node.Seq(0)[0] * node.Param(0)
			return nil
		},
		Requires: []string{"parameters.k", "logs.last"},
		Updates:  []string{"factors.scaled"},
	}, {
		Name: "calc_outs",
		Call: func(_ network.Network, _ network.Time, node *Node) error {
			for i, row := range node.Rows(2) {
				node.Seq(2)[i] = node.Seq(1)[0] * row[0]
			}
			return nil
		},
		Requires: []string{"parameters.table", "derived.rows", "factors.scaled"},
		Updates:  []string{"fluxes.outs"},
	}},
	Outlet: []Method{{
		Name: "pass_outs",
		Call: func(net network.Network, _ network.Time, node *Node) error {
			for i, id := range node.LinkIDs(1) {
				net.AddValue(id, node.Seq(2)[i])
			}
			return nil
		},
		Requires: []string{"fluxes.outs"},
		Updates:  []string{"outlets.out"},
	}},
	Interfaces: []Interface{{Name: "scaled", Sequence: "scaled"}, {Name: "outs", Sequence: "outs"}},
})

func newSample(t *testing.T) (*Node, *network.Nodes, *network.Calendar) {
	t.Helper()
	nodes, err := network.NewNodes("src", "a", "b", "c")
	require.NoError(t, err)
	cal, err := network.NewCalendar(time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC), time.Hour, 2)
	require.NoError(t, err)
	node, err := NewElement("sample", "p1")
	require.NoError(t, err)
	require.NoError(t, node.SetTable("table", []string{"b", "a"}, [][]float64{{0.25}, {0.75}}))
	node.Connect(LinkReceiver, 0)
	node.Connect(LinkOutlet, 1, 2, 3)
	return node, nodes, cal
}

func TestSpan(t *testing.T) {
	require.True(t, Unbounded.Contains(math.Inf(-1)))
	require.False(t, Unbounded.Contains(math.NaN()))
	require.True(t, AtLeast(0).Contains(0))
	require.False(t, Above(0).Contains(0))
	require.True(t, Above(0).Contains(1e-12))
	require.False(t, Between(0, 1).Contains(1.5))
	require.False(t, Span{Lower: 0, Upper: 1, UpperOpen: true}.Contains(1))
	require.Equal(t, "(0, 1]", Span{Lower: 0, Upper: 1, LowerOpen: true}.String())
}

func TestRegistry(t *testing.T) {
	nodeType, err := Lookup("SAMPLE")
	require.NoError(t, err)
	require.Equal(t, sampleType, nodeType)
	require.Equal(t, "Sample", nodeType.String())
	require.Contains(t, Models(), "sample")

	_, err = NewElement("nothing", "x")
	require.ErrorIs(t, err, ErrUnknownModel)
	_, err = NewElementType(NodeType(9999), "x")
	require.ErrorIs(t, err, ErrUnknownModel)
}

func TestSetParameter(t *testing.T) {
	node, _, _ := newSample(t)

	require.ErrorIs(t, node.SetParameter("k", -1), ErrOutOfSpan)
	require.ErrorIs(t, node.SetParameter("k", math.NaN()), ErrOutOfSpan)
	require.ErrorIs(t, node.SetParameter("k", 1, 2), ErrShape)
	require.ErrorIs(t, node.SetParameter("nothing", 1), ErrUnknownParameter)
	require.ErrorIs(t, node.SetParameter("table", 1), ErrShape)
	require.NoError(t, node.SetParameter("k", 2))
	require.Equal(t, 2.0, node.Param(0))

	// 按月参数：1个值扩展到12个月
	v, ok := node.Parameter("monthly")
	require.True(t, ok)
	require.Len(t, v.Data, 12)
	require.NoError(t, node.SetParameter("monthly", 3))
	require.Equal(t, 3.0, node.Vector(1)[11])
	require.ErrorIs(t, node.SetParameter("monthly", 1, 2), ErrShape)

	// 返回值是副本
	v, _ = node.Parameter("monthly")
	v.Data[0] = 100
	require.Equal(t, 3.0, node.Vector(1)[0])

	var cfg *ConfigError
	err := node.SetParameter("k", -1)
	require.ErrorAs(t, err, &cfg)
	require.Equal(t, "p1", cfg.Element)
	require.Equal(t, "k", cfg.Name)
}

func TestSetTable(t *testing.T) {
	node, _, _ := newSample(t)
	require.ErrorIs(t, node.SetTable("table", []string{"a", "a"}, [][]float64{{0}, {0}}), ErrShape)
	require.ErrorIs(t, node.SetTable("table", []string{"a"}, [][]float64{{0}, {0}}), ErrShape)
	require.ErrorIs(t, node.SetTable("table", []string{""}, [][]float64{{0}}), ErrShape)
	require.ErrorIs(t, node.SetTable("table", []string{"a"}, [][]float64{{2}}), ErrOutOfSpan)
	require.ErrorIs(t, node.SetTable("k", []string{"a"}, [][]float64{{0}}), ErrShape)
}

func TestUnsetParameter(t *testing.T) {
	nodes, err := network.NewNodes("src")
	require.NoError(t, err)
	cal, err := network.NewCalendar(time.Now(), time.Hour, 1)
	require.NoError(t, err)
	node, err := NewElementType(sampleType, "p2")
	require.NoError(t, err)
	require.ErrorIs(t, node.Prepare(nodes, cal), ErrUnset)
}

func TestPipeline(t *testing.T) {
	node, nodes, cal := newSample(t)
	require.ErrorIs(t, CallMark(MarkReceive, nodes, cal, []*Node{node}), ErrNotReady)
	require.NoError(t, node.SetParameter("k", 2))
	require.NoError(t, CallMark(MarkReset, nodes, cal, []*Node{node}))
	require.Equal(t, []float64{2}, node.Derived[0])

	nodes.SetValue(0, 4)
	nodes.SetValue(1, 100)
	nodes.BeginStep(0)
	require.NoError(t, CallMark(MarkReceive, nodes, cal, []*Node{node}))
	nodes.ClearOutlets()
	require.Equal(t, 0.0, nodes.GetValue(1), "出口节点在接收之后清零")
	require.Equal(t, 4.0, nodes.GetValue(0))

	for _, mark := range []Mark{MarkInlet, MarkRun, MarkOutlet, MarkSend} {
		require.NoError(t, CallMark(mark, nodes, cal, []*Node{node}))
	}
	// 表格按名称绑定：b 得到 0.25，a 得到 0.75，c 不变
	require.InDelta(t, 6.0, nodes.GetValue(1), 1e-12)
	require.InDelta(t, 2.0, nodes.GetValue(2), 1e-12)
	require.Equal(t, 0.0, nodes.GetValue(3))

	scaled, err := node.Get("scaled")
	require.NoError(t, err)
	require.Equal(t, 8.0, scaled)

	// 接收阶段开始时非日志序列被清空，日志序列保留
	nodes.SetValue(0, math.NaN())
	node.clearTransient()
	last, _ := node.Sequence("last")
	require.Equal(t, []float64{4}, last)
	scaledSeq, _ := node.Sequence("scaled")
	require.True(t, math.IsNaN(scaledSeq[0]))
}

func TestBinding(t *testing.T) {
	node, nodes, cal := newSample(t)
	require.NoError(t, node.Prepare(nodes, cal))
	require.Equal(t, []network.NodeID{2, 1}, node.LinkIDs(1))

	// 连接节点不变时保留名称索引
	node.links[1].index["marker"] = 0
	require.NoError(t, node.Prepare(nodes, cal))
	require.Contains(t, node.links[1].index, "marker")

	// 连接节点改变时重建名称索引
	node.SetConnections(LinkOutlet, 3, 2, 1)
	require.False(t, node.Ready())
	require.NoError(t, node.Prepare(nodes, cal))
	require.NotContains(t, node.links[1].index, "marker")
	require.Equal(t, []network.NodeID{2, 1}, node.LinkIDs(1))
	require.Equal(t, []network.NodeID{3, 2, 1}, node.Connections(LinkOutlet))
	require.Equal(t, []network.NodeID{1, 2}, nodes.Outlets())

	// 缺失名称同时指明元件和节点
	node.SetConnections(LinkOutlet, 3, 2)
	err := node.Prepare(nodes, cal)
	require.ErrorIs(t, err, ErrBinding)
	var cfg *ConfigError
	require.ErrorAs(t, err, &cfg)
	require.Equal(t, "p1", cfg.Element)
	require.Equal(t, "a", cfg.Name)
	require.False(t, node.Ready())
	require.Empty(t, nodes.Outlets(), "绑定失败时不保留旧的出口节点")

	// 按位置绑定检查连接数量
	node.SetConnections(LinkOutlet, 1, 2)
	node.SetConnections(LinkReceiver)
	require.ErrorIs(t, node.Prepare(nodes, cal), ErrConnection)
}

func TestDetermine(t *testing.T) {
	node, nodes, cal := newSample(t)
	require.NoError(t, node.Prepare(nodes, cal))
	require.ErrorIs(t, node.Determine(nodes, cal, "scaled"), ErrUnknownInterface)
	require.ErrorIs(t, node.Determine(nodes, cal, "nothing"), ErrUnknownInterface)
	_, err := node.GetVector("nothing")
	require.ErrorIs(t, err, ErrUnknownInterface)

	// 向量接口只能通过 GetVector 读取
	_, err = node.Get("outs")
	require.ErrorIs(t, err, ErrShape)
	outs, err := node.GetVector("outs")
	require.NoError(t, err)
	require.Len(t, outs, 2)
}
