package time

import (
	"errors"
	"math"
	"testing"
	gotime "time"

	"github.com/stretchr/testify/require"

	"hydro/element"
	"hydro/network"
)

// 测试模型：接收一个节点的值，计算阶段执行 run 函数，结果发送到发送节点。
var echoType = element.AddElement(200, &element.Config{
	Name: "echo",
	Sequences: []element.Sequence{
		{Name: "in", Kind: element.KindLog, Size: 1},
		{Name: "out", Kind: element.KindFactor, Size: 1},
	},
	Links: []element.Link{
		{Name: "in", Kind: element.LinkReceiver, Count: 1},
		{Name: "out", Kind: element.LinkSender},
	},
	Receive: []element.Method{{
		Name: "pick_in",
		Call: func(net network.Network, _ network.Time, node *element.Node) error {
			node.Seq(0)[0] = node.LinkValue(net, 0, 0)
			return nil
		},
		Requires: []string{"receivers.in"},
		Updates:  []string{"logs.in"},
	}},
	Run: []element.Method{{
		Name: "calc_out",
		Call: func(_ network.Network, _ network.Time, node *element.Node) error {
			v, err := node.Curve.Evaluate(node.Seq(0)[0])
			node.Seq(1)[0] = v
			return err
		},
		Requires: []string{"logs.in"},
		Updates:  []string{"factors.out"},
	}},
	Send: []element.Method{{
		Name: "pass_out",
		Call: func(net network.Network, _ network.Time, node *element.Node) error {
			for _, id := range node.LinkIDs(1) {
				net.SetValue(id, node.Seq(1)[0])
			}
			return nil
		},
		Requires: []string{"factors.out"},
		Updates:  []string{"senders.out"},
	}},
})

func newEcho(t *testing.T, name string, in network.NodeID, out network.NodeID, f func(float64) (float64, error)) *element.Node {
	t.Helper()
	node, err := element.NewElementType(echoType, name)
	require.NoError(t, err)
	node.Connect(element.LinkReceiver, in)
	node.Connect(element.LinkSender, out)
	node.SetCurve(element.CurveFunc(f))
	return node
}

func newHost(t *testing.T, steps int) (*network.Calendar, *network.Nodes) {
	t.Helper()
	cal, err := network.NewCalendar(gotime.Date(2000, 1, 1, 0, 0, 0, 0, gotime.UTC), gotime.Hour, steps)
	require.NoError(t, err)
	nodes, err := network.NewNodes("a", "b", "c")
	require.NoError(t, err)
	return cal, nodes
}

func TestSimulateDelay(t *testing.T) {
	cal, nodes := newHost(t, 4)
	require.NoError(t, nodes.SetSeries(0, []float64{1, 2, 3, 4}))
	double := func(x float64) (float64, error) { return 2 * x, nil }
	// a -> first -> b -> second -> c，发送的值在下一个步长被接收
	first := newEcho(t, "first", 0, 1, double)
	second := newEcho(t, "second", 1, 2, double)

	var b, c []float64
	err := Simulate(cal, nodes, []*element.Node{second, first}, func(step int, values []float64) {
		b = append(b, values[1])
		c = append(c, values[2])
	})
	require.NoError(t, err)
	require.Equal(t, []float64{2, 4, 6, 8}, b)
	require.Equal(t, []float64{0, 4, 8, 12}, c)
}

func TestSimulateErrors(t *testing.T) {
	errEcho := errors.New("echo failed")
	cal, nodes := newHost(t, 3)
	require.NoError(t, nodes.SetSeries(0, []float64{1, -1, 1}))
	failing := newEcho(t, "failing", 0, 1, func(x float64) (float64, error) {
		if x < 0 {
			return 0, errEcho
		}
		return x, nil
	})
	err := Simulate(cal, nodes, []*element.Node{failing}, nil)
	require.ErrorIs(t, err, errEcho)
	var stepErr *StepError
	require.ErrorAs(t, err, &stepErr)
	require.Equal(t, 1, stepErr.Step)
	require.Equal(t, "failing", stepErr.Element)
	require.Equal(t, element.MarkRun, stepErr.Mark)
	require.Contains(t, err.Error(), "run")

	// 节点值无效
	cal, nodes = newHost(t, 2)
	invalid := newEcho(t, "invalid", 0, 2, func(float64) (float64, error) { return math.Inf(1), nil })
	err = Simulate(cal, nodes, []*element.Node{invalid}, nil)
	require.ErrorAs(t, err, &stepErr)
	require.Equal(t, 0, stepErr.Step)
	require.Empty(t, stepErr.Element)
	require.Contains(t, err.Error(), "'c'")

	// 准备失败时不执行任何步长
	cal, nodes = newHost(t, 2)
	unbound, err := element.NewElementType(echoType, "unbound")
	require.NoError(t, err)
	called := false
	err = Simulate(cal, nodes, []*element.Node{unbound}, func(int, []float64) { called = true })
	require.ErrorIs(t, err, element.ErrConnection)
	require.False(t, called)

	// 未准备的元件
	require.ErrorIs(t, Step(cal, nodes, []*element.Node{unbound}, 0), element.ErrNotReady)
	require.Error(t, Step(cal, nodes, nil, 5))
}
