package base

import (
	"hydro/element"
	"hydro/network"
)

// 插值模型序列下标
const (
	interpX = iota // 因子：观测节点之和
	interpY        // 因子：插值结果
)

// 插值模型连接下标
const (
	interpObservers = iota // 任意数量的观测节点
	interpSenders          // 任意数量的发送节点
)

// 插值模型方法，计算阶段与接口共用。
var (
	pickX = element.Method{
		Name:     "pick_x",
		Call:     pickSum(interpObservers, interpX),
		Requires: []string{"observers.x"},
		Updates:  []string{"factors.x"},
	}
	calcY = element.Method{
		Name:     "calc_y",
		Call:     calcInterpY,
		Requires: []string{"factors.x"},
		Updates:  []string{"factors.y"},
	}
)

// InterpType 插值模型。
// 观测节点之和通过配置的单点插值函数得到结果，发送到所有发送节点。
var InterpType element.NodeType = element.AddElement(4, &element.Config{
	Name: "interp",
	Sequences: []element.Sequence{
		{Name: "x", Kind: element.KindFactor, Size: 1},
		{Name: "y", Kind: element.KindFactor, Size: 1},
	},
	Links: []element.Link{
		{Name: "x", Kind: element.LinkObserver},
		{Name: "y", Kind: element.LinkSender},
	},
	Check: func(node *element.Node) error {
		if node.Curve == nil {
			return &element.ConfigError{Element: node.Name, Name: "curve", Err: element.ErrCurve}
		}
		return nil
	},
	Receive: []element.Method{pickX},
	Run:     []element.Method{calcY},
	Send: []element.Method{{
		Name:     "pass_y",
		Call:     broadcast(interpY, interpSenders),
		Requires: []string{"factors.y"},
		Updates:  []string{"senders.y"},
	}},
	Interfaces: []element.Interface{
		{Name: "x", Sequence: "x"},
		{Name: "y", Sequence: "y", Methods: []element.Method{pickX, calcY}},
	},
})

// calcInterpY 计算插值结果，插值函数的错误原样返回。
func calcInterpY(_ network.Network, _ network.Time, node *element.Node) error {
	y, err := node.Curve.Evaluate(node.Seq(interpX)[0])
	if err != nil {
		return err
	}
	node.Seq(interpY)[0] = y
	return nil
}

// DetermineY 读取观测节点并计算插值结果，结果通过 GetY 获取。
func DetermineY(net network.Network, tm network.Time, node *element.Node) error {
	return node.Determine(net, tm, "y")
}

// GetY 返回插值模型的当前结果。
func GetY(node *element.Node) (float64, error) {
	return node.Get("y")
}
