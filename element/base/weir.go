package base

import (
	"math"

	"hydro/element"
	"hydro/maths"
	"hydro/network"
)

// 堰流交换模型参数下标
const (
	weirCrestHeight     = iota // 堰顶高程
	weirCrestWidth             // 堰宽
	weirFlowCoefficient        // 流量系数
	weirFlowExponent           // 流量指数
	weirAllowedExchange        // 允许的最大交换量
)

// 堰流交换模型序列下标
const (
	weirLoggedWaterLevels = iota // 日志：上一步接收的两侧水位
	weirWaterLevels              // 因子：本步两侧水位
	weirDeltaWaterLevel          // 因子：有效水位差
	weirPotentialExchange        // 通量：潜在交换量
	weirActualExchange           // 通量：实际交换量
)

// 堰流交换模型连接下标
const (
	weirReceivers = iota // 两个水位接收节点
	weirOutlets          // 两个出口节点
)

// WeirType 堰流交换模型。
// 根据两个节点的水位差计算通过堰的双向交换量，第一个出口失去交换量，第二个出口得到交换量。
var WeirType element.NodeType = element.AddElement(1, &element.Config{
	Name: "weir",
	Parameters: []element.Parameter{
		{Name: "crestheight", Span: element.Unbounded, Unit: "m"},
		{Name: "crestwidth", Span: element.AtLeast(0), Unit: "m"},
		{Name: "flowcoefficient", Span: element.AtLeast(0), Init: []float64{0.62}},
		{Name: "flowexponent", Span: element.AtLeast(0), Init: []float64{1.5}},
		{Name: "allowedexchange", Span: element.AtLeast(0), Init: []float64{math.Inf(1)}, Unit: "m3/s"},
	},
	Sequences: []element.Sequence{
		{Name: "loggedwaterlevels", Kind: element.KindLog, Size: 2},
		{Name: "waterlevels", Kind: element.KindFactor, Size: 2},
		{Name: "deltawaterlevel", Kind: element.KindFactor, Size: 1},
		{Name: "potentialexchange", Kind: element.KindFlux, Size: 1},
		{Name: "actualexchange", Kind: element.KindFlux, Size: 1},
	},
	Links: []element.Link{
		{Name: "waterlevels", Kind: element.LinkReceiver, Count: 2},
		{Name: "exchange", Kind: element.LinkOutlet, Count: 2},
	},
	Receive: []element.Method{{
		Name:     "pick_loggedwaterlevels",
		Call:     pickLogged(weirReceivers, weirLoggedWaterLevels),
		Requires: []string{"receivers.waterlevels"},
		Updates:  []string{"logs.loggedwaterlevels"},
	}},
	Run: []element.Method{{
		Name:     "update_waterlevels",
		Call:     updateFromLog(weirLoggedWaterLevels, weirWaterLevels),
		Requires: []string{"logs.loggedwaterlevels"},
		Updates:  []string{"factors.waterlevels"},
	}, {
		Name:     "calc_deltawaterlevel",
		Call:     calcDeltaWaterLevel,
		Requires: []string{"parameters.crestheight", "factors.waterlevels"},
		Updates:  []string{"factors.deltawaterlevel"},
	}, {
		Name: "calc_potentialexchange",
		Call: calcPotentialExchange,
		Requires: []string{"parameters.crestwidth", "parameters.flowcoefficient",
			"parameters.flowexponent", "factors.deltawaterlevel"},
		Updates: []string{"fluxes.potentialexchange"},
	}, {
		Name:     "calc_actualexchange",
		Call:     calcActualExchange,
		Requires: []string{"parameters.allowedexchange", "fluxes.potentialexchange"},
		Updates:  []string{"fluxes.actualexchange"},
	}},
	Outlet: []element.Method{{
		Name:     "pass_actualexchange",
		Call:     passActualExchange,
		Requires: []string{"fluxes.actualexchange"},
		Updates:  []string{"outlets.exchange"},
	}},
	Interfaces: []element.Interface{
		{Name: "waterlevels", Sequence: "waterlevels"},
		{Name: "deltawaterlevel", Sequence: "deltawaterlevel"},
		{Name: "actualexchange", Sequence: "actualexchange"},
	},
})

// calcDeltaWaterLevel 有效水位差，只有高于堰顶的部分参与交换。
func calcDeltaWaterLevel(_ network.Network, _ network.Time, node *element.Node) error {
	levels := node.Seq(weirWaterLevels)
	node.Seq(weirDeltaWaterLevel)[0] = maths.DeltaLevel(levels[0], levels[1], node.Param(weirCrestHeight))
	return nil
}

// calcPotentialExchange 双向堰流公式。
func calcPotentialExchange(_ network.Network, _ network.Time, node *element.Node) error {
	node.Seq(weirPotentialExchange)[0] = maths.PotentialExchange(
		node.Seq(weirDeltaWaterLevel)[0],
		node.Param(weirCrestWidth),
		node.Param(weirFlowCoefficient),
		node.Param(weirFlowExponent),
	)
	return nil
}

// calcActualExchange 将潜在交换量限制在允许范围内。
func calcActualExchange(_ network.Network, _ network.Time, node *element.Node) error {
	node.Seq(weirActualExchange)[0] = maths.ClampExchange(
		node.Seq(weirPotentialExchange)[0], node.Param(weirAllowedExchange))
	return nil
}

// passActualExchange 第一个出口失去交换量，第二个出口得到交换量。
func passActualExchange(net network.Network, _ network.Time, node *element.Node) error {
	var out [2]float64
	maths.Distribute(node.Seq(weirActualExchange)[0], out[:])
	for i, id := range node.LinkIDs(weirOutlets) {
		net.AddValue(id, out[i])
	}
	return nil
}

// GetActualExchange 返回堰流交换模型本步的实际交换量。
func GetActualExchange(node *element.Node) (float64, error) {
	return node.Get("actualexchange")
}
