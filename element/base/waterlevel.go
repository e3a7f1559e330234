package base

import (
	"hydro/element"
	"hydro/network"
)

// 水位模型序列下标
const (
	waterLevelLogged = iota // 日志：接收的水位
	waterLevelFactor        // 因子：本步水位
)

// 水位模型连接下标
const (
	waterLevelReceiver = iota // 一个水位接收节点
	waterLevelSenders         // 任意数量的发送节点
)

// 水位模型方法，接收阶段与接口共用。
var (
	pickLoggedWaterLevel = element.Method{
		Name:     "pick_loggedwaterlevel",
		Call:     pickLogged(waterLevelReceiver, waterLevelLogged),
		Requires: []string{"receivers.waterlevel"},
		Updates:  []string{"logs.loggedwaterlevel"},
	}
	updateWaterLevel = element.Method{
		Name:     "update_waterlevel",
		Call:     updateFromLog(waterLevelLogged, waterLevelFactor),
		Requires: []string{"logs.loggedwaterlevel"},
		Updates:  []string{"factors.waterlevel"},
	}
)

// WaterLevelType 水位模型。
// 接收一个节点的水位，延迟一个步长后发送到所有发送节点，也可以被其他模型直接调用。
var WaterLevelType element.NodeType = element.AddElement(3, &element.Config{
	Name: "waterlevel",
	Sequences: []element.Sequence{
		{Name: "loggedwaterlevel", Kind: element.KindLog, Size: 1},
		{Name: "waterlevel", Kind: element.KindFactor, Size: 1},
	},
	Links: []element.Link{
		{Name: "waterlevel", Kind: element.LinkReceiver, Count: 1},
		{Name: "waterlevel", Kind: element.LinkSender},
	},
	Receive: []element.Method{pickLoggedWaterLevel},
	Run:     []element.Method{updateWaterLevel},
	Send: []element.Method{{
		Name:     "pass_waterlevel",
		Call:     broadcast(waterLevelFactor, waterLevelSenders),
		Requires: []string{"factors.waterlevel"},
		Updates:  []string{"senders.waterlevel"},
	}},
	Interfaces: []element.Interface{{
		Name:     "waterlevel",
		Sequence: "waterlevel",
		Methods:  []element.Method{pickLoggedWaterLevel, updateWaterLevel},
	}},
})

// DetermineWaterLevel 读取接收节点并更新水位，结果通过 GetWaterLevel 获取。
func DetermineWaterLevel(net network.Network, tm network.Time, node *element.Node) error {
	return node.Determine(net, tm, "waterlevel")
}

// GetWaterLevel 返回水位模型的当前水位。
func GetWaterLevel(node *element.Node) (float64, error) {
	return node.Get("waterlevel")
}
