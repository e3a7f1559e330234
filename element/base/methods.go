package base

import (
	"hydro/element"
	"hydro/maths"
	"hydro/network"
)

// 以下为各模型共用的方法实现，按下标读写序列与连接。

// pickLogged 将接收节点的值原样写入日志序列，日志长度等于接收节点数量。
func pickLogged(link, log int) element.MethodFunc {
	return func(net network.Network, _ network.Time, node *element.Node) error {
		logs := node.Seq(log)
		for i := range logs {
			logs[i] = node.LinkValue(net, link, i)
		}
		return nil
	}
}

// pickSum 将任意数量的观测或入口节点的值求和写入标量序列。
func pickSum(link, seq int) element.MethodFunc {
	return func(net network.Network, _ network.Time, node *element.Node) error {
		node.Seq(seq)[0] = maths.Sum(node.LinkValues(net, link, nil))
		return nil
	}
}

// updateFromLog 将日志序列复制到因子序列。
func updateFromLog(log, seq int) element.MethodFunc {
	return func(_ network.Network, _ network.Time, node *element.Node) error {
		copy(node.Seq(seq), node.Seq(log))
		return nil
	}
}

// passEach 将序列的第i个值加到第i个出口节点。
func passEach(seq, link int) element.MethodFunc {
	return func(net network.Network, _ network.Time, node *element.Node) error {
		values := node.Seq(seq)
		for i, id := range node.LinkIDs(link) {
			net.AddValue(id, values[i])
		}
		return nil
	}
}

// broadcast 将标量序列写入所有发送节点，发送节点数量在连接时才确定。
func broadcast(seq, link int) element.MethodFunc {
	return func(net network.Network, _ network.Time, node *element.Node) error {
		v := node.Seq(seq)[0]
		for _, id := range node.LinkIDs(link) {
			net.SetValue(id, v)
		}
		return nil
	}
}
