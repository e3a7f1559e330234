package element

import (
	"fmt"

	"hydro/network"
)

// Mark 用于区分调用阶段的标记。
type Mark uint8

// 接口回调类型
const (
	MarkReset   Mark = iota // 元件准备：派生参数、序列长度、节点绑定
	MarkReceive             // 接收阶段：读取接收与观测节点
	MarkInlet               // 入口阶段：读取入口节点
	MarkRun                 // 计算阶段
	MarkOutlet              // 出口阶段：写入出口节点
	MarkSend                // 发送阶段：写入发送节点
)

// String 阶段名称。
func (mark Mark) String() string {
	switch mark {
	case MarkReset:
		return "reset"
	case MarkReceive:
		return "receive"
	case MarkInlet:
		return "inlet"
	case MarkRun:
		return "run"
	case MarkOutlet:
		return "outlet"
	case MarkSend:
		return "send"
	}
	return fmt.Sprintf("mark(%d)", uint8(mark))
}

// CallMark 统一调用。
// 接收阶段开始前清空所有非日志序列，保证同一步长内先写后读。
func CallMark(mark Mark, net network.Network, tm network.Time, value []*Node) error {
	for _, node := range value {
		if mark == MarkReset {
			if err := node.Prepare(net, tm); err != nil {
				return err
			}
			continue
		}
		if !node.ready {
			return configError(node.Name, "", ErrNotReady, "")
		}
		if mark == MarkReceive {
			node.clearTransient()
		}
		if err := node.call(net, tm, node.ConfigPtr.Phase(mark)); err != nil {
			return err
		}
	}
	return nil
}
