package time

import (
	"fmt"

	"hydro/element"
	"hydro/network"
)

// Host 宿主网络：在 Network 的基础上提供步长开始与结果检查。
type Host interface {
	network.Network

	// BeginStep 写入输入序列。
	BeginStep(step int)

	// ClearOutlets 出口节点清零。
	ClearOutlets()

	// Check 检查节点值，返回第一个无效节点。
	Check() (network.NodeID, bool)

	// Values 返回节点值的副本。
	Values() []float64
}

// Clock 仿真时钟：在 Time 的基础上可以设置当前步长。
type Clock interface {
	network.Time
	SetStep(step int) error
}

// StepError 仿真步长错误，记录出错的步长、元件与阶段。
type StepError struct {
	Step    int          // 步长序号
	Element string       // 元件名称，节点检查失败时为空
	Mark    element.Mark // 出错的阶段
	Err     error        // 原始错误
}

func (e *StepError) Error() string {
	if e.Element == "" {
		return fmt.Sprintf("步长 %d: %v", e.Step, e.Err)
	}
	return fmt.Sprintf("步长 %d 元件 '%s' %s 阶段: %v", e.Step, e.Element, e.Mark, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// Simulate 执行整个仿真期。
// 参数：
//
//	clock: 仿真时钟，决定步长总数与月份
//	host: 宿主网络，持有所有节点值
//	elements: 元件列表，需要已按上下游顺序排列
//	call: 每步成功后的回调函数，接收步长序号和节点值，可以为 nil
//
// 任何元件准备失败时直接返回，不执行任何步长。
func Simulate(clock Clock, host Host, elements []*element.Node, call func(step int, values []float64)) error {
	if err := clock.SetStep(0); err != nil {
		return err
	}
	// 初始化所有元件：派生参数、序列长度、节点绑定
	if err := element.CallMark(element.MarkReset, host, clock, elements); err != nil {
		return fmt.Errorf("元件准备失败: %w", err)
	}
	for step := range clock.StepNum() {
		if err := Step(clock, host, elements, step); err != nil {
			return err
		}
		if call != nil {
			call(step, host.Values())
		}
	}
	return nil
}

// Step 执行一个步长：
// 写入输入序列，所有元件接收，出口节点清零，然后每个元件依次读取入口、计算、写入出口，
// 最后所有元件发送。发送和写入出口的值在下一个步长被接收，形成一个步长的延迟。
func Step(clock Clock, host Host, elements []*element.Node, step int) error {
	if err := clock.SetStep(step); err != nil {
		return &StepError{Step: step, Err: err}
	}
	host.BeginStep(step)
	if err := callEach(element.MarkReceive, clock, host, elements, step); err != nil {
		return err
	}
	host.ClearOutlets()
	for _, node := range elements {
		for _, mark := range []element.Mark{element.MarkInlet, element.MarkRun, element.MarkOutlet} {
			if err := callEach(mark, clock, host, []*element.Node{node}, step); err != nil {
				return err
			}
		}
	}
	if err := callEach(element.MarkSend, clock, host, elements, step); err != nil {
		return err
	}
	// 检查节点值
	if id, ok := host.Check(); !ok {
		return &StepError{Step: step, Err: fmt.Errorf("节点 '%s' 的值无效: %v", host.GetName(id), host.GetValue(id))}
	}
	return nil
}

// callEach 对每个元件调用同一阶段，错误中记录出错的元件。
func callEach(mark element.Mark, clock Clock, host Host, elements []*element.Node, step int) error {
	for _, node := range elements {
		if err := element.CallMark(mark, host, clock, []*element.Node{node}); err != nil {
			return &StepError{Step: step, Element: node.Name, Mark: mark, Err: err}
		}
	}
	return nil
}
