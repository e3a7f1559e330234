package element

import (
	"fmt"
	"math"
	"strconv"

	"hydro/network"
)

// Kind 序列类型。
type Kind uint8

const (
	KindFactor Kind = iota // 因子：每个步长重新计算的中间量
	KindFlux               // 通量：每个步长重新计算的物理量
	KindLog                // 日志：唯一跨步长保存的状态
)

// String 序列类型名称。
func (kind Kind) String() string {
	switch kind {
	case KindFactor:
		return "factors"
	case KindFlux:
		return "fluxes"
	case KindLog:
		return "logs"
	}
	return "kind(" + strconv.Itoa(int(kind)) + ")"
}

// LinkKind 连接类型。
type LinkKind uint8

const (
	LinkInlet    LinkKind = iota // 入口节点
	LinkOutlet                   // 出口节点
	LinkReceiver                 // 接收节点
	LinkSender                   // 发送节点
	LinkObserver                 // 观测节点
	linkKindNum
)

// String 连接类型名称。
func (kind LinkKind) String() string {
	switch kind {
	case LinkInlet:
		return "inlets"
	case LinkOutlet:
		return "outlets"
	case LinkReceiver:
		return "receivers"
	case LinkSender:
		return "senders"
	case LinkObserver:
		return "observers"
	}
	return "link(" + strconv.Itoa(int(kind)) + ")"
}

// ParseLinkKind 解析连接类型名称。
func ParseLinkKind(name string) (LinkKind, bool) {
	for kind := LinkInlet; kind < linkKindNum; kind++ {
		if kind.String() == name {
			return kind, true
		}
	}
	return 0, false
}

// input 是否为输入类型连接。
func (kind LinkKind) input() bool {
	return kind == LinkInlet || kind == LinkReceiver || kind == LinkObserver
}

// Span 参数取值范围，边界为无穷大时表示不限。
type Span struct {
	Lower     float64 // 下限
	Upper     float64 // 上限
	LowerOpen bool    // 下限不包含边界
	UpperOpen bool    // 上限不包含边界
}

// Unbounded 不限范围。
var Unbounded = Span{Lower: math.Inf(-1), Upper: math.Inf(1)}

// AtLeast 返回 [v, +Inf]。
func AtLeast(v float64) Span { return Span{Lower: v, Upper: math.Inf(1)} }

// Above 返回 (v, +Inf]。
func Above(v float64) Span { return Span{Lower: v, Upper: math.Inf(1), LowerOpen: true} }

// Between 返回 [lower, upper]。
func Between(lower, upper float64) Span { return Span{Lower: lower, Upper: upper} }

// Contains 判断值是否在范围内，NaN 永远不在范围内。
func (span Span) Contains(v float64) bool {
	if math.IsNaN(v) {
		return false
	}
	if v < span.Lower || (span.LowerOpen && v == span.Lower) {
		return false
	}
	if v > span.Upper || (span.UpperOpen && v == span.Upper) {
		return false
	}
	return true
}

// String 返回区间表示，如 "[0, +Inf]"。
func (span Span) String() string {
	l, r := "[", "]"
	if span.LowerOpen {
		l = "("
	}
	if span.UpperOpen {
		r = ")"
	}
	return fmt.Sprintf("%s%v, %v%s", l, span.Lower, span.Upper, r)
}

// Parameter 参数声明。
type Parameter struct {
	Name    string    // 参数名称
	NDim    int       // 维度：0 标量，1 向量，2 矩阵（按名称索引的行）
	Span    Span      // 取值范围
	Init    []float64 // 默认值，nil 表示必须赋值
	Monthly bool      // 按月取值，固定12个值
	Unit    string    // 单位，仅用于说明
}

// Derived 派生参数声明，每次仿真开始时根据参数与日历重新计算。
type Derived struct {
	Name   string
	Update func(node *Node, tm network.Time) []float64
}

// Sequence 序列声明。
type Sequence struct {
	Name   string
	Kind   Kind
	Size   int                  // 固定长度
	SizeOf func(node *Node) int // 非 nil 时在准备阶段确定长度
}

// Link 连接声明。
type Link struct {
	Name  string
	Kind  LinkKind
	Count int                       // 固定连接数量，0 表示任意数量
	Names func(node *Node) []string // 非 nil 时按节点名称绑定，否则按连接顺序绑定
}

// MethodFunc 方法实现，读取参数与序列并写入声明的结果序列。
type MethodFunc func(net network.Network, tm network.Time, node *Node) error

// Method 流水线方法，带有声明的读写集合。
// 名称格式为 "类别.名称"，如 "parameters.crestheight"、"fluxes.actualexchange"。
type Method struct {
	Name     string
	Call     MethodFunc
	Requires []string
	Updates  []string
}

// Interface 供其他模型调用的接口。
// Get 返回 Sequence 的当前值，Determine 依次执行 Methods。
type Interface struct {
	Name     string
	Sequence string   // 对应序列名称
	Methods  []Method // 为空时只能 Get
}

// Config 模型配置结构体，存储模型的静态声明。
// 这些声明在模型注册时校验，并在整个仿真过程中保持不变。
type Config struct {
	Name       string                 // 模型名称
	Parameters []Parameter            // 参数声明
	Derived    []Derived              // 派生参数声明
	Sequences  []Sequence             // 序列声明
	Links      []Link                 // 连接声明
	Check      func(node *Node) error // 准备阶段的附加校验，如表格形状
	Receive    []Method               // 接收阶段：接收/观测节点
	Inlet      []Method               // 入口阶段
	Run        []Method               // 计算阶段，按声明顺序执行
	Outlet     []Method               // 出口阶段
	Send       []Method               // 发送阶段
	Interfaces []Interface            // 接口方法
}

// Phase 返回指定阶段的方法列表。
func (config *Config) Phase(mark Mark) []Method {
	switch mark {
	case MarkReceive:
		return config.Receive
	case MarkInlet:
		return config.Inlet
	case MarkRun:
		return config.Run
	case MarkOutlet:
		return config.Outlet
	case MarkSend:
		return config.Send
	}
	return nil
}

// ParameterIndex 按名称查找参数下标。
func (config *Config) ParameterIndex(name string) int {
	for i := range config.Parameters {
		if config.Parameters[i].Name == name {
			return i
		}
	}
	return -1
}

// SequenceIndex 按名称查找序列下标。
func (config *Config) SequenceIndex(name string) int {
	for i := range config.Sequences {
		if config.Sequences[i].Name == name {
			return i
		}
	}
	return -1
}

// LinkIndex 按名称查找连接下标。
func (config *Config) LinkIndex(name string) int {
	for i := range config.Links {
		if config.Links[i].Name == name {
			return i
		}
	}
	return -1
}

// InterfaceIndex 按名称查找接口下标。
func (config *Config) InterfaceIndex(name string) int {
	for i := range config.Interfaces {
		if config.Interfaces[i].Name == name {
			return i
		}
	}
	return -1
}
