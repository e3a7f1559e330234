package element

import (
	"math"
	"slices"

	"hydro/network"
)

// Value 参数值。标量与向量存放在 Data 中，二维参数按行存放在 Rows 中。
type Value struct {
	Data []float64   // 标量或向量值
	Rows [][]float64 // 二维参数的行
	Keys []string    // 二维参数的行名称
	set  bool        // 是否已赋值
}

// Node 元件实例，存储元件的参数、序列和连接信息。
// 同一个元件实例不能并发执行，不同实例之间没有共享数据。
type Node struct {
	ConfigPtr *Config     // 配置项指针。
	NodeType  NodeType    // 模型类型标识，对应ElementList中的注册类型。
	Name      string      // 元件名称。
	Params    []Value     // 参数值，与 Config.Parameters 一一对应。
	Derived   [][]float64 // 派生参数值，与 Config.Derived 一一对应。
	Seqs      [][]float64 // 序列值，与 Config.Sequences 一一对应。
	Curve     Curve       // 单点插值函数，由使用它的模型读取。

	connected [linkKindNum][]network.NodeID // 按类型记录的已连接节点，保持连接顺序。
	links     []binding                     // 连接绑定，与 Config.Links 一一对应。
	ready     bool                          // 是否已完成准备。
}

// NewElement 根据模型名称创建新的元件实例。
func NewElement(model, name string) (*Node, error) {
	nodeType, err := Lookup(model)
	if err != nil {
		return nil, err
	}
	return NewElementType(nodeType, name)
}

// NewElementType 根据模型类型创建新的元件实例。
// 参数使用声明的默认值初始化，日志序列按固定长度分配并清零。
func NewElementType(nodeType NodeType, name string) (*Node, error) {
	config, ok := ElementList[nodeType]
	if !ok {
		return nil, configError(name, "", ErrUnknownModel, "%d", nodeType)
	}
	node := &Node{
		ConfigPtr: config,
		NodeType:  nodeType,
		Name:      name,
		Params:    make([]Value, len(config.Parameters)),
		Derived:   make([][]float64, len(config.Derived)),
		Seqs:      make([][]float64, len(config.Sequences)),
		links:     make([]binding, len(config.Links)),
	}
	// 初始化参数。
	for i, param := range config.Parameters {
		if param.Init == nil {
			continue
		}
		data := slices.Clone(param.Init)
		if param.Monthly && len(data) == 1 {
			data = slices.Repeat(data, 12)
		}
		node.Params[i] = Value{Data: data, set: true}
	}
	// 日志序列长度固定，创建后不再改变。
	for i, seq := range config.Sequences {
		if seq.Kind == KindLog {
			node.Seqs[i] = make([]float64, seq.Size)
		}
	}
	return node, nil
}

// Config 获取模型声明。
func (node *Node) Config() *Config {
	return node.ConfigPtr
}

// Type 获取模型类型标识。
func (node *Node) Type() NodeType {
	return node.NodeType
}

// Ready 是否已完成准备。
func (node *Node) Ready() bool {
	return node.ready
}

// SetParameter 设置标量或向量参数，值必须在声明的取值范围内。
// 按月参数可以给出1个值（所有月份相同）或12个值。
// 设置后元件需要重新准备，派生参数会重新计算。
func (node *Node) SetParameter(name string, values ...float64) error {
	i := node.ConfigPtr.ParameterIndex(name)
	if i < 0 {
		return configError(node.Name, name, ErrUnknownParameter, "")
	}
	param := &node.ConfigPtr.Parameters[i]
	switch {
	case param.NDim == 2:
		return configError(node.Name, name, ErrShape, "二维参数需要按行设置")
	case param.Monthly:
		if len(values) == 1 {
			values = slices.Repeat(values, 12)
		}
		if len(values) != 12 {
			return configError(node.Name, name, ErrShape, "需要 1 或 12 个值，得到 %d", len(values))
		}
	case param.NDim == 0:
		if len(values) != 1 {
			return configError(node.Name, name, ErrShape, "需要 1 个值，得到 %d", len(values))
		}
	default:
		if len(values) == 0 {
			return configError(node.Name, name, ErrShape, "至少需要 1 个值")
		}
	}
	for _, v := range values {
		if !param.Span.Contains(v) {
			return configError(node.Name, name, ErrOutOfSpan, "%v 不在 %s 内", v, param.Span)
		}
	}
	node.Params[i] = Value{Data: slices.Clone(values), set: true}
	node.ready = false
	return nil
}

// SetTable 设置按名称索引的二维参数。
// 参数keys: 行名称，不能为空且不能重复。
// 参数rows: 每个名称对应一行。
func (node *Node) SetTable(name string, keys []string, rows [][]float64) error {
	i := node.ConfigPtr.ParameterIndex(name)
	if i < 0 {
		return configError(node.Name, name, ErrUnknownParameter, "")
	}
	param := &node.ConfigPtr.Parameters[i]
	if param.NDim != 2 {
		return configError(node.Name, name, ErrShape, "不是二维参数")
	}
	if len(keys) != len(rows) || len(keys) == 0 {
		return configError(node.Name, name, ErrShape, "行名称 %d 个，行 %d 个", len(keys), len(rows))
	}
	value := Value{Keys: slices.Clone(keys), Rows: make([][]float64, len(rows)), set: true}
	for r, key := range keys {
		if key == "" || slices.Index(keys, key) != r {
			return configError(node.Name, name, ErrShape, "行名称 '%s' 为空或重复", key)
		}
		for _, v := range rows[r] {
			if !param.Span.Contains(v) {
				return configError(node.Name, name, ErrOutOfSpan, "'%s' 的值 %v 不在 %s 内", key, v, param.Span)
			}
		}
		value.Rows[r] = slices.Clone(rows[r])
	}
	node.Params[i] = value
	node.ready = false
	return nil
}

// Parameter 按名称获取参数值的副本。
func (node *Node) Parameter(name string) (Value, bool) {
	i := node.ConfigPtr.ParameterIndex(name)
	if i < 0 {
		return Value{}, false
	}
	v := node.Params[i]
	out := Value{Data: slices.Clone(v.Data), Keys: slices.Clone(v.Keys), set: v.set}
	for _, row := range v.Rows {
		out.Rows = append(out.Rows, slices.Clone(row))
	}
	return out, true
}

// Param 获取第i个标量参数。
func (node *Node) Param(i int) float64 { return node.Params[i].Data[0] }

// Vector 获取第i个向量参数。
func (node *Node) Vector(i int) []float64 { return node.Params[i].Data }

// Rows 获取第i个二维参数的行。
func (node *Node) Rows(i int) [][]float64 { return node.Params[i].Rows }

// Keys 获取第i个二维参数的行名称。
func (node *Node) Keys(i int) []string { return node.Params[i].Keys }

// DerivedScalar 获取第i个派生参数的标量值。
func (node *Node) DerivedScalar(i int) float64 { return node.Derived[i][0] }

// Seq 获取第i个序列。
func (node *Node) Seq(i int) []float64 { return node.Seqs[i] }

// Sequence 按名称获取序列值的副本。
func (node *Node) Sequence(name string) ([]float64, bool) {
	i := node.ConfigPtr.SequenceIndex(name)
	if i < 0 {
		return nil, false
	}
	return slices.Clone(node.Seqs[i]), true
}

// SetLog 设置日志序列的值。
// 接收阶段会覆盖接收得到的日志，初值只在第一个步长之前可以读取，
// 以及用于没有在接收阶段写入的日志序列。
func (node *Node) SetLog(name string, values ...float64) error {
	i := node.ConfigPtr.SequenceIndex(name)
	if i < 0 || node.ConfigPtr.Sequences[i].Kind != KindLog {
		return configError(node.Name, name, ErrUnknownParameter, "不是日志序列")
	}
	if len(values) != len(node.Seqs[i]) {
		return configError(node.Name, name, ErrShape, "需要 %d 个值，得到 %d", len(node.Seqs[i]), len(values))
	}
	copy(node.Seqs[i], values)
	return nil
}

// SetCurve 设置单点插值函数。
func (node *Node) SetCurve(curve Curve) {
	node.Curve = curve
	node.ready = false
}

// Prepare 元件准备：检查参数，重新计算派生参数，确定序列长度并绑定连接节点。
// 任何参数或连接改变之后都必须重新准备。
func (node *Node) Prepare(net network.Network, tm network.Time) error {
	config := node.ConfigPtr
	node.ready = false
	for i, param := range config.Parameters {
		if !node.Params[i].set {
			return configError(node.Name, param.Name, ErrUnset, "")
		}
	}
	if config.Check != nil {
		if err := config.Check(node); err != nil {
			return err
		}
	}
	for i, derived := range config.Derived {
		node.Derived[i] = derived.Update(node, tm)
	}
	for i, seq := range config.Sequences {
		if seq.Kind == KindLog {
			continue
		}
		size := seq.Size
		if seq.SizeOf != nil {
			size = seq.SizeOf(node)
		}
		if len(node.Seqs[i]) != size {
			node.Seqs[i] = make([]float64, size)
		}
	}
	if err := node.bind(net); err != nil {
		return err
	}
	node.clearTransient()
	node.ready = true
	return nil
}

// Get 返回标量接口对应序列的当前值，不修改任何数据。
// 向量接口返回 ErrShape，需要使用 GetVector。
func (node *Node) Get(name string) (float64, error) {
	seq, err := node.interfaceSequence(name)
	if err != nil {
		return 0, err
	}
	if len(seq) != 1 {
		return 0, configError(node.Name, name, ErrShape, "接口有 %d 个值，使用 GetVector 读取", len(seq))
	}
	return seq[0], nil
}

// GetVector 返回接口对应序列当前值的副本。
func (node *Node) GetVector(name string) ([]float64, error) {
	seq, err := node.interfaceSequence(name)
	if err != nil {
		return nil, err
	}
	return slices.Clone(seq), nil
}

// Determine 执行接口的子流水线，结果可以随后通过 Get 读取。
func (node *Node) Determine(net network.Network, tm network.Time, name string) error {
	i := node.ConfigPtr.InterfaceIndex(name)
	if i < 0 || len(node.ConfigPtr.Interfaces[i].Methods) == 0 {
		return configError(node.Name, name, ErrUnknownInterface, "")
	}
	if !node.ready {
		return configError(node.Name, name, ErrNotReady, "")
	}
	return node.call(net, tm, node.ConfigPtr.Interfaces[i].Methods)
}

func (node *Node) interfaceSequence(name string) ([]float64, error) {
	i := node.ConfigPtr.InterfaceIndex(name)
	if i < 0 {
		return nil, configError(node.Name, name, ErrUnknownInterface, "")
	}
	seq := node.Seqs[node.ConfigPtr.SequenceIndex(node.ConfigPtr.Interfaces[i].Sequence)]
	if len(seq) == 0 {
		return nil, configError(node.Name, name, ErrNotReady, "")
	}
	return seq, nil
}

// call 依次执行方法，方法返回的错误原样返回。
func (node *Node) call(net network.Network, tm network.Time, methods []Method) error {
	for i := range methods {
		if err := methods[i].Call(net, tm, node); err != nil {
			return err
		}
	}
	return nil
}

// clearTransient 将所有非日志序列置为 NaN，未写先读会在结果中暴露出来。
func (node *Node) clearTransient() {
	for i, seq := range node.ConfigPtr.Sequences {
		if seq.Kind == KindLog {
			continue
		}
		for j := range node.Seqs[i] {
			node.Seqs[i][j] = math.NaN()
		}
	}
}
