package network

import (
	"errors"
	"fmt"
	"math"
	"slices"
)

// ErrNode 节点配置错误。
var ErrNode = errors.New("节点配置错误")

// Nodes 是 Network 接口的基础实现，持有所有节点的值。
// 元件的连接缓冲区只保存节点索引，读写都经过这里，因此写入连接缓冲区即写入节点。
type Nodes struct {
	names  []string             // 节点名称
	index  map[string]NodeID    // 名称索引
	values []float64            // 节点值
	sums   map[string][]NodeID  // 元件名称 -> 出口节点
	series map[NodeID][]float64 // 输入序列
}

// NewNodes 按名称创建节点网络。
func NewNodes(names ...string) (*Nodes, error) {
	nodes := &Nodes{
		index:  make(map[string]NodeID, len(names)),
		sums:   make(map[string][]NodeID),
		series: make(map[NodeID][]float64),
	}
	for _, name := range names {
		if _, err := nodes.AddNode(name); err != nil {
			return nil, err
		}
	}
	return nodes, nil
}

// AddNode 添加一个节点并返回其索引。
func (nodes *Nodes) AddNode(name string) (NodeID, error) {
	if name == "" {
		return None, fmt.Errorf("%w: 节点名称为空", ErrNode)
	}
	if _, ok := nodes.index[name]; ok {
		return None, fmt.Errorf("%w: 节点 '%s' 重复定义", ErrNode, name)
	}
	id := NodeID(len(nodes.names))
	nodes.names = append(nodes.names, name)
	nodes.values = append(nodes.values, 0)
	nodes.index[name] = id
	return id, nil
}

// GetNodeNum 获取网络中节点的数量。
func (nodes *Nodes) GetNodeNum() int { return len(nodes.names) }

// GetName 返回指定节点的名称。
func (nodes *Nodes) GetName(id NodeID) string {
	if nodes.valid(id) {
		return nodes.names[id]
	}
	return ""
}

// Lookup 按名称查找节点。
func (nodes *Nodes) Lookup(name string) (NodeID, bool) {
	id, ok := nodes.index[name]
	return id, ok
}

// MustLookup 按名称查找节点，找不到时返回错误。
func (nodes *Nodes) MustLookup(name string) (NodeID, error) {
	if id, ok := nodes.index[name]; ok {
		return id, nil
	}
	return None, fmt.Errorf("%w: 未知节点 '%s'", ErrNode, name)
}

// GetValue 返回指定节点的当前值。
func (nodes *Nodes) GetValue(id NodeID) float64 {
	if nodes.valid(id) {
		return nodes.values[id]
	}
	return 0
}

// SetValue 直接设置指定节点的值。
func (nodes *Nodes) SetValue(id NodeID, v float64) {
	if nodes.valid(id) {
		nodes.values[id] = v
	}
}

// AddValue 将一个值加到指定节点上。
func (nodes *Nodes) AddValue(id NodeID, v float64) {
	if nodes.valid(id) {
		nodes.values[id] += v
	}
}

// SetOutlets 替换元件的出口节点集合，ids 为空时删除该元件的集合。
// 多个元件可以写入同一出口节点，节点值为各元件写入值之和。
func (nodes *Nodes) SetOutlets(owner string, ids []NodeID) {
	if len(ids) == 0 {
		delete(nodes.sums, owner)
		return
	}
	nodes.sums[owner] = append([]NodeID(nil), ids...)
}

// Outlets 返回当前所有出口节点，按索引排序且不重复。
func (nodes *Nodes) Outlets() []NodeID {
	var out []NodeID
	for _, ids := range nodes.sums {
		for _, id := range ids {
			if nodes.valid(id) && !slices.Contains(out, id) {
				out = append(out, id)
			}
		}
	}
	slices.Sort(out)
	return out
}

// SetSeries 为节点设置输入序列，每个步长开始时写入节点。
func (nodes *Nodes) SetSeries(id NodeID, series []float64) error {
	if !nodes.valid(id) {
		return fmt.Errorf("%w: 无效节点索引 %d", ErrNode, id)
	}
	nodes.series[id] = append([]float64(nil), series...)
	return nil
}

// BeginStep 开始一个新的步长：写入输入序列。
// 序列长度不足时保持节点的上一个值。
func (nodes *Nodes) BeginStep(step int) {
	for id, series := range nodes.series {
		if step >= 0 && step < len(series) {
			nodes.values[id] = series[step]
		}
	}
}

// ClearOutlets 出口节点清零。
// 在接收阶段之后调用，接收与观测节点读到的是上一个步长写入的值。
func (nodes *Nodes) ClearOutlets() {
	for _, ids := range nodes.sums {
		for _, id := range ids {
			if nodes.valid(id) {
				nodes.values[id] = 0
			}
		}
	}
}

// Values 返回节点值的副本。
func (nodes *Nodes) Values() []float64 {
	return append([]float64(nil), nodes.values...)
}

// Names 返回节点名称的副本。
func (nodes *Nodes) Names() []string {
	return append([]string(nil), nodes.names...)
}

// Check 检查节点值是否包含 NaN 或 Inf，返回第一个无效节点。
func (nodes *Nodes) Check() (NodeID, bool) {
	for i, v := range nodes.values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return NodeID(i), false
		}
	}
	return None, true
}

// Reset 将所有节点值清零，输入序列保持不变。
func (nodes *Nodes) Reset() {
	for i := range nodes.values {
		nodes.values[i] = 0
	}
}

func (nodes *Nodes) valid(id NodeID) bool {
	return id >= 0 && int(id) < len(nodes.values)
}
