package graph

import (
	"errors"
	"fmt"
	"slices"
	"strconv"

	"github.com/katalvlaran/lvlath/core"
	"github.com/katalvlaran/lvlath/dfs"

	"hydro/element"
	"hydro/network"
)

// ErrCycle 元件之间存在环路。
var ErrCycle = errors.New("元件之间存在环路")

// Graph 元件依赖图。
// 元件A的出口节点是元件B的入口节点时，A必须在B之前执行。
// 接收与发送节点在相邻步长之间传递，不参与排序。
type Graph struct {
	Elements []*element.Node          // 元件列表
	NodeList map[network.NodeID][]int // 出口节点 -> 写入该节点的元件
	Deps     *core.Graph              // 下游元件 -> 上游元件
}

// vertex 元件在依赖图中的顶点名称。
// 顶点按名称排序遍历，定长序号保证遍历顺序与元件列表一致。
func vertex(i int) string { return fmt.Sprintf("%08d", i) }

// NewGraph 根据元件的入口与出口连接建立依赖图。
func NewGraph(elements []*element.Node) (*Graph, error) {
	graph := &Graph{
		Elements: elements,
		NodeList: map[network.NodeID][]int{},
		Deps:     core.NewGraph(core.WithDirected(true)),
	}
	for i, node := range elements {
		if err := graph.Deps.AddVertex(vertex(i)); err != nil {
			return nil, err
		}
		for _, id := range node.Connections(element.LinkOutlet) {
			if !slices.Contains(graph.NodeList[id], i) {
				graph.NodeList[id] = append(graph.NodeList[id], i)
			}
		}
	}
	for i, node := range elements {
		for _, id := range node.Connections(element.LinkInlet) {
			for _, from := range graph.NodeList[id] {
				if from == i {
					return nil, fmt.Errorf("%w: 元件 '%s' 读取自己的出口节点", ErrCycle, node.Name)
				}
				if graph.Deps.HasEdge(vertex(i), vertex(from)) {
					continue
				}
				if _, err := graph.Deps.AddEdge(vertex(i), vertex(from), 0); err != nil {
					return nil, err
				}
			}
		}
	}
	return graph, nil
}

// Order 返回上游在前的执行顺序。
// 依赖图的边从下游指向上游，拓扑序的逆序即执行顺序：
// 每个元件紧跟在它的上游之后，已经满足上下游关系的元件列表保持不变。
func (graph *Graph) Order() ([]*element.Node, error) {
	ids, err := dfs.TopologicalSort(graph.Deps)
	if errors.Is(err, dfs.ErrCycleDetected) {
		return nil, fmt.Errorf("%w: %w", ErrCycle, err)
	}
	if err != nil {
		return nil, err
	}
	order := make([]*element.Node, 0, len(ids))
	for _, id := range slices.Backward(ids) {
		i, err := strconv.Atoi(id)
		if err != nil {
			return nil, err
		}
		order = append(order, graph.Elements[i])
	}
	return order, nil
}

// Order 按上下游关系排列元件。
func Order(elements []*element.Node) ([]*element.Node, error) {
	graph, err := NewGraph(elements)
	if err != nil {
		return nil, err
	}
	return graph.Order()
}
