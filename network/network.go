package network

// NodeID 定义了网络节点的唯一标识符，即节点值数组中的下标。
type NodeID int

// None 表示未连接的节点。
const None NodeID = -1

// Network 接口定义了元件访问宿主网络节点值所需的核心功能。
// 节点值由宿主网络持有，元件只保存节点索引，通过本接口读写节点值。
type Network interface {
	// GetNodeNum 获取网络中节点的数量。
	GetNodeNum() int

	// GetName 返回指定节点的名称。索引无效时返回空字符串。
	GetName(id NodeID) string

	// Lookup 按名称查找节点。
	Lookup(name string) (NodeID, bool)

	// GetValue 返回指定节点的当前值。索引无效时返回0。
	GetValue(id NodeID) float64

	// SetValue 直接设置指定节点的值，覆盖原有值。
	SetValue(id NodeID, v float64)

	// AddValue 将一个值加到指定节点上。
	// 用于多个元件向同一出口节点汇流的情况。
	AddValue(id NodeID, v float64)

	// SetOutlets 替换元件的出口节点集合。
	// 出口节点在每个步长的接收阶段之后清零，元件重新绑定时旧的集合失效。
	SetOutlets(owner string, ids []NodeID)
}
