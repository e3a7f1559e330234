package element

import (
	"slices"

	"hydro/network"
)

// binding 连接缓冲区与节点的绑定。
// ids[i] 是第i个缓冲区元素对应的节点，读写都经过宿主网络。
type binding struct {
	ids   []network.NodeID // 缓冲区元素对应的节点
	shape []network.NodeID // 建立名称索引时的连接节点
	index map[string]int   // 名称到连接位置的索引
}

// Connect 按连接顺序添加指定类型的连接节点。
func (node *Node) Connect(kind LinkKind, ids ...network.NodeID) {
	node.connected[kind] = append(node.connected[kind], ids...)
	node.ready = false
}

// SetConnections 替换指定类型的全部连接节点。
func (node *Node) SetConnections(kind LinkKind, ids ...network.NodeID) {
	node.connected[kind] = slices.Clone(ids)
	node.ready = false
}

// Connections 返回指定类型连接节点的副本。
func (node *Node) Connections(kind LinkKind) []network.NodeID {
	return slices.Clone(node.connected[kind])
}

// LinkIDs 返回第i个连接缓冲区绑定的节点，调用方不能修改返回值。
func (node *Node) LinkIDs(i int) []network.NodeID {
	return node.links[i].ids
}

// LinkValue 读取第i个连接缓冲区第j个元素对应的节点值。
func (node *Node) LinkValue(net network.Network, i, j int) float64 {
	return net.GetValue(node.links[i].ids[j])
}

// LinkValues 读取第i个连接缓冲区全部元素对应的节点值。
func (node *Node) LinkValues(net network.Network, i int, out []float64) []float64 {
	out = out[:0]
	for _, id := range node.links[i].ids {
		out = append(out, net.GetValue(id))
	}
	return out
}

// bind 建立全部连接缓冲区的绑定。
// 按位置绑定时缓冲区长度等于连接数量，第i个元素对应第i个连接节点。
// 按名称绑定时每个名称必须在连接节点中找到同名节点，否则返回配置错误。
// 连接节点不变时保留已建立的名称索引，改变时清空重建。
// 出口节点以元件名称登记到宿主网络，每次绑定替换旧的登记。
func (node *Node) bind(net network.Network) error {
	net.SetOutlets(node.Name, nil)
	var outlets []network.NodeID
	for i := range node.ConfigPtr.Links {
		link := &node.ConfigPtr.Links[i]
		conn := node.connected[link.Kind]
		b := &node.links[i]
		if link.Names == nil {
			if link.Count > 0 && len(conn) != link.Count {
				return configError(node.Name, link.Name, ErrConnection, "需要 %d 个 %s 节点，得到 %d",
					link.Count, link.Kind, len(conn))
			}
			b.ids = slices.Clone(conn)
		} else {
			if !slices.Equal(b.shape, conn) {
				b.shape = slices.Clone(conn)
				b.index = nil
			}
			if b.index == nil {
				b.index = make(map[string]int, len(conn))
			}
			names := link.Names(node)
			b.ids = make([]network.NodeID, len(names))
			for j, name := range names {
				k, ok := b.index[name]
				if !ok {
					if k = slices.IndexFunc(conn, func(id network.NodeID) bool {
						return net.GetName(id) == name
					}); k < 0 {
						return configError(node.Name, name, ErrBinding, "%s '%s' 中没有该节点", link.Kind, link.Name)
					}
					b.index[name] = k
				}
				b.ids[j] = conn[k]
			}
		}
		if link.Kind == LinkOutlet {
			outlets = append(outlets, b.ids...)
		}
	}
	net.SetOutlets(node.Name, outlets)
	return nil
}
