package debug

import (
	"fmt"
	"io"
	"log"
	"time"

	"github.com/sugawarayuuta/sonnet"

	"hydro/element"
	"hydro/network"
)

// Debug 仿真过程记录。
type Debug interface {
	Init(nodes *network.Nodes, cal *network.Calendar, elements []*element.Node)
	Update(step int, values []float64)
	Render(w io.Writer) error
	Error(err error)
}

// Link 元件与节点的连接。
type Link struct {
	Element string `json:"element"`
	Node    string `json:"node"`
	Kind    string `json:"kind"`
}

// Record 记录历史状态
type Record struct {
	Nodes    []string    `json:"nodes"`    // 节点名称
	Elements []string    `json:"elements"` // 元件列表
	Links    []Link      `json:"links"`    // 连接信息
	Time     []time.Time `json:"time"`     // 每个步长的开始时间
	Values   [][]float64 `json:"values"`   // 每个步长结束时的节点值

	cal *network.Calendar
}

// Init 初始化
func (list *Record) Init(nodes *network.Nodes, cal *network.Calendar, elements []*element.Node) {
	list.Nodes = nodes.Names()
	list.Elements = list.Elements[:0]
	list.Links = list.Links[:0]
	list.Time = list.Time[:0]
	list.Values = list.Values[:0]
	list.cal = cal
	for _, node := range elements {
		list.Elements = append(list.Elements, fmt.Sprintf("%s(%s)", node.Name, node.Type()))
		for _, link := range node.Config().Links {
			for _, id := range node.Connections(link.Kind) {
				list.Links = append(list.Links, Link{
					Element: node.Name,
					Node:    nodes.GetName(id),
					Kind:    link.Kind.String(),
				})
			}
		}
	}
}

// Update 记录数据
func (list *Record) Update(step int, values []float64) {
	if list.cal != nil {
		list.Time = append(list.Time, list.cal.TimeOf(step))
	}
	list.Values = append(list.Values, append([]float64(nil), values...))
}

// Series 返回指定节点在每个步长的值。
func (list *Record) Series(name string) ([]float64, bool) {
	for i, n := range list.Nodes {
		if n != name {
			continue
		}
		out := make([]float64, len(list.Values))
		for step, values := range list.Values {
			out[step] = values[i]
		}
		return out, true
	}
	return nil, false
}

// Render 格式和输出内容
func (list *Record) Render(w io.Writer) error {
	data, err := sonnet.Marshal(list)
	if err != nil {
		return err
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

func (list *Record) Error(err error) { log.Println(err) }

// labels 横坐标标签
func (list *Record) labels() []string {
	out := make([]string, len(list.Values))
	for i := range out {
		if i < len(list.Time) {
			out[i] = list.Time[i].Format("2006-01-02 15:04")
		} else {
			out[i] = fmt.Sprint(i)
		}
	}
	return out
}
