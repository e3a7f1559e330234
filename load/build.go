package load

import (
	"fmt"
	"sort"

	"hydro/element"
	"hydro/network"
)

// Model 由项目描述创建的仿真对象。
type Model struct {
	Nodes    *network.Nodes    // 节点网络
	Calendar *network.Calendar // 时间网格
	Elements []*element.Node   // 元件，保持描述中的顺序
}

// Build 创建节点、日历与元件，并设置参数、连接、日志和插值函数。
// 参数的取值范围由元件检查，错误中指明元件与参数。
func (project *Project) Build() (*Model, error) {
	nodes, err := network.NewNodes(project.Nodes...)
	if err != nil {
		return nil, err
	}
	for _, name := range sortedKeys(project.Series) {
		id, err := nodes.MustLookup(name)
		if err != nil {
			return nil, fmt.Errorf("输入序列: %w", err)
		}
		if err := nodes.SetSeries(id, project.Series[name]); err != nil {
			return nil, err
		}
	}
	step, err := project.StepSize()
	if err != nil {
		return nil, err
	}
	cal, err := network.NewCalendar(project.Calendar.Start, step, project.Calendar.Steps)
	if err != nil {
		return nil, err
	}
	model := &Model{Nodes: nodes, Calendar: cal}
	for i := range project.Elements {
		node, err := buildElement(&project.Elements[i], nodes)
		if err != nil {
			return nil, err
		}
		model.Elements = append(model.Elements, node)
	}
	return model, nil
}

// buildElement 创建单个元件。
func buildElement(desc *Element, nodes *network.Nodes) (*element.Node, error) {
	node, err := element.NewElement(desc.Model, desc.Name)
	if err != nil {
		return nil, &element.ConfigError{Element: desc.Name, Name: desc.Model, Err: err}
	}
	for _, name := range sortedKeys(desc.Params) {
		if err := node.SetParameter(name, desc.Params[name]...); err != nil {
			return nil, err
		}
	}
	for _, name := range sortedKeys(desc.Tables) {
		rows := desc.Tables[name]
		keys := make([]string, len(rows))
		values := make([][]float64, len(rows))
		for i, row := range rows {
			keys[i], values[i] = row.Name, row.Values
		}
		if err := node.SetTable(name, keys, values); err != nil {
			return nil, err
		}
	}
	for _, name := range sortedKeys(desc.Logs) {
		if err := node.SetLog(name, desc.Logs[name]...); err != nil {
			return nil, err
		}
	}
	for _, kindName := range sortedKeys(desc.Connections) {
		kind, ok := element.ParseLinkKind(kindName)
		if !ok {
			return nil, &element.ConfigError{Element: desc.Name, Name: kindName, Err: element.ErrConnection}
		}
		ids := make([]network.NodeID, 0, len(desc.Connections[kindName]))
		for _, name := range desc.Connections[kindName] {
			id, err := nodes.MustLookup(name)
			if err != nil {
				return nil, &element.ConfigError{Element: desc.Name, Name: name, Err: err}
			}
			ids = append(ids, id)
		}
		node.SetConnections(kind, ids...)
	}
	if desc.Curve != nil {
		curve, err := element.NewCurve(desc.Curve.Kind, desc.Curve.Xs, desc.Curve.Ys)
		if err != nil {
			return nil, &element.ConfigError{Element: desc.Name, Name: "curve", Err: err}
		}
		node.SetCurve(curve)
	}
	return node, nil
}

// sortedKeys 按名称排序，错误信息与结果不依赖 map 的遍历顺序。
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
