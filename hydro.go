package hydro

import (
	"fmt"

	"hydro/debug"
	"hydro/element"
	_ "hydro/element/base" // 注册模型
	"hydro/element/time"
	"hydro/graph"
	"hydro/load"
	"hydro/utils"
)

// Hydro 交换模型仿真器
type Hydro struct {
	*load.Model
	Debug debug.Debug // 仿真记录，可以为 nil
}

// Load 加载项目文件，overrides 为 "元件.参数=值,..." 格式的参数覆盖。
func Load(filename string, overrides ...string) (*Hydro, error) {
	project, err := load.LoadFile(filename)
	if err != nil {
		return nil, err
	}
	for _, s := range overrides {
		o, err := utils.ParseOverride(s)
		if err != nil {
			return nil, err
		}
		if err := project.SetParam(o.Element, o.Name, o.Values...); err != nil {
			return nil, err
		}
	}
	return New(project)
}

// New 由项目描述创建仿真器，元件按上下游关系排序。
func New(project *load.Project) (*Hydro, error) {
	model, err := project.Build()
	if err != nil {
		return nil, err
	}
	model.Elements, err = graph.Order(model.Elements)
	if err != nil {
		return nil, err
	}
	return &Hydro{Model: model}, nil
}

// Element 按名称查找元件。
func (h *Hydro) Element(name string) (*element.Node, bool) {
	for _, node := range h.Elements {
		if node.Name == name {
			return node, true
		}
	}
	return nil, false
}

// Value 返回节点的当前值。
func (h *Hydro) Value(name string) (float64, error) {
	id, err := h.Nodes.MustLookup(name)
	if err != nil {
		return 0, err
	}
	return h.Nodes.GetValue(id), nil
}

// Simulate 进行仿真，每个步长结束后记录节点值并调用 call。
// 重复调用时节点值清零，日志序列保持上一次仿真结束时的状态。
func (h *Hydro) Simulate(call func(step int, values []float64)) error {
	h.Nodes.Reset()
	if h.Debug != nil {
		h.Debug.Init(h.Nodes, h.Calendar, h.Elements)
	}
	err := time.Simulate(h.Calendar, h.Nodes, h.Elements, func(step int, values []float64) {
		if h.Debug != nil {
			h.Debug.Update(step, values)
		}
		if call != nil {
			call(step, values)
		}
	})
	if err != nil {
		if h.Debug != nil {
			h.Debug.Error(err)
		}
		return fmt.Errorf("仿真失败: %w", err)
	}
	return nil
}
