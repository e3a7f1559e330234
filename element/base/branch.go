package base

import (
	"fmt"

	"hydro/element"
	"hydro/maths"
	"hydro/network"
)

// 分支模型参数下标
const (
	branchDelta   = iota // 按月修正量
	branchMinimum        // 修正后输入的下限
	branchXPoints        // 断点
	branchYPoints        // 每个分支在断点处的值
)

// 分支模型派生参数下标
const (
	branchMOY         = iota // 每个步长的月份索引
	branchNmbBranches        // 分支数量
	branchNmbPoints          // 断点数量
)

// 分支模型序列下标
const (
	branchOriginalInput = iota // 通量：入口节点之和
	branchAdjustedInput        // 通量：按月修正后的输入
	branchOutputs              // 通量：各分支输出
)

// 分支模型连接下标
const (
	branchInlets  = iota // 任意数量的入口节点
	branchOutlets        // 按分支名称绑定的出口节点
)

// BranchType 分支模型。
// 入口节点之和按月修正后，通过分段线性插值分配到各个按名称绑定的出口节点。
var BranchType element.NodeType = element.AddElement(2, &element.Config{
	Name: "branch",
	Parameters: []element.Parameter{
		{Name: "delta", NDim: 1, Monthly: true, Span: element.Unbounded, Init: []float64{0}, Unit: "m3/s"},
		{Name: "minimum", Span: element.AtLeast(0), Init: []float64{0}, Unit: "m3/s"},
		{Name: "xpoints", NDim: 1, Span: element.Unbounded, Unit: "m3/s"},
		{Name: "ypoints", NDim: 2, Span: element.Unbounded, Unit: "m3/s"},
	},
	Derived: []element.Derived{
		{Name: "moy", Update: updateMOY},
		{Name: "nmbbranches", Update: func(node *element.Node, _ network.Time) []float64 {
			return []float64{float64(len(node.Rows(branchYPoints)))}
		}},
		{Name: "nmbpoints", Update: func(node *element.Node, _ network.Time) []float64 {
			return []float64{float64(len(node.Vector(branchXPoints)))}
		}},
	},
	Sequences: []element.Sequence{
		{Name: "originalinput", Kind: element.KindFlux, Size: 1},
		{Name: "adjustedinput", Kind: element.KindFlux, Size: 1},
		{Name: "outputs", Kind: element.KindFlux, SizeOf: func(node *element.Node) int {
			return len(node.Rows(branchYPoints))
		}},
	},
	Links: []element.Link{
		{Name: "total", Kind: element.LinkInlet},
		{Name: "branched", Kind: element.LinkOutlet, Names: func(node *element.Node) []string {
			return node.Keys(branchYPoints)
		}},
	},
	Check: checkBranchTables,
	Inlet: []element.Method{{
		Name:     "pick_originalinput",
		Call:     pickSum(branchInlets, branchOriginalInput),
		Requires: []string{"inlets.total"},
		Updates:  []string{"fluxes.originalinput"},
	}},
	Run: []element.Method{{
		Name:     "calc_adjustedinput",
		Call:     calcAdjustedInput,
		Requires: []string{"parameters.delta", "parameters.minimum", "derived.moy", "fluxes.originalinput"},
		Updates:  []string{"fluxes.adjustedinput"},
	}, {
		Name: "calc_outputs",
		Call: calcOutputs,
		Requires: []string{"parameters.xpoints", "parameters.ypoints",
			"derived.nmbbranches", "derived.nmbpoints", "fluxes.adjustedinput"},
		Updates: []string{"fluxes.outputs"},
	}},
	Outlet: []element.Method{{
		Name:     "pass_outputs",
		Call:     passEach(branchOutputs, branchOutlets),
		Requires: []string{"fluxes.outputs"},
		Updates:  []string{"outlets.branched"},
	}},
	Interfaces: []element.Interface{
		{Name: "originalinput", Sequence: "originalinput"},
		{Name: "adjustedinput", Sequence: "adjustedinput"},
		{Name: "outputs", Sequence: "outputs"},
	},
})

// updateMOY 计算仿真期内每个步长的月份索引。
func updateMOY(_ *element.Node, tm network.Time) []float64 {
	moy := make([]float64, tm.StepNum())
	for i := range moy {
		moy[i] = float64(tm.MonthOf(i))
	}
	return moy
}

// checkBranchTables 断点必须严格递增且至少两个，每个分支的值与断点数量相同。
func checkBranchTables(node *element.Node) error {
	xs := node.Vector(branchXPoints)
	if len(xs) < 2 {
		return &element.ConfigError{Element: node.Name, Name: "xpoints",
			Err: fmt.Errorf("%w: 至少需要 2 个断点，得到 %d", element.ErrShape, len(xs))}
	}
	for i := 1; i < len(xs); i++ {
		if !(xs[i] > xs[i-1]) {
			return &element.ConfigError{Element: node.Name, Name: "xpoints",
				Err: fmt.Errorf("%w: 断点必须严格递增", element.ErrShape)}
		}
	}
	for i, row := range node.Rows(branchYPoints) {
		if len(row) != len(xs) {
			return &element.ConfigError{Element: node.Name, Name: node.Keys(branchYPoints)[i],
				Err: fmt.Errorf("%w: 需要 %d 个值，得到 %d", element.ErrShape, len(xs), len(row))}
		}
	}
	return nil
}

// calcAdjustedInput 按当前月份修正输入并施加下限。
func calcAdjustedInput(_ network.Network, tm network.Time, node *element.Node) error {
	month, moy := tm.Month(), node.Derived[branchMOY]
	if step := tm.Step(); step >= 0 && step < len(moy) {
		month = int(moy[step])
	}
	node.Seq(branchAdjustedInput)[0] = maths.AdjustInput(
		node.Seq(branchOriginalInput)[0],
		node.Vector(branchDelta)[month],
		node.Param(branchMinimum),
	)
	return nil
}

// calcOutputs 分段线性插值，表外按边界线段外推。
func calcOutputs(_ network.Network, _ network.Time, node *element.Node) error {
	branches := int(node.DerivedScalar(branchNmbBranches))
	points := int(node.DerivedScalar(branchNmbPoints))
	maths.BranchInterpolate(
		node.Vector(branchXPoints)[:points],
		node.Rows(branchYPoints)[:branches],
		node.Seq(branchAdjustedInput)[0],
		node.Seq(branchOutputs)[:branches],
	)
	return nil
}
