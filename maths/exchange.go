package maths

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Sum 对任意数量的节点值求和。没有连接节点时返回0。
func Sum(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return floats.Sum(values)
}

// DeltaLevel 计算有效水位差。
// 只有高于阈值（堰顶高程）的部分参与交换：max(l0, t) - max(l1, t)。
func DeltaLevel(l0, l1, threshold float64) float64 {
	return math.Max(l0, threshold) - math.Max(l1, threshold)
}

// PotentialExchange 计算双向堰流公式：sign(d) * c * w * |d|^e。
// d 为0时对任意指数都返回0。
func PotentialExchange(d, width, coefficient, exponent float64) float64 {
	if d == 0 {
		return 0
	}
	return math.Copysign(coefficient*width*math.Pow(math.Abs(d), exponent), d)
}

// ClampExchange 将交换量限制在允许范围 [-a, a] 内，保持符号不变。
func ClampExchange(p, allowed float64) float64 {
	if p >= 0 {
		return math.Min(p, allowed)
	}
	return math.Max(p, -allowed)
}

// Distribute 将交换量分配到两个出口：第一个失去 x，第二个得到 x。
func Distribute(x float64, out []float64) {
	out[0] = -x
	out[1] = x
}

// AdjustInput 按月修正输入并施加下限：max(x + delta, minimum)。
func AdjustInput(x, delta, minimum float64) float64 {
	return math.Max(x+delta, minimum)
}

// Segment 返回用于插值的线段右端点下标 p。
// p 是第一个满足 xs[p] > q 的下标（p >= 1），找不到时取最后一个线段。
// q 等于内部断点时选择以该断点为左端点的线段。
func Segment(xs []float64, q float64) int {
	n := len(xs)
	for p := 1; p < n; p++ {
		if xs[p] > q {
			return p
		}
	}
	return n - 1
}

// BranchInterpolate 分支分段线性插值。
// 表内线性插值，表外使用边界线段的斜率线性外推，各分支相互独立。
//
//	xs: 严格递增的断点，至少两个。
//	ys: 每个分支一行，长度与 xs 相同。
//	q: 查询值。
//	out: 每个分支的结果，长度与 ys 相同。
func BranchInterpolate(xs []float64, ys [][]float64, q float64, out []float64) {
	p := Segment(xs, q)
	x0, x1 := xs[p-1], xs[p]
	for b, y := range ys {
		out[b] = y[p-1] + (q-x0)*(y[p]-y[p-1])/(x1-x0)
	}
}
