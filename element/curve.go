package element

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/interp"
)

// Curve 单点插值函数：输入一个标量，返回一个标量。
// 函数的数值行为完全由实现决定，返回的错误由调用方原样传递。
type Curve interface {
	Evaluate(x float64) (float64, error)
}

// CurveFunc 函数形式的 Curve。
type CurveFunc func(x float64) (float64, error)

// Evaluate 计算函数值。
func (f CurveFunc) Evaluate(x float64) (float64, error) { return f(x) }

// 支持的插值方法。
var curveKinds = map[string]func() interp.FittablePredictor{
	"constant":       func() interp.FittablePredictor { return &interp.PiecewiseConstant{} },
	"linear":         func() interp.FittablePredictor { return &interp.PiecewiseLinear{} },
	"akima":          func() interp.FittablePredictor { return &interp.AkimaSpline{} },
	"fritschbutland": func() interp.FittablePredictor { return &interp.FritschButland{} },
	"cubic":          func() interp.FittablePredictor { return &interp.NaturalCubic{} },
}

// CurveKinds 返回支持的插值方法名称。
func CurveKinds() []string {
	return []string{"constant", "linear", "akima", "fritschbutland", "cubic"}
}

// predictorCurve 将 gonum 的插值器包装为 Curve。
type predictorCurve struct {
	kind      string
	predictor interp.Predictor
}

// Evaluate 计算插值结果，结果为 NaN 或 Inf 时返回错误。
func (curve *predictorCurve) Evaluate(x float64) (float64, error) {
	y := curve.predictor.Predict(x)
	if math.IsNaN(y) || math.IsInf(y, 0) {
		return 0, fmt.Errorf("%w: %s 在 x=%v 处得到 %v", ErrCurve, curve.kind, x, y)
	}
	return y, nil
}

// NewCurve 用指定的插值方法拟合数据点。
// 参数kind: 插值方法，见 CurveKinds。
// 参数xs: 严格递增的横坐标。
// 参数ys: 与 xs 等长的纵坐标。
func NewCurve(kind string, xs, ys []float64) (Curve, error) {
	newFitter, ok := curveKinds[strings.ToLower(kind)]
	if !ok {
		return nil, fmt.Errorf("%w: 未知插值方法 '%s'", ErrCurve, kind)
	}
	if len(xs) != len(ys) {
		return nil, fmt.Errorf("%w: 横坐标 %d 个，纵坐标 %d 个", ErrShape, len(xs), len(ys))
	}
	for i := 1; i < len(xs); i++ {
		if !(xs[i] > xs[i-1]) {
			return nil, fmt.Errorf("%w: 横坐标必须严格递增", ErrShape)
		}
	}
	predictor := newFitter()
	if err := fitCurve(predictor, xs, ys); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCurve, kind, err)
	}
	return &predictorCurve{kind: kind, predictor: predictor}, nil
}

// fitCurve 拟合数据点，插值器的 panic 转换为错误。
func fitCurve(predictor interp.FittablePredictor, xs, ys []float64) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	return predictor.Fit(xs, ys)
}
