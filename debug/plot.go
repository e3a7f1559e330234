package debug

import (
	"fmt"
	"io"
	"log"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// Plot 静态曲线图，Names 为空时绘制所有节点。
// 默认字体不含中文字形，图中文字使用英文。
type Plot struct {
	Record
	Names  []string  // 绘制的节点
	Width  vg.Length // 宽度，默认 16cm
	Height vg.Length // 高度，默认 10cm
	Format string    // 图片格式，默认 png
}

// Render 输出节点值随步长变化的曲线图。
func (p *Plot) Render(w io.Writer) error {
	plt := plot.New()
	plt.Title.Text = "nodes"
	plt.X.Label.Text = "step"
	plt.Y.Label.Text = "value"
	plt.Legend.Top = true

	names := p.Names
	if len(names) == 0 {
		names = p.Nodes
	}
	lines := make([]any, 0, 2*len(names))
	for _, name := range names {
		values, ok := p.Series(name)
		if !ok {
			return fmt.Errorf("未知节点 '%s'", name)
		}
		xys := make(plotter.XYs, len(values))
		for i, v := range values {
			xys[i].X, xys[i].Y = float64(i), v
		}
		lines = append(lines, name, xys)
	}
	if err := plotutil.AddLinePoints(plt, lines...); err != nil {
		return err
	}
	width, height, format := p.Width, p.Height, p.Format
	if width == 0 {
		width = 16 * vg.Centimeter
	}
	if height == 0 {
		height = 10 * vg.Centimeter
	}
	if format == "" {
		format = "png"
	}
	writer, err := plt.WriterTo(width, height, format)
	if err != nil {
		return err
	}
	_, err = writer.WriteTo(w)
	return err
}

func (p *Plot) Error(err error) { log.Println(err) }
