package debug

import (
	"io"
	"log"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

// Charts 曲线绘制
type Charts struct {
	Record
}

// Render 格式化
func (c *Charts) Render(w io.Writer) error {
	// 初始化界面
	graph := charts.NewGraph()
	graph.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Theme:     types.ThemeWesteros,
			PageTitle: "hydro",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "节点信息",
			Subtitle: "元件与节点连接网络图",
		}),
		charts.WithLegendOpts(opts.Legend{
			Type:   "scroll",
			Orient: "vertical",
			Right:  "10",
			Top:    "20",
			Bottom: "20",
		}),
	)
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Theme: types.ThemeWesteros,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "节点曲线",
			Subtitle: "节点值随时间变化曲线",
		}),
		charts.WithLegendOpts(opts.Legend{
			Type:   "scroll",
			Orient: "vertical",
			Right:  "10",
			Top:    "20",
			Bottom: "20",
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Scale: opts.Bool(true),
		}),
		charts.WithDataZoomOpts(opts.DataZoom{
			Type:       "inside",
			Start:      0,
			End:        100,
			XAxisIndex: []int{0},
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
	)
	// 连接网络
	{
		graphNodes := make([]opts.GraphNode, 0, len(c.Elements)+len(c.Nodes))
		for _, name := range c.Nodes {
			graphNodes = append(graphNodes, opts.GraphNode{Name: name, Category: 1})
		}
		elements := map[string]bool{}
		graphLinks := make([]opts.GraphLink, 0, len(c.Links))
		for _, link := range c.Links {
			if !elements[link.Element] {
				elements[link.Element] = true
				graphNodes = append(graphNodes, opts.GraphNode{Name: link.Element, Category: 0})
			}
			source, target := link.Node, link.Element
			if link.Kind == "outlets" || link.Kind == "senders" {
				source, target = target, source
			}
			graphLinks = append(graphLinks, opts.GraphLink{Source: source, Target: target})
		}
		graph.AddSeries("连接", graphNodes, graphLinks,
			charts.WithGraphChartOpts(opts.GraphChart{
				Layout: "force",
				Categories: []*opts.GraphCategory{
					{Name: "元件", ItemStyle: &opts.ItemStyle{Color: "#c71979b7"}},
					{Name: "节点", ItemStyle: &opts.ItemStyle{Color: "#1987c7b7"}},
				},
				Roam:      opts.Bool(true),
				Force:     &opts.GraphForce{Repulsion: 80},
				EdgeLabel: &opts.EdgeLabel{Show: opts.Bool(false)},
			}))
	}
	// 节点曲线
	{
		line.SetXAxis(c.labels())
		for i, name := range c.Nodes {
			items := make([]opts.LineData, len(c.Values))
			for step, values := range c.Values {
				items[step] = opts.LineData{Value: values[i]}
			}
			line.AddSeries(name, items)
		}
	}
	// 构建界面
	page := components.NewPage()
	page.AddCharts(
		graph,
		line,
	)
	return page.Render(w)
}

func (c *Charts) Error(err error) { log.Println(err) }
