package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"hydro"
	"hydro/debug"
	"hydro/element"
)

// runOptions run 命令参数
type runOptions struct {
	overrides []string // 参数覆盖
	output    string   // 输出文件，按扩展名选择格式：.json .html .png
	nodes     []string // 绘图节点
	quiet     bool     // 不打印节点值
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "hydro",
		Short:         "河网节点交换模型仿真",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRunCmd(), newModelsCmd())
	return root
}

func newRunCmd() *cobra.Command {
	opt := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run <project.yaml>",
		Short: "运行项目文件中的仿真",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.OutOrStdout(), args[0], opt)
		},
	}
	cmd.Flags().StringArrayVar(&opt.overrides, "set", nil, "覆盖元件参数，如 --set weir.crestheight=1.5")
	cmd.Flags().StringVarP(&opt.output, "output", "o", "", "输出文件 (.json, .html, .png)")
	cmd.Flags().StringSliceVar(&opt.nodes, "nodes", nil, "PNG 图中绘制的节点，默认全部")
	cmd.Flags().BoolVarP(&opt.quiet, "quiet", "q", false, "不打印每个步长的节点值")
	return cmd
}

// newDebug 按输出文件扩展名选择记录方式。
func newDebug(output string, nodes []string) (debug.Debug, error) {
	switch ext := strings.ToLower(filepath.Ext(output)); ext {
	case "", ".json", ".db":
		return &debug.Record{}, nil
	case ".html":
		return &debug.Charts{}, nil
	case ".png":
		return &debug.Plot{Names: nodes}, nil
	default:
		return nil, fmt.Errorf("不支持的输出格式 '%s'", ext)
	}
}

func run(w io.Writer, filename string, opt *runOptions) error {
	h, err := hydro.Load(filename, opt.overrides...)
	if err != nil {
		return err
	}
	if h.Debug, err = newDebug(opt.output, opt.nodes); err != nil {
		return err
	}
	names := h.Nodes.Names()
	if !opt.quiet {
		fmt.Fprintf(w, "step\ttime\t%s\n", strings.Join(names, "\t"))
	}
	err = h.Simulate(func(step int, values []float64) {
		if opt.quiet {
			return
		}
		fields := make([]string, len(values))
		for i, v := range values {
			fields[i] = fmt.Sprintf("%g", v)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\n", step, h.Calendar.TimeOf(step).Format("2006-01-02T15:04"), strings.Join(fields, "\t"))
	})
	if err != nil {
		return err
	}
	if opt.output == "" {
		return nil
	}
	if strings.EqualFold(filepath.Ext(opt.output), ".db") {
		if err := h.Debug.(*debug.Record).Save(opt.output); err != nil {
			return err
		}
		log.Printf("已写入 %s", opt.output)
		return nil
	}
	file, err := os.Create(opt.output)
	if err != nil {
		return err
	}
	defer file.Close()
	if err := h.Debug.Render(file); err != nil {
		return err
	}
	log.Printf("已写入 %s", opt.output)
	return file.Close()
}

func newModelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "列出已注册的模型及其参数",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printModels(cmd.OutOrStdout())
		},
	}
}

func printModels(w io.Writer) error {
	for _, name := range element.Models() {
		nodeType, err := element.Lookup(name)
		if err != nil {
			return err
		}
		config := nodeType.Config()
		fmt.Fprintf(w, "%s\n", name)
		for _, param := range config.Parameters {
			line := fmt.Sprintf("  parameters.%s %s", param.Name, param.Span)
			switch {
			case param.Monthly:
				line += " monthly"
			case param.NDim > 0:
				line += fmt.Sprintf(" ndim=%d", param.NDim)
			}
			if param.Init != nil {
				line += fmt.Sprintf(" default=%v", param.Init)
			}
			if param.Unit != "" {
				line += " " + param.Unit
			}
			fmt.Fprintln(w, line)
		}
		for _, link := range config.Links {
			count := "*"
			if link.Count > 0 {
				count = fmt.Sprint(link.Count)
			}
			by := "position"
			if link.Names != nil {
				by = "name"
			}
			fmt.Fprintf(w, "  %s.%s count=%s by=%s\n", link.Kind, link.Name, count, by)
		}
		for _, face := range config.Interfaces {
			fmt.Fprintf(w, "  get_%s", face.Name)
			if len(face.Methods) > 0 {
				fmt.Fprintf(w, " determine_%s", face.Name)
			}
			fmt.Fprintln(w)
		}
	}
	return nil
}
