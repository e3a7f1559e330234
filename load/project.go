package load

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"hydro/element"
	"hydro/utils"
)

// projectValidate 项目描述的结构校验。
var projectValidate = validator.New()

// Floats 标量或列表形式的数值，"1" 与 "[1, 2]" 都可以。
type Floats []float64

// UnmarshalYAML 解析标量或列表。
func (f *Floats) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var v float64
		if err := value.Decode(&v); err != nil {
			return err
		}
		*f = Floats{v}
		return nil
	case yaml.SequenceNode:
		var v []float64
		if err := value.Decode(&v); err != nil {
			return err
		}
		*f = v
		return nil
	}
	return fmt.Errorf("第 %d 行: 需要数值或数值列表", value.Line)
}

// Project 项目描述：节点、日历、输入序列与元件。
type Project struct {
	Nodes    []string          `yaml:"nodes" validate:"required,min=1,unique,dive,required"`
	Calendar Calendar          `yaml:"calendar"`
	Series   map[string]Floats `yaml:"series" validate:"dive,keys,required,endkeys,min=1"`
	Elements []Element         `yaml:"elements" validate:"required,min=1,unique=Name,dive"`
}

// Calendar 时间网格描述。
type Calendar struct {
	Start time.Time `yaml:"start" validate:"required"`
	Step  string    `yaml:"step" validate:"required"`
	Steps int       `yaml:"steps" validate:"gt=0"`
}

// Row 二维参数的一行。
type Row struct {
	Name   string    `yaml:"name" validate:"required"`
	Values []float64 `yaml:"values" validate:"required,min=1"`
}

// Curve 插值函数描述。
type Curve struct {
	Kind string    `yaml:"kind" validate:"required,oneof=constant linear akima fritschbutland cubic"`
	Xs   []float64 `yaml:"xs" validate:"required,min=2"`
	Ys   []float64 `yaml:"ys" validate:"required,min=2"`
}

// Element 元件描述。
// 连接按类型给出节点名称，类型为 inlets、outlets、receivers、senders、observers。
type Element struct {
	Model       string              `yaml:"model" validate:"required"`
	Name        string              `yaml:"name" validate:"required"`
	Params      map[string]Floats   `yaml:"params"`
	Tables      map[string][]Row    `yaml:"tables" validate:"dive,min=1,dive"`
	Connections map[string][]string `yaml:"connections" validate:"dive,keys,oneof=inlets outlets receivers senders observers,endkeys,dive,required"`
	Logs        map[string]Floats   `yaml:"logs"`
	Curve       *Curve              `yaml:"curve"`
}

// LoadFile 从文件加载项目描述。
func LoadFile(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	project, err := Load(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return project, nil
}

// LoadString 加载项目描述。
func LoadString(s string) (*Project, error) {
	return Load(strings.NewReader(s))
}

// Load 解析并校验项目描述，不认识的字段视为错误。
func Load(r io.Reader) (*Project, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	project := &Project{}
	if err := decoder.Decode(project); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("项目描述为空")
		}
		return nil, fmt.Errorf("解析项目描述失败: %w", err)
	}
	if err := projectValidate.Struct(project); err != nil {
		return nil, fmt.Errorf("项目描述无效: %w", err)
	}
	if _, err := project.StepSize(); err != nil {
		return nil, err
	}
	return project, nil
}

// StepSize 解析步长。
func (project *Project) StepSize() (time.Duration, error) {
	step, err := utils.NetList{project.Calendar.Step}.ParseDuration(0)
	if err != nil {
		return 0, fmt.Errorf("步长无效: %w", err)
	}
	if step <= 0 {
		return 0, fmt.Errorf("步长 '%s' 必须大于0", project.Calendar.Step)
	}
	return step, nil
}

// Find 按名称查找元件描述。
func (project *Project) Find(name string) (*Element, bool) {
	for i := range project.Elements {
		if project.Elements[i].Name == name {
			return &project.Elements[i], true
		}
	}
	return nil, false
}

// SetParam 覆盖元件参数，用于命令行参数。
func (project *Project) SetParam(name, param string, values ...float64) error {
	e, ok := project.Find(name)
	if !ok {
		return &element.ConfigError{Element: name, Err: errors.New("元件不存在")}
	}
	if e.Params == nil {
		e.Params = map[string]Floats{}
	}
	e.Params[param] = values
	return nil
}
