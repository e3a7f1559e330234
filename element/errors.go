package element

import (
	"errors"
	"fmt"
)

// 配置错误，仿真开始前检测并立即返回。
var (
	ErrOutOfSpan        = errors.New("参数超出取值范围")
	ErrShape            = errors.New("参数形状不一致")
	ErrUnknownParameter = errors.New("未知参数")
	ErrUnset            = errors.New("参数未赋值")
	ErrBinding          = errors.New("未找到指定名称的连接节点")
	ErrConnection       = errors.New("连接节点数量错误")
	ErrUnknownModel     = errors.New("未知模型")
	ErrUnknownInterface = errors.New("未知接口")
	ErrNotReady         = errors.New("元件未准备")
	ErrCurve            = errors.New("插值函数错误")
)

// ConfigError 配置错误，记录出错的元件与参数、连接或节点名称。
type ConfigError struct {
	Element string // 元件名称
	Name    string // 参数、连接或节点名称
	Err     error  // 原始错误
}

func (e *ConfigError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("元件 '%s': %v", e.Element, e.Err)
	}
	return fmt.Sprintf("元件 '%s' 的 '%s': %v", e.Element, e.Name, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// configError 创建配置错误。
func configError(element, name string, err error, format string, args ...any) error {
	if format != "" {
		err = fmt.Errorf("%w: %s", err, fmt.Sprintf(format, args...))
	}
	return &ConfigError{Element: element, Name: name, Err: err}
}
