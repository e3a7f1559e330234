package element

import (
	"errors"
	"fmt"
	"strings"
)

// 方法读写集合中使用的类别。
const (
	groupParameters = "parameters"
	groupDerived    = "derived"
)

// validate 校验模型声明。
// 每个方法只能读取参数、派生参数、日志序列、输入连接，
// 以及同一步长内更早的方法已经写入的因子和通量。
func (config *Config) validate() error {
	if config.Name == "" {
		return errors.New("模型名称为空")
	}
	groups, err := config.groups()
	if err != nil {
		return err
	}
	written := map[string]bool{}
	for _, mark := range []Mark{MarkReceive, MarkInlet, MarkRun, MarkOutlet, MarkSend} {
		for _, method := range config.Phase(mark) {
			if err := config.validateMethod(groups, written, mark, method); err != nil {
				return err
			}
		}
	}
	for _, face := range config.Interfaces {
		if face.Name == "" {
			return errors.New("接口名称为空")
		}
		if config.SequenceIndex(face.Sequence) < 0 {
			return fmt.Errorf("接口 '%s' 的序列 '%s' 未声明", face.Name, face.Sequence)
		}
		written := map[string]bool{}
		for _, method := range face.Methods {
			if err := config.validateMethod(groups, written, MarkReceive, method); err != nil {
				return fmt.Errorf("接口 '%s': %w", face.Name, err)
			}
		}
	}
	return nil
}

// groups 收集全部声明的名称，按类别分组。
func (config *Config) groups() (map[string]string, error) {
	groups := map[string]string{}
	add := func(group, name string) error {
		if name == "" {
			return fmt.Errorf("%s 中存在空名称", group)
		}
		key := group + "." + name
		if _, ok := groups[key]; ok {
			return fmt.Errorf("'%s' 重复声明", key)
		}
		groups[key] = group
		return nil
	}
	for _, param := range config.Parameters {
		if param.Monthly && param.NDim != 1 {
			return nil, fmt.Errorf("按月参数 '%s' 必须是一维", param.Name)
		}
		if param.Monthly && param.Init != nil && len(param.Init) != 1 && len(param.Init) != 12 {
			return nil, fmt.Errorf("按月参数 '%s' 默认值数量错误", param.Name)
		}
		if err := add(groupParameters, param.Name); err != nil {
			return nil, err
		}
	}
	for _, derived := range config.Derived {
		if derived.Update == nil {
			return nil, fmt.Errorf("派生参数 '%s' 没有计算函数", derived.Name)
		}
		if err := add(groupDerived, derived.Name); err != nil {
			return nil, err
		}
	}
	for _, seq := range config.Sequences {
		switch {
		case seq.Kind == KindLog && (seq.Size <= 0 || seq.SizeOf != nil):
			return nil, fmt.Errorf("日志序列 '%s' 必须有固定长度", seq.Name)
		case seq.Size <= 0 && seq.SizeOf == nil:
			return nil, fmt.Errorf("序列 '%s' 没有长度", seq.Name)
		}
		if err := add(seq.Kind.String(), seq.Name); err != nil {
			return nil, err
		}
	}
	var kinds [linkKindNum]bool
	for _, link := range config.Links {
		if link.Kind >= linkKindNum {
			return nil, fmt.Errorf("连接 '%s' 类型错误", link.Name)
		}
		if kinds[link.Kind] {
			return nil, fmt.Errorf("%s 类型的连接重复声明", link.Kind)
		}
		kinds[link.Kind] = true
		if link.Names != nil && link.Kind.input() {
			return nil, fmt.Errorf("输入连接 '%s' 不能按名称绑定", link.Name)
		}
		if err := add(link.Kind.String(), link.Name); err != nil {
			return nil, err
		}
	}
	return groups, nil
}

// validateMethod 校验单个方法的读写集合，并把写入的序列加入 written。
func (config *Config) validateMethod(groups map[string]string, written map[string]bool, mark Mark, method Method) error {
	if method.Call == nil {
		return fmt.Errorf("方法 '%s' 没有实现", method.Name)
	}
	for _, name := range method.Requires {
		group, ok := groups[name]
		if !ok {
			return fmt.Errorf("方法 '%s' 读取未声明的 '%s'", method.Name, name)
		}
		switch group {
		case groupParameters, groupDerived, KindLog.String():
		case KindFactor.String(), KindFlux.String():
			if !written[name] {
				return fmt.Errorf("方法 '%s' 在写入之前读取 '%s'", method.Name, name)
			}
		case LinkReceiver.String(), LinkObserver.String():
			if mark != MarkReceive {
				return fmt.Errorf("方法 '%s' 只能在接收阶段读取 '%s'", method.Name, name)
			}
		case LinkInlet.String():
			if mark != MarkInlet {
				return fmt.Errorf("方法 '%s' 只能在入口阶段读取 '%s'", method.Name, name)
			}
		default:
			return fmt.Errorf("方法 '%s' 不能读取 '%s'", method.Name, name)
		}
	}
	for _, name := range method.Updates {
		group, ok := groups[name]
		if !ok {
			return fmt.Errorf("方法 '%s' 写入未声明的 '%s'", method.Name, name)
		}
		switch group {
		case KindFactor.String(), KindFlux.String(), KindLog.String():
		case LinkOutlet.String():
			if mark != MarkOutlet {
				return fmt.Errorf("方法 '%s' 只能在出口阶段写入 '%s'", method.Name, name)
			}
		case LinkSender.String():
			if mark != MarkSend {
				return fmt.Errorf("方法 '%s' 只能在发送阶段写入 '%s'", method.Name, name)
			}
		default:
			return fmt.Errorf("方法 '%s' 不能写入 '%s'", method.Name, name)
		}
		written[name] = true
	}
	if strings.TrimSpace(method.Name) == "" {
		return errors.New("方法名称为空")
	}
	return nil
}
