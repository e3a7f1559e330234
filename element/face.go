package element

import (
	"fmt"
	"log"
	"sort"
	"strings"
)

// NodeType 模型类型标识，使用无符号整数表示。
// 每个模型都有一个唯一的NodeType值，用于在ElementList中标识和查找。
type NodeType uint

// ElementList 模型注册表。
// 键：NodeType（模型类型标识）
// 值：模型的静态声明
var ElementList = map[NodeType]*Config{}

// ElementListName 模型名称索引，名称统一为小写。
var ElementListName = map[string]NodeType{}

// AddElement 注册模型到全局模型列表。
// 参数nodeType: 模型类型标识，必须是唯一的。
// 参数config: 模型的静态声明，注册前会校验流水线的读写集合。
// 返回：注册成功的模型类型标识。
// 注意：重复注册或声明错误会触发致命错误并终止程序。
func AddElement(nodeType NodeType, config *Config) NodeType {
	name := strings.ToLower(config.Name)
	if _, ok := ElementList[nodeType]; ok {
		log.Fatalf("模型重复注册: %d", nodeType)
	}
	if _, ok := ElementListName[name]; ok {
		log.Fatalf("模型名称重复注册: %s", name)
	}
	if err := config.validate(); err != nil {
		log.Fatalf("模型 '%s' 声明错误: %v", name, err)
	}
	ElementList[nodeType] = config
	ElementListName[name] = nodeType
	return nodeType
}

// Lookup 按名称查找模型类型。
func Lookup(model string) (NodeType, error) {
	nodeType, ok := ElementListName[strings.ToLower(model)]
	if !ok {
		return 0, fmt.Errorf("%w '%s'", ErrUnknownModel, model)
	}
	return nodeType, nil
}

// Models 返回已注册的模型名称，按名称排序。
func Models() []string {
	names := make([]string, 0, len(ElementListName))
	for name := range ElementListName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Config 获取指定模型类型的声明。
// 返回：指向模型声明的指针，如果类型未注册则返回nil。
func (t NodeType) Config() *Config {
	return ElementList[t]
}

// String 模型名称。
func (t NodeType) String() string {
	if config, ok := ElementList[t]; ok {
		return config.Name
	}
	return fmt.Sprintf("NodeType(%d)", uint(t))
}
