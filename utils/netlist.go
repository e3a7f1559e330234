package utils

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// NetList 逗号分隔的取值列表，如 "1, 2, inf"。
type NetList []string

// Split 按逗号拆分字符串，去掉空白，空字符串返回空列表。
func Split(s string) NetList {
	if strings.TrimSpace(s) == "" {
		return NetList{}
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return NetList(parts)
}

// parseFloat 解析浮点数，支持 inf、-inf。
func parseFloat(s string) (float64, error) {
	switch strings.ToLower(s) {
	case "inf", "+inf", ".inf":
		return math.Inf(1), nil
	case "-inf", "-.inf":
		return math.Inf(-1), nil
	}
	return strconv.ParseFloat(s, 64)
}

// ParseFloats 解析全部取值，任何一个无效时返回错误。
func (value NetList) ParseFloats() ([]float64, error) {
	out := make([]float64, len(value))
	for i, s := range value {
		v, err := parseFloat(s)
		if err != nil {
			return nil, fmt.Errorf("第 %d 个值 '%s' 无效", i+1, s)
		}
		out[i] = v
	}
	return out, nil
}

// ParseDuration 解析第i个值为时间间隔。
// 除 time.ParseDuration 支持的格式外，还支持以 d 结尾的天数，如 "1d"、"0.5d"。
func (value NetList) ParseDuration(i int) (time.Duration, error) {
	if i < 0 || i >= len(value) {
		return 0, fmt.Errorf("缺少第 %d 个值", i+1)
	}
	s := value[i]
	if days, ok := strings.CutSuffix(s, "d"); ok {
		v, err := strconv.ParseFloat(days, 64)
		if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
			return 0, fmt.Errorf("时间间隔 '%s' 无效", s)
		}
		return time.Duration(v * float64(24*time.Hour)), nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("时间间隔 '%s' 无效", s)
	}
	return d, nil
}

// Override 命令行参数覆盖，格式为 "元件.参数=值,值,..."。
type Override struct {
	Element string
	Name    string
	Values  []float64
}

// ParseOverride 解析参数覆盖。
func ParseOverride(s string) (Override, error) {
	key, values, ok := strings.Cut(s, "=")
	if !ok {
		return Override{}, fmt.Errorf("参数覆盖 '%s' 缺少 '='", s)
	}
	elem, name, ok := strings.Cut(strings.TrimSpace(key), ".")
	if !ok || elem == "" || name == "" {
		return Override{}, fmt.Errorf("参数覆盖 '%s' 需要 元件.参数 格式", s)
	}
	list := Split(values)
	if len(list) == 0 {
		return Override{}, fmt.Errorf("参数覆盖 '%s' 没有值", s)
	}
	floats, err := list.ParseFloats()
	if err != nil {
		return Override{}, fmt.Errorf("参数覆盖 '%s': %w", s, err)
	}
	return Override{Element: elem, Name: name, Values: floats}, nil
}
