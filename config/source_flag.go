package config

import (
	"fmt"
	"reflect"
	"strings"
)

// FlagSource 命令行参数数据源
// 经结构体标签声明参数到配置 key 的映射：
//
//	type AppFlags struct {
//	    Port       int    `config:"server.port"`
//	    ConfigPath string `config:"-"`
//	}
//
// 标签支持逗号分隔的多个 key；"-" 或空标签的字段走默认映射规则。
// 只有非零值字段会进入配置（零值视为"未指定"）。
type FlagSource struct {
	flags    any
	priority int
}

// NewFlagSource 创建命令行参数数据源
// flags 为结构体或其指针
func NewFlagSource(flags any, priority int) *FlagSource {
	return &FlagSource{
		flags:    flags,
		priority: priority,
	}
}

// Name 数据源名称
func (s *FlagSource) Name() string {
	return "flags"
}

// Priority 优先级
func (s *FlagSource) Priority() int {
	return s.priority
}

// Load 加载命令行参数配置
func (s *FlagSource) Load() (map[string]any, error) {
	result := make(map[string]any)
	if s.flags == nil {
		return result, nil
	}

	v := reflect.ValueOf(s.flags)
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return result, nil
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil, fmt.Errorf("flags must be a struct or pointer to struct, got %T", s.flags)
	}

	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		if !field.CanInterface() || isZeroValue(field) {
			continue
		}

		tag := t.Field(i).Tag.Get("config")
		if tag == "" {
			applyDefaultMapping(t.Field(i).Name, field.Interface(), result)
			continue
		}

		for _, key := range strings.Split(tag, ",") {
			key = strings.TrimSpace(key)
			if key == "" || key == "-" {
				continue
			}
			result[key] = field.Interface()
		}
	}

	return result, nil
}

// applyDefaultMapping 无标签字段的默认映射（按字段名）
func applyDefaultMapping(fieldName string, value any, result map[string]any) {
	switch fieldName {
	case "Port":
		result["server.port"] = value
	case "Host", "Address":
		result["server.host"] = value
	case "Env":
		result["app.env"] = value
	}
}

// isZeroValue 判断字段是否为零值
func isZeroValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return v.String() == ""
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Ptr, reflect.Interface:
		return v.IsNil()
	default:
		return false
	}
}
