// Package flagx binds cobra flags to request structs via `flag` tags,
// mirroring how gin binds HTTP parameters to DTOs.
package flagx

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// BindFlags registers a flag per tagged struct field on cmd.
//
// Supported tags:
//
//	flag:"name,n"    flag name plus optional shorthand (required)
//	usage:"..."      help text
//	default:"..."    default value
//	required:"true"  mark the flag required
func BindFlags(cmd *cobra.Command, target any) error {
	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("target must be a pointer to struct")
	}

	t := v.Elem().Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		flagTag := field.Tag.Get("flag")
		if flagTag == "" {
			continue
		}

		parts := strings.Split(flagTag, ",")
		name := parts[0]
		short := ""
		if len(parts) > 1 {
			short = parts[1]
		}

		usage := field.Tag.Get("usage")
		defaultVal := field.Tag.Get("default")

		if err := registerFlag(cmd, field, name, short, usage, defaultVal); err != nil {
			return err
		}
		if field.Tag.Get("required") == "true" {
			cmd.MarkFlagRequired(name)
		}
	}
	return nil
}

func registerFlag(cmd *cobra.Command, field reflect.StructField, name, short, usage, defaultVal string) error {
	switch field.Type.Kind() {
	case reflect.String:
		cmd.Flags().StringP(name, short, defaultVal, usage)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		def := 0
		if defaultVal != "" {
			def, _ = strconv.Atoi(defaultVal)
		}
		cmd.Flags().IntP(name, short, def, usage)

	case reflect.Bool:
		def := false
		if defaultVal != "" {
			def, _ = strconv.ParseBool(defaultVal)
		}
		cmd.Flags().BoolP(name, short, def, usage)

	case reflect.Float32, reflect.Float64:
		def := 0.0
		if defaultVal != "" {
			def, _ = strconv.ParseFloat(defaultVal, 64)
		}
		cmd.Flags().Float64P(name, short, def, usage)

	case reflect.Slice:
		switch field.Type.Elem().Kind() {
		case reflect.String:
			cmd.Flags().StringSliceP(name, short, nil, usage)
		case reflect.Int:
			cmd.Flags().IntSliceP(name, short, nil, usage)
		default:
			return fmt.Errorf("unsupported slice element type: %s", field.Type.Elem().Kind())
		}

	default:
		return fmt.Errorf("unsupported field type: %s", field.Type.Kind())
	}
	return nil
}

// ParseFlags copies parsed flag values from cmd into target's tagged
// fields. Call after cobra has parsed the command line.
func ParseFlags(cmd *cobra.Command, target any) error {
	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("target must be a pointer to struct")
	}

	v = v.Elem()
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		if !field.CanSet() {
			continue
		}
		flagTag := t.Field(i).Tag.Get("flag")
		if flagTag == "" {
			continue
		}
		name := strings.Split(flagTag, ",")[0]
		if err := setFieldValue(cmd, field, name); err != nil {
			return fmt.Errorf("parse field %s: %w", t.Field(i).Name, err)
		}
	}
	return nil
}

func setFieldValue(cmd *cobra.Command, field reflect.Value, name string) error {
	switch field.Kind() {
	case reflect.String:
		val, _ := cmd.Flags().GetString(name)
		field.SetString(val)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		val, _ := cmd.Flags().GetInt(name)
		field.SetInt(int64(val))

	case reflect.Bool:
		val, _ := cmd.Flags().GetBool(name)
		field.SetBool(val)

	case reflect.Float32, reflect.Float64:
		val, _ := cmd.Flags().GetFloat64(name)
		field.SetFloat(val)

	case reflect.Slice:
		switch field.Type().Elem().Kind() {
		case reflect.String:
			val, _ := cmd.Flags().GetStringSlice(name)
			field.Set(reflect.ValueOf(val))
		case reflect.Int:
			val, _ := cmd.Flags().GetIntSlice(name)
			field.Set(reflect.ValueOf(val))
		default:
			return fmt.Errorf("unsupported slice element type: %s", field.Type().Elem().Kind())
		}

	default:
		return fmt.Errorf("unsupported field type: %s", field.Kind())
	}
	return nil
}
