// Package configutil provides utilities for rule configuration resolution.
package configutil

import (
	"fmt"
	"reflect"

	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/v2"
)

// Resolve merges user options over defaults and unmarshals to typed config.
// If opts is nil or empty, returns defaults unchanged. Fields absent from
// opts keep their default value.
func Resolve[T any](opts map[string]any, defaults T) (T, error) {
	if len(opts) == 0 {
		return defaults, nil
	}

	k := koanf.New(".")
	if err := k.Load(confmap.Provider(opts, "."), nil); err != nil {
		return defaults, fmt.Errorf("load rule options: %w", err)
	}

	var result T
	if err := k.UnmarshalWithConf("", &result, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return defaults, fmt.Errorf("decode rule options: %w", err)
	}

	return mergeDefaults(result, defaults), nil
}

// mergeDefaults fills zero-valued fields in result with values from defaults.
func mergeDefaults[T any](result, defaults T) T {
	resultVal := reflect.ValueOf(&result).Elem()
	defaultsVal := reflect.ValueOf(defaults)

	if resultVal.Kind() != reflect.Struct {
		return result
	}

	for i := range resultVal.NumField() {
		field := resultVal.Field(i)
		if !field.CanSet() {
			continue
		}
		if field.IsZero() {
			field.Set(defaultsVal.Field(i))
		}
	}

	return result
}
