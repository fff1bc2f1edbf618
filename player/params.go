package player

import (
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// splitConfigString splits "a=1,b,c=x" into a map of keys to raw values.
// See GetParamOr and PopParamOr to parse values from this map.
func splitConfigString(config string) map[string]string {
	params := make(map[string]string)
	if config == "" {
		return params
	}
	for _, part := range strings.Split(config, ",") {
		subParts := strings.SplitN(part, "=", 2)
		key := strings.TrimSpace(subParts[0])
		if key == "" {
			continue
		}
		if len(subParts) == 1 {
			params[key] = ""
		} else {
			params[key] = strings.TrimSpace(subParts[1])
		}
	}
	return params
}

type param interface {
	bool | int | uint64 | float64 | string | time.Duration
}

// GetParamOr parses a parameter to the type of defaultValue if the key is
// present, or returns defaultValue if not.
//
// For bool types, a key without a value is interpreted as true.
func GetParamOr[T param](params map[string]string, key string, defaultValue T) (T, error) {
	value, exists := params[key]
	if !exists {
		return defaultValue, nil
	}
	toT := func(v any) T { return v.(T) }

	switch any(defaultValue).(type) {
	case bool:
		switch strings.ToLower(value) {
		case "", "true", "1":
			return toT(true), nil
		case "false", "0":
			return toT(false), nil
		}
		return defaultValue, errors.Errorf("failed to parse configuration %s=%q to bool", key, value)
	case string:
		return toT(value), nil
	}

	if value == "" {
		return defaultValue, nil
	}
	switch any(defaultValue).(type) {
	case int:
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return defaultValue, errors.Wrapf(err, "failed to parse configuration %s=%q to int", key, value)
		}
		return toT(parsed), nil
	case uint64:
		parsed, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return defaultValue, errors.Wrapf(err, "failed to parse configuration %s=%q to uint", key, value)
		}
		return toT(parsed), nil
	case float64:
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return defaultValue, errors.Wrapf(err, "failed to parse configuration %s=%q to float", key, value)
		}
		return toT(parsed), nil
	case time.Duration:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return defaultValue, errors.Wrapf(err, "failed to parse configuration %s=%q to duration", key, value)
		}
		return toT(parsed), nil
	}
	return defaultValue, nil
}

// PopParamOr is like GetParamOr but it also deletes the parameter from params.
func PopParamOr[T param](params map[string]string, key string, defaultValue T) (T, error) {
	value, err := GetParamOr(params, key, defaultValue)
	if err != nil {
		return value, err
	}
	delete(params, key)
	return value, nil
}
