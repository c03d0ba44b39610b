package maps

import (
	"strings"

	"github.com/mitchellh/mapstructure"
)

// Map2Struct Decode takes an input structure and uses reflection to translate it to
// the output structure. output must be a pointer to a map or struct.
// String values are decoded into time.Duration fields with time.ParseDuration.
func Map2Struct(input interface{}, output interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.StringToTimeDurationHookFunc(),
		Result:     output,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(input)
}

// Get resolves a dotted fieldName (e.g. "address.city") against m,
// descending into nested map[string]interface{} or map[string]string
// values at each ".". Returns nil if m isn't one of those two map shapes
// or the path doesn't resolve to a value — used by str.ExecuteTemplate to
// look up ${a.b}-style template variables.
func Get(m interface{}, fieldName string) interface{} {
	current := m
	for _, part := range strings.Split(fieldName, ".") {
		switch typed := current.(type) {
		case map[string]interface{}:
			v, ok := typed[part]
			if !ok {
				return nil
			}
			current = v
		case map[string]string:
			v, ok := typed[part]
			if !ok {
				return nil
			}
			current = v
		default:
			return nil
		}
	}
	return current
}
