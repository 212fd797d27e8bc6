// Package serialize holds the value transforms applied before a stored value is
// embedded in markup: the one-way serializer used by `serialized` fields and
// the scalar stringification and truthiness rules used everywhere else.
package serialize

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/elliotchance/phpserialize"
)

// Serializer turns a resolved value into its serialized string form. There is
// no inverse; decoding submitted values is the host's job.
type Serializer func(value any) (string, error)

// PHP serializes value using the PHP serialize() wire format, which is how
// WordPress stores structured options.
func PHP(value any) (string, error) {
	out, err := phpserialize.Marshal(value, nil)
	if err != nil {
		return "", fmt.Errorf("serialize: php: %w", err)
	}
	return string(out), nil
}

// JSON serializes value as compact JSON.
func JSON(value any) (string, error) {
	out, err := json.Marshal(value)
	if err != nil {
		return "", fmt.Errorf("serialize: json: %w", err)
	}
	return string(out), nil
}

// Default is the serializer used when none is configured.
var Default Serializer = PHP

// String renders a scalar the way it is echoed into markup: nil and false
// become "", true becomes "1", numbers use their shortest decimal form.
func String(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case bool:
		if v {
			return "1"
		}
		return ""
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case uint:
		return strconv.FormatUint(uint64(v), 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// Truthy applies loose truthiness: nil, false, zero numbers, "", "0" and
// empty collections are false.
func Truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != "" && v != "0"
	case []byte:
		return len(v) > 0 && string(v) != "0"
	case int:
		return v != 0
	case int64:
		return v != 0
	case int32:
		return v != 0
	case uint:
		return v != 0
	case uint64:
		return v != 0
	case float64:
		return v != 0
	case float32:
		return v != 0
	case []any:
		return len(v) > 0
	case map[string]any:
		return len(v) > 0
	default:
		return true
	}
}
