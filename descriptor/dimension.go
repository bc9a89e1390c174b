package descriptor

import (
	"strconv"
	"strings"

	null "gopkg.in/guregu/null.v3"
)

// ParseDimension permissively converts a value into a pixel dimension.
// Numeric values and numeric strings are accepted, everything else is
// ignored rather than treated as an error.
func ParseDimension(value any) null.Int {
	switch v := value.(type) {
	case nil:
		return null.Int{}
	case int:
		return null.IntFrom(int64(v))
	case int32:
		return null.IntFrom(int64(v))
	case int64:
		return null.IntFrom(v)
	case float32:
		return null.IntFrom(int64(v))
	case float64:
		return null.IntFrom(int64(v))
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return null.Int{}
		}

		return null.IntFrom(int64(parsed))
	default:
		return null.Int{}
	}
}
