package cache

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// KeySeparator defines the delimiter used between cache key segments.
const KeySeparator = "::"

// namespacedKeySerializer renders keys as namespace::method::arg::arg.
// Scalars are written verbatim; anything else is JSON encoded and hashed so
// keys stay short and stable across processes.
type namespacedKeySerializer struct {
	namespace string
}

// NewKeySerializer returns a KeySerializer that prefixes every key with namespace.
func NewKeySerializer(namespace string) KeySerializer {
	return &namespacedKeySerializer{namespace: segment(namespace)}
}

// NewDefaultKeySerializer returns a KeySerializer without a namespace.
func NewDefaultKeySerializer() KeySerializer {
	return &namespacedKeySerializer{}
}

func (s *namespacedKeySerializer) SerializeKey(method string, args ...any) string {
	parts := make([]string, 0, len(args)+2)
	if s.namespace != "" {
		parts = append(parts, s.namespace)
	}
	parts = append(parts, segment(method))

	for _, arg := range args {
		parts = append(parts, serializeArg(arg))
	}

	return strings.Join(parts, KeySeparator)
}

func serializeArg(v any) string {
	if v == nil {
		return "nil"
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return "nil"
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.String:
		return rv.String()
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10)
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'g', -1, 64)
	case reflect.Func, reflect.Chan:
		// not serializable, only stable within the process
		return fmt.Sprintf("%s:%p", rv.Kind(), v)
	}

	data, err := json.Marshal(rv.Interface())
	if err != nil {
		return "type:" + rv.Type().String()
	}
	return fmt.Sprintf("h:%016x", xxhash.Sum64(data))
}
