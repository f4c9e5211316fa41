package telemetry

import (
	"fmt"

	"go.opentelemetry.io/otel/attribute"
)

// Attribute keys shared between the tracer and the bridge.
const (
	AttrMnemonic = "kiln.mnemonic"
	AttrCached   = "kiln.cached"
	// AttrOutputBytes counts the bytes an action wrote to its output stream.
	AttrOutputBytes = "kiln.output_bytes"
)

func toAttribute(key string, value any) attribute.KeyValue {
	switch v := value.(type) {
	case string:
		return attribute.String(key, v)
	case int:
		return attribute.Int(key, v)
	case int64:
		return attribute.Int64(key, v)
	case float64:
		return attribute.Float64(key, v)
	case bool:
		return attribute.Bool(key, v)
	case []string:
		return attribute.StringSlice(key, v)
	case fmt.Stringer:
		return attribute.String(key, v.String())
	default:
		return attribute.String(key, fmt.Sprintf("%v", v))
	}
}
