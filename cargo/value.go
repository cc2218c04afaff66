package cargo

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ValueKind identifies which field of Value is populated.
type ValueKind int

const (
	ValueNull ValueKind = iota
	ValueBool
	ValueInt64
	ValueDouble
	ValueString
	ValueGUID
	ValueTime
	ValueMeasurement
)

// Value is the primitive setting an Item reads from or writes to:
// bool, int64, double, string, null, GUID, date/time, or measurement.
// Measurement-unit parsing and formatting is an external collaborator;
// Value only carries the already-formatted textual representation that
// collaborator produced, and round-trips it verbatim.
type Value struct {
	Kind        ValueKind
	Bool        bool
	Int64       int64
	Double      float64
	String      string
	GUID        uuid.UUID
	Time        time.Time
	Measurement string
}

// TimeLayout is the transport-level output format for date/time items.
// Round-tripping below this layout's precision is accepted and not
// hidden.
var TimeLayout = time.RFC3339Nano

// AsString renders v the way a JSON or XML writer would serialize it as
// text (used for non-quoted-number items and XML character data).
func (v Value) AsString() string {
	switch v.Kind {
	case ValueNull:
		return ""
	case ValueBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case ValueInt64:
		return fmt.Sprintf("%d", v.Int64)
	case ValueDouble:
		return fmt.Sprintf("%g", v.Double)
	case ValueString:
		return v.String
	case ValueGUID:
		return v.GUID.String()
	case ValueTime:
		return v.Time.Format(TimeLayout)
	case ValueMeasurement:
		return v.Measurement
	default:
		return ""
	}
}
