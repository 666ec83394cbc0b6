package strengthlog

import "strconv"

// Firestore's REST encoding wraps every field in a one-key object naming the
// type ({"integerValue":"42"}, {"mapValue":{"fields":{...}}}, ...). wireValue
// mirrors that union; exactly one pointer is non-nil per value.
type wireValue struct {
	StringValue    *string    `json:"stringValue,omitempty"`
	IntegerValue   *string    `json:"integerValue,omitempty"`
	DoubleValue    *float64   `json:"doubleValue,omitempty"`
	BooleanValue   *bool      `json:"booleanValue,omitempty"`
	TimestampValue *string    `json:"timestampValue,omitempty"`
	ReferenceValue *string    `json:"referenceValue,omitempty"`
	NullValue      *string    `json:"nullValue,omitempty"`
	ArrayValue     *wireArray `json:"arrayValue,omitempty"`
	MapValue       *wireMap   `json:"mapValue,omitempty"`
}

type wireArray struct {
	Values []wireValue `json:"values,omitempty"`
}

type wireMap struct {
	Fields map[string]wireValue `json:"fields,omitempty"`
}

// wireDocument is one Firestore document: a full resource name plus fields.
type wireDocument struct {
	Name   string               `json:"name"`
	Fields map[string]wireValue `json:"fields,omitempty"`
}

// ID returns the last path segment of the document's resource name.
func (d *wireDocument) ID() string {
	name := d.Name
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '/' {
			return name[i+1:]
		}
	}
	return name
}

// Kind identifies which arm of a decoded Value is populated.
type Kind int

const (
	KindAbsent Kind = iota
	KindString
	KindInt
	KindDouble
	KindBool
	KindList
	KindMap
)

// Value is the decoded form of a wire value. Timestamps and references decode
// as strings; nulls and unrecognized tags decode as absent rather than
// failing, so one odd field never poisons a whole document.
type Value struct {
	Kind Kind
	Str  string
	Int  int64
	Num  float64
	Bool bool
	List []Value
	Map  map[string]Value
}

// decodeValue converts one wire value into a Value, recursing through arrays
// and maps.
func decodeValue(wv wireValue) Value {
	switch {
	case wv.StringValue != nil:
		return Value{Kind: KindString, Str: *wv.StringValue}
	case wv.IntegerValue != nil:
		n, err := strconv.ParseInt(*wv.IntegerValue, 10, 64)
		if err != nil {
			return Value{}
		}
		return Value{Kind: KindInt, Int: n}
	case wv.DoubleValue != nil:
		return Value{Kind: KindDouble, Num: *wv.DoubleValue}
	case wv.BooleanValue != nil:
		return Value{Kind: KindBool, Bool: *wv.BooleanValue}
	case wv.TimestampValue != nil:
		return Value{Kind: KindString, Str: *wv.TimestampValue}
	case wv.ReferenceValue != nil:
		return Value{Kind: KindString, Str: *wv.ReferenceValue}
	case wv.ArrayValue != nil:
		items := make([]Value, 0, len(wv.ArrayValue.Values))
		for _, v := range wv.ArrayValue.Values {
			items = append(items, decodeValue(v))
		}
		return Value{Kind: KindList, List: items}
	case wv.MapValue != nil:
		fields := make(map[string]Value, len(wv.MapValue.Fields))
		for k, v := range wv.MapValue.Fields {
			fields[k] = decodeValue(v)
		}
		return Value{Kind: KindMap, Map: fields}
	default:
		// nullValue and anything this client does not recognize.
		return Value{}
	}
}

// decodeDocument flattens a document into its top-level fields.
func decodeDocument(doc *wireDocument) map[string]Value {
	fields := make(map[string]Value, len(doc.Fields))
	for k, v := range doc.Fields {
		fields[k] = decodeValue(v)
	}
	return fields
}

// --- Accessors ---
//
// Every consumer goes through these so that a missing or differently-typed
// field yields the zero value instead of a panic.

// Field returns the named entry of a map value, or an absent Value.
func (v Value) Field(name string) Value {
	if v.Kind != KindMap {
		return Value{}
	}
	return v.Map[name]
}

// AsString returns the string arm, or "".
func (v Value) AsString() string {
	if v.Kind != KindString {
		return ""
	}
	return v.Str
}

// AsInt returns the integer arm, or 0.
func (v Value) AsInt() int64 {
	if v.Kind != KindInt {
		return 0
	}
	return v.Int
}

// AsBool returns the boolean arm, or false.
func (v Value) AsBool() bool {
	if v.Kind != KindBool {
		return false
	}
	return v.Bool
}

// AsFloat returns the numeric arms widened to float64, or 0.
func (v Value) AsFloat() (float64, bool) {
	switch v.Kind {
	case KindInt:
		return float64(v.Int), true
	case KindDouble:
		return v.Num, true
	default:
		return 0, false
	}
}
