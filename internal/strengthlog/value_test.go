package strengthlog

import (
	"testing"

	go_json "github.com/goccy/go-json"
)

func decodeWire(t *testing.T, raw string) Value {
	t.Helper()
	var wv wireValue
	if err := go_json.Unmarshal([]byte(raw), &wv); err != nil {
		t.Fatalf("unmarshal wire value: %v", err)
	}
	return decodeValue(wv)
}

func TestDecodeScalars(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Value
	}{
		{"string", `{"stringValue":"bench"}`, Value{Kind: KindString, Str: "bench"}},
		{"integer", `{"integerValue":"42"}`, Value{Kind: KindInt, Int: 42}},
		{"negative integer", `{"integerValue":"-7"}`, Value{Kind: KindInt, Int: -7}},
		{"double", `{"doubleValue":72.5}`, Value{Kind: KindDouble, Num: 72.5}},
		{"boolean", `{"booleanValue":true}`, Value{Kind: KindBool, Bool: true}},
		{"timestamp passes through as string", `{"timestampValue":"2025-06-01T12:00:00Z"}`, Value{Kind: KindString, Str: "2025-06-01T12:00:00Z"}},
		{"reference as string", `{"referenceValue":"projects/p/databases/(default)/documents/exercises/xyz"}`, Value{Kind: KindString, Str: "projects/p/databases/(default)/documents/exercises/xyz"}},
		{"null is absent", `{"nullValue":"NULL_VALUE"}`, Value{}},
		{"unknown tag is absent", `{"geoPointValue":{"latitude":1,"longitude":2}}`, Value{}},
		{"unparsable integer is absent", `{"integerValue":"not-a-number"}`, Value{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := decodeWire(t, tt.raw)
			if got.Kind != tt.want.Kind || got.Str != tt.want.Str || got.Int != tt.want.Int ||
				got.Num != tt.want.Num || got.Bool != tt.want.Bool {
				t.Errorf("decodeValue = %+v, want %+v", got, tt.want)
			}
		})
	}
}

// TestDecodeNested covers the round-trip property: {map:{a:{integer:5},
// b:{array:[{string:"x"}]}}} decodes to {a: 5, b: ["x"]}.
func TestDecodeNested(t *testing.T) {
	got := decodeWire(t, `{"mapValue":{"fields":{
		"a":{"integerValue":"5"},
		"b":{"arrayValue":{"values":[{"stringValue":"x"}]}}
	}}}`)

	if got.Kind != KindMap {
		t.Fatalf("kind = %v, want map", got.Kind)
	}
	if a := got.Field("a"); a.Kind != KindInt || a.Int != 5 {
		t.Errorf("a = %+v, want int 5", a)
	}
	b := got.Field("b")
	if b.Kind != KindList || len(b.List) != 1 {
		t.Fatalf("b = %+v, want one-element list", b)
	}
	if x := b.List[0]; x.Kind != KindString || x.Str != "x" {
		t.Errorf("b[0] = %+v, want string x", x)
	}
}

func TestDecodeDocument(t *testing.T) {
	var doc wireDocument
	raw := `{"name":"projects/p/databases/(default)/documents/25users/U1/log/1700000000000",
		"fields":{"start":{"integerValue":"1700000000000"},"note":{"stringValue":"pr day"}}}`
	if err := go_json.Unmarshal([]byte(raw), &doc); err != nil {
		t.Fatal(err)
	}

	if doc.ID() != "1700000000000" {
		t.Errorf("ID = %q, want last path segment", doc.ID())
	}

	fields := decodeDocument(&doc)
	if fields["start"].AsInt() != 1700000000000 {
		t.Errorf("start = %v", fields["start"])
	}
	if fields["note"].AsString() != "pr day" {
		t.Errorf("note = %v", fields["note"])
	}
}

func TestAccessorDefaults(t *testing.T) {
	absent := Value{}
	if absent.AsString() != "" || absent.AsInt() != 0 || absent.AsBool() {
		t.Error("absent value should yield zero values")
	}
	if v := absent.Field("anything"); v.Kind != KindAbsent {
		t.Errorf("Field on non-map = %+v, want absent", v)
	}
	if _, ok := absent.AsFloat(); ok {
		t.Error("AsFloat on absent should report not-ok")
	}

	// Cross-kind access stays safe.
	str := Value{Kind: KindString, Str: "5"}
	if str.AsInt() != 0 {
		t.Error("string value must not coerce to int")
	}
	if f, ok := (Value{Kind: KindInt, Int: 3}).AsFloat(); !ok || f != 3 {
		t.Errorf("int AsFloat = %v/%v, want 3/true", f, ok)
	}
}
