// Package wire contains the JSON encodings used for stored events, request bodies and persisted
// property sets.
package wire

import (
	"encoding/json"
	"math"
	"strconv"

	"github.com/launchdarkly/go-jsonstream/v3/jreader"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"

	"github.com/analyticskit/go-analytics/model"
)

// MarshalEvent encodes an event as {"name":...,"data":{...}}, with each property under its wire key.
func MarshalEvent(e model.Event) []byte {
	w := jwriter.NewWriter()
	obj := w.Object()
	obj.Name("name").String(e.Name())
	writeProperties(obj.Name("data"), e.Properties())
	obj.End()
	return w.Bytes()
}

// MarshalProperties encodes properties as a JSON object keyed by wire key.
func MarshalProperties(props []model.Property) []byte {
	w := jwriter.NewWriter()
	writeProperties(&w, props)
	return w.Bytes()
}

// EventsRequestBody builds the request body {"events":[...]} from already encoded events.
func EventsRequestBody(events []string) []byte {
	w := jwriter.NewWriter()
	obj := w.Object()
	arr := obj.Name("events").Array()
	for _, e := range events {
		w.Raw(json.RawMessage(e))
	}
	arr.End()
	obj.End()
	return w.Bytes()
}

func writeProperties(w *jwriter.Writer, props []model.Property) {
	obj := w.Object()
	for _, p := range props {
		writeValue(obj.Name(p.WireKey()), p.Value())
	}
	obj.End()
}

func writeValue(w *jwriter.Writer, v model.Value) {
	switch v.Kind() {
	case model.StringKind:
		w.String(v.StringValue())
	case model.IntKind, model.LongKind, model.DateKind:
		// Raw keeps the full 64 bits where int is 32 bits wide.
		w.Raw(strconv.AppendInt(nil, v.Int64Value(), 10))
	case model.DoubleKind:
		w.Float64(v.Float64Value())
	case model.BoolKind:
		w.Bool(v.BoolValue())
	case model.StringArrayKind:
		arr := w.Array()
		for _, s := range v.StringArrayValue() {
			w.String(s)
		}
		arr.End()
	case model.IntArrayKind:
		arr := w.Array()
		for _, n := range v.IntArrayValue() {
			w.Int(n)
		}
		arr.End()
	case model.DoubleArrayKind:
		arr := w.Array()
		for _, f := range v.DoubleArrayValue() {
			w.Float64(f)
		}
		arr.End()
	default:
		w.Null()
	}
}

// UnmarshalProperties decodes a JSON object written by MarshalProperties. Entries whose key is not a
// valid property name, or whose value is null, an object or a mixed array, are skipped.
func UnmarshalProperties(data []byte) ([]model.Property, error) {
	var ret []model.Property
	r := jreader.NewReader(data)
	for obj := r.Object(); obj.Next(); {
		name, err := model.NewPropertyName(string(obj.Name()))
		if err != nil || name.IsAny() {
			r.SkipValue()
			continue
		}
		if v, ok := readValue(&r); ok {
			ret = append(ret, model.NewProperty(name, v))
		}
	}
	if err := r.Error(); err != nil {
		return nil, err
	}
	return ret, nil
}

func readValue(r *jreader.Reader) (model.Value, bool) {
	v := r.Any()
	switch v.Kind {
	case jreader.StringValue:
		return model.String(v.String), true
	case jreader.BoolValue:
		return model.Bool(v.Bool), true
	case jreader.NumberValue:
		return numberValue(v.Number), true
	case jreader.ArrayValue:
		return readArray(r, v.Array)
	case jreader.ObjectValue:
		for v.Object.Next() {
			r.SkipValue()
		}
	}
	return model.Value{}, false
}

func numberValue(f float64) model.Value {
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return model.Double(f)
	}
	if f >= math.MinInt32 && f <= math.MaxInt32 {
		return model.Int(int(f))
	}
	return model.Long(int64(f))
}

func readArray(r *jreader.Reader, arr jreader.ArrayState) (model.Value, bool) {
	var strs []string
	var nums []float64
	mixed := false
	for arr.Next() {
		v := r.Any()
		switch v.Kind {
		case jreader.StringValue:
			strs = append(strs, v.String)
		case jreader.NumberValue:
			nums = append(nums, v.Number)
		case jreader.ArrayValue:
			for v.Array.Next() {
				r.SkipValue()
			}
			mixed = true
		case jreader.ObjectValue:
			for v.Object.Next() {
				r.SkipValue()
			}
			mixed = true
		default:
			mixed = true
		}
	}
	switch {
	case mixed || (len(strs) > 0 && len(nums) > 0):
		return model.Value{}, false
	case len(nums) > 0:
		ints := make([]int, 0, len(nums))
		for _, f := range nums {
			if f != math.Trunc(f) {
				return model.DoubleArray(nums...), true
			}
			ints = append(ints, int(f))
		}
		return model.IntArray(ints...), true
	default:
		return model.StringArray(strs...), true
	}
}
