package remote

import (
	jsoniter "github.com/json-iterator/go"
	"github.com/mitchellh/mapstructure"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Encode turns a json-tagged struct into a Record.
func Encode(v any) (Record, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var r Record
	if err := json.Unmarshal(b, &r); err != nil {
		return nil, err
	}
	return r, nil
}

// Decode fills a json-tagged struct from a Record. Numbers arriving as
// float64 or strings are coerced to the field type.
func Decode(r Record, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(map[string]any(r))
}

// DecodeAll decodes every record, skipping rows that do not fit T. The
// number of skipped rows is returned so callers can log it.
func DecodeAll[T any](rows []Record) ([]T, int) {
	out := make([]T, 0, len(rows))
	skipped := 0
	for _, r := range rows {
		var v T
		if err := Decode(r, &v); err != nil {
			skipped++
			continue
		}
		out = append(out, v)
	}
	return out, skipped
}
