package utils

import (
	"encoding/json"
	"reflect"
)

// MarshalJSONB encodes a value for a Postgres jsonb column. Nil maps become
// an empty object rather than SQL NULL so downstream queries can always
// operate on a document.
func MarshalJSONB(in any) ([]byte, error) {
	if in == nil {
		return []byte("{}"), nil
	}

	v := reflect.ValueOf(in)
	if (v.Kind() == reflect.Map || v.Kind() == reflect.Slice || v.Kind() == reflect.Ptr) && v.IsNil() {
		return []byte("{}"), nil
	}

	return json.Marshal(in)
}

// UnmarshalJSONB decodes a jsonb column value. NULL and empty payloads leave
// the destination untouched.
func UnmarshalJSONB(data []byte, out any) error {
	if len(data) == 0 {
		return nil
	}

	return json.Unmarshal(data, out)
}
