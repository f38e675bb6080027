package format

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"

	"github.com/fxamacker/cbor/v2"
	"github.com/goccy/go-yaml"
	"github.com/tidwall/jsonc"
)

var (
	cborEnc cbor.EncMode
	cborDec cbor.DecMode
)

func init() {
	var err error
	cborEnc, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("format: CBOR encoder initialization failed: " + err.Error())
	}
	cborDec, err = cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic("format: CBOR decoder initialization failed: " + err.Error())
	}
}

// Parse decodes data written in f into a normalized payload.
func Parse(data []byte, f Format) (any, error) {
	var (
		v   any
		err error
	)
	switch f {
	case JSONFormat:
		v, err = parseJSON(data)
	case JSONCFormat:
		v, err = parseJSON(jsonc.ToJSON(data))
	case YAMLFormat:
		err = yaml.UnmarshalWithOptions(data, &v, yaml.UseOrderedMap())
	case CBORFormat:
		err = cborDec.Unmarshal(data, &v)
	default:
		return nil, fmt.Errorf("%w: %d", ErrBadFormat, f)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrBadPayload, f, err)
	}
	return Normalize(v)
}

// ParseFile reads and parses path, choosing the format from its extension.
func ParseFile(path string) (any, []byte, error) {
	f, err := FromPath(path)
	if err != nil {
		return nil, nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	v, err := Parse(data, f)
	if err != nil {
		return nil, data, fmt.Errorf("%s: %w", path, err)
	}
	return v, data, nil
}

// Marshal encodes the payload v in f. Map order is kept for JSON and YAML.
func Marshal(v any, f Format) ([]byte, error) {
	switch f {
	case JSONFormat, JSONCFormat:
		d, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(d, '\n'), nil
	case YAMLFormat:
		return yaml.Marshal(toYAML(v))
	case CBORFormat:
		return cborEnc.Marshal(Plain(v))
	default:
		return nil, fmt.Errorf("%w: %d", ErrBadFormat, f)
	}
}

func toYAML(v any) any {
	switch x := v.(type) {
	case *Map:
		res := make(yaml.MapSlice, 0, len(x.Keys))
		for _, k := range x.Keys {
			res = append(res, yaml.MapItem{Key: k, Value: toYAML(x.Values[k])})
		}
		return res
	case []any:
		res := make([]any, len(x))
		for i := range x {
			res[i] = toYAML(x[i])
		}
		return res
	default:
		return v
	}
}

// parseJSON decodes a single JSON value token by token so that object key
// order survives.
func parseJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := decodeJSONValue(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("trailing data after top-level value")
	}
	return v, nil
}

func decodeJSONValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}
	switch delim {
	case '{':
		m := NewMap()
		for dec.More() {
			kt, err := dec.Token()
			if err != nil {
				return nil, err
			}
			k, ok := kt.(string)
			if !ok {
				return nil, fmt.Errorf("unexpected object key %v", kt)
			}
			v, err := decodeJSONValue(dec)
			if err != nil {
				return nil, err
			}
			m.Set(k, v)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return m, nil
	case '[':
		arr := []any{}
		for dec.More() {
			v, err := decodeJSONValue(dec)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return arr, nil
	default:
		return nil, fmt.Errorf("unexpected delimiter %v", delim)
	}
}
