package format

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

type Format int

const (
	JSONFormat Format = iota
	JSONCFormat
	YAMLFormat
	CBORFormat
)

var (
	ErrBadFormat  = errors.New("bad format")
	ErrBadPayload = errors.New("bad payload")
)

func ParseFormat(v string) (Format, error) {
	f, ok := map[string]Format{
		"j":     JSONFormat,
		"json":  JSONFormat,
		"jc":    JSONCFormat,
		"jsonc": JSONCFormat,
		"y":     YAMLFormat,
		"yml":   YAMLFormat,
		"yaml":  YAMLFormat,
		"c":     CBORFormat,
		"cbor":  CBORFormat,
	}[v]
	if ok {
		return f, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrBadFormat, v)
}

// FromPath picks a format from the file extension of path.
func FromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return 0, fmt.Errorf("%w: no extension in %q", ErrBadFormat, path)
	}
	return ParseFormat(strings.ToLower(ext))
}

func (f Format) String() string {
	d, err := f.MarshalText()
	if err != nil {
		return err.Error()
	}
	return string(d)
}

func (f Format) MarshalText() ([]byte, error) {
	switch f {
	case JSONFormat:
		return []byte("json"), nil
	case JSONCFormat:
		return []byte("jsonc"), nil
	case YAMLFormat:
		return []byte("yaml"), nil
	case CBORFormat:
		return []byte("cbor"), nil
	default:
		return nil, fmt.Errorf("<err: %d is not a format>", f)
	}
}

func (f *Format) UnmarshalText(d []byte) error {
	pf, err := ParseFormat(string(d))
	if err != nil {
		return err
	}
	*f = pf
	return nil
}

func (f Format) IsJSON() bool { return f == JSONFormat || f == JSONCFormat }
func (f Format) IsYAML() bool { return f == YAMLFormat }
func (f Format) IsCBOR() bool { return f == CBORFormat }

// IsText reports whether documents in f are text that can be located
// line by line.
func (f Format) IsText() bool { return f != CBORFormat }

// Suffix returns the file extension for this format (including the dot).
func (f Format) Suffix() string {
	switch f {
	case JSONFormat:
		return ".json"
	case JSONCFormat:
		return ".jsonc"
	case YAMLFormat:
		return ".yaml"
	case CBORFormat:
		return ".cbor"
	default:
		return ""
	}
}

// AllFormats returns all supported formats in preference order.
func AllFormats() []Format {
	return []Format{YAMLFormat, JSONFormat, JSONCFormat, CBORFormat}
}
