package eodhd

import (
	"bytes"
	"fmt"
	"strconv"
)

// EODHD quotes numbers inconsistently: bare, as strings, or as "NA"/"" on
// closed markets. Anything unparseable decodes to zero.

type flexFloat64 float64

func (f *flexFloat64) UnmarshalJSON(data []byte) error {
	v, err := parseFlex(data)
	*f = flexFloat64(v)
	return err
}

type flexInt64 int64

func (f *flexInt64) UnmarshalJSON(data []byte) error {
	v, err := parseFlex(data)
	*f = flexInt64(v)
	return err
}

func parseFlex(data []byte) (float64, error) {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		return 0, nil
	case data[0] == '"':
		s, err := strconv.Unquote(string(data))
		if err != nil {
			return 0, fmt.Errorf("eodhd: bad string number %s: %w", data, err)
		}
		v, err := strconv.ParseFloat(string(bytes.TrimSpace([]byte(s))), 64)
		if err != nil {
			return 0, nil
		}
		return v, nil
	case data[0] == '-' || (data[0] >= '0' && data[0] <= '9'):
		v, err := strconv.ParseFloat(string(data), 64)
		if err != nil {
			return 0, fmt.Errorf("eodhd: bad number %s: %w", data, err)
		}
		return v, nil
	default:
		return 0, fmt.Errorf("eodhd: cannot decode %s as a number", data)
	}
}
