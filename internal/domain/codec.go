package domain

import (
	"database/sql/driver"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// StringList is a []string stored as a JSON-encoded text column.
// Nested list fields are kept as opaque blobs, not normalized into
// child tables.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	return json.MarshalToString([]string(l))
}

func (l *StringList) Scan(src interface{}) error {
	return scanJSON(src, l)
}

// CartLineList is the embedded ordered sequence of cart line items,
// stored as a JSON-encoded text column.
type CartLineList []CartLine

func (l CartLineList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	return json.MarshalToString([]CartLine(l))
}

func (l *CartLineList) Scan(src interface{}) error {
	return scanJSON(src, l)
}

func scanJSON(src, dst interface{}) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.UnmarshalFromString(v, dst)
	default:
		return errors.Errorf("unsupported column type %T", src)
	}
}
