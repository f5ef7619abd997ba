package fsfile

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/yegor256/tojos/database/record"
)

// jsonCodec writes an array of objects, every object starting with the
// identifier. When reading, values that are not strings are taken in
// their textual form.
type jsonCodec struct{}

func (jsonCodec) Name() string {
	return "json"
}

func (jsonCodec) Encode(rows record.RowSet) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	buf.WriteByte('[')
	for i, row := range rows {
		obj, err := encodeObject(row)
		if err != nil {
			return nil, err
		}
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.Write(obj)
	}
	buf.WriteByte(']')
	return []byte(gjson.GetBytes(buf.Bytes(), "@pretty").Raw), nil
}

// encodeObject writes the attributes of a row in the order of Row.Keys.
func encodeObject(row record.Row) ([]byte, error) {
	obj := []byte("{}")
	for _, key := range row.Keys() {
		if key == "" {
			return nil, fmt.Errorf("%w: empty attribute name", record.ErrInvalidRow)
		}
		var err error
		obj, err = sjson.SetBytes(obj, attrPath(key), row[key])
		if err != nil {
			return nil, err
		}
	}
	return obj, nil
}

// attrPath turns an attribute name into an sjson path naming exactly that
// key: the leading colon keeps numeric names from becoming array indexes.
func attrPath(key string) string {
	path := make([]byte, 0, len(key)+2)
	path = append(path, ':')
	for i := 0; i < len(key); i++ {
		switch key[i] {
		case '.', '\\', '|', '#', '@', '*', '?':
			path = append(path, '\\')
		}
		path = append(path, key[i])
	}
	return string(path)
}

func (jsonCodec) Decode(data []byte) (record.RowSet, error) {
	return decodeJSON(data)
}

func decodeJSON(data []byte) (record.RowSet, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return record.RowSet{}, nil
	}
	if !gjson.ValidBytes(data) {
		return nil, errors.New("invalid json")
	}

	doc := gjson.ParseBytes(data)
	switch {
	case doc.Type == gjson.Null:
		return record.RowSet{}, nil
	case !doc.IsArray():
		return nil, fmt.Errorf("expected an array of objects, got %s", doc.Type)
	}

	rows := record.RowSet{}
	var err error
	doc.ForEach(func(_, obj gjson.Result) bool {
		if !obj.IsObject() {
			err = fmt.Errorf("expected an object at position %d, got %s", len(rows), obj.Type)
			return false
		}
		row := make(record.Row)
		obj.ForEach(func(key, value gjson.Result) bool {
			row[key.String()] = value.String()
			return true
		})
		rows = append(rows, row)
		return true
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}
