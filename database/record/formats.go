package record

import (
	"fmt"

	"github.com/yegor256/tojos/formats/dsd"
)

// Reimport DSD storage types.
const (
	AUTO    = dsd.AUTO
	JSON    = dsd.JSON    // J
	CBOR    = dsd.CBOR    // C
	MsgPack = dsd.MsgPack // M
)

// MarshalRow serializes a single row with the given dsd format. Stores
// that keep one entry per row use it for the entry value.
func MarshalRow(row Row, format dsd.SerializationFormat) ([]byte, error) {
	data, err := dsd.Dump(map[string]string(row), format)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal row %s=%q: %w", IDKey, row.ID(), err)
	}
	return data, nil
}

// UnmarshalRow loads a row serialized by MarshalRow.
func UnmarshalRow(data []byte) (Row, error) {
	row := make(map[string]string)
	_, err := dsd.Load(data, &row)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal row: %w", err)
	}
	return Row(row), nil
}
