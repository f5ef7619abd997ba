package fsfile

import (
	"fmt"

	"github.com/yegor256/tojos/database/record"
	"github.com/yegor256/tojos/formats/dsd"
)

type dsdCodec struct {
	format   dsd.SerializationFormat
	compress bool
}

// NewDSDCodec returns a codec that stores the row set as dsd structured
// data with the given serialization format, optionally gzip-compressed.
func NewDSDCodec(format dsd.SerializationFormat, compress bool) Codec {
	return &dsdCodec{
		format:   format,
		compress: compress,
	}
}

func (c *dsdCodec) Name() string {
	return "dsd"
}

func (c *dsdCodec) Encode(rows record.RowSet) ([]byte, error) {
	if rows == nil {
		rows = record.RowSet{}
	}
	if c.compress {
		return dsd.DumpAndCompress(rows, c.format, dsd.GZIP)
	}
	return dsd.Dump(rows, c.format)
}

func (c *dsdCodec) Decode(data []byte) (record.RowSet, error) {
	if len(data) == 0 {
		return record.RowSet{}, nil
	}
	rows := record.RowSet{}
	_, err := dsd.Load(data, &rows)
	if err != nil {
		return nil, fmt.Errorf("failed to load rows: %w", err)
	}
	return rows, nil
}
