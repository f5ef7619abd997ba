package fsfile

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"

	"github.com/yegor256/tojos/database/record"
)

// csvCodec reads and writes RFC 4180 files with a header line. The header
// is sorted with the identifier first. Empty cells mean the attribute is
// absent, so empty values do not survive a round trip.
type csvCodec struct {
	name  string
	comma rune
}

func (c *csvCodec) Name() string {
	return c.name
}

func (c *csvCodec) Encode(rows record.RowSet) ([]byte, error) {
	if len(rows) == 0 {
		return []byte{}, nil
	}

	header := rows.Keys()
	buf := bytes.NewBuffer(nil)
	writer := csv.NewWriter(buf)
	writer.Comma = c.comma

	err := writer.Write(header)
	if err != nil {
		return nil, err
	}
	values := make([]string, len(header))
	for _, row := range rows {
		for i, key := range header {
			values[i] = row[key]
		}
		err = writer.Write(values)
		if err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (c *csvCodec) Decode(data []byte) (record.RowSet, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = c.comma

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return record.RowSet{}, nil
		}
		return nil, err
	}

	rows := record.RowSet{}
	for {
		next, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return rows, nil
			}
			return nil, err
		}
		row := make(record.Row, len(header))
		for pos, value := range next {
			if value == "" {
				continue
			}
			row[header[pos]] = value
		}
		rows = append(rows, row)
	}
}
