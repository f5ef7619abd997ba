package fsfile

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/yegor256/tojos/database/record"
)

// tabsCodec writes one row per line, attributes separated by tabs, each
// attribute being "name:value" with both parts URL-encoded.
type tabsCodec struct{}

func (tabsCodec) Name() string {
	return "tabs"
}

func (tabsCodec) Encode(rows record.RowSet) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	for _, row := range rows {
		cols := make([]string, 0, len(row))
		for _, key := range row.Keys() {
			cols = append(cols, url.QueryEscape(key)+":"+url.QueryEscape(row[key]))
		}
		buf.WriteString(strings.Join(cols, "\t"))
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

func (tabsCodec) Decode(data []byte) (record.RowSet, error) {
	rows := record.RowSet{}
	for i, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSuffix(line, "\r")
		if line == "" {
			continue
		}
		row := make(record.Row)
		for _, part := range strings.Split(line, "\t") {
			name, value, ok := strings.Cut(part, ":")
			if !ok {
				return nil, fmt.Errorf("line %d: attribute %q has no separator", i+1, part)
			}
			key, err := url.QueryUnescape(name)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", i+1, err)
			}
			row[key], err = url.QueryUnescape(value)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", i+1, err)
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
