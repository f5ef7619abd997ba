package fsfile

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/yegor256/tojos/database/record"
)

// Codec converts a row set to and from the bytes of a file.
type Codec interface {
	Name() string
	Encode(rows record.RowSet) ([]byte, error)
	Decode(data []byte) (record.RowSet, error)
}

// Codecs.
var (
	CSV  Codec = &csvCodec{name: "csv", comma: ','}
	Tabs Codec = tabsCodec{}
	JSON Codec = jsonCodec{}
	YAML Codec = yamlCodec{}
	DSD  Codec = NewDSDCodec(record.JSON, true)
)

// ForPath returns the codec matching the extension of path.
func ForPath(path string) (Codec, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return CSV, nil
	case ".tsv", ".tab", ".tabs":
		return Tabs, nil
	case ".json":
		return JSON, nil
	case ".yml", ".yaml":
		return YAML, nil
	case ".dsd":
		return DSD, nil
	default:
		return nil, fmt.Errorf("fsfile: no codec for file extension of %s", path)
	}
}
