package fsfile

import (
	"github.com/ghodss/yaml"

	"github.com/yegor256/tojos/database/record"
)

// yamlCodec writes a sequence of mappings. Reading goes through JSON, so
// non-string scalars are taken in their textual form, like jsonCodec does.
type yamlCodec struct{}

func (yamlCodec) Name() string {
	return "yaml"
}

func (yamlCodec) Encode(rows record.RowSet) ([]byte, error) {
	if len(rows) == 0 {
		return []byte("[]\n"), nil
	}
	return yaml.Marshal(rows)
}

func (yamlCodec) Decode(data []byte) (record.RowSet, error) {
	converted, err := yaml.YAMLToJSON(data)
	if err != nil {
		return nil, err
	}
	return decodeJSON(converted)
}
