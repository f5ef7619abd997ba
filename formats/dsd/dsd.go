// Package dsd provides "dynamic structured data": a serialized blob that
// carries its own format byte, so it can be loaded without knowing the
// format in advance.
package dsd

// check here for some benchmarks: https://github.com/alecthomas/go_serialization_benchmarks

import (
	"encoding/json"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/yegor256/tojos/formats/varint"
)

// Load loads an dsd structured data blob into the given interface.
// Compressed blobs are decompressed transparently.
func Load(data []byte, t interface{}) (format SerializationFormat, err error) {
	rawFormat, read, err := loadFormat(data)
	if err != nil {
		return 0, err
	}

	if CompressionFormat(rawFormat) == GZIP {
		return DecompressAndLoad(data[read:], GZIP, t)
	}

	format = SerializationFormat(rawFormat)
	return format, LoadAsFormat(data[read:], format, t)
}

// LoadAsFormat loads a data blob into the interface using the specified format.
func LoadAsFormat(data []byte, format SerializationFormat, t interface{}) (err error) {
	switch format {
	case RAW:
		return ErrIsRaw
	case JSON:
		err = json.Unmarshal(data, t)
		if err != nil {
			return fmt.Errorf("dsd: failed to unpack json: %w, data: %s", err, string(data))
		}
		return nil
	case CBOR:
		err = cbor.Unmarshal(data, t)
		if err != nil {
			return fmt.Errorf("dsd: failed to unpack cbor: %w, data: %v", err, data)
		}
		return nil
	case MsgPack:
		err = msgpack.Unmarshal(data, t)
		if err != nil {
			return fmt.Errorf("dsd: failed to unpack msgpack: %w, data: %v", err, data)
		}
		return nil
	default:
		return fmt.Errorf("%w: %d", ErrIncompatibleFormat, format)
	}
}

func loadFormat(data []byte) (format uint8, read int, err error) {
	format, read, err = varint.Unpack8(data)
	if err != nil {
		return 0, 0, err
	}
	if len(data) <= read {
		return 0, 0, ErrNoMoreSpace
	}

	return format, read, nil
}

// Dump stores the interface as a dsd formatted data structure.
func Dump(t interface{}, format SerializationFormat) ([]byte, error) {
	data, err := DumpWithoutIdentifier(t, format)
	if err != nil {
		return nil, err
	}

	format, _ = format.ValidateSerializationFormat()
	return append(varint.Pack8(uint8(format)), data...), nil
}

// DumpWithoutIdentifier dumps the interface in the given format, but does not
// prepend the format byte.
func DumpWithoutIdentifier(t interface{}, format SerializationFormat) ([]byte, error) {
	format, ok := format.ValidateSerializationFormat()
	if !ok {
		return nil, ErrIncompatibleFormat
	}

	var data []byte
	var err error
	switch format {
	case JSON:
		data, err = json.Marshal(t)
		if err != nil {
			return nil, err
		}
	case CBOR:
		data, err = cbor.Marshal(t)
		if err != nil {
			return nil, err
		}
	case MsgPack:
		data, err = msgpack.Marshal(t)
		if err != nil {
			return nil, err
		}
	case RAW:
		return nil, ErrIsRaw
	default:
		return nil, ErrIncompatibleFormat
	}

	return data, nil
}
