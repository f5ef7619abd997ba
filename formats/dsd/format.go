package dsd

import "errors"

// Errors.
var (
	ErrIncompatibleFormat = errors.New("dsd: format is incompatible with operation")
	ErrIsRaw              = errors.New("dsd: given data is in raw format")
	ErrNoMoreSpace        = errors.New("dsd: no more space left after reading dsd type")
	ErrUnknownFormat      = errors.New("dsd: format is unknown")
)

// SerializationFormat is the format byte of a serialized data structure.
type SerializationFormat uint8

// Serialization formats.
const (
	AUTO    SerializationFormat = 0
	RAW     SerializationFormat = 1
	CBOR    SerializationFormat = 67 // C
	JSON    SerializationFormat = 74 // J
	MsgPack SerializationFormat = 77 // M
)

// CompressionFormat is the format byte of a compressed data structure.
type CompressionFormat uint8

// Compression formats.
const (
	AutoCompress CompressionFormat = 0
	GZIP         CompressionFormat = 90 // Z
)

// Defaults used when AUTO is requested.
var (
	DefaultSerializationFormat = JSON
	DefaultCompressionFormat   = GZIP
)

// ValidateSerializationFormat validates if the format is for serialization,
// and returns the validated format as well as the result of the validation.
// If called on the AUTO format, it returns the default serialization format.
func (format SerializationFormat) ValidateSerializationFormat() (validated SerializationFormat, ok bool) {
	switch format {
	case AUTO:
		return DefaultSerializationFormat, true
	case RAW, CBOR, JSON, MsgPack:
		return format, true
	default:
		return 0, false
	}
}

// ValidateCompressionFormat validates if the format is for compression,
// and returns the validated format as well as the result of the validation.
// If called on the AUTO format, it returns the default compression format.
func (format CompressionFormat) ValidateCompressionFormat() (validated CompressionFormat, ok bool) {
	switch format {
	case AutoCompress:
		return DefaultCompressionFormat, true
	case GZIP:
		return format, true
	default:
		return 0, false
	}
}

// ParseSerializationFormat returns the serialization format with the given name.
func ParseSerializationFormat(name string) (SerializationFormat, bool) {
	switch name {
	case "", "auto":
		return AUTO, true
	case "json":
		return JSON, true
	case "cbor":
		return CBOR, true
	case "msgpack":
		return MsgPack, true
	default:
		return 0, false
	}
}
