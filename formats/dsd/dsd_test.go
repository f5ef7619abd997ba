package dsd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row map[string]string

func TestConversion(t *testing.T) {
	subject := []row{
		{"id": "A", "age": "35"},
		{"id": "B", "name": "Jeff"},
	}

	for _, format := range []SerializationFormat{AUTO, JSON, CBOR, MsgPack} {
		data, err := Dump(subject, format)
		require.NoError(t, err, "format %d", format)

		var loaded []row
		loadedFormat, err := Load(data, &loaded)
		require.NoError(t, err, "format %d", format)
		assert.Equal(t, subject, loaded, "format %d", format)

		expected, _ := format.ValidateSerializationFormat()
		assert.Equal(t, expected, loadedFormat)
	}
}

func TestCompression(t *testing.T) {
	subject := []row{{"id": "A", "note": "a long and repetitive note note note note note"}}

	for _, format := range []SerializationFormat{JSON, CBOR, MsgPack} {
		data, err := DumpAndCompress(subject, format, AutoCompress)
		require.NoError(t, err)

		var loaded []row
		loadedFormat, err := Load(data, &loaded)
		require.NoError(t, err)
		assert.Equal(t, format, loadedFormat)
		assert.Equal(t, subject, loaded)
	}
}

func TestFails(t *testing.T) {
	_, err := Dump("x", SerializationFormat(99))
	assert.ErrorIs(t, err, ErrIncompatibleFormat)

	_, err = Dump("x", RAW)
	assert.ErrorIs(t, err, ErrIsRaw)

	var v interface{}
	_, err = Load([]byte{byte(JSON)}, &v)
	assert.ErrorIs(t, err, ErrNoMoreSpace)

	_, err = Load([]byte{99, 0x01}, &v)
	assert.ErrorIs(t, err, ErrIncompatibleFormat)

	_, err = Load([]byte{byte(JSON), '{'}, &v)
	assert.Error(t, err)
}

func TestParseSerializationFormat(t *testing.T) {
	f, ok := ParseSerializationFormat("cbor")
	assert.True(t, ok)
	assert.Equal(t, CBOR, f)
	_, ok = ParseSerializationFormat("xml")
	assert.False(t, ok)
}
