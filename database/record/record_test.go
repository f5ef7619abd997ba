package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yegor256/tojos/formats/dsd"
)

func TestRowClone(t *testing.T) {
	row := Row{IDKey: "A", "age": "35"}
	dup := row.Clone()
	dup["age"] = "36"
	assert.Equal(t, "35", row["age"])
	assert.Equal(t, "A", dup.ID())
	assert.Nil(t, Row(nil).Clone())
}

func TestRowKeys(t *testing.T) {
	row := Row{"zeta": "1", "alpha": "2", IDKey: "A"}
	assert.Equal(t, []string{IDKey, "alpha", "zeta"}, row.Keys())
}

func TestRowSetClone(t *testing.T) {
	rows := RowSet{NewRow("A"), NewRow("B")}
	dup := rows.Clone()
	dup[0]["name"] = "Jeff"
	dup = append(dup, NewRow("C"))

	assert.Len(t, rows, 2)
	_, ok := rows[0]["name"]
	assert.False(t, ok, "clone must not share rows")

	var empty RowSet
	assert.NotNil(t, empty.Clone())
	assert.Empty(t, empty.Clone())
}

func TestRowSetFind(t *testing.T) {
	rows := RowSet{NewRow("A"), NewRow("B")}
	row, i := rows.Find("B")
	assert.Equal(t, 1, i)
	assert.Equal(t, "B", row.ID())

	row, i = rows.Find("X")
	assert.Equal(t, -1, i)
	assert.Nil(t, row)

	assert.Equal(t, []string{"A", "B"}, rows.IDs())
}

func TestRowSetMerge(t *testing.T) {
	rows := RowSet{NewRow("A"), {IDKey: "B", "age": "1"}}
	merged := rows.Merge(RowSet{{IDKey: "B", "age": "2"}, NewRow("C")})

	assert.Equal(t, []string{"A", "B", "C"}, merged.IDs())
	b, _ := merged.Find("B")
	assert.Equal(t, "2", b["age"])

	// source is untouched
	b, _ = rows.Find("B")
	assert.Equal(t, "1", b["age"])
}

func TestRowSetKeys(t *testing.T) {
	rows := RowSet{{IDKey: "A", "b": "1"}, {IDKey: "B", "a": "2"}}
	assert.Equal(t, []string{IDKey, "a", "b"}, rows.Keys())
}

func TestRowSetValidate(t *testing.T) {
	assert.NoError(t, RowSet{NewRow("A"), NewRow("B")}.Validate())
	assert.ErrorIs(t, RowSet{NewRow("A"), NewRow("A")}.Validate(), ErrInvalidRow)
	assert.ErrorIs(t, RowSet{{"name": "x"}}.Validate(), ErrInvalidRow)
	assert.ErrorIs(t, RowSet{nil}.Validate(), ErrInvalidRow)
	assert.ErrorIs(t, RowSet{{IDKey: "A", "": "x"}}.Validate(), ErrInvalidRow)
}

func TestRowSetEqual(t *testing.T) {
	a := RowSet{{IDKey: "A", "x": "1"}, NewRow("B")}
	b := RowSet{NewRow("B"), {IDKey: "A", "x": "1"}}
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(RowSet{NewRow("B"), {IDKey: "A", "x": "2"}}))
	assert.False(t, a.Equal(RowSet{NewRow("B")}))
	assert.False(t, a.Equal(RowSet{NewRow("B"), {IDKey: "A", "y": "1"}}))
}

func TestMarshalRow(t *testing.T) {
	row := Row{IDKey: "A", "age": "35"}
	for _, format := range []dsd.SerializationFormat{JSON, CBOR, MsgPack} {
		data, err := MarshalRow(row, format)
		require.NoError(t, err, "format %d", format)
		loaded, err := UnmarshalRow(data)
		require.NoError(t, err, "format %d", format)
		assert.Equal(t, row, loaded, "format %d", format)
	}

	_, err := UnmarshalRow([]byte{byte(JSON), '['})
	assert.Error(t, err)
}
