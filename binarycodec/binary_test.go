package binarycodec_test

import (
	"strings"
	"testing"

	"github.com/RitoShark/ritobin-go/binarycodec"
	"github.com/RitoShark/ritobin-go/model"
	"github.com/stretchr/testify/require"
)

func TestReadEmptyProp(t *testing.T) {
	// "PROP", version=1, entry_count=0
	data := []byte{
		0x50, 0x52, 0x4F, 0x50,
		0x01, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00,
	}
	doc, err := binarycodec.ReadBinary(data)
	require.NoError(t, err)

	typ, ok := doc.Get("type")
	require.True(t, ok)
	require.Equal(t, model.StringValue("PROP"), typ)

	version, ok := doc.Get("version")
	require.True(t, ok)
	require.Equal(t, model.U32Value(1), version)

	entries, ok := doc.Get("entries")
	require.True(t, ok)
	m, ok := entries.(model.MapValue)
	require.True(t, ok)
	require.Empty(t, m.Items)
}

func buildSampleDoc() *model.Document {
	doc := &model.Document{}
	doc.Set("type", model.StringValue("PROP"))
	doc.Set("version", model.U32Value(1))
	doc.Set("entries", model.MapValue{
		KeyType:   model.Hash,
		ValueType: model.Embed,
		Items: []model.MapEntry{
			{
				Key: model.HashValue{Value: 0xAABBCCDD},
				Value: model.EmbedValue{
					Name: 0x11223344,
					Fields: []model.Field{
						{Key: 0x1, Type: model.U32, Value: model.U32Value(42)},
						{Key: 0x2, Type: model.String, Value: model.StringValue("hello")},
						{Key: 0x3, Type: model.List, Value: model.ListValue{
							ElemType: model.I32,
							Items:    []model.Value{model.I32Value(1), model.I32Value(2), model.I32Value(3)},
						}},
					},
				},
			},
		},
	})
	return doc
}

func TestWriteReadRoundTrip(t *testing.T) {
	doc := buildSampleDoc()
	data, err := binarycodec.WriteBinary(doc)
	require.NoError(t, err)

	got, err := binarycodec.ReadBinary(data)
	require.NoError(t, err)
	require.Equal(t, doc, got)
}

func TestStringBoundaryLengths(t *testing.T) {
	for _, n := range []int{0, 65535} {
		doc := &model.Document{}
		doc.Set("type", model.StringValue("PROP"))
		doc.Set("version", model.U32Value(1))
		doc.Set("entries", model.MapValue{
			KeyType:   model.Hash,
			ValueType: model.Embed,
			Items: []model.MapEntry{
				{
					Key: model.HashValue{Value: 1},
					Value: model.EmbedValue{
						Name: 2,
						Fields: []model.Field{
							{Key: 3, Type: model.String, Value: model.StringValue(strings.Repeat("a", n))},
						},
					},
				},
			},
		})
		data, err := binarycodec.WriteBinary(doc)
		require.NoError(t, err)
		got, err := binarycodec.ReadBinary(data)
		require.NoError(t, err)
		require.Equal(t, doc, got)
	}
}

func TestPatchesNotWrittenBelowVersion3(t *testing.T) {
	base := func(withPatches bool) *model.Document {
		doc := &model.Document{}
		doc.Set("type", model.StringValue("PTCH"))
		doc.Set("version", model.U32Value(2))
		doc.Set("entries", model.MapValue{
			KeyType:   model.Hash,
			ValueType: model.Embed,
			Items: []model.MapEntry{
				{
					Key:   model.HashValue{Value: 1},
					Value: model.EmbedValue{Name: 2},
				},
			},
		})
		if withPatches {
			doc.Set("patches", model.MapValue{
				KeyType:   model.Hash,
				ValueType: model.Embed,
				Items: []model.MapEntry{
					{
						Key: model.HashValue{Value: 0xDEADBEEF},
						Value: model.EmbedValue{
							Name: 3,
							Fields: []model.Field{
								{Key: 4, Type: model.String, Value: model.StringValue("path")},
							},
						},
					},
				},
			})
		}
		return doc
	}

	withoutPatches, err := binarycodec.WriteBinary(base(false))
	require.NoError(t, err)
	withPatches, err := binarycodec.WriteBinary(base(true))
	require.NoError(t, err)

	require.Equal(t, withoutPatches, withPatches, "a non-empty patches section must not be written for PTCH below version 3")
}

func TestInvalidMagicErrors(t *testing.T) {
	_, err := binarycodec.ReadBinary([]byte("XXXX\x01\x00\x00\x00"))
	require.Error(t, err)
}

func TestSizeSmallerThanChildrenErrors(t *testing.T) {
	// A field of type List whose size=1 is too small to hold even the
	// count field, let alone the one element that follows. The reader
	// must error rather than seek backwards to honor the declared size.
	listBytes := []byte{
		byte(model.U32), // elem tag
		0x01, 0x00, 0x00, 0x00, // size = 1 (too small)
		0x01, 0x00, 0x00, 0x00, // count = 1
		0x07, 0x00, 0x00, 0x00, // one u32 element
	}
	data := []byte{
		0x50, 0x52, 0x4F, 0x50, // PROP
		0x01, 0x00, 0x00, 0x00, // version 1
		0x01, 0x00, 0x00, 0x00, // entry_count = 1
		0x00, 0x00, 0x00, 0x00, // entry name digest
		0x00, 0x00, 0x00, 0x00, // entry_length placeholder, filled below
		0x00, 0x00, 0x00, 0x00, // entry_key
		0x01, 0x00, // field_count = 1
		0x00, 0x00, 0x00, 0x00, // field key
		byte(model.List), // field type
	}
	data = append(data, listBytes...)
	entryLen := uint32(4 + 2 + 4 + 1 + len(listBytes))
	data[16] = byte(entryLen)
	data[17] = byte(entryLen >> 8)
	data[18] = byte(entryLen >> 16)
	data[19] = byte(entryLen >> 24)

	_, err := binarycodec.ReadBinary(data)
	require.Error(t, err)
}
