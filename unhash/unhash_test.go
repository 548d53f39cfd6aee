package unhash_test

import (
	"testing"

	"github.com/RitoShark/ritobin-go/dictcodec"
	"github.com/RitoShark/ritobin-go/model"
	"github.com/RitoShark/ritobin-go/unhash"
	"github.com/stretchr/testify/require"
)

func TestApplyFillsKnownHash(t *testing.T) {
	doc := &model.Document{}
	doc.Set("k", model.HashValue{Value: 0x12345678})

	dict := dictcodec.NewDictionary()
	dict.FNV[0x12345678] = "known"

	unhash.Apply(doc, dict)

	v, _ := doc.Get("k")
	h := v.(model.HashValue)
	require.NotNil(t, h.Name)
	require.Equal(t, "known", *h.Name)
	require.Equal(t, uint32(0x12345678), h.Value)
}

func TestApplyIsIdempotent(t *testing.T) {
	doc := &model.Document{}
	doc.Set("k", model.HashValue{Value: 0x12345678})
	dict := dictcodec.NewDictionary()
	dict.FNV[0x12345678] = "known"

	unhash.Apply(doc, dict)
	first, _ := doc.Get("k")
	unhash.Apply(doc, dict)
	second, _ := doc.Get("k")
	require.Equal(t, first, second)
}

func TestApplyNeverOverwritesExistingName(t *testing.T) {
	doc := &model.Document{}
	existing := "already-named"
	doc.Set("k", model.HashValue{Value: 0x12345678, Name: &existing})

	dict := dictcodec.NewDictionary()
	other := "different"
	dict.FNV[0x12345678] = other

	unhash.Apply(doc, dict)

	v, _ := doc.Get("k")
	h := v.(model.HashValue)
	require.Equal(t, "already-named", *h.Name)
}

func TestApplyUnknownDigestLeftAnonymous(t *testing.T) {
	doc := &model.Document{}
	doc.Set("k", model.HashValue{Value: 0xDEADBEEF})
	dict := dictcodec.NewDictionary()

	unhash.Apply(doc, dict)

	v, _ := doc.Get("k")
	h := v.(model.HashValue)
	require.Nil(t, h.Name)
}

func TestApplyRecursesIntoNestedStructures(t *testing.T) {
	doc := &model.Document{}
	inner := model.EmbedValue{
		Name: 0xAAAAAAAA,
		Fields: []model.Field{
			{Key: 0x12345678, Type: model.Hash, Value: model.HashValue{Value: 0x12345678}},
		},
	}
	doc.Set("e", model.ListValue{ElemType: model.Embed, Items: []model.Value{inner}})

	dict := dictcodec.NewDictionary()
	dict.FNV[0xAAAAAAAA] = "Item"
	dict.FNV[0x12345678] = "field"

	unhash.Apply(doc, dict)

	v, _ := doc.Get("e")
	list := v.(model.ListValue)
	embed := list.Items[0].(model.EmbedValue)
	require.Equal(t, "Item", *embed.NameStr)
	require.Equal(t, "field", *embed.Fields[0].KeyName)

	hv := embed.Fields[0].Value.(model.HashValue)
	require.Equal(t, "field", *hv.Name)
}

func TestApplyFileUsesXXHTable(t *testing.T) {
	doc := &model.Document{}
	doc.Set("f", model.FileValue{Value: 0x0123456789ABCDEF})
	dict := dictcodec.NewDictionary()
	dict.XXH[0x0123456789ABCDEF] = "file.bin"

	unhash.Apply(doc, dict)

	v, _ := doc.Get("f")
	fv := v.(model.FileValue)
	require.Equal(t, "file.bin", *fv.Name)
}
