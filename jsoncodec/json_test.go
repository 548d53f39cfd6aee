package jsoncodec_test

import (
	"testing"

	"github.com/RitoShark/ritobin-go/digest"
	"github.com/RitoShark/ritobin-go/jsoncodec"
	"github.com/RitoShark/ritobin-go/model"
	"github.com/stretchr/testify/require"
)

func buildSampleDoc() *model.Document {
	doc := &model.Document{}
	doc.Set("type", model.StringValue("PROP"))
	doc.Set("version", model.U32Value(7))

	name := "ItemA"
	tags := model.ListValue{ElemType: model.String, Items: []model.Value{
		model.StringValue("a"), model.StringValue("b"),
	}}
	embed := model.EmbedValue{
		Name: digest.FNV1a(name),
		Fields: []model.Field{
			{Key: digest.FNV1a("count"), KeyName: strPtr("count"), Type: model.U32, Value: model.U32Value(3)},
			{Key: digest.FNV1a("tags"), KeyName: strPtr("tags"), Type: model.List, Value: tags},
		},
	}
	entries := model.MapValue{
		KeyType: model.Hash, ValueType: model.Embed,
		Items: []model.MapEntry{
			{Key: model.HashValue{Value: digest.FNV1a(name), Name: &name}, Value: embed},
		},
	}
	doc.Set("entries", entries)
	doc.Set("next", model.PointerValue{Name: 0})
	doc.Set("anon", model.HashValue{Value: 0xDEADBEEF})
	return doc
}

func strPtr(s string) *string { return &s }

func TestWriteJsonPreservesSectionOrder(t *testing.T) {
	doc := buildSampleDoc()
	out := jsoncodec.WriteJson(doc)

	typeIdx := indexOf(out, `"type"`)
	versionIdx := indexOf(out, `"version"`)
	require.True(t, typeIdx >= 0 && versionIdx >= 0)
	require.Less(t, typeIdx, versionIdx)
}

func indexOf(s, sub string) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}

func TestJsonRoundTrip(t *testing.T) {
	doc := buildSampleDoc()
	out := jsoncodec.WriteJson(doc)

	got, err := jsoncodec.ReadJson(out)
	require.NoError(t, err)
	require.Equal(t, doc, got)
}

func TestJsonHashPrefersName(t *testing.T) {
	doc := &model.Document{}
	name := "ItemA"
	doc.Set("name", model.HashValue{Value: digest.FNV1a(name), Name: &name})
	out := jsoncodec.WriteJson(doc)
	require.Contains(t, out, `"ItemA"`)

	got, err := jsoncodec.ReadJson(out)
	require.NoError(t, err)
	v, _ := got.Get("name")
	h := v.(model.HashValue)
	require.Equal(t, "ItemA", *h.Name)
}

func TestJsonAnonymousHashIsNumber(t *testing.T) {
	doc := &model.Document{}
	doc.Set("name", model.HashValue{Value: 0xDEADBEEF})
	out := jsoncodec.WriteJson(doc)
	require.Contains(t, out, "3735928559")

	got, err := jsoncodec.ReadJson(out)
	require.NoError(t, err)
	v, _ := got.Get("name")
	h := v.(model.HashValue)
	require.Nil(t, h.Name)
	require.Equal(t, uint32(0xDEADBEEF), h.Value)
}

func TestJsonNullPointer(t *testing.T) {
	doc := &model.Document{}
	doc.Set("next", model.PointerValue{Name: 0})
	out := jsoncodec.WriteJson(doc)

	got, err := jsoncodec.ReadJson(out)
	require.NoError(t, err)
	v, _ := got.Get("next")
	p := v.(model.PointerValue)
	require.True(t, p.IsNull())
}
