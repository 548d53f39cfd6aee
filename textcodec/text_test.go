package textcodec_test

import (
	"strings"
	"testing"

	"github.com/RitoShark/ritobin-go/digest"
	"github.com/RitoShark/ritobin-go/model"
	"github.com/RitoShark/ritobin-go/textcodec"
	"github.com/stretchr/testify/require"
)

func TestMinimalDocument(t *testing.T) {
	doc, err := textcodec.ReadText("#PROP_text\nversion: u32 = 7\n")
	require.NoError(t, err)

	v, ok := doc.Get("version")
	require.True(t, ok)
	require.Equal(t, model.U32Value(7), v)

	out := textcodec.WriteText(doc)
	require.Contains(t, out, "#PROP_text")
	require.Contains(t, out, "version: u32 = 7")
}

func TestHashNaming(t *testing.T) {
	doc, err := textcodec.ReadText("#PROP_text\nname: hash = \"ItemA\"\n")
	require.NoError(t, err)

	v, ok := doc.Get("name")
	require.True(t, ok)
	h, ok := v.(model.HashValue)
	require.True(t, ok)
	require.Equal(t, digest.FNV1a("ItemA"), h.Value)
	require.NotNil(t, h.Name)
	require.Equal(t, "ItemA", *h.Name)

	out := textcodec.WriteText(doc)
	require.Contains(t, out, `"ItemA"`)
	require.NotContains(t, out, "0x")
}

func TestHexPreservesAnonymity(t *testing.T) {
	doc, err := textcodec.ReadText("#PROP_text\nname: hash = 0xDEADBEEF\n")
	require.NoError(t, err)

	v, ok := doc.Get("name")
	require.True(t, ok)
	h, ok := v.(model.HashValue)
	require.True(t, ok)
	require.Equal(t, uint32(0xDEADBEEF), h.Value)
	require.Nil(t, h.Name)

	out := textcodec.WriteText(doc)
	require.Contains(t, out, "0xdeadbeef")
}

func TestListAndEmbedRoundTrip(t *testing.T) {
	src := `#PROP_text
entries: map[hash,embed] = {
  ItemA = ItemA {
    count: u32 = 3,
    tags: list[string] = { "a", "b", "c" },
  },
}
`
	doc, err := textcodec.ReadText(src)
	require.NoError(t, err)

	v, ok := doc.Get("entries")
	require.True(t, ok)
	m, ok := v.(model.MapValue)
	require.True(t, ok)
	require.Len(t, m.Items, 1)

	embed, ok := m.Items[0].Value.(model.EmbedValue)
	require.True(t, ok)
	require.Equal(t, digest.FNV1a("ItemA"), embed.Name)
	require.Len(t, embed.Fields, 2)
	require.Equal(t, model.U32Value(3), embed.Fields[0].Value)

	tags, ok := embed.Fields[1].Value.(model.ListValue)
	require.True(t, ok)
	require.Len(t, tags.Items, 3)

	out := textcodec.WriteText(doc)
	require.True(t, strings.Contains(out, "map[hash,embed]"))

	doc2, err := textcodec.ReadText(out)
	require.NoError(t, err)
	require.Equal(t, doc, doc2)
}

func TestNullPointer(t *testing.T) {
	doc, err := textcodec.ReadText("#PROP_text\nnext: pointer = null\n")
	require.NoError(t, err)
	v, ok := doc.Get("next")
	require.True(t, ok)
	p, ok := v.(model.PointerValue)
	require.True(t, ok)
	require.True(t, p.IsNull())

	out := textcodec.WriteText(doc)
	require.Contains(t, out, "next: pointer = null")
}
