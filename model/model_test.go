package model_test

import (
	"testing"

	"github.com/RitoShark/ritobin-go/model"
	"github.com/stretchr/testify/require"
)

func TestPrimitiveVsContainer(t *testing.T) {
	for _, tag := range []model.Type{model.None, model.Bool, model.I8, model.U8,
		model.I16, model.U16, model.I32, model.U32, model.I64, model.U64,
		model.F32, model.Vec2, model.Vec3, model.Vec4, model.Mtx44, model.Rgba,
		model.String, model.Hash, model.File} {
		require.True(t, tag.IsPrimitive(), "%v should be primitive", tag)
		require.False(t, tag.IsContainer(), "%v should not be a container", tag)
	}

	containers := map[model.Type]bool{model.Option: true, model.List: true, model.List2: true, model.Map: true}
	for _, tag := range []model.Type{model.List, model.List2, model.Pointer, model.Embed, model.Link, model.Option, model.Map, model.Flag} {
		require.False(t, tag.IsPrimitive(), "%v should not be primitive", tag)
		require.Equal(t, containers[tag], tag.IsContainer())
	}
}

func TestTypeNameRoundTrip(t *testing.T) {
	for tag := range map[model.Type]struct{}{
		model.None: {}, model.Mtx44: {}, model.Pointer: {}, model.Flag: {},
	} {
		name := tag.Name()
		got, ok := model.TypeByName(name)
		require.True(t, ok)
		require.Equal(t, tag, got)
	}
}

func TestDocumentOrderPreserved(t *testing.T) {
	var d model.Document
	d.Set("type", model.StringValue("PROP"))
	d.Set("version", model.U32Value(1))
	d.Set("entries", model.MapValue{KeyType: model.Hash, ValueType: model.Embed})

	require.Len(t, d.Sections, 3)
	require.Equal(t, "type", d.Sections[0].Name)
	require.Equal(t, "version", d.Sections[1].Name)
	require.Equal(t, "entries", d.Sections[2].Name)

	// Overwriting an existing section preserves its position.
	d.Set("version", model.U32Value(2))
	require.Len(t, d.Sections, 3)
	require.Equal(t, "version", d.Sections[1].Name)
	require.Equal(t, model.U32Value(2), d.Sections[1].Value)
}

func TestNullPointerHasNoFields(t *testing.T) {
	p := model.PointerValue{Name: 0}
	require.True(t, p.IsNull())
	require.Empty(t, p.Fields)
}
