// Package jsoncodec implements the structural JSON mirror of a Document:
// each section becomes a {"type","value"} pair, containers carry their
// element type names alongside an items array, and Pointer/Embed carry a
// name plus a heterogeneous field-items array.
package jsoncodec

import (
	"strconv"
	"strings"

	"github.com/RitoShark/ritobin-go/model"
)

// WriteJson renders a Document as its JSON mirror. Section order is
// preserved by building the object text directly instead of going through
// encoding/json's map-based (and therefore key-sorting) marshaler.
func WriteJson(doc *model.Document) string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, sec := range doc.Sections {
		if i > 0 {
			sb.WriteByte(',')
		}
		writeJSONString(&sb, sec.Name)
		sb.WriteByte(':')
		writeSection(&sb, sec.Value)
	}
	sb.WriteByte('}')
	return sb.String()
}

func writeSection(sb *strings.Builder, v model.Value) {
	sb.WriteByte('{')
	sb.WriteString(`"type":`)
	writeJSONString(sb, v.Tag().Name())
	sb.WriteString(`,"value":`)
	writeValue(sb, v)
	sb.WriteByte('}')
}

func writeValue(sb *strings.Builder, v model.Value) {
	switch val := v.(type) {
	case model.NoneValue:
		sb.WriteString("null")
	case model.BoolValue:
		sb.WriteString(strconv.FormatBool(bool(val)))
	case model.FlagValue:
		sb.WriteString(strconv.FormatBool(bool(val)))
	case model.I8Value:
		sb.WriteString(strconv.FormatInt(int64(val), 10))
	case model.U8Value:
		sb.WriteString(strconv.FormatUint(uint64(val), 10))
	case model.I16Value:
		sb.WriteString(strconv.FormatInt(int64(val), 10))
	case model.U16Value:
		sb.WriteString(strconv.FormatUint(uint64(val), 10))
	case model.I32Value:
		sb.WriteString(strconv.FormatInt(int64(val), 10))
	case model.U32Value:
		sb.WriteString(strconv.FormatUint(uint64(val), 10))
	case model.I64Value:
		sb.WriteString(strconv.FormatInt(int64(val), 10))
	case model.U64Value:
		sb.WriteString(strconv.FormatUint(uint64(val), 10))
	case model.F32Value:
		sb.WriteString(strconv.FormatFloat(float64(val), 'g', -1, 32))
	case model.Vec2Value:
		writeFloatArray(sb, val[:])
	case model.Vec3Value:
		writeFloatArray(sb, val[:])
	case model.Vec4Value:
		writeFloatArray(sb, val[:])
	case model.Mtx44Value:
		writeFloatArray(sb, val[:])
	case model.RgbaValue:
		sb.WriteByte('[')
		for i, b := range val {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(strconv.Itoa(int(b)))
		}
		sb.WriteByte(']')
	case model.StringValue:
		writeJSONString(sb, string(val))
	case model.HashValue:
		writeDigestOrName32(sb, val.Value, val.Name)
	case model.LinkValue:
		writeDigestOrName32(sb, val.Value, val.Name)
	case model.FileValue:
		writeDigestOrName64(sb, val.Value, val.Name)
	case model.ListValue:
		writeListLike(sb, val.ElemType, val.Items)
	case model.List2Value:
		writeListLike(sb, val.ElemType, val.Items)
	case model.OptionValue:
		writeOption(sb, val)
	case model.MapValue:
		writeMap(sb, val)
	case model.PointerValue:
		writeStructure(sb, val.Name, val.NameStr, val.Fields)
	case model.EmbedValue:
		writeStructure(sb, val.Name, val.NameStr, val.Fields)
	}
}

func writeFloatArray(sb *strings.Builder, vs []float32) {
	sb.WriteByte('[')
	for i, f := range vs {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.FormatFloat(float64(f), 'g', -1, 32))
	}
	sb.WriteByte(']')
}

func writeDigestOrName32(sb *strings.Builder, v uint32, name *string) {
	if name != nil {
		writeJSONString(sb, *name)
		return
	}
	sb.WriteString(strconv.FormatUint(uint64(v), 10))
}

func writeDigestOrName64(sb *strings.Builder, v uint64, name *string) {
	if name != nil {
		writeJSONString(sb, *name)
		return
	}
	sb.WriteString(strconv.FormatUint(v, 10))
}

func writeListLike(sb *strings.Builder, elemType model.Type, items []model.Value) {
	sb.WriteByte('{')
	sb.WriteString(`"valueType":`)
	writeJSONString(sb, elemType.Name())
	sb.WriteString(`,"items":[`)
	for i, it := range items {
		if i > 0 {
			sb.WriteByte(',')
		}
		writeValue(sb, it)
	}
	sb.WriteString("]}")
}

func writeOption(sb *strings.Builder, opt model.OptionValue) {
	sb.WriteByte('{')
	sb.WriteString(`"valueType":`)
	writeJSONString(sb, opt.ElemType.Name())
	sb.WriteString(`,"items":[`)
	if opt.Item != nil {
		writeValue(sb, opt.Item)
	}
	sb.WriteString("]}")
}

func writeMap(sb *strings.Builder, m model.MapValue) {
	sb.WriteByte('{')
	sb.WriteString(`"keyType":`)
	writeJSONString(sb, m.KeyType.Name())
	sb.WriteString(`,"valueType":`)
	writeJSONString(sb, m.ValueType.Name())
	sb.WriteString(`,"items":[`)
	for i, e := range m.Items {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteByte('{')
		sb.WriteString(`"key":`)
		writeValue(sb, e.Key)
		sb.WriteString(`,"value":`)
		writeValue(sb, e.Value)
		sb.WriteByte('}')
	}
	sb.WriteString("]}")
}

func writeStructure(sb *strings.Builder, name uint32, nameStr *string, fields []model.Field) {
	sb.WriteByte('{')
	sb.WriteString(`"name":`)
	writeDigestOrName32(sb, name, nameStr)
	sb.WriteString(`,"items":[`)
	for i, f := range fields {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteByte('{')
		sb.WriteString(`"key":`)
		writeDigestOrName32(sb, f.Key, f.KeyName)
		sb.WriteString(`,"type":`)
		writeJSONString(sb, f.Type.Name())
		sb.WriteString(`,"value":`)
		writeValue(sb, f.Value)
		sb.WriteByte('}')
	}
	sb.WriteString("]}")
}

func writeJSONString(sb *strings.Builder, s string) {
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			if r < 0x20 {
				sb.WriteString(`\u`)
				const hex = "0123456789abcdef"
				sb.WriteByte(hex[(r>>12)&0xf])
				sb.WriteByte(hex[(r>>8)&0xf])
				sb.WriteByte(hex[(r>>4)&0xf])
				sb.WriteByte(hex[r&0xf])
				continue
			}
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
}
