package textcodec

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/RitoShark/ritobin-go/model"
)

// WriteText renders a Document as PTXT text, beginning with the
// "#PROP_text" header.
func WriteText(doc *model.Document) string {
	var sb strings.Builder
	sb.WriteString("#PROP_text\n")
	for _, sec := range doc.Sections {
		writeSection(&sb, sec)
	}
	return sb.String()
}

func writeSection(sb *strings.Builder, sec model.Section) {
	sb.WriteString(sec.Name)
	sb.WriteString(": ")
	writeTypeAnnotation(sb, sec.Value)
	sb.WriteString(" = ")
	writeValue(sb, sec.Value, 0)
	sb.WriteString("\n")
}

func writeTypeAnnotation(sb *strings.Builder, v model.Value) {
	switch val := v.(type) {
	case model.ListValue:
		fmt.Fprintf(sb, "list[%s]", val.ElemType.Name())
	case model.List2Value:
		fmt.Fprintf(sb, "list2[%s]", val.ElemType.Name())
	case model.OptionValue:
		fmt.Fprintf(sb, "option[%s]", val.ElemType.Name())
	case model.MapValue:
		fmt.Fprintf(sb, "map[%s,%s]", val.KeyType.Name(), val.ValueType.Name())
	default:
		sb.WriteString(v.Tag().Name())
	}
}

func indent(sb *strings.Builder, level int) {
	for i := 0; i < level; i++ {
		sb.WriteString("  ")
	}
}

func writeValue(sb *strings.Builder, v model.Value, level int) {
	switch val := v.(type) {
	case model.NoneValue:
		// nothing to print
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
		writeFloat(sb, float32(val))
	case model.Vec2Value:
		writeFloatBrace(sb, val[:])
	case model.Vec3Value:
		writeFloatBrace(sb, val[:])
	case model.Vec4Value:
		writeFloatBrace(sb, val[:])
	case model.Mtx44Value:
		writeMtx44(sb, val, level)
	case model.RgbaValue:
		sb.WriteString("{ ")
		for i, b := range val {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(strconv.Itoa(int(b)))
		}
		sb.WriteString(" }")
	case model.StringValue:
		writeQuotedString(sb, string(val))
	case model.HashValue:
		writeNameOrHex32(sb, val.Value, val.Name)
	case model.LinkValue:
		writeNameOrHex32(sb, val.Value, val.Name)
	case model.FileValue:
		writeNameOrHex64(sb, val.Value, val.Name)
	case model.ListValue:
		writeListLike(sb, val.Items, level)
	case model.List2Value:
		writeListLike(sb, val.Items, level)
	case model.OptionValue:
		writeOption(sb, val, level)
	case model.MapValue:
		writeMap(sb, val, level)
	case model.PointerValue:
		writePointer(sb, val, level)
	case model.EmbedValue:
		writeStructure(sb, val.Name, val.NameStr, val.Fields, level)
	}
}

func writeFloat(sb *strings.Builder, f float32) {
	sb.WriteString(strconv.FormatFloat(float64(f), 'g', -1, 32))
}

func writeFloatBrace(sb *strings.Builder, vs []float32) {
	sb.WriteString("{ ")
	for i, f := range vs {
		if i > 0 {
			sb.WriteString(", ")
		}
		writeFloat(sb, f)
	}
	sb.WriteString(" }")
}

func writeMtx44(sb *strings.Builder, m model.Mtx44Value, level int) {
	sb.WriteString("{\n")
	for row := 0; row < 4; row++ {
		indent(sb, level+1)
		for col := 0; col < 4; col++ {
			if col > 0 {
				sb.WriteString(", ")
			}
			writeFloat(sb, m[row*4+col])
		}
		sb.WriteString(",\n")
	}
	indent(sb, level)
	sb.WriteString("}")
}

var stringEscapes = map[rune]string{
	'\n': `\n`, '\r': `\r`, '\t': `\t`, '\\': `\\`, '"': `\"`,
}

func writeQuotedString(sb *strings.Builder, s string) {
	sb.WriteByte('"')
	for _, r := range s {
		if esc, ok := stringEscapes[r]; ok {
			sb.WriteString(esc)
			continue
		}
		sb.WriteRune(r)
	}
	sb.WriteByte('"')
}

func writeNameOrHex32(sb *strings.Builder, v uint32, name *string) {
	if name != nil {
		writeQuotedString(sb, *name)
		return
	}
	fmt.Fprintf(sb, "0x%08x", v)
}

func writeNameOrHex64(sb *strings.Builder, v uint64, name *string) {
	if name != nil {
		writeQuotedString(sb, *name)
		return
	}
	fmt.Fprintf(sb, "0x%016x", v)
}

func writeListLike(sb *strings.Builder, items []model.Value, level int) {
	if len(items) == 0 {
		sb.WriteString("{}")
		return
	}
	sb.WriteString("{ ")
	for i, it := range items {
		if i > 0 {
			sb.WriteString(", ")
		}
		writeValue(sb, it, level+1)
	}
	sb.WriteString(" }")
}

func writeOption(sb *strings.Builder, opt model.OptionValue, level int) {
	if opt.Item == nil {
		sb.WriteString("{}")
		return
	}
	sb.WriteString("{ ")
	writeValue(sb, opt.Item, level+1)
	sb.WriteString(" }")
}

func writeMap(sb *strings.Builder, m model.MapValue, level int) {
	if len(m.Items) == 0 {
		sb.WriteString("{}")
		return
	}
	sb.WriteString("{ ")
	for i, e := range m.Items {
		if i > 0 {
			sb.WriteString(", ")
		}
		writeValue(sb, e.Key, level+1)
		sb.WriteString(" = ")
		writeValue(sb, e.Value, level+1)
	}
	sb.WriteString(" }")
}

func writePointer(sb *strings.Builder, p model.PointerValue, level int) {
	if p.IsNull() {
		sb.WriteString("null")
		return
	}
	writeStructure(sb, p.Name, p.NameStr, p.Fields, level)
}

func writeStructure(sb *strings.Builder, name uint32, nameStr *string, fields []model.Field, level int) {
	if nameStr != nil {
		writeQuotedString(sb, *nameStr)
	} else {
		fmt.Fprintf(sb, "0x%08x", name)
	}
	sb.WriteString(" {")
	if len(fields) == 0 {
		sb.WriteString("}")
		return
	}
	sb.WriteString("\n")
	for _, f := range fields {
		indent(sb, level+1)
		writeFieldKey(sb, f.Key, f.KeyName)
		sb.WriteString(": ")
		writeTypeAnnotation(sb, f.Value)
		sb.WriteString(" = ")
		writeValue(sb, f.Value, level+1)
		sb.WriteString(",\n")
	}
	indent(sb, level)
	sb.WriteString("}")
}

func writeFieldKey(sb *strings.Builder, key uint32, name *string) {
	if name != nil {
		writeQuotedString(sb, *name)
		return
	}
	fmt.Fprintf(sb, "0x%08x", key)
}
