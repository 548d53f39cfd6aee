package binarycodec

import (
	"bytes"
	"encoding/binary"
	"math"

	bin "github.com/gagliardetto/binary"

	"github.com/RitoShark/ritobin-go/bperr"
	"github.com/RitoShark/ritobin-go/model"
)

type writer struct {
	buf *bytes.Buffer
	enc *bin.Encoder
}

func newWriter() *writer {
	buf := new(bytes.Buffer)
	return &writer{buf: buf, enc: bin.NewBorshEncoder(buf)}
}

func (w *writer) pos() int { return w.buf.Len() }

func (w *writer) writeRaw(b []byte) error {
	_, err := w.buf.Write(b)
	return bperr.WrapIo(err)
}

func (w *writer) writeU8(v uint8) error { return w.writeRaw([]byte{v}) }

func (w *writer) writeU16(v uint16) error {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	return w.writeRaw(b[:])
}

func (w *writer) writeU32(v uint32) error {
	return bperr.WrapIo(w.enc.WriteUint32(v, binary.LittleEndian))
}

func (w *writer) writeU64(v uint64) error {
	return bperr.WrapIo(w.enc.WriteUint64(v, binary.LittleEndian))
}

func (w *writer) writeF32(v float32) error {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], math.Float32bits(v))
	return w.writeRaw(b[:])
}

func (w *writer) writeString(s string) error {
	if len(s) > 65535 {
		return invalidValuef(model.String, "string length %d exceeds 65535", len(s))
	}
	if err := w.writeU16(uint16(len(s))); err != nil {
		return err
	}
	return w.writeRaw([]byte(s))
}

// reserveU32 writes a 4-byte zero placeholder and returns its offset.
func (w *writer) reserveU32() int {
	off := w.pos()
	w.writeU32(0)
	return off
}

// patchU32 overwrites the placeholder at off with v, mutating the buffer's
// already-written bytes directly. It fetches the buffer's current bytes on
// every call, so off stays valid however much the buffer has grown since
// reserveU32.
func (w *writer) patchU32(off int, v uint32) {
	b := w.buf.Bytes()
	binary.LittleEndian.PutUint32(b[off:off+4], v)
}

// WriteBinary encodes a Document into its BPF byte form.
func WriteBinary(doc *model.Document) ([]byte, error) {
	w := newWriter()
	if err := w.writeDocument(doc); err != nil {
		return nil, err
	}
	return w.buf.Bytes(), nil
}

func sectionString(doc *model.Document, name string) (string, error) {
	v, ok := doc.Get(name)
	if !ok {
		return "", bperr.NewInvalidValue(0, "missing required section "+name)
	}
	s, ok := v.(model.StringValue)
	if !ok {
		return "", bperr.NewInvalidValue(0, "section "+name+" must be a string")
	}
	return string(s), nil
}

func sectionU32(doc *model.Document, name string) (uint32, error) {
	v, ok := doc.Get(name)
	if !ok {
		return 0, bperr.NewInvalidValue(0, "missing required section "+name)
	}
	u, ok := v.(model.U32Value)
	if !ok {
		return 0, bperr.NewInvalidValue(0, "section "+name+" must be a u32")
	}
	return uint32(u), nil
}

func sectionMap(doc *model.Document, name string) (model.MapValue, error) {
	v, ok := doc.Get(name)
	if !ok {
		return model.MapValue{}, nil
	}
	m, ok := v.(model.MapValue)
	if !ok {
		return model.MapValue{}, bperr.NewInvalidValue(0, "section "+name+" must be a map")
	}
	return m, nil
}

func (w *writer) writeDocument(doc *model.Document) error {
	docType, err := sectionString(doc, "type")
	if err != nil {
		return err
	}

	switch docType {
	case model.DocTypePtch:
		if err := w.writeRaw([]byte("PTCH")); err != nil {
			return err
		}
		// Open question per the format's design notes: the 8-byte legacy
		// field's meaning is unclear; write (1, 0) as two little-endian
		// u32s, i.e. a plain LE u64(1).
		if err := w.writeU64(1); err != nil {
			return err
		}
		if err := w.writeRaw([]byte("PROP")); err != nil {
			return err
		}
	case model.DocTypeProp:
		if err := w.writeRaw([]byte("PROP")); err != nil {
			return err
		}
	default:
		return bperr.NewInvalidValue(0, "section type must be PROP or PTCH")
	}

	version, err := sectionU32(doc, "version")
	if err != nil {
		return err
	}
	if err := w.writeU32(version); err != nil {
		return err
	}

	if version >= 2 {
		linked, _ := doc.Get("linked")
		var items []model.Value
		if lv, ok := linked.(model.ListValue); ok {
			items = lv.Items
		}
		if err := w.writeU32(uint32(len(items))); err != nil {
			return err
		}
		for _, it := range items {
			s, ok := it.(model.StringValue)
			if !ok {
				return invalidValuef(model.String, "linked entry must be a string")
			}
			if err := w.writeString(string(s)); err != nil {
				return err
			}
		}
	}

	entries, err := sectionMap(doc, "entries")
	if err != nil {
		return err
	}

	if err := w.writeU32(uint32(len(entries.Items))); err != nil {
		return err
	}
	embeds := make([]model.EmbedValue, len(entries.Items))
	for i, e := range entries.Items {
		embed, ok := e.Value.(model.EmbedValue)
		if !ok {
			return invalidValuef(model.Embed, "entries map value must be an embed")
		}
		embeds[i] = embed
		if err := w.writeU32(embed.Name); err != nil {
			return err
		}
	}

	for i, e := range entries.Items {
		key, ok := e.Key.(model.HashValue)
		if !ok {
			return invalidValuef(model.Hash, "entries map key must be a hash")
		}
		sizeOff := w.reserveU32()
		start := w.pos()
		if err := w.writeU32(key.Value); err != nil {
			return err
		}
		if err := w.writeU16(uint16(len(embeds[i].Fields))); err != nil {
			return err
		}
		if err := w.writeFields(embeds[i].Fields); err != nil {
			return err
		}
		w.patchU32(sizeOff, uint32(w.pos()-start))
	}

	if docType == model.DocTypePtch && version >= 3 {
		if err := w.writePatches(doc); err != nil {
			return err
		}
	}

	return nil
}

func (w *writer) writePatches(doc *model.Document) error {
	patches, err := sectionMap(doc, "patches")
	if err != nil {
		return err
	}
	if err := w.writeU32(uint32(len(patches.Items))); err != nil {
		return err
	}
	for _, p := range patches.Items {
		key, ok := p.Key.(model.HashValue)
		if !ok {
			return invalidValuef(model.Hash, "patches map key must be a hash")
		}
		embed, ok := p.Value.(model.EmbedValue)
		if !ok || len(embed.Fields) != 2 {
			return invalidValuef(model.Embed, "patches map value must be a two-field embed")
		}
		pathField := embed.Fields[0]
		valueField := embed.Fields[1]
		path, ok := pathField.Value.(model.StringValue)
		if !ok {
			return invalidValuef(model.String, "patch path field must be a string")
		}

		if err := w.writeU32(key.Value); err != nil {
			return err
		}
		lengthOff := w.reserveU32()
		start := w.pos()
		if err := w.writeU8(byte(valueField.Type)); err != nil {
			return err
		}
		if err := w.writeString(string(path)); err != nil {
			return err
		}
		if err := w.writeValue(valueField.Value); err != nil {
			return err
		}
		w.patchU32(lengthOff, uint32(w.pos()-start))
	}
	return nil
}

func (w *writer) writeFields(fields []model.Field) error {
	for _, f := range fields {
		if err := w.writeU32(f.Key); err != nil {
			return err
		}
		if err := w.writeU8(byte(f.Type)); err != nil {
			return err
		}
		if err := w.writeValue(f.Value); err != nil {
			return err
		}
	}
	return nil
}

func (w *writer) writeValue(v model.Value) error {
	switch val := v.(type) {
	case model.NoneValue:
		return nil
	case model.BoolValue:
		if val {
			return w.writeU8(1)
		}
		return w.writeU8(0)
	case model.FlagValue:
		if val {
			return w.writeU8(1)
		}
		return w.writeU8(0)
	case model.I8Value:
		return w.writeU8(uint8(val))
	case model.U8Value:
		return w.writeU8(uint8(val))
	case model.I16Value:
		return w.writeU16(uint16(val))
	case model.U16Value:
		return w.writeU16(uint16(val))
	case model.I32Value:
		return w.writeU32(uint32(val))
	case model.U32Value:
		return w.writeU32(uint32(val))
	case model.I64Value:
		return w.writeU64(uint64(val))
	case model.U64Value:
		return w.writeU64(uint64(val))
	case model.F32Value:
		return w.writeF32(float32(val))
	case model.Vec2Value:
		for _, f := range val {
			if err := w.writeF32(f); err != nil {
				return err
			}
		}
		return nil
	case model.Vec3Value:
		for _, f := range val {
			if err := w.writeF32(f); err != nil {
				return err
			}
		}
		return nil
	case model.Vec4Value:
		for _, f := range val {
			if err := w.writeF32(f); err != nil {
				return err
			}
		}
		return nil
	case model.Mtx44Value:
		for _, f := range val {
			if err := w.writeF32(f); err != nil {
				return err
			}
		}
		return nil
	case model.RgbaValue:
		return w.writeRaw(val[:])
	case model.StringValue:
		return w.writeString(string(val))
	case model.HashValue:
		return w.writeU32(val.Value)
	case model.FileValue:
		return w.writeU64(val.Value)
	case model.LinkValue:
		return w.writeU32(val.Value)
	case model.ListValue:
		return w.writeListLike(val.ElemType, val.Items)
	case model.List2Value:
		return w.writeListLike(val.ElemType, val.Items)
	case model.OptionValue:
		return w.writeOption(val)
	case model.MapValue:
		return w.writeMap(val)
	case model.PointerValue:
		return w.writePointer(val)
	case model.EmbedValue:
		return w.writeEmbed(val)
	default:
		return bperr.NewInvalidValue(0, "unsupported value type in writer")
	}
}

func (w *writer) writeListLike(elemType model.Type, items []model.Value) error {
	if err := rejectContainer(elemType); err != nil {
		return err
	}
	if err := w.writeU8(byte(elemType)); err != nil {
		return err
	}
	sizeOff := w.reserveU32()
	start := w.pos()
	if err := w.writeU32(uint32(len(items))); err != nil {
		return err
	}
	for _, it := range items {
		if err := w.writeValue(it); err != nil {
			return err
		}
	}
	w.patchU32(sizeOff, uint32(w.pos()-start))
	return nil
}

func (w *writer) writeOption(opt model.OptionValue) error {
	if err := rejectContainer(opt.ElemType); err != nil {
		return err
	}
	if err := w.writeU8(byte(opt.ElemType)); err != nil {
		return err
	}
	if opt.Item == nil {
		return w.writeU8(0)
	}
	if err := w.writeU8(1); err != nil {
		return err
	}
	return w.writeValue(opt.Item)
}

func (w *writer) writeMap(m model.MapValue) error {
	if err := requirePrimitive(m.KeyType); err != nil {
		return err
	}
	if err := rejectContainer(m.ValueType); err != nil {
		return err
	}
	if err := w.writeU8(byte(m.KeyType)); err != nil {
		return err
	}
	if err := w.writeU8(byte(m.ValueType)); err != nil {
		return err
	}
	sizeOff := w.reserveU32()
	start := w.pos()
	if err := w.writeU32(uint32(len(m.Items))); err != nil {
		return err
	}
	for _, e := range m.Items {
		if err := w.writeValue(e.Key); err != nil {
			return err
		}
		if err := w.writeValue(e.Value); err != nil {
			return err
		}
	}
	w.patchU32(sizeOff, uint32(w.pos()-start))
	return nil
}

func (w *writer) writePointer(p model.PointerValue) error {
	if err := w.writeU32(p.Name); err != nil {
		return err
	}
	if p.Name == 0 {
		return nil
	}
	sizeOff := w.reserveU32()
	start := w.pos()
	if err := w.writeU16(uint16(len(p.Fields))); err != nil {
		return err
	}
	if err := w.writeFields(p.Fields); err != nil {
		return err
	}
	w.patchU32(sizeOff, uint32(w.pos()-start))
	return nil
}

func (w *writer) writeEmbed(e model.EmbedValue) error {
	if err := w.writeU32(e.Name); err != nil {
		return err
	}
	sizeOff := w.reserveU32()
	start := w.pos()
	if err := w.writeU16(uint16(len(e.Fields))); err != nil {
		return err
	}
	if err := w.writeFields(e.Fields); err != nil {
		return err
	}
	w.patchU32(sizeOff, uint32(w.pos()-start))
	return nil
}
