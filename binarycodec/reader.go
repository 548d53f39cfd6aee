package binarycodec

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"
	"strings"

	"github.com/RitoShark/ritobin-go/bperr"
	"github.com/RitoShark/ritobin-go/digest"
	"github.com/RitoShark/ritobin-go/model"
)

type reader struct {
	r *bytes.Reader
	n int64
}

// ReadBinary decodes a BPF byte stream into a Document.
func ReadBinary(data []byte) (*model.Document, error) {
	r := &reader{r: bytes.NewReader(data), n: int64(len(data))}
	return r.readDocument()
}

func (r *reader) pos() int64 {
	p, _ := r.r.Seek(0, io.SeekCurrent)
	return p
}

func (r *reader) readN(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(r.r, buf); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, bperr.NewUnexpectedEof(int(r.pos()))
		}
		return nil, bperr.WrapIo(err)
	}
	return buf, nil
}

func (r *reader) readU8() (uint8, error) {
	b, err := r.readN(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *reader) readU16() (uint16, error) {
	b, err := r.readN(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (r *reader) readU32() (uint32, error) {
	b, err := r.readN(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (r *reader) readU64() (uint64, error) {
	b, err := r.readN(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (r *reader) readF32() (float32, error) {
	v, err := r.readU32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

func (r *reader) readString() (string, error) {
	ln, err := r.readU16()
	if err != nil {
		return "", err
	}
	b, err := r.readN(int(ln))
	if err != nil {
		return "", err
	}
	return strings.ToValidUTF8(string(b), "�"), nil
}

func (r *reader) readType() (model.Type, error) {
	b, err := r.readU8()
	if err != nil {
		return 0, err
	}
	t := model.Type(b)
	if !t.Valid() {
		return 0, unknownType(t)
	}
	return t, nil
}

// seekForward moves the cursor to target, which must not be before the
// current position (the size region would have to move backwards) and must
// not be past the end of the buffer.
func (r *reader) seekForward(target int64) error {
	cur := r.pos()
	if target < cur {
		return bperr.NewInvalidValue(0, "size region ends before its declared children were fully read")
	}
	if target > r.n {
		return bperr.NewUnexpectedEof(int(target))
	}
	_, err := r.r.Seek(target, io.SeekStart)
	return bperr.WrapIo(err)
}

func (r *reader) readDocument() (*model.Document, error) {
	magic, err := r.readN(4)
	if err != nil {
		return nil, err
	}

	var docType string
	switch string(magic) {
	case "PTCH":
		docType = model.DocTypePtch
		if _, err := r.readN(8); err != nil { // legacy 8-byte field, opaque
			return nil, err
		}
		magic2, err := r.readN(4)
		if err != nil {
			return nil, err
		}
		if string(magic2) != "PROP" {
			return nil, bperr.NewInvalidMagic("expected PROP immediately after PTCH header")
		}
	case "PROP":
		docType = model.DocTypeProp
	default:
		return nil, bperr.NewInvalidMagic("expected PROP or PTCH magic")
	}

	doc := &model.Document{}
	doc.Set("type", model.StringValue(docType))

	version, err := r.readU32()
	if err != nil {
		return nil, err
	}
	doc.Set("version", model.U32Value(version))

	if version >= 2 {
		linkedCount, err := r.readU32()
		if err != nil {
			return nil, err
		}
		items := make([]model.Value, 0, linkedCount)
		for i := uint32(0); i < linkedCount; i++ {
			s, err := r.readString()
			if err != nil {
				return nil, err
			}
			items = append(items, model.StringValue(s))
		}
		doc.Set("linked", model.ListValue{ElemType: model.String, Items: items})
	}

	entryCount, err := r.readU32()
	if err != nil {
		return nil, err
	}
	entryNames := make([]uint32, entryCount)
	for i := range entryNames {
		v, err := r.readU32()
		if err != nil {
			return nil, err
		}
		entryNames[i] = v
	}

	entries := model.MapValue{KeyType: model.Hash, ValueType: model.Embed}
	for i := uint32(0); i < entryCount; i++ {
		entryLength, err := r.readU32()
		if err != nil {
			return nil, err
		}
		start := r.pos()
		target := start + int64(entryLength)

		entryKey, err := r.readU32()
		if err != nil {
			return nil, err
		}
		fieldCount, err := r.readU16()
		if err != nil {
			return nil, err
		}
		fields, err := r.readFields(int(fieldCount))
		if err != nil {
			return nil, err
		}
		if err := r.seekForward(target); err != nil {
			return nil, err
		}

		entries.Items = append(entries.Items, model.MapEntry{
			Key:   model.HashValue{Value: entryKey},
			Value: model.EmbedValue{Name: entryNames[i], Fields: fields},
		})
	}
	doc.Set("entries", entries)

	if docType == model.DocTypePtch {
		patches, err := r.readPatches()
		if err != nil {
			return nil, err
		}
		doc.Set("patches", patches)
	}

	return doc, nil
}

var (
	patchNameDigest = digest.FNV1a("patch")
	patchPathKey    = digest.FNV1a("path")
	patchValueKey   = digest.FNV1a("value")
)

func (r *reader) readPatches() (model.MapValue, error) {
	patchCount, err := r.readU32()
	if err != nil {
		return model.MapValue{}, err
	}
	patches := model.MapValue{KeyType: model.Hash, ValueType: model.Embed}
	for i := uint32(0); i < patchCount; i++ {
		keyHash, err := r.readU32()
		if err != nil {
			return model.MapValue{}, err
		}
		length, err := r.readU32()
		if err != nil {
			return model.MapValue{}, err
		}
		start := r.pos()
		target := start + int64(length)

		valueType, err := r.readType()
		if err != nil {
			return model.MapValue{}, err
		}
		path, err := r.readString()
		if err != nil {
			return model.MapValue{}, err
		}
		val, err := r.readValue(valueType)
		if err != nil {
			return model.MapValue{}, err
		}
		if err := r.seekForward(target); err != nil {
			return model.MapValue{}, err
		}

		embed := model.EmbedValue{
			Name: patchNameDigest,
			Fields: []model.Field{
				{Key: patchPathKey, Type: model.String, Value: model.StringValue(path)},
				{Key: patchValueKey, Type: valueType, Value: val},
			},
		}
		patches.Items = append(patches.Items, model.MapEntry{
			Key:   model.HashValue{Value: keyHash},
			Value: embed,
		})
	}
	return patches, nil
}

func (r *reader) readFields(count int) ([]model.Field, error) {
	fields := make([]model.Field, 0, count)
	for i := 0; i < count; i++ {
		key, err := r.readU32()
		if err != nil {
			return nil, err
		}
		typ, err := r.readType()
		if err != nil {
			return nil, err
		}
		val, err := r.readValue(typ)
		if err != nil {
			return nil, err
		}
		fields = append(fields, model.Field{Key: key, Type: typ, Value: val})
	}
	return fields, nil
}

func (r *reader) readValue(tag model.Type) (model.Value, error) {
	switch tag {
	case model.None:
		return model.NoneValue{}, nil
	case model.Bool:
		v, err := r.readU8()
		return model.BoolValue(v != 0), err
	case model.Flag:
		v, err := r.readU8()
		return model.FlagValue(v != 0), err
	case model.I8:
		v, err := r.readU8()
		return model.I8Value(int8(v)), err
	case model.U8:
		v, err := r.readU8()
		return model.U8Value(v), err
	case model.I16:
		v, err := r.readU16()
		return model.I16Value(int16(v)), err
	case model.U16:
		v, err := r.readU16()
		return model.U16Value(v), err
	case model.I32:
		v, err := r.readU32()
		return model.I32Value(int32(v)), err
	case model.U32:
		v, err := r.readU32()
		return model.U32Value(v), err
	case model.I64:
		v, err := r.readU64()
		return model.I64Value(int64(v)), err
	case model.U64:
		v, err := r.readU64()
		return model.U64Value(v), err
	case model.F32:
		v, err := r.readF32()
		return model.F32Value(v), err
	case model.Vec2:
		var v model.Vec2Value
		for i := range v {
			f, err := r.readF32()
			if err != nil {
				return nil, err
			}
			v[i] = f
		}
		return v, nil
	case model.Vec3:
		var v model.Vec3Value
		for i := range v {
			f, err := r.readF32()
			if err != nil {
				return nil, err
			}
			v[i] = f
		}
		return v, nil
	case model.Vec4:
		var v model.Vec4Value
		for i := range v {
			f, err := r.readF32()
			if err != nil {
				return nil, err
			}
			v[i] = f
		}
		return v, nil
	case model.Mtx44:
		var v model.Mtx44Value
		for i := range v {
			f, err := r.readF32()
			if err != nil {
				return nil, err
			}
			v[i] = f
		}
		return v, nil
	case model.Rgba:
		b, err := r.readN(4)
		if err != nil {
			return nil, err
		}
		return model.RgbaValue{b[0], b[1], b[2], b[3]}, nil
	case model.String:
		s, err := r.readString()
		return model.StringValue(s), err
	case model.Hash:
		v, err := r.readU32()
		return model.HashValue{Value: v}, err
	case model.File:
		v, err := r.readU64()
		return model.FileValue{Value: v}, err
	case model.Link:
		v, err := r.readU32()
		return model.LinkValue{Value: v}, err
	case model.List, model.List2:
		return r.readListLike(tag)
	case model.Option:
		return r.readOption()
	case model.Map:
		return r.readMap()
	case model.Pointer:
		return r.readPointer()
	case model.Embed:
		return r.readEmbed()
	default:
		return nil, unknownType(tag)
	}
}

func (r *reader) readListLike(tag model.Type) (model.Value, error) {
	elemTag, err := r.readType()
	if err != nil {
		return nil, err
	}
	if err := rejectContainer(elemTag); err != nil {
		return nil, err
	}
	size, err := r.readU32()
	if err != nil {
		return nil, err
	}
	start := r.pos()
	target := start + int64(size)

	count, err := r.readU32()
	if err != nil {
		return nil, err
	}
	items := make([]model.Value, 0, count)
	for i := uint32(0); i < count; i++ {
		v, err := r.readValue(elemTag)
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	if err := r.seekForward(target); err != nil {
		return nil, err
	}
	if tag == model.List2 {
		return model.List2Value{ElemType: elemTag, Items: items}, nil
	}
	return model.ListValue{ElemType: elemTag, Items: items}, nil
}

func (r *reader) readOption() (model.Value, error) {
	elemTag, err := r.readType()
	if err != nil {
		return nil, err
	}
	if err := rejectContainer(elemTag); err != nil {
		return nil, err
	}
	present, err := r.readU8()
	if err != nil {
		return nil, err
	}
	opt := model.OptionValue{ElemType: elemTag}
	if present != 0 {
		v, err := r.readValue(elemTag)
		if err != nil {
			return nil, err
		}
		opt.Item = v
	}
	return opt, nil
}

func (r *reader) readMap() (model.Value, error) {
	keyTag, err := r.readType()
	if err != nil {
		return nil, err
	}
	if err := requirePrimitive(keyTag); err != nil {
		return nil, err
	}
	valTag, err := r.readType()
	if err != nil {
		return nil, err
	}
	if err := rejectContainer(valTag); err != nil {
		return nil, err
	}
	size, err := r.readU32()
	if err != nil {
		return nil, err
	}
	start := r.pos()
	target := start + int64(size)

	count, err := r.readU32()
	if err != nil {
		return nil, err
	}
	items := make([]model.MapEntry, 0, count)
	for i := uint32(0); i < count; i++ {
		k, err := r.readValue(keyTag)
		if err != nil {
			return nil, err
		}
		v, err := r.readValue(valTag)
		if err != nil {
			return nil, err
		}
		items = append(items, model.MapEntry{Key: k, Value: v})
	}
	if err := r.seekForward(target); err != nil {
		return nil, err
	}
	return model.MapValue{KeyType: keyTag, ValueType: valTag, Items: items}, nil
}

func (r *reader) readPointer() (model.Value, error) {
	name, err := r.readU32()
	if err != nil {
		return nil, err
	}
	if name == 0 {
		return model.PointerValue{Name: 0}, nil
	}
	size, err := r.readU32()
	if err != nil {
		return nil, err
	}
	start := r.pos()
	target := start + int64(size)

	fieldCount, err := r.readU16()
	if err != nil {
		return nil, err
	}
	fields, err := r.readFields(int(fieldCount))
	if err != nil {
		return nil, err
	}
	if err := r.seekForward(target); err != nil {
		return nil, err
	}
	return model.PointerValue{Name: name, Fields: fields}, nil
}

func (r *reader) readEmbed() (model.Value, error) {
	name, err := r.readU32()
	if err != nil {
		return nil, err
	}
	size, err := r.readU32()
	if err != nil {
		return nil, err
	}
	start := r.pos()
	target := start + int64(size)

	fieldCount, err := r.readU16()
	if err != nil {
		return nil, err
	}
	fields, err := r.readFields(int(fieldCount))
	if err != nil {
		return nil, err
	}
	if err := r.seekForward(target); err != nil {
		return nil, err
	}
	return model.EmbedValue{Name: name, Fields: fields}, nil
}
