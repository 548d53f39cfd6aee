package jsoncodec

import (
	jsoniter "github.com/json-iterator/go"

	"github.com/RitoShark/ritobin-go/bperr"
	"github.com/RitoShark/ritobin-go/digest"
	"github.com/RitoShark/ritobin-go/model"
)

// ReadJson parses the JSON mirror back into a Document. It walks the
// input with jsoniter's callback-based object iterator rather than
// unmarshaling into a map, since encoding/json's map route loses the key
// order that a Document's section order depends on.
func ReadJson(s string) (*model.Document, error) {
	iter := jsoniter.ParseString(jsoniter.ConfigDefault, s)
	doc := &model.Document{}
	var firstErr error
	iter.ReadObjectCB(func(it *jsoniter.Iterator, field string) bool {
		v, err := readSection(it)
		if err != nil {
			firstErr = err
			return false
		}
		doc.Set(field, v)
		return true
	})
	if firstErr != nil {
		return nil, firstErr
	}
	if iter.Error != nil && iter.Error.Error() != "EOF" {
		return nil, bperr.NewParseError(0, iter.Error.Error())
	}
	return doc, nil
}

func readSection(it *jsoniter.Iterator) (model.Value, error) {
	var typ model.Type
	var typOk bool
	var value model.Value
	var innerErr error
	it.ReadObjectCB(func(it *jsoniter.Iterator, field string) bool {
		switch field {
		case "type":
			name := it.ReadString()
			t, ok := model.TypeByName(name)
			if !ok {
				innerErr = bperr.NewParseError(0, "unknown type name "+name)
				return false
			}
			typ = t
			typOk = true
		case "value":
			if !typOk {
				innerErr = bperr.NewParseError(0, `"value" must follow "type"`)
				return false
			}
			v, err := readValue(it, typ)
			if err != nil {
				innerErr = err
				return false
			}
			value = v
		default:
			it.Skip()
		}
		return true
	})
	if innerErr != nil {
		return nil, innerErr
	}
	if !typOk {
		return nil, bperr.NewParseError(0, "section missing \"type\"")
	}
	return value, nil
}

func readValue(it *jsoniter.Iterator, typ model.Type) (model.Value, error) {
	switch typ {
	case model.None:
		it.ReadNil()
		return model.NoneValue{}, nil
	case model.Bool:
		return model.BoolValue(it.ReadBool()), nil
	case model.Flag:
		return model.FlagValue(it.ReadBool()), nil
	case model.I8:
		return model.I8Value(it.ReadInt8()), nil
	case model.U8:
		return model.U8Value(it.ReadUint8()), nil
	case model.I16:
		return model.I16Value(it.ReadInt16()), nil
	case model.U16:
		return model.U16Value(it.ReadUint16()), nil
	case model.I32:
		return model.I32Value(it.ReadInt32()), nil
	case model.U32:
		return model.U32Value(it.ReadUint32()), nil
	case model.I64:
		return model.I64Value(it.ReadInt64()), nil
	case model.U64:
		return model.U64Value(it.ReadUint64()), nil
	case model.F32:
		return model.F32Value(it.ReadFloat32()), nil
	case model.Vec2:
		var out model.Vec2Value
		readFloatArray(it, out[:])
		return out, nil
	case model.Vec3:
		var out model.Vec3Value
		readFloatArray(it, out[:])
		return out, nil
	case model.Vec4:
		var out model.Vec4Value
		readFloatArray(it, out[:])
		return out, nil
	case model.Mtx44:
		var out model.Mtx44Value
		readFloatArray(it, out[:])
		return out, nil
	case model.Rgba:
		var out model.RgbaValue
		i := 0
		it.ReadArrayCB(func(it *jsoniter.Iterator) bool {
			if i < len(out) {
				out[i] = byte(it.ReadUint8())
				i++
			} else {
				it.Skip()
			}
			return true
		})
		return out, nil
	case model.String:
		return model.StringValue(it.ReadString()), nil
	case model.Hash:
		v, name := readDigestOrName32(it, digest.FNV1a)
		return model.HashValue{Value: v, Name: name}, nil
	case model.Link:
		v, name := readDigestOrName32(it, digest.FNV1a)
		return model.LinkValue{Value: v, Name: name}, nil
	case model.File:
		v, name := readDigestOrName64(it, digest.XXH64)
		return model.FileValue{Value: v, Name: name}, nil
	case model.List:
		elem, items, err := readListLike(it)
		if err != nil {
			return nil, err
		}
		return model.ListValue{ElemType: elem, Items: items}, nil
	case model.List2:
		elem, items, err := readListLike(it)
		if err != nil {
			return nil, err
		}
		return model.List2Value{ElemType: elem, Items: items}, nil
	case model.Option:
		return readOption(it)
	case model.Map:
		return readMap(it)
	case model.Pointer:
		name, nameStr, fields, err := readStructure(it)
		if err != nil {
			return nil, err
		}
		return model.PointerValue{Name: name, NameStr: nameStr, Fields: fields}, nil
	case model.Embed:
		name, nameStr, fields, err := readStructure(it)
		if err != nil {
			return nil, err
		}
		return model.EmbedValue{Name: name, NameStr: nameStr, Fields: fields}, nil
	default:
		return nil, bperr.NewUnknownType(byte(typ))
	}
}

func readFloatArray(it *jsoniter.Iterator, out []float32) {
	i := 0
	it.ReadArrayCB(func(it *jsoniter.Iterator) bool {
		if i < len(out) {
			out[i] = it.ReadFloat32()
			i++
		} else {
			it.Skip()
		}
		return true
	})
}

func readDigestOrName32(it *jsoniter.Iterator, hash func(string) uint32) (uint32, *string) {
	if it.WhatIsNext() == jsoniter.StringValue {
		name := it.ReadString()
		return hash(name), &name
	}
	return it.ReadUint32(), nil
}

func readDigestOrName64(it *jsoniter.Iterator, hash func(string) uint64) (uint64, *string) {
	if it.WhatIsNext() == jsoniter.StringValue {
		name := it.ReadString()
		return hash(name), &name
	}
	return it.ReadUint64(), nil
}

func readListLike(it *jsoniter.Iterator) (model.Type, []model.Value, error) {
	var elem model.Type
	var elemOk bool
	var items []model.Value
	var innerErr error
	it.ReadObjectCB(func(it *jsoniter.Iterator, field string) bool {
		switch field {
		case "valueType":
			name := it.ReadString()
			t, ok := model.TypeByName(name)
			if !ok {
				innerErr = bperr.NewParseError(0, "unknown type name "+name)
				return false
			}
			elem = t
			elemOk = true
		case "items":
			if !elemOk {
				innerErr = bperr.NewParseError(0, `"items" must follow "valueType"`)
				return false
			}
			it.ReadArrayCB(func(it *jsoniter.Iterator) bool {
				v, err := readValue(it, elem)
				if err != nil {
					innerErr = err
					return false
				}
				items = append(items, v)
				return true
			})
		default:
			it.Skip()
		}
		return true
	})
	return elem, items, innerErr
}

func readOption(it *jsoniter.Iterator) (model.Value, error) {
	elem, items, err := readListLike(it)
	if err != nil {
		return nil, err
	}
	opt := model.OptionValue{ElemType: elem}
	if len(items) > 0 {
		opt.Item = items[0]
	}
	return opt, nil
}

func readMap(it *jsoniter.Iterator) (model.Value, error) {
	var keyType, valueType model.Type
	var keyOk, valOk bool
	var items []model.MapEntry
	var innerErr error
	it.ReadObjectCB(func(it *jsoniter.Iterator, field string) bool {
		switch field {
		case "keyType":
			name := it.ReadString()
			t, ok := model.TypeByName(name)
			if !ok {
				innerErr = bperr.NewParseError(0, "unknown type name "+name)
				return false
			}
			keyType = t
			keyOk = true
		case "valueType":
			name := it.ReadString()
			t, ok := model.TypeByName(name)
			if !ok {
				innerErr = bperr.NewParseError(0, "unknown type name "+name)
				return false
			}
			valueType = t
			valOk = true
		case "items":
			if !keyOk || !valOk {
				innerErr = bperr.NewParseError(0, `"items" must follow "keyType"/"valueType"`)
				return false
			}
			it.ReadArrayCB(func(it *jsoniter.Iterator) bool {
				entry, err := readMapEntry(it, keyType, valueType)
				if err != nil {
					innerErr = err
					return false
				}
				items = append(items, entry)
				return true
			})
		default:
			it.Skip()
		}
		return true
	})
	if innerErr != nil {
		return nil, innerErr
	}
	return model.MapValue{KeyType: keyType, ValueType: valueType, Items: items}, nil
}

func readMapEntry(it *jsoniter.Iterator, keyType, valueType model.Type) (model.MapEntry, error) {
	var entry model.MapEntry
	var innerErr error
	it.ReadObjectCB(func(it *jsoniter.Iterator, field string) bool {
		switch field {
		case "key":
			v, err := readValue(it, keyType)
			if err != nil {
				innerErr = err
				return false
			}
			entry.Key = v
		case "value":
			v, err := readValue(it, valueType)
			if err != nil {
				innerErr = err
				return false
			}
			entry.Value = v
		default:
			it.Skip()
		}
		return true
	})
	return entry, innerErr
}

func readStructure(it *jsoniter.Iterator) (uint32, *string, []model.Field, error) {
	var name uint32
	var nameStr *string
	var nameOk bool
	var fields []model.Field
	var innerErr error
	it.ReadObjectCB(func(it *jsoniter.Iterator, field string) bool {
		switch field {
		case "name":
			name, nameStr = readDigestOrName32(it, digest.FNV1a)
			nameOk = true
		case "items":
			if !nameOk {
				innerErr = bperr.NewParseError(0, `"items" must follow "name"`)
				return false
			}
			it.ReadArrayCB(func(it *jsoniter.Iterator) bool {
				f, err := readFieldEntry(it)
				if err != nil {
					innerErr = err
					return false
				}
				fields = append(fields, f)
				return true
			})
		default:
			it.Skip()
		}
		return true
	})
	return name, nameStr, fields, innerErr
}

func readFieldEntry(it *jsoniter.Iterator) (model.Field, error) {
	var f model.Field
	var typ model.Type
	var typOk bool
	var innerErr error
	it.ReadObjectCB(func(it *jsoniter.Iterator, field string) bool {
		switch field {
		case "key":
			f.Key, f.KeyName = readDigestOrName32(it, digest.FNV1a)
		case "type":
			name := it.ReadString()
			t, ok := model.TypeByName(name)
			if !ok {
				innerErr = bperr.NewParseError(0, "unknown type name "+name)
				return false
			}
			typ = t
			typOk = true
			f.Type = t
		case "value":
			if !typOk {
				innerErr = bperr.NewParseError(0, `"value" must follow "type"`)
				return false
			}
			v, err := readValue(it, typ)
			if err != nil {
				innerErr = err
				return false
			}
			f.Value = v
		default:
			it.Skip()
		}
		return true
	})
	return f, innerErr
}
