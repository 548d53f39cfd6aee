// Package unhash recursively walks a Document and fills in the names of
// Hash/Link/File/Pointer/Embed/Field slots whose digest is known to a
// Dictionary, without ever overwriting a name that is already set or
// touching a digest value.
package unhash

import (
	"github.com/RitoShark/ritobin-go/dictcodec"
	"github.com/RitoShark/ritobin-go/model"
)

// Apply walks doc in place, naming every empty-name digest slot it can
// resolve against dict. Running Apply twice on the same document is a
// no-op the second time, since a filled name slot is never revisited.
func Apply(doc *model.Document, dict *dictcodec.Dictionary) {
	for i := range doc.Sections {
		doc.Sections[i].Value = applyValue(doc.Sections[i].Value, dict)
	}
}

func applyValue(v model.Value, dict *dictcodec.Dictionary) model.Value {
	switch val := v.(type) {
	case model.HashValue:
		return applyHash(val, dict)
	case model.LinkValue:
		val.Value, val.Name = nameFNV(val.Value, val.Name, dict)
		return val
	case model.FileValue:
		if val.Name == nil {
			if name, ok := dict.XXH[val.Value]; ok {
				val.Name = &name
			}
		}
		return val
	case model.ListValue:
		applyItems(val.Items, dict)
		return val
	case model.List2Value:
		applyItems(val.Items, dict)
		return val
	case model.OptionValue:
		if val.Item != nil {
			val.Item = applyValue(val.Item, dict)
		}
		return val
	case model.MapValue:
		for i := range val.Items {
			val.Items[i].Key = applyValue(val.Items[i].Key, dict)
			val.Items[i].Value = applyValue(val.Items[i].Value, dict)
		}
		return val
	case model.PointerValue:
		val.Name, val.NameStr = nameFNV(val.Name, val.NameStr, dict)
		applyFields(val.Fields, dict)
		return val
	case model.EmbedValue:
		val.Name, val.NameStr = nameFNV(val.Name, val.NameStr, dict)
		applyFields(val.Fields, dict)
		return val
	default:
		return v
	}
}

func applyHash(val model.HashValue, dict *dictcodec.Dictionary) model.Value {
	val.Value, val.Name = nameFNV(val.Value, val.Name, dict)
	return val
}

func applyItems(items []model.Value, dict *dictcodec.Dictionary) {
	for i := range items {
		items[i] = applyValue(items[i], dict)
	}
}

func applyFields(fields []model.Field, dict *dictcodec.Dictionary) {
	for i := range fields {
		fields[i].Key, fields[i].KeyName = nameFNV(fields[i].Key, fields[i].KeyName, dict)
		fields[i].Value = applyValue(fields[i].Value, dict)
	}
}

func nameFNV(digest uint32, name *string, dict *dictcodec.Dictionary) (uint32, *string) {
	if name == nil {
		if n, ok := dict.FNV[digest]; ok {
			name = &n
		}
	}
	return digest, name
}
