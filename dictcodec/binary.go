// Package dictcodec reads and writes digest→name dictionaries in both
// their compact binary form ("HHSH") and their line-oriented text form.
package dictcodec

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/filecoin-project/go-leb128"

	"github.com/RitoShark/ritobin-go/bperr"
)

const (
	binaryMagic   = "HHSH"
	binaryVersion = 1
)

// Dictionary holds the two digest→name tables: FNV-1a-32 for Hash/Link
// names, and XXH64 for File names.
type Dictionary struct {
	FNV map[uint32]string
	XXH map[uint64]string
}

// NewDictionary returns an empty, ready-to-use Dictionary.
func NewDictionary() *Dictionary {
	return &Dictionary{FNV: map[uint32]string{}, XXH: map[uint64]string{}}
}

// LoadBinary parses the "HHSH" binary dictionary format.
func LoadBinary(data []byte) (*Dictionary, error) {
	r := bytes.NewReader(data)

	magic := make([]byte, 4)
	if _, err := readFull(r, magic); err != nil {
		return nil, err
	}
	if string(magic) != binaryMagic {
		return nil, bperr.NewInvalidMagic("dictionary magic is not HHSH")
	}

	version, err := readI32(r)
	if err != nil {
		return nil, err
	}
	if version != binaryVersion {
		return nil, bperr.NewBadDictionaryVersion(version)
	}

	fnvCount, err := readI32(r)
	if err != nil {
		return nil, err
	}
	xxhCount, err := readI32(r)
	if err != nil {
		return nil, err
	}

	dict := NewDictionary()
	for i := int32(0); i < fnvCount; i++ {
		hash, err := readU32(r)
		if err != nil {
			return nil, err
		}
		name, err := readLebString(r)
		if err != nil {
			return nil, err
		}
		dict.FNV[hash] = name
	}
	for i := int32(0); i < xxhCount; i++ {
		hash, err := readU64(r)
		if err != nil {
			return nil, err
		}
		name, err := readLebString(r)
		if err != nil {
			return nil, err
		}
		dict.XXH[hash] = name
	}
	return dict, nil
}

// SaveBinary renders the dictionary back into the "HHSH" binary format.
func (d *Dictionary) SaveBinary() []byte {
	var buf bytes.Buffer
	buf.WriteString(binaryMagic)
	writeI32(&buf, binaryVersion)
	writeI32(&buf, int32(len(d.FNV)))
	writeI32(&buf, int32(len(d.XXH)))
	for hash, name := range d.FNV {
		writeU32(&buf, hash)
		writeLebString(&buf, name)
	}
	for hash, name := range d.XXH {
		writeU64(&buf, hash)
		writeLebString(&buf, name)
	}
	return buf.Bytes()
}

func readFull(r *bytes.Reader, b []byte) (int, error) {
	n, err := io.ReadFull(r, b)
	if err != nil {
		return n, bperr.WrapIo(err)
	}
	return n, nil
}

func readI32(r *bytes.Reader) (int32, error) {
	var b [4]byte
	if _, err := readFull(r, b[:]); err != nil {
		return 0, err
	}
	return int32(binary.LittleEndian.Uint32(b[:])), nil
}

func readU32(r *bytes.Reader) (uint32, error) {
	var b [4]byte
	if _, err := readFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}

func readU64(r *bytes.Reader) (uint64, error) {
	var b [8]byte
	if _, err := readFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}

// readLebString decodes the 7-bit continuation-encoded length prefix via
// the standard library's varint reader (bit-for-bit the same scheme as
// LEB128) since go-leb128 only exposes whole-slice encoders, not a
// cursor-based decoder suited to reading off an io.ByteReader.
func readLebString(r *bytes.Reader) (string, error) {
	n, err := binary.ReadUvarint(r)
	if err != nil {
		return "", bperr.WrapIo(err)
	}
	b := make([]byte, n)
	if _, err := readFull(r, b); err != nil {
		return "", err
	}
	return string(b), nil
}

func writeI32(buf *bytes.Buffer, v int32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(v))
	buf.Write(b[:])
}

func writeU32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func writeU64(buf *bytes.Buffer, v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	buf.Write(b[:])
}

func writeLebString(buf *bytes.Buffer, s string) {
	buf.Write(leb128.FromUInt64(uint64(len(s))))
	buf.WriteString(s)
}
