// Package binarycodec implements the BPF binary reader and writer: a
// length-prefixed, size-delimited, little-endian layout with forward size
// placeholders that are back-filled once their children are written.
package binarycodec

import "github.com/RitoShark/ritobin-go/model"

func rejectContainer(t model.Type) error {
	if t.IsContainer() {
		return invalidValuef(t, "container type not allowed here")
	}
	if !t.Valid() {
		return unknownType(t)
	}
	return nil
}

func requirePrimitive(t model.Type) error {
	if !t.Valid() {
		return unknownType(t)
	}
	if !t.IsPrimitive() {
		return invalidValuef(t, "map key type must be primitive")
	}
	return nil
}
