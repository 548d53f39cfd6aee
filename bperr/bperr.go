// Package bperr defines the error taxonomy shared by every codec package:
// a fixed set of kinds, each wrapped with enough context to report where and
// why a read or write failed.
package bperr

import "fmt"

// Kind identifies the class of failure. The set is closed; codecs never
// invent new kinds.
type Kind int

const (
	// Io wraps a failure from the underlying byte/string source.
	Io Kind = iota
	// InvalidMagic means the BPF or dictionary magic bytes did not match.
	InvalidMagic
	// UnknownType means a tag byte fell outside the closed type set.
	UnknownType
	// UnexpectedEof means a read ran past the end of the buffer.
	UnexpectedEof
	// InvalidValue means a type rule was violated (container in a
	// container-only slot, non-primitive map key, wrong section shape, ...).
	InvalidValue
	// ParseError means a PTXT or JSON syntax error.
	ParseError
	// BadDictionaryVersion means a dictionary's version field was not 1.
	BadDictionaryVersion
)

func (k Kind) String() string {
	switch k {
	case Io:
		return "Io"
	case InvalidMagic:
		return "InvalidMagic"
	case UnknownType:
		return "UnknownType"
	case UnexpectedEof:
		return "UnexpectedEof"
	case InvalidValue:
		return "InvalidValue"
	case ParseError:
		return "ParseError"
	case BadDictionaryVersion:
		return "BadDictionaryVersion"
	default:
		return "Unknown"
	}
}

// Error is the concrete error type returned by every codec. It carries a
// Kind plus whatever positional/value context that kind needs.
type Error struct {
	Kind Kind
	// Pos is a byte offset or PTXT/JSON character position, when known.
	Pos int
	// HasPos reports whether Pos is meaningful for this error.
	HasPos bool
	// Tag is a type tag byte, for UnknownType/InvalidValue.
	Tag byte
	// Version is a dictionary version, for BadDictionaryVersion.
	Version int32
	// Reason is a free-form description.
	Reason string
	// Err is the wrapped underlying error, if any.
	Err error
}

func (e *Error) Error() string {
	switch e.Kind {
	case UnknownType:
		return fmt.Sprintf("bperr: unknown type 0x%02x", e.Tag)
	case InvalidValue:
		if e.Reason != "" {
			return fmt.Sprintf("bperr: invalid value (tag 0x%02x): %s", e.Tag, e.Reason)
		}
		return fmt.Sprintf("bperr: invalid value (tag 0x%02x)", e.Tag)
	case ParseError:
		return fmt.Sprintf("bperr: parse error at %d: %s", e.Pos, e.Reason)
	case BadDictionaryVersion:
		return fmt.Sprintf("bperr: bad dictionary version %d", e.Version)
	case InvalidMagic:
		if e.Reason != "" {
			return fmt.Sprintf("bperr: invalid magic: %s", e.Reason)
		}
		return "bperr: invalid magic"
	case UnexpectedEof:
		if e.HasPos {
			return fmt.Sprintf("bperr: unexpected eof at %d", e.Pos)
		}
		return "bperr: unexpected eof"
	case Io:
		if e.Err != nil {
			return fmt.Sprintf("bperr: io: %s", e.Err)
		}
		return "bperr: io"
	default:
		return "bperr: error"
	}
}

func (e *Error) Unwrap() error { return e.Err }

func WrapIo(err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: Io, Err: err}
}

func NewInvalidMagic(reason string) error {
	return &Error{Kind: InvalidMagic, Reason: reason}
}

func NewUnknownType(tag byte) error {
	return &Error{Kind: UnknownType, Tag: tag}
}

func NewUnexpectedEof(pos int) error {
	return &Error{Kind: UnexpectedEof, Pos: pos, HasPos: true}
}

func NewInvalidValue(tag byte, reason string) error {
	return &Error{Kind: InvalidValue, Tag: tag, Reason: reason}
}

func NewParseError(pos int, reason string) error {
	return &Error{Kind: ParseError, Pos: pos, Reason: reason}
}

func NewBadDictionaryVersion(v int32) error {
	return &Error{Kind: BadDictionaryVersion, Version: v}
}

// Is allows errors.Is(err, &bperr.Error{Kind: bperr.Io}) etc. by comparing
// Kind only; a target that is not a *Error never matches.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}
