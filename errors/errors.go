package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Phase is the stage of processing that failed.
type Phase string

const (
	PhaseRead     Phase = "read"     // cursor buffer reads
	PhaseDecode   Phase = "decode"   // section and instruction decoding
	PhaseValidate Phase = "validate" // consumer-side module checks
	PhaseLoad     Phase = "load"     // obtaining module bytes
	PhaseVerify   Phase = "verify"   // cross-check against an engine
)

// Kind classifies a failure independently of its phase.
type Kind string

const (
	KindBufferUnderrun     Kind = "buffer_underrun"
	KindInvalidMagic       Kind = "invalid_magic"
	KindInvalidValType     Kind = "invalid_val_type"
	KindInvalidFuncTypeTag Kind = "invalid_func_type_tag"
	KindInvalidOpcode      Kind = "invalid_opcode"
	KindUnexpectedElse     Kind = "unexpected_else"
	KindUnknownSectionID   Kind = "unknown_section_id"
	KindInvalidUTF8        Kind = "invalid_utf8"
	KindTrailingBytes      Kind = "trailing_bytes"
	KindOutOfBounds        Kind = "out_of_bounds"
	KindDuplicate          Kind = "duplicate"
	KindNotFound           Kind = "not_found"
	KindInvalidInput       Kind = "invalid_input"
	KindInvalidData        Kind = "invalid_data"
	KindMismatch           Kind = "mismatch"
)

// NoOffset marks an error that is not tied to an input position.
const NoOffset = -1

// Error is the error type returned by every package of this module.
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Detail string
	Path   []string
	Offset int
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", e.Phase, e.Kind)
	if len(e.Path) > 0 {
		fmt.Fprintf(&b, " at %s", strings.Join(e.Path, "."))
	}
	if e.Offset >= 0 {
		fmt.Fprintf(&b, " (offset %d)", e.Offset)
	}
	if e.Detail != "" {
		fmt.Fprintf(&b, ": %s", e.Detail)
	}
	if e.Cause != nil {
		fmt.Fprintf(&b, " (caused by: %v)", e.Cause)
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Cause }

// Is reports whether target matches this error.
// A target with an empty Phase matches on Kind alone.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Phase != "" && t.Phase != e.Phase {
		return false
	}
	return e.Kind == t.Kind
}

// IsKind reports whether any error in err's chain is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	for err != nil {
		if !stderrors.As(err, &e) {
			return false
		}
		if e.Kind == kind {
			return true
		}
		err = e.Cause
	}
	return false
}

// KindOf returns the kind of the first *Error in err's chain, or "" if there is none.
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Builder assembles an Error field by field for the cases the
// constructors below do not cover.
type Builder struct {
	err Error
}

// New starts an error of the given phase and kind with no offset.
func New(phase Phase, kind Kind) *Builder {
	return &Builder{err: Error{Phase: phase, Kind: kind, Offset: NoOffset}}
}

// Path sets the dotted location of the entity, such as export.0.
func (b *Builder) Path(path ...string) *Builder { b.err.Path = path; return b }

// Offset sets the absolute input position.
func (b *Builder) Offset(off int) *Builder { b.err.Offset = off; return b }

// Value sets the offending byte, index or name.
func (b *Builder) Value(v any) *Builder { b.err.Value = v; return b }

// Cause sets the wrapped error returned by Unwrap.
func (b *Builder) Cause(err error) *Builder { b.err.Cause = err; return b }

// Detail sets the message. With args it is a format string.
func (b *Builder) Detail(msg string, args ...any) *Builder {
	b.err.Detail = msg
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	}
	return b
}

// Build returns a copy of the assembled error; the Builder may be reused.
func (b *Builder) Build() *Error {
	err := b.err
	return &err
}

// at builds an error tied to an input offset.
func at(phase Phase, kind Kind, offset int, value any, format string, args ...any) *Error {
	return &Error{Phase: phase, Kind: kind, Offset: offset, Value: value, Detail: fmt.Sprintf(format, args...)}
}

// BufferUnderrun reports a read of want bytes with only have remaining.
func BufferUnderrun(offset, want, have int) *Error {
	return at(PhaseRead, KindBufferUnderrun, offset, want, "need %d byte(s), %d remaining", want, have)
}

// InvalidMagic reports a module header that is not "\0asm".
func InvalidMagic(got []byte) *Error {
	return at(PhaseDecode, KindInvalidMagic, 0, got, "got % x, want 00 61 73 6d", got)
}

// InvalidValType reports a byte that is not a value type tag.
func InvalidValType(offset int, b byte) *Error {
	return at(PhaseDecode, KindInvalidValType, offset, b, "invalid value type 0x%02x", b)
}

// InvalidFuncTypeTag reports a function type not introduced by 0x60.
func InvalidFuncTypeTag(offset int, b byte) *Error {
	return at(PhaseDecode, KindInvalidFuncTypeTag, offset, b, "expected functype (0x60), got 0x%02x", b)
}

// InvalidOpcode reports an opcode with no decoder.
func InvalidOpcode(offset int, b byte) *Error {
	return at(PhaseDecode, KindInvalidOpcode, offset, b, "invalid opcode 0x%02x", b)
}

// UnexpectedElse reports an else that does not close the then-branch of an if.
func UnexpectedElse(offset int) *Error {
	return at(PhaseDecode, KindUnexpectedElse, offset, nil, "else terminator outside of if")
}

// UnknownSectionID reports a section id with no decoder, custom sections included.
func UnknownSectionID(offset int, id byte) *Error {
	return at(PhaseDecode, KindUnknownSectionID, offset, id, "unknown section ID: 0x%02x", id)
}

// InvalidUTF8 reports a name that is not valid UTF-8. At most 32 bytes of
// it are shown.
func InvalidUTF8(offset int, data []byte) *Error {
	return at(PhaseRead, KindInvalidUTF8, offset, nil, "invalid UTF-8 sequence: %x", data[:min(len(data), 32)])
}

// NestingTooDeep reports a structured instruction nested deeper than limit.
func NestingTooDeep(offset, limit int) *Error {
	return at(PhaseDecode, KindInvalidInput, offset, limit, "nesting exceeds %d levels", limit)
}

// TrailingBytes reports n unconsumed bytes at the end of a sized region.
func TrailingBytes(offset, n int) *Error {
	return at(PhaseDecode, KindTrailingBytes, offset, n, "%d unconsumed byte(s)", n)
}

// OutOfBounds reports an index past the end of an index space.
func OutOfBounds(phase Phase, path []string, index, length int) *Error {
	return New(phase, KindOutOfBounds).Path(path...).Value(index).
		Detail("index %d out of bounds (length %d)", index, length).Build()
}

// Duplicate reports a second entity with a name that must be unique.
func Duplicate(phase Phase, path []string, what, name string) *Error {
	return New(phase, KindDuplicate).Path(path...).Value(name).
		Detail("duplicate %s %q", what, name).Build()
}

// NotFound reports a missing entity such as a file or an export.
func NotFound(phase Phase, what, name string) *Error {
	return New(phase, KindNotFound).Detail("%s %q not found", what, name).Build()
}

// InvalidInput reports an argument or configuration value that cannot be used.
func InvalidInput(phase Phase, detail string) *Error {
	return New(phase, KindInvalidInput).Detail(detail).Build()
}

// Mismatch reports two descriptions of the same entity that disagree.
func Mismatch(phase Phase, path []string, detail string) *Error {
	return New(phase, KindMismatch).Path(path...).Detail(detail).Build()
}

// Wrap attaches a phase and kind to an error from outside this package.
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return New(phase, kind).Cause(cause).Detail(detail).Build()
}

// Load reports a failure to obtain module bytes.
func Load(detail string, cause error) *Error {
	return Wrap(PhaseLoad, KindInvalidData, cause, detail)
}
