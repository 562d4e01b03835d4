package hdrw

import "fmt"

// FieldKind tells the decoder how to interpret a run of bytes.
type FieldKind int

const (
	KindByte     FieldKind = iota // unsigned 8-bit integer
	KindWord                      // unsigned 16-bit integer, little-endian
	KindDWord                     // unsigned 32-bit integer, little-endian
	KindQWord                     // unsigned 64-bit integer, little-endian
	KindString                    // fixed-length text, width from Field.Length
	KindReserved                  // opaque byte run, width from Field.Length
)

// Width returns the fixed byte width of the kind, or -1 when the width
// comes from the field itself (KindString, KindReserved).
func (k FieldKind) Width() int {
	switch k {
	case KindByte:
		return 1
	case KindWord:
		return 2
	case KindDWord:
		return 4
	case KindQWord:
		return 8
	default:
		return -1
	}
}

func (k FieldKind) String() string {
	switch k {
	case KindByte:
		return "BYTE"
	case KindWord:
		return "WORD"
	case KindDWord:
		return "DWORD"
	case KindQWord:
		return "QWORD"
	case KindString:
		return "STRING"
	case KindReserved:
		return "RESERVED"
	default:
		return fmt.Sprintf("Unknown (%d)", int(k))
	}
}

// Field describes one header field and, once decoded, holds its value.
// Exactly one of Uint, Text or Raw is populated, selected by Kind.
type Field struct {
	Kind   FieldKind
	Name   string
	Desc   string
	Offset int // declared byte offset from the start of the structure
	Length int // byte width for KindString and KindReserved

	Uint uint64
	Text string
	Raw  []byte
}

// Width returns the byte width the decoder will consume for this field.
func (f *Field) Width() int {
	if w := f.Kind.Width(); w > 0 {
		return w
	}
	return f.Length
}

// ValueString renders the decoded value for display.
func (f *Field) ValueString() string {
	switch f.Kind {
	case KindString:
		return fmt.Sprintf("%q", f.Text)
	case KindReserved:
		return fmt.Sprintf("% x", f.Raw)
	default:
		return fmt.Sprintf("0x%X (%d)", f.Uint, f.Uint)
	}
}

// Schema is an ordered list of field descriptors describing one header.
// Field order is the decode order and implicitly the byte layout.
type Schema struct {
	Name   string
	Fields []Field

	size int
}

// Size returns the total byte span of the schema.
func (s *Schema) Size() int {
	return s.size
}

// Field returns the named descriptor, or nil if the schema has no such field.
func (s *Schema) Field(name string) *Field {
	for i := range s.Fields {
		if s.Fields[i].Name == name {
			return &s.Fields[i]
		}
	}
	return nil
}

// Uint returns the decoded integer value of the named field, or 0 if the
// field is missing or not an integer kind.
func (s *Schema) Uint(name string) uint64 {
	if f := s.Field(name); f != nil {
		return f.Uint
	}
	return 0
}

// Text returns the decoded text value of the named field.
func (s *Schema) Text(name string) string {
	if f := s.Field(name); f != nil {
		return f.Text
	}
	return ""
}

// Bytes returns the decoded raw bytes of the named field.
func (s *Schema) Bytes(name string) []byte {
	if f := s.Field(name); f != nil {
		return f.Raw
	}
	return nil
}
