package hdrw

import (
	"encoding/binary"
	"fmt"
)

// Decode interprets buf starting at base according to the schema and
// returns a new, fully populated schema. The template is never modified,
// so one template can serve many buffers and offsets.
//
// The whole span is bounds-checked before any field is read: either every
// field decodes or none do.
func (s *Schema) Decode(buf []byte, base int) (*Schema, error) {
	if base < 0 {
		return nil, fmt.Errorf("negative base offset %d", base)
	}
	if base+s.size > len(buf) {
		cursor := base
		for i := range s.Fields {
			f := &s.Fields[i]
			w := f.Width()
			if cursor+w > len(buf) {
				return nil, fmt.Errorf("%w: field %q at offset 0x%X needs %d bytes, buffer holds %d",
					ErrBufferTooShort, f.Name, f.Offset, w, len(buf))
			}
			cursor += w
		}
	}

	out := &Schema{
		Name:   s.Name,
		Fields: append([]Field(nil), s.Fields...),
		size:   s.size,
	}
	cursor := base
	for i := range out.Fields {
		f := &out.Fields[i]
		w := f.Width()
		src := buf[cursor : cursor+w]
		switch f.Kind {
		case KindByte:
			f.Uint = uint64(src[0])
		case KindWord:
			f.Uint = uint64(binary.LittleEndian.Uint16(src))
		case KindDWord:
			f.Uint = uint64(binary.LittleEndian.Uint32(src))
		case KindQWord:
			f.Uint = binary.LittleEndian.Uint64(src)
		case KindString:
			f.Text = string(src)
		case KindReserved:
			// independent copy, the value must outlive the buffer
			raw := make([]byte, w)
			copy(raw, src)
			f.Raw = raw
		default:
			return nil, fmt.Errorf("%w: field %q has unknown kind %d", ErrMalformedSchema, f.Name, int(f.Kind))
		}
		cursor += w
	}
	return out, nil
}
