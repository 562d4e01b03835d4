package hdrw

import "fmt"

// DOSMagic is the signature every valid image carries in e_magic.
const DOSMagic = "MZ"

// NewSchema validates the field layout and returns a schema template.
// Every declared offset must equal the sum of the widths of the preceding
// fields; a gap or overlap is an authoring error, caught here rather than
// mid-decode.
func NewSchema(name string, fields []Field) (*Schema, error) {
	seen := make(map[string]bool, len(fields))
	cursor := 0
	for i := range fields {
		f := &fields[i]
		w := f.Width()
		if w <= 0 {
			return nil, fmt.Errorf("%w: field %q has no usable width", ErrMalformedSchema, f.Name)
		}
		if seen[f.Name] {
			return nil, fmt.Errorf("%w: duplicate field name %q", ErrMalformedSchema, f.Name)
		}
		seen[f.Name] = true
		if f.Offset != cursor {
			return nil, fmt.Errorf("%w: field %q declared at offset 0x%X, layout puts it at 0x%X",
				ErrMalformedSchema, f.Name, f.Offset, cursor)
		}
		cursor += w
	}
	return &Schema{Name: name, Fields: fields, size: cursor}, nil
}

func mustSchema(name string, fields []Field) *Schema {
	s, err := NewSchema(name, fields)
	if err != nil {
		panic(err)
	}
	return s
}

// NewDOSHeaderSchema returns a fresh template for the 64-byte DOS header
// at the start of every PE image. e_res and e_res2 are opaque reserved
// runs of 8 and 20 bytes, per the documented Windows layout.
func NewDOSHeaderSchema() *Schema {
	return mustSchema("IMAGE_DOS_HEADER", []Field{
		{Kind: KindString, Name: "e_magic", Desc: "Magic number", Offset: 0x00, Length: 2},
		{Kind: KindWord, Name: "e_cblp", Desc: "Bytes on last page of file", Offset: 0x02},
		{Kind: KindWord, Name: "e_cp", Desc: "Pages in file", Offset: 0x04},
		{Kind: KindWord, Name: "e_crlc", Desc: "Relocations", Offset: 0x06},
		{Kind: KindWord, Name: "e_cparhdr", Desc: "Size of header in paragraphs", Offset: 0x08},
		{Kind: KindWord, Name: "e_minalloc", Desc: "Minimum extra paragraphs needed", Offset: 0x0A},
		{Kind: KindWord, Name: "e_maxalloc", Desc: "Maximum extra paragraphs needed", Offset: 0x0C},
		{Kind: KindWord, Name: "e_ss", Desc: "Initial (relative) SS value", Offset: 0x0E},
		{Kind: KindWord, Name: "e_sp", Desc: "Initial SP value", Offset: 0x10},
		{Kind: KindWord, Name: "e_csum", Desc: "Checksum", Offset: 0x12},
		{Kind: KindWord, Name: "e_ip", Desc: "Initial IP value", Offset: 0x14},
		{Kind: KindWord, Name: "e_cs", Desc: "Initial (relative) CS value", Offset: 0x16},
		{Kind: KindWord, Name: "e_lfarlc", Desc: "File address of relocation table", Offset: 0x18},
		{Kind: KindWord, Name: "e_ovno", Desc: "Overlay number", Offset: 0x1A},
		{Kind: KindReserved, Name: "e_res", Desc: "Reserved", Offset: 0x1C, Length: 8},
		{Kind: KindWord, Name: "e_oemid", Desc: "OEM identifier (for e_oeminfo)", Offset: 0x24},
		{Kind: KindWord, Name: "e_oeminfo", Desc: "OEM information; e_oemid specific", Offset: 0x26},
		{Kind: KindReserved, Name: "e_res2", Desc: "Reserved", Offset: 0x28, Length: 20},
		{Kind: KindDWord, Name: "e_lfanew", Desc: "File address of new exe header", Offset: 0x3C},
	})
}
