package common

import (
	"bytes"
	"fmt"

	"github.com/yalue/elf_reader"
)

// FileFormat classifies an input buffer by its magic bytes.
type FileFormat int

const (
	FormatUnknown FileFormat = iota
	FormatPE
	FormatELF
)

func (f FileFormat) String() string {
	switch f {
	case FormatPE:
		return "PE"
	case FormatELF:
		return "ELF"
	default:
		return "unknown"
	}
}

var elfMagic = []byte{0x7F, 'E', 'L', 'F'}

// DetectFormat classifies a raw buffer. PE covers anything starting with
// the MZ signature; the rest of the header may still be junk.
func DetectFormat(data []byte) FileFormat {
	if len(data) >= 2 && data[0] == 'M' && data[1] == 'Z' {
		return FormatPE
	}
	if len(data) >= 4 && bytes.Equal(data[:4], elfMagic) {
		return FormatELF
	}
	return FormatUnknown
}

// DescribeELF parses an ELF buffer just far enough to tell the user what
// they actually fed the tool.
func DescribeELF(data []byte) string {
	class := "ELF32"
	if len(data) > 4 && data[4] == 2 {
		class = "ELF64"
	}
	ef, err := elf_reader.ParseELFFile(data)
	if err != nil {
		return class
	}
	return fmt.Sprintf("%s, type %v, %d sections, %d segments",
		class, ef.GetFileType(), ef.GetSectionCount(), ef.GetSegmentCount())
}
