package common

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInspectionResultString(t *testing.T) {
	assert.Equal(t, "DECODED (ok, 19 fields)", NewDecoded("ok", 19).String())
	assert.Equal(t, "DECODED (ok)", NewDecoded("ok", 0).String())
	assert.Equal(t, "FAILED (file too small)", NewFailed("file too small").String())
}

func TestFormatFieldTable(t *testing.T) {
	out := FormatFieldTable("IMAGE_DOS_HEADER", []FieldRow{
		{Offset: 0x00, Kind: "STRING", Name: "e_magic", Value: `"MZ"`, Desc: "Magic number"},
		{Offset: 0x3C, Kind: "DWORD", Name: "e_lfanew", Value: "0x80 (128)", Desc: "File address of new exe header"},
	})

	assert.Contains(t, out, "IMAGE_DOS_HEADER")
	assert.Contains(t, out, "0x00")
	assert.Contains(t, out, "e_magic")
	assert.Contains(t, out, "0x3C")
	assert.Contains(t, out, "e_lfanew")

	// names are padded to the same column
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, strings.Index(lines[2], `"MZ"`), strings.Index(lines[3], "0x80"))
}

func TestFormatFieldTableEmpty(t *testing.T) {
	assert.Contains(t, FormatFieldTable("EMPTY", nil), "No fields decoded")
}

func TestFormatWarnings(t *testing.T) {
	assert.Empty(t, FormatWarnings(nil))
	out := FormatWarnings([]string{"something is off"})
	assert.Contains(t, out, "something is off")
}

func TestDigestBuffer(t *testing.T) {
	d := DigestBuffer([]byte("abc"))
	assert.Equal(t, 3, d.Size)
	assert.Equal(t, "900150983cd24fb0d6963f7d28e17f72", d.MD5)
	assert.Equal(t, "a9993e364706816aba3e25717850c26c9cd0d89d", d.SHA1)
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", d.SHA256)
	assert.False(t, d.IsLikelyPacked())
}

func TestCalculateEntropy(t *testing.T) {
	assert.Equal(t, 0.0, CalculateEntropy(nil))
	assert.Equal(t, 0.0, CalculateEntropy(bytes.Repeat([]byte{0x41}, 100)))

	// one of each byte value is maximum entropy
	uniform := make([]byte, 256)
	for i := range uniform {
		uniform[i] = byte(i)
	}
	assert.InDelta(t, 8.0, CalculateEntropy(uniform), 0.0001)
	assert.True(t, FileDigest{Entropy: 8.0}.IsLikelyPacked())
}
