package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectFormat(t *testing.T) {
	assert.Equal(t, FormatPE, DetectFormat([]byte("MZ\x90\x00")))
	assert.Equal(t, FormatELF, DetectFormat([]byte{0x7F, 'E', 'L', 'F', 2, 1, 1}))
	assert.Equal(t, FormatUnknown, DetectFormat([]byte("#!/bin/sh\n")))
	assert.Equal(t, FormatUnknown, DetectFormat([]byte{0x7F}))
	assert.Equal(t, FormatUnknown, DetectFormat(nil))
}

func TestFileFormatString(t *testing.T) {
	assert.Equal(t, "PE", FormatPE.String())
	assert.Equal(t, "ELF", FormatELF.String())
	assert.Equal(t, "unknown", FormatUnknown.String())
}

func TestDescribeELFTruncated(t *testing.T) {
	// too short for elf_reader, falls back to the class alone
	assert.Equal(t, "ELF64", DescribeELF([]byte{0x7F, 'E', 'L', 'F', 2}))
	assert.Equal(t, "ELF32", DescribeELF([]byte{0x7F, 'E', 'L', 'F', 1}))
}

func TestMatchesPattern(t *testing.T) {
	assert.True(t, MatchesPattern("e_magic", []string{"e_magic"}, nil))
	assert.True(t, MatchesPattern("e_res2", nil, []string{"e_res"}))
	assert.False(t, MatchesPattern("e_cblp", []string{"e_magic"}, []string{"e_res"}))
	assert.False(t, MatchesPattern("e_cblp", []string{""}, []string{""}))
}
