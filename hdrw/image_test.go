package hdrw

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempImage(t *testing.T, data []byte) string {
	t.Helper()
	name := filepath.Join(t.TempDir(), "image.exe")
	require.NoError(t, os.WriteFile(name, data, 0644))
	return name
}

func collectStages(img *Image) []Stage {
	var stages []Stage
	for stage := range img.Events() {
		stages = append(stages, stage)
	}
	return stages
}

func TestImageLifecycleEndToEnd(t *testing.T) {
	name := writeTempImage(t, buildDOSHeader())

	img := Open(name)
	dos, err := img.DecodeHeaders(context.Background(), false)
	require.NoError(t, err)

	assert.Equal(t, "MZ", dos.Text("e_magic"))
	assert.Equal(t, uint64(144), dos.Uint("e_cblp"))
	assert.Equal(t, uint64(128), dos.Uint("e_lfanew"))
	assert.Equal(t, StateComplete, img.State())
	assert.Empty(t, img.Warnings())
	assert.Same(t, dos, img.DOSHeader())

	// each stage fires exactly once, in order
	assert.Equal(t, []Stage{StageLoaded, StageDOSDecoded, StageComplete}, collectStages(img))
}

func TestImageLoadFailurePropagates(t *testing.T) {
	img := Open(filepath.Join(t.TempDir(), "does-not-exist.exe"))

	_, err := img.DecodeHeaders(context.Background(), false)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLoadFailed)

	// every waiter observes the failure, not just the first
	assert.ErrorIs(t, img.WaitLoaded(context.Background()), ErrLoadFailed)
	assert.Equal(t, StateFailed, img.State())

	// the event channel is closed so consumers cannot hang
	assert.Empty(t, collectStages(img))
}

func TestImageShortFile(t *testing.T) {
	name := writeTempImage(t, buildDOSHeader()[:0x3F])

	img := Open(name)
	_, err := img.DecodeHeaders(context.Background(), false)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBufferTooShort)
	assert.Equal(t, StateFailed, img.State())

	// loading itself succeeded, so the loaded stage still fired
	assert.Equal(t, []Stage{StageLoaded}, collectStages(img))
}

func TestImageBadSignatureWarns(t *testing.T) {
	buf := buildDOSHeader()
	copy(buf[0:2], "ZM")

	img := NewImage("bad.exe", buf)
	dos, err := img.DecodeHeaders(context.Background(), false)
	require.NoError(t, err)

	assert.Equal(t, "ZM", dos.Text("e_magic"))
	require.Len(t, img.Warnings(), 1)
	assert.Contains(t, img.Warnings()[0], "e_magic")
}

func TestImageBadSignatureStrict(t *testing.T) {
	buf := buildDOSHeader()
	copy(buf[0:2], "XX")

	img := NewImage("bad.exe", buf)
	_, err := img.DecodeHeaders(context.Background(), true)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidSignature)
	assert.Equal(t, StateFailed, img.State())
}

func TestImageDecodeCached(t *testing.T) {
	img := NewImage("image.exe", buildDOSHeader())

	first, err := img.DecodeHeaders(context.Background(), false)
	require.NoError(t, err)
	second, err := img.DecodeHeaders(context.Background(), false)
	require.NoError(t, err)
	assert.Same(t, first, second, "repeat decode returns the cached schema")
}

func TestImageOwnsItsBuffer(t *testing.T) {
	buf := buildDOSHeader()
	img := NewImage("image.exe", buf)

	// the caller clobbering its buffer must not affect the image
	for i := range buf {
		buf[i] = 0xFF
	}
	dos, err := img.DecodeHeaders(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, "MZ", dos.Text("e_magic"))
}

func TestImageCancelBeforeLoad(t *testing.T) {
	// hand-built image whose load never completes
	img := &Image{
		FileName: "stuck.exe",
		state:    StateLoading,
		loadDone: make(chan struct{}),
		events:   make(chan Stage, 3),
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := img.DecodeHeaders(ctx, false)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, img.WaitLoaded(ctx), context.Canceled)
}

func TestInspectFile(t *testing.T) {
	name := writeTempImage(t, buildDOSHeader())

	img, dos, err := InspectFile(context.Background(), name, false)
	require.NoError(t, err)
	assert.Equal(t, StateComplete, img.State())
	assert.Equal(t, uint64(128), dos.Uint("e_lfanew"))
}

func TestInspectBuffer(t *testing.T) {
	img, dos, err := InspectBuffer(context.Background(), "mem.exe", buildDOSHeader(), true)
	require.NoError(t, err)
	assert.Equal(t, "MZ", dos.Text("e_magic"))
	assert.Equal(t, []Stage{StageLoaded, StageDOSDecoded, StageComplete}, collectStages(img))
}
