package hdrw

import (
	"bytes"
	"encoding/json"
	"fmt"

	pe "www.velocidex.com/golang/go-pe"
)

// VerifyDeep feeds the whole loaded buffer to the go-pe parser, proving
// the image parses well past the region decoded here. Returns an indented
// JSON dump of what the parser found.
func (img *Image) VerifyDeep() (string, error) {
	data := img.buffer()
	if data == nil {
		return "", fmt.Errorf("%w: image not loaded", ErrLoadFailed)
	}

	peFile, err := pe.NewPEFile(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("full PE parse failed: %w", err)
	}

	serialized, err := json.MarshalIndent(peFile, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize PE info: %w", err)
	}
	return string(serialized), nil
}
