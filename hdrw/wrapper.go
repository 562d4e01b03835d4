package hdrw

import "context"

// Wrapper functions provide the main API for one-shot header inspection.
// They handle image construction, the load/decode lifecycle, and result
// collection for callers that do not need the staged notifications.

// InspectFile loads the named file and decodes its DOS header.
// The returned image holds the buffer, the decoded schema and any warnings.
func InspectFile(ctx context.Context, name string, strict bool) (*Image, *Schema, error) {
	img := Open(name)
	dos, err := img.DecodeHeaders(ctx, strict)
	if err != nil {
		return img, nil, err
	}
	return img, dos, nil
}

// InspectBuffer decodes the DOS header of an already materialized buffer,
// without touching the filesystem.
func InspectBuffer(ctx context.Context, name string, data []byte, strict bool) (*Image, *Schema, error) {
	img := NewImage(name, data)
	dos, err := img.DecodeHeaders(ctx, strict)
	if err != nil {
		return img, nil, err
	}
	return img, dos, nil
}
