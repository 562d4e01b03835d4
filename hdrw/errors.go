package hdrw

import "errors"

var (
	ErrMalformedSchema  = errors.New("malformed schema")
	ErrBufferTooShort   = errors.New("buffer too short")
	ErrLoadFailed       = errors.New("load failed")
	ErrInvalidSignature = errors.New("invalid DOS signature")
)
