package jpegstream

import "errors"

// Sentinel errors for malformed or unsupported JPEG input.
var (
	ErrInvalidMarker          = errors.New("invalid JPEG marker")
	ErrInvalidSOI             = errors.New("missing SOI marker")
	ErrInvalidSOF             = errors.New("invalid Start of Frame")
	ErrInvalidDQT             = errors.New("invalid quantization table")
	ErrInvalidDHT             = errors.New("invalid Huffman table")
	ErrInvalidDRI             = errors.New("invalid restart interval")
	ErrInvalidSOS             = errors.New("invalid Start of Scan")
	ErrInvalidData            = errors.New("invalid JPEG scan data")
	ErrHuffmanDecode          = errors.New("Huffman decode error")
	ErrUnsupportedPrecision   = errors.New("unsupported sample precision (only 8-bit baseline is supported)")
	ErrUnsupportedComponents  = errors.New("unsupported component count (only 3-component YCbCr JPEGs are supported)")
	ErrUnsupportedSubsampling = errors.New("unsupported chroma subsampling (only integer 1x/2x on each axis is supported)")
	ErrMissingScan            = errors.New("JPEG ended before a scan was decoded")
)
