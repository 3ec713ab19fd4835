package compression

import (
	"bytes"
	"fmt"
)

type Type uint8

const (
	None Type = iota
	Lz4
	Zstd
)

func (t Type) String() string {
	switch t {
	case None:
		return "None"
	case Lz4:
		return "Lz4"
	case Zstd:
		return "Zstd"
	default:
		return ""
	}
}

// Compress encodes src with the selected codec into output.
func Compress(t Type, src []byte, output *bytes.Buffer) error {
	switch t {
	case None:
		_, err := output.Write(src)
		return err
	case Lz4:
		return CompressLz4(src, output)
	case Zstd:
		return CompressZstd(src, output)
	default:
		return fmt.Errorf("unknown compression type %d", t)
	}
}

// Decompress decodes src into dst, which must be sized to the exact
// uncompressed length recorded next to the compressed bytes.
func Decompress(t Type, src []byte, dst []byte) error {
	switch t {
	case None:
		if copy(dst, src) != len(dst) {
			return fmt.Errorf("raw block shorter than expected: %d < %d", len(src), len(dst))
		}
		return nil
	case Lz4:
		return DecompressLz4(src, dst)
	case Zstd:
		return DecompressZstd(src, dst)
	default:
		return fmt.Errorf("unknown compression type %d", t)
	}
}
