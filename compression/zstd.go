package compression

import (
	"bytes"
	"fmt"

	"github.com/klauspost/compress/zstd"
)

func CompressZstd(src []byte, output *bytes.Buffer) error {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return err
	}

	output.Write(enc.EncodeAll(src, nil))
	return enc.Close()
}

func DecompressZstd(src []byte, dst []byte) error {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return err
	}
	defer dec.Close()

	out, err := dec.DecodeAll(src, dst[:0])
	if err != nil {
		return fmt.Errorf("zstd decompress failed: %s", err.Error())
	}
	if len(out) != len(dst) {
		return fmt.Errorf("zstd decompressed size mismatch: %d != %d", len(out), len(dst))
	}

	return nil
}
