package compression

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pierrec/lz4/v4"
)

func CompressLz4(src []byte, output *bytes.Buffer) error {
	zw := lz4.NewWriter(output)

	_, writeErr := zw.Write(src)
	if writeErr != nil {
		return writeErr
	}

	flushErr := zw.Flush()
	if flushErr != nil {
		return flushErr
	}

	return zw.Close()
}

func DecompressLz4(src []byte, dst []byte) error {
	zr := lz4.NewReader(bytes.NewReader(src))

	readBytes, err := io.ReadFull(zr, dst)
	if err != nil {
		return fmt.Errorf("lz4 decompress failed after %d bytes: %s", readBytes, err.Error())
	}

	return nil
}
