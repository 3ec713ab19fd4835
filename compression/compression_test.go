package compression

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func samplePayload(n int) []byte {
	out := make([]byte, n)
	for i := range out {
		// repetitive enough to compress
		out[i] = byte(rand.Intn(8))
	}
	return out
}

func TestRoundTripAllCodecs(t *testing.T) {

	payload := samplePayload(4096)

	for _, codec := range []Type{None, Lz4, Zstd} {

		var compressed bytes.Buffer
		require.NoError(t, Compress(codec, payload, &compressed), codec.String())

		restored := make([]byte, len(payload))
		require.NoError(t, Decompress(codec, compressed.Bytes(), restored), codec.String())

		require.Equal(t, payload, restored, codec.String())
	}
}

func TestCompressShrinksRepetitiveData(t *testing.T) {

	payload := bytes.Repeat([]byte("abcd"), 2048)

	for _, codec := range []Type{Lz4, Zstd} {
		var compressed bytes.Buffer
		require.NoError(t, Compress(codec, payload, &compressed))
		require.Less(t, compressed.Len(), len(payload), codec.String())
	}
}

func TestDecompressTruncatedInput(t *testing.T) {

	payload := samplePayload(1024)

	var compressed bytes.Buffer
	require.NoError(t, Compress(Lz4, payload, &compressed))

	restored := make([]byte, len(payload))
	require.Error(t, Decompress(Lz4, compressed.Bytes()[:compressed.Len()/2], restored))
}

func TestUnknownType(t *testing.T) {

	var out bytes.Buffer
	require.Error(t, Compress(Type(99), []byte("x"), &out))
	require.Error(t, Decompress(Type(99), []byte("x"), make([]byte, 1)))
	require.Equal(t, "", Type(99).String())
}
