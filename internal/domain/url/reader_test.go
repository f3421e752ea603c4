package url

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeReader_RoundTrip(t *testing.T) {
	original := "https://example.com/articles/1?ref=feed&x=y"

	encoded := EncodeReader(original)
	assert.True(t, IsReader(encoded))

	decoded, err := DecodeReader(encoded)
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestDecodeReader_RejectsPlainURL(t *testing.T) {
	_, err := DecodeReader("https://example.com")
	assert.Error(t, err)
}

func TestDecodeReader_RejectsEmptyTarget(t *testing.T) {
	_, err := DecodeReader("about:reader?url=")
	assert.Error(t, err)
}

func TestIsReaderOf(t *testing.T) {
	original := "https://example.com/post"
	encoded := EncodeReader(original)

	assert.True(t, IsReaderOf(encoded, original))
	assert.False(t, IsReaderOf(encoded, "https://example.com/other"))
	assert.False(t, IsReaderOf(original, original))
}

func TestIsReader_PrefixOnly(t *testing.T) {
	assert.False(t, IsReader("about:blank"))
	assert.False(t, IsReader(""))
	assert.True(t, IsReader("about:reader?url=abc"))
}
