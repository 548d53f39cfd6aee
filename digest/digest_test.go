package digest_test

import (
	"testing"

	"github.com/RitoShark/ritobin-go/digest"
	"github.com/stretchr/testify/require"
)

func TestFNV1aCaseInsensitive(t *testing.T) {
	require.Equal(t, digest.FNV1a("abc"), digest.FNV1a("ABC"))
	require.Equal(t, digest.FNV1a("abc"), digest.FNV1a("aBc"))
}

func TestFNV1aEmptyIsSeed(t *testing.T) {
	require.Equal(t, uint32(0x811C9DC5), digest.FNV1a(""))
}

func TestXXH64CaseInsensitive(t *testing.T) {
	require.Equal(t, digest.XXH64("abc"), digest.XXH64("ABC"))
}

func TestFNV1aKnownValues(t *testing.T) {
	// FNV-1a-32 of "a" under the standard algorithm.
	require.Equal(t, uint32(0xE40C292C), digest.FNV1a("a"))
	require.Equal(t, digest.FNV1a("a"), digest.FNV1a("A"))
	require.NotEqual(t, digest.FNV1a("a"), digest.FNV1a("b"))
}
