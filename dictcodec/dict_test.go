package dictcodec_test

import (
	"testing"

	"github.com/RitoShark/ritobin-go/dictcodec"
	"github.com/stretchr/testify/require"
)

func TestBinaryRoundTrip(t *testing.T) {
	dict := dictcodec.NewDictionary()
	dict.FNV[0x12345678] = "a"
	dict.XXH[0x0123456789ABCDEF] = "b"

	data := dict.SaveBinary()
	require.Equal(t, []byte{'H', 'H', 'S', 'H', 1, 0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0}, data[:16])

	got, err := dictcodec.LoadBinary(data)
	require.NoError(t, err)
	require.Equal(t, dict, got)
}

func TestBinaryBadMagic(t *testing.T) {
	_, err := dictcodec.LoadBinary([]byte("XXXX\x01\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00"))
	require.Error(t, err)
}

func TestBinaryBadVersion(t *testing.T) {
	_, err := dictcodec.LoadBinary([]byte("HHSH\x02\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00"))
	require.Error(t, err)
}

func TestMergeTextSkipsBlankAndMalformedLines(t *testing.T) {
	dict := dictcodec.NewDictionary()
	dict.MergeText("12345678 known\n\nmalformed-no-space\nabcdef01 other\n", dictcodec.KindFNV)
	require.Len(t, dict.FNV, 2)
	require.Equal(t, "known", dict.FNV[0x12345678])
	require.Equal(t, "other", dict.FNV[0xabcdef01])
}

func TestMergeTextXXH(t *testing.T) {
	dict := dictcodec.NewDictionary()
	dict.MergeText("0123456789abcdef name\n", dictcodec.KindXXH)
	require.Equal(t, "name", dict.XXH[0x0123456789abcdef])
}

func TestMergeTextOverwritesDuplicates(t *testing.T) {
	dict := dictcodec.NewDictionary()
	dict.MergeText("12345678 first\n", dictcodec.KindFNV)
	dict.MergeText("12345678 second\n", dictcodec.KindFNV)
	require.Equal(t, "second", dict.FNV[0x12345678])
}
