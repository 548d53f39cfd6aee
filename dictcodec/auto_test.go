package dictcodec_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/RitoShark/ritobin-go/dictcodec"
	"github.com/stretchr/testify/require"
)

func TestLoadAutoPrefersBinarySibling(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hashes.game.txt")

	dict := dictcodec.NewDictionary()
	dict.FNV[0x12345678] = "fromBinary"
	require.NoError(t, os.WriteFile(path+".bin", dict.SaveBinary(), 0o644))
	require.NoError(t, os.WriteFile(path, []byte("12345678 fromText\n"), 0o644))

	got, err := dictcodec.LoadAuto(path)
	require.NoError(t, err)
	require.Equal(t, "fromBinary", got.FNV[0x12345678])
}

func TestLoadAutoShardedWithNoUnshardedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hashes.game.txt")
	require.NoError(t, os.WriteFile(path+".0", []byte("12345678 a\n"), 0o644))
	require.NoError(t, os.WriteFile(path+".1", []byte("abcdef01 b\n"), 0o644))

	got, err := dictcodec.LoadAuto(path)
	require.NoError(t, err)
	require.Equal(t, "a", got.FNV[0x12345678])
	require.Equal(t, "b", got.FNV[0xabcdef01])
}

func TestLoadAutoClassifiesXXHByFilename(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "names.xxh64.txt")
	require.NoError(t, os.WriteFile(path, []byte("0123456789abcdef name\n"), 0o644))

	got, err := dictcodec.LoadAuto(path)
	require.NoError(t, err)
	require.Equal(t, "name", got.XXH[0x0123456789abcdef])
}

func TestConvertTextToBinary(t *testing.T) {
	bin := dictcodec.ConvertTextToBinary("12345678 known\n", dictcodec.KindFNV)
	dict, err := dictcodec.LoadBinary(bin)
	require.NoError(t, err)
	require.Equal(t, "known", dict.FNV[0x12345678])
}
