package dictcodec

import (
	"os"
	"strconv"
	"strings"

	"k8s.io/klog/v2"
)

// LoadAuto loads a dictionary from path, preferring a ".bin" sibling file
// when present. Otherwise it reads the text form and classifies entries
// as FNV or XXH from filename heuristics: "hashes.game.*" is FNV,
// anything containing "xxh64" is XXH. A ".txt"-suffixed path is treated
// as optionally sharded: path.0, path.1, … are merged in turn until a
// shard is missing, even when the unsharded path itself doesn't exist.
func LoadAuto(path string) (*Dictionary, error) {
	if data, err := os.ReadFile(path + ".bin"); err == nil {
		klog.V(1).Infof("dictcodec: loaded binary dictionary %s.bin", path)
		return LoadBinary(data)
	}

	dict := NewDictionary()
	kind := classify(path)
	sharded := strings.HasSuffix(path, ".txt")

	if data, err := os.ReadFile(path); err == nil {
		dict.MergeText(string(data), kind)
		klog.V(1).Infof("dictcodec: merged text dictionary %s", path)
	} else if !sharded {
		return nil, err
	}

	if sharded {
		for i := 0; ; i++ {
			shardPath := path + "." + strconv.Itoa(i)
			data, err := os.ReadFile(shardPath)
			if err != nil {
				break
			}
			dict.MergeText(string(data), kind)
			klog.V(1).Infof("dictcodec: merged sharded dictionary %s", shardPath)
		}
	}

	return dict, nil
}

func classify(path string) Kind {
	base := strings.ToLower(path)
	if strings.Contains(base, "xxh64") {
		return KindXXH
	}
	return KindFNV
}
