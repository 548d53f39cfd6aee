package dictcodec

// ConvertTextToBinary merges a text dictionary of the given kind and
// renders it straight to the compact binary form, the batch path the
// original tooling exposed for pre-baking a "*.bin" sibling next to a
// large "*.txt" hash list.
func ConvertTextToBinary(text string, kind Kind) []byte {
	dict := NewDictionary()
	dict.MergeText(text, kind)
	return dict.SaveBinary()
}
