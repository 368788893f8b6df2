// Package inference wraps a local whisper.cpp acoustic model: load/swap,
// decode a PCM buffer to text, cancellable mid-decode.
package inference

// ModelDescriptor names one entry in the static model catalog: a
// logical name, its on-disk path once downloaded, byte size, a human
// description, and whether it is currently present/loaded. Shape
// grounded on
// _examples/other_examples/korvin3-media-transcriber__whisper_models.go's
// WhisperModelOption, renamed to match this catalog's naming.
type ModelDescriptor struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	SizeBytes   int64  `json:"sizeBytes"`
	Description string `json:"description"`
	Present     bool   `json:"present"`
	Loaded      bool   `json:"loaded"`
}

// Catalog returns the static list of models this build knows about.
// present/loaded are filled in by the caller once disk state and the
// currently loaded model are known; the zero-value catalog entries
// only carry the fixed fields (name, path, size, description).
func Catalog(modelDir string) []ModelDescriptor {
	return []ModelDescriptor{
		{
			Name:        "tiny.en",
			Path:        modelDir + "/ggml-tiny.en.bin",
			SizeBytes:   77_700_000,
			Description: "Fastest, English only, lowest accuracy",
		},
		{
			Name:        "base.en",
			Path:        modelDir + "/ggml-base.en.bin",
			SizeBytes:   147_900_000,
			Description: "Balanced speed and accuracy, English only",
		},
		{
			Name:        "small.en",
			Path:        modelDir + "/ggml-small.en.bin",
			SizeBytes:   488_000_000,
			Description: "Higher accuracy, English only, slower",
		},
		{
			Name:        "small",
			Path:        modelDir + "/ggml-small.bin",
			SizeBytes:   488_000_000,
			Description: "Higher accuracy, multilingual, slower",
		},
	}
}
