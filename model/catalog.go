package model

// Option describes one downloadable whisper.cpp model preset.
type Option struct {
	ID        string
	Name      string
	FileName  string
	URL       string
	SizeLabel string
}

const hfBase = "https://huggingface.co/ggerganov/whisper.cpp/resolve/main/"

// Catalog lists the supported ggml models, smallest first.
var Catalog = []Option{
	{
		ID:        "tiny",
		Name:      "Tiny",
		FileName:  "ggml-tiny.bin",
		URL:       hfBase + "ggml-tiny.bin",
		SizeLabel: "75 MB",
	},
	{
		ID:        "base",
		Name:      "Base",
		FileName:  "ggml-base.bin",
		URL:       hfBase + "ggml-base.bin",
		SizeLabel: "142 MB",
	},
	{
		ID:        "small",
		Name:      "Small",
		FileName:  "ggml-small.bin",
		URL:       hfBase + "ggml-small.bin",
		SizeLabel: "466 MB",
	},
	{
		ID:        "medium",
		Name:      "Medium",
		FileName:  "ggml-medium.bin",
		URL:       hfBase + "ggml-medium.bin",
		SizeLabel: "1.5 GB",
	},
	{
		ID:        "large-v3",
		Name:      "Large v3",
		FileName:  "ggml-large-v3.bin",
		URL:       hfBase + "ggml-large-v3.bin",
		SizeLabel: "2.9 GB",
	},
}

// Lookup finds a catalog entry by ID.
func Lookup(id string) (Option, bool) {
	for _, opt := range Catalog {
		if opt.ID == id {
			return opt, true
		}
	}
	return Option{}, false
}
