package imagemeta

import (
	"sort"
	"strings"
)

// generationKeywords are field-name substrings that mark a field as holding
// AI generation parameters. Stable Diffusion writes "parameters", ComfyUI
// writes "prompt" and "workflow", and some tools tuck the same text into
// the EXIF UserComment tag.
var generationKeywords = []string{
	"parameters",
	"prompt",
	"workflow",
	"usercomment",
}

// IsGenerationField reports whether a metadata field name looks like it
// holds generation parameters. Pure function; the whole heuristic lives
// here so it can be tested and replaced in one place.
func IsGenerationField(name string) bool {
	n := strings.ToLower(name)
	for _, kw := range generationKeywords {
		if strings.Contains(n, kw) {
			return true
		}
	}
	return false
}

// GenerationParameters returns the first non-empty generation-parameters
// value found in fields. Keys are visited in sorted order so the result is
// deterministic.
func GenerationParameters(fields map[string]string) (string, bool) {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if IsGenerationField(k) && strings.TrimSpace(fields[k]) != "" {
			return fields[k], true
		}
	}
	return "", false
}
