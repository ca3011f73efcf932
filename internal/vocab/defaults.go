package vocab

import (
	_ "embed"
	"encoding/json"
	"strings"
)

var (
	//go:embed defaults/vocab_mapping.json
	defaultKoreanJSON []byte

	//go:embed defaults/romanization.json
	defaultRomanizationJSON []byte

	//go:embed defaults/coco.names
	cocoNames string
)

// DefaultKorean returns the built-in English to Korean table for the COCO-80 classes.
func DefaultKorean() map[string]string {
	return mustDecode(defaultKoreanJSON)
}

// DefaultRomanization returns the built-in English to romanization table for the COCO-80 classes.
func DefaultRomanization() map[string]string {
	return mustDecode(defaultRomanizationJSON)
}

// CocoNames returns the 80 COCO class names in model index order.
func CocoNames() []string {
	return ParseNames(cocoNames)
}

// ParseNames splits a labels file (one class per line) into names, skipping blank lines.
func ParseNames(data string) []string {
	var names []string
	for _, line := range strings.Split(data, "\n") {
		if name := strings.TrimSpace(line); name != "" {
			names = append(names, name)
		}
	}
	return names
}

func mustDecode(data []byte) map[string]string {
	m := make(map[string]string)
	if err := json.Unmarshal(data, &m); err != nil {
		panic("vocab: invalid embedded table: " + err.Error())
	}
	return m
}
