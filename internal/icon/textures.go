package icon

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// TextureIndex maps canonical ids and local keys to relative texture
// paths, typically loaded from a pre-generated JSON file shipped with the
// texture pack. Optional; a nil index contributes no candidates.
type TextureIndex struct {
	ByID   map[string]string `json:"byId"`
	ByName map[string]string `json:"byName"`
}

// LoadTextureIndex reads a texture index from a JSON file.
func LoadTextureIndex(path string) (*TextureIndex, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read texture index: %w", err)
	}

	var idx TextureIndex
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, fmt.Errorf("parse texture index: %w", err)
	}
	return &idx, nil
}

// Path returns the indexed texture path for the given id or local key, id
// first. Backslashes are normalized to forward slashes since index files
// generated on Windows carry them.
func (t *TextureIndex) Path(id, localKey string) (string, bool) {
	if t == nil {
		return "", false
	}
	if id != "" {
		if p, ok := t.ByID[id]; ok {
			return strings.ReplaceAll(p, `\`, "/"), true
		}
	}
	if localKey != "" {
		if p, ok := t.ByName[localKey]; ok {
			return strings.ReplaceAll(p, `\`, "/"), true
		}
	}
	return "", false
}
