package typedoc

import (
	"bytes"
	"encoding/json"
	"os"

	ferrors "git.home.luguber.info/inful/plugindocs/internal/foundation/errors"
)

// Load reads and decodes the symbol tree at path.
func Load(path string) (*Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryExtract, "symbol tree unreadable").
			WithContext("path", path).
			Build()
	}
	root, err := Decode(data)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryExtract, "symbol tree is not valid JSON").
			WithContext("path", path).
			Build()
	}
	return root, nil
}

// Decode parses a symbol tree document.
func Decode(data []byte) (*Node, error) {
	var root Node
	if err := json.NewDecoder(bytes.NewReader(data)).Decode(&root); err != nil {
		return nil, err
	}
	return &root, nil
}
