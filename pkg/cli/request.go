package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
)

// LoadRequest reads a YAML or JSON request file into v. The path "-"
// reads stdin instead. The extension picks the codec; for anything else
// YAML is tried first, then JSON.
func LoadRequest(path string, v any) error {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("read request: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, v); err != nil {
			return fmt.Errorf("parse json request: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, v); err != nil {
			return fmt.Errorf("parse yaml request: %w", err)
		}
	default:
		if yaml.Unmarshal(data, v) == nil {
			return nil
		}
		if json.Unmarshal(data, v) == nil {
			return nil
		}
		return fmt.Errorf("request %s is neither valid yaml nor json", path)
	}
	return nil
}
