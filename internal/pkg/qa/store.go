package qa

import (
    "encoding/json"
    "fmt"
    "os"
    "path/filepath"
    "strings"

    "gopkg.in/yaml.v3"

    "postguard/internal/pkg/models"
)

// Store maps question text to its answer payload. It is treated as an
// immutable snapshot by everything that reads it; reloads swap in a whole new
// map instead of mutating this one.
type Store map[string]models.Answer

// Load reads a QA mapping from a YAML or JSON file, selected by extension.
// Duplicate keys resolve last-write-wins, which the decoders give us for free.
func Load(path string) (Store, error) {
    data, err := os.ReadFile(path)
    if err != nil {
        return nil, fmt.Errorf("failed to read QA file: %w", err)
    }

    store := Store{}
    switch strings.ToLower(filepath.Ext(path)) {
    case ".json":
        err = json.Unmarshal(data, &store)
    default:
        err = yaml.Unmarshal(data, &store)
    }
    if err != nil {
        return nil, fmt.Errorf("failed to parse QA file %s: %w", path, err)
    }
    return store, nil
}
