package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/uigen/patternmatch/pkg/types"
)

// FileSource loads the pattern catalog from a JSON file: an array of
// pattern records. Records may carry an explicit text_corpus, or the
// descriptive fields (name, description, props, tags) from which one is
// composed.
type FileSource struct {
	path string
}

// patternRecord is the on-disk shape of one catalog entry.
type patternRecord struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Props       []string  `json:"props,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	TextCorpus  string    `json:"text_corpus,omitempty"`
	Keywords    []string  `json:"keywords,omitempty"`
	Embedding   []float32 `json:"embedding,omitempty"`
}

// NewFileSource creates a catalog source reading from the given JSON file.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// LoadPatterns reads and normalizes the catalog file.
func (f *FileSource) LoadPatterns(ctx context.Context) ([]types.Pattern, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog %s: %w", f.path, err)
	}

	var records []patternRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parsing catalog %s: %w", f.path, err)
	}

	patterns := make([]types.Pattern, 0, len(records))
	for _, rec := range records {
		corpus := rec.TextCorpus
		if corpus == "" {
			corpus = composeCorpus(rec.Name, rec.Description, rec.Props, rec.Tags)
		}
		patterns = append(patterns, types.Pattern{
			ID:         rec.ID,
			Name:       rec.Name,
			TextCorpus: corpus,
			Keywords:   rec.Keywords,
			Embedding:  rec.Embedding,
		})
	}

	return Normalize(patterns)
}
