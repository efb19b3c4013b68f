package article

import (
	"encoding/json"
	"io"
	"time"
)

type fileDataset struct {
	LastUpdated string    `json:"lastUpdated"`
	Articles    []Article `json:"articles"`
}

// Encode writes articles in the data file format read by Load.
func Encode(w io.Writer, articles []Article, lastUpdated time.Time) error {
	if articles == nil {
		articles = []Article{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(fileDataset{
		LastUpdated: lastUpdated.UTC().Format(time.RFC3339),
		Articles:    articles,
	})
}
