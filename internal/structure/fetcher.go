// Package structure fetches PDB structure files from public mirrors.
package structure

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/foldcraft/foldcraft-api/internal/logger"
)

const (
	defaultTimeout  = 20 * time.Second
	maxPayloadBytes = 32 << 20 // structure files are small; anything bigger is wrong
)

// ErrNotFound is returned when no mirror could serve the structure. Callers
// treat this as non-fatal: the design is shown without a 3D render.
var ErrNotFound = errors.New("structure not available from any source")

// Fetcher retrieves structure files by PDB ID, trying an ordered list of
// mirrors and short-circuiting on the first success. Fallback is across
// sources, not across attempts - there is no per-URL retry.
type Fetcher struct {
	client  *http.Client
	sources []Source
}

// Source is one templated mirror URL.
type Source struct {
	Name    string
	BaseURL string
}

// NewFetcher creates a fetcher over the given mirrors, tried in order.
func NewFetcher(rcsbBaseURL, pdbeBaseURL string) *Fetcher {
	return &Fetcher{
		client: &http.Client{Timeout: defaultTimeout},
		sources: []Source{
			{Name: "rcsb", BaseURL: strings.TrimSuffix(rcsbBaseURL, "/")},
			{Name: "pdbe", BaseURL: strings.TrimSuffix(pdbeBaseURL, "/")},
		},
	}
}

// Payload is one fetched structure file.
type Payload struct {
	PDBID  string
	Source string
	Body   string
}

// Fetch normalizes the identifier to uppercase and returns the first mirror's
// successful body. All sources failing yields ErrNotFound.
func (f *Fetcher) Fetch(ctx context.Context, pdbID string) (*Payload, error) {
	id := strings.ToUpper(strings.TrimSpace(pdbID))
	if id == "" {
		return nil, fmt.Errorf("empty pdb id: %w", ErrNotFound)
	}

	for _, source := range f.sources {
		url := f.fileURL(source, id)
		body, err := f.get(ctx, url)
		if err != nil {
			logger.Warn("Structure source failed", logger.Fields{
				"pdb_id": id,
				"source": source.Name,
				"error":  err.Error(),
			})
			continue
		}

		log.Printf("🧱 Structure %s fetched from %s (%d bytes)", id, source.Name, len(body))
		return &Payload{PDBID: id, Source: source.Name, Body: body}, nil
	}

	return nil, fmt.Errorf("pdb id %s: %w", id, ErrNotFound)
}

func (f *Fetcher) fileURL(source Source, id string) string {
	// Both RCSB and PDBe serve flat <base>/<file> downloads; they differ only
	// in file name casing.
	name := id + ".pdb"
	if source.Name == "pdbe" {
		name = "pdb" + strings.ToLower(id) + ".ent"
	}
	return source.BaseURL + "/" + name
}

func (f *Fetcher) get(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadBytes))
	if err != nil {
		return "", err
	}
	if len(body) == 0 {
		return "", fmt.Errorf("empty body")
	}

	return string(body), nil
}
