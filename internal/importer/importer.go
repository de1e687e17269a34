// Package importer bulk-creates listings from a YAML or JSON file.
package importer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"campo-listings/internal/models"
	"campo-listings/pkg/apiclient"
	"campo-listings/pkg/logger"
	"campo-listings/pkg/metrics"

	"golang.org/x/time/rate"
	"gopkg.in/yaml.v3"
)

// Creator creates one listing. *services.PropertyService satisfies it.
type Creator interface {
	Create(ctx context.Context, property *models.Property) (*models.Property, error)
}

// ItemResult is the outcome for one listing of the file.
type ItemResult struct {
	Index int    `json:"index" yaml:"index"`
	Title string `json:"title" yaml:"title"`
	ID    string `json:"id,omitempty" yaml:"id,omitempty"`
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}

type Report struct {
	Total   int          `json:"total" yaml:"total"`
	Created int          `json:"created" yaml:"created"`
	Failed  int          `json:"failed" yaml:"failed"`
	Skipped int          `json:"skipped" yaml:"skipped"`
	Items   []ItemResult `json:"items" yaml:"items"`
}

type Importer struct {
	creator Creator
	limiter *rate.Limiter
}

// New returns an importer that creates at most ratePerSecond listings per
// second. A non-positive rate disables throttling.
func New(creator Creator, ratePerSecond float64, burst int) *Importer {
	limit := rate.Limit(ratePerSecond)
	if ratePerSecond <= 0 {
		limit = rate.Inf
	}
	if burst < 1 {
		burst = 1
	}
	return &Importer{creator: creator, limiter: rate.NewLimiter(limit, burst)}
}

type listingsFile struct {
	Properties []models.Property `json:"properties" yaml:"properties"`
}

// LoadFile reads listings from path. The format follows the extension
// (.json, .yaml or .yml); the document is either a list of properties or an
// object with a "properties" list.
func LoadFile(path string) ([]models.Property, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read listings file: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return decodeJSON(data)
	case ".yaml", ".yml":
		return decodeYAML(data)
	default:
		return nil, fmt.Errorf("unsupported listings file extension %q (want .json, .yaml or .yml)", ext)
	}
}

func decodeJSON(data []byte) ([]models.Property, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var list []models.Property
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, fmt.Errorf("failed to parse listings file: %w", err)
		}
		return list, nil
	}
	var doc listingsFile
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse listings file: %w", err)
	}
	return doc.Properties, nil
}

func decodeYAML(data []byte) ([]models.Property, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("failed to parse listings file: %w", err)
	}
	if len(node.Content) == 0 {
		return nil, nil
	}
	root := node.Content[0]
	if root.Kind == yaml.SequenceNode {
		var list []models.Property
		if err := root.Decode(&list); err != nil {
			return nil, fmt.Errorf("failed to parse listings file: %w", err)
		}
		return list, nil
	}
	var doc listingsFile
	if err := root.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse listings file: %w", err)
	}
	return doc.Properties, nil
}

// Run creates every listing in order. A failed listing is recorded and the
// run goes on; cancellation or an expired session stops it, and the
// remaining listings are counted as skipped.
func (im *Importer) Run(ctx context.Context, properties []models.Property) (*Report, error) {
	report := &Report{Total: len(properties), Items: make([]ItemResult, 0, len(properties))}

	for i := range properties {
		p := properties[i]
		if err := im.limiter.Wait(ctx); err != nil {
			report.Skipped = report.Total - i
			return report, stopError(ctx, err)
		}

		item := ItemResult{Index: i, Title: p.Title}
		created, err := im.creator.Create(ctx, &p)
		switch {
		case err == nil:
			item.ID = created.ID
			report.Created++
			metrics.ImportedListingsTotal.WithLabelValues("created").Inc()
		case apiclient.IsCanceled(err) || apiclient.IsUnauthorized(err):
			report.Skipped = report.Total - i
			logger.GlobalLogger.Warnf("Import stopped: index=%d, title=%s, error=%v", i, p.Title, err)
			return report, err
		default:
			item.Error = err.Error()
			report.Failed++
			metrics.ImportedListingsTotal.WithLabelValues("failed").Inc()
			logger.GlobalLogger.Errorf("Failed to import listing: index=%d, title=%s, error=%v", i, p.Title, err)
		}
		report.Items = append(report.Items, item)
	}

	logger.GlobalLogger.Printf("Import finished: total=%d, created=%d, failed=%d", report.Total, report.Created, report.Failed)
	return report, nil
}

// stopError prefers the context's own error over the limiter's wording.
func stopError(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return err
	}
	return fmt.Errorf("import throttled: %w", err)
}
