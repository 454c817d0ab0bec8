// Package suggest offers "did you mean" song titles for lookups that match nothing.
package suggest

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	blevequery "github.com/blevesearch/bleve/v2/search/query"
)

const (
	titleField       = "title"
	defaultFuzziness = 2
	batchSize        = 1000
)

// Index is an in-memory Bleve index over song titles. It is built once per dataset load
// and never updated in place.
type Index struct {
	index     bleve.Index
	fuzziness int
}

// Build indexes titles into a new in-memory index. fuzziness is the maximum edit
// distance per query term (1 or 2); other values use 2.
func Build(titles []string, fuzziness int) (*Index, error) {
	im := bleve.NewIndexMapping()
	docMapping := bleve.NewDocumentMapping()
	// Standard analyzer (lowercase + tokenize, no stemming) so fuzzy terms compare against whole words.
	titleMapping := bleve.NewTextFieldMapping()
	titleMapping.Analyzer = standard.Name
	titleMapping.Store = true
	docMapping.AddFieldMappingsAt(titleField, titleMapping)
	im.DefaultMapping = docMapping

	index, err := bleve.NewMemOnly(im)
	if err != nil {
		return nil, fmt.Errorf("failed to create suggestion index: %w", err)
	}

	batch := index.NewBatch()
	for i, title := range titles {
		if strings.TrimSpace(title) == "" {
			continue
		}
		if err := batch.Index(strconv.Itoa(i), map[string]interface{}{titleField: title}); err != nil {
			_ = index.Close()
			return nil, fmt.Errorf("index title %d: %w", i, err)
		}
		if batch.Size() >= batchSize {
			if err := index.Batch(batch); err != nil {
				_ = index.Close()
				return nil, fmt.Errorf("index batch: %w", err)
			}
			batch.Reset()
		}
	}
	if batch.Size() > 0 {
		if err := index.Batch(batch); err != nil {
			_ = index.Close()
			return nil, fmt.Errorf("index batch: %w", err)
		}
	}

	if fuzziness < 1 || fuzziness > 2 {
		fuzziness = defaultFuzziness
	}
	return &Index{index: index, fuzziness: fuzziness}, nil
}

// Suggest returns up to limit distinct titles that fuzzily match any query term,
// best match first. Titles differing only in case count once.
func (x *Index) Suggest(ctx context.Context, query string, limit int) ([]string, error) {
	terms := tokenizeQuery(query)
	if len(terms) == 0 || limit <= 0 {
		return nil, nil
	}
	req := bleve.NewSearchRequest(x.buildFuzzyQuery(terms))
	// Over-fetch so duplicates of popular titles don't crowd out distinct ones.
	req.Size = limit * 4
	req.Fields = []string{titleField}
	res, err := x.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("suggestion search failed: %w", err)
	}

	seen := make(map[string]struct{}, limit)
	out := make([]string, 0, limit)
	for _, hit := range res.Hits {
		title, ok := hit.Fields[titleField].(string)
		if !ok {
			continue
		}
		key := strings.ToLower(title)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, title)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

// DocCount returns the number of indexed titles.
func (x *Index) DocCount() (uint64, error) {
	return x.index.DocCount()
}

// Close releases the index.
func (x *Index) Close() error {
	return x.index.Close()
}

// buildFuzzyQuery ORs one FuzzyQuery per term over the title field.
func (x *Index) buildFuzzyQuery(terms []string) blevequery.Query {
	if len(terms) == 1 {
		fq := bleve.NewFuzzyQuery(terms[0])
		fq.SetFuzziness(x.fuzziness)
		fq.SetField(titleField)
		return fq
	}
	queries := make([]blevequery.Query, 0, len(terms))
	for _, term := range terms {
		fq := bleve.NewFuzzyQuery(term)
		fq.SetFuzziness(x.fuzziness)
		fq.SetField(titleField)
		queries = append(queries, fq)
	}
	return bleve.NewDisjunctionQuery(queries...)
}

// tokenizeQuery splits query into lowercase terms, filtering out empty strings.
func tokenizeQuery(query string) []string {
	words := strings.Fields(strings.ToLower(query))
	terms := make([]string, 0, len(words))
	for _, w := range words {
		if w = strings.TrimSpace(w); w != "" {
			terms = append(terms, w)
		}
	}
	return terms
}
