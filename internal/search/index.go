package search

import (
	"fmt"
	"strconv"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
)

// Index is a bleve full-text index over page titles and subtitles,
// filterable by category. Both fields are indexed so scoped and
// unscoped search cover the same fields.
type Index struct {
	idx bleve.Index
}

// pageDoc is the shape of a page document in the index. CategoryID is a
// string because term filters operate on untokenized keyword fields.
type pageDoc struct {
	Title      string `json:"title"`
	Subtitle   string `json:"subtitle"`
	CategoryID string `json:"category_id"`
}

// OpenIndex opens the bleve index at path, creating it when absent.
func OpenIndex(path string) (*Index, error) {
	idx, err := bleve.Open(path)
	if err == bleve.ErrorIndexPathDoesNotExist {
		idx, err = bleve.New(path, buildIndexMapping())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open search index: %w", err)
	}
	return &Index{idx: idx}, nil
}

// NewMemoryIndex creates an in-memory index, used by tests.
func NewMemoryIndex() (*Index, error) {
	idx, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory search index: %w", err)
	}
	return &Index{idx: idx}, nil
}

func buildIndexMapping() mapping.IndexMapping {
	titleField := bleve.NewTextFieldMapping()
	titleField.Analyzer = standard.Name

	subtitleField := bleve.NewTextFieldMapping()
	subtitleField.Analyzer = standard.Name

	categoryField := bleve.NewTextFieldMapping()
	categoryField.Analyzer = keyword.Name

	pageMapping := bleve.NewDocumentMapping()
	pageMapping.AddFieldMappingsAt("title", titleField)
	pageMapping.AddFieldMappingsAt("subtitle", subtitleField)
	pageMapping.AddFieldMappingsAt("category_id", categoryField)

	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultMapping = pageMapping
	return indexMapping
}

// IndexPage adds or replaces a page in the index.
func (i *Index) IndexPage(id int64, title, subtitle string, categoryID int64) error {
	doc := pageDoc{
		Title:      title,
		Subtitle:   subtitle,
		CategoryID: strconv.FormatInt(categoryID, 10),
	}
	if err := i.idx.Index(strconv.FormatInt(id, 10), doc); err != nil {
		return fmt.Errorf("failed to index page %d: %w", id, err)
	}
	return nil
}

// DeletePage removes a page from the index.
func (i *Index) DeletePage(id int64) error {
	if err := i.idx.Delete(strconv.FormatInt(id, 10)); err != nil {
		return fmt.Errorf("failed to delete page %d from index: %w", id, err)
	}
	return nil
}

// Search returns the ids of pages in the category matching the query on
// title or subtitle, best first. No match yields an empty slice.
func (i *Index) Search(query string, categoryID int64, limit int) ([]int64, error) {
	titleQuery := bleve.NewMatchQuery(query)
	titleQuery.SetField("title")
	subtitleQuery := bleve.NewMatchQuery(query)
	subtitleQuery.SetField("subtitle")
	textQuery := bleve.NewDisjunctionQuery(titleQuery, subtitleQuery)

	categoryQuery := bleve.NewTermQuery(strconv.FormatInt(categoryID, 10))
	categoryQuery.SetField("category_id")

	searchRequest := bleve.NewSearchRequest(bleve.NewConjunctionQuery(textQuery, categoryQuery))
	searchRequest.Size = limit

	result, err := i.idx.Search(searchRequest)
	if err != nil {
		return nil, fmt.Errorf("search query failed: %w", err)
	}

	ids := make([]int64, 0, len(result.Hits))
	for _, hit := range result.Hits {
		id, err := strconv.ParseInt(hit.ID, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Close releases the underlying index.
func (i *Index) Close() error {
	return i.idx.Close()
}
