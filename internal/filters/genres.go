package filters

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	bleveQuery "github.com/blevesearch/bleve/v2/search/query"

	"github.com/pders01/marquee/internal/catalog"
)

// GenreIndex answers typed lookups over the genre reference list.
type GenreIndex struct {
	idx    bleve.Index
	byID   map[int]catalog.Genre
	sorted []catalog.Genre
}

// NewGenreIndex builds an in-memory index over genres.
func NewGenreIndex(genres []catalog.Genre) (*GenreIndex, error) {
	idx, err := bleve.NewMemOnly(buildGenreMapping())
	if err != nil {
		return nil, fmt.Errorf("creating genre index: %w", err)
	}

	gi := &GenreIndex{idx: idx, byID: make(map[int]catalog.Genre, len(genres))}
	batch := idx.NewBatch()
	for _, g := range genres {
		if _, dup := gi.byID[g.ID]; dup {
			continue
		}
		gi.byID[g.ID] = g
		gi.sorted = append(gi.sorted, g)
		if err := batch.Index(strconv.Itoa(g.ID), map[string]any{"name": g.Name}); err != nil {
			idx.Close()
			return nil, err
		}
	}
	if err := idx.Batch(batch); err != nil {
		idx.Close()
		return nil, fmt.Errorf("indexing genres: %w", err)
	}
	sortByName(gi.sorted)
	return gi, nil
}

func buildGenreMapping() mapping.IndexMapping {
	im := bleve.NewIndexMapping()
	im.DefaultAnalyzer = standard.Name

	dm := bleve.NewDocumentMapping()
	name := bleve.NewTextFieldMapping()
	name.Analyzer = standard.Name
	name.Store = false
	dm.AddFieldMappingsAt("name", name)

	im.DefaultMapping = dm
	return im
}

func (g *GenreIndex) Close() error {
	return g.idx.Close()
}

// All returns every genre ordered by name.
func (g *GenreIndex) All() []catalog.Genre {
	out := make([]catalog.Genre, len(g.sorted))
	copy(out, g.sorted)
	return out
}

// Name resolves a genre id, or "" when unknown.
func (g *GenreIndex) Name(id int) string {
	return g.byID[id].Name
}

// Names resolves ids in order, skipping unknown ones.
func (g *GenreIndex) Names(ids []int) []string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if n := g.Name(id); n != "" {
			names = append(names, n)
		}
	}
	return names
}

// Lookup returns genres whose name words start with every typed word.
// An empty prefix returns all genres.
func (g *GenreIndex) Lookup(prefix string) ([]catalog.Genre, error) {
	words := strings.Fields(strings.ToLower(prefix))
	if len(words) == 0 {
		return g.All(), nil
	}

	qs := make([]bleveQuery.Query, 0, len(words))
	for _, w := range words {
		q := bleve.NewPrefixQuery(w)
		q.SetField("name")
		qs = append(qs, q)
	}
	req := bleve.NewSearchRequestOptions(bleve.NewConjunctionQuery(qs...), len(g.byID)+1, 0, false)
	res, err := g.idx.Search(req)
	if err != nil {
		return nil, err
	}

	out := make([]catalog.Genre, 0, len(res.Hits))
	for _, h := range res.Hits {
		id, err := strconv.Atoi(h.ID)
		if err != nil {
			continue
		}
		if genre, ok := g.byID[id]; ok {
			out = append(out, genre)
		}
	}
	sortByName(out)
	return out, nil
}

func sortByName(genres []catalog.Genre) {
	sort.Slice(genres, func(i, j int) bool {
		return strings.ToLower(genres[i].Name) < strings.ToLower(genres[j].Name)
	})
}
