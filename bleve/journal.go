package bleve

import (
	"strings"

	"github.com/blevesearch/bleve"
	"github.com/blevesearch/bleve/analysis/lang/en"
	"github.com/blevesearch/bleve/mapping"
	"github.com/blevesearch/bleve/search/query"
	"golang.org/x/net/html"

	mcsc "github.com/tashrifatdiu/mcsc-client"
)

// JournalIndex is the local full-text index over fetched journals, so search
// works offline and without API support.
type JournalIndex struct {
	index bleve.Index
}

// Open opens the index at path, creating it on first run.
func (s *JournalIndex) Open(path string) error {
	index, err := bleve.Open(path)
	if err == bleve.ErrorIndexPathDoesNotExist {
		index, err = bleve.New(path, indexMapping())
	}
	if err != nil {
		return err
	}

	s.index = index
	return nil
}

func (s *JournalIndex) Close() error {
	if s.index == nil {
		return nil
	}

	return s.index.Close()
}

func indexMapping() *mapping.IndexMappingImpl {
	m := bleve.NewIndexMapping()
	m.DefaultAnalyzer = en.AnalyzerName
	return m
}

// Index indexes one journal. The body is indexed as plain text, markup
// stripped.
func (s *JournalIndex) Index(journal *mcsc.Journal) error {
	data := map[string]interface{}{
		"title":  journal.Title,
		"body":   stripMarkup(journal.BodyHTML),
		"author": journal.AuthorName,
	}

	return s.index.Index(journal.ID, data)
}

func (s *JournalIndex) Delete(id string) error {
	return s.index.Delete(id)
}

// Search runs a prefix search over titles and bodies. Every word of the query
// must match somewhere.
func (s *JournalIndex) Search(search mcsc.JournalSearch) (mcsc.JournalSearchResults, error) {
	q := andQ(
		query.NewMatchAllQuery(),
		s.searchTitleOrBody(search.Q),
	)

	searchRequest := bleve.NewSearchRequest(q)
	searchRequest.SortBy([]string{"-_score", "_id"})

	if search.Limit > 0 {
		searchRequest.Size = int(search.Limit)
	}
	searchRequest.From = int(search.Offset)

	searchResults, err := s.index.Search(searchRequest)
	if err != nil {
		return mcsc.JournalSearchResults{}, err
	}

	ids := make([]string, len(searchResults.Hits))
	for i, hit := range searchResults.Hits {
		ids[i] = hit.ID
	}

	return mcsc.JournalSearchResults{
		IDs:   ids,
		Total: searchResults.Total,
	}, nil
}

func (s *JournalIndex) searchTitleOrBody(queryString string) query.Query {
	words := strings.Fields(queryString)

	ands := make([]query.Query, 0, len(words))
	for _, word := range words {
		ands = append(ands, orQ(
			s.prefixQuery(word, "title"),
			s.prefixQuery(word, "body"),
			s.prefixQuery(word, "author"),
		))
	}

	return andQ(ands...)
}

func (s *JournalIndex) prefixQuery(queryString, field string) query.Query {
	analyzer := s.index.Mapping().AnalyzerNamed(en.AnalyzerName)
	tokens := analyzer.Analyze([]byte(queryString))
	if len(tokens) == 0 {
		return nil
	}

	conjuncs := make([]query.Query, len(tokens))
	for i, token := range tokens {
		conjuncs[i] = &query.PrefixQuery{
			Prefix:   string(token.Term),
			FieldVal: field,
		}
	}

	return query.NewConjunctionQuery(conjuncs)
}

func andQ(qs ...query.Query) query.Query {
	ands := make([]query.Query, 0, len(qs))
	for _, q := range qs {
		if q != nil {
			ands = append(ands, q)
		}
	}

	if len(ands) == 0 {
		return nil
	}
	return query.NewConjunctionQuery(ands)
}

func orQ(qs ...query.Query) query.Query {
	ors := make([]query.Query, 0, len(qs))
	for _, q := range qs {
		if q != nil {
			ors = append(ors, q)
		}
	}

	if len(ors) == 0 {
		return nil
	}
	return query.NewDisjunctionQuery(ors)
}

// stripMarkup flattens stored HTML to the text the index should see.
func stripMarkup(bodyHTML string) string {
	doc, err := html.Parse(strings.NewReader(bodyHTML))
	if err != nil {
		return bodyHTML
	}

	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return strings.TrimSpace(b.String())
}
