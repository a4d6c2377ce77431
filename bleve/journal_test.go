package bleve

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mcsc "github.com/tashrifatdiu/mcsc-client"
)

func createIndex(t *testing.T) (*JournalIndex, func()) {
	t.Helper()

	dir, err := ioutil.TempDir("", "")
	if err != nil {
		t.Fatal("could not create tmp dir:", err)
	}

	index := &JournalIndex{}
	if err := index.Open(filepath.Join(dir, "journals.bleve")); err != nil {
		os.RemoveAll(dir)
		t.Fatal("error creating index:", err)
	}

	return index, func() {
		if err := index.Close(); err != nil {
			t.Log(err)
		}
		if err := os.RemoveAll(dir); err != nil {
			t.Log(err)
		}
	}
}

func seed(t *testing.T, index *JournalIndex) {
	t.Helper()
	journals := []*mcsc.Journal{
		{ID: "1", Title: "Prime gaps", BodyHTML: "<p>On the distribution of primes.</p>", AuthorName: "Tamanna"},
		{ID: "2", Title: "Club picnic recap", BodyHTML: "<p>We went to the lake.</p>", AuthorName: "Rifat"},
		{ID: "3", Title: "Collatz musings", BodyHTML: "<p>Primes show up everywhere.</p>", AuthorName: "Tamanna"},
		{ID: "4", Title: "Monte Carlo methods", BodyHTML: "<p>Random sampling in practice.</p>", AuthorName: "Sadia"},
	}
	for _, j := range journals {
		require.NoError(t, index.Index(j))
	}
}

func TestSearch(t *testing.T) {
	index, f := createIndex(t)
	defer f()
	seed(t, index)

	for name, tt := range map[string]struct {
		q        string
		expected []string
	}{
		"title match":      {q: "picnic", expected: []string{"2"}},
		"body match":       {q: "lake", expected: []string{"2"}},
		"title and body":   {q: "prime", expected: []string{"1", "3"}},
		"prefix":           {q: "coll", expected: []string{"3"}},
		"author":           {q: "sadia", expected: []string{"4"}},
		"all words needed": {q: "prime picnic", expected: []string{}},
		"no match":         {q: "volleyball", expected: []string{}},
	} {
		t.Run(name, func(t *testing.T) {
			res, err := index.Search(mcsc.JournalSearch{Q: tt.q})
			require.NoError(t, err)
			assert.ElementsMatch(t, tt.expected, res.IDs)
		})
	}
}

func TestSearchEmptyQueryReturnsAll(t *testing.T) {
	index, f := createIndex(t)
	defer f()
	seed(t, index)

	res, err := index.Search(mcsc.JournalSearch{})
	require.NoError(t, err)
	assert.Equal(t, uint64(4), res.Total)
}

func TestSearchPagination(t *testing.T) {
	index, f := createIndex(t)
	defer f()
	seed(t, index)

	res, err := index.Search(mcsc.JournalSearch{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, res.IDs, 2)
	assert.Equal(t, uint64(4), res.Total)

	rest, err := index.Search(mcsc.JournalSearch{Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Len(t, rest.IDs, 2)
	assert.NotEqual(t, res.IDs, rest.IDs)
}

func TestDelete(t *testing.T) {
	index, f := createIndex(t)
	defer f()
	seed(t, index)

	require.NoError(t, index.Delete("2"))

	res, err := index.Search(mcsc.JournalSearch{Q: "picnic"})
	require.NoError(t, err)
	assert.Empty(t, res.IDs)
}

func TestIndexUpdatesInPlace(t *testing.T) {
	index, f := createIndex(t)
	defer f()

	j := &mcsc.Journal{ID: "1", Title: "Draft title"}
	require.NoError(t, index.Index(j))

	j.Title = "Final title"
	require.NoError(t, index.Index(j))

	res, err := index.Search(mcsc.JournalSearch{Q: "final"})
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, res.IDs)

	res, err = index.Search(mcsc.JournalSearch{Q: "draft"})
	require.NoError(t, err)
	assert.Empty(t, res.IDs)
}
