package search

import (
	"context"
	"hash/fnv"
	"math"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziadkadry99/atomik/internal/element"
)

// wordEmbedder hashes words into a fixed number of buckets, so texts that
// share words are similar.
type wordEmbedder struct {
	name  string
	calls atomic.Int64
}

const wordDims = 512

func (e *wordEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		e.calls.Add(1)
		v := make([]float32, wordDims)
		words := strings.FieldsFunc(strings.ToLower(t), func(r rune) bool { return !unicode.IsLetter(r) })
		for _, w := range words {
			h := fnv.New32a()
			h.Write([]byte(w))
			v[h.Sum32()%wordDims]++
		}
		var norm float64
		for _, x := range v {
			norm += float64(x * x)
		}
		if norm == 0 {
			v[0], norm = 1, 1
		}
		for j := range v {
			v[j] = float32(float64(v[j]) / math.Sqrt(norm))
		}
		out[i] = v
	}
	return out, nil
}

func (e *wordEmbedder) Name() string { return e.name }

func smallCatalog(t *testing.T) *element.Catalog {
	t.Helper()
	full, err := element.Default()
	require.NoError(t, err)

	var recs []element.Record
	for _, sym := range []string{"H", "He", "Fe"} {
		r, err := full.BySymbol(sym)
		require.NoError(t, err)
		recs = append(recs, r)
	}
	cat, err := element.New(recs)
	require.NoError(t, err)
	return cat
}

func TestSearchBeforeBuild(t *testing.T) {
	ix := New(smallCatalog(t), &wordEmbedder{name: "words"})
	assert.False(t, ix.Ready())

	_, err := ix.Search(context.Background(), "steel", 3, "")
	assert.ErrorIs(t, err, ErrNotReady)
	_, err = ix.Search(context.Background(), "  ", 3, "")
	assert.ErrorIs(t, err, ErrEmptyQuery)
	assert.ErrorIs(t, ix.Save(filepath.Join(t.TempDir(), "x.gob.gz")), ErrNotReady)
}

func TestSearchRanksBySharedWords(t *testing.T) {
	ctx := context.Background()
	ix := New(smallCatalog(t), &wordEmbedder{name: "words"})
	require.NoError(t, ix.Build(ctx))
	require.True(t, ix.Ready())

	hits, err := ix.Search(ctx, "hemoglobin steel", 0, "")
	require.NoError(t, err)
	require.Len(t, hits, 3)
	assert.Equal(t, "Fe", hits[0].Element.Symbol)
	assert.Greater(t, hits[0].Similarity, hits[1].Similarity)

	hits, err = ix.Search(ctx, "stars", 1, "")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "H", hits[0].Element.Symbol)
}

func TestSearchFiltersByCategory(t *testing.T) {
	ctx := context.Background()
	ix := New(smallCatalog(t), &wordEmbedder{name: "words"})
	require.NoError(t, ix.Build(ctx))

	hits, err := ix.Search(ctx, "steel", 10, element.CategoryNobleGas)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "He", hits[0].Element.Symbol)

	hits, err = ix.Search(ctx, "steel", 10, element.CategoryLanthanide)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestLoadOrBuildReusesSavedIndex(t *testing.T) {
	ctx := context.Background()
	cat := smallCatalog(t)
	path := filepath.Join(t.TempDir(), "data", "search.gob.gz")

	first := &wordEmbedder{name: "words"}
	built, err := New(cat, first).LoadOrBuild(ctx, path)
	require.NoError(t, err)
	assert.True(t, built)
	assert.Equal(t, int64(3), first.calls.Load())

	second := &wordEmbedder{name: "words"}
	ix := New(cat, second)
	built, err = ix.LoadOrBuild(ctx, path)
	require.NoError(t, err)
	assert.False(t, built)
	assert.Zero(t, second.calls.Load())

	hits, err := ix.Search(ctx, "hemoglobin", 1, "")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "Fe", hits[0].Element.Symbol)
}

func TestLoadRejectsOtherEmbedder(t *testing.T) {
	ctx := context.Background()
	cat := smallCatalog(t)
	path := filepath.Join(t.TempDir(), "search.gob.gz")

	ix := New(cat, &wordEmbedder{name: "words"})
	require.NoError(t, ix.Build(ctx))
	require.NoError(t, ix.Save(path))

	other := New(cat, &wordEmbedder{name: "other-model"})
	assert.ErrorIs(t, other.Load(path), ErrStale)

	built, err := other.LoadOrBuild(ctx, path)
	require.NoError(t, err)
	assert.True(t, built)
}

func TestDocumentMentionsIdentity(t *testing.T) {
	rec := element.Record{AtomicNumber: 26, Symbol: "Fe", Name: "Iron", Category: element.CategoryTransitionMetal,
		Group: 8, Period: 4, Block: "d", Summary: "Core of steel."}
	doc := Document(rec)
	for _, want := range []string{"Iron (Fe)", "element 26", "Transition Metal", "d-block", "Core of steel."} {
		assert.Contains(t, doc, want)
	}
}
