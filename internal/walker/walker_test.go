package walker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/quantmind-br/snipdocs-go/internal/cache"
	"github.com/quantmind-br/snipdocs-go/internal/domain"
	"github.com/quantmind-br/snipdocs-go/internal/metadata"
	"github.com/quantmind-br/snipdocs-go/internal/mocks"
	"github.com/quantmind-br/snipdocs-go/internal/version"
)

func writeFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func snippetFile(key, ver, body string) string {
	marker := "// startcode " + key
	if ver != "" {
		marker += " " + ver
	}
	return marker + "\n" + body + "\n// endcode\n"
}

func TestWalker_Walk(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.cs", snippetFile("Alpha", "1.0", "a1"))
	writeFile(t, root, "nested/b.cs", snippetFile("Beta", "", "b"))
	writeFile(t, root, "nested/deeper/c.js", snippetFile("Gamma", "2.0", "c"))
	writeFile(t, root, "notes.txt", "no snippets here")

	res, err := New(Options{Workers: 2}).Walk(context.Background(), root)
	require.NoError(t, err)
	assert.Empty(t, res.Errors)
	require.Len(t, res.Snippets, 3)

	assert.Equal(t, "alpha", res.Snippets[0].Key)
	assert.Equal(t, "beta", res.Snippets[1].Key)
	assert.Nil(t, res.Snippets[1].Version)
	assert.Equal(t, "gamma", res.Snippets[2].Key)
	assert.Equal(t, "js", res.Snippets[2].Language)
}

func TestWalker_MetadataInheritance(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "Billing_2.0/a.cs", snippetFile("A", "", "a"))
	writeFile(t, root, "Billing_2.0/sub/b.cs", snippetFile("B", "", "b"))
	writeFile(t, root, "Billing_2.0/sub/c.cs", snippetFile("C", "3.0", "c"))
	writeFile(t, root, "plain/d.cs", snippetFile("D", "", "d"))

	inferrer := metadata.NewInferrer(map[string]string{"billing": "Acme.Billing"})
	res, err := New(Options{ExtractMetadata: inferrer.Extract}).Walk(context.Background(), root)
	require.NoError(t, err)
	require.Len(t, res.Snippets, 4)

	byKey := make(map[string]domain.Snippet)
	for _, s := range res.Snippets {
		byKey[s.Key] = s
	}
	assert.Equal(t, "2.0", version.FormatPtr(byKey["a"].Version))
	assert.Equal(t, "Acme.Billing", byKey["a"].Package)
	assert.Equal(t, "2.0", version.FormatPtr(byKey["b"].Version))
	assert.Equal(t, "Acme.Billing", byKey["b"].Package)
	assert.Equal(t, "3.0", version.FormatPtr(byKey["c"].Version))
	assert.Nil(t, byKey["d"].Version)
	assert.Empty(t, byKey["d"].Package)
}

func TestWalker_CrossFileDuplicate(t *testing.T) {
	root := t.TempDir()
	first := writeFile(t, root, "a.cs", snippetFile("Same", "1.0", "first"))
	second := writeFile(t, root, "b.cs", snippetFile("Same", "1.0", "second"))

	for i := 0; i < 5; i++ {
		res, err := New(Options{Workers: 4}).Walk(context.Background(), root)
		require.NoError(t, err)
		require.Len(t, res.Snippets, 1)
		assert.Equal(t, first, res.Snippets[0].Location.File)
		require.Len(t, res.Errors, 1)
		assert.Contains(t, res.Errors[0].Message, "duplicate key detected. file: "+second)
	}
}

func TestWalker_SoftErrorsCollected(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.cs", "// startcode Open\nnever closed\n")
	writeFile(t, root, "b.cs", "// startcode Quote\n`x`\n// endcode\n")

	res, err := New(Options{}).Walk(context.Background(), root)
	require.NoError(t, err)
	assert.Empty(t, res.Snippets)
	assert.Len(t, res.Errors, 2)
}

func TestWalker_MarkerFailureAborts(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.cs", snippetFile("Good", "", "x"))
	writeFile(t, root, "b.cs", "// startcode _bad_\n")

	_, err := New(Options{}).Walk(context.Background(), root)
	require.Error(t, err)

	var markerErr *domain.MarkerError
	assert.ErrorAs(t, err, &markerErr)
	assert.ErrorIs(t, err, domain.ErrKeySymbols)
}

func TestWalker_BareRegionIsNotAMarker(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "A.cs", "class A {\n    #region\n    int x;\n    #endregion\n}")
	writeFile(t, root, "B.cs", "// startcode foo\nvar y = 2;\n// endcode\n")

	res, err := New(Options{}).Walk(context.Background(), root)
	require.NoError(t, err)
	assert.Empty(t, res.Errors)
	require.Len(t, res.Snippets, 1)
	assert.Equal(t, "foo", res.Snippets[0].Key)
	assert.Equal(t, "var y = 2;", res.Snippets[0].Value)
}

func TestWalker_MissingRoot(t *testing.T) {
	_, err := New(Options{}).Walk(context.Background(), filepath.Join(t.TempDir(), "missing"))

	var readErr *domain.ReadError
	assert.ErrorAs(t, err, &readErr)
}

func TestWalker_MetadataFailureAborts(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.cs", snippetFile("A", "", "a"))
	boom := errors.New("boom")

	_, err := New(Options{
		ExtractMetadata: func(string, domain.Metadata) (domain.Metadata, error) { return domain.Metadata{}, boom },
	}).Walk(context.Background(), root)
	assert.ErrorIs(t, err, boom)
}

func TestWalker_Cancelled(t *testing.T) {
	root := t.TempDir()
	for i := 0; i < 20; i++ {
		writeFile(t, root, filepath.Join("d", string(rune('a'+i))+".cs"), snippetFile("K"+string(rune('a'+i)), "", "x"))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(Options{Workers: 2}).Walk(ctx, root)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCancelled)
	assert.ErrorIs(t, err, context.Canceled)

	var cancelled *domain.CancelledError
	assert.ErrorAs(t, err, &cancelled)
}

func TestWalker_IncludePredicates(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "keep/a.cs", snippetFile("A", "", "a"))
	writeFile(t, root, "skip/b.cs", snippetFile("B", "", "b"))
	writeFile(t, root, "keep/c.md", snippetFile("C", "", "c"))

	res, err := New(Options{
		IncludeDir:  func(path string) bool { return filepath.Base(path) != "skip" },
		IncludeFile: func(path string) bool { return filepath.Ext(path) == ".cs" },
	}).Walk(context.Background(), root)
	require.NoError(t, err)
	require.Len(t, res.Snippets, 1)
	assert.Equal(t, "a", res.Snippets[0].Key)
}

func TestWalker_MaxFileSize(t *testing.T) {
	root := t.TempDir()
	small := snippetFile("Small", "", "s")
	writeFile(t, root, "a.cs", small)
	writeFile(t, root, "b.cs", snippetFile("Large", "", "a much longer body than the small file has"))

	res, err := New(Options{MaxFileSize: int64(len(small))}).Walk(context.Background(), root)
	require.NoError(t, err)
	require.Len(t, res.Snippets, 1)
	assert.Equal(t, "small", res.Snippets[0].Key)
}

func TestWalker_CacheMissStoresResult(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.cs", snippetFile("A", "", "a"))

	ctrl := gomock.NewController(t)
	mockCache := mocks.NewMockCache(ctrl)
	mockCache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, domain.ErrCacheMiss)
	mockCache.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, value []byte, _ time.Duration) error {
			entry, err := cache.DecodeEntry(value)
			require.NoError(t, err)
			assert.Len(t, entry.Result.Snippets, 1)
			return nil
		})

	res, err := New(Options{Cache: mockCache}).Walk(context.Background(), root)
	require.NoError(t, err)
	assert.Len(t, res.Snippets, 1)
}

func TestWalker_CacheHitSkipsFile(t *testing.T) {
	root := t.TempDir()
	path := writeFile(t, root, "a.cs", snippetFile("Fresh", "", "fresh"))

	entry := &cache.Entry{Path: path, Result: domain.ExtractionResult{
		Snippets: []domain.Snippet{{Key: "cached", Language: "cs", Value: "old", Location: domain.Location{File: path, StartLine: 2}}},
	}}
	data, err := entry.Encode()
	require.NoError(t, err)

	ctrl := gomock.NewController(t)
	mockCache := mocks.NewMockCache(ctrl)
	mockCache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(data, nil)

	res, err := New(Options{Cache: mockCache}).Walk(context.Background(), root)
	require.NoError(t, err)
	require.Len(t, res.Snippets, 1)
	assert.Equal(t, "cached", res.Snippets[0].Key)
}

func TestWalker_CacheWriteFailureIsNotFatal(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.cs", snippetFile("A", "", "a"))

	ctrl := gomock.NewController(t)
	mockCache := mocks.NewMockCache(ctrl)
	mockCache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, errors.New("disk gone"))
	mockCache.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("disk gone"))

	res, err := New(Options{Cache: mockCache}).Walk(context.Background(), root)
	require.NoError(t, err)
	assert.Len(t, res.Snippets, 1)
}

func TestWalker_BadgerCacheRoundTrip(t *testing.T) {
	root := t.TempDir()
	path := writeFile(t, root, "a.cs", snippetFile("A", "1.0", "a"))

	c, err := cache.NewBadgerCache(cache.Options{InMemory: true})
	require.NoError(t, err)
	defer c.Close()

	w := New(Options{Cache: c})
	first, err := w.Walk(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, int64(1), c.Size())

	// Unchanged size and mtime hit the cache even though the file is now unreadable.
	require.NoError(t, os.Chmod(path, 0))
	t.Cleanup(func() { _ = os.Chmod(path, 0644) })

	second, err := w.Walk(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, first.Snippets[0].Value, second.Snippets[0].Value)
	assert.Equal(t, "1.0", version.FormatPtr(second.Snippets[0].Version))
}
