package dupehash

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindDuplicates_HiHiBye(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a.txt": "hi",
		"b.txt": "hi",
		"c.txt": "bye",
	})

	report, err := FindDuplicates(context.Background(), scanOptionsFor(root))
	require.NoError(t, err)

	require.Len(t, report.Groups, 1)
	group := report.Groups[0]
	assert.Equal(t, []string{filepath.Join(root, "a.txt"), filepath.Join(root, "b.txt")}, group.Files)
	assert.Equal(t, uint64(2), group.Size)
	assert.Equal(t, 2, group.Count)
	assert.Equal(t, uint64(2), group.Wasted)
	assert.Equal(t, "8f434346648f6b96df89dda901c5176b10a6d83961dd3c1ac88b59b2dc327aa4", group.Hash)
	assert.Equal(t, uint64(2), report.TotalWasted)

	assert.Equal(t, 3, report.CandidateCount)
	assert.Equal(t, uint64(7), report.CandidateBytes)
	assert.Equal(t, "sha256", report.Algorithm)
	assert.NotEmpty(t, report.RunID)
	assert.False(t, report.NoCandidates())
	assert.False(t, report.HasProblems())
}

func TestFindDuplicates_EmptyDirectory(t *testing.T) {
	report, err := FindDuplicates(context.Background(), scanOptionsFor(t.TempDir()))
	require.NoError(t, err)
	assert.True(t, report.NoCandidates())
	assert.Empty(t, report.Groups)
	assert.Zero(t, report.TotalWasted)
}

func TestFindDuplicates_NonexistentRoot(t *testing.T) {
	report, err := FindDuplicates(context.Background(), scanOptionsFor(filepath.Join(t.TempDir(), "nope")))
	assert.Nil(t, report)
	assert.True(t, IsConfigError(err))
	assert.True(t, errors.Is(err, ErrInvalidRoot))
}

func TestFindDuplicates_Deterministic(t *testing.T) {
	root := t.TempDir()
	files := map[string]string{}
	for _, dir := range []string{"x", "y", "z"} {
		for _, name := range []string{"1", "2", "3", "4"} {
			files[filepath.Join(dir, name)] = "content-" + name
		}
	}
	files["unique"] = "only once"
	writeTree(t, root, files)

	opts := scanOptionsFor(root)
	opts.Recursive = true
	opts.HashWorkers = 8

	first, err := FindDuplicates(context.Background(), opts)
	require.NoError(t, err)
	require.Len(t, first.Groups, 4)

	for i := 0; i < 5; i++ {
		again, err := FindDuplicates(context.Background(), opts)
		require.NoError(t, err)
		assert.Equal(t, first.Groups, again.Groups)
		assert.NotEqual(t, first.RunID, again.RunID)
	}

	for _, g := range first.Groups {
		assert.Equal(t, 3, g.Count)
		assert.Equal(t, g.Size*2, g.Wasted)
	}
}

func TestFindDuplicates_AlgorithmsAgree(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a": "same",
		"b": "same",
		"c": "diff",
		"d": "other size",
	})

	for _, name := range HashAlgorithmNames() {
		t.Run(name, func(t *testing.T) {
			opts := scanOptionsFor(root)
			opts.Algorithm = name
			report, err := FindDuplicates(context.Background(), opts)
			require.NoError(t, err)
			require.Len(t, report.Groups, 1)
			assert.Equal(t, []string{filepath.Join(root, "a"), filepath.Join(root, "b")}, report.Groups[0].Files)
		})
	}
}

func TestFindDuplicates_InvalidOptions(t *testing.T) {
	root := t.TempDir()

	opts := scanOptionsFor(root)
	opts.Algorithm = "nope"
	_, err := FindDuplicates(context.Background(), opts)
	assert.True(t, IsConfigError(err))

	opts = scanOptionsFor(root)
	require.NoError(t, opts.SetSizeBounds("10", "5"))
	_, err = FindDuplicates(context.Background(), opts)
	assert.True(t, IsConfigError(err))
}

func TestFindDuplicates_Cancelled(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a": "x", "b": "x"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := FindDuplicates(ctx, scanOptionsFor(root))
	assert.True(t, errors.Is(err, ErrInterrupted))
}
