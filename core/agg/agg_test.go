package agg

import (
	"context"
	"errors"
	"math/rand/v2"
	"os/exec"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/huangsam/blameshare/internal/contract"
	"github.com/huangsam/blameshare/internal/gittest"
	"github.com/huangsam/blameshare/internal/iocache"
	"github.com/huangsam/blameshare/schema"
)

const (
	testRepo   = "/test/repo"
	testCommit = "0123456789abcdef0123456789abcdef01234567"
)

func testConfig() *contract.Config {
	return &contract.Config{
		RepoPath:     testRepo,
		Revision:     "HEAD",
		Workers:      1,
		BlameBackend: schema.GitBlame,
		Source:       schema.WalkSource,
		OnBlameError: schema.SkipOnError,
	}
}

func hunk(author string, lines int) schema.BlameHunk {
	return schema.BlameHunk{Commit: testCommit, Author: schema.ContributorIdentity(author), Lines: lines}
}

func TestCountFileAuthors(t *testing.T) {
	ctx := context.Background()

	t.Run("sums hunks per author", func(t *testing.T) {
		client := &contract.MockGitClient{}
		hunks := []schema.BlameHunk{hunk("alice@x.com", 3), hunk("bob@y.com", 2), hunk("alice@x.com", 5)}
		client.On("Blame", ctx, testRepo, testCommit, "a.go").Return(hunks, nil)

		counts, err := CountFileAuthors(ctx, client, testRepo, testCommit, "a.go")
		require.NoError(t, err)
		assert.Equal(t, schema.AuthorCountTable{"alice@x.com": 8, "bob@y.com": 2}, counts)

		var hunkTotal int
		for _, h := range hunks {
			hunkTotal += h.Lines
		}
		assert.Equal(t, schema.LineCount(hunkTotal), counts.Total())
		client.AssertExpectations(t)
	})

	t.Run("empty file", func(t *testing.T) {
		client := &contract.MockGitClient{}
		client.On("Blame", ctx, testRepo, testCommit, "empty.txt").Return([]schema.BlameHunk{}, nil)

		counts, err := CountFileAuthors(ctx, client, testRepo, testCommit, "empty.txt")
		require.NoError(t, err)
		assert.Empty(t, counts)
	})

	t.Run("blame failure", func(t *testing.T) {
		client := &contract.MockGitClient{}
		client.On("Blame", ctx, testRepo, testCommit, "gone.go").Return(nil, errors.New("no such path"))

		_, err := CountFileAuthors(ctx, client, testRepo, testCommit, "gone.go")
		var blameErr *schema.BlameUnavailableError
		require.ErrorAs(t, err, &blameErr)
		assert.Equal(t, "gone.go", blameErr.Path)
		assert.Equal(t, testCommit, blameErr.Rev)
	})

	t.Run("canceled context is not a blame failure", func(t *testing.T) {
		canceled, cancel := context.WithCancel(ctx)
		cancel()
		client := &contract.MockGitClient{}
		client.On("Blame", canceled, testRepo, testCommit, "a.go").Return(nil, errors.New("signal: killed"))

		_, err := CountFileAuthors(canceled, client, testRepo, testCommit, "a.go")
		assert.ErrorIs(t, err, context.Canceled)
		var blameErr *schema.BlameUnavailableError
		assert.False(t, errors.As(err, &blameErr))
	})
}

func TestAggregateTree(t *testing.T) {
	ctx := context.Background()

	t.Run("two contributors", func(t *testing.T) {
		client := &contract.MockGitClient{}
		client.On("Blame", mock.Anything, testRepo, testCommit, "a.go").Return([]schema.BlameHunk{hunk("alice@x.com", 10), hunk("bob@y.com", 10)}, nil)
		client.On("Blame", mock.Anything, testRepo, testCommit, "b.go").Return([]schema.BlameHunk{hunk("bob@y.com", 20)}, nil)

		result, err := AggregateTree(ctx, testConfig(), client, nil, testCommit, []string{"a.go", "b.go"})
		require.NoError(t, err)
		assert.Equal(t, schema.AuthorCountTable{"alice@x.com": 10, "bob@y.com": 30}, result.Counts)
		assert.Equal(t, 2, result.Files)
		assert.Empty(t, result.Skipped)
	})

	t.Run("no files", func(t *testing.T) {
		result, err := AggregateTree(ctx, testConfig(), &contract.MockGitClient{}, nil, testCommit, nil)
		require.NoError(t, err)
		assert.Empty(t, result.Counts)
		assert.Zero(t, result.Files)
	})

	t.Run("skip policy continues", func(t *testing.T) {
		client := &contract.MockGitClient{}
		client.On("Blame", mock.Anything, testRepo, testCommit, "a.go").Return([]schema.BlameHunk{hunk("alice@x.com", 4)}, nil)
		client.On("Blame", mock.Anything, testRepo, testCommit, "untracked.go").Return(nil, errors.New("no such path"))

		result, err := AggregateTree(ctx, testConfig(), client, nil, testCommit, []string{"untracked.go", "a.go"})
		require.NoError(t, err)
		assert.Equal(t, schema.AuthorCountTable{"alice@x.com": 4}, result.Counts)
		assert.Equal(t, 1, result.Files)
		assert.Equal(t, []string{"untracked.go"}, result.Skipped)
	})

	t.Run("abort policy stops", func(t *testing.T) {
		cfg := testConfig()
		cfg.OnBlameError = schema.AbortOnError
		client := &contract.MockGitClient{}
		client.On("Blame", mock.Anything, testRepo, testCommit, "untracked.go").Return(nil, errors.New("no such path"))

		_, err := AggregateTree(ctx, cfg, client, nil, testCommit, []string{"untracked.go", "a.go"})
		var blameErr *schema.BlameUnavailableError
		require.ErrorAs(t, err, &blameErr)
		assert.Equal(t, "untracked.go", blameErr.Path)
		client.AssertNotCalled(t, "Blame", mock.Anything, testRepo, testCommit, "a.go")
	})

	t.Run("canceled context", func(t *testing.T) {
		canceled, cancel := context.WithCancel(ctx)
		cancel()
		_, err := AggregateTree(canceled, testConfig(), &contract.MockGitClient{}, nil, testCommit, []string{"a.go"})
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("order and concurrency do not matter", func(t *testing.T) {
		client := &contract.MockGitClient{}
		var files []string
		for i := range 40 {
			path := string(rune('a'+i%26)) + "/" + string(rune('a'+i/26)) + ".go"
			files = append(files, path)
			authors := []string{"alice@x.com", "bob@y.com", "carol@z.com"}
			client.On("Blame", mock.Anything, testRepo, testCommit, path).Return([]schema.BlameHunk{
				hunk(authors[i%3], i+1),
				hunk(authors[(i+1)%3], 2),
			}, nil)
		}

		sequential, err := AggregateTree(ctx, testConfig(), client, nil, testCommit, files)
		require.NoError(t, err)

		shuffled := slices.Clone(files)
		rand.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		cfg := testConfig()
		cfg.Workers = 8
		parallel, err := AggregateTree(ctx, cfg, client, nil, testCommit, shuffled)
		require.NoError(t, err)

		if diff := cmp.Diff(sequential.Counts, parallel.Counts); diff != "" {
			t.Errorf("tree counts differ (-sequential +parallel):\n%s", diff)
		}
		assert.Equal(t, sequential.Files, parallel.Files)
	})

	t.Run("cache hit skips blame", func(t *testing.T) {
		store := &iocache.MockCacheStore{}
		mgr := &iocache.MockCacheManager{}
		mgr.On("GetBlameStore").Return(store)

		key := generateCacheKey(testRepo, testCommit, schema.GitBlame, "a.go")
		store.On("Get", key).Return([]byte(`{"alice@x.com":7}`), currentCacheVersion, int64(1), nil)

		client := &contract.MockGitClient{}
		result, err := AggregateTree(ctx, testConfig(), client, mgr, testCommit, []string{"a.go"})
		require.NoError(t, err)
		assert.Equal(t, schema.AuthorCountTable{"alice@x.com": 7}, result.Counts)
		client.AssertNotCalled(t, "Blame", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		store.AssertExpectations(t)
	})
}

func TestAggregateTreeRealRepo(t *testing.T) {
	ctx := context.Background()
	repo := gittest.InitRepo(t,
		gittest.Commit{Email: "alice@x.com", Files: map[string]string{
			"a.txt": gittest.Lines("alice-", 10),
		}},
		gittest.Commit{Email: "bob@y.com", Files: map[string]string{
			"b.txt":     gittest.Lines("bob-", 20),
			"dir/c.txt":    gittest.Lines("bob-", 10),
			"dir/café.txt": gittest.Lines("bob-", 5),
			"logo.png":     "not really an image\n",
		}},
	)

	clients := map[string]contract.GitClient{"gogit": contract.NewGoGitClient()}
	if _, err := exec.LookPath("git"); err == nil {
		clients["git"] = contract.NewLocalGitClient()
	}

	for name, client := range clients {
		t.Run(name, func(t *testing.T) {
			cfg := testConfig()
			cfg.RepoPath = repo
			cfg.BlameBackend = schema.BlameBackend(name)

			commit, err := client.ResolveRevision(ctx, repo, "HEAD")
			require.NoError(t, err)
			files, err := CollectFiles(ctx, cfg, client, commit)
			require.NoError(t, err)
			assert.Equal(t, []string{"a.txt", "b.txt", "dir/c.txt", "dir/café.txt"}, files)

			tracked := *cfg
			tracked.Source = schema.TrackedSource
			trackedFiles, err := CollectFiles(ctx, &tracked, client, commit)
			require.NoError(t, err)
			assert.Equal(t, files, trackedFiles)

			result, err := AggregateTree(ctx, cfg, client, nil, commit, files)
			require.NoError(t, err)
			assert.Equal(t, schema.AuthorCountTable{"alice@x.com": 10, "bob@y.com": 35}, result.Counts)
			assert.Equal(t, 4, result.Files)
		})
	}
}
