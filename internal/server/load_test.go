package server

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"unpolished/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type loadResult struct {
	statusCode int
	duration   time.Duration
	err        error
}

func runConcurrent(total, concurrency int, fn func(i int) loadResult) []loadResult {
	results := make([]loadResult, total)
	var wg sync.WaitGroup
	sem := make(chan struct{}, concurrency)

	for i := 0; i < total; i++ {
		wg.Add(1)
		sem <- struct{}{}

		go func(idx int) {
			defer wg.Done()
			defer func() { <-sem }()
			results[idx] = fn(idx)
		}(i)
	}

	wg.Wait()
	return results
}

func summarize(results []loadResult) (int, time.Duration, time.Duration) {
	failures := 0
	durations := make([]time.Duration, 0, len(results))

	for _, r := range results {
		durations = append(durations, r.duration)
		if r.err != nil || r.statusCode >= 400 {
			failures++
		}
	}

	if len(durations) == 0 {
		return failures, 0, 0
	}

	sort.Slice(durations, func(i, j int) bool {
		return durations[i] < durations[j]
	})

	p95 := durations[int(float64(len(durations)-1)*0.95)]
	return failures, p95, durations[len(durations)-1]
}

func (e *testEnv) timedRequest(method, path, token string, body []byte) loadResult {
	start := time.Now()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := e.app.Test(req, -1)
	if err != nil {
		return loadResult{err: err, duration: time.Since(start)}
	}
	defer func() { _ = resp.Body.Close() }()
	return loadResult{statusCode: resp.StatusCode, duration: time.Since(start)}
}

// TestConcurrentEngagementKeepsCountersExact hammers one blog with parallel
// comments, replies and likes and checks the denormalized counters against
// the stored rows.
func TestConcurrentEngagementKeepsCountersExact(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping load test in short mode")
	}

	env := newTestEnv(t)
	author := env.signup(t, "loadauthor")
	blogID, slug := env.createBlog(t, author, nil)

	const readers = 12
	users := make([]testUser, readers)
	for i := range users {
		users[i] = env.signup(t, fmt.Sprintf("reader%02d", i))
	}

	status, body := env.comment(t, author, blogID, "Pinned: ask me anything", nil)
	require.Equal(t, http.StatusCreated, status, body)
	rootID := commentID(t, body)

	t.Run("CommentsAndReplies", func(t *testing.T) {
		results := runConcurrent(readers*2, 6, func(i int) loadResult {
			payload := map[string]interface{}{"content": fmt.Sprintf("load comment %d", i)}
			if i%2 == 1 {
				payload["parentId"] = rootID
			}
			b, _ := json.Marshal(payload)
			return env.timedRequest(http.MethodPost, fmt.Sprintf("/api/v1/comments/%d", blogID), users[i%readers].Token, b)
		})

		failures, p95, maxDur := summarize(results)
		t.Logf("comment load: requests=%d failures=%d p95=%s max=%s", len(results), failures, p95, maxDur)
		require.Zero(t, failures)
	})

	t.Run("Likes", func(t *testing.T) {
		// Every reader likes twice; the second like must be a no-op.
		results := runConcurrent(readers*2, 6, func(i int) loadResult {
			return env.timedRequest(http.MethodPost, "/api/v1/blog/"+slug+"/like", users[i%readers].Token, nil)
		})
		failures, p95, maxDur := summarize(results)
		t.Logf("like load: requests=%d failures=%d p95=%s max=%s", len(results), failures, p95, maxDur)
		require.Zero(t, failures)
	})

	var blog models.Blog
	require.NoError(t, env.srv.db.First(&blog, blogID).Error)

	var comments, likes int64
	require.NoError(t, env.srv.db.Model(&models.Comment{}).Where("blog_id = ?", blogID).Count(&comments).Error)
	require.NoError(t, env.srv.db.Model(&models.BlogLike{}).Where("blog_id = ?", blogID).Count(&likes).Error)

	assert.Equal(t, int64(1+readers*2), comments)
	assert.Equal(t, int(comments), blog.CommentCount)
	assert.Equal(t, int64(readers), likes)
	assert.Equal(t, int(likes), blog.LikeCount)
	assert.Equal(t, 1+readers*2, env.commentCount(t, slug, author.Token))
}
