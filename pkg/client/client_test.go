package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"unpolished/internal/models"
	"unpolished/pkg/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeJSON(t *testing.T, w http.ResponseWriter, status int, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestFeed_ListingCacheExpiresAfterThirtyMinutes(t *testing.T) {
	var hits atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/blog/feed", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		writeJSON(t, w, http.StatusOK, FeedPage{
			Blogs:      []*models.Blog{{ID: 1, Title: "Go " + r.URL.Query().Get("interest")}},
			Pagination: schema.NewPagination(20, 0, 1),
		})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c := New(srv.URL)
	c.listings.now = func() time.Time { return now }
	ctx := context.Background()

	page, err := c.Feed(ctx, FeedQuery{Interest: "go"})
	require.NoError(t, err)
	assert.Equal(t, "Go go", page.Blogs[0].Title)

	_, err = c.Feed(ctx, FeedQuery{Interest: " GO "})
	require.NoError(t, err)
	assert.Equal(t, int32(1), hits.Load(), "same interest is served from cache")

	_, err = c.Feed(ctx, FeedQuery{Interest: "rust"})
	require.NoError(t, err)
	assert.Equal(t, int32(2), hits.Load())

	_, err = c.Feed(ctx, FeedQuery{Interest: "go", Offset: 20})
	require.NoError(t, err)
	assert.Equal(t, int32(3), hits.Load(), "later pages are never cached")

	now = now.Add(29 * time.Minute)
	_, err = c.Feed(ctx, FeedQuery{Interest: "go"})
	require.NoError(t, err)
	assert.Equal(t, int32(3), hits.Load())

	now = now.Add(time.Minute)
	_, err = c.Feed(ctx, FeedQuery{Interest: "go"})
	require.NoError(t, err)
	assert.Equal(t, int32(4), hits.Load(), "entry expires 30 minutes after it was stored")

	_, err = c.Feed(ctx, FeedQuery{Interest: "go", Fresh: true})
	require.NoError(t, err)
	assert.Equal(t, int32(5), hits.Load())
}

func TestCreateBlog_InvalidatesListings(t *testing.T) {
	var feedHits atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/blog/feed", func(w http.ResponseWriter, r *http.Request) {
		feedHits.Add(1)
		writeJSON(t, w, http.StatusOK, FeedPage{})
	})
	mux.HandleFunc("POST /api/v1/blog", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusCreated, map[string]any{"message": "blog created successfully", "blog": models.Blog{ID: 9, Slug: "new-post"}})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := New(srv.URL, WithToken("tok"))
	ctx := context.Background()
	_, err := c.Feed(ctx, FeedQuery{})
	require.NoError(t, err)

	blog, err := c.CreateBlog(ctx, schema.CreateBlogInput{
		Title:   "A new post",
		Content: []byte(`"Long enough markdown body"`),
	})
	require.NoError(t, err)
	assert.Equal(t, "new-post", blog.Slug)

	_, err = c.Feed(ctx, FeedQuery{})
	require.NoError(t, err)
	assert.Equal(t, int32(2), feedHits.Load())
}

func TestErrors_DecodeEnvelope(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/comments/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusForbidden, models.ErrorResponse{Error: "Comments are disabled for this blog", Code: models.CodeForbidden})
	})
	mux.HandleFunc("GET /api/v1/blog/{slug}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream down"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := New(srv.URL)
	ctx := context.Background()

	_, err := c.CreateComment(ctx, 3, schema.CreateCommentInput{Content: "hello"})
	require.Error(t, err)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	assert.Equal(t, models.CodeForbidden, apiErr.Code)
	assert.Equal(t, "Comments are disabled for this blog", apiErr.Message)
	assert.True(t, IsStatus(err, http.StatusForbidden))

	_, err = c.GetBlog(ctx, "x", false)
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "upstream down", apiErr.Message)
}

func TestValidation_FailsBeforeRequest(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := New(srv.URL)
	ctx := context.Background()

	_, err := c.CreateComment(ctx, 1, schema.CreateCommentInput{Content: ""})
	assert.True(t, IsStatus(err, http.StatusBadRequest))

	_, err = c.Signup(ctx, schema.SignupInput{Email: "not-an-email", Username: "ab", Password: "123"})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Invalid input data", apiErr.Message)
	assert.NotEmpty(t, apiErr.Details)

	_, err = c.SetCommentStatus(ctx, 1, "BOGUS")
	assert.Error(t, err)

	assert.Zero(t, hits.Load())
}

func TestSignin_SetsBearerToken(t *testing.T) {
	var gotAuth string
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/auth/signin", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, map[string]any{"message": "signin successful", "token": "abc.def.ghi", "user": models.User{ID: 1, Username: "alice"}})
	})
	mux.HandleFunc("GET /api/v1/blog/bulk", func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		writeJSON(t, w, http.StatusOK, map[string]any{"blogs": []models.Blog{}})
	})
	mux.HandleFunc("POST /api/v1/auth/signout", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, map[string]any{"message": "signed out successfully"})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := New(srv.URL)
	ctx := context.Background()
	res, err := c.Signin(ctx, schema.SigninInput{Email: "alice@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "alice", res.User.Username)

	_, err = c.MyBlogs(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Bearer abc.def.ghi", gotAuth)

	require.NoError(t, c.Signout(ctx))
	_, err = c.MyBlogs(ctx)
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

// fakeThreadServer stores comments in memory and answers the comment
// endpoints the way the API does.
type fakeThreadServer struct {
	mu       sync.Mutex
	t        *testing.T
	nextID   uint
	comments map[uint]*models.Comment
}

func (f *fakeThreadServer) tree() []*models.Comment {
	byParent := map[uint][]*models.Comment{}
	var roots []*models.Comment
	for id := uint(1); id <= f.nextID; id++ {
		c, ok := f.comments[id]
		if !ok {
			continue
		}
		cp := *c
		cp.Replies = nil
		if c.ParentID == nil {
			roots = append(roots, &cp)
		} else {
			byParent[*c.ParentID] = append(byParent[*c.ParentID], &cp)
		}
	}
	var attach func([]*models.Comment)
	attach = func(nodes []*models.Comment) {
		for _, n := range nodes {
			n.Replies = byParent[n.ID]
			if n.Replies == nil {
				n.Replies = []*models.Comment{}
			}
			attach(n.Replies)
		}
	}
	attach(roots)
	slices.Reverse(roots)
	return roots
}

func (f *fakeThreadServer) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/comments/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		roots := f.tree()
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		end := min(offset+limit, len(roots))
		if offset > len(roots) {
			offset = end
		}
		writeJSON(f.t, w, http.StatusOK, CommentPage{Comments: roots[offset:end], Pagination: schema.NewPagination(limit, offset, len(roots))})
	})
	mux.HandleFunc("POST /api/v1/comments/{id}", func(w http.ResponseWriter, r *http.Request) {
		var in schema.CreateCommentInput
		require.NoError(f.t, json.NewDecoder(r.Body).Decode(&in))
		f.mu.Lock()
		defer f.mu.Unlock()
		f.nextID++
		c := &models.Comment{ID: f.nextID, Content: in.Content, ParentID: in.ParentID, Status: models.CommentStatusApproved}
		f.comments[c.ID] = c
		writeJSON(f.t, w, http.StatusCreated, map[string]any{"message": "Comment created successfully", "comment": c})
	})
	mux.HandleFunc("DELETE /api/v1/comments/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.Atoi(r.PathValue("id"))
		f.mu.Lock()
		defer f.mu.Unlock()
		deleted := f.remove(uint(id))
		writeJSON(f.t, w, http.StatusOK, map[string]any{"message": "Comment deleted successfully", "deleted": deleted})
	})
	return mux
}

func (f *fakeThreadServer) remove(id uint) int {
	if _, ok := f.comments[id]; !ok {
		return 0
	}
	delete(f.comments, id)
	n := 1
	for cid, c := range f.comments {
		if c.ParentID != nil && *c.ParentID == id {
			n += f.remove(cid)
		}
	}
	return n
}

func TestThread_TracksCreatesAndDeletes(t *testing.T) {
	fake := &fakeThreadServer{t: t, comments: map[uint]*models.Comment{}}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	c := New(srv.URL, WithToken("tok"))
	ctx := context.Background()

	// Pre-existing comments, more roots than one page holds.
	for i := 0; i < threadPageSize+5; i++ {
		fake.nextID++
		fake.comments[fake.nextID] = &models.Comment{ID: fake.nextID, Content: "old"}
	}

	thread, err := c.LoadThread(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, threadPageSize+5, thread.Total())

	root, err := thread.Post(ctx, "first!")
	require.NoError(t, err)
	assert.Equal(t, root.ID, thread.Roots()[0].ID, "new roots go first")
	reply, err := thread.Reply(ctx, root.ID, "welcome")
	require.NoError(t, err)
	nested, err := thread.Reply(ctx, reply.ID, "thanks")
	require.NoError(t, err)
	assert.Equal(t, threadPageSize+8, thread.Total())
	require.NotNil(t, thread.Find(nested.ID))

	_, err = thread.Reply(ctx, nested.ID, "too deep")
	assert.True(t, IsStatus(err, http.StatusBadRequest))
	assert.Equal(t, threadPageSize+8, thread.Total())

	deleted, err := thread.Delete(ctx, root.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)
	assert.Equal(t, threadPageSize+5, thread.Total())
	assert.Nil(t, thread.Find(reply.ID))

	latest, err := thread.Post(ctx, "second thoughts")
	require.NoError(t, err)
	require.NoError(t, thread.Refresh(ctx))
	assert.Equal(t, threadPageSize+6, thread.Total())
	assert.Equal(t, latest.ID, thread.Roots()[0].ID, "local order matches a refresh")
}

func TestProfileAndFollow(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/profile/{username}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, map[string]any{"profile": map[string]any{
			"user":        map[string]any{"id": 2, "username": r.PathValue("username"), "firstName": nil},
			"stats":       map[string]any{"publishedBlogs": 4, "followers": 1},
			"isFollowing": true,
		}})
	})
	mux.HandleFunc("POST /api/v1/profile/{id}/follow", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") == "1" {
			writeJSON(t, w, http.StatusBadRequest, models.ErrorResponse{Error: "You cannot follow yourself", Code: models.CodeValidation})
			return
		}
		writeJSON(t, w, http.StatusOK, map[string]any{"message": "Successfully followed user"})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := New(srv.URL, WithToken("tok"), WithTimeout(5*time.Second))
	ctx := context.Background()

	p, err := c.Profile(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, "bob", p.User.Username)
	assert.Equal(t, int64(4), p.Stats.PublishedBlogs)
	assert.True(t, p.IsFollowing)

	require.NoError(t, c.Follow(ctx, 2))
	err = c.Follow(ctx, 1)
	assert.True(t, IsStatus(err, http.StatusBadRequest))
}
