package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/meilisearch/meilisearch-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"anoa.com/qaforum/internal/entity"
)

type fakeIndex struct {
	added     []document
	raw       string
	searchErr error
	lastQuery string
	lastLimit int64
}

func (f *fakeIndex) AddDocuments(documentsPtr interface{}, primaryKey *string) (*meilisearch.TaskInfo, error) {
	docs := documentsPtr.([]document)
	f.added = append(f.added, docs...)
	return &meilisearch.TaskInfo{TaskUID: int64(len(f.added))}, nil
}

func (f *fakeIndex) SearchRaw(query string, request *meilisearch.SearchRequest) (*json.RawMessage, error) {
	f.lastQuery = query
	f.lastLimit = request.Limit
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	raw := json.RawMessage(f.raw)
	return &raw, nil
}

func TestIndexPost_StripsMarkup(t *testing.T) {
	posts, questions := &fakeIndex{}, &fakeIndex{}
	idx := newMeiliIndexer(posts, questions, zap.NewNop())

	post := &entity.Post{
		ID:          uuid.New(),
		Title:       "Go tips",
		Slug:        "go-tips-abc123",
		Description: "<p>Use <b>errgroup</b></p><script>alert(1)</script>&amp; more",
		Tags:        []entity.Tag{{Name: "go"}, {Name: "concurrency"}},
		CreatedAt:   time.Unix(1700000000, 0),
	}
	require.NoError(t, idx.IndexPost(context.Background(), post))

	require.Len(t, posts.added, 1)
	doc := posts.added[0]
	assert.Equal(t, post.ID.String(), doc.ID)
	assert.Equal(t, "Use errgroup & more", doc.Body)
	assert.Equal(t, []string{"go", "concurrency"}, doc.Tags)
	assert.Equal(t, int64(1700000000), doc.CreatedAt)
	assert.Empty(t, questions.added)
}

func TestIndexQuestion(t *testing.T) {
	posts, questions := &fakeIndex{}, &fakeIndex{}
	idx := newMeiliIndexer(posts, questions, zap.NewNop())

	require.NoError(t, idx.IndexQuestion(context.Background(), &entity.Question{ID: uuid.New(), Title: "Why nil?", Content: "plain"}))
	require.Len(t, questions.added, 1)
	assert.Equal(t, "plain", questions.added[0].Body)
	assert.Empty(t, questions.added[0].Tags)
}

func TestSearch_MergesBothIndexes(t *testing.T) {
	posts := &fakeIndex{raw: `{"hits":[{"id":"1","slug":"go-tips-abc123","title":"Go tips","body":"b"}]}`}
	questions := &fakeIndex{raw: `{"hits":[]}`}
	idx := newMeiliIndexer(posts, questions, zap.NewNop())

	resp, err := idx.Search(context.Background(), "go", 0)
	require.NoError(t, err)
	require.Len(t, resp.Posts, 1)
	assert.Equal(t, "post", resp.Posts[0].Kind)
	assert.Equal(t, "go-tips-abc123", resp.Posts[0].Slug)
	assert.Empty(t, resp.Questions)
	assert.Equal(t, int64(defaultLimit), posts.lastLimit)
	assert.Equal(t, "go", questions.lastQuery)
}

func TestSearch_BackendError(t *testing.T) {
	posts := &fakeIndex{raw: `{"hits":[]}`}
	questions := &fakeIndex{searchErr: errors.New("meili down")}
	idx := newMeiliIndexer(posts, questions, zap.NewNop())

	_, err := idx.Search(context.Background(), "go", 5)
	assert.Error(t, err)
}

func TestNewIndexer_NilClientIsNoop(t *testing.T) {
	idx := NewIndexer(nil, zap.NewNop())

	assert.NoError(t, idx.IndexPost(context.Background(), &entity.Post{}))
	resp, err := idx.Search(context.Background(), "anything", 10)
	require.NoError(t, err)
	assert.Empty(t, resp.Posts)
	assert.NotNil(t, resp.Questions)
}
