package service

import (
	"context"
	"encoding/json"
	"html"
	"strings"

	"github.com/meilisearch/meilisearch-go"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"anoa.com/qaforum/internal/entity"
	searchDto "anoa.com/qaforum/internal/modules/search/dto"
)

const (
	postsIndex     = "posts"
	questionsIndex = "questions"
	defaultLimit   = 10
)

// Indexer keeps the search engine in step with newly created posts and questions.
type Indexer interface {
	IndexPost(ctx context.Context, post *entity.Post) error
	IndexQuestion(ctx context.Context, question *entity.Question) error
	Search(ctx context.Context, query string, limit int) (*searchDto.SearchResponse, error)
}

// index is the subset of meilisearch.IndexManager the indexer uses.
type index interface {
	AddDocuments(documentsPtr interface{}, primaryKey *string) (*meilisearch.TaskInfo, error)
	SearchRaw(query string, request *meilisearch.SearchRequest) (*json.RawMessage, error)
}

type meiliIndexer struct {
	posts     index
	questions index
	sanitizer *bluemonday.Policy
	logger    *zap.Logger
}

// NewIndexer returns a no-op indexer when client is nil so the service runs without search.
func NewIndexer(client meilisearch.ServiceManager, logger *zap.Logger) Indexer {
	if client == nil {
		logger.Warn("meilisearch not configured, search disabled")
		return noopIndexer{}
	}

	s := newMeiliIndexer(client.Index(postsIndex), client.Index(questionsIndex), logger)
	initIndexes(client, logger)
	return s
}

func newMeiliIndexer(posts, questions index, logger *zap.Logger) *meiliIndexer {
	return &meiliIndexer{
		posts:     posts,
		questions: questions,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger,
	}
}

func initIndexes(client meilisearch.ServiceManager, logger *zap.Logger) {
	searchable := []string{"title", "body", "tags"}
	sortable := []string{"created_at"}

	for _, uid := range []string{postsIndex, questionsIndex} {
		if _, err := client.Index(uid).UpdateSearchableAttributes(&searchable); err != nil {
			logger.Warn("failed to update searchable attributes", zap.String("index", uid), zap.Error(err))
		}
		if _, err := client.Index(uid).UpdateSortableAttributes(&sortable); err != nil {
			logger.Warn("failed to update sortable attributes", zap.String("index", uid), zap.Error(err))
		}
	}
}

type document struct {
	ID        string   `json:"id"`
	Slug      string   `json:"slug"`
	Title     string   `json:"title"`
	Body      string   `json:"body"`
	Tags      []string `json:"tags"`
	CreatedAt int64    `json:"created_at"`
}

func (s *meiliIndexer) cleanForIndex(content string) string {
	content = strings.ReplaceAll(content, "</p>", " ")
	content = strings.ReplaceAll(content, "<br>", " ")
	content = strings.ReplaceAll(content, "</div>", " ")

	text := html.UnescapeString(s.sanitizer.Sanitize(content))
	return strings.Join(strings.Fields(text), " ")
}

func tagNames(tags []entity.Tag) []string {
	names := make([]string, 0, len(tags))
	for _, t := range tags {
		names = append(names, t.Name)
	}
	return names
}

func (s *meiliIndexer) add(idx index, name string, doc document) error {
	primaryKey := "id"
	task, err := idx.AddDocuments([]document{doc}, &primaryKey)
	if err != nil {
		return err
	}
	s.logger.Debug("document queued for indexing",
		zap.String("index", name),
		zap.String("id", doc.ID),
		zap.Int64("task_uid", task.TaskUID),
	)
	return nil
}

func (s *meiliIndexer) IndexPost(_ context.Context, post *entity.Post) error {
	return s.add(s.posts, postsIndex, document{
		ID:        post.ID.String(),
		Slug:      post.Slug,
		Title:     post.Title,
		Body:      s.cleanForIndex(post.Description),
		Tags:      tagNames(post.Tags),
		CreatedAt: post.CreatedAt.Unix(),
	})
}

func (s *meiliIndexer) IndexQuestion(_ context.Context, question *entity.Question) error {
	return s.add(s.questions, questionsIndex, document{
		ID:        question.ID.String(),
		Slug:      question.Slug,
		Title:     question.Title,
		Body:      s.cleanForIndex(question.Content),
		Tags:      tagNames(question.Tags),
		CreatedAt: question.CreatedAt.Unix(),
	})
}

func (s *meiliIndexer) Search(ctx context.Context, query string, limit int) (*searchDto.SearchResponse, error) {
	if limit <= 0 {
		limit = defaultLimit
	}

	resp := &searchDto.SearchResponse{}
	g, _ := errgroup.WithContext(ctx)

	g.Go(func() error {
		hits, err := s.searchIndex(s.posts, "post", query, limit)
		resp.Posts = hits
		return err
	})
	g.Go(func() error {
		hits, err := s.searchIndex(s.questions, "question", query, limit)
		resp.Questions = hits
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *meiliIndexer) searchIndex(idx index, kind, query string, limit int) ([]searchDto.SearchHit, error) {
	raw, err := idx.SearchRaw(query, &meilisearch.SearchRequest{Limit: int64(limit)})
	if err != nil {
		return nil, err
	}

	var result struct {
		Hits []document `json:"hits"`
	}
	if raw != nil {
		if err := json.Unmarshal(*raw, &result); err != nil {
			return nil, err
		}
	}

	hits := make([]searchDto.SearchHit, 0, len(result.Hits))
	for _, d := range result.Hits {
		hits = append(hits, searchDto.SearchHit{Kind: kind, ID: d.ID, Slug: d.Slug, Title: d.Title, Body: d.Body})
	}
	return hits, nil
}

type noopIndexer struct{}

func (noopIndexer) IndexPost(context.Context, *entity.Post) error         { return nil }
func (noopIndexer) IndexQuestion(context.Context, *entity.Question) error { return nil }

func (noopIndexer) Search(context.Context, string, int) (*searchDto.SearchResponse, error) {
	return &searchDto.SearchResponse{Posts: []searchDto.SearchHit{}, Questions: []searchDto.SearchHit{}}, nil
}
