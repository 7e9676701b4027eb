package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"lifecycle-cms/errs"
	"lifecycle-cms/models"
)

// In-memory repository fakes with the same commit semantics as the gorm
// implementations: per-article compare-and-set on LockVersion, version
// appends in the same commit.

type fakeArticleRepo struct {
	mu       sync.Mutex
	articles map[uuid.UUID]models.Article
	versions *fakeVersionRepo
	failWith error
	// afterGet, when set, runs after a GetByID read returns. Lets tests
	// interleave a competing writer between read and commit.
	afterGet func()
}

func newFakeArticleRepo(versions *fakeVersionRepo) *fakeArticleRepo {
	return &fakeArticleRepo{
		articles: make(map[uuid.UUID]models.Article),
		versions: versions,
	}
}

func (r *fakeArticleRepo) Create(ctx context.Context, article *models.Article, first *models.ArticleVersion) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return r.failWith
	}
	if article.ID == uuid.Nil {
		article.ID = uuid.New()
	}
	r.articles[article.ID] = *article
	first.ArticleID = article.ID
	r.versions.append(*first)
	return nil
}

func (r *fakeArticleRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, r.failWith
	}
	stored, ok := r.articles[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	cp := stored
	if r.afterGet != nil {
		hook := r.afterGet
		r.afterGet = nil
		r.mu.Unlock()
		hook()
		r.mu.Lock()
	}
	return &cp, nil
}

func (r *fakeArticleRepo) GetList(ctx context.Context, params models.ArticleListParams, isPublic bool) ([]models.Article, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Article
	for _, a := range r.articles {
		if isPublic && a.Status != models.StatusPublished {
			continue
		}
		if !isPublic && a.Status == models.StatusTrashed {
			continue
		}
		out = append(out, a)
	}
	return out, int64(len(out)), nil
}

func (r *fakeArticleRepo) Commit(ctx context.Context, article *models.Article, newVersion *models.ArticleVersion) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return r.failWith
	}
	stored, ok := r.articles[article.ID]
	if !ok {
		return errs.ErrNotFound
	}
	if stored.LockVersion != article.LockVersion {
		return errs.ErrStaleState
	}
	article.LockVersion++
	r.articles[article.ID] = *article
	if newVersion != nil {
		newVersion.ArticleID = article.ID
		r.versions.append(*newVersion)
	}
	return nil
}

func (r *fakeArticleRepo) Purge(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return r.failWith
	}
	if _, ok := r.articles[id]; !ok {
		return errs.ErrNotFound
	}
	delete(r.articles, id)
	r.versions.deleteAll(id)
	return nil
}

func (r *fakeArticleRepo) CountByOwner(ctx context.Context, ownerID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, a := range r.articles {
		if a.OwnerID == ownerID {
			count++
		}
	}
	return count, nil
}

func (r *fakeArticleRepo) ListDueScheduled(ctx context.Context, now time.Time, limit int) ([]models.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Article
	for _, a := range r.articles {
		if a.Status == models.StatusScheduled && a.ScheduledPublishAt != nil && !a.ScheduledPublishAt.After(now) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeArticleRepo) ListDueTrashed(ctx context.Context, cutoff time.Time, limit int) ([]models.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Article
	for _, a := range r.articles {
		if a.Status == models.StatusTrashed && a.DeletedAt != nil && !a.DeletedAt.After(cutoff) {
			out = append(out, a)
		}
	}
	return out, nil
}

type fakeVersionRepo struct {
	mu        sync.Mutex
	byArticle map[uuid.UUID][]models.ArticleVersion
}

func newFakeVersionRepo() *fakeVersionRepo {
	return &fakeVersionRepo{byArticle: make(map[uuid.UUID][]models.ArticleVersion)}
}

func (r *fakeVersionRepo) append(v models.ArticleVersion) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byArticle[v.ArticleID] = append(r.byArticle[v.ArticleID], v)
}

func (r *fakeVersionRepo) deleteAll(articleID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byArticle, articleID)
}

func (r *fakeVersionRepo) Get(ctx context.Context, articleID uuid.UUID, versionNumber int) (*models.ArticleVersion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range r.byArticle[articleID] {
		if v.VersionNumber == versionNumber {
			cp := v
			return &cp, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (r *fakeVersionRepo) List(ctx context.Context, articleID uuid.UUID) ([]models.ArticleVersion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := append([]models.ArticleVersion(nil), r.byArticle[articleID]...)
	sort.Slice(out, func(i, j int) bool {
		return out[i].VersionNumber > out[j].VersionNumber
	})
	return out, nil
}

type fakeTagRepo struct {
	mu     sync.Mutex
	nextID uint
	byName map[string]models.Tag
}

func newFakeTagRepo() *fakeTagRepo {
	return &fakeTagRepo{byName: make(map[string]models.Tag)}
}

func (r *fakeTagRepo) Create(ctx context.Context, tag *models.Tag) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	tag.ID = r.nextID
	r.byName[tag.Name] = *tag
	return nil
}

func (r *fakeTagRepo) GetByName(ctx context.Context, name string) (*models.Tag, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tag, ok := r.byName[name]
	if !ok {
		return nil, errs.ErrNotFound
	}
	cp := tag
	return &cp, nil
}

func (r *fakeTagRepo) GetByID(ctx context.Context, id uint) (*models.Tag, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, tag := range r.byName {
		if tag.ID == id {
			cp := tag
			return &cp, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (r *fakeTagRepo) GetAll(ctx context.Context) ([]models.Tag, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Tag
	for _, tag := range r.byName {
		out = append(out, tag)
	}
	return out, nil
}

func (r *fakeTagRepo) BulkUpdate(ctx context.Context, tags []models.Tag) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, tag := range tags {
		r.byName[tag.Name] = tag
	}
	return nil
}

func (r *fakeTagRepo) UsageCounts(ctx context.Context) (map[uint]int, error) {
	return map[uint]int{}, nil
}
