package services

import (
	"context"
	"errors"
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"lifecycle-cms/errs"
	"lifecycle-cms/models"
	"lifecycle-cms/policy"
	"lifecycle-cms/repositories"
)

// Clock supplies the current time. Injectable so scheduling and retention
// logic is testable without waiting.
type Clock func() time.Time

// LifecycleConfig carries the policy constants of the article lifecycle.
type LifecycleConfig struct {
	// RetentionWindow is how long a trashed article stays restorable.
	RetentionWindow time.Duration
	// FreeArticleLimit caps article creation for actors without the
	// unlimited-articles capability.
	FreeArticleLimit int
}

// ArticleService owns every status and timestamp transition of an article.
// Each mutating call re-reads the record, validates the transition against the
// current status and the actor's permissions, and commits with a per-article
// compare-and-set; a lost race surfaces as errs.ErrStaleState and is never
// retried here.
type ArticleService interface {
	CreateArticle(ctx context.Context, req models.CreateArticleRequest, actor models.Actor) (*models.Article, error)
	GetArticle(ctx context.Context, id uuid.UUID, actor models.Actor, isPublic bool) (*models.Article, error)
	GetArticles(ctx context.Context, params models.ArticleListParams, isPublic bool) ([]models.Article, int64, error)
	SaveContent(ctx context.Context, id uuid.UUID, req models.SaveContentRequest, actor models.Actor) (*models.Article, error)
	Schedule(ctx context.Context, id uuid.UUID, at time.Time, actor models.Actor) (*models.Article, error)
	Unschedule(ctx context.Context, id uuid.UUID, actor models.Actor) (*models.Article, error)
	Publish(ctx context.Context, id uuid.UUID, actor models.Actor) (*models.Article, error)
	Unpublish(ctx context.Context, id uuid.UUID, actor models.Actor) (*models.Article, error)
	SoftDelete(ctx context.Context, id uuid.UUID, actor models.Actor) (*models.Article, error)
	Restore(ctx context.Context, id uuid.UUID, actor models.Actor) (*models.Article, error)
	Purge(ctx context.Context, id uuid.UUID, actor models.Actor) error
	RestoreVersion(ctx context.Context, id uuid.UUID, versionNumber int, actor models.Actor) (*models.Article, error)
	ListVersions(ctx context.Context, id uuid.UUID, actor models.Actor) ([]models.VersionMetadata, error)
	GetVersion(ctx context.Context, id uuid.UUID, versionNumber int, actor models.Actor) (*models.ArticleVersion, error)

	// System-initiated operations used by the background sweepers.
	AutoPublish(ctx context.Context, id uuid.UUID) (*models.Article, error)
	PurgeExpired(ctx context.Context, id uuid.UUID) error
	DueForPublish(ctx context.Context, limit int) ([]models.Article, error)
	DueForPurge(ctx context.Context, limit int) ([]models.Article, error)
}

type articleService struct {
	articleRepo repositories.ArticleRepository
	versionRepo repositories.ArticleVersionRepository
	tagRepo     repositories.TagRepository
	cfg         LifecycleConfig
	clock       Clock
	log         *zap.Logger
}

func NewArticleService(
	articleRepo repositories.ArticleRepository,
	versionRepo repositories.ArticleVersionRepository,
	tagRepo repositories.TagRepository,
	cfg LifecycleConfig,
	clock Clock,
	log *zap.Logger,
) ArticleService {
	if clock == nil {
		clock = time.Now
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &articleService{
		articleRepo: articleRepo,
		versionRepo: versionRepo,
		tagRepo:     tagRepo,
		cfg:         cfg,
		clock:       clock,
		log:         log,
	}
}

func (s *articleService) CreateArticle(ctx context.Context, req models.CreateArticleRequest, actor models.Actor) (*models.Article, error) {
	if !actor.Can(policy.CapUnlimitedArticles) {
		count, err := s.articleRepo.CountByOwner(ctx, actor.ID)
		if err != nil {
			return nil, err
		}
		if count >= int64(s.cfg.FreeArticleLimit) {
			return nil, errs.ErrPermissionDenied
		}
	}

	tags, err := s.processTags(ctx, req.Tags)
	if err != nil {
		return nil, err
	}

	article := &models.Article{
		OwnerID:              actor.ID,
		Status:               models.StatusDraft,
		Title:                req.Title,
		Content:              req.Content,
		CurrentVersionNumber: 1,
	}
	first := &models.ArticleVersion{
		VersionNumber:     1,
		Title:             req.Title,
		Content:           req.Content,
		Tags:              tags,
		CreatedBy:         actor.ID,
		ChangeDescription: "initial version",
	}

	if err := s.articleRepo.Create(ctx, article, first); err != nil {
		return nil, err
	}
	article.CurrentVersion = first
	return article, nil
}

func (s *articleService) GetArticle(ctx context.Context, id uuid.UUID, actor models.Actor, isPublic bool) (*models.Article, error) {
	article, err := s.articleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if isPublic {
		if article.Status != models.StatusPublished {
			return nil, errs.ErrNotFound
		}
		return article, nil
	}

	// Trashed content and other authors' unpublished drafts are invisible to
	// everyone but the owner and admins; NotFound so existence is not leaked.
	if !s.canModify(article, actor) && article.Status != models.StatusPublished {
		return nil, errs.ErrNotFound
	}
	return article, nil
}

func (s *articleService) GetArticles(ctx context.Context, params models.ArticleListParams, isPublic bool) ([]models.Article, int64, error) {
	return s.articleRepo.GetList(ctx, params, isPublic)
}

func (s *articleService) SaveContent(ctx context.Context, id uuid.UUID, req models.SaveContentRequest, actor models.Actor) (*models.Article, error) {
	article, err := s.articleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !s.canModify(article, actor) {
		// A collaborating editor (not the owner) may edit published articles
		// when their own plan carries collaborative editing.
		if article.Status != models.StatusPublished || !actor.Can(policy.CapCollaborativeEditing) {
			return nil, errs.ErrPermissionDenied
		}
	}

	tags, err := s.processTags(ctx, req.Tags)
	if err != nil {
		return nil, err
	}

	next := article.CurrentVersionNumber + 1
	version := &models.ArticleVersion{
		VersionNumber:     next,
		Title:             req.Title,
		Content:           req.Content,
		Tags:              tags,
		CreatedBy:         actor.ID,
		ChangeDescription: req.ChangeDescription,
	}

	article.Title = req.Title
	article.Content = req.Content
	article.CurrentVersionNumber = next

	if err := s.articleRepo.Commit(ctx, article, version); err != nil {
		return nil, err
	}
	article.CurrentVersion = version

	s.refreshTagStats(ctx)
	return article, nil
}

func (s *articleService) Schedule(ctx context.Context, id uuid.UUID, at time.Time, actor models.Actor) (*models.Article, error) {
	article, err := s.articleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.canModify(article, actor) {
		return nil, errs.ErrPermissionDenied
	}
	if !actor.Can(policy.CapScheduledPublishing) {
		return nil, errs.ErrPermissionDenied
	}
	if article.Status != models.StatusDraft {
		return nil, s.invalidTransition(article, "schedule")
	}
	if !at.After(s.clock()) {
		return nil, s.invalidTransition(article, "schedule in the past")
	}

	article.Status = models.StatusScheduled
	article.ScheduledPublishAt = &at

	if err := s.articleRepo.Commit(ctx, article, nil); err != nil {
		return nil, err
	}
	return article, nil
}

func (s *articleService) Unschedule(ctx context.Context, id uuid.UUID, actor models.Actor) (*models.Article, error) {
	article, err := s.articleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.canModify(article, actor) {
		return nil, errs.ErrPermissionDenied
	}
	if article.Status != models.StatusScheduled {
		return nil, s.invalidTransition(article, "unschedule")
	}

	article.Status = models.StatusDraft
	article.ScheduledPublishAt = nil

	if err := s.articleRepo.Commit(ctx, article, nil); err != nil {
		return nil, err
	}
	return article, nil
}

func (s *articleService) Publish(ctx context.Context, id uuid.UUID, actor models.Actor) (*models.Article, error) {
	article, err := s.articleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.canModify(article, actor) {
		return nil, errs.ErrPermissionDenied
	}
	if article.Status != models.StatusDraft {
		return nil, s.invalidTransition(article, "publish")
	}

	s.markPublished(article)

	if err := s.articleRepo.Commit(ctx, article, nil); err != nil {
		return nil, err
	}
	s.refreshTagStats(ctx)
	return article, nil
}

// AutoPublish promotes a due scheduled article. System-initiated; a user who
// unscheduled in the meantime wins the race via the stale-state commit check.
func (s *articleService) AutoPublish(ctx context.Context, id uuid.UUID) (*models.Article, error) {
	article, err := s.articleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if article.Status != models.StatusScheduled {
		return nil, s.invalidTransition(article, "auto-publish")
	}
	if article.ScheduledPublishAt == nil || s.clock().Before(*article.ScheduledPublishAt) {
		return nil, s.invalidTransition(article, "auto-publish before due time")
	}

	s.markPublished(article)

	if err := s.articleRepo.Commit(ctx, article, nil); err != nil {
		return nil, err
	}
	s.refreshTagStats(ctx)
	return article, nil
}

func (s *articleService) Unpublish(ctx context.Context, id uuid.UUID, actor models.Actor) (*models.Article, error) {
	article, err := s.articleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.canModify(article, actor) {
		return nil, errs.ErrPermissionDenied
	}
	if article.Status != models.StatusPublished {
		return nil, s.invalidTransition(article, "unpublish")
	}

	// PublishedAt stays set for audit.
	article.Status = models.StatusDraft

	if err := s.articleRepo.Commit(ctx, article, nil); err != nil {
		return nil, err
	}
	s.refreshTagStats(ctx)
	return article, nil
}

func (s *articleService) SoftDelete(ctx context.Context, id uuid.UUID, actor models.Actor) (*models.Article, error) {
	article, err := s.articleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.canModify(article, actor) {
		return nil, errs.ErrPermissionDenied
	}
	if article.Status == models.StatusTrashed {
		return nil, s.invalidTransition(article, "delete")
	}

	now := s.clock()
	article.Status = models.StatusTrashed
	article.DeletedAt = &now
	article.ScheduledPublishAt = nil

	if err := s.articleRepo.Commit(ctx, article, nil); err != nil {
		return nil, err
	}
	s.refreshTagStats(ctx)
	return article, nil
}

func (s *articleService) Restore(ctx context.Context, id uuid.UUID, actor models.Actor) (*models.Article, error) {
	article, err := s.articleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.canModify(article, actor) {
		return nil, errs.ErrPermissionDenied
	}
	if article.Status != models.StatusTrashed {
		return nil, s.invalidTransition(article, "restore")
	}

	// The closing instant of the window is the last moment restore succeeds.
	expiry := article.PurgeAfter(s.cfg.RetentionWindow)
	if s.clock().After(expiry) {
		return nil, &errs.RetentionExpiredError{ExpiredAt: expiry}
	}

	article.Status = models.StatusDraft
	article.DeletedAt = nil

	if err := s.articleRepo.Commit(ctx, article, nil); err != nil {
		return nil, err
	}
	return article, nil
}

func (s *articleService) Purge(ctx context.Context, id uuid.UUID, actor models.Actor) error {
	article, err := s.articleRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !s.canModify(article, actor) {
		return errs.ErrPermissionDenied
	}
	if article.Status != models.StatusTrashed {
		return s.invalidTransition(article, "purge")
	}
	return s.articleRepo.Purge(ctx, id)
}

// PurgeExpired erases a trashed article whose retention window has elapsed.
// System-initiated by the retention sweeper.
func (s *articleService) PurgeExpired(ctx context.Context, id uuid.UUID) error {
	article, err := s.articleRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if article.Status != models.StatusTrashed {
		return s.invalidTransition(article, "purge")
	}
	if s.clock().Before(article.PurgeAfter(s.cfg.RetentionWindow)) {
		return s.invalidTransition(article, "purge before retention elapsed")
	}
	return s.articleRepo.Purge(ctx, id)
}

func (s *articleService) RestoreVersion(ctx context.Context, id uuid.UUID, versionNumber int, actor models.Actor) (*models.Article, error) {
	article, err := s.articleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.canModify(article, actor) {
		return nil, errs.ErrPermissionDenied
	}
	if !actor.Can(policy.CapVersionHistory) {
		return nil, errs.ErrPermissionDenied
	}

	snapshot, err := s.versionRepo.Get(ctx, id, versionNumber)
	if err != nil {
		return nil, err
	}

	// History is never rewritten: the restored content becomes a new version
	// and the original snapshot stays retrievable.
	next := article.CurrentVersionNumber + 1
	version := &models.ArticleVersion{
		VersionNumber:     next,
		Title:             snapshot.Title,
		Content:           snapshot.Content,
		Tags:              snapshot.Tags,
		CreatedBy:         actor.ID,
		ChangeDescription: "restored from version " + strconv.Itoa(versionNumber),
	}

	article.Title = snapshot.Title
	article.Content = snapshot.Content
	article.CurrentVersionNumber = next

	if err := s.articleRepo.Commit(ctx, article, version); err != nil {
		return nil, err
	}
	article.CurrentVersion = version
	return article, nil
}

func (s *articleService) ListVersions(ctx context.Context, id uuid.UUID, actor models.Actor) ([]models.VersionMetadata, error) {
	article, err := s.articleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.canModify(article, actor) {
		return nil, errs.ErrPermissionDenied
	}

	versions, err := s.versionRepo.List(ctx, id)
	if err != nil {
		return nil, err
	}
	metadata := make([]models.VersionMetadata, 0, len(versions))
	for i := range versions {
		metadata = append(metadata, versions[i].Metadata())
	}
	return metadata, nil
}

func (s *articleService) GetVersion(ctx context.Context, id uuid.UUID, versionNumber int, actor models.Actor) (*models.ArticleVersion, error) {
	article, err := s.articleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.canModify(article, actor) {
		return nil, errs.ErrPermissionDenied
	}
	return s.versionRepo.Get(ctx, id, versionNumber)
}

func (s *articleService) DueForPublish(ctx context.Context, limit int) ([]models.Article, error) {
	return s.articleRepo.ListDueScheduled(ctx, s.clock(), limit)
}

func (s *articleService) DueForPurge(ctx context.Context, limit int) ([]models.Article, error) {
	return s.articleRepo.ListDueTrashed(ctx, s.clock().Add(-s.cfg.RetentionWindow), limit)
}

func (s *articleService) canModify(article *models.Article, actor models.Actor) bool {
	return actor.IsAdmin || article.OwnerID == actor.ID
}

func (s *articleService) markPublished(article *models.Article) {
	article.Status = models.StatusPublished
	article.ScheduledPublishAt = nil
	if article.PublishedAt == nil {
		now := s.clock()
		article.PublishedAt = &now
	}
}

func (s *articleService) invalidTransition(article *models.Article, event string) error {
	return &errs.InvalidTransitionError{
		CurrentStatus: string(article.Status),
		Event:         event,
	}
}

func (s *articleService) processTags(ctx context.Context, tagNames []string) ([]models.Tag, error) {
	var tags []models.Tag
	for _, name := range tagNames {
		tag, err := s.tagRepo.GetByName(ctx, name)
		if err != nil {
			if !errors.Is(err, errs.ErrNotFound) {
				return nil, err
			}
			newTag := &models.Tag{Name: name}
			if err := s.tagRepo.Create(ctx, newTag); err != nil {
				return nil, err
			}
			tags = append(tags, *newTag)
			continue
		}
		tags = append(tags, *tag)
	}
	return tags, nil
}

// refreshTagStats recomputes usage counts and trending scores from published
// articles. Best effort; a failure here never fails the transition.
func (s *articleService) refreshTagStats(ctx context.Context) {
	counts, err := s.tagRepo.UsageCounts(ctx)
	if err != nil {
		s.log.Warn("tag usage count refresh failed", zap.Error(err))
		return
	}
	tags, err := s.tagRepo.GetAll(ctx)
	if err != nil {
		s.log.Warn("tag listing failed during stats refresh", zap.Error(err))
		return
	}
	if len(tags) == 0 {
		return
	}

	now := s.clock()
	for i := range tags {
		tags[i].UsageCount = counts[tags[i].ID]
		days := now.Sub(tags[i].CreatedAt).Hours() / 24
		if days > 0 {
			tags[i].TrendingScore = float64(tags[i].UsageCount) / math.Log(days+1)
		} else {
			tags[i].TrendingScore = float64(tags[i].UsageCount)
		}
	}
	if err := s.tagRepo.BulkUpdate(ctx, tags); err != nil {
		s.log.Warn("tag stats update failed", zap.Error(err))
	}
}
