package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"lifecycle-cms/helper"
	"lifecycle-cms/middleware"
	"lifecycle-cms/models"
	"lifecycle-cms/services"
)

type ArticleHandler struct {
	articleService services.ArticleService
	Helper         *helper.HTTPHelper
}

func NewArticleHandler(articleService services.ArticleService) *ArticleHandler {
	return &ArticleHandler{articleService: articleService}
}

func (h *ArticleHandler) CreateArticle(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		h.Helper.SendUnauthorizedError(c, "Actor not found in context", h.Helper.EmptyJsonMap())
		return
	}

	var req models.CreateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	article, err := h.articleService.CreateArticle(c.Request.Context(), req, actor)
	if err != nil {
		h.Helper.SendDomainError(c, err)
		return
	}

	h.Helper.SendCreated(c, "Article created", article)
}

func (h *ArticleHandler) GetArticles(c *gin.Context) {
	var params models.ArticleListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}
	if params.Page == 0 {
		params.Page = 1
	}
	if params.Limit == 0 {
		params.Limit = 10
	}

	articles, total, err := h.articleService.GetArticles(c.Request.Context(), params, false)
	if err != nil {
		h.Helper.SendDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"articles": articles,
		"paging":   h.Helper.GeneratePaging(c, params.Limit, params.Page, int(total)),
	})
}

func (h *ArticleHandler) GetPublicArticles(c *gin.Context) {
	var params models.ArticleListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}
	if params.Page == 0 {
		params.Page = 1
	}
	if params.Limit == 0 {
		params.Limit = 10
	}

	articles, total, err := h.articleService.GetArticles(c.Request.Context(), params, true)
	if err != nil {
		h.Helper.SendDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"articles": articles,
		"paging":   h.Helper.GeneratePaging(c, params.Limit, params.Page, int(total)),
	})
}

func (h *ArticleHandler) GetArticle(c *gin.Context) {
	actor, _ := middleware.ActorFromContext(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.Helper.SendBadRequest(c, "Invalid article ID", h.Helper.EmptyJsonMap())
		return
	}

	article, err := h.articleService.GetArticle(c.Request.Context(), id, actor, false)
	if err != nil {
		h.Helper.SendDomainError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Success", article)
}

func (h *ArticleHandler) GetPublicArticle(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.Helper.SendBadRequest(c, "Invalid article ID", h.Helper.EmptyJsonMap())
		return
	}

	article, err := h.articleService.GetArticle(c.Request.Context(), id, models.Actor{}, true)
	if err != nil {
		h.Helper.SendDomainError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Success", article)
}

func (h *ArticleHandler) SaveContent(c *gin.Context) {
	actor, id, ok := h.actorAndID(c)
	if !ok {
		return
	}

	var req models.SaveContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	article, err := h.articleService.SaveContent(c.Request.Context(), id, req, actor)
	if err != nil {
		h.Helper.SendDomainError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Content saved", article)
}

func (h *ArticleHandler) Schedule(c *gin.Context) {
	actor, id, ok := h.actorAndID(c)
	if !ok {
		return
	}

	var req models.ScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	article, err := h.articleService.Schedule(c.Request.Context(), id, req.PublishAt, actor)
	if err != nil {
		h.Helper.SendDomainError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Article scheduled", article)
}

func (h *ArticleHandler) Unschedule(c *gin.Context) {
	h.transition(c, h.articleService.Unschedule, "Article unscheduled")
}

func (h *ArticleHandler) Publish(c *gin.Context) {
	h.transition(c, h.articleService.Publish, "Article published")
}

func (h *ArticleHandler) Unpublish(c *gin.Context) {
	h.transition(c, h.articleService.Unpublish, "Article unpublished")
}

func (h *ArticleHandler) SoftDelete(c *gin.Context) {
	h.transition(c, h.articleService.SoftDelete, "Article moved to trash")
}

func (h *ArticleHandler) Restore(c *gin.Context) {
	h.transition(c, h.articleService.Restore, "Article restored")
}

func (h *ArticleHandler) Purge(c *gin.Context) {
	actor, id, ok := h.actorAndID(c)
	if !ok {
		return
	}

	if err := h.articleService.Purge(c.Request.Context(), id, actor); err != nil {
		h.Helper.SendDomainError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Article permanently deleted", h.Helper.EmptyJsonMap())
}

func (h *ArticleHandler) GetVersions(c *gin.Context) {
	actor, id, ok := h.actorAndID(c)
	if !ok {
		return
	}

	versions, err := h.articleService.ListVersions(c.Request.Context(), id, actor)
	if err != nil {
		h.Helper.SendDomainError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Success", versions)
}

func (h *ArticleHandler) GetVersion(c *gin.Context) {
	actor, id, ok := h.actorAndID(c)
	if !ok {
		return
	}
	number, err := strconv.Atoi(c.Param("number"))
	if err != nil {
		h.Helper.SendBadRequest(c, "Invalid version number", h.Helper.EmptyJsonMap())
		return
	}

	version, err := h.articleService.GetVersion(c.Request.Context(), id, number, actor)
	if err != nil {
		h.Helper.SendDomainError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Success", version)
}

func (h *ArticleHandler) RestoreVersion(c *gin.Context) {
	actor, id, ok := h.actorAndID(c)
	if !ok {
		return
	}
	number, err := strconv.Atoi(c.Param("number"))
	if err != nil {
		h.Helper.SendBadRequest(c, "Invalid version number", h.Helper.EmptyJsonMap())
		return
	}

	article, err := h.articleService.RestoreVersion(c.Request.Context(), id, number, actor)
	if err != nil {
		h.Helper.SendDomainError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Version restored", article)
}

func (h *ArticleHandler) transition(
	c *gin.Context,
	op func(ctx context.Context, id uuid.UUID, actor models.Actor) (*models.Article, error),
	message string,
) {
	actor, id, ok := h.actorAndID(c)
	if !ok {
		return
	}

	article, err := op(c.Request.Context(), id, actor)
	if err != nil {
		h.Helper.SendDomainError(c, err)
		return
	}

	h.Helper.SendSuccess(c, message, article)
}

func (h *ArticleHandler) actorAndID(c *gin.Context) (models.Actor, uuid.UUID, bool) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		h.Helper.SendUnauthorizedError(c, "Actor not found in context", h.Helper.EmptyJsonMap())
		return models.Actor{}, uuid.Nil, false
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.Helper.SendBadRequest(c, "Invalid article ID", h.Helper.EmptyJsonMap())
		return models.Actor{}, uuid.Nil, false
	}
	return actor, id, true
}
