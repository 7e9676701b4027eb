package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"lifecycle-cms/errs"
	"lifecycle-cms/models"
	"lifecycle-cms/policy"
	"lifecycle-cms/services"
)

type stubArticleService struct {
	services.ArticleService

	publishErr error
}

func (s *stubArticleService) Publish(ctx context.Context, id uuid.UUID, actor models.Actor) (*models.Article, error) {
	if s.publishErr != nil {
		return nil, s.publishErr
	}
	return &models.Article{ID: id, Status: models.StatusPublished}, nil
}

func publishRouter(svc services.ArticleService, withActor bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewArticleHandler(svc)

	router := gin.New()
	if withActor {
		router.Use(func(c *gin.Context) {
			c.Set("actor", models.Actor{ID: 1, Plan: policy.PlanPro})
		})
	}
	router.POST("/articles/:id/publish", h.Publish)
	return router
}

func TestPublishEndpointStatusMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"success", nil, http.StatusOK},
		{"not found", errs.ErrNotFound, http.StatusNotFound},
		{"permission denied", errs.ErrPermissionDenied, http.StatusForbidden},
		{"invalid transition", &errs.InvalidTransitionError{CurrentStatus: "trashed", Event: "publish"}, http.StatusUnprocessableEntity},
		{"stale state", errs.ErrStaleState, http.StatusConflict},
		{"retention expired", errs.ErrRetentionExpired, http.StatusGone},
		{"storage unavailable", &errs.StorageError{Op: "commit", Cause: errors.New("down")}, http.StatusServiceUnavailable},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := publishRouter(&stubArticleService{publishErr: tc.err}, true)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/articles/"+uuid.NewString()+"/publish", nil)
			router.ServeHTTP(w, req)

			assert.Equal(t, tc.want, w.Code)
		})
	}
}

func TestPublishEndpointRejectsBadID(t *testing.T) {
	router := publishRouter(&stubArticleService{}, true)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/articles/not-a-uuid/publish", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPublishEndpointRequiresActor(t *testing.T) {
	router := publishRouter(&stubArticleService{}, false)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/articles/"+uuid.NewString()+"/publish", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
