package handler

import (
	"context"
	"errors"
	"net/http"

	"academy-map-api/internal/models"
	"academy-map-api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// CourseHandler handles course listing requests
type CourseHandler struct {
	service CourseService
}

// CourseService interface for dependency injection
type CourseService interface {
	Courses(context.Context) ([]string, error)
}

// NewCourseHandler creates a new course handler
func NewCourseHandler(svc CourseService) *CourseHandler {
	return &CourseHandler{service: svc}
}

// Courses handles GET /api/courses requests
//
//	@Summary	List course names
//	@Tags		courses
//	@Produce	json
//	@Success	200	{array}		string
//	@Failure	500	{object}	map[string]string
//	@Router		/api/courses [get]
func (h *CourseHandler) Courses(c *gin.Context) {
	courses, err := h.service.Courses(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("course listing failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	if courses == nil {
		courses = []string{}
	}

	c.JSON(http.StatusOK, courses)
}

// ReviewHandler handles review requests
type ReviewHandler struct {
	service ReviewService
}

// ReviewService interface for dependency injection
type ReviewService interface {
	Reviews(context.Context, string) ([]models.ReviewView, error)
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(svc ReviewService) *ReviewHandler {
	return &ReviewHandler{service: svc}
}

// Reviews handles GET /api/reviews requests
//
//	@Summary	List the reviews of an academy
//	@Tags		reviews
//	@Produce	json
//	@Param		academy_name	query		string	true	"Academy name"
//	@Success	200				{array}		models.ReviewView
//	@Failure	400				{object}	map[string]string
//	@Failure	500				{object}	map[string]string
//	@Router		/api/reviews [get]
func (h *ReviewHandler) Reviews(c *gin.Context) {
	name := c.Query("academy_name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required query parameter 'academy_name'"})
		return
	}

	reviews, err := h.service.Reviews(c.Request.Context(), name)
	if errors.Is(err, service.ErrMissingAcademyName) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required query parameter 'academy_name'"})
		return
	}
	if err != nil {
		log.Error().Err(err).Str("academy_name", name).Msg("review lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	if reviews == nil {
		reviews = []models.ReviewView{}
	}

	c.JSON(http.StatusOK, reviews)
}

// ReputationHandler handles reputation listing requests
type ReputationHandler struct {
	service ReputationService
}

// ReputationService interface for dependency injection
type ReputationService interface {
	Reputations(context.Context) ([]models.Reputation, error)
}

// NewReputationHandler creates a new reputation handler
func NewReputationHandler(svc ReputationService) *ReputationHandler {
	return &ReputationHandler{service: svc}
}

// Reputations handles GET /api/reputations requests
//
//	@Summary	List academy reputations, best first
//	@Tags		reputations
//	@Produce	json
//	@Success	200	{array}		models.Reputation
//	@Failure	404	{object}	map[string]string
//	@Failure	500	{object}	map[string]string
//	@Router		/api/reputations [get]
func (h *ReputationHandler) Reputations(c *gin.Context) {
	reps, err := h.service.Reputations(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("reputation listing failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	if len(reps) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "no reputation data found"})
		return
	}

	c.JSON(http.StatusOK, reps)
}
