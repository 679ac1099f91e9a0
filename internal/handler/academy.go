package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"academy-map-api/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// AcademyHandler handles academy search and listing requests
type AcademyHandler struct {
	service AcademyService
}

// AcademyService interface for dependency injection
type AcademyService interface {
	Search(context.Context, models.SearchQuery) ([]models.ResultItem, error)
	AllAcademies(context.Context) ([]models.AcademyView, error)
	ReputedAcademies(context.Context) ([]models.AcademyView, error)
}

// NewAcademyHandler creates a new academy handler
func NewAcademyHandler(svc AcademyService) *AcademyHandler {
	return &AcademyHandler{service: svc}
}

// Search handles GET /api/academies requests
//
//	@Summary		Search academies in a map viewport
//	@Description	Returns the academies within the circle spanned by the viewport corners. Academies sharing coordinates are grouped. Missing bounds yield an empty list.
//	@Tags			academies
//	@Produce		json
//	@Param			neLat	query		number	false	"Northeast latitude"
//	@Param			neLng	query		number	false	"Northeast longitude"
//	@Param			swLat	query		number	false	"Southwest latitude"
//	@Param			swLng	query		number	false	"Southwest longitude"
//	@Param			keyword	query		string	false	"Case-insensitive name filter"
//	@Param			course	query		string	false	"Exact course filter"
//	@Success		200		{array}		models.ResultItem
//	@Failure		400		{object}	map[string]string
//	@Failure		500		{object}	map[string]string
//	@Router			/api/academies [get]
func (h *AcademyHandler) Search(c *gin.Context) {
	query, ok, err := parseSearchQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !ok {
		c.JSON(http.StatusOK, []models.ResultItem{})
		return
	}

	items, err := h.service.Search(c.Request.Context(), query)
	if err != nil {
		log.Error().Err(err).Msg("academy search failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	if items == nil {
		items = []models.ResultItem{}
	}

	c.JSON(http.StatusOK, items)
}

// All handles GET /api/academies/all requests
//
//	@Summary	List every academy
//	@Tags		academies
//	@Produce	json
//	@Success	200	{array}		models.AcademyView
//	@Failure	500	{object}	map[string]string
//	@Router		/api/academies/all [get]
func (h *AcademyHandler) All(c *gin.Context) {
	h.list(c, h.service.AllAcademies)
}

// Reputed handles GET /api/academies/reputed requests
//
//	@Summary	List academies that have a reputation
//	@Tags		academies
//	@Produce	json
//	@Success	200	{array}		models.AcademyView
//	@Failure	500	{object}	map[string]string
//	@Router		/api/academies/reputed [get]
func (h *AcademyHandler) Reputed(c *gin.Context) {
	h.list(c, h.service.ReputedAcademies)
}

func (h *AcademyHandler) list(c *gin.Context, fetch func(context.Context) ([]models.AcademyView, error)) {
	academies, err := fetch(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("academy listing failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	if academies == nil {
		academies = []models.AcademyView{}
	}

	c.JSON(http.StatusOK, academies)
}

type boundsError string

func (e boundsError) Error() string { return string(e) }

// parseSearchQuery reads the viewport and filters. ok is false when any corner value is
// absent; err is set when a value is present but not a valid coordinate.
func parseSearchQuery(c *gin.Context) (models.SearchQuery, bool, error) {
	raw := [4]string{c.Query("neLat"), c.Query("neLng"), c.Query("swLat"), c.Query("swLng")}
	for _, v := range raw {
		if strings.TrimSpace(v) == "" {
			return models.SearchQuery{}, false, nil
		}
	}

	var vals [4]float64
	for i, v := range raw {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return models.SearchQuery{}, false, boundsError("invalid bounds format")
		}
		vals[i] = f
	}

	ne := models.LatLng{Lat: vals[0], Lng: vals[1]}
	sw := models.LatLng{Lat: vals[2], Lng: vals[3]}
	if !models.ValidLatLng(ne.Lat, ne.Lng) || !models.ValidLatLng(sw.Lat, sw.Lng) {
		return models.SearchQuery{}, false, boundsError("bounds out of range")
	}

	return models.SearchQuery{
		Keyword:   strings.TrimSpace(c.Query("keyword")),
		Course:    strings.TrimSpace(c.Query("course")),
		NorthEast: ne,
		SouthWest: sw,
	}, true, nil
}
