// Package api exposes the newsletter console operations over HTTP.
package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"newsdesk/internal/service"
	"newsdesk/pkg/models"
)

type Handler struct {
	svc *service.Service
}

func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

func RegisterRoutes(r *gin.Engine, h *Handler) {
	v1 := r.Group("/v1")
	{
		v1.POST("/ingest/run", h.RunIngest)
		v1.POST("/selection/run", h.RunSelection)
		v1.GET("/selection/preview", h.PreviewSelection)

		v1.GET("/campaigns", h.CampaignByDate)
		v1.GET("/campaigns/:id", h.Campaign)
		v1.POST("/campaigns/:id/status", h.TransitionCampaign)
		v1.PUT("/campaigns/:id/subject", h.SetCampaignSubject)
		v1.GET("/campaigns/:id/articles", h.CampaignArticles)
		v1.POST("/campaigns/:id/events/populate", h.PopulateEvents)
		v1.GET("/campaigns/:id/events", h.CampaignEvents)
		v1.POST("/campaigns/:id/events/:eventID/flags", h.FlagCampaignEvent)

		v1.POST("/articles/:id/active", h.SetArticleActive)

		v1.POST("/events", h.SubmitEvent)
		v1.GET("/events", h.ListEvents)
		v1.POST("/events/:id/active", h.SetEventActive)

		v1.POST("/ads", h.SubmitAd)
		v1.GET("/ads", h.ListAds)
		v1.POST("/ads/:id/status", h.TransitionAd)

		v1.POST("/admin/tasks/:key/reset", h.ResetTask)
	}
}

// respondErr maps service sentinels to status codes.
func respondErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrAlreadyRan):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// RunIngest: POST /v1/ingest/run?date=2025-10-04
func (h *Handler) RunIngest(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing date parameter"})
		return
	}
	res, err := h.svc.RunIngest(c.Request.Context(), date)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"meta": gin.H{"date": date}, "data": res})
}

// RunSelection: POST /v1/selection/run?date=2025-10-04
func (h *Handler) RunSelection(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing date parameter"})
		return
	}
	res, err := h.svc.RunDailySelection(c.Request.Context(), date)
	if err != nil {
		// a run that got as far as a campaign reports its counts as a
		// partial success; anything earlier is a hard failure
		if res.CampaignID == "" {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"meta": gin.H{"date": date, "partial": true, "error": err.Error()},
			"data": res,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"meta": gin.H{"date": date}, "data": res})
}

// PreviewSelection: GET /v1/selection/preview?date=2025-10-04
func (h *Handler) PreviewSelection(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing date parameter"})
		return
	}
	top, err := h.svc.PreviewSelection(c.Request.Context(), date)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"meta": gin.H{"count": len(top)}, "data": top})
}

// Campaign: GET /v1/campaigns/:id
func (h *Handler) Campaign(c *gin.Context) {
	res, err := h.svc.Campaign(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": res})
}

// CampaignByDate: GET /v1/campaigns?date=2025-10-04
func (h *Handler) CampaignByDate(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing date parameter"})
		return
	}
	res, err := h.svc.CampaignForDate(c.Request.Context(), date)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": res})
}

// TransitionCampaign: POST /v1/campaigns/:id/status
// Body: {"status": "in_review"}
func (h *Handler) TransitionCampaign(c *gin.Context) {
	var body struct {
		Status models.CampaignStatus `json:"status"`
	}
	if err := c.BindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json: " + err.Error()})
		return
	}
	res, err := h.svc.TransitionCampaign(c.Request.Context(), c.Param("id"), body.Status)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": res})
}

// SetCampaignSubject: PUT /v1/campaigns/:id/subject
// Body: {"subject": "This week in Oakdale"}
func (h *Handler) SetCampaignSubject(c *gin.Context) {
	var body struct {
		Subject string `json:"subject"`
	}
	if err := c.BindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json: " + err.Error()})
		return
	}
	if err := h.svc.SetCampaignSubject(c.Request.Context(), c.Param("id"), body.Subject); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"id": c.Param("id"), "subject": body.Subject}})
}

// CampaignArticles: GET /v1/campaigns/:id/articles
func (h *Handler) CampaignArticles(c *gin.Context) {
	res, err := h.svc.CampaignArticles(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"meta": gin.H{"count": len(res)}, "data": res})
}

// PopulateEvents: POST /v1/campaigns/:id/events/populate
func (h *Handler) PopulateEvents(c *gin.Context) {
	res, err := h.svc.PopulateEventsForCampaign(c.Request.Context(), c.Param("id"))
	if err != nil {
		if res.EventsFound == 0 {
			respondErr(c, err)
			return
		}
		// partial failure: committed links stay, report what happened
		c.JSON(http.StatusOK, gin.H{
			"meta": gin.H{"partial": true, "error": err.Error()},
			"data": res,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": res})
}

// CampaignEvents: GET /v1/campaigns/:id/events
func (h *Handler) CampaignEvents(c *gin.Context) {
	res, err := h.svc.CampaignEvents(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"meta": gin.H{"count": len(res)}, "data": res})
}

// FlagCampaignEvent: POST /v1/campaigns/:id/events/:eventID/flags
// Body: {"date": "2025-10-05", "is_selected": true, "is_featured": false}
func (h *Handler) FlagCampaignEvent(c *gin.Context) {
	var body struct {
		Date       string `json:"date"`
		IsSelected bool   `json:"is_selected"`
		IsFeatured bool   `json:"is_featured"`
	}
	if err := c.BindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json: " + err.Error()})
		return
	}
	err := h.svc.FlagCampaignEvent(c.Request.Context(),
		c.Param("id"), c.Param("eventID"), body.Date, body.IsSelected, body.IsFeatured)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"campaign_id": c.Param("id"),
		"event_id":    c.Param("eventID"),
		"is_selected": body.IsSelected,
		"is_featured": body.IsFeatured,
	}})
}

// SetArticleActive: POST /v1/articles/:id/active
// Body: {"active": false}
func (h *Handler) SetArticleActive(c *gin.Context) {
	var body struct {
		Active bool `json:"active"`
	}
	if err := c.BindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json: " + err.Error()})
		return
	}
	if err := h.svc.SetArticleActive(c.Request.Context(), c.Param("id"), body.Active); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"id": c.Param("id"), "active": body.Active}})
}

// SubmitEvent: POST /v1/events
func (h *Handler) SubmitEvent(c *gin.Context) {
	var sub service.EventSubmission
	if err := c.BindJSON(&sub); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json: " + err.Error()})
		return
	}
	res, err := h.svc.SubmitEvent(c.Request.Context(), sub)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": res})
}

// ListEvents: GET /v1/events?from=2025-10-04&to=2025-10-06&active=true&limit=50
func (h *Handler) ListEvents(c *gin.Context) {
	filter := models.EventFilter{
		From:       c.Query("from"),
		To:         c.Query("to"),
		ActiveOnly: c.Query("active") == "true",
		Limit:      parseLimit(c.DefaultQuery("limit", "50")),
	}
	res, err := h.svc.Events(c.Request.Context(), filter)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"meta": gin.H{"count": len(res)}, "data": res})
}

// SetEventActive: POST /v1/events/:id/active
// Body: {"active": false}
func (h *Handler) SetEventActive(c *gin.Context) {
	var body struct {
		Active bool `json:"active"`
	}
	if err := c.BindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json: " + err.Error()})
		return
	}
	if err := h.svc.SetEventActive(c.Request.Context(), c.Param("id"), body.Active); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"id": c.Param("id"), "active": body.Active}})
}

// SubmitAd: POST /v1/ads
func (h *Handler) SubmitAd(c *gin.Context) {
	var sub service.AdSubmission
	if err := c.BindJSON(&sub); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json: " + err.Error()})
		return
	}
	res, err := h.svc.SubmitAd(c.Request.Context(), sub)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": res})
}

// ListAds: GET /v1/ads?status=pending&limit=50
func (h *Handler) ListAds(c *gin.Context) {
	status := models.AdStatus(c.Query("status"))
	res, err := h.svc.Ads(c.Request.Context(), status, parseLimit(c.DefaultQuery("limit", "50")))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"meta": gin.H{"count": len(res)}, "data": res})
}

// TransitionAd: POST /v1/ads/:id/status
// Body: {"status": "approved"}
func (h *Handler) TransitionAd(c *gin.Context) {
	var body struct {
		Status models.AdStatus `json:"status"`
	}
	if err := c.BindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json: " + err.Error()})
		return
	}
	res, err := h.svc.TransitionAd(c.Request.Context(), c.Param("id"), body.Status)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": res})
}

// ResetTask: POST /v1/admin/tasks/:key/reset
func (h *Handler) ResetTask(c *gin.Context) {
	key := c.Param("key")
	if err := h.svc.ResetTask(c.Request.Context(), key); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"task": key, "reset": true}})
}

// parseLimit ensures a sane integer limit, with bounds.
func parseLimit(s string) int {
	l, err := strconv.Atoi(s)
	if err != nil || l <= 0 {
		return 50
	}
	if l > 200 {
		return 200
	}
	return l
}
