package person

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"genhub/internal/auth"
	"genhub/internal/sync"
	"genhub/pkg/models"
)

type Handler struct {
	Repo *Repo
	Hub  *sync.Hub
}

func NewHandler(repo *Repo, hub *sync.Hub) *Handler {
	return &Handler{Repo: repo, Hub: hub}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/persons", h.list)
	rg.POST("/persons", h.create)
	rg.GET("/persons/:id", h.get)
	rg.PUT("/persons/:id", h.update)
	rg.DELETE("/persons/:id", h.remove)
}

type createReq struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Gender     string `json:"gender"`
	BirthDate  string `json:"birth_date"`
	BirthPlace string `json:"birth_place"`
	DeathDate  string `json:"death_date"`
	DeathPlace string `json:"death_place"`
	Photo      string `json:"photo"`
	Notes      string `json:"notes"`
	Region     string `json:"region"`
}

func (h *Handler) create(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	if req.FirstName == "" || req.LastName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "first_name and last_name required"})
		return
	}

	gender := req.Gender
	if gender == "" {
		gender = models.GenderUnknown
	}
	if !models.ValidGender(gender) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "gender must be one of: male, female, unknown"})
		return
	}

	p := models.Person{
		ID:         uuid.NewString(),
		UserID:     claims.UserID,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Gender:     gender,
		BirthDate:  strings.TrimSpace(req.BirthDate),
		BirthPlace: strings.TrimSpace(req.BirthPlace),
		DeathDate:  strings.TrimSpace(req.DeathDate),
		DeathPlace: strings.TrimSpace(req.DeathPlace),
		Photo:      req.Photo,
		Notes:      req.Notes,
		Region:     strings.TrimSpace(req.Region),
	}

	if err := h.Repo.Insert(c.Request.Context(), p); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
		return
	}

	h.broadcast(sync.EventPersonUpdate, claims.UserID, p.ID)
	c.JSON(http.StatusCreated, p)
}

func (h *Handler) list(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	items, err := h.Repo.List(c.Request.Context(), claims.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	if items == nil {
		items = []models.Person{}
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) get(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	p, err := h.Repo.Get(c.Request.Context(), claims.UserID, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "get failed"})
		return
	}
	if p == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "person not found"})
		return
	}
	c.JSON(http.StatusOK, p)
}

type updateReq struct {
	FirstName  *string `json:"first_name"`
	LastName   *string `json:"last_name"`
	Gender     *string `json:"gender"`
	BirthDate  *string `json:"birth_date"`
	BirthPlace *string `json:"birth_place"`
	DeathDate  *string `json:"death_date"`
	DeathPlace *string `json:"death_place"`
	Photo      *string `json:"photo"`
	Notes      *string `json:"notes"`
	Region     *string `json:"region"`
}

func (h *Handler) update(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req updateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	existing, err := h.Repo.Get(c.Request.Context(), claims.UserID, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "get failed"})
		return
	}
	if existing == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "person not found"})
		return
	}

	applyString(&existing.FirstName, req.FirstName)
	applyString(&existing.LastName, req.LastName)
	applyString(&existing.BirthDate, req.BirthDate)
	applyString(&existing.BirthPlace, req.BirthPlace)
	applyString(&existing.DeathDate, req.DeathDate)
	applyString(&existing.DeathPlace, req.DeathPlace)
	applyString(&existing.Photo, req.Photo)
	applyString(&existing.Notes, req.Notes)
	applyString(&existing.Region, req.Region)
	if req.Gender != nil {
		if !models.ValidGender(*req.Gender) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "gender must be one of: male, female, unknown"})
			return
		}
		existing.Gender = *req.Gender
	}

	if strings.TrimSpace(existing.FirstName) == "" || strings.TrimSpace(existing.LastName) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "first_name and last_name required"})
		return
	}

	ok, err := h.Repo.Update(c.Request.Context(), *existing)
	if err != nil || !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}

	h.broadcast(sync.EventPersonUpdate, claims.UserID, existing.ID)
	c.JSON(http.StatusOK, existing)
}

func (h *Handler) remove(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	id := c.Param("id")
	ok, err := h.Repo.Delete(c.Request.Context(), claims.UserID, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "person not found"})
		return
	}

	h.broadcast(sync.EventPersonDelete, claims.UserID, id)
	c.JSON(http.StatusOK, gin.H{"status": "person deleted"})
}

func (h *Handler) broadcast(eventType, userID, entityID string) {
	if h.Hub == nil {
		return
	}
	h.Hub.BroadcastEvent(sync.TreeEvent{
		Type:     eventType,
		UserID:   userID,
		EntityID: entityID,
	})
}

func applyString(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}
