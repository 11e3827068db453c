package link

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
	rg.GET("/links", h.list)
	rg.POST("/links", h.create)
	rg.DELETE("/links/:id", h.remove)
}

type createReq struct {
	PersonID1 string `json:"person_id_1"`
	PersonID2 string `json:"person_id_2"`
	LinkType  string `json:"link_type"`
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

	req.PersonID1 = strings.TrimSpace(req.PersonID1)
	req.PersonID2 = strings.TrimSpace(req.PersonID2)
	if req.PersonID1 == "" || req.PersonID2 == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "person_id_1 and person_id_2 required"})
		return
	}
	if req.PersonID1 == req.PersonID2 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "link endpoints must differ"})
		return
	}
	if !models.KnownLinkType(req.LinkType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "link_type must be one of: parent, child, spouse, sibling"})
		return
	}

	ctx := c.Request.Context()
	for _, pid := range []string{req.PersonID1, req.PersonID2} {
		ok, err := h.Repo.PersonExists(ctx, claims.UserID, pid)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
			return
		}
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "one or both persons not found"})
			return
		}
	}

	l := models.FamilyLink{
		ID:        uuid.NewString(),
		UserID:    claims.UserID,
		PersonID1: req.PersonID1,
		PersonID2: req.PersonID2,
		LinkType:  req.LinkType,
	}

	if err := h.Repo.Insert(ctx, l); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
		return
	}

	h.broadcast(sync.EventLinkUpdate, claims.UserID, l.ID)
	c.JSON(http.StatusCreated, l)
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
		items = []models.FamilyLink{}
	}
	c.JSON(http.StatusOK, items)
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
		c.JSON(http.StatusNotFound, gin.H{"error": "link not found"})
		return
	}

	h.broadcast(sync.EventLinkDelete, claims.UserID, id)
	c.JSON(http.StatusOK, gin.H{"status": "link deleted"})
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
