package share

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"genhub/internal/auth"
	"genhub/internal/notify"
	"genhub/pkg/models"
)

type Handler struct {
	Repo     *Repo
	Users    *auth.Repo
	Notifier *notify.Server // optional
}

func NewHandler(repo *Repo, users *auth.Repo, notifier *notify.Server) *Handler {
	return &Handler{Repo: repo, Users: users, Notifier: notifier}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/shares", h.list)
	rg.POST("/shares", h.create)
	rg.DELETE("/shares/:id", h.remove)
}

type createReq struct {
	GranteeEmail string `json:"grantee_email"`
	Role         string `json:"role"`
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

	email := strings.TrimSpace(strings.ToLower(req.GranteeEmail))
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "grantee_email required"})
		return
	}
	if !models.ValidShareRole(req.Role) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "role must be view or edit"})
		return
	}

	grantee, err := h.Users.GetByEmail(c.Request.Context(), email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	if grantee == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no user with that email"})
		return
	}
	if grantee.ID == claims.UserID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot share a tree with yourself"})
		return
	}

	s := models.TreeShare{
		ID:        uuid.NewString(),
		OwnerID:   claims.UserID,
		GranteeID: grantee.ID,
		Role:      req.Role,
	}

	if err := h.Repo.Create(c.Request.Context(), s); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
		return
	}

	if h.Notifier != nil {
		h.Notifier.BroadcastShareGranted(claims.UserID, grantee.ID, s.Role)
	}

	c.JSON(http.StatusCreated, s)
}

func (h *Handler) list(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	ctx := c.Request.Context()
	granted, err := h.Repo.ListByOwner(ctx, claims.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	received, err := h.Repo.ListByGrantee(ctx, claims.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}

	if granted == nil {
		granted = []models.TreeShare{}
	}
	if received == nil {
		received = []models.TreeShare{}
	}
	c.JSON(http.StatusOK, gin.H{"granted": granted, "received": received})
}

func (h *Handler) remove(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	ok, err := h.Repo.Delete(c.Request.Context(), claims.UserID, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "share not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "share revoked"})
}
