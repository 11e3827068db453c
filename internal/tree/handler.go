package tree

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"genhub/internal/auth"
)

type Handler struct {
	Repo  *Repo
	Users *auth.Repo
}

func NewHandler(repo *Repo, users *auth.Repo) *Handler {
	return &Handler{Repo: repo, Users: users}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/tree", h.getTree)
	rg.GET("/tree/export", h.exportData)
	rg.DELETE("/tree/account", h.deleteAccount)
}

func (h *Handler) getTree(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	ctx := c.Request.Context()
	persons, err := h.Repo.PersonsByOwner(ctx, claims.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "load persons failed"})
		return
	}
	links, err := h.Repo.LinksByOwner(ctx, claims.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "load links failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"persons": persons, "links": links})
}

// exportData returns everything stored for the calling user, for GDPR
// compliance. The password hash is never included.
func (h *Handler) exportData(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	ctx := c.Request.Context()
	u, err := h.Users.GetByID(ctx, claims.UserID)
	if err != nil || u == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "load user failed"})
		return
	}
	persons, err := h.Repo.PersonsByOwner(ctx, claims.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "load persons failed"})
		return
	}
	links, err := h.Repo.LinksByOwner(ctx, claims.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "load links failed"})
		return
	}

	user := gin.H{
		"id":           u.ID,
		"email":        u.Email,
		"first_name":   u.FirstName,
		"last_name":    u.LastName,
		"gdpr_consent": u.GDPRConsent,
		"created_at":   u.CreatedAt.UTC().Format(time.RFC3339),
	}

	c.JSON(http.StatusOK, gin.H{
		"user":         user,
		"persons":      persons,
		"family_links": links,
		"exported_at":  time.Now().UTC().Format(time.RFC3339),
	})
}

// deleteAccount erases the user's tree, shares and account record.
func (h *Handler) deleteAccount(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	ctx := c.Request.Context()
	if err := h.Repo.DeleteAllForOwner(ctx, claims.UserID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete tree failed"})
		return
	}
	if err := h.Users.DeleteUser(ctx, claims.UserID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete account failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "account and all data deleted"})
}
