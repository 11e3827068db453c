package merge

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"genhub/internal/auth"
	"genhub/internal/notify"
	"genhub/internal/share"
	"genhub/pkg/models"
)

type Handler struct {
	Store    Store
	Planner  *Planner
	Shares   *share.Repo
	Users    *auth.Repo
	Notifier *notify.Server // optional
}

func NewHandler(store Store, shares *share.Repo, users *auth.Repo, notifier *notify.Server) *Handler {
	return &Handler{
		Store:    store,
		Planner:  NewPlanner(store),
		Shares:   shares,
		Users:    users,
		Notifier: notifier,
	}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/merge/analyze", h.analyze)
	rg.POST("/merge/execute", h.execute)
}

type analyzeReq struct {
	SourceUserID string `json:"source_user_id"`
}

func (h *Handler) analyze(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req analyzeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	sourceID := strings.TrimSpace(req.SourceUserID)
	if sourceID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "source_user_id required"})
		return
	}

	if !h.canMerge(c, sourceID, claims.UserID) {
		return
	}

	ctx := c.Request.Context()
	sourcePersons, err := h.Store.PersonsByOwner(ctx, sourceID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "load source tree failed"})
		return
	}
	targetPersons, err := h.Store.PersonsByOwner(ctx, claims.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "load target tree failed"})
		return
	}
	sourceLinks, err := h.Store.LinksByOwner(ctx, sourceID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "load source links failed"})
		return
	}
	targetLinks, err := h.Store.LinksByOwner(ctx, claims.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "load target links failed"})
		return
	}

	report := BuildReport(sourcePersons, targetPersons, sourceLinks, targetLinks)
	if owner, err := h.Users.GetByID(ctx, sourceID); err == nil && owner != nil {
		report.SourceOwnerName = strings.TrimSpace(owner.FirstName + " " + owner.LastName)
	}

	c.JSON(http.StatusOK, report)
}

type executeReq struct {
	SourceUserID string     `json:"source_user_id"`
	Decisions    []Decision `json:"decisions"`
	ImportLinks  bool       `json:"import_links"`
}

func (h *Handler) execute(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req executeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	sourceID := strings.TrimSpace(req.SourceUserID)
	if sourceID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "source_user_id required"})
		return
	}

	if !h.canMerge(c, sourceID, claims.UserID) {
		return
	}

	result, err := h.Planner.Execute(c.Request.Context(), sourceID, claims.UserID, req.Decisions, req.ImportLinks)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "merge failed"})
		return
	}

	if h.Notifier != nil {
		h.Notifier.BroadcastMergeCompleted(sourceID, claims.UserID, result.PersonsAdded+result.PersonsMerged)
	}

	c.JSON(http.StatusOK, result)
}

// canMerge enforces edit-level access to the source tree. A user always
// has access to their own tree. Writes false responses itself.
func (h *Handler) canMerge(c *gin.Context, sourceOwnerID, callerID string) bool {
	if sourceOwnerID == callerID {
		return true
	}
	ok, err := h.Shares.HasRole(c.Request.Context(), sourceOwnerID, callerID, models.ShareRoleEdit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "share lookup failed"})
		return false
	}
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "edit access to the source tree required"})
		return false
	}
	return true
}
