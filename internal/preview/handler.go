package preview

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"genhub/internal/auth"
	"genhub/internal/tree"
	"genhub/pkg/models"
)

const (
	// Anonymous trees are capped so the preview cannot replace a real
	// account.
	maxPreviewPersons = 10
	sessionTTL        = 24 * time.Hour
)

type Handler struct {
	Repo *Repo
	Tree *tree.Repo
}

func NewHandler(repo *Repo, treeRepo *tree.Repo) *Handler {
	return &Handler{Repo: repo, Tree: treeRepo}
}

// RegisterRoutes mounts the anonymous endpoints. Convert needs a
// logged-in user, so it is registered separately on the protected
// group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/preview/session", h.createSession)
	rg.GET("/preview/:token", h.getSession)
	rg.POST("/preview/:token/person", h.addPerson)
	rg.POST("/preview/:token/link", h.addLink)
}

func (h *Handler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	rg.POST("/preview/:token/convert", h.convert)
}

func (h *Handler) createSession(c *gin.Context) {
	s, err := h.Repo.Create(c.Request.Context(), uuid.NewString(), sessionTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session create failed"})
		return
	}
	c.JSON(http.StatusCreated, s)
}

func (h *Handler) getSession(c *gin.Context) {
	s := h.load(c)
	if s == nil {
		return
	}
	c.JSON(http.StatusOK, s)
}

// load fetches a live session, writing the error response itself when
// the session is missing or past its expiry.
func (h *Handler) load(c *gin.Context) *Session {
	token := c.Param("token")
	s, err := h.Repo.Get(c.Request.Context(), token)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session lookup failed"})
		return nil
	}
	if s == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "preview session not found"})
		return nil
	}
	if s.Expired(time.Now().UTC()) {
		_ = h.Repo.Delete(c.Request.Context(), token)
		c.JSON(http.StatusGone, gin.H{"error": "preview session expired"})
		return nil
	}
	return s
}

type personReq struct {
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

func (h *Handler) addPerson(c *gin.Context) {
	s := h.load(c)
	if s == nil {
		return
	}

	var req personReq
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
	if len(s.Persons) >= maxPreviewPersons {
		c.JSON(http.StatusBadRequest, gin.H{"error": "preview mode limited to 10 members"})
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

	s.Persons = append(s.Persons, models.Person{
		ID:         uuid.NewString(),
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
	})

	if err := h.Repo.Save(c.Request.Context(), s); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session save failed"})
		return
	}
	c.JSON(http.StatusOK, s)
}

type linkReq struct {
	PersonID1 string `json:"person_id_1"`
	PersonID2 string `json:"person_id_2"`
	LinkType  string `json:"link_type"`
}

func (h *Handler) addLink(c *gin.Context) {
	s := h.load(c)
	if s == nil {
		return
	}

	var req linkReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if req.PersonID1 == "" || req.PersonID2 == "" || req.PersonID1 == req.PersonID2 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "link endpoints must be two distinct persons"})
		return
	}
	if !models.KnownLinkType(req.LinkType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "link_type must be one of: parent, child, spouse, sibling"})
		return
	}

	s.Links = append(s.Links, models.FamilyLink{
		ID:        uuid.NewString(),
		PersonID1: req.PersonID1,
		PersonID2: req.PersonID2,
		LinkType:  req.LinkType,
	})

	if err := h.Repo.Save(c.Request.Context(), s); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session save failed"})
		return
	}
	c.JSON(http.StatusOK, s)
}

// convert copies the scratch tree into the caller's permanent tree.
// Persons receive fresh ids; links follow the remapped endpoints, and
// links pointing at unknown persons are dropped.
func (h *Handler) convert(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	s := h.load(c)
	if s == nil {
		return
	}

	ctx := c.Request.Context()
	oldToNew := make(map[string]string, len(s.Persons))
	for _, p := range s.Persons {
		newID := uuid.NewString()
		oldToNew[p.ID] = newID
		p.ID = newID
		p.UserID = claims.UserID
		if err := h.Tree.InsertPerson(ctx, p); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "convert failed"})
			return
		}
	}

	linksConverted := 0
	for _, l := range s.Links {
		p1, ok1 := oldToNew[l.PersonID1]
		p2, ok2 := oldToNew[l.PersonID2]
		if !ok1 || !ok2 {
			continue
		}
		if err := h.Tree.InsertLink(ctx, models.FamilyLink{
			ID:        uuid.NewString(),
			UserID:    claims.UserID,
			PersonID1: p1,
			PersonID2: p2,
			LinkType:  l.LinkType,
		}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "convert failed"})
			return
		}
		linksConverted++
	}

	if err := h.Repo.Delete(ctx, s.Token); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session cleanup failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":           "preview converted to permanent tree",
		"persons_converted": len(oldToNew),
		"links_converted":   linksConverted,
	})
}
