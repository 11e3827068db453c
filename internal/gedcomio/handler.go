package gedcomio

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cacack/gedcom-go/decoder"
	"github.com/cacack/gedcom-go/encoder"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"genhub/internal/auth"
	"genhub/internal/sync"
	"genhub/internal/tree"
)

type Handler struct {
	Tree *tree.Repo
	Hub  *sync.Hub
}

func NewHandler(treeRepo *tree.Repo, hub *sync.Hub) *Handler {
	return &Handler{Tree: treeRepo, Hub: hub}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/gedcom/import", h.importFile)
	rg.GET("/gedcom/export", h.exportFile)
}

// importFile accepts a GEDCOM file either as a multipart upload under
// "file" or as the raw request body.
func (h *Handler) importFile(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var src io.Reader = c.Request.Body
	if file, err := c.FormFile("file"); err == nil {
		f, err := file.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read upload"})
			return
		}
		defer f.Close()
		src = f
	}

	doc, err := decoder.Decode(src)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid gedcom: %v", err)})
		return
	}

	persons, links := FromDocument(doc, claims.UserID, uuid.NewString)

	ctx := c.Request.Context()
	for _, p := range persons {
		if err := h.Tree.InsertPerson(ctx, p); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "import failed"})
			return
		}
	}
	for _, l := range links {
		if err := h.Tree.InsertLink(ctx, l); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "import failed"})
			return
		}
	}

	if h.Hub != nil {
		h.Hub.BroadcastEvent(sync.TreeEvent{
			Type:   sync.EventTreeMerge,
			UserID: claims.UserID,
		})
	}

	c.JSON(http.StatusCreated, gin.H{
		"persons_imported": len(persons),
		"links_imported":   len(links),
	})
}

func (h *Handler) exportFile(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	ctx := c.Request.Context()
	persons, err := h.Tree.PersonsByOwner(ctx, claims.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
		return
	}
	links, err := h.Tree.LinksByOwner(ctx, claims.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
		return
	}

	doc, dropped := ToDocument(persons, links)

	var buf bytes.Buffer
	if err := encoder.Encode(&buf, doc); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "encode failed"})
		return
	}

	name := fmt.Sprintf("tree-%s.ged", time.Now().UTC().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	if dropped > 0 {
		c.Header("X-Dropped-Links", fmt.Sprintf("%d", dropped))
	}
	c.Data(http.StatusOK, "text/plain; charset=utf-8", buf.Bytes())
}
