package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type chapterJSON struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// subjectChapters lists the chapters of a subject for dependent dropdowns.
func (h *Handler) subjectChapters(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid subject id"})
		return
	}

	chapters, err := h.catalog.ChaptersOf(c.Request.Context(), id)
	if err != nil {
		if isNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "subject not found"})
			return
		}
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	out := make([]chapterJSON, 0, len(chapters))
	for _, ch := range chapters {
		out = append(out, chapterJSON{ID: ch.ID, Name: ch.Name})
	}
	c.JSON(http.StatusOK, gin.H{"chapters": out})
}
