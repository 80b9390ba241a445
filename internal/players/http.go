package players

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kickelo/kickelo/internal/web"
)

type ensureReq struct {
	Name string `json:"name"`
}

type incrementReq struct {
	Names []string `json:"names"`
}

func RegisterRoutes(r *gin.Engine, repo *Repository) {
	api := r.Group("/api/players")
	{
		api.GET("", func(c *gin.Context) {
			list, err := repo.List(c.Request.Context())
			if err != nil {
				web.InternalError(c, err)
				return
			}
			c.JSON(http.StatusOK, list)
		})

		api.POST("/ensure", func(c *gin.Context) {
			var req ensureReq
			if err := c.ShouldBindJSON(&req); err != nil {
				web.BadRequest(c, "invalid json")
				return
			}
			p, err := repo.Ensure(c.Request.Context(), req.Name)
			if errors.Is(err, ErrEmptyName) {
				web.BadRequest(c, err.Error())
				return
			}
			if err != nil {
				web.InternalError(c, err)
				return
			}
			c.JSON(http.StatusOK, p)
		})

		api.POST("/increment-games", func(c *gin.Context) {
			var req incrementReq
			if err := c.ShouldBindJSON(&req); err != nil {
				web.BadRequest(c, "invalid json")
				return
			}
			if err := repo.IncrementGames(c.Request.Context(), req.Names); err != nil {
				web.InternalError(c, err)
				return
			}
			c.JSON(http.StatusOK, gin.H{"ok": true})
		})
	}
}
