package session

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kickelo/kickelo/internal/web"
)

type updateReq struct {
	ActivePlayers []string `json:"activePlayers"`
}

func RegisterRoutes(r *gin.Engine, repo *Repository) {
	api := r.Group("/api")
	{
		api.GET("/session", func(c *gin.Context) {
			s, err := repo.GetOrCreate(c.Request.Context())
			if err != nil {
				web.InternalError(c, err)
				return
			}
			c.JSON(http.StatusOK, ToAPI(s))
		})

		api.PUT("/session", func(c *gin.Context) {
			var req updateReq
			if err := c.ShouldBindJSON(&req); err != nil {
				web.BadRequest(c, "invalid json")
				return
			}
			s, err := repo.Update(c.Request.Context(), req.ActivePlayers)
			if err != nil {
				web.InternalError(c, err)
				return
			}
			c.JSON(http.StatusOK, ToAPI(s))
		})
	}
}
