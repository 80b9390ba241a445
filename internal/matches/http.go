package matches

import (
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kickelo/kickelo/internal/web"
)

func isClientError(err error) bool {
	for _, target := range []error{
		ErrEmptyPlayerName, ErrTeamTooLarge, ErrUnsupportedMatchSize, ErrDuplicatePlayer,
		ErrNegativeScore, ErrTie, ErrWinnerMismatch, ErrNegativeDuration, ErrInvalidPayload,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// ----- Routes -----

func RegisterRoutes(r *gin.Engine, repo *Repository) {
	api := r.Group("/api")
	{
		api.GET("/matches", func(c *gin.Context) {
			list, err := repo.List(c.Request.Context())
			if err != nil {
				web.InternalError(c, err)
				return
			}
			c.JSON(http.StatusOK, ToAPIList(list))
		})

		api.POST("/matches", func(c *gin.Context) {
			var req createReq
			if err := c.ShouldBindJSON(&req); err != nil {
				web.BadRequest(c, "invalid request body: "+err.Error())
				return
			}
			sub, err := toSubmission(req)
			if err == nil {
				sub, err = Validate(sub)
			}
			if err != nil {
				if isClientError(err) {
					web.BadRequest(c, err.Error())
					return
				}
				web.InternalError(c, err)
				return
			}
			row, err := repo.Create(c.Request.Context(), sub)
			if err != nil {
				web.InternalError(c, err)
				return
			}
			c.JSON(http.StatusOK, ToAPI(row))
		})

		// CSV export of the match history, newest first
		api.GET("/matches.csv", func(c *gin.Context) {
			list, err := repo.List(c.Request.Context())
			if err != nil {
				web.InternalError(c, err)
				return
			}

			filename := fmt.Sprintf("matches_%s.csv", time.Now().Format("2006-01-02"))
			c.Header("Content-Type", "text/csv; charset=utf-8")
			c.Header("Content-Disposition", "attachment; filename="+filename)

			w := csv.NewWriter(c.Writer)
			_ = w.Write([]string{
				"id", "timestamp",
				"team_a", "team_b", "winner",
				"goals_a", "goals_b",
				"ranked", "match_duration",
			})
			for _, m := range ToAPIList(list) {
				duration := ""
				if m.MatchDuration != nil {
					duration = strconv.Itoa(*m.MatchDuration)
				}
				_ = w.Write([]string{
					m.ID, strconv.FormatInt(m.Timestamp, 10),
					strings.Join(m.TeamA, ";"), strings.Join(m.TeamB, ";"), m.Winner,
					strconv.Itoa(m.GoalsA), strconv.Itoa(m.GoalsB),
					strconv.FormatBool(m.Ranked), duration,
				})
			}
			w.Flush()
			if err := w.Error(); err != nil {
				web.InternalError(c, err)
				return
			}
		})
	}
}
