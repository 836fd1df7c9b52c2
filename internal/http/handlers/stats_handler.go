package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-tg-updates/internal/services"
	"github.com/tbourn/go-tg-updates/internal/utils"
)

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// StatsResponse is a page of classification counters.
type StatsResponse struct {
	Counters []services.Counter `json:"counters"`
	// Updates is the sum of all counters, not only the ones on this page.
	Updates    int64      `json:"updates"`
	Pagination Pagination `json:"pagination"`
}

// clampPagination parses page/page_size with defaults and caps.
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 50
		maxPageSize     = 500
	)
	page = utils.AtoiDefault(c.Query("page"), defaultPage)
	if page < 1 {
		page = 1
	}
	pageSize = utils.Clamp(utils.AtoiDefault(c.Query("page_size"), defaultPageSize), 1, maxPageSize)
	return page, pageSize
}

// Stats godoc
// @ID          stats
// @Summary     Classification counters
// @Description Counters per (kind, sub-kind), ordered by kind registry order then sub-kind
// @Description priority. Supports weak ETag via If-None-Match and may return 304.
// @Tags        Stats
// @Produce     json
//
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"
// @Param       page           query   int     false "Page number"     minimum(1) default(1)
// @Param       page_size      query   int     false "Items per page"  minimum(1) maximum(500) default(50)
//
// @Success     200  {object}  handlers.StatsResponse
// @Success     304  {string}  string  "Not Modified"
// @Header      200  {string}  ETag  "Weak ETag for the current counters"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /stats [get]
func (h *Handlers) Stats(c *gin.Context) {
	ctx := c.Request.Context()
	page, pageSize := clampPagination(c)

	// ETag pre-check (best effort).
	snap, err := h.stats.Snapshot(ctx)
	if err == nil {
		var ts int64
		if snap.MaxUpdatedAt != nil {
			ts = snap.MaxUpdatedAt.UnixNano()
		}
		etag := fmt.Sprintf(`W/"stats:%d:%d:%d:%d:%d"`, snap.Rows, snap.Sum, ts, page, pageSize)
		c.Header("ETag", etag)
		if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
			c.Status(http.StatusNotModified)
			return
		}
	}

	all, err := h.stats.Counters(ctx)
	if err != nil {
		_ = c.Error(err)
		fail(c, http.StatusInternalServerError, ErrCodeStatsFailed, "failed to read counters")
		return
	}

	var sum int64
	for _, ctr := range all {
		sum += ctr.Total
	}
	start, end, pages := utils.PageWindow(page, pageSize, len(all))
	ok(c, http.StatusOK, StatsResponse{
		Counters: all[start:end],
		Updates:  sum,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      int64(len(all)),
			TotalPages: pages,
			HasNext:    page < pages,
		},
	})
}
