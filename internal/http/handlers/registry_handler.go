package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-tg-updates/internal/services"
)

// ListKindsResponse lists the update-kind registry.
type ListKindsResponse struct {
	Kinds []services.KindRow `json:"kinds"`
}

// ListSubkindsResponse lists the message sub-kind registry.
type ListSubkindsResponse struct {
	Subkinds []services.SubkindRow `json:"subkinds"`
}

// ListKinds godoc
// @ID          listKinds
// @Summary     List update kinds
// @Description Registry order; the first kind present on an update wins.
// @Tags        Registry
// @Produce     json
// @Success     200  {object}  handlers.ListKindsResponse
// @Router      /registry/kinds [get]
func (h *Handlers) ListKinds(c *gin.Context) {
	ok(c, http.StatusOK, ListKindsResponse{Kinds: services.KindRows()})
}

// ListSubkinds godoc
// @ID          listSubkinds
// @Summary     List message sub-kinds
// @Description Priority order; the first sub-kind present on a message wins.
// @Tags        Registry
// @Produce     json
// @Success     200  {object}  handlers.ListSubkindsResponse
// @Router      /registry/subkinds [get]
func (h *Handlers) ListSubkinds(c *gin.Context) {
	ok(c, http.StatusOK, ListSubkindsResponse{Subkinds: services.SubkindRows()})
}
