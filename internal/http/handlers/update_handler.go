// Update HTTP handlers.
//
// This file exposes the webhook endpoints:
//   - POST /updates            (ingest one update delivered by the platform)
//   - POST /updates/classify   (classify one update without side effects)
//
// A redelivered update (same update_id within the receipt TTL) is answered
// 200 with `replay: true` and the `Update-Replayed: true` header so the
// platform stops retrying.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-tg-updates/internal/http/middleware"
	"github.com/tbourn/go-tg-updates/internal/services"
	"github.com/tbourn/go-tg-updates/internal/telegram"
	"github.com/tbourn/go-tg-updates/internal/updates"
)

// PostUpdateResponse is the JSON envelope for an ingested update.
type PostUpdateResponse struct {
	// Replay is true when the update_id had already been accepted.
	Replay bool `json:"replay" example:"false"`
	// Context is the access object: every kind property is present, null
	// unless it is the matched kind.
	Context *updates.Context `json:"context" swaggertype:"object"`
}

// ClassifyResponse is the JSON body of the classify endpoint.
type ClassifyResponse = services.Classification

// decodeUpdate reads the body as one update, writing the error envelope and
// returning nil when it cannot.
func decodeUpdate(c *gin.Context) *telegram.Update {
	u, err := telegram.DecodeReader(c.Request.Body)
	if err != nil {
		status, code, msg := classifyError(err)
		if status == http.StatusInternalServerError {
			// Anything DecodeReader returns besides the cases above is a JSON
			// syntax or type error.
			status, code, msg = http.StatusBadRequest, ErrCodeBadRequest, "invalid update JSON"
		}
		fail(c, status, code, msg)
		return nil
	}
	return u
}

// PostUpdate godoc
// @ID          postUpdate
// @Summary     Ingest a webhook update
// @Description Classifies the update, deduplicates redeliveries by update_id and dispatches
// @Description new updates to the configured sink. Redeliveries return replay=true.
// @Tags        Updates
// @Accept      json
// @Produce     json
//
// @Param       X-Telegram-Bot-Api-Secret-Token  header  string  false  "Webhook secret token (required when configured)"
// @Param       body  body  object  true  "Telegram Update object"
//
// @Success     200  {object}  handlers.PostUpdateResponse
// @Header      200  {string}  Update-Replayed  "true when the update was already accepted"
// @Failure     400  {object}  handlers.ErrorResponse  "Empty or invalid JSON"
// @Failure     401  {object}  handlers.ErrorResponse  "Bad secret token"
// @Failure     413  {object}  handlers.ErrorResponse  "Body too large"
// @Failure     422  {object}  handlers.ErrorResponse  "Unknown kind or malformed payload"
// @Failure     429  {object}  handlers.ErrorResponse  "Rate limited"
// @Failure     502  {object}  handlers.ErrorResponse  "Dispatch failed"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /updates [post]
func (h *Handlers) PostUpdate(c *gin.Context) {
	u := decodeUpdate(c)
	if u == nil {
		return
	}

	res, err := h.ingest.Ingest(c.Request.Context(), u)
	if err != nil {
		failErr(c, err)
		return
	}
	middleware.Annotate(c, string(res.Context.Kind), string(res.Context.Subkind))
	if res.Replay {
		c.Header("Update-Replayed", "true")
	}
	ok(c, http.StatusOK, PostUpdateResponse{Replay: res.Replay, Context: res.Context})
}

// ClassifyUpdate godoc
// @ID          classifyUpdate
// @Summary     Classify an update
// @Description Returns the kind, the message sub-kind and every matching sub-kind in
// @Description priority order. Nothing is stored or dispatched.
// @Tags        Updates
// @Accept      json
// @Produce     json
//
// @Param       body  body  object  true  "Telegram Update object"
//
// @Success     200  {object}  services.Classification
// @Failure     400  {object}  handlers.ErrorResponse  "Empty or invalid JSON"
// @Failure     422  {object}  handlers.ErrorResponse  "Unknown kind or malformed payload"
// @Router      /updates/classify [post]
func (h *Handlers) ClassifyUpdate(c *gin.Context) {
	u := decodeUpdate(c)
	if u == nil {
		return
	}

	cl, err := h.ingest.Classify(c.Request.Context(), u)
	if err != nil {
		failErr(c, err)
		return
	}
	middleware.Annotate(c, string(cl.Kind), string(cl.Subkind))
	ok(c, http.StatusOK, cl)
}
