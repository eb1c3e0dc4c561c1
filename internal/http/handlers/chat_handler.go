// README: Chat handlers for the conversation API (sessions, messages, results).
package handlers

import (
	"context"
	"math"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"skylane/internal/amadeus"
	"skylane/internal/modules/conversation"
)

// messageTimeout bounds one full turn, including the model calls and a
// possible search dispatch.
const messageTimeout = 60 * time.Second

type ChatHandler struct {
	conv *conversation.Service
}

func NewChatHandler(svc *conversation.Service) *ChatHandler {
	return &ChatHandler{conv: svc}
}

// CreateSession handles POST /api/sessions.
func (h *ChatHandler) CreateSession(c *gin.Context) {
	sess := h.conv.CreateSession()
	writeJSON(c, http.StatusCreated, map[string]any{"session_id": sess.ID})
}

type postMessageReq struct {
	Message string `json:"message"`
}

// PostMessage handles POST /api/sessions/:id/messages.
func (h *ChatHandler) PostMessage(c *gin.Context) {
	sess, err := h.conv.GetSession(c.Param("id"))
	if err != nil {
		writeSessionError(c, err)
		return
	}

	var req postMessageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		writeError(c, http.StatusBadRequest, "missing message")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), messageTimeout)
	defer cancel()

	res := h.conv.ProcessMessage(ctx, sess, req.Message)
	writeJSON(c, http.StatusOK, map[string]any{
		"reply":            res.Reply,
		"intent":           res.Intent,
		"search_completed": res.SearchCompleted,
	})
}

// Results handles GET /api/sessions/:id/results.
func (h *ChatHandler) Results(c *gin.Context) {
	sess, err := h.conv.GetSession(c.Param("id"))
	if err != nil {
		writeSessionError(c, err)
		return
	}

	flights, inspiration := sess.Results()
	switch {
	case flights != nil:
		writeJSON(c, http.StatusOK, flights)
	case inspiration != nil:
		writeJSON(c, http.StatusOK, map[string]any{
			"destinations": sortedByPrice(inspiration),
		})
	default:
		writeError(c, http.StatusNotFound, "no search results for this session")
	}
}

// Reset handles DELETE /api/sessions/:id.
func (h *ChatHandler) Reset(c *gin.Context) {
	if err := h.conv.ResetSession(c.Param("id")); err != nil {
		writeSessionError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// sortedByPrice orders destinations cheapest first without mutating the
// session's copy. Unparseable prices sort last.
func sortedByPrice(in []amadeus.Destination) []amadeus.Destination {
	out := make([]amadeus.Destination, len(in))
	copy(out, in)
	sort.SliceStable(out, func(i, j int) bool {
		return priceValue(out[i].Price) < priceValue(out[j].Price)
	})
	return out
}

func priceValue(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.Inf(1)
	}
	return v
}
