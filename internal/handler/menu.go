package handler

import (
	"net/http"
	"strings"

	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/food-order-api/internal/domain/menu"
)

// ListMenu returns every item in the catalog as a JSON array.
func (h *Handler) ListMenu(w http.ResponseWriter, r *http.Request) {
	items, err := h.catalog.List(r.Context())
	if err != nil {
		zctx.From(r.Context()).Error("Failed to list menu items", zap.Error(err))
		writeMessage(w, http.StatusInternalServerError, "Failed to retrieve menu items")
		return
	}

	e := &jx.Encoder{}
	e.ArrStart()
	for _, item := range items {
		h.encodeMenuItem(e, item)
	}
	e.ArrEnd()
	writeJSON(w, http.StatusOK, e)
}

func (h *Handler) encodeMenuItem(e *jx.Encoder, item menu.Item) {
	e.ObjStart()
	e.FieldStart("id")
	e.Int64(item.ID)
	e.FieldStart("name")
	e.Str(item.Name)
	e.FieldStart("description")
	e.Str(item.Description)
	e.FieldStart("price")
	e.Num(jx.Num(item.Price.String()))
	e.FieldStart("image")
	e.Str(h.imageURL(item.Image))
	e.ObjEnd()
}

// imageURL prefixes relative image paths with the configured base URL.
func (h *Handler) imageURL(path string) string {
	if h.imageBaseURL == "" || strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return h.imageBaseURL + path
}
