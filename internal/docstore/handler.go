package docstore

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DefaultCollection is used when the route carries no collection name.
const DefaultCollection = "items"

// Handler 通用集合接口
type Handler struct {
	store  Store
	logger *zap.Logger
}

func NewHandler(store Store, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{store: store, logger: logger}
}

// Register mounts the endpoint on /collection/:name of the given group.
func (h *Handler) Register(g gin.IRoutes) {
	g.Any("/collection/:name", h.Collection)
}

// Collection 按请求方法分发
// POST   /api/collection/:name
// GET    /api/collection/:name?q=
// DELETE /api/collection/:name?id=
func (h *Handler) Collection(c *gin.Context) {
	name := c.Param("name")
	if name == "" {
		name = DefaultCollection
	}
	if !ValidCollection(name) {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": ErrInvalidCollection.Error()})
		return
	}

	switch c.Request.Method {
	case http.MethodPost:
		h.insert(c, name)
	case http.MethodGet:
		h.find(c, name)
	case http.MethodDelete:
		if c.Query("id") == "" {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "id required"})
			return
		}
		c.JSON(http.StatusNotImplemented, gin.H{"ok": false, "error": "DELETE by id not implemented"})
	default:
		c.Status(http.StatusMethodNotAllowed)
	}
}

func (h *Handler) insert(c *gin.Context, name string) {
	doc := decodeObject(c.Request.Body)
	id, err := h.store.Insert(c.Request.Context(), name, doc)
	if err != nil {
		h.fail(c, name, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "insertedId": id})
}

func (h *Handler) find(c *gin.Context, name string) {
	docs, err := h.store.Find(c.Request.Context(), name, c.Query("q"), SearchLimit)
	if err != nil {
		h.fail(c, name, err)
		return
	}
	c.JSON(http.StatusOK, docs)
}

func (h *Handler) fail(c *gin.Context, name string, err error) {
	h.logger.Error("collection request failed",
		zap.String("collection", name),
		zap.String("method", c.Request.Method),
		zap.Error(err))
	msg := err.Error()
	if msg == "" {
		msg = "Server error"
	}
	status := http.StatusInternalServerError
	if errors.Is(err, ErrInvalidCollection) {
		status = http.StatusBadRequest
	}
	c.JSON(status, gin.H{"ok": false, "error": msg})
}

// decodeObject returns the body as an object; anything else becomes {}.
func decodeObject(r io.Reader) Document {
	if r == nil {
		return Document{}
	}
	var v any
	if err := json.NewDecoder(r).Decode(&v); err != nil {
		return Document{}
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return Document{}
	}
	return Document(obj)
}
