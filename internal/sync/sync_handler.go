package sync

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"

	"github.com/syncwell/pendingsync/common"
	"github.com/syncwell/pendingsync/internal/dto"
	"github.com/syncwell/pendingsync/middleware"
)

type SyncHandler struct {
	service SyncServiceInterface
}

func NewSyncHandler(s SyncServiceInterface) *SyncHandler {
	return &SyncHandler{service: s}
}

var _ SyncHandlerInterface = (*SyncHandler)(nil)

// RegisterRoutes mounts the pending-sync routes on the given router group.
func (h *SyncHandler) RegisterRoutes(r gin.IRouter) {
	syncs := r.Group("/syncs")
	{
		syncs.POST("", h.Create)
		syncs.GET("", h.List)
		syncs.GET("/:id", h.Get)
		syncs.GET("/transaction/:txid", h.GetByTransaction)
		syncs.PATCH("/:id/status", h.UpdateStatus)
		syncs.POST("/:id/attempt", h.Attempt)
		syncs.POST("/:id/complete", h.Complete)
	}
}

// Create handles HTTP requests for recording a deferred sync.
// Returns 201 with the persisted row, including the generated
// transaction_id when the client omitted one.
func (h *SyncHandler) Create(c *gin.Context) {
	var req dto.SyncCreateDTO

	if !middleware.Bind(c, &req) {
		c.Abort()
		return
	}

	resp, err := h.service.CreateSync(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		c.Abort()
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// Get handles HTTP requests to fetch a pending sync by its ID.
func (h *SyncHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	resp, err := h.service.GetSyncByID(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetByTransaction handles lookups by transaction id.
func (h *SyncHandler) GetByTransaction(c *gin.Context) {
	txID := c.Param("txid")

	resp, err := h.service.GetSyncByTransactionID(c.Request.Context(), txID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// List handles HTTP requests to retrieve syncs by status, oldest first.
func (h *SyncHandler) List(c *gin.Context) {
	status := c.Query("status")
	if status == "" {
		c.Error(common.Errf(http.StatusBadRequest, "status parameter is required"))
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 || v > 500 {
			c.Error(common.Errf(http.StatusBadRequest, "limit must be between 1 and 500"))
			return
		}
		limit = v
	}

	syncs, err := h.service.ListSyncs(c.Request.Context(), status, limit)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, syncs)
}

// UpdateStatus handles HTTP requests to move a sync through its lifecycle.
func (h *SyncHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var body struct {
		Status string `json:"status" validate:"required"`
	}
	if !middleware.Bind(c, &body) {
		return
	}

	if err := h.service.UpdateStatus(c.Request.Context(), id, body.Status); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Attempt handles HTTP requests recording one external sync attempt.
func (h *SyncHandler) Attempt(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var body struct {
		Error string `json:"error"`
	}
	if !middleware.Bind(c, &body) {
		return
	}

	if err := h.service.RecordAttempt(c.Request.Context(), id, body.Error); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Complete handles HTTP requests marking a sync as successfully finished.
func (h *SyncHandler) Complete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var body struct {
		APIData json.RawMessage `json:"api_data"`
	}
	if !middleware.Bind(c, &body) {
		return
	}

	if err := h.service.CompleteSync(c.Request.Context(), id, datatypes.JSON(body.APIData)); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 0)
	if err != nil || id < 1 {
		c.Error(common.Errf(http.StatusBadRequest, "invalid ID"))
		return 0, false
	}
	return uint(id), true
}
