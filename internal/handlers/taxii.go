package handlers

import (
	"context"
	"errors"
	"strconv"

	"github.com/m1z23r/drift/pkg/drift"
	"github.com/sutms/taxii-api/internal/config"
	"github.com/sutms/taxii-api/internal/metrics"
	"github.com/sutms/taxii-api/internal/services"
	"github.com/sutms/taxii-api/pkg/dto"
)

type TAXIIHandler struct {
	cfg         *config.Config
	collections CollectionServiceInterface
	objects     ObjectServiceInterface
}

func NewTAXIIHandler(
	cfg *config.Config,
	collections CollectionServiceInterface,
	objects ObjectServiceInterface,
) *TAXIIHandler {
	return &TAXIIHandler{
		cfg:         cfg,
		collections: collections,
		objects:     objects,
	}
}

// Discovery serves static server metadata at the API root.
func (h *TAXIIHandler) Discovery(c *drift.Context) {
	h.respond(c, "discovery", 200, dto.DiscoveryResponse{
		Title:       h.cfg.TAXII.Title,
		Description: h.cfg.TAXII.Description,
		APIRoot:     h.cfg.APIRoot(),
	})
}

// ListCollections returns every collection with its derived object count.
// An empty store is a valid 200 with an empty array.
func (h *TAXIIHandler) ListCollections(c *drift.Context) {
	ctx := context.Background()

	collections, err := h.collections.List(ctx)
	if err != nil {
		h.respond(c, "collections", 500, dto.ErrorResponse{
			Code:    "storage_unavailable",
			Message: "failed to list collections",
		})
		return
	}

	response := make([]dto.CollectionResponse, len(collections))
	for i, col := range collections {
		response[i] = dto.CollectionResponse{
			ID:          col.ID,
			Title:       col.Title,
			Description: col.Description,
			ObjectCount: col.ObjectCount,
		}
	}

	h.respond(c, "collections", 200, dto.CollectionsResponse{Collections: response})
}

// GetObjects serves one page of a collection as a bundle. Pagination input is
// validated before any storage call.
func (h *TAXIIHandler) GetObjects(c *drift.Context) {
	collectionID := c.Param("collectionId")

	limit := h.cfg.TAXII.DefaultPageSize
	if limitStr := c.QueryParam("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed <= 0 {
			h.respond(c, "objects", 400, dto.ErrorResponse{
				Code:    "invalid_parameter",
				Message: "limit must be a positive integer",
			})
			return
		}
		limit = parsed
	}
	if limit > h.cfg.TAXII.MaxPageSize {
		limit = h.cfg.TAXII.MaxPageSize
	}

	offset := 0
	if offsetStr := c.QueryParam("offset"); offsetStr != "" {
		parsed, err := strconv.Atoi(offsetStr)
		if err != nil || parsed < 0 {
			h.respond(c, "objects", 400, dto.ErrorResponse{
				Code:    "invalid_parameter",
				Message: "offset must be a non-negative integer",
			})
			return
		}
		offset = parsed
	}

	ctx := context.Background()

	objects, total, err := h.objects.Page(ctx, collectionID, limit, offset)
	if err != nil {
		if errors.Is(err, services.ErrUnknownCollection) {
			h.respond(c, "objects", 404, dto.ErrorResponse{
				Code:    "unknown_collection",
				Message: "collection not found",
			})
			return
		}
		h.respond(c, "objects", 500, dto.ErrorResponse{
			Code:    "storage_unavailable",
			Message: "failed to read objects",
		})
		return
	}

	bundle := services.AssembleBundle(objects)
	bundle.Total = total
	bundle.Limit = limit
	bundle.Offset = offset

	metrics.ObjectsServed.Add(float64(len(bundle.Objects)))
	h.respond(c, "objects", 200, bundle)
}

func (h *TAXIIHandler) respond(c *drift.Context, endpoint string, status int, body any) {
	metrics.TAXIIRequests.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()
	_ = c.JSON(status, body)
}
