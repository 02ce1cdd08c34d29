package api

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"slipgen/internal/api/middleware"
	"slipgen/internal/metrics"
	"slipgen/internal/receipt"
	"slipgen/internal/symbol"
)

// Renderer 是栅格化协作方的契约：给定标记与视口宽度，返回 PNG 字节。
type Renderer interface {
	Render(ctx context.Context, markup string, widthPx int) ([]byte, error)
}

// ReceiptHandler 负责处理票据渲染相关的 API 请求。
type ReceiptHandler struct {
	renderer   Renderer
	generators receipt.Generators
	maxWidthPx int
	maxBatch   int
}

// NewReceiptHandler 构造 ReceiptHandler，符号生成默认接到真实实现。
func NewReceiptHandler(renderer Renderer, maxWidthPx, maxBatch int) *ReceiptHandler {
	return &ReceiptHandler{
		renderer: renderer,
		generators: receipt.Generators{
			QR:      symbol.QR,
			Barcode: symbol.Barcode,
		},
		maxWidthPx: maxWidthPx,
		maxBatch:   maxBatch,
	}
}

type renderRequest struct {
	Kind  string          `json:"kind"`
	Data  json.RawMessage `json:"data"`
	Width int             `json:"width"`
}

type renderBatchRequest struct {
	Width int               `json:"width"`
	Data  []json.RawMessage `json:"data"`
}

type renderBatchResponse struct {
	Images   []string          `json:"images"`
	Warnings []receipt.Warning `json:"warnings,omitempty"`
}

// RenderOne 渲染单个组件：{kind, data, width} → image/png。
// 校验失败在任何渲染尝试之前拒绝，错误信息原样返回。
func (h *ReceiptHandler) RenderOne(c *gin.Context) {
	log := middleware.LoggerFromContext(c)

	var req renderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	if !h.widthOK(c, req.Width) {
		return
	}

	raw := map[string]any{}
	if len(req.Data) > 0 {
		if err := json.Unmarshal(req.Data, &raw); err != nil {
			BadRequest(c, "field \"data\" must be a JSON object")
			return
		}
	}
	raw["kind"] = req.Kind

	if err := receipt.Validate(raw); err != nil {
		BadRequest(c, err.Error())
		return
	}
	descriptor, err := receipt.Decode(raw)
	if err != nil {
		Internal(c, "failed to decode payload")
		return
	}

	document, warnings, err := receipt.Compose(log, []receipt.Descriptor{descriptor}, h.generators)
	if err != nil {
		log.Error("compose document failed", slog.Any("error", err))
		Internal(c, "failed to build document")
		return
	}
	for _, w := range warnings {
		log.Warn("render warning", slog.Int("code", w.Code), slog.String("message", w.Message))
	}

	png, err := h.renderDocument(c.Request.Context(), string(descriptor.Kind), document, req.Width)
	if err != nil {
		log.Error("rasterize failed", slog.Any("error", err))
		Internal(c, "failed to render receipt")
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}

// RenderBatch 渲染有序组件列表：{width, data:[...]} → {images:[base64...]}。
// 整个批次先一次性校验（任何一项失败则整体拒绝），再逐项顺序渲染；
// 不并发、不返回部分结果。
func (h *ReceiptHandler) RenderBatch(c *gin.Context) {
	log := middleware.LoggerFromContext(c)

	var req renderBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	if !h.widthOK(c, req.Width) {
		return
	}
	if len(req.Data) == 0 {
		BadRequest(c, "field \"data\" must be a non-empty array")
		return
	}
	if len(req.Data) > h.maxBatch {
		BadRequest(c, fmt.Sprintf("batch size exceeds limit of %d items", h.maxBatch))
		return
	}

	items := make([]any, 0, len(req.Data))
	for i, rawItem := range req.Data {
		var item any
		if err := json.Unmarshal(rawItem, &item); err != nil {
			BadRequest(c, fmt.Sprintf("item %d: invalid JSON", i+1))
			return
		}
		items = append(items, item)
	}

	if err := receipt.ValidateBatch(items); err != nil {
		BadRequest(c, err.Error())
		return
	}
	descriptors, err := receipt.DecodeBatch(items)
	if err != nil {
		Internal(c, "failed to decode payload")
		return
	}

	response := renderBatchResponse{Images: make([]string, 0, len(descriptors))}
	for i, descriptor := range descriptors {
		document, warnings, err := receipt.Compose(log, []receipt.Descriptor{descriptor}, h.generators)
		if err != nil {
			log.Error("compose document failed",
				slog.Int("item", i+1),
				slog.Any("error", err),
			)
			Internal(c, "failed to build document")
			return
		}
		for _, w := range warnings {
			response.Warnings = append(response.Warnings, receipt.Warning{
				Code:    w.Code,
				Message: fmt.Sprintf("item %d: %s", i+1, w.Message),
			})
		}

		png, err := h.renderDocument(c.Request.Context(), string(descriptor.Kind), document, req.Width)
		if err != nil {
			log.Error("rasterize failed",
				slog.Int("item", i+1),
				slog.Any("error", err),
			)
			Internal(c, "failed to render receipt")
			return
		}
		response.Images = append(response.Images, base64.StdEncoding.EncodeToString(png))
	}

	c.JSON(http.StatusOK, response)
}

// ValidatePayload 只做校验不渲染，供表单 UI 做即时反馈。
// 接受单个描述符对象或描述符数组。
func (h *ReceiptHandler) ValidatePayload(c *gin.Context) {
	var raw any
	if err := c.ShouldBindJSON(&raw); err != nil {
		BadRequest(c, err.Error())
		return
	}

	var err error
	if items, ok := raw.([]any); ok {
		err = receipt.ValidateBatch(items)
	} else {
		err = receipt.Validate(raw)
	}
	if err != nil {
		BadRequest(c, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"valid": true})
}

func (h *ReceiptHandler) widthOK(c *gin.Context, width int) bool {
	if width <= 0 {
		BadRequest(c, "field \"width\" must be a positive integer")
		return false
	}
	if width > h.maxWidthPx {
		BadRequest(c, fmt.Sprintf("field \"width\" must not exceed %d", h.maxWidthPx))
		return false
	}
	return true
}

func (h *ReceiptHandler) renderDocument(ctx context.Context, kind, document string, widthPx int) ([]byte, error) {
	start := time.Now()
	png, err := h.renderer.Render(ctx, document, widthPx)
	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.ObserveRender(kind, status, time.Since(start))
	return png, err
}
