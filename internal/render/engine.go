package render

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// viewportSeedHeight 只是初始视口高度；截图时按内容整页捕获，不裁剪。
const viewportSeedHeight = 600

// Engine 用无头 Chromium 把标记文档栅格化为 PNG。
// 互斥锁保证任意时刻只有一个浏览器实例在跑：渲染实例开销很大，
// 批量请求逐项排队而不是并发渲染，这是刻意的资源上限。
type Engine struct {
	mu      sync.Mutex
	logger  *slog.Logger
	timeout time.Duration
}

// NewEngine 创建渲染引擎。timeout 约束单次栅格化的整体耗时。
func NewEngine(logger *slog.Logger, timeout time.Duration) *Engine {
	return &Engine{
		logger:  logger,
		timeout: timeout,
	}
}

// Render 以 widthPx 作为视口宽度渲染 markup，返回整页 PNG。
// 高度由内容决定（自动增长）。失败即失败，不重试。
func (e *Engine) Render(ctx context.Context, markup string, widthPx int) ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	start := time.Now()

	launch := launcher.New().
		Headless(true).
		NoSandbox(true)
	defer launch.Cleanup()

	if path, ok := launcher.LookPath(); ok {
		launch = launch.Bin(path)
	}

	browserURL, err := launch.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch chromium: %w", err)
	}

	browser := rod.New().ControlURL(browserURL).Timeout(e.timeout).Context(ctx)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connect browser: %w", err)
	}
	defer func() {
		_ = browser.Close()
	}()

	page, err := browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, fmt.Errorf("open page: %w", err)
	}
	defer func() {
		_ = page.Close()
	}()

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             widthPx,
		Height:            viewportSeedHeight,
		DeviceScaleFactor: 1,
	}); err != nil {
		return nil, fmt.Errorf("set viewport: %w", err)
	}

	if err := page.SetDocumentContent(markup); err != nil {
		return nil, fmt.Errorf("load markup: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("wait load: %w", err)
	}
	if err := page.WaitIdle(e.timeout); err != nil {
		return nil, fmt.Errorf("wait idle: %w", err)
	}

	data, err := page.Screenshot(true, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return nil, fmt.Errorf("page screenshot: %w", err)
	}

	e.logger.Info("markup rasterized",
		slog.Int("width_px", widthPx),
		slog.Int("bytes", len(data)),
		slog.Duration("elapsed", time.Since(start)),
	)
	return data, nil
}
