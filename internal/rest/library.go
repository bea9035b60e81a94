package rest

import (
	"bytes"
	"image/jpeg"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sunshineplan/imgconv"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/picshelf/picshelf/api"
	"github.com/picshelf/picshelf/gallery/application"
	"github.com/picshelf/picshelf/gallery/domain"
	"github.com/picshelf/picshelf/shared/imagemeta"
	"github.com/picshelf/picshelf/shared/launcher"
)

const (
	timeFormat       = "2006-01-02 15:04:05"
	defaultThumbSize = 256
)

// LibraryHandler serves the image library over HTTP. It is a thin layer:
// every route delegates to the application.Library it wraps.
type LibraryHandler struct {
	lib        *application.Library
	libraryDir string
	markdown   goldmark.Markdown
}

// NewLibraryHandler creates a handler around lib. libraryDir is the
// directory listed when a request names none.
func NewLibraryHandler(lib *application.Library, libraryDir string) *LibraryHandler {
	return &LibraryHandler{
		lib:        lib,
		libraryDir: libraryDir,
		markdown:   goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

// ListImages lists the images in a directory. Query params: dir (defaults
// to the configured library dir), sort (name|modified|size), search
// (caption substring filter). Unreadable images are omitted.
func (h *LibraryHandler) ListImages(c *gin.Context) {
	dir := c.DefaultQuery("dir", h.libraryDir)

	paths, err := h.lib.Scan(dir, application.ScanOptions{
		Sort:   application.SortMode(c.Query("sort")),
		Search: c.Query("search"),
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	infos := make([]api.ImageInfo, 0, len(paths))
	for _, p := range paths {
		rec, err := h.lib.Info(p)
		if err != nil {
			continue
		}
		infos = append(infos, h.toImageInfo(p, rec, false))
	}

	c.JSON(http.StatusOK, infos)
}

// GetImageInfo returns the full record for one image, including the
// rendered caption preview.
func (h *LibraryHandler) GetImageInfo(c *gin.Context) {
	path := c.Query("path")
	if path == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "path is required"})
		return
	}

	rec, err := h.lib.Info(path)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, h.toImageInfo(path, rec, true))
}

// GetImageFile serves the raw image bytes.
func (h *LibraryHandler) GetImageFile(c *gin.Context) {
	path := c.Query("path")
	if path == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "path is required"})
		return
	}

	c.File(path)
}

// GetThumbnail serves a JPEG thumbnail. Query params: path, width.
func (h *LibraryHandler) GetThumbnail(c *gin.Context) {
	path := c.Query("path")
	if path == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "path is required"})
		return
	}

	width, err := strconv.Atoi(c.DefaultQuery("width", strconv.Itoa(defaultThumbSize)))
	if err != nil || width <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid width"})
		return
	}

	img, err := imgconv.Open(path)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	thumb := imgconv.Resize(img, &imgconv.ResizeOption{Width: width})

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, thumb, nil); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Data(http.StatusOK, "image/jpeg", buf.Bytes())
}

// SaveCaption commits a caption straight to the sidecar file.
func (h *LibraryHandler) SaveCaption(c *gin.Context) {
	update := &api.CaptionUpdate{}
	if err := c.ShouldBindJSON(update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.lib.CommitCaption(update.Path, update.Caption); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

// StagePending records a caption edit without writing it to disk.
func (h *LibraryHandler) StagePending(c *gin.Context) {
	update := &api.CaptionUpdate{}
	if err := c.ShouldBindJSON(update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.lib.StagePending(update.Path, update.Caption)
	c.Status(http.StatusNoContent)
}

// GetPending returns the uncommitted caption edits.
func (h *LibraryHandler) GetPending(c *gin.Context) {
	c.JSON(http.StatusOK, h.lib.Pending())
}

// CommitPending flushes every staged caption edit to disk.
func (h *LibraryHandler) CommitPending(c *gin.Context) {
	c.JSON(http.StatusOK, toBatchResponse(h.lib.CommitPending()))
}

// RunBatch executes one batch operation.
func (h *LibraryHandler) RunBatch(c *gin.Context) {
	req := &api.BatchRequest{}
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	selected := make(map[string]bool, len(req.Selected))
	for _, p := range req.Selected {
		selected[p] = true
	}

	res := h.lib.ExecuteBatch(domain.Operation(req.Operation), req.Paths, domain.BatchParams{
		DestDir:   req.DestDir,
		Text:      req.Text,
		Search:    req.Search,
		Replace:   req.Replace,
		MatchCase: req.MatchCase,
		Policy:    domain.SelectionPolicy(req.Policy),
		Selected:  selected,
	})

	c.JSON(http.StatusOK, toBatchResponse(res))
}

// OpenExternal opens an image in an external application on the host.
func (h *LibraryHandler) OpenExternal(c *gin.Context) {
	req := &api.OpenRequest{}
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := launcher.Open(req.Path, req.App); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

// toImageInfo converts a record to its wire shape. The caption reflects
// any pending edit; renderCaption additionally produces the HTML preview.
func (h *LibraryHandler) toImageInfo(path string, rec *domain.ImageRecord, renderCaption bool) api.ImageInfo {
	caption := h.lib.Caption(path)
	pending := h.lib.HasPending(path)

	info := api.ImageInfo{
		Path:           path,
		Width:          rec.Width,
		Height:         rec.Height,
		Format:         rec.Format,
		Mode:           rec.Mode,
		Fields:         rec.Fields,
		Caption:        caption,
		FileSize:       rec.FileSize,
		CreatedAt:      rec.CreatedAt.Format(timeFormat),
		ModifiedAt:     rec.ModifiedAt.Format(timeFormat),
		PendingCaption: pending,
	}

	if params, ok := imagemeta.GenerationParameters(rec.Fields); ok {
		info.GenerationParams = params
	}

	if renderCaption && caption != "" {
		var buf bytes.Buffer
		if err := h.markdown.Convert([]byte(caption), &buf); err == nil {
			info.CaptionHTML = buf.String()
		}
	}

	return info
}

func toBatchResponse(res domain.BatchResult) api.BatchResponse {
	out := api.BatchResponse{Processed: res.Processed}
	for _, f := range res.Failures {
		out.Failures = append(out.Failures, api.BatchFailure{Path: f.Path, Error: f.Err.Error()})
	}
	return out
}
