package rest

import (
	"github.com/gin-gonic/gin"
	"github.com/picshelf/picshelf/gallery/application"
)

// NewApi registers the library routes on the given engine.
func NewApi(router *gin.Engine, lib *application.Library, libraryDir string) {
	h := NewLibraryHandler(lib, libraryDir)

	libraryV1 := router.Group("library/v1")
	{
		libraryV1.GET("/images", h.ListImages)
		libraryV1.GET("/images/info", h.GetImageInfo)
		libraryV1.GET("/images/file", h.GetImageFile)
		libraryV1.GET("/images/thumbnail", h.GetThumbnail)
		libraryV1.PUT("/images/caption", h.SaveCaption)
		libraryV1.GET("/captions/pending", h.GetPending)
		libraryV1.POST("/captions/pending", h.StagePending)
		libraryV1.POST("/captions/commit", h.CommitPending)
		libraryV1.POST("/batch", h.RunBatch)
		libraryV1.POST("/open", h.OpenExternal)
	}
}
