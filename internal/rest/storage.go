package rest

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Guyuepp/artshare/domain"
	"github.com/Guyuepp/artshare/internal/rest/request"
)

// MaxUploadSize 单个图片文件的大小上限
const MaxUploadSize = 10 << 20

// StorageHandler uploads image files into the caller's folder of the bucket
// and deletes them again by the URL the UI was given.
type StorageHandler struct {
	Storage domain.ObjectStorage
}

func NewStorageHandler(storage domain.ObjectStorage) *StorageHandler {
	return &StorageHandler{
		Storage: storage,
	}
}

// Upload stores the multipart "file" under {user id}/{random name}.
func (h *StorageHandler) Upload(c *gin.Context) {
	uid := userID(c)
	if uid == "" {
		abortWithError(c, domain.ErrNotAuthenticated)
		return
	}
	fh, err := c.FormFile("file")
	if err != nil || fh.Size == 0 || fh.Size > MaxUploadSize {
		abortWithError(c, domain.ErrBadParamInput)
		return
	}
	contentType := fh.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		abortWithError(c, domain.ErrBadParamInput)
		return
	}

	f, err := fh.Open()
	if err != nil {
		abortWithError(c, err)
		return
	}
	defer f.Close()

	path := uid + "/" + uuid.NewString() + strings.ToLower(filepath.Ext(fh.Filename))
	stored, err := h.Storage.Upload(c.Request.Context(), path, contentType, f)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"path": stored, "url": h.Storage.PublicURL(stored)})
}

// Delete removes a file of the caller, named by public URL or bare path.
func (h *StorageHandler) Delete(c *gin.Context) {
	uid := userID(c)
	if uid == "" {
		abortWithError(c, domain.ErrNotAuthenticated)
		return
	}
	var req request.DeleteObject
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, domain.ErrBadParamInput)
		return
	}
	path, err := h.Storage.ExtractPath(req.URL)
	if err != nil {
		abortWithError(c, err)
		return
	}
	// 只能删除自己目录下的文件
	if !strings.HasPrefix(path, uid+"/") {
		abortWithError(c, domain.ErrNotOwner)
		return
	}
	if err := h.Storage.Delete(c.Request.Context(), path); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
