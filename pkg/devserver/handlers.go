package devserver

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/openfiles-ai/openfiles-go/pkg/pathutil"
)

type writeRequest struct {
	Path        string `json:"path" binding:"required"`
	Content     string `json:"content"`
	ContentType string `json:"contentType"`
	IsBase64    bool   `json:"isBase64"`
}

type editRequest struct {
	OldString string `json:"oldString"`
	NewString string `json:"newString"`
}

type appendRequest struct {
	Content string `json:"content"`
}

type overwriteRequest struct {
	Content  string `json:"content"`
	IsBase64 bool   `json:"isBase64"`
}

func okEnvelope(operation, message string, data any) gin.H {
	return gin.H{"success": true, "data": data, "operation": operation, "message": message}
}

func errEnvelope(code, message string) gin.H {
	return gin.H{"success": false, "error": gin.H{"code": code, "message": message}}
}

// requestPath extracts and validates the wildcard path parameter.
func requestPath(c *gin.Context) (string, bool) {
	p := pathutil.Normalize(strings.TrimPrefix(c.Param("path"), "/"))
	if err := pathutil.Validate(p); err != nil {
		c.JSON(http.StatusBadRequest, errEnvelope("INVALID_PATH", err.Error()))
		return "", false
	}
	return p, true
}

func (s *Server) storeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrExists):
		c.JSON(http.StatusConflict, errEnvelope("FILE_EXISTS", err.Error()))
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrVersionNotFound):
		c.JSON(http.StatusNotFound, errEnvelope("FILE_NOT_FOUND", err.Error()))
	case errors.Is(err, ErrStringNotFound):
		c.JSON(http.StatusBadRequest, errEnvelope("STRING_NOT_FOUND", err.Error()))
	default:
		c.JSON(http.StatusInternalServerError, errEnvelope("INTERNAL", err.Error()))
	}
}

func (s *Server) handleWrite(c *gin.Context) {
	var req writeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errEnvelope("INVALID_REQUEST", err.Error()))
		return
	}
	p := pathutil.Normalize(req.Path)
	if err := pathutil.Validate(p); err != nil {
		c.JSON(http.StatusBadRequest, errEnvelope("INVALID_PATH", err.Error()))
		return
	}
	meta, err := s.store.Write(p, req.Content, req.ContentType, req.IsBase64)
	if err != nil {
		s.storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, okEnvelope("write_file", "File created successfully", meta))
}

func (s *Server) handleGet(c *gin.Context) {
	p, ok := requestPath(c)
	if !ok {
		return
	}
	version, _ := strconv.Atoi(c.Query("version"))

	switch {
	case c.Query("versions") == "true":
		limit, _ := strconv.Atoi(c.Query("limit"))
		offset, _ := strconv.Atoi(c.Query("offset"))
		versions, err := s.store.Versions(p, limit, offset)
		if err != nil {
			s.storeError(c, err)
			return
		}
		c.JSON(http.StatusOK, okEnvelope("get_file_versions", "Versions retrieved", versions))

	case c.Query("metadata") == "true":
		meta, err := s.store.Metadata(p, version)
		if err != nil {
			s.storeError(c, err)
			return
		}
		c.JSON(http.StatusOK, okEnvelope("get_file_metadata", "Metadata retrieved", meta))

	default:
		content, meta, err := s.store.Read(p, version)
		if err != nil {
			s.storeError(c, err)
			return
		}
		c.JSON(http.StatusOK, okEnvelope("read_file", "File read successfully", gin.H{
			"id":        meta.ID,
			"path":      meta.Path,
			"content":   content,
			"version":   meta.Version,
			"mimeType":  meta.ContentType,
			"size":      meta.SizeBytes,
			"createdAt": meta.CreatedAt,
			"updatedAt": meta.UpdatedAt,
		}))
	}
}

func (s *Server) handleList(c *gin.Context) {
	directory := pathutil.Normalize(c.Query("directory"))
	recursive := c.DefaultQuery("recursive", "true") == "true"
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))

	list := s.store.List(directory, recursive, limit, offset)
	c.JSON(http.StatusOK, okEnvelope("list_files", "Files listed successfully", list))
}

func (s *Server) handleEdit(c *gin.Context) {
	p, ok := requestPath(c)
	if !ok {
		return
	}
	var req editRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errEnvelope("INVALID_REQUEST", err.Error()))
		return
	}
	meta, err := s.store.Edit(p, req.OldString, req.NewString)
	if err != nil {
		s.storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, okEnvelope("edit_file", "File edited successfully", meta))
}

func (s *Server) handleAppend(c *gin.Context) {
	p, ok := requestPath(c)
	if !ok {
		return
	}
	var req appendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errEnvelope("INVALID_REQUEST", err.Error()))
		return
	}
	meta, err := s.store.Append(p, req.Content)
	if err != nil {
		s.storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, okEnvelope("append_to_file", "Content appended successfully", meta))
}

func (s *Server) handleOverwrite(c *gin.Context) {
	p, ok := requestPath(c)
	if !ok {
		return
	}
	var req overwriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errEnvelope("INVALID_REQUEST", err.Error()))
		return
	}
	meta, err := s.store.Overwrite(p, req.Content, req.IsBase64)
	if err != nil {
		s.storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, okEnvelope("overwrite_file", "File overwritten successfully", meta))
}
