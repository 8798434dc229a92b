package devserver

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/openfiles-ai/openfiles-go/pkg/types"
)

var (
	ErrExists          = errors.New("file already exists")
	ErrNotFound        = errors.New("file not found")
	ErrVersionNotFound = errors.New("version not found")
	ErrStringNotFound  = errors.New("string not found in file")
)

// Store is an in-memory versioned file store backing the dev server. Every
// mutation appends a new version; versions start at 1.
type Store struct {
	mu    sync.RWMutex
	files map[string]*fileRecord
}

type fileRecord struct {
	id        string
	path      string
	createdAt time.Time
	versions  []fileVersion
}

type fileVersion struct {
	content     string
	contentType string
	isBase64    bool
	createdAt   time.Time
}

func NewStore() *Store {
	return &Store{files: make(map[string]*fileRecord)}
}

func (r *fileRecord) metadataAt(version int) types.FileMetadata {
	v := r.versions[version-1]
	return types.FileMetadata{
		ID:          r.id,
		Path:        r.path,
		Version:     version,
		ContentType: v.contentType,
		SizeBytes:   int64(len(v.content)),
		CreatedAt:   r.createdAt,
		UpdatedAt:   v.createdAt,
	}
}

func (r *fileRecord) latest() types.FileMetadata {
	return r.metadataAt(len(r.versions))
}

// sniffContentType falls back to content inspection when the caller does
// not provide a type.
func sniffContentType(content, declared string) string {
	if declared != "" {
		return declared
	}
	return mimetype.Detect([]byte(content)).String()
}

// Write creates a new file. It fails if the path already exists.
func (s *Store) Write(path, content, contentType string, isBase64 bool) (types.FileMetadata, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.files[path]; ok {
		return types.FileMetadata{}, fmt.Errorf("%w: %s", ErrExists, path)
	}
	now := time.Now().UTC()
	rec := &fileRecord{
		id:        uuid.NewString(),
		path:      path,
		createdAt: now,
		versions: []fileVersion{{
			content:     content,
			contentType: sniffContentType(content, contentType),
			isBase64:    isBase64,
			createdAt:   now,
		}},
	}
	s.files[path] = rec
	return rec.latest(), nil
}

// Read returns the content of a file. Version 0 means latest.
func (s *Store) Read(path string, version int) (string, types.FileMetadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.files[path]
	if !ok {
		return "", types.FileMetadata{}, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if version == 0 {
		version = len(rec.versions)
	}
	if version < 1 || version > len(rec.versions) {
		return "", types.FileMetadata{}, fmt.Errorf("%w: %s@%d", ErrVersionNotFound, path, version)
	}
	return rec.versions[version-1].content, rec.metadataAt(version), nil
}

// Edit replaces an exact string match in the latest version and appends a
// new version.
func (s *Store) Edit(path, oldString, newString string) (types.FileMetadata, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.files[path]
	if !ok {
		return types.FileMetadata{}, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	latest := rec.versions[len(rec.versions)-1]
	if !strings.Contains(latest.content, oldString) {
		return types.FileMetadata{}, fmt.Errorf("%w: %q", ErrStringNotFound, oldString)
	}
	rec.versions = append(rec.versions, fileVersion{
		content:     strings.Replace(latest.content, oldString, newString, 1),
		contentType: latest.contentType,
		createdAt:   time.Now().UTC(),
	})
	return rec.latest(), nil
}

// Append adds content to the end of the latest version.
func (s *Store) Append(path, content string) (types.FileMetadata, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.files[path]
	if !ok {
		return types.FileMetadata{}, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	latest := rec.versions[len(rec.versions)-1]
	rec.versions = append(rec.versions, fileVersion{
		content:     latest.content + content,
		contentType: latest.contentType,
		createdAt:   time.Now().UTC(),
	})
	return rec.latest(), nil
}

// Overwrite replaces the entire content of an existing file.
func (s *Store) Overwrite(path, content string, isBase64 bool) (types.FileMetadata, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.files[path]
	if !ok {
		return types.FileMetadata{}, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	latest := rec.versions[len(rec.versions)-1]
	rec.versions = append(rec.versions, fileVersion{
		content:     content,
		contentType: latest.contentType,
		isBase64:    isBase64,
		createdAt:   time.Now().UTC(),
	})
	return rec.latest(), nil
}

// List returns a page of files under directory, sorted by path.
func (s *Store) List(directory string, recursive bool, limit, offset int) types.FileList {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []string
	for path := range s.files {
		if !inDirectory(path, directory, recursive) {
			continue
		}
		matched = append(matched, path)
	}
	sort.Strings(matched)

	if limit <= 0 {
		limit = 10
	}
	list := types.FileList{Total: len(matched), Limit: limit, Offset: offset, Files: []types.FileMetadata{}}
	for i := offset; i < len(matched) && len(list.Files) < limit; i++ {
		list.Files = append(list.Files, s.files[matched[i]].latest())
	}
	return list
}

func inDirectory(path, directory string, recursive bool) bool {
	rel := path
	if directory != "" {
		if !strings.HasPrefix(path, directory+"/") {
			return false
		}
		rel = strings.TrimPrefix(path, directory+"/")
	}
	if !recursive && strings.Contains(rel, "/") {
		return false
	}
	return true
}

// Metadata returns metadata for a file version without content.
func (s *Store) Metadata(path string, version int) (types.FileMetadata, error) {
	_, meta, err := s.Read(path, version)
	return meta, err
}

// Versions returns a page of a file's version history, newest first.
func (s *Store) Versions(path string, limit, offset int) (types.VersionList, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.files[path]
	if !ok {
		return types.VersionList{}, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if limit <= 0 {
		limit = 10
	}

	latest := rec.latest()
	list := types.VersionList{
		File:     &latest,
		Total:    len(rec.versions),
		Limit:    limit,
		Offset:   offset,
		Versions: []types.FileVersion{},
	}
	for i := len(rec.versions) - 1 - offset; i >= 0 && len(list.Versions) < limit; i-- {
		v := rec.versions[i]
		list.Versions = append(list.Versions, types.FileVersion{
			Version:     i + 1,
			SizeBytes:   int64(len(v.content)),
			ContentType: v.contentType,
			CreatedAt:   v.createdAt,
		})
	}
	return list, nil
}
