package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/farmnet/backend/internal/service"
	"github.com/farmnet/backend/internal/transport/http/middleware"
)

const (
	maxPostImages   = 4
	maxUploadMemory = 32 << 20
)

type PostHandler struct {
	postService *service.PostService
	uploadDir   string
	logger      *zap.Logger
}

func NewPostHandler(postService *service.PostService, uploadDir string, logger *zap.Logger) *PostHandler {
	return &PostHandler{postService: postService, uploadDir: uploadDir, logger: logger}
}

func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	posts, err := h.postService.ListPosts(r.Context())
	if err != nil {
		h.logger.Error("list posts failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Something went wrong")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"posts": posts})
}

// Create accepts a multipart form with text, location and up to 4 images,
// or a plain JSON body for text-only posts.
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())

	var text, location string
	var imageURLs []string

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid multipart form")
			return
		}
		text = r.FormValue("text")
		location = r.FormValue("location")

		files := r.MultipartForm.File["images"]
		if len(files) > maxPostImages {
			writeError(w, http.StatusBadRequest, "At most 4 images are allowed")
			return
		}
		for _, fh := range files {
			url, err := h.saveImage(fh)
			if err != nil {
				h.logger.Error("saving image failed", zap.Error(err))
				writeError(w, http.StatusInternalServerError, "Something went wrong")
				return
			}
			imageURLs = append(imageURLs, url)
		}
	} else {
		var input struct {
			Text     string `json:"text"`
			Location string `json:"location"`
		}
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		text = input.Text
		location = input.Location
	}

	post, err := h.postService.CreatePost(r.Context(), identity.Username, text, location, imageURLs)
	if err != nil {
		if errors.Is(err, service.ErrEmptyPost) {
			writeError(w, http.StatusBadRequest, "Post text is required")
		} else {
			h.logger.Error("create post failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "Something went wrong")
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"post": post})
}

func (h *PostHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	postID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid post ID")
		return
	}

	comments, err := h.postService.ListComments(r.Context(), postID)
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			writeError(w, http.StatusNotFound, "Post not found")
		} else {
			h.logger.Error("list comments failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "Something went wrong")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"comments": comments})
}

func (h *PostHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())
	postID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid post ID")
		return
	}

	var input struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	comment, err := h.postService.AddComment(r.Context(), postID, identity.Username, input.Text)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyComment):
			writeError(w, http.StatusBadRequest, "Comment text is required")
		case errors.Is(err, service.ErrPostNotFound):
			writeError(w, http.StatusNotFound, "Post not found")
		default:
			h.logger.Error("add comment failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "Something went wrong")
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"comment": comment})
}

func (h *PostHandler) saveImage(fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	name := uuid.New().String() + filepath.Ext(fh.Filename)
	dst, err := os.Create(filepath.Join(h.uploadDir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return "/uploads/" + name, nil
}
