package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"microblogPosts/internal/auth"
	"microblogPosts/internal/models"
)

const maxBodyBytes = 1 << 20

func (h *Handlers) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid request body", models.ErrValidation)
	}
	if err := h.Validate.Struct(dst); err != nil {
		return fmt.Errorf("%w: %s", models.ErrValidation, validationMessage(err))
	}
	return nil
}

// readOptions parses ?excludeDeleted; reads are unfiltered unless it is true.
func readOptions(r *http.Request) (models.ReadOptions, error) {
	raw := r.URL.Query().Get("excludeDeleted")
	if raw == "" {
		return models.ReadOptions{}, nil
	}

	exclude, err := strconv.ParseBool(raw)
	if err != nil {
		return models.ReadOptions{}, fmt.Errorf("%w: excludeDeleted must be a boolean", models.ErrValidation)
	}
	return models.ReadOptions{ExcludeDeleted: exclude}, nil
}

func (h *Handlers) CreatePost(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		h.writeServiceError(w, r, "create", models.ErrUnauthenticated)
		return
	}

	var req models.CreatePostRequest
	req.UserID = userID
	if err := h.decodeAndValidate(w, r, &req); err != nil {
		h.writeServiceError(w, r, "create", err)
		return
	}

	post, err := h.PostService.CreatePost(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, "create", err)
		return
	}

	h.Logger.Info("post created", "post_id", post.ID, "user_id", post.UserID)
	writeSuccess(w, post, http.StatusCreated)
}

// GetPosts lists every post, or only one user's posts when UserId is given.
func (h *Handlers) GetPosts(w http.ResponseWriter, r *http.Request) {
	opts, err := readOptions(r)
	if err != nil {
		h.writeServiceError(w, r, "list", err)
		return
	}

	query := r.URL.Query()
	if !query.Has("UserId") && !query.Has("userId") {
		posts, err := h.PostService.FindAll(r.Context(), opts)
		if err != nil {
			h.writeServiceError(w, r, "list", err)
			return
		}
		h.Logger.Debug("posts fetched", "count", len(posts))
		writeSuccess(w, posts, http.StatusOK)
		return
	}

	userID := query.Get("UserId")
	if userID == "" {
		userID = query.Get("userId")
	}
	if userID == "" {
		h.writeServiceError(w, r, "list_by_user", fmt.Errorf("%w: UserId should not be empty", models.ErrValidation))
		return
	}

	posts, err := h.PostService.FindByUser(r.Context(), userID, opts)
	if err != nil {
		h.writeServiceError(w, r, "list_by_user", err)
		return
	}

	h.Logger.Debug("user posts fetched", "user_id", userID, "count", len(posts))
	writeSuccess(w, posts, http.StatusOK)
}

func (h *Handlers) GetPost(w http.ResponseWriter, r *http.Request) {
	postID := mux.Vars(r)["id"]

	opts, err := readOptions(r)
	if err != nil {
		h.writeServiceError(w, r, "get", err)
		return
	}

	post, found, err := h.PostService.FindByID(r.Context(), postID, opts)
	if err != nil {
		h.writeServiceError(w, r, "get", err)
		return
	}

	if !found {
		writeSuccess(w, models.MessageResponse{Message: "Post not found"}, http.StatusNotFound)
		return
	}

	writeSuccess(w, post, http.StatusOK)
}

func (h *Handlers) UpdatePost(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		h.writeServiceError(w, r, "update", models.ErrUnauthenticated)
		return
	}

	postID := mux.Vars(r)["id"]

	var req models.UpdatePostRequest
	if err := h.decodeAndValidate(w, r, &req); err != nil {
		h.writeServiceError(w, r, "update", err)
		return
	}

	post, err := h.PostService.UpdatePost(r.Context(), userID, postID, req)
	if err != nil {
		h.writeServiceError(w, r, "update", err)
		return
	}

	h.Logger.Info("post updated", "post_id", post.ID, "user_id", userID)
	writeSuccess(w, post, http.StatusOK)
}

func (h *Handlers) DeletePost(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		h.writeServiceError(w, r, "delete", models.ErrUnauthenticated)
		return
	}

	postID := mux.Vars(r)["id"]

	resp, err := h.PostService.SoftDeletePost(r.Context(), userID, postID)
	if err != nil {
		h.writeServiceError(w, r, "delete", err)
		return
	}

	h.Logger.Info("post soft deleted", "post_id", postID, "user_id", userID)
	writeSuccess(w, resp, http.StatusOK)
}
