package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"travel-agency/internal/auth"
	"travel-agency/models"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/filesystem"
)

type SessionManager interface {
	Me(session auth.Session) (models.User, error)
	Logout(ctx context.Context, session auth.Session) error
}

type Uploader interface {
	Upload(ctx context.Context, session auth.Session, bucket, folder string, file *filesystem.File) (models.Media, error)
}

type AccountHandler struct {
	sessions SessionManager
	uploads  Uploader
	logger   *slog.Logger
}

func NewAccountHandler(sessions SessionManager, uploads Uploader, logger *slog.Logger) *AccountHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AccountHandler{sessions: sessions, uploads: uploads, logger: logger}
}

func (h *AccountHandler) Me(e *core.RequestEvent) error {
	user, err := h.sessions.Me(auth.FromRequest(e))
	if err != nil {
		return toAPIError(e, h.logger, err, "Failed to load session")
	}
	return e.JSON(http.StatusOK, user)
}

func (h *AccountHandler) Logout(e *core.RequestEvent) error {
	if err := h.sessions.Logout(e.Request.Context(), auth.FromRequest(e)); err != nil {
		return toAPIError(e, h.logger, err, "Failed to log out")
	}
	return e.NoContent(http.StatusNoContent)
}

// Upload takes a multipart form with bucket, folder and file fields.
func (h *AccountHandler) Upload(e *core.RequestEvent) error {
	var file *filesystem.File
	files, err := e.FindUploadedFiles("file")
	switch {
	case err == nil && len(files) > 0:
		file = files[0]
	case err != nil && !errors.Is(err, http.ErrMissingFile):
		return apis.NewBadRequestError("Invalid upload", err)
	}

	media, err := h.uploads.Upload(
		e.Request.Context(),
		auth.FromRequest(e),
		e.Request.FormValue("bucket"),
		e.Request.FormValue("folder"),
		file,
	)
	if err != nil {
		return toAPIError(e, h.logger, err, "Failed to upload file")
	}
	return e.JSON(http.StatusCreated, map[string]any{
		"public_url": media.PublicURL,
		"path":       media.Path,
	})
}
