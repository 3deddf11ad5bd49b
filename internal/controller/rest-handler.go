package controller

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	omitnilpointers "github.com/youpure/server/pkg/omit-nil-pointers"
	"github.com/youpure/server/pkg/rest"
	"github.com/youpure/server/pkg/ytvideodata"
)

func (c controller) healthz(w http.ResponseWriter, r *http.Request) {
	c.writeJSON(w, r, http.StatusOK, rest.Envelope{"status": "ok"})
}

type ExtractVideoIdInput struct {
	Url string `json:"url" validate:"required,max=2048"`
}

func (c controller) extractVideoId(w http.ResponseWriter, r *http.Request) {
	var input ExtractVideoIdInput
	if err := rest.ReadJSON(r, &input); err != nil {
		c.writeError(w, r, http.StatusBadRequest, "malformed request body", nil)
		return
	}

	if errs, ok := c.validate.Validate(input); !ok {
		c.writeError(w, r, http.StatusBadRequest, ErrValidationError.Error(), errs)
		return
	}

	videoId, ok := ytvideodata.ExtractVideoID(input.Url)
	if !ok {
		c.writeError(w, r, http.StatusNotFound, "no video id found", nil)
		return
	}

	c.writeJSON(w, r, http.StatusOK, rest.Envelope{"video_id": videoId})
}

func (c controller) getTitle(w http.ResponseWriter, r *http.Request) {
	videoId := chi.URLParam(r, "video-id")
	if !ytvideodata.IsVideoID(videoId) {
		c.writeError(w, r, http.StatusBadRequest, "invalid video id", nil)
		return
	}

	title, ok := c.titleFetcher.FetchTitle(r.Context(), videoId)
	if !ok {
		c.writeError(w, r, http.StatusNotFound, "title not found", nil)
		return
	}

	c.writeJSON(w, r, http.StatusOK, rest.Envelope{
		"video_id": videoId,
		"title":    title,
	})
}

func (c controller) writeError(w http.ResponseWriter, r *http.Request, status int, message string, errs any) {
	var out errorOutput
	out.Message = message
	if errs != nil {
		out.Errors = errs
	}
	c.writeJSON(w, r, status, rest.Envelope{"error": omitnilpointers.FromStruct(out)})
}

func (c controller) writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	if err := rest.WriteJSON(w, status, data); err != nil {
		c.logger.ErrorContext(r.Context(), "failed to write json", "error", err)
	}
}
