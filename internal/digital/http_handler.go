package digital

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"libraryapi/internal/book"
	"libraryapi/internal/httpx"
	"libraryapi/internal/logging"
	"libraryapi/internal/platform/blobstore"
)

// multipartMemory is how much of an upload is buffered in memory before spilling to disk.
const multipartMemory = 8 << 20

type HTTPHandler struct {
	service   *Service
	maxUpload int64
}

func NewHTTPHandler(service *Service, maxUploadBytes int64) *HTTPHandler {
	return &HTTPHandler{service: service, maxUpload: maxUploadBytes}
}

// Upload handles POST /api/digital-books/upload/{bookId}
// @Summary Upload a digital copy
// @Tags digital-books
// @Accept multipart/form-data
// @Produce json
// @Security Bearer
// @Param bookId path int true "Book ID"
// @Param file formData file true "E-book file"
// @Param format formData string true "PDF | EPUB | MOBI"
// @Success 201 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Failure 413 {object} httpx.ErrorResponse
// @Failure 422 {object} httpx.ErrorResponse
// @Router /api/digital-books/upload/{bookId} [post]
func (h *HTTPHandler) Upload(w http.ResponseWriter, r *http.Request) {
	bookID, ok := httpx.PathInt64(w, r, "bookId")
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httpx.JSONError(w, r, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE",
				fmt.Sprintf("File exceeds %d bytes", h.maxUpload), nil)
			return
		}
		httpx.BadRequest(w, r, "Invalid multipart form")
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			httpx.JSONError(w, r, http.StatusBadRequest, "EMPTY_FILE", "No file uploaded", nil)
			return
		}
		httpx.BadRequest(w, r, "Invalid file part")
		return
	}
	defer file.Close()

	a, err := h.service.Upload(r.Context(), Upload{
		BookID:       bookID,
		Format:       r.FormValue("format"),
		OriginalName: header.Filename,
		Size:         header.Size,
		Content:      file,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccessCreated(w, r, a)
}

type formatReq struct {
	Format string `json:"format" validate:"required"`
}

// UpdateFormat handles PUT /api/digital-books/{id}
func (h *HTTPHandler) UpdateFormat(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.PathInt64(w, r, "id")
	if !ok {
		return
	}
	var req formatReq
	if !httpx.DecodeJSON(w, r, &req) {
		return
	}
	a, err := h.service.UpdateFormat(r.Context(), id, req.Format)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, a, nil)
}

// Delete handles DELETE /api/digital-books/{id}
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.PathInt64(w, r, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccessNoContent(w)
}

// List handles GET /api/digital-books
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context())
	writeList(w, r, list, err)
}

// ByBook handles GET /api/digital-books/book/{bookId}
func (h *HTTPHandler) ByBook(w http.ResponseWriter, r *http.Request) {
	bookID, ok := httpx.PathInt64(w, r, "bookId")
	if !ok {
		return
	}
	list, err := h.service.ByBook(r.Context(), bookID)
	writeList(w, r, list, err)
}

// ByBookAndFormat handles GET /api/digital-books/book/{bookId}/format/{format}
func (h *HTTPHandler) ByBookAndFormat(w http.ResponseWriter, r *http.Request) {
	bookID, ok := httpx.PathInt64(w, r, "bookId")
	if !ok {
		return
	}
	list, err := h.service.ByBookAndFormat(r.Context(), bookID, r.PathValue("format"))
	writeList(w, r, list, err)
}

// ByFormat handles GET /api/digital-books/format/{format}
func (h *HTTPHandler) ByFormat(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ByFormat(r.Context(), r.PathValue("format"))
	writeList(w, r, list, err)
}

// File handles GET /api/digital-books/files/{name}. ?download=true asks for an attachment.
func (h *HTTPHandler) File(w http.ResponseWriter, r *http.Request) {
	a, f, err := h.service.OpenFile(r.Context(), r.PathValue("name"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	serveAsset(w, r, a, f, httpx.QueryBool(r, "download"))
}

// Read handles GET /api/digital-books/read/{id} and streams the file for in-browser reading.
func (h *HTTPHandler) Read(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.PathInt64(w, r, "id")
	if !ok {
		return
	}
	a, f, err := h.service.OpenAsset(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	serveAsset(w, r, a, f, false)
}

func downloadName(a Asset) string {
	if a.OriginalName != "" && a.OriginalName != "." {
		return a.OriginalName
	}
	return a.FileName
}

func serveAsset(w http.ResponseWriter, r *http.Request, a Asset, f *os.File, download bool) {
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		writeError(w, r, err)
		return
	}

	disposition := "inline"
	if download {
		disposition = "attachment"
	}
	name := strings.ReplaceAll(downloadName(a), `"`, "")
	w.Header().Set("Content-Type", a.Format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf(`%s; filename="%s"`, disposition, name))
	http.ServeContent(w, r, a.FileName, info.ModTime(), f)
}

func writeList(w http.ResponseWriter, r *http.Request, list []Asset, err error) {
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, list, nil)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, book.ErrNotFound):
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)
	case errors.Is(err, ErrNotFound), errors.Is(err, blobstore.ErrNotFound), errors.Is(err, blobstore.ErrInvalidName):
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Digital book not found", nil)
	case errors.Is(err, ErrUnsupportedFormat):
		httpx.JSONError(w, r, http.StatusUnprocessableEntity, "UNSUPPORTED_FORMAT", "Format must be PDF, EPUB or MOBI", nil)
	case errors.Is(err, ErrEmptyFile):
		httpx.JSONError(w, r, http.StatusUnprocessableEntity, "EMPTY_FILE", "File is empty", nil)
	default:
		logging.Ctx(r.Context()).Error().Err(err).Msg("digital book request failed")
		httpx.InternalError(w, r)
	}
}
