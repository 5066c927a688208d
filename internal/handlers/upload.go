package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"retail-dashboard/internal/dataset"
	"retail-dashboard/internal/errors"
	"retail-dashboard/internal/observability"
	"retail-dashboard/internal/services"
)

type UploadHandlers struct {
	analytics *services.Analytics
	logger    *slog.Logger
	maxBytes  int64
}

func NewUploadHandlers(analytics *services.Analytics, logger *slog.Logger, maxBytes int64) *UploadHandlers {
	return &UploadHandlers{
		analytics: analytics,
		logger:    logger,
		maxBytes:  maxBytes,
	}
}

// HandleUpload replaces the in-memory dataset with the uploaded file.
// The swap is all-or-nothing: a parse failure leaves any previously
// loaded dataset untouched.
func (h *UploadHandlers) HandleUpload(w http.ResponseWriter, r *http.Request) {
	requestID := observability.GetRequestID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	if err := r.ParseMultipartForm(h.maxBytes); err != nil {
		errors.WriteError(w, h.logger, errors.BadRequestWrap(err, "invalid multipart upload"), requestID)
		return
	}

	file, header, err := r.FormFile("dataset")
	if err != nil {
		errors.WriteError(w, h.logger, errors.BadRequest("missing \"dataset\" file field"), requestID)
		return
	}
	defer file.Close()

	records, err := dataset.Load(r.Context(), header.Filename, file)
	if err != nil {
		h.logger.Warn("dataset upload rejected",
			"filename", header.Filename,
			"error", err,
			"request_id", requestID,
		)
		errors.WriteError(w, h.logger, err, requestID)
		return
	}

	h.analytics.SetData(records)
	h.logger.Info("dataset uploaded",
		"filename", header.Filename,
		"records", len(records),
		"request_id", requestID,
	)

	// Browser form posts go back to the dashboard; API clients get JSON.
	if strings.Contains(r.Header.Get("Accept"), "text/html") {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	errors.WriteSuccess(w, map[string]any{
		"records": len(records),
		"filters": h.analytics.Options(),
	})
}
