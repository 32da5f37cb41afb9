package httpapi

import (
	"fmt"
	"io"
	"net/http"
)

const maxImportBytes = 10 << 20 // generous ceiling for a question bank file

func (a *API) handleExport(w http.ResponseWriter, r *http.Request) {
	payload, filename, err := a.io.Export(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}

// handleImport takes the uploaded file contents as the request body; the
// replace flag selects between replacing the bank and merging into it.
func (a *API) handleImport(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	contents, err := io.ReadAll(io.LimitReader(r.Body, maxImportBytes))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "failed to read request body"})
		return
	}

	result, err := a.io.Import(r.Context(), contents, parseBoolParam(r, "replace"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	status := http.StatusOK
	if !result.Success {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, result)
}

func (a *API) handleSampleBank(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.io.SampleBank())
}
