package rest

import (
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/tunecrate/tunecrate/internal/app/assets"
	"github.com/tunecrate/tunecrate/internal/apperr"
)

// maxUploadBytes caps multipart uploads. Audio files dominate; 64 MiB is
// generous for a single track.
const maxUploadBytes = 64 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeJSON reads a JSON request body into v. A wrong Content-Type and a
// body that does not match the target shape are distinct client errors.
func decodeJSON(r *http.Request, v any) error {
	ct := r.Header.Get("Content-Type")
	if ct != "" {
		mt, _, err := mime.ParseMediaType(ct)
		if err != nil || mt != "application/json" {
			return apperr.UnsupportedMedia(ct)
		}
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return apperr.MalformedJSON(err)
	}
	return nil
}

// pathID parses an int64 path value by its pattern name.
func pathID(r *http.Request, name string) (int64, error) {
	raw := r.PathValue(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apperr.TypeMismatch(name, "number")
	}
	return id, nil
}

// formAsset extracts the uploaded "file" part of a multipart request. A
// request without the part yields a zero asset; the service rejects it.
func formAsset(r *http.Request) (assets.Asset, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return assets.Asset{}, apperr.MissingParameter("file")
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return assets.Asset{}, nil
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return assets.Asset{}, apperr.Internal(err)
	}
	return assets.Asset{
		Data:        data,
		ContentType: header.Header.Get("Content-Type"),
		Filename:    header.Filename,
	}, nil
}
