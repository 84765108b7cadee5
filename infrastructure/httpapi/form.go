package httpapi

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"
	"wegetchat/errors"
)

const (
	multipartMemory   = 8 << 20
	multipartOverhead = 1 << 20
	jsonBodyLimit     = 1 << 20
)

// form unifies the three body encodings the web client uses: JSON, urlencoded and multipart.
type form struct {
	values map[string][]string
	files  map[string][]*multipart.FileHeader
}

func (f form) value(key string) (string, bool) {
	vs, ok := f.values[key]
	if !ok || len(vs) == 0 {
		return "", false
	}
	return vs[0], true
}

func (f form) file(key string) *multipart.FileHeader {
	if fs := f.files[key]; len(fs) > 0 {
		return fs[0]
	}
	return nil
}

func (s *Server) readForm(w http.ResponseWriter, r *http.Request) (form, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "multipart/form-data":
		if s.cfg.MaxUploadBytes > 0 {
			r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+multipartOverhead)
		}
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			var tooLarge *http.MaxBytesError
			if stderrors.As(err, &tooLarge) {
				return form{}, errors.ErrFileTooLarge
			}
			return form{}, errors.ErrInvalidAttachment.Wrap(err)
		}
		return form{values: r.MultipartForm.Value, files: r.MultipartForm.File}, nil

	case "application/json":
		raw := map[string]any{}
		err := json.NewDecoder(io.LimitReader(r.Body, jsonBodyLimit)).Decode(&raw)
		if err != nil && !stderrors.Is(err, io.EOF) {
			return form{}, errors.ErrInvalidInput.Wrap(err)
		}
		values := make(map[string][]string, len(raw))
		for k, v := range raw {
			switch typed := v.(type) {
			case string:
				values[k] = []string{typed}
			case bool:
				values[k] = []string{strconv.FormatBool(typed)}
			case float64:
				values[k] = []string{strconv.FormatFloat(typed, 'f', -1, 64)}
			}
		}
		return form{values: values}, nil

	default:
		if err := r.ParseForm(); err != nil {
			return form{}, errors.ErrInvalidInput.Wrap(err)
		}
		return form{values: r.PostForm}, nil
	}
}

// store opens an uploaded file and hands it to save.
func store[T any](header *multipart.FileHeader, save func(name string, r io.Reader) (T, error)) (T, error) {
	f, err := header.Open()
	if err != nil {
		var zero T
		return zero, errors.ErrInvalidAttachment.Wrap(err)
	}
	defer f.Close()
	return save(header.Filename, f)
}
