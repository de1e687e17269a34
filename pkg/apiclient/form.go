package apiclient

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/textproto"
	"path/filepath"
	"strings"
)

// FormData is a multipart/form-data body. The client never gives it a JSON
// content type; the encoder supplies its own boundary.
type FormData struct {
	fields []formField
	files  []formFile
}

type formField struct {
	name, value string
}

type formFile struct {
	field, filename, contentType string
	r                            io.Reader
}

func NewFormData() *FormData {
	return &FormData{}
}

// Add appends a plain field.
func (f *FormData) Add(name, value string) *FormData {
	f.fields = append(f.fields, formField{name: name, value: value})
	return f
}

// AddFile appends a file part read from r. The part's content type is
// derived from the filename extension.
func (f *FormData) AddFile(field, filename string, r io.Reader) *FormData {
	f.files = append(f.files, formFile{field: field, filename: filename, r: r})
	return f
}

// AddFileWithType appends a file part with an explicit content type.
func (f *FormData) AddFileWithType(field, filename, contentType string, r io.Reader) *FormData {
	f.files = append(f.files, formFile{field: field, filename: filename, contentType: contentType, r: r})
	return f
}

// Len returns the number of parts.
func (f *FormData) Len() int {
	return len(f.fields) + len(f.files)
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// Encode writes every part and returns the body with its content type.
func (f *FormData) Encode() (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	for _, field := range f.fields {
		if err := w.WriteField(field.name, field.value); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", field.name, err)
		}
	}
	for _, file := range f.files {
		contentType := file.contentType
		if contentType == "" {
			contentType = mime.TypeByExtension(strings.ToLower(filepath.Ext(file.filename)))
		}
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
			quoteEscaper.Replace(file.field), quoteEscaper.Replace(file.filename)))
		h.Set("Content-Type", contentType)
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", fmt.Errorf("create part %s: %w", file.filename, err)
		}
		if _, err := io.Copy(part, file.r); err != nil {
			return nil, "", fmt.Errorf("copy %s: %w", file.filename, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart writer: %w", err)
	}
	return buf, w.FormDataContentType(), nil
}
