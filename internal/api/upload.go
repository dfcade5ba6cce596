package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/alexanderramin/mlfs/internal/domain"
)

// File is one attachment to upload.
type File struct {
	Name   string
	Reader io.Reader
}

type multipartBody struct {
	buf         *bytes.Buffer
	contentType string
}

func newMultipartBody(files []File) (*multipartBody, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	for _, f := range files {
		part, err := w.CreateFormFile("files", f.Name)
		if err != nil {
			return nil, fmt.Errorf("adding %s: %w", f.Name, err)
		}
		if _, err := io.Copy(part, f.Reader); err != nil {
			return nil, fmt.Errorf("reading %s: %w", f.Name, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("closing multipart body: %w", err)
	}
	return &multipartBody{buf: buf, contentType: w.FormDataContentType()}, nil
}

// UploadFiles attaches files to a project. A 400 reports problems under
// "files" in the ValidationError body.
func (c *Client) UploadFiles(ctx context.Context, projectID int, files []File) error {
	body, err := newMultipartBody(files)
	if err != nil {
		return err
	}
	path := itemPath(domain.KindProject, projectID) + "upload/"
	if err := c.do(ctx, request{method: http.MethodPost, path: path, body: body}, nil); err != nil {
		return fmt.Errorf("uploading %d files to project %d: %w", len(files), projectID, err)
	}
	return nil
}
