package file

import "strings"

type ReadFileRequest struct {
	Path string
}

func (r *ReadFileRequest) Validate() error {
	if strings.TrimSpace(r.Path) == "" {
		return ErrPathRequired
	}
	return nil
}

type ReadFileResponse struct {
	RelativePath string
	Content      string
	Size         int64
}

type WriteFileRequest struct {
	Path    string
	Content string
}

// Validate checks the request against the size limit. Empty content is
// allowed and produces an empty file.
func (r *WriteFileRequest) Validate(maxFileSize int64) error {
	if strings.TrimSpace(r.Path) == "" {
		return ErrPathRequired
	}
	if int64(len(r.Content)) > maxFileSize {
		return ErrFileTooLarge
	}
	return nil
}

type WriteFileResponse struct {
	RelativePath string
	BytesWritten int
	Created      bool
}
