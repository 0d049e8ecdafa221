// backend/src/handlers/upload_handler.go
package handlers

import (
	"fmt"
	"io"
	"net/http"

	"github.com/openaudit/backend/src/config"
	"github.com/openaudit/backend/src/logger"
	"github.com/openaudit/backend/src/security/validation"
	"github.com/openaudit/backend/src/services"
)

// collectUploadedFiles parses the multipart form and reads every file in the
// "files" field, enforcing the configured size and count limits. Content that
// does not match its extension is noted but still passed through, since the
// extraction pipeline degrades to placeholders on unparseable input.
func collectUploadedFiles(r *http.Request) ([]services.UploadedFile, []string, error) {
	if err := r.ParseMultipartForm(config.Cfg.MaxUploadSizeBytes); err != nil {
		return nil, nil, fmt.Errorf("failed to parse upload or request too large (max %d MB): %w",
			config.Cfg.MaxUploadSizeBytes/(1024*1024), err)
	}
	if r.MultipartForm == nil {
		return nil, nil, fmt.Errorf("no multipart form data")
	}

	headers := r.MultipartForm.File["files"]
	if len(headers) > config.Cfg.MaxBatchFiles {
		return nil, nil, fmt.Errorf("too many files: %d exceeds the batch limit of %d", len(headers), config.Cfg.MaxBatchFiles)
	}

	var files []services.UploadedFile
	var notes []string
	for _, header := range headers {
		if err := validation.ValidateUploadFilename(header.Filename); err != nil {
			return nil, nil, err
		}
		if err := validation.ValidateUploadSize(header.Size, config.Cfg.MaxUploadSizeBytes); err != nil {
			return nil, nil, fmt.Errorf("%s: %w", header.Filename, err)
		}

		f, err := header.Open()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open uploaded file %s: %w", header.Filename, err)
		}
		content, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read uploaded file %s: %w", header.Filename, err)
		}

		if note := validation.CheckContentMatchesExtension(header.Filename, content); note != "" {
			notes = append(notes, note)
		}
		if !validation.IsSupportedExtension(header.Filename) {
			logger.L.Debug("Upload without dedicated parser, placeholder handling applies", "filename", header.Filename)
		}

		files = append(files, services.UploadedFile{Filename: header.Filename, Content: content})
	}
	return files, notes, nil
}
