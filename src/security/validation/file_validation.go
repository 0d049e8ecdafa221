// backend/src/security/validation/file_validation.go
package validation

import (
	"bytes"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/openaudit/backend/src/logger"
)

// SupportedUploadExtensions lists the extensions the extraction pipeline has a
// dedicated parser for. Other extensions are still accepted upstream and fall
// back to placeholder handling there.
var SupportedUploadExtensions = map[string]bool{
	".csv":  true,
	".xlsx": true,
	".xls":  true,
	".pdf":  true,
	".txt":  true,
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// ValidateUploadFilename rejects empty, oversized, or path-traversing filenames.
func ValidateUploadFilename(filename string) error {
	trimmed := strings.TrimSpace(filename)
	if trimmed == "" {
		return fmt.Errorf("%w: filename cannot be empty", ErrValidationFailed)
	}
	if err := ValidateStringMaxLength(trimmed, MaxFilenameLength, "Filename"); err != nil {
		return err
	}
	if strings.Contains(trimmed, "..") || strings.ContainsAny(trimmed, `/\`) {
		logger.L.Warn("Rejected filename with path components", "filename", trimmed)
		return fmt.Errorf("%w: filename must not contain path components", ErrValidationFailed)
	}
	return nil
}

// ValidateUploadSize checks the declared size against the configured limit.
// Empty files pass: the extraction pipeline turns them into a placeholder
// transaction with a recorded error instead of failing the request.
func ValidateUploadSize(size, maxBytes int64) error {
	if size > maxBytes {
		return fmt.Errorf("%w: file exceeds maximum size of %d bytes", ErrValidationFailed, maxBytes)
	}
	return nil
}

// IsSupportedExtension reports whether a dedicated parser exists for the file.
func IsSupportedExtension(filename string) bool {
	return SupportedUploadExtensions[strings.ToLower(filepath.Ext(filename))]
}

var (
	pdfMagic  = []byte("%PDF")
	zipMagic  = []byte("PK\x03\x04")
	ole2Magic = []byte{0xD0, 0xCF, 0x11, 0xE0}
)

// SniffContentType inspects the first bytes of an upload and returns a MIME
// type. Container formats the net/http sniffer reports generically are mapped
// to their document types.
func SniffContentType(content []byte) string {
	if len(content) == 0 {
		return "application/octet-stream"
	}
	head := content
	if len(head) > 512 {
		head = head[:512]
	}
	switch {
	case bytes.HasPrefix(head, pdfMagic):
		return "application/pdf"
	case bytes.HasPrefix(head, zipMagic):
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case bytes.HasPrefix(head, ole2Magic):
		return "application/vnd.ms-excel"
	}
	detected := http.DetectContentType(head)
	return strings.ToLower(strings.Split(detected, ";")[0])
}

// CheckContentMatchesExtension warns when the sniffed content type clearly
// contradicts the file extension. Mismatches are reported, not rejected, since
// the extraction pipeline degrades to placeholders on unparseable input.
func CheckContentMatchesExtension(filename string, content []byte) string {
	ext := strings.ToLower(filepath.Ext(filename))
	detected := SniffContentType(content)
	mismatch := false
	switch ext {
	case ".pdf":
		mismatch = detected != "application/pdf"
	case ".xlsx":
		mismatch = detected != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case ".xls":
		mismatch = detected != "application/vnd.ms-excel"
	case ".csv", ".txt":
		mismatch = !strings.HasPrefix(detected, "text/")
	}
	if mismatch {
		logger.L.Warn("Upload content does not match extension", "filename", filename, "detected", detected)
		return fmt.Sprintf("Content of %s does not look like a %s file (detected %s)", filename, strings.TrimPrefix(ext, "."), detected)
	}
	return ""
}
