package storage

import (
	"mime"
	"path/filepath"
	"strings"
)

const (
	MimePDF  = "application/pdf"
	MimeText = "text/plain"
	MimeDoc  = "application/msword"
	MimeDocx = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

var byExtension = map[string]string{
	".pdf":  MimePDF,
	".txt":  MimeText,
	".doc":  MimeDoc,
	".docx": MimeDocx,
}

// ContentType returns the MIME type for a document filename, or
// application/octet-stream for anything the document backend cannot read
func ContentType(filename string) string {
	if t, ok := byExtension[strings.ToLower(filepath.Ext(filename))]; ok {
		return t
	}
	return "application/octet-stream"
}

// DetectMimeType prefers the declared multipart Content-Type and falls back
// to the extension. Parameters such as charset are dropped
func DetectMimeType(declared, filename string) string {
	if declared != "" && declared != "application/octet-stream" {
		if t, _, err := mime.ParseMediaType(declared); err == nil {
			return t
		}
	}
	return ContentType(filename)
}

// Accepted reports whether the document backend can ingest this MIME type
func Accepted(mimeType string) bool {
	for _, t := range byExtension {
		if t == mimeType {
			return true
		}
	}
	return false
}
