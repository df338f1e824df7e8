package messages

import (
	"encoding/base64"
	"net/url"
	"strings"
)

// FileDataKind classifies the value carried in a file content block.
type FileDataKind int

const (
	// FileDataURL is a remote reference (absolute or protocol-relative URL).
	FileDataURL FileDataKind = iota
	// FileDataURI is an already-formed data URI.
	FileDataURI
	// FileDataPayload is a bare base64 payload (or raw bytes rendered as one).
	FileDataPayload
)

// ClassifyFileData decides whether a string is a URL, a data URI, or a raw
// payload. Remote references must be preserved verbatim; wrapping a URL as
// base64 payload would produce a corrupt artifact downstream.
func ClassifyFileData(data string) FileDataKind {
	if strings.HasPrefix(data, "data:") {
		return FileDataURI
	}
	// Protocol-relative references keep their host; treat as URL.
	if strings.HasPrefix(data, "//") {
		return FileDataURL
	}
	if u, err := url.Parse(data); err == nil && u.Scheme != "" && u.Host != "" {
		return FileDataURL
	}
	return FileDataPayload
}

// FileDataToURL normalizes file data to a URL field value: URLs and data
// URIs pass through verbatim, anything else is wrapped as a base64 data URI
// with the given media type.
func FileDataToURL(data, mediaType string) string {
	switch ClassifyFileData(data) {
	case FileDataURL, FileDataURI:
		return data
	default:
		if mediaType == "" {
			mediaType = "application/octet-stream"
		}
		return "data:" + mediaType + ";base64," + data
	}
}

// FileBytesToURL wraps raw binary file data as a base64 data URI.
func FileBytesToURL(data []byte, mediaType string) string {
	if mediaType == "" {
		mediaType = "application/octet-stream"
	}
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
