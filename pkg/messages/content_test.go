package messages

import (
	"strings"
	"testing"
)

func TestClassifyFileData(t *testing.T) {
	tests := []struct {
		name string
		data string
		want FileDataKind
	}{
		{"HTTPS URL", "https://example.com/report.pdf", FileDataURL},
		{"HTTP URL", "http://cdn.example.com/a.png", FileDataURL},
		{"Protocol-relative URL", "//cdn.example.com/a.png", FileDataURL},
		{"Non-HTTP scheme URL", "ftp://files.example.com/a.bin", FileDataURL},
		{"Data URI", "data:image/png;base64,iVBORw0KGgo=", FileDataURI},
		{"Bare base64 payload", "iVBORw0KGgo=", FileDataPayload},
		{"Short payload", "SGVsbG8=", FileDataPayload},
		{"Empty string", "", FileDataPayload},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyFileData(tt.data); got != tt.want {
				t.Errorf("ClassifyFileData(%q) = %v, want %v", tt.data, got, tt.want)
			}
		})
	}
}

func TestFileDataToURL(t *testing.T) {
	t.Run("URL passes through verbatim", func(t *testing.T) {
		url := "https://example.com/photo.jpg"
		got := FileDataToURL(url, "image/jpeg")
		if got != url {
			t.Errorf("Expected URL preserved verbatim, got %q", got)
		}
		if strings.HasPrefix(got, "data:") {
			t.Error("A remote URL must never be wrapped as a data URI")
		}
	})

	t.Run("Data URI passes through verbatim", func(t *testing.T) {
		uri := "data:text/plain;base64,SGVsbG8="
		if got := FileDataToURL(uri, "image/png"); got != uri {
			t.Errorf("Expected data URI preserved verbatim, got %q", got)
		}
	})

	t.Run("Bare payload is wrapped", func(t *testing.T) {
		got := FileDataToURL("SGVsbG8=", "text/plain")
		want := "data:text/plain;base64,SGVsbG8="
		if got != want {
			t.Errorf("Expected %q, got %q", want, got)
		}
	})

	t.Run("Payload without media type gets the default", func(t *testing.T) {
		got := FileDataToURL("SGVsbG8=", "")
		want := "data:application/octet-stream;base64,SGVsbG8="
		if got != want {
			t.Errorf("Expected %q, got %q", want, got)
		}
	})
}

func TestFileBytesToURL(t *testing.T) {
	got := FileBytesToURL([]byte("hello"), "text/plain")
	want := "data:text/plain;base64,aGVsbG8="
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}
