package scanner

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"strings"
)

const (
	formFieldAPIKey = "apikey"
	formFieldFile   = "file"

	defaultFilename    = "file"
	defaultContentType = "application/octet-stream"
)

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// buildForm encodes the API key and the file into a multipart body and
// returns it with its Content-Type header value.
func buildForm(apiKey string, req *ScanRequest) ([]byte, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	if err := writer.WriteField(formFieldAPIKey, apiKey); err != nil {
		return nil, "", fmt.Errorf("writing %s field: %w", formFieldAPIKey, err)
	}

	filename := req.Filename
	if filename == "" {
		filename = defaultFilename
	}
	contentType := req.ContentType
	if contentType == "" {
		contentType = defaultContentType
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		formFieldFile, quoteEscaper.Replace(filename)))
	h.Set("Content-Type", contentType)

	part, err := writer.CreatePart(h)
	if err != nil {
		return nil, "", fmt.Errorf("creating file part: %w", err)
	}
	if _, err := part.Write(req.Data); err != nil {
		return nil, "", fmt.Errorf("writing file data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("closing multipart writer: %w", err)
	}

	return buf.Bytes(), writer.FormDataContentType(), nil
}
