package scanner

// ScanRequest is a single uploaded file, fully buffered in memory.
type ScanRequest struct {
	// Filename is sent as the multipart filename. Empty becomes "file".
	Filename string
	// ContentType is the declared media type. Empty becomes application/octet-stream.
	ContentType string
	// Data is the file content.
	Data []byte
}

// ScanResult is the normalized answer for an accepted submission.
type ScanResult struct {
	ScanID       string `json:"scan_id" example:"a1b2c3d4-1700000000"`
	Resource     string `json:"resource" example:"f1e2d3c4b5a6"`
	ResponseCode int    `json:"response_code" example:"1"`
	VerboseMsg   string `json:"verbose_msg" example:"Scan request successfully queued, come back later for the report"`
	// Permalink is rebuilt from Resource and is omitted when Resource is empty.
	Permalink string `json:"permalink,omitempty" example:"https://www.virustotal.com/gui/file/f1e2d3c4b5a6"`
}

// providerResponse is the v2 file/scan body. ResponseCode is a pointer so a
// missing code is distinguishable from 0, and a float so 1.0 counts as 1.
type providerResponse struct {
	ResponseCode *float64 `json:"response_code"`
	ScanID       string   `json:"scan_id"`
	Resource     string   `json:"resource"`
	VerboseMsg   string   `json:"verbose_msg"`
	// Permalink is decoded but never trusted.
	Permalink string `json:"permalink"`
}

// responseCodeAccepted is VirusTotal's "queued for scanning" code.
const responseCodeAccepted = 1
