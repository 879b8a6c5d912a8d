package mockprovider

// ScanPath is where the real provider serves file submissions.
const ScanPath = "/vtapi/v2/file/scan"

// Config holds configuration for the mock provider.
type Config struct {
	// Addr is the listen address used by Start.
	Addr string

	// Behavior is the initial answer to scan submissions.
	Behavior Behavior
}

// Behavior describes how the mock answers a scan submission.
type Behavior struct {
	// StatusCode is the HTTP status. Zero means 200.
	StatusCode int `json:"status_code"`

	// ResponseCode is the provider-level code. 1 means queued.
	ResponseCode int `json:"response_code"`

	// VerboseMsg is echoed in the body.
	VerboseMsg string `json:"verbose_msg"`

	// RawBody, when set, is written verbatim instead of the JSON answer.
	RawBody string `json:"raw_body,omitempty"`
}

// DefaultConfig returns a Config that accepts every submission.
func DefaultConfig() Config {
	return Config{
		Addr: "127.0.0.1:9999",
		Behavior: Behavior{
			StatusCode:   200,
			ResponseCode: 1,
			VerboseMsg:   "Scan request successfully queued, come back later for the report",
		},
	}
}
