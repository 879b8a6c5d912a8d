package server

// HealthResponse is returned by the liveness endpoint.
type HealthResponse struct {
	Status  string `json:"status" example:"ok"`
	Message string `json:"message" example:"Welcome to the File Malware Scanner API"`
}

// ErrorResponse is the uniform failure payload.
type ErrorResponse struct {
	Detail string `json:"detail" example:"Scan request failed, check resource and try again"`
}
