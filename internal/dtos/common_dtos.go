package dtos

type HealthCheckResponse struct {
	Status string `json:"status"`
}

type ValidationErrorDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}
