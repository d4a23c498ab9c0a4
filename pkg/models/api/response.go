package api

// SuccessResponse wraps every successful API payload. Responses are exactly
// one of SuccessResponse or ErrorResponse, tagged by the status/error field.
type SuccessResponse struct {
	Status string `json:"status"` // always "success"
	Data   any    `json:"data"`
}

type ErrorResponse struct {
	Error      string `json:"error"`
	Detail     string `json:"detail"`
	StatusCode int    `json:"status_code"`
}

func NewSuccessResponse(data any) SuccessResponse {
	return SuccessResponse{Status: "success", Data: data}
}
