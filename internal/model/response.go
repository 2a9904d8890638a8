package model

// APIResponse is the success envelope: {statusCode, data, message}.
type APIResponse struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data"`
	Message    string `json:"message"`
}

// APIErrorResponse is the error envelope:
// {statusCode, message, errors, data:null}. Errors is always present, even
// when empty.
type APIErrorResponse struct {
	StatusCode int      `json:"statusCode"`
	Message    string   `json:"message"`
	Errors     []string `json:"errors"`
	Data       any      `json:"data"`
}
