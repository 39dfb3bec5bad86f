package service

// JSON bodies exchanged between the HTTP client and `codeconnect serve`.

// TagsResponse lists the allowed tags in canonical order.
type TagsResponse struct {
	Tags []string `json:"tags"`
}

// TagResponse answers a single tag lookup.
type TagResponse struct {
	Tag    string `json:"tag"`
	Exists bool   `json:"exists"`
}

// EmailAvailabilityResponse answers an email availability check.
type EmailAvailabilityResponse struct {
	Email     string `json:"email"`
	Available bool   `json:"available"`
}

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}
