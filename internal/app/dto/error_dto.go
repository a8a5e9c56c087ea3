package dto

type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error Error `json:"error"`
}

type HealthResponse struct {
	Status   string `json:"status"`
	Handlers int    `json:"handlers"`
}
