package dto

type QueryRequest struct {
	Query string `json:"query" validate:"required"`
}

type QueryResponse struct {
	Answer string `json:"answer"`
	Status string `json:"status"`
}
