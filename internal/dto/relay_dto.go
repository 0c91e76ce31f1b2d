package dto

type UploadToGithubResponse struct {
	DatasetURL string `json:"dataset_url"`
}

type GetResultsRequest struct {
	Prompt     string `json:"prompt" validate:"required"`
	DatasetURL string `json:"dataset_url" validate:"required,url"`
}

type GetResultsResponse struct {
	Answer string `json:"answer"`
}
