package dto

type VocabAddRequest struct {
	English      string `json:"english"`
	Korean       string `json:"korean"`
	Romanization string `json:"romanization,omitempty"`
}

type VocabAddResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type VocabListResponse struct {
	Total    int               `json:"total"`
	Mappings map[string]string `json:"mappings"`
}
