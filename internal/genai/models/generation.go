package models

type DescriptionRequest struct {
	Name     string   `json:"name"`
	Keywords []string `json:"keywords"`
}

type DescriptionResponse struct {
	GeneratedDescription string  `json:"generated_description"`
	ProcessingTime       float64 `json:"processing_time"`
	ModelUsed            string  `json:"model_used"`
	TokensUsed           int     `json:"tokens_used"`
}

type CategoryRequest struct {
	ProductName string `json:"product_name"`
	Description string `json:"description"`
}

type CategoryResponse struct {
	SuggestedCategory string  `json:"suggested_category"`
	Confidence        float64 `json:"confidence"`
	ProcessingTime    float64 `json:"processing_time"`
	ModelUsed         string  `json:"model_used"`
}
