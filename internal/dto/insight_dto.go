package dto

type ContactAnalysisResponse struct {
	ContactId    string `json:"contact_id"`
	AnalysisType string `json:"analysis_type"`
	Analysis     string `json:"analysis"`
	Cached       bool   `json:"cached"`
}

type DealChatTurn struct {
	Role    string `json:"role" validate:"required,oneof=user assistant"`
	Content string `json:"content" validate:"required"`
}

type DealChatRequest struct {
	Message string         `json:"message" validate:"required"`
	History []DealChatTurn `json:"history" validate:"dive"`
}

type DealChatResponse struct {
	Reply string `json:"reply"`
}

type CallAnalysisRequest struct {
	Transcript string `json:"transcript" validate:"required"`
	Summary    string `json:"summary"`
}

type CallAnalysisResponse struct {
	Analysis string `json:"analysis"`
}
