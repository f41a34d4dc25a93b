package ai

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// answers longer than this are cut before they reach the chat
const maxAnswerLength = 4000
