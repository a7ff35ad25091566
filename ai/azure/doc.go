// Package azure provides an ai.Provider for Azure OpenAI embedding deployments.
//
// Requests go to {host}/openai/deployments/{deployment}/embeddings with the
// configured api-version. The deployment is taken from Config.EmbeddingModel.
// HTTP status codes are mapped onto the ai error classes: 429 is rate
// limiting, 5xx a provider error, and any other 4xx an invalid request.
package azure
