// Package translation looks up translations of drilled words through a
// chat model. OpenAI and Gemini providers are available; both are guarded
// by a circuit breaker and answers are cached per session.
package translation
