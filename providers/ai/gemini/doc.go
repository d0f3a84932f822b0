// Package gemini implements [ai.Client] for Google's Gemini generateContent
// API.
//
// System messages become the systemInstruction; assistant turns are sent
// with the "model" role. Streaming uses streamGenerateContent without SSE
// framing: the response is one JSON array delivered incrementally, so the
// body is split into complete top-level objects as bytes arrive, with a final
// flush once the body ends.
package gemini
