// Package openai implements [ai.Client] for the OpenAI chat completions API
// and for every vendor that speaks the same wire format.
//
// [New] targets api.openai.com. [NewCompatible] builds a client from a
// [Compatible] description (provider tag, default endpoint and model, auth
// headers, error envelope); the groq, mistral, deepseek, siliconflow and
// azure packages are thin wrappers around it.
//
// Streaming reads Server-Sent Events from the same endpoint with
// "stream": true and yields choices[0].delta.content until data: [DONE].
package openai
