// Package prompt builds the conversations sent to the model for component
// and page generation. Builders are pure functions of their options.
package prompt
