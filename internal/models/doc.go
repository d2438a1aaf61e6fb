// Package models lists the OpenAI chat models that can be configured for
// translation lookups.
package models
