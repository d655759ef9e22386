// Package inbound receives trigger event deliveries pushed by the backend
// and routes them to handlers registered per trigger name.
//
// Deliveries are signature-verified and deduped by event id so transient
// handler failures remain retryable.
package inbound
