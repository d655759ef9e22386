// Package backend implements the core collaborator contracts against the
// remote REST API. It owns the wire payloads, endpoint paths, and the
// translation of non-2xx responses into transport errors the core normalizer
// understands.
package backend
