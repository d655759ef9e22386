// Package core contains the canonical SDK domain contracts, entities, and
// orchestration logic: connected-account resolution, integration provisioning,
// action dispatch, and error normalization. Lower-level adapters (transport,
// backend client, stores) must depend on this package; core must not depend on
// transport-specific adapters.
package core
