// Package service contains the transit use cases. It orchestrates domain
// entities and the store interfaces (defined in internal/store) and owns the
// policies that span several store calls: station name collision arbitration
// and the card ledger.
//
// Services never depend on a concrete backend. Domain errors (invalid field,
// unique field, not found) are returned as they are; storage failures are
// wrapped in StationServiceError or CardServiceError so callers keep the
// original cause through errors.Is and errors.As.
package service
