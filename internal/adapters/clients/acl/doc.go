// Package acl is the anti-corruption layer between upstream services and the
// quote domain.
//
// Upstream DTOs stay unexported inside their adapter and are converted with a
// [Translator] before anything leaves the package. Transport and status
// failures surface as [*UpstreamError] wrapping one of [ErrUnavailable],
// [ErrRejected] or [ErrMalformedResponse]; adapters convert the cases the domain
// has words for (an unknown client, say) into domain errors and return the rest
// unchanged for the application layer to classify.
//
// [CRMDirectory] is the only adapter today:
//
//	dir := acl.NewCRMDirectory(client, "crm")
//	c, err := dir.GetClient(ctx, agentID, clientID)
//	// 404/403/archived -> CLIENT_NOT_FOUND
//	// anything else    -> *UpstreamError
package acl
