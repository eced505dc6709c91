// Package reqctx carries per-request metadata through context.Context.
//
// The HTTP request ID middleware stores a RequestMeta for every request; the
// logging layer reads it back so records emitted deep inside services carry
// the request_id of the request that caused them.
package reqctx
