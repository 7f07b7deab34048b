// Package cachebox defines a pluggable cache-backend connector: one lifecycle
// contract (Start, Stop, IsReady, Get, Set, Drop, ValidateSegmentName) that a
// caching policy layer uses regardless of where entries actually live.
//
// Implementations:
//   - embedded: a local node store (in-process, bolt file, or redis peers) with
//     timer-driven expiry.
//   - remote: a gRPC service reached through a retrying invoker that maps
//     transport status codes onto the error taxonomy in this package.
//
// Keys:
//
//	embedded: <segment>/<id>              under the partition node
//	remote:   [<partition>, <segment>, <id>]
//
// Usage:
//
//	conn := embedded.New(embedded.Options[User]{Codec: codec.JSON[User]{}})
//	_ = conn.Start(ctx)
//	_ = conn.Set(ctx, cachebox.Key{Segment: "users", ID: "42"}, u, time.Minute)
//	env, _ := conn.Get(ctx, cachebox.Key{Segment: "users", ID: "42"}) // nil on miss
package cachebox
