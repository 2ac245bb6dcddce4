// Package socialcontent implements the content-authoring domain of a
// social backend: polymorphic content payloads (short, blog, image),
// the content lifecycle (create, get, update, soft delete), account and
// page identities with the author-as entitlement, and hashtag listings
// with per-language projection.
//
// The package is storage-agnostic: persistence goes through the
// Repository interface with in-memory, Postgres, and MongoDB
// implementations under repo/. HTTP handlers live under api/ and
// configuration under config/.
package socialcontent
