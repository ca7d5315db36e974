// Package models defines the entities flowing through a radar run.
//
// [Artist] and [RawRelease] mirror the catalog service's wire shapes and are
// what the cache persists. [Release] is the filtered, display-ready record
// handed to the presentation layer. [TokenRecord] is the persisted session
// credential owned by the cache store and mutated only by token refreshes.
package models
