// Package binstash provides a small library for storing binary assets
// across two independent backing stores: a blob store holding the bytes
// and a relational catalog holding one row per asset.
//
// The two stores are not covered by a shared transaction. Create and
// Delete are implemented as an explicit two-step sequence with a fixed
// order (blob store first) and a compensating action on partial failure.
// When compensation itself fails the stores are left disagreeing, and
// the operation reports ErrInconsistent so an operator can reconcile
// out of band; such outcomes are never retried automatically.
//
// Basic usage:
//
//	svc, err := binstash.New(
//	    binstash.WithCatalog(memory.New()),
//	    binstash.WithBlobStore(memorystorage.New()),
//	)
package binstash
