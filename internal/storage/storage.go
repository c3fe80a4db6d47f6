// Package storage is the durable layer under the in-memory stores. Each
// store owns one JSON record in a fixed namespace and rewrites it wholesale
// on every mutation; RecordStore implementations only need to load and save
// whole documents.
package storage

import (
	"context"
	"errors"
	"fmt"
)

// Fixed record namespaces.
const (
	NamespaceProducts = "product-storage"
	NamespaceOrders   = "order-storage"
)

// ErrNotFound is returned by Load when a namespace has never been written.
var ErrNotFound = errors.New("record not found")

// ErrRetryable marks a durable-write failure the caller may retry; the
// in-memory state is still the source of truth when it shows up.
var ErrRetryable = errors.New("retryable write failure")

// Retryable reports whether err is a durable-write failure worth retrying.
func Retryable(err error) bool { return errors.Is(err, ErrRetryable) }

func retryableErr(ns string, err error) error {
	return fmt.Errorf("%w: save %s: %v", ErrRetryable, ns, err)
}

// RecordStore loads and saves one opaque JSON document per namespace.
type RecordStore interface {
	// Load returns the current document, or ErrNotFound when the namespace
	// has never been saved.
	Load(ctx context.Context, namespace string) ([]byte, error)
	// Save replaces the document for the namespace.
	Save(ctx context.Context, namespace string, data []byte) error
	Close() error
}

// Drivers understood by Open.
const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
)

// Open builds a RecordStore for the configured driver.
func Open(driver, dataDir, sqlitePath string) (RecordStore, error) {
	switch driver {
	case DriverFile, "":
		return NewFilesystem(dataDir)
	case DriverSQLite:
		return OpenSQLite(sqlitePath)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}
