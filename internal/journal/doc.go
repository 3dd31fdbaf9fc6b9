// Package journal records batch runs and per-file outcomes in SQLite.
//
// Each run gets a UUID and a row in runs; each handled file adds a row in
// files. The journal is advisory: callers log journal failures and carry on,
// so a broken database never fails a photo.
//
// The schema is versioned. A database created by an incompatible version is
// rejected with ErrSchemaMismatch; delete it to start over.
package journal
