// Package storage defines the key/value contract served by respkv.
//
// The only implementation lives in storage/memory: values are kept in
// process memory for the lifetime of the server and are never written to
// disk. Expiry is lazy: an entry past its deadline is invisible to every
// read, and is physically removed the next time it is touched.
package storage
