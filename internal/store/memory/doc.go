// Package memory provides in-process implementations of the store
// repositories. Data lives in maps guarded by a single RWMutex and is lost
// when the process exits. Entities are copied on the way in and on the way
// out so callers never share state with the store.
package memory
