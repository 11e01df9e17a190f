package memstore

import "errors"

// ErrDuplicateSeq mirrors the unique (source, tag, seq) index of the SQL
// backend. Its message is classified as a conflict.
var ErrDuplicateSeq = errors.New("memstore: duplicate key (source, tag, seq)")
