package main

import (
	"context"
	"strings"
	"time"
)

// delimiter separates key segments into the folder hierarchy shown in
// the panes. Folders are a display convention over key prefixes, not
// real entities in the store.
const delimiter = "/"

// EntryKind discriminates the rows a pane can display.
type EntryKind int

const (
	KindBucket EntryKind = iota
	KindFolder
	KindFile
)

func (k EntryKind) String() string {
	switch k {
	case KindBucket:
		return "bucket"
	case KindFolder:
		return "folder"
	case KindFile:
		return "file"
	}
	return "unknown"
}

// Entry is one displayable row in a pane. Key is empty for bucket
// entries; buckets are addressed by name. Name is the final path
// segment of Key with any trailing delimiter stripped.
type Entry struct {
	Name     string
	Key      string
	Kind     EntryKind
	Size     int64
	Modified time.Time
}

// SelectionKey returns the identifier stored in a pane's selection for
// this entry: the object key, or the name for bucket entries.
func (e Entry) SelectionKey() string {
	if e.Kind == KindBucket {
		return e.Name
	}
	return e.Key
}

// baseName returns the final path segment of key with any trailing
// delimiter stripped.
func baseName(key string) string {
	key = strings.TrimSuffix(key, delimiter)
	if i := strings.LastIndex(key, delimiter); i >= 0 {
		return key[i+1:]
	}
	return key
}

// listEntries maps a flat key listing under prefix into one level of
// Folder and File entries. Folders come first, both groups in gateway
// order; no alphabetical re-sort is imposed. An object whose key equals
// the prefix itself is a directory marker and is suppressed.
func listEntries(ctx context.Context, gw Gateway, bucket, prefix string) ([]Entry, error) {
	// Root level may arrive as a bare delimiter.
	if prefix == delimiter {
		prefix = ""
	}

	res, err := gw.ListObjects(ctx, bucket, prefix, delimiter)
	if err != nil {
		return nil, &ListingError{Bucket: bucket, Prefix: prefix, Err: err}
	}

	entries := make([]Entry, 0, len(res.CommonPrefixes)+len(res.Objects))
	for _, cp := range res.CommonPrefixes {
		entries = append(entries, Entry{
			Name: baseName(cp),
			Key:  cp,
			Kind: KindFolder,
		})
	}
	for _, obj := range res.Objects {
		if obj.Key == prefix {
			continue
		}
		entries = append(entries, Entry{
			Name:     baseName(obj.Key),
			Key:      obj.Key,
			Kind:     KindFile,
			Size:     obj.Size,
			Modified: obj.Modified,
		})
	}
	return entries, nil
}

// listBucketEntries maps the account's buckets into Bucket entries.
func listBucketEntries(ctx context.Context, gw Gateway) ([]Entry, error) {
	buckets, err := gw.ListBuckets(ctx)
	if err != nil {
		return nil, &ListingError{Err: err}
	}

	entries := make([]Entry, 0, len(buckets))
	for _, b := range buckets {
		entries = append(entries, Entry{
			Name:     b.Name,
			Kind:     KindBucket,
			Modified: b.Created,
		})
	}
	return entries, nil
}
