package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// fakeGateway is an in-memory Gateway with per-key failure injection
// and a call log, used by the core tests. Listings come back in lexical
// key order, the way the real store returns them.
type fakeGateway struct {
	buckets map[string]map[string][]byte
	created map[string]time.Time

	failCopy   map[string]error
	failDelete map[string]error
	failList   error

	calls []string
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		buckets:    make(map[string]map[string][]byte),
		created:    make(map[string]time.Time),
		failCopy:   make(map[string]error),
		failDelete: make(map[string]error),
	}
}

func (f *fakeGateway) addBucket(name string) {
	if _, ok := f.buckets[name]; !ok {
		f.buckets[name] = make(map[string][]byte)
		f.created[name] = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	}
}

func (f *fakeGateway) put(bucket, key string, size int) {
	f.addBucket(bucket)
	f.buckets[bucket][key] = bytes.Repeat([]byte("x"), size)
}

func (f *fakeGateway) record(format string, args ...any) {
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
}

func (f *fakeGateway) callsMatching(substr string) []string {
	var out []string
	for _, c := range f.calls {
		if strings.Contains(c, substr) {
			out = append(out, c)
		}
	}
	return out
}

func (f *fakeGateway) ListBuckets(ctx context.Context) ([]BucketInfo, error) {
	f.record("list-buckets")
	if f.failList != nil {
		return nil, f.failList
	}
	names := make([]string, 0, len(f.buckets))
	for name := range f.buckets {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]BucketInfo, 0, len(names))
	for _, name := range names {
		out = append(out, BucketInfo{Name: name, Created: f.created[name]})
	}
	return out, nil
}

func (f *fakeGateway) ListObjects(ctx context.Context, bucket, prefix, delim string) (*ListResult, error) {
	f.record("list %s/%s", bucket, prefix)
	if f.failList != nil {
		return nil, f.failList
	}
	objects, ok := f.buckets[bucket]
	if !ok {
		return nil, &GatewayError{Op: "list objects", Bucket: bucket, Err: ErrNotFound}
	}

	keys := make([]string, 0, len(objects))
	for key := range objects {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	res := &ListResult{}
	seen := make(map[string]bool)
	for _, key := range keys {
		// Keys with a delimiter past the prefix are rolled up into a
		// common prefix, exactly as the real store does. A directory
		// marker (key == prefix) comes back as a regular object.
		rest := key[len(prefix):]
		if i := strings.Index(rest, delim); i >= 0 {
			cp := prefix + rest[:i+1]
			if !seen[cp] {
				seen[cp] = true
				res.CommonPrefixes = append(res.CommonPrefixes, cp)
			}
			continue
		}
		res.Objects = append(res.Objects, ObjectInfo{
			Key:      key,
			Size:     int64(len(objects[key])),
			Modified: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		})
	}
	return res, nil
}

func (f *fakeGateway) HeadObject(ctx context.Context, bucket, key string) (*ObjectMeta, error) {
	data, ok := f.buckets[bucket][key]
	if !ok {
		return nil, &GatewayError{Op: "head", Bucket: bucket, Key: key, Err: ErrNotFound}
	}
	return &ObjectMeta{Size: int64(len(data)), ContentType: "application/octet-stream"}, nil
}

func (f *fakeGateway) CopyObject(ctx context.Context, srcBucket, srcKey, dstBucket, dstKey string) error {
	f.record("copy %s/%s -> %s/%s", srcBucket, srcKey, dstBucket, dstKey)
	if err := f.failCopy[srcKey]; err != nil {
		return err
	}
	data, ok := f.buckets[srcBucket][srcKey]
	if !ok {
		return &GatewayError{Op: "copy", Bucket: srcBucket, Key: srcKey, Err: ErrNotFound}
	}
	if _, ok := f.buckets[dstBucket]; !ok {
		return &GatewayError{Op: "copy", Bucket: dstBucket, Err: ErrNotFound}
	}
	f.buckets[dstBucket][dstKey] = data
	return nil
}

func (f *fakeGateway) DeleteObject(ctx context.Context, bucket, key string) error {
	f.record("delete %s/%s", bucket, key)
	if err := f.failDelete[key]; err != nil {
		return err
	}
	delete(f.buckets[bucket], key)
	return nil
}

func (f *fakeGateway) GetObjectBytes(ctx context.Context, bucket, key string, maxSize int64) ([]byte, error) {
	data, ok := f.buckets[bucket][key]
	if !ok {
		return nil, &GatewayError{Op: "get", Bucket: bucket, Key: key, Err: ErrNotFound}
	}
	if int64(len(data)) > maxSize {
		return nil, &TooLargeError{Size: int64(len(data)), Limit: maxSize}
	}
	return data, nil
}

func (f *fakeGateway) PutObjectBytes(ctx context.Context, bucket, key string, data []byte) error {
	f.record("put %s/%s", bucket, key)
	if _, ok := f.buckets[bucket]; !ok {
		return &GatewayError{Op: "put", Bucket: bucket, Err: ErrNotFound}
	}
	f.buckets[bucket][key] = data
	return nil
}

func (f *fakeGateway) DownloadToLocal(ctx context.Context, bucket, key, path string) error {
	if _, ok := f.buckets[bucket][key]; !ok {
		return &GatewayError{Op: "download", Bucket: bucket, Key: key, Err: ErrNotFound}
	}
	return nil
}

func (f *fakeGateway) UploadFromLocal(ctx context.Context, path, bucket, key string) error {
	if _, ok := f.buckets[bucket]; !ok {
		return &GatewayError{Op: "upload", Bucket: bucket, Err: ErrNotFound}
	}
	f.buckets[bucket][key] = []byte("uploaded")
	return nil
}

func (f *fakeGateway) CreateBucket(ctx context.Context, name, region string) error {
	f.record("create-bucket %s", name)
	f.addBucket(name)
	return nil
}

func (f *fakeGateway) DeleteBucket(ctx context.Context, name string) error {
	f.record("delete-bucket %s", name)
	if _, ok := f.buckets[name]; !ok {
		return &GatewayError{Op: "delete bucket", Bucket: name, Err: ErrNotFound}
	}
	delete(f.buckets, name)
	return nil
}

var errInjected = errors.New("injected failure")
