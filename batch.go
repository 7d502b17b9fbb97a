package main

import (
	"context"

	"go.uber.org/zap"
)

// BatchOp is the kind of bulk mutation applied to a selection.
type BatchOp int

const (
	OpCopy BatchOp = iota
	OpMove
	OpDelete
)

func (op BatchOp) String() string {
	switch op {
	case OpCopy:
		return "copy"
	case OpMove:
		return "move"
	case OpDelete:
		return "delete"
	}
	return "unknown"
}

// BatchFailure records one key that could not be processed.
type BatchFailure struct {
	Key string
	Err error
}

// BatchResult reports the outcome of a batch operation, with both lists
// in original selection order.
type BatchResult struct {
	Op        BatchOp
	Succeeded []string
	Failed    []BatchFailure
}

// runBatch applies op to every selected key of src, in selection order,
// one gateway call at a time. A failing item is recorded and the rest of
// the batch continues; there is no all-or-nothing mode and no retry.
//
// Copy and move flatten: the destination key is dst's prefix plus the
// source key's final segment. A selected folder contributes only its
// marker object; descendants are not traversed.
//
// On return the keys that succeeded are dropped from src's selection
// (failed keys stay selected for a retry), and both panes are reloaded
// if anything succeeded.
func runBatch(ctx context.Context, gw Gateway, src, dst *Pane, op BatchOp, log *zap.Logger) (*BatchResult, error) {
	keys := src.Selected()
	if len(keys) == 0 {
		return nil, ErrNoSelection
	}
	if src.AtBucketLevel() {
		return nil, ErrNotInBucket
	}
	if op != OpDelete && dst.AtBucketLevel() {
		return nil, ErrNoDestination
	}

	srcBucket := src.Location().Bucket
	dstLoc := dst.Location()

	res := &BatchResult{Op: op}
	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			res.Failed = append(res.Failed, BatchFailure{Key: key, Err: err})
			continue
		}

		var err error
		switch op {
		case OpCopy:
			err = gw.CopyObject(ctx, srcBucket, key, dstLoc.Bucket, dstLoc.Prefix+baseName(key))
		case OpMove:
			// Delete only after the copy landed; a failed copy leaves
			// the source untouched.
			err = gw.CopyObject(ctx, srcBucket, key, dstLoc.Bucket, dstLoc.Prefix+baseName(key))
			if err == nil {
				err = gw.DeleteObject(ctx, srcBucket, key)
			}
		case OpDelete:
			err = gw.DeleteObject(ctx, srcBucket, key)
		}

		if err != nil {
			log.Error("batch item failed",
				zap.Stringer("op", op), zap.String("key", key), zap.Error(err))
			res.Failed = append(res.Failed, BatchFailure{Key: key, Err: err})
			continue
		}
		res.Succeeded = append(res.Succeeded, key)
	}

	for _, key := range res.Succeeded {
		src.removeSelection(key)
	}

	if len(res.Succeeded) > 0 {
		if err := src.Reload(ctx, gw); err != nil {
			log.Error("source reload after batch failed", zap.Error(err))
		}
		if err := dst.Reload(ctx, gw); err != nil {
			log.Error("destination reload after batch failed", zap.Error(err))
		}
	}

	log.Info("batch finished",
		zap.Stringer("op", op),
		zap.Int("succeeded", len(res.Succeeded)),
		zap.Int("failed", len(res.Failed)))
	return res, nil
}
