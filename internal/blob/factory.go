package blob

import (
	"context"
	"fmt"

	"chemstate/internal/infra/blob/fs"
	"chemstate/internal/infra/blob/memory"
	"chemstate/internal/infra/blob/s3"
)

// S3Options configures the s3 driver.
type S3Options struct {
	Bucket    string
	Region    string
	Endpoint  string
	PathStyle bool
}

// Options selects and configures a backend. An empty Driver means fs.
type Options struct {
	Driver Driver
	FSRoot string
	S3     S3Options
}

// Open returns the Store described by opts.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Driver {
	case "", DriverFilesystem:
		return fs.New(opts.FSRoot)
	case DriverMemory:
		return memory.New(), nil
	case DriverS3:
		return s3.New(ctx, s3.Config{
			Bucket:    opts.S3.Bucket,
			Region:    opts.S3.Region,
			Endpoint:  opts.S3.Endpoint,
			PathStyle: opts.S3.PathStyle,
		})
	default:
		return nil, fmt.Errorf("unknown blob driver %s", opts.Driver)
	}
}

// NewMemory returns an in-memory Store.
func NewMemory() Store { return memory.New() }
