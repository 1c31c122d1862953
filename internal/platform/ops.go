package platform

import (
	"context"
	"fmt"

	"github.com/aretw0/roomtag/pkg/adapters/badger"
	"github.com/aretw0/roomtag/pkg/adapters/fs"
	"github.com/aretw0/roomtag/pkg/core"
)

// Init opens the save repository named by the options.
// The uri is adapter-specific: a directory for both "fs" and "badger".
func Init(uri string, opts ...Option) (core.Repository, error) {
	return initRepository(uri, collect(opts))
}

func initRepository(uri string, o *options) (core.Repository, error) {
	if o.repository != nil {
		return o.repository, nil
	}

	path := resolvePath(uri, o)

	var (
		repo core.Repository
		err  error
	)
	switch o.adapter {
	case AdapterFS:
		repo, err = fs.NewRepository(fs.Config{
			Path:      path,
			Format:    o.format,
			MustExist: o.mustExist,
			ReadOnly:  o.readOnly,
			Strict:    o.strict,
			SystemDir: o.systemDir,
			Logger:    o.logger,
		})
	case AdapterBadger:
		repo, err = badger.NewRepository(badger.Config{
			Path:       path,
			InMemory:   o.inMemory,
			ReadOnly:   o.readOnly,
			GCInterval: o.gcInterval,
			Logger:     o.logger,
		})
	default:
		return nil, fmt.Errorf("unknown adapter: %s", o.adapter)
	}
	if err != nil {
		return nil, err
	}

	if err := repo.Initialize(context.Background()); err != nil {
		return nil, err
	}
	return repo, nil
}

// resolvePath applies the dev sandbox. Read-only runs are inherently safe and
// bypass it, as does an explicit WithDevSafety(false).
func resolvePath(uri string, o *options) string {
	bypass := o.readOnly || !o.devSafety
	useTemp := o.forceTemp || (IsDevRun() && !bypass)
	path := ResolveSavePath(uri, useTemp)

	switch {
	case useTemp && path != uri:
		o.logger.Warn("running in SAFE MODE (dev sandbox)", "original_path", uri, "resolved_path", path)
	case IsDevRun() && bypass && !o.readOnly:
		o.logger.Warn("running in UNSAFE mode (bypassing dev sandbox)", "path", path)
	}
	return path
}
