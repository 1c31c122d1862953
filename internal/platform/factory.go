package platform

import (
	"github.com/aretw0/roomtag/pkg/core"
)

// New opens the repository at uri and builds a service on it.
//
//	svc, err := platform.New("./saves", platform.WithAdapter("badger"))
func New(uri string, opts ...Option) (*Service, error) {
	o := collect(opts)
	repo, err := initRepository(uri, o)
	if err != nil {
		return nil, err
	}
	svc, err := newService(repo, o)
	if err != nil {
		if c, ok := repo.(core.Closer); ok {
			_ = c.Close()
		}
		return nil, err
	}
	return svc, nil
}
