package container

import (
	"io"
)

// Closer is an io.Closer that can say which dependency it tears down, so
// Close errors name their source.
type Closer interface {
	io.Closer

	Name() string
}

// NamedCloser tags an io.Closer with the dependency name it belongs to.
type NamedCloser struct {
	name   string
	closer io.Closer
}

func NewNamedCloser(name string, closer io.Closer) *NamedCloser {
	return &NamedCloser{name: name, closer: closer}
}

func (d *NamedCloser) Name() string { return d.name }

func (d *NamedCloser) Close() error {
	if d.closer == nil {
		return nil
	}

	return d.closer.Close()
}

var _ Closer = (*NamedCloser)(nil)
