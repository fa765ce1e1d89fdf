package navtree

import (
	"errors"
	"fmt"
)

// Resolver reports whether a content document exists.
type Resolver interface {
	Has(id string) bool
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(id string) bool

func (f ResolverFunc) Has(id string) bool { return f(id) }

// BrokenRefError points at a sidebar entry whose doc id has no content. Its
// message reads like
//
//	mySidebar > Getting Started > [1] "Install the CLI": unknown doc id "getting-started/install"
type BrokenRefError struct {
	Sidebar string
	Path    Path
	ID      string
	Label   string
}

func (e *BrokenRefError) Error() string {
	return fmt.Sprintf("%s > %s: unknown doc id %q", e.Sidebar, e.Path, e.ID)
}

// Validate checks every doc reference against the content resolver. All broken
// references are reported, joined into one error.
func Validate(s *Sidebars, r Resolver) error {
	if s == nil {
		return errors.New("no sidebars")
	}
	var errs []error
	for _, name := range s.order {
		sb := s.byName[name]
		_ = Walk(sb.items, func(path Path, n Node) error {
			d, ok := n.(*DocRef)
			if !ok {
				return nil
			}
			if !r.Has(d.id) {
				errs = append(errs, &BrokenRefError{Sidebar: name, Path: path, ID: d.id, Label: d.label})
			}
			return nil
		})
	}
	return errors.Join(errs...)
}

// BrokenRefs unpacks the BrokenRefErrors carried by a Validate error, also
// when it has been wrapped.
func BrokenRefs(err error) []*BrokenRefError {
	switch e := err.(type) {
	case nil:
		return nil
	case *BrokenRefError:
		return []*BrokenRefError{e}
	case interface{ Unwrap() []error }:
		var out []*BrokenRefError
		for _, inner := range e.Unwrap() {
			out = append(out, BrokenRefs(inner)...)
		}
		return out
	default:
		return BrokenRefs(errors.Unwrap(err))
	}
}
