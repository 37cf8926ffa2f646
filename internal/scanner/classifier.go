package scanner

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// Decision is what a walk does with one directory entry.
type Decision int

const (
	Skip    Decision = iota // neither recorded nor descended into
	Descend                 // directory to walk into
	Record                  // regular file to hand to consumers
)

func (d Decision) String() string {
	switch d {
	case Descend:
		return "descend"
	case Record:
		return "record"
	default:
		return "skip"
	}
}

// Classifier holds the exclusion policy for every walk. It never touches
// the filesystem.
type Classifier struct {
	skipHidden bool
	names      map[string]struct{}
	patterns   []string
}

// NewClassifier builds a classifier. Each exclude entry is either an exact
// directory name or a glob pattern matched against the name.
func NewClassifier(skipHidden bool, excludes []string) *Classifier {
	c := &Classifier{
		skipHidden: skipHidden,
		names:      make(map[string]struct{}, len(excludes)),
	}

	for _, e := range excludes {
		if strings.ContainsAny(e, "*?[") {
			c.patterns = append(c.patterns, e)
		} else {
			c.names[e] = struct{}{}
		}
	}

	return c
}

// Classify decides how to treat the entry name whose type bits are typ.
// Symlinks are never followed.
func (c *Classifier) Classify(name string, typ fs.FileMode) Decision {
	if typ&fs.ModeSymlink != 0 {
		return Skip
	}

	if c.skipHidden && strings.HasPrefix(name, ".") {
		return Skip
	}

	switch {
	case typ.IsDir():
		if c.excludedDir(name) {
			return Skip
		}
		return Descend
	case typ.IsRegular():
		return Record
	default:
		// devices, sockets, pipes
		return Skip
	}
}

func (c *Classifier) excludedDir(name string) bool {
	if _, ok := c.names[name]; ok {
		return true
	}
	for _, pattern := range c.patterns {
		if ok, _ := filepath.Match(pattern, name); ok {
			return true
		}
	}
	return false
}
