package hsd

import "fmt"

type config struct {
	foldTagNames bool
	recordMeta   bool
	flattenData  bool
	useMeta      bool
	indent       int
}

// Option configures loading or dumping. Options irrelevant to an operation
// are accepted and ignored, so one option list can serve a round trip.
type Option func(*config) error

func newConfig(opts []Option) (config, error) {
	cfg := config{indent: 2}
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return config{}, err
		}
	}
	return cfg, nil
}

// FoldTagNames returns an Option that lowercases tag names on load, making
// later lookups case-insensitive. Combine with RecordMeta to keep the
// original spelling available for dumping.
func FoldTagNames() Option {
	return func(c *config) error {
		c.foldTagNames = true
		return nil
	}
}

// RecordMeta returns an Option that stores a provenance record for every tag
// on load: its source line, whether it was written with an equal sign, and
// its original spelling when tag names are folded.
func RecordMeta() Option {
	return func(c *config) error {
		c.recordMeta = true
		return nil
	}
}

// FlattenData returns an Option that merges multi-row data into one flat
// list on load instead of a list of rows.
func FlattenData() Option {
	return func(c *config) error {
		c.flattenData = true
		return nil
	}
}

// UseMeta returns an Option that makes dumping honor recorded provenance:
// equal-sign forms and original tag spellings are restored. Together with
// RecordMeta on load it reproduces the source layout.
func UseMeta() Option {
	return func(c *config) error {
		c.useMeta = true
		return nil
	}
}

// Indent returns an Option that sets the number of spaces per nesting level
// when dumping. The default is two.
//
// The width n must not be negative.
func Indent(n int) Option {
	return func(c *config) error {
		if n < 0 {
			return fmt.Errorf("hsd: indent width must not be negative")
		}
		c.indent = n
		return nil
	}
}
