//go:build go1.18

package hsd_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hsd-format/go-hsd"
)

func FuzzRoundTrip(f *testing.F) {
	// Seed the corpus with valid documents from the testdata directory.
	seedFiles, err := filepath.Glob("testdata/*.hsd")
	if err != nil {
		f.Fatalf("failed to find seed files: %v", err)
	}
	for _, file := range seedFiles {
		data, err := os.ReadFile(file)
		if err != nil {
			f.Fatalf("failed to read seed file %s: %v", file, err)
		}
		f.Add(string(data))
	}

	// Small edge cases worth starting from.
	f.Add("a {}")
	f.Add("a = 1")
	f.Add("a =\n")
	f.Add(`a = "x y"`)
	f.Add("a [u] = 1 2 3")
	f.Add("a = b = c = 1")
	f.Add("a = {\n 1 2\n 3 4\n}")
	f.Add("a = 1\na = 2\na { b = 3 }")

	f.Fuzz(func(t *testing.T, input string) {
		doc, err := hsd.LoadString(input)
		if err != nil {
			// Invalid input; the fuzzer only hunts for panics here.
			return
		}

		// Anything the loader accepted must dump and reload cleanly.
		first, err := hsd.DumpString(doc)
		if err != nil {
			t.Fatalf("dump of loaded document failed: %v\ninput: %q", err, input)
		}
		redoc, err := hsd.LoadString(first)
		if err != nil {
			t.Fatalf("reload of dumped document failed: %v\ndump: %q", err, first)
		}
		second, err := hsd.DumpString(redoc)
		if err != nil {
			t.Fatalf("second dump failed: %v", err)
		}
		if first != second {
			t.Fatalf("dump not stable:\nfirst:  %q\nsecond: %q", first, second)
		}
	})
}
