package report

import (
	"encoding/csv"
	"io"
	"os"

	"github.com/teranos/SIMYX/errors"
)

// Row is implemented by report items that render as one tabular row.
// Header and Row must agree on length and column order.
type Row interface {
	Header() []string
	Row() []string
}

// CSV returns a handler writing items to w: the header once, before the
// first row, then one row per item, flushed per item. Write failures
// panic; the experiment runner turns a panicking replication into a
// failure diagnostic rather than silently dropping results.
func CSV[T Row](w io.Writer) func(T) {
	cw := csv.NewWriter(w)
	wroteHeader := false
	return func(item T) {
		if !wroteHeader {
			if err := cw.Write(item.Header()); err != nil {
				panic(errors.Wrap(err, "writing csv report header"))
			}
			wroteHeader = true
		}
		if err := cw.Write(item.Row()); err != nil {
			panic(errors.Wrap(err, "writing csv report row"))
		}
		cw.Flush()
		if err := cw.Error(); err != nil {
			panic(errors.Wrap(err, "flushing csv report"))
		}
	}
}

// FileCSV returns a handler writing items to a CSV file at path and a
// closer that flushes and closes it. Rows are buffered; nothing is
// durable until the closer runs.
func FileCSV[T Row](path string) (handler func(T), closer func() error, err error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "creating report file %s", path)
	}
	cw := csv.NewWriter(f)
	wroteHeader := false

	handler = func(item T) {
		if !wroteHeader {
			if err := cw.Write(item.Header()); err != nil {
				panic(errors.Wrapf(err, "writing report file %s", path))
			}
			wroteHeader = true
		}
		if err := cw.Write(item.Row()); err != nil {
			panic(errors.Wrapf(err, "writing report file %s", path))
		}
	}
	closer = func() error {
		cw.Flush()
		if err := cw.Error(); err != nil {
			f.Close()
			return errors.Wrapf(err, "flushing report file %s", path)
		}
		return f.Close()
	}
	return handler, closer, nil
}

// Channel returns a handler sending items on ch, for collection outside
// the kernel's goroutine. The send blocks, so a slow consumer
// backpressures the simulation; close ch only after the run completes.
func Channel[T any](ch chan<- T) func(T) {
	return func(item T) {
		ch <- item
	}
}
