package lines

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"iter"
	"os"
)

// DefaultChunkSize is the read size used when Options does not override it.
const DefaultChunkSize = 8 * 1024

// Options configures a bounded read.
type Options struct {
	// ChunkSize is the fixed read size in bytes. Default: 8 KiB.
	ChunkSize int
}

// Read yields at most maxLines newline-terminated lines from the file at
// path, in file order and without the trailing newline. A final partial
// line with no trailing newline is yielded last if the budget allows.
//
// The file is read in fixed-size chunks; only the undecoded remainder of
// the current chunk is buffered between reads, and ctx is checked before
// each chunk so a large file cannot outlive its caller. The sequence is
// finite and not restartable.
//
// A missing file yields an empty sequence without an error. Any other
// I/O failure aborts the sequence by yielding ("", err) as the final
// item.
func Read(ctx context.Context, path string, maxLines int, opts ...Options) iter.Seq2[string, error] {
	chunkSize := DefaultChunkSize
	if len(opts) > 0 && opts[0].ChunkSize > 0 {
		chunkSize = opts[0].ChunkSize
	}

	return func(yield func(string, error) bool) {
		if maxLines <= 0 {
			return
		}

		f, err := os.Open(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return
			}
			yield("", err)
			return
		}
		defer f.Close()

		var (
			remainder []byte
			yielded   int
			chunk     = make([]byte, chunkSize)
		)

		for {
			if err := ctx.Err(); err != nil {
				yield("", err)
				return
			}

			n, readErr := f.Read(chunk)
			if n > 0 {
				remainder = append(remainder, chunk[:n]...)

				for {
					idx := bytes.IndexByte(remainder, '\n')
					if idx < 0 {
						break
					}
					line := string(remainder[:idx])
					remainder = remainder[idx+1:]
					if !yield(line, nil) {
						return
					}
					yielded++
					if yielded >= maxLines {
						return
					}
				}
			}

			if readErr != nil {
				if readErr == io.EOF {
					break
				}
				yield("", readErr)
				return
			}
		}

		// Unterminated final line
		if len(remainder) > 0 {
			yield(string(remainder), nil)
		}
	}
}

// ReadAll collects the bounded sequence into a slice.
func ReadAll(ctx context.Context, path string, maxLines int, opts ...Options) ([]string, error) {
	var out []string
	for line, err := range Read(ctx, path, maxLines, opts...) {
		if err != nil {
			return nil, err
		}
		out = append(out, line)
	}
	return out, nil
}
