// Package contenthash computes exact-match digests of file contents.
//
// SHA-1 is used for its near-zero accidental collision probability, not
// for any security property. Digests are only comparable to digests
// produced within the same run.
package contenthash

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"io"
	"os"
)

// chunkSize bounds both memory use and cancellation latency: the context
// is checked between chunk reads, so a cancelled run stops after at most
// one more chunk regardless of file size.
const chunkSize = 1 << 20 // 1 MiB

// File streams the file at path through SHA-1 and returns the digest as
// a hex string. An I/O error fails only this file; the caller decides
// whether the run continues.
func File(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha1.New()
	buf := make([]byte, chunkSize)
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		n, err := f.Read(buf)
		if n > 0 {
			h.Write(buf[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
