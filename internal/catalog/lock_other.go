//go:build !unix

package catalog

import "os"

// lockFile only creates the lock file on platforms without flock; a single
// writer is assumed there.
func lockFile(path string) (func(), error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, err
	}
	return func() { f.Close() }, nil
}
