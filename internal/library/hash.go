package library

import (
	"crypto/sha1" //nolint:gosec // content identity, not security
	"encoding/hex"
	"io"
	"os"
)

// hashFile returns the hex SHA-1 of a file's content.
func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha1.New() //nolint:gosec // content identity, not security
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
