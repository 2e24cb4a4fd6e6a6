package util

import (
	"crypto/sha256"
	"fmt"
)

// Checksum returns the hex SHA256 of a document.
func Checksum(document []byte) string {
	return fmt.Sprintf("%x", sha256.Sum256(document))
}

// FormatBytes formats bytes into human readable format.
func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	const units = "KMGTPEZY"
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit && exp < len(units)-1; n /= unit {
		div *= unit
		exp++
	}

	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), units[exp])
}
