// Package common provides small display and timestamp helpers shared by the
// wallet CLI, trimmed down from the original CCoin utility grab-bag to the
// handful of helpers an offline wallet demo actually needs.
package common

import (
	"encoding/hex"
	"time"
)

// HexToBytes converts a hex string to bytes, tolerating an optional 0x prefix.
func HexToBytes(s string) ([]byte, error) {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
	}
	return hex.DecodeString(s)
}

// BytesToHex converts bytes to a hex string with 0x prefix, for printing
// serials, nullifiers, and transcript hashes at the CLI.
func BytesToHex(b []byte) string {
	return "0x" + hex.EncodeToString(b)
}

// Now returns the current Unix timestamp.
func Now() uint64 {
	return uint64(time.Now().Unix())
}
