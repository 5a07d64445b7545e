// Package ir provides the value types shared by every other qcore package.
//
// This package contains value definitions and their canonical encoding
// only. All other internal packages import ir; ir imports nothing internal.
//
// Key design constraints:
//   - NO float types anywhere - numbers are int64
//   - NULL is an explicit IRNull value, never a nil interface in stored rows
//   - Canonical JSON (RFC 8785 ordering, NFC strings) is the only encoding
//     used for fingerprints and golden output
package ir
