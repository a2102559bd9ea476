// Package utils hosts configuration loading and logger construction shared
// by the clipdiff command hierarchy.
package utils
