// Package utils provides common utility functions for epos-sync.
// It holds the SKU parsing shared by both catalog readers.
package utils
