// Package utils contains internal HTTP and formatting helpers shared by the
// provider implementations: buffered and streaming JSON POST helpers with the
// library's error taxonomy applied, and the scanners that frame incremental
// response bodies into records.
package utils
