// Package cache holds the best-effort address cache. Entries are keyed by
// CEP, stored as canonical address JSON and expire after the TTL given on
// write. A miss is reported as sentinel.ErrNotFound.
package cache

const keyPrefix = "address:"

func cacheKey(cep string) string {
	return keyPrefix + cep
}
