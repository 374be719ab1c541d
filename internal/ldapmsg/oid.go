package ldapmsg

import (
	"errors"
	"sync"

	lru "github.com/hashicorp/golang-lru"
)

// ErrInvalidOID is returned when a field requiring an LDAPOID (a
// dotted-decimal string, e.g. "1.3.6.1.4.1.1466.20037") fails
// syntactic validation.
var ErrInvalidOID = errors.New("ldapmsg: invalid OID syntax")

const oidCacheSize = 512

var (
	oidCache     *lru.Cache
	oidCacheOnce sync.Once
)

func validationCache() *lru.Cache {
	oidCacheOnce.Do(func() {
		c, err := lru.New(oidCacheSize)
		if err != nil {
			panic(err)
		}
		oidCache = c
	})
	return oidCache
}

// ValidateOID reports whether oid is a syntactically valid LDAPOID: a
// non-empty sequence of dot-separated decimal components, each either
// "0" or a digit string with no leading zero, with at least two
// components. Results are cached since ExtendedRequest.RequestName and
// control OIDs are re-validated on every message from a busy
// connection.
func ValidateOID(oid string) error {
	cache := validationCache()
	if v, ok := cache.Get(oid); ok {
		if v.(bool) {
			return nil
		}
		return ErrInvalidOID
	}

	valid := isValidOID(oid)
	cache.Add(oid, valid)
	if !valid {
		return ErrInvalidOID
	}
	return nil
}

func isValidOID(oid string) bool {
	if oid == "" {
		return false
	}

	components := 0
	start := 0
	for i := 0; i <= len(oid); i++ {
		if i < len(oid) && oid[i] != '.' {
			continue
		}
		component := oid[start:i]
		if !isValidOIDComponent(component) {
			return false
		}
		components++
		start = i + 1
	}
	return components >= 2
}

func isValidOIDComponent(s string) bool {
	if s == "" {
		return false
	}
	if s == "0" {
		return true
	}
	if s[0] == '0' {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
