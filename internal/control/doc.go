// Package control implements the LDAP control registry and the typed
// controls spec.md §4.5 requires to be byte-exact: PagedResults,
// PersistentSearch (with its EntryChangeNotification response
// control), ServerSort (request and response), and Subentries.
//
// A Registry holds two open, overwrite-on-duplicate maps keyed by
// control OID, one for request controls and one for response
// controls, plus extended-operation and intermediate-response
// factories. Lookups are cached with a small bounded LRU so a busy
// connection that keeps seeing the same handful of OIDs doesn't
// re-walk the map (and, for ldapmsg.ValidateOID, the dotted-decimal
// grammar check) on every message.
//
// Most callers never touch Registry directly; they call the
// package-level Default() to get the registry pre-populated with the
// controls above, and register additional ones with
// RegisterRequestControl / RegisterResponseControl.
package control
