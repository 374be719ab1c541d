package control

import (
	"sync"

	lru "github.com/hashicorp/golang-lru"

	"github.com/oba-ldap/ldapwire/internal/ber"
	"github.com/oba-ldap/ldapwire/internal/ldapmsg"
)

// Value is a typed control, extended-operation, or intermediate-response
// payload that knows its own OID and how to round-trip its inner BER
// structure. OID is fixed per concrete type; EncodeValue/DecodeValue
// handle only the value octets, not the surrounding Control envelope
// (OID, criticality) or ExtendedRequest/Response tagging, which
// ldapmsg already owns.
type Value interface {
	OID() string
	EncodeValue(enc *ber.BEREncoder) error
	DecodeValue(data []byte) error
}

// Factory builds a zero-valued Value ready for DecodeValue, or ready
// to have its fields set before EncodeValue.
type Factory func() Value

// table identifies which of a Registry's five maps a lookup or
// registration targets.
type table int

const (
	tableRequestControl table = iota
	tableResponseControl
	tableExtendedRequest
	tableExtendedResponse
	tableIntermediateResponse
)

type cacheKey struct {
	table table
	oid   string
}

type cacheEntry struct {
	factory Factory
	found   bool
}

// defaultCacheSize bounds Registry's OID lookup cache. Registries are
// typically populated once at startup with a handful of entries; the
// cache exists for busy connections that repeatedly look up the same
// OID, not for holding the whole population.
const defaultCacheSize = 256

// Registry holds the five OID-keyed factory tables spec.md §4.5 and §6
// name: request controls, response controls, extended requests,
// extended responses, and intermediate responses. Registration is
// open — registering an OID already present overwrites it and returns
// the previous factory, or nil if there was none. Reads may run
// concurrently with reads; a write excludes all other access for the
// duration of the call.
type Registry struct {
	mu     sync.RWMutex
	tables map[table]map[string]Factory
	cache  *lru.Cache
}

// NewRegistry builds an empty Registry. Use Default to get one
// pre-populated with PagedResults, PersistentSearch,
// EntryChangeNotification, ServerSort (request and response), and
// Subentries.
func NewRegistry() *Registry {
	cache, err := lru.New(defaultCacheSize)
	if err != nil {
		// lru.New only fails for a non-positive size, which
		// defaultCacheSize never is.
		panic(err)
	}
	return &Registry{
		tables: map[table]map[string]Factory{
			tableRequestControl:       {},
			tableResponseControl:      {},
			tableExtendedRequest:      {},
			tableExtendedResponse:     {},
			tableIntermediateResponse: {},
		},
		cache: cache,
	}
}

func (r *Registry) register(t table, oid string, f Factory) Factory {
	r.mu.Lock()
	defer r.mu.Unlock()
	prev := r.tables[t][oid]
	r.tables[t][oid] = f
	r.cache.Remove(cacheKey{table: t, oid: oid})
	return prev
}

func (r *Registry) lookup(t table, oid string) (Factory, bool) {
	key := cacheKey{table: t, oid: oid}
	if v, ok := r.cache.Get(key); ok {
		entry := v.(cacheEntry)
		return entry.factory, entry.found
	}

	r.mu.RLock()
	f, ok := r.tables[t][oid]
	r.mu.RUnlock()

	r.cache.Add(key, cacheEntry{factory: f, found: ok})
	return f, ok
}

// RegisterRequestControl registers a factory for a request control OID.
func (r *Registry) RegisterRequestControl(oid string, f Factory) Factory {
	return r.register(tableRequestControl, oid, f)
}

// RegisterResponseControl registers a factory for a response control OID.
func (r *Registry) RegisterResponseControl(oid string, f Factory) Factory {
	return r.register(tableResponseControl, oid, f)
}

// RegisterExtendedRequest registers a factory for an ExtendedRequest
// requestName OID.
func (r *Registry) RegisterExtendedRequest(oid string, f Factory) Factory {
	return r.register(tableExtendedRequest, oid, f)
}

// RegisterExtendedResponse registers a factory for an ExtendedResponse
// responseName OID.
func (r *Registry) RegisterExtendedResponse(oid string, f Factory) Factory {
	return r.register(tableExtendedResponse, oid, f)
}

// RegisterIntermediateResponse registers a factory for an
// IntermediateResponse responseName OID.
func (r *Registry) RegisterIntermediateResponse(oid string, f Factory) Factory {
	return r.register(tableIntermediateResponse, oid, f)
}

// DecodeRequestControl looks up a factory for c.OID and, if one is
// registered, builds and decodes the typed Value. The bool return
// reports whether a factory was found; callers should fall back to
// treating c as an opaque ldapmsg.Control when it is false.
func (r *Registry) DecodeRequestControl(c ldapmsg.Control) (Value, bool, error) {
	return r.decode(tableRequestControl, c)
}

// DecodeResponseControl is DecodeRequestControl for response controls.
func (r *Registry) DecodeResponseControl(c ldapmsg.Control) (Value, bool, error) {
	return r.decode(tableResponseControl, c)
}

func (r *Registry) decode(t table, c ldapmsg.Control) (Value, bool, error) {
	f, ok := r.lookup(t, c.OID)
	if !ok {
		return nil, false, nil
	}
	v := f()
	if err := v.DecodeValue(c.Value); err != nil {
		return nil, true, err
	}
	return v, true, nil
}

// EncodeControl encodes a typed Value's inner structure and wraps it
// in an ldapmsg.Control with the given criticality.
func EncodeControl(v Value, criticality bool) (ldapmsg.Control, error) {
	enc := ber.NewBEREncoder(64)
	if err := v.EncodeValue(enc); err != nil {
		return ldapmsg.Control{}, err
	}
	return ldapmsg.Control{
		OID:         v.OID(),
		Criticality: criticality,
		Value:       enc.Bytes(),
	}, nil
}

// FindControl returns the first control in controls matching oid, or
// nil if none matches.
func FindControl(controls []ldapmsg.Control, oid string) *ldapmsg.Control {
	for i := range controls {
		if controls[i].OID == oid {
			return &controls[i]
		}
	}
	return nil
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// Default returns the process-wide Registry pre-populated with the
// control OIDs spec.md §4.5 requires to be decodable. Callers may add
// further factories with the Register* methods; per spec.md §5 the
// registries are typically populated once at startup before I/O
// begins.
func Default() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewRegistry()
		registerBuiltins(defaultRegistry)
	})
	return defaultRegistry
}

func registerBuiltins(r *Registry) {
	r.RegisterRequestControl(OIDPagedResults, func() Value { return &PagedResults{} })
	r.RegisterResponseControl(OIDPagedResults, func() Value { return &PagedResults{} })
	r.RegisterRequestControl(OIDPersistentSearch, func() Value { return &PersistentSearch{} })
	r.RegisterResponseControl(OIDEntryChangeNotification, func() Value { return &EntryChangeNotification{} })
	r.RegisterRequestControl(OIDServerSortRequest, func() Value { return &ServerSortRequest{} })
	r.RegisterResponseControl(OIDServerSortResponse, func() Value { return &ServerSortResponse{} })
	r.RegisterRequestControl(OIDSubentries, func() Value { return &Subentries{} })
}
