package codec

import (
	"github.com/oba-ldap/ldapwire/internal/codecconfig"
	"github.com/oba-ldap/ldapwire/internal/codeclog"
	"github.com/oba-ldap/ldapwire/internal/control"
	"github.com/oba-ldap/ldapwire/internal/grammar"
)

// CodecService is an immutable handle bound to its own control
// registry and decoder options, built with NewBuilder. spec.md §9's
// design notes prefer this shape over package-level mutable registries
// for callers who want isolated configurations (most notably tests);
// the package-level Encode/NewDecoder/RegisterXxx functions remain
// available for callers happy with one process-wide registry.
type CodecService struct {
	registry *control.Registry
	options  codecconfig.DecoderOptions
	logger   codeclog.Logger
}

// NewDecoder creates a Decoder bound to this service's registry,
// decoder options and logger.
func (s *CodecService) NewDecoder() *Decoder {
	return &Decoder{
		inner:    grammar.NewDecoder(s.options, perConnectionLogger(s.logger)),
		registry: s.registry,
	}
}

// Version reports the codec's own semantic version and the LDAP
// protocol version it implements.
func (s *CodecService) Version() Version {
	return Version{Codec: codecVersion, Protocol: ldapProtocolVersion}
}

// Registry exposes the service's control registry, so a caller that
// already has a CodecService can register further controls against
// exactly the registry its decoders consult, instead of reaching for
// the package-level RegisterXxx functions (which act on
// control.Default(), a different registry).
func (s *CodecService) Registry() *control.Registry {
	return s.registry
}

// Builder assembles a CodecService. The zero value is not usable;
// start from NewBuilder.
type Builder struct {
	registry *control.Registry
	options  codecconfig.DecoderOptions
	logger   codeclog.Logger
}

// NewBuilder starts a Builder with an empty control registry (no
// built-in controls pre-registered), the package's default decoder
// options, and a no-op logger. Unlike control.Default, it does not
// seed PagedResults, PersistentSearch, ServerSort, or Subentries.
func NewBuilder() *Builder {
	return &Builder{
		registry: control.NewRegistry(),
		options:  codecconfig.Default().Decoder,
		logger:   codeclog.NewNop(),
	}
}

// WithDecoderOptions overrides the decoder options the built service's
// decoders will use.
func (b *Builder) WithDecoderOptions(options codecconfig.DecoderOptions) *Builder {
	b.options = options
	return b
}

// WithLogger sets the logger the built service's decoders use for the
// warnings spec.md calls for, e.g. a discarded referral on a
// non-REFERRAL result.
func (b *Builder) WithLogger(logger codeclog.Logger) *Builder {
	if logger != nil {
		b.logger = logger
	}
	return b
}

// WithRequestControl registers a request control factory on the
// builder's registry.
func (b *Builder) WithRequestControl(oid string, f control.Factory) *Builder {
	b.registry.RegisterRequestControl(oid, f)
	return b
}

// WithResponseControl registers a response control factory on the
// builder's registry.
func (b *Builder) WithResponseControl(oid string, f control.Factory) *Builder {
	b.registry.RegisterResponseControl(oid, f)
	return b
}

// WithExtendedRequest registers an ExtendedRequest factory on the
// builder's registry.
func (b *Builder) WithExtendedRequest(oid string, f control.Factory) *Builder {
	b.registry.RegisterExtendedRequest(oid, f)
	return b
}

// WithExtendedResponse registers an ExtendedResponse factory on the
// builder's registry.
func (b *Builder) WithExtendedResponse(oid string, f control.Factory) *Builder {
	b.registry.RegisterExtendedResponse(oid, f)
	return b
}

// WithIntermediateResponse registers an IntermediateResponse factory
// on the builder's registry.
func (b *Builder) WithIntermediateResponse(oid string, f control.Factory) *Builder {
	b.registry.RegisterIntermediateResponse(oid, f)
	return b
}

// Build finalizes the CodecService. The Builder remains usable
// afterward, but the returned service shares the builder's registry
// by reference: further With* calls on b still reach decoders this
// CodecService already produced, matching spec.md §5's description of
// the control registries as process-wide mutable state rather than a
// frozen snapshot. Call NewBuilder again for an independent registry.
func (b *Builder) Build() *CodecService {
	return &CodecService{registry: b.registry, options: b.options, logger: b.logger}
}
