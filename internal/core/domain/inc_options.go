package domain

import (
	"encoding/binary"
	"fmt"
	"maps"
	"math"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Defaults for every IncOptions field.
const (
	DefaultTransitiveStep           = 3
	DefaultRecompileAllFraction     = 0.5
	DefaultRelationsDebug           = false
	DefaultAPIDebug                 = false
	DefaultAPIDiffContextSize       = 5
	DefaultUseCustomizedFileManager = false
	DefaultUseOptimizedSealed       = false
	DefaultStoreAPIs                = true
	DefaultEnabled                  = true
	DefaultLogRecompileOnMacro      = true

	// DefaultRecompileOnMacroDefImpl is the effective value of recompileOnMacroDef when it is absent.
	DefaultRecompileOnMacroDefImpl = true
)

// IncOptionsFields names every field of IncOptions except the setup equivalence.
// It is the argument of the full-field factories. A zero IncOptionsFields is
// taken literally; it is not filled with defaults.
type IncOptionsFields struct {
	TransitiveStep           int
	RecompileAllFraction     float64
	RelationsDebug           bool
	APIDebug                 bool
	APIDiffContextSize       int
	APIDumpDirectory         Optional[string]
	ClassFileManagerType     Optional[ClassFileManagerType]
	UseCustomizedFileManager bool
	RecompileOnMacroDef      Optional[bool]
	UseOptimizedSealed       bool
	StoreAPIs                bool
	Enabled                  bool
	Extra                    map[string]string
	LogRecompileOnMacro      bool
	ExternalHooks            ExternalHooks
}

// IncOptions configures the incremental compiler itself, not the underlying
// Java or Scala compiler.
//
// IncOptions is immutable: every With method returns a new value and leaves the
// receiver untouched. The zero IncOptions is not the default configuration; use
// NewIncOptions.
//
// Equality covers every field. The external hooks and the setup equivalence
// cannot be compared by behavior, so they compare by identity: two option sets
// that are otherwise identical but carry different hook or predicate references
// are not equal.
type IncOptions struct {
	transitiveStep            int
	recompileAllFraction      float64
	relationsDebug            bool
	apiDebug                  bool
	apiDiffContextSize        int
	apiDumpDirectory          Optional[string]
	classFileManagerType      Optional[ClassFileManagerType]
	useCustomizedFileManager  bool
	recompileOnMacroDef       Optional[bool]
	useOptimizedSealed        bool
	storeAPIs                 bool
	enabled                   bool
	extra                     map[string]string
	logRecompileOnMacro       bool
	externalHooks             ExternalHooks
	externalCompileSetupEquiv Optional[*SetupEquiv]
}

// NewIncOptions returns options populated entirely from defaults.
func NewIncOptions() IncOptions {
	return IncOptions{
		transitiveStep:            DefaultTransitiveStep,
		recompileAllFraction:      DefaultRecompileAllFraction,
		relationsDebug:            DefaultRelationsDebug,
		apiDebug:                  DefaultAPIDebug,
		apiDiffContextSize:        DefaultAPIDiffContextSize,
		apiDumpDirectory:          None[string](),
		classFileManagerType:      None[ClassFileManagerType](),
		useCustomizedFileManager:  DefaultUseCustomizedFileManager,
		recompileOnMacroDef:       None[bool](),
		useOptimizedSealed:        DefaultUseOptimizedSealed,
		storeAPIs:                 DefaultStoreAPIs,
		enabled:                   DefaultEnabled,
		extra:                     map[string]string{},
		logRecompileOnMacro:       DefaultLogRecompileOnMacro,
		externalHooks:             DefaultExternal(),
		externalCompileSetupEquiv: None[*SetupEquiv](),
	}
}

// NewIncOptionsFrom builds options from explicit field values with no setup equivalence.
// Values are not validated.
func NewIncOptionsFrom(f IncOptionsFields) IncOptions {
	return NewIncOptionsWithSetupEquiv(f, None[*SetupEquiv]())
}

// NewIncOptionsWithSetupEquiv builds options from explicit field values and a setup equivalence.
// Values are not validated.
func NewIncOptionsWithSetupEquiv(f IncOptionsFields, equiv Optional[*SetupEquiv]) IncOptions {
	return IncOptions{
		transitiveStep:            f.TransitiveStep,
		recompileAllFraction:      f.RecompileAllFraction,
		relationsDebug:            f.RelationsDebug,
		apiDebug:                  f.APIDebug,
		apiDiffContextSize:        f.APIDiffContextSize,
		apiDumpDirectory:          f.APIDumpDirectory,
		classFileManagerType:      f.ClassFileManagerType,
		useCustomizedFileManager:  f.UseCustomizedFileManager,
		recompileOnMacroDef:       f.RecompileOnMacroDef,
		useOptimizedSealed:        f.UseOptimizedSealed,
		storeAPIs:                 f.StoreAPIs,
		enabled:                   f.Enabled,
		extra:                     cloneExtra(f.Extra),
		logRecompileOnMacro:       f.LogRecompileOnMacro,
		externalHooks:             f.ExternalHooks,
		externalCompileSetupEquiv: equiv,
	}
}

func cloneExtra(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return maps.Clone(m)
}

// TransitiveStep is the step after which the whole transitive closure of
// invalidated source files is included.
func (o IncOptions) TransitiveStep() int { return o.transitiveStep }

// RecompileAllFraction is the fraction of invalidated sources above which
// incremental compilation is abandoned and everything is recompiled.
func (o IncOptions) RecompileAllFraction() float64 { return o.recompileAllFraction }

// RelationsDebug enables detailed diagnostics about dependency relations.
func (o IncOptions) RelationsDebug() bool { return o.relationsDebug }

// APIDebug enables tools for debugging API changes.
func (o IncOptions) APIDebug() bool { return o.apiDebug }

// APIDiffContextSize is the number of context lines in textual API diffs.
// It is only used when APIDebug is true.
func (o IncOptions) APIDiffContextSize() int { return o.apiDiffContextSize }

// APIDumpDirectory is where textual API representations are dumped. Reserved.
func (o IncOptions) APIDumpDirectory() Optional[string] { return o.apiDumpDirectory }

// ClassFileManagerType selects how class files are added and removed during one run.
func (o IncOptions) ClassFileManagerType() Optional[ClassFileManagerType] {
	return o.classFileManagerType
}

// UseCustomizedFileManager enables the file manager that tracks generated
// class files for transactional rollback.
func (o IncOptions) UseCustomizedFileManager() bool { return o.useCustomizedFileManager }

// RecompileOnMacroDef is the raw setting; see EffectiveRecompileOnMacroDef.
func (o IncOptions) RecompileOnMacroDef() Optional[bool] { return o.recompileOnMacroDef }

// UseOptimizedSealed enables optimized invalidation of sealed hierarchy children.
// It may under-compile when macros enumerate sealed children.
func (o IncOptions) UseOptimizedSealed() bool { return o.useOptimizedSealed }

// StoreAPIs reports whether computed APIs are stored alongside the analysis.
func (o IncOptions) StoreAPIs() bool { return o.storeAPIs }

// Enabled is the master switch for incremental compilation.
func (o IncOptions) Enabled() bool { return o.enabled }

// Extra returns a copy of the extra options.
func (o IncOptions) Extra() map[string]string { return maps.Clone(o.extra) }

// LogRecompileOnMacro reports whether files recompiled because of a transitive
// macro change are logged.
func (o IncOptions) LogRecompileOnMacro() bool { return o.logRecompileOnMacro }

// ExternalHooks returns the hooks through which external tools observe compilation.
func (o IncOptions) ExternalHooks() ExternalHooks { return o.externalHooks }

// ExternalCompileSetupEquiv returns the external setup equivalence, if any.
func (o IncOptions) ExternalCompileSetupEquiv() Optional[*SetupEquiv] {
	return o.externalCompileSetupEquiv
}

// EffectiveRecompileOnMacroDef resolves RecompileOnMacroDef, treating absence
// as DefaultRecompileOnMacroDefImpl.
func (o IncOptions) EffectiveRecompileOnMacroDef() bool {
	return o.recompileOnMacroDef.OrElse(DefaultRecompileOnMacroDefImpl)
}

func (o IncOptions) WithTransitiveStep(v int) IncOptions {
	o.transitiveStep = v
	return o
}

func (o IncOptions) WithRecompileAllFraction(v float64) IncOptions {
	o.recompileAllFraction = v
	return o
}

func (o IncOptions) WithRelationsDebug(v bool) IncOptions {
	o.relationsDebug = v
	return o
}

func (o IncOptions) WithAPIDebug(v bool) IncOptions {
	o.apiDebug = v
	return o
}

func (o IncOptions) WithAPIDiffContextSize(v int) IncOptions {
	o.apiDiffContextSize = v
	return o
}

func (o IncOptions) WithAPIDumpDirectory(v Optional[string]) IncOptions {
	o.apiDumpDirectory = v
	return o
}

func (o IncOptions) WithClassFileManagerType(v Optional[ClassFileManagerType]) IncOptions {
	o.classFileManagerType = v
	return o
}

func (o IncOptions) WithUseCustomizedFileManager(v bool) IncOptions {
	o.useCustomizedFileManager = v
	return o
}

func (o IncOptions) WithRecompileOnMacroDef(v Optional[bool]) IncOptions {
	o.recompileOnMacroDef = v
	return o
}

func (o IncOptions) WithUseOptimizedSealed(v bool) IncOptions {
	o.useOptimizedSealed = v
	return o
}

func (o IncOptions) WithStoreAPIs(v bool) IncOptions {
	o.storeAPIs = v
	return o
}

func (o IncOptions) WithEnabled(v bool) IncOptions {
	o.enabled = v
	return o
}

// WithExtra replaces the extra options with a copy of v.
func (o IncOptions) WithExtra(v map[string]string) IncOptions {
	o.extra = cloneExtra(v)
	return o
}

func (o IncOptions) WithLogRecompileOnMacro(v bool) IncOptions {
	o.logRecompileOnMacro = v
	return o
}

func (o IncOptions) WithExternalHooks(v ExternalHooks) IncOptions {
	o.externalHooks = v
	return o
}

func (o IncOptions) WithExternalCompileSetupEquiv(v Optional[*SetupEquiv]) IncOptions {
	o.externalCompileSetupEquiv = v
	return o
}

// Diff returns the names of the fields whose values differ between o and other,
// in declaration order.
func (o IncOptions) Diff(other IncOptions) []string {
	var changed []string
	check := func(name string, equal bool) {
		if !equal {
			changed = append(changed, name)
		}
	}

	check("transitiveStep", o.transitiveStep == other.transitiveStep)
	check("recompileAllFraction", floatBits(o.recompileAllFraction) == floatBits(other.recompileAllFraction))
	check("relationsDebug", o.relationsDebug == other.relationsDebug)
	check("apiDebug", o.apiDebug == other.apiDebug)
	check("apiDiffContextSize", o.apiDiffContextSize == other.apiDiffContextSize)
	check("apiDumpDirectory", OptionalEqual(o.apiDumpDirectory, other.apiDumpDirectory))
	check("classfileManagerType", OptionalEqual(o.classFileManagerType, other.classFileManagerType))
	check("useCustomizedFileManager", o.useCustomizedFileManager == other.useCustomizedFileManager)
	check("recompileOnMacroDef", OptionalEqual(o.recompileOnMacroDef, other.recompileOnMacroDef))
	check("useOptimizedSealed", o.useOptimizedSealed == other.useOptimizedSealed)
	check("storeApis", o.storeAPIs == other.storeAPIs)
	check("enabled", o.enabled == other.enabled)
	check("extra", maps.Equal(o.extra, other.extra))
	check("logRecompileOnMacro", o.logRecompileOnMacro == other.logRecompileOnMacro)
	check("externalHooks", sameReference(o.externalHooks, other.externalHooks))
	check("externalCompileSetupEquiv", OptionalEqual(o.externalCompileSetupEquiv, other.externalCompileSetupEquiv))

	return changed
}

// Equal reports whether every field of o equals the corresponding field of other.
// Fractions compare by bit pattern with -0 folded into +0, so a NaN fraction
// equals the same NaN.
func (o IncOptions) Equal(other IncOptions) bool {
	return len(o.Diff(other)) == 0
}

// sameReference compares externally supplied capabilities by identity.
// Pointer-like dynamic types compare by address; funcs compare by code pointer,
// which is the best available approximation. Other comparable dynamic types
// compare with ==, and values that are not comparable are never the same.
func sameReference(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}
	switch va.Kind() {
	case reflect.Pointer, reflect.Func, reflect.Map, reflect.Chan, reflect.UnsafePointer:
		return va.Pointer() == vb.Pointer()
	case reflect.Slice:
		return va.Pointer() == vb.Pointer() && va.Len() == vb.Len()
	}
	if va.Comparable() && vb.Comparable() {
		return va.Equal(vb)
	}
	return false
}

// Hash returns an xxhash64 over every field in declaration order, each followed
// by a zero byte. Extra keys are hashed in sorted order. Hooks contribute their
// dynamic type name and the setup equivalence contributes its presence, which
// keeps the hash consistent with Equal. The value is stable within a process.
func (o IncOptions) Hash() uint64 {
	d := xxhash.New()
	_, _ = d.WriteString("IncOptions")
	_, _ = d.Write([]byte{0})

	writeInt(d, o.transitiveStep)
	writeFloat(d, o.recompileAllFraction)
	writeBool(d, o.relationsDebug)
	writeBool(d, o.apiDebug)
	writeInt(d, o.apiDiffContextSize)

	dir, ok := o.apiDumpDirectory.Get()
	writeBool(d, ok)
	writeString(d, dir)

	cfm, ok := o.classFileManagerType.Get()
	writeBool(d, ok)
	writeInt(d, int(cfm.Kind))
	writeString(d, cfm.BackupDirectory)

	writeBool(d, o.useCustomizedFileManager)

	macro, ok := o.recompileOnMacroDef.Get()
	writeBool(d, ok)
	writeBool(d, macro)

	writeBool(d, o.useOptimizedSealed)
	writeBool(d, o.storeAPIs)
	writeBool(d, o.enabled)

	for _, k := range slices.Sorted(maps.Keys(o.extra)) {
		_, _ = d.WriteString(k)
		_, _ = d.Write([]byte{'='})
		_, _ = d.WriteString(o.extra[k])
		_, _ = d.Write([]byte{0})
	}
	_, _ = d.Write([]byte{0})

	writeBool(d, o.logRecompileOnMacro)
	writeString(d, fmt.Sprintf("%T", o.externalHooks))
	writeBool(d, o.externalCompileSetupEquiv.IsPresent())

	return d.Sum64()
}

// Fingerprint returns Hash as a 16 digit hex string.
func (o IncOptions) Fingerprint() string {
	return fmt.Sprintf("%016x", o.Hash())
}

func writeInt(d *xxhash.Digest, v int) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(v)) //nolint:gosec // bit pattern only
	_, _ = d.Write(buf[:])
	_, _ = d.Write([]byte{0})
}

func writeFloat(d *xxhash.Digest, v float64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], floatBits(v))
	_, _ = d.Write(buf[:])
	_, _ = d.Write([]byte{0})
}

func writeBool(d *xxhash.Digest, v bool) {
	b := byte(0)
	if v {
		b = 1
	}
	_, _ = d.Write([]byte{b, 0})
}

func writeString(d *xxhash.Digest, v string) {
	_, _ = d.WriteString(v)
	_, _ = d.Write([]byte{0})
}

// String renders every field by name. The format is for diagnostics and is not parseable.
func (o IncOptions) String() string {
	var b strings.Builder
	b.WriteString("IncOptions(")
	field := func(name, value string) {
		if b.Len() > len("IncOptions(") {
			b.WriteString(", ")
		}
		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(value)
	}

	field("transitiveStep", strconv.Itoa(o.transitiveStep))
	field("recompileAllFraction", strconv.FormatFloat(o.recompileAllFraction, 'g', -1, 64))
	field("relationsDebug", strconv.FormatBool(o.relationsDebug))
	field("apiDebug", strconv.FormatBool(o.apiDebug))
	field("apiDiffContextSize", strconv.Itoa(o.apiDiffContextSize))
	field("apiDumpDirectory", o.apiDumpDirectory.String())
	field("classfileManagerType", o.classFileManagerType.String())
	field("useCustomizedFileManager", strconv.FormatBool(o.useCustomizedFileManager))
	field("recompileOnMacroDef", o.recompileOnMacroDef.String())
	field("useOptimizedSealed", strconv.FormatBool(o.useOptimizedSealed))
	field("storeApis", strconv.FormatBool(o.storeAPIs))
	field("enabled", strconv.FormatBool(o.enabled))
	field("extra", formatExtra(o.extra))
	field("logRecompileOnMacro", strconv.FormatBool(o.logRecompileOnMacro))
	field("externalHooks", fmt.Sprint(o.externalHooks))
	field("externalCompileSetupEquiv", o.externalCompileSetupEquiv.String())

	b.WriteString(")")
	return b.String()
}

func formatExtra(m map[string]string) string {
	pairs := make([]string, 0, len(m))
	for _, k := range slices.Sorted(maps.Keys(m)) {
		pairs = append(pairs, k+"="+m[k])
	}
	return "{" + strings.Join(pairs, ", ") + "}"
}

// floatBits returns the bit pattern of v with -0 folded into +0.
func floatBits(v float64) uint64 {
	if v == 0 {
		return 0
	}
	return math.Float64bits(v)
}
