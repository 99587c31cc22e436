package domain

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"

	"go.trai.ch/zerr"
)

// Fraction is the persisted form of recompileAllFraction. Finite values encode
// as JSON numbers; NaN and the infinities encode as the strings "NaN", "+Inf"
// and "-Inf", which encoding/json cannot represent as numbers.
type Fraction float64

// MarshalJSON implements json.Marshaler.
func (f Fraction) MarshalJSON() ([]byte, error) {
	v := float64(f)
	switch {
	case math.IsNaN(v):
		return []byte(`"NaN"`), nil
	case math.IsInf(v, 1):
		return []byte(`"+Inf"`), nil
	case math.IsInf(v, -1):
		return []byte(`"-Inf"`), nil
	}
	return json.Marshal(v)
}

// UnmarshalJSON implements json.Unmarshaler. It accepts a number or one of the
// strings written by MarshalJSON.
func (f *Fraction) UnmarshalJSON(data []byte) error {
	if bytes.HasPrefix(data, []byte(`"`)) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return zerr.With(zerr.Wrap(err, "invalid fraction"), "value", s)
		}
		*f = Fraction(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = Fraction(v)
	return nil
}

// ClassFileManagerRecord is the persisted form of ClassFileManagerType.
type ClassFileManagerRecord struct {
	Kind            string `json:"kind"                      yaml:"kind"`
	BackupDirectory string `json:"backupDirectory,omitempty" yaml:"backupDirectory,omitempty"`
}

// IncOptionsRecord is the persisted form of IncOptions. Every field is optional
// so records written before a field existed still decode; absent fields keep
// whatever the base value passed to Apply holds. Hooks and the setup
// equivalence are runtime-only and never persisted.
type IncOptionsRecord struct {
	TransitiveStep           *int                    `json:"transitiveStep,omitempty"           yaml:"transitiveStep,omitempty"`
	RecompileAllFraction     *Fraction               `json:"recompileAllFraction,omitempty"     yaml:"recompileAllFraction,omitempty"`
	RelationsDebug           *bool                   `json:"relationsDebug,omitempty"           yaml:"relationsDebug,omitempty"`
	APIDebug                 *bool                   `json:"apiDebug,omitempty"                 yaml:"apiDebug,omitempty"`
	APIDiffContextSize       *int                    `json:"apiDiffContextSize,omitempty"       yaml:"apiDiffContextSize,omitempty"`
	APIDumpDirectory         *string                 `json:"apiDumpDirectory,omitempty"         yaml:"apiDumpDirectory,omitempty"`
	ClassFileManager         *ClassFileManagerRecord `json:"classfileManager,omitempty"         yaml:"classfileManager,omitempty"`
	UseCustomizedFileManager *bool                   `json:"useCustomizedFileManager,omitempty" yaml:"useCustomizedFileManager,omitempty"`
	RecompileOnMacroDef      *bool                   `json:"recompileOnMacroDef,omitempty"      yaml:"recompileOnMacroDef,omitempty"`
	UseOptimizedSealed       *bool                   `json:"useOptimizedSealed,omitempty"       yaml:"useOptimizedSealed,omitempty"`
	StoreAPIs                *bool                   `json:"storeApis,omitempty"                yaml:"storeApis,omitempty"`
	Enabled                  *bool                   `json:"enabled,omitempty"                  yaml:"enabled,omitempty"`
	Extra                    map[string]string       `json:"extra,omitempty"                    yaml:"extra,omitempty"`
	LogRecompileOnMacro      *bool                   `json:"logRecompileOnMacro,omitempty"      yaml:"logRecompileOnMacro,omitempty"`
}

// Record returns the persisted form of o. Optional fields that are absent stay nil.
func (o IncOptions) Record() IncOptionsRecord {
	r := IncOptionsRecord{
		TransitiveStep:           ptr(o.transitiveStep),
		RecompileAllFraction:     ptr(Fraction(o.recompileAllFraction)),
		RelationsDebug:           ptr(o.relationsDebug),
		APIDebug:                 ptr(o.apiDebug),
		APIDiffContextSize:       ptr(o.apiDiffContextSize),
		UseCustomizedFileManager: ptr(o.useCustomizedFileManager),
		UseOptimizedSealed:       ptr(o.useOptimizedSealed),
		StoreAPIs:                ptr(o.storeAPIs),
		Enabled:                  ptr(o.enabled),
		LogRecompileOnMacro:      ptr(o.logRecompileOnMacro),
	}
	if dir, ok := o.apiDumpDirectory.Get(); ok {
		r.APIDumpDirectory = &dir
	}
	if t, ok := o.classFileManagerType.Get(); ok {
		r.ClassFileManager = &ClassFileManagerRecord{Kind: t.Kind.String(), BackupDirectory: t.BackupDirectory}
	}
	if v, ok := o.recompileOnMacroDef.Get(); ok {
		r.RecompileOnMacroDef = &v
	}
	if len(o.extra) > 0 {
		r.Extra = o.Extra()
	}
	return r
}

// Apply layers the fields present in r onto base through the With operations.
// It fails only when the class file manager kind is not recognised. The kind
// "unknown" is what Record writes for a zero ClassFileManagerType and restores it.
func (r IncOptionsRecord) Apply(base IncOptions) (IncOptions, error) {
	o := base
	if r.TransitiveStep != nil {
		o = o.WithTransitiveStep(*r.TransitiveStep)
	}
	if r.RecompileAllFraction != nil {
		o = o.WithRecompileAllFraction(float64(*r.RecompileAllFraction))
	}
	if r.RelationsDebug != nil {
		o = o.WithRelationsDebug(*r.RelationsDebug)
	}
	if r.APIDebug != nil {
		o = o.WithAPIDebug(*r.APIDebug)
	}
	if r.APIDiffContextSize != nil {
		o = o.WithAPIDiffContextSize(*r.APIDiffContextSize)
	}
	if r.APIDumpDirectory != nil {
		o = o.WithAPIDumpDirectory(Some(*r.APIDumpDirectory))
	}
	if r.ClassFileManager != nil {
		var kind ClassFileManagerKind
		if r.ClassFileManager.Kind != kind.String() {
			var err error
			if kind, err = ParseClassFileManagerKind(r.ClassFileManager.Kind); err != nil {
				return IncOptions{}, err
			}
		}
		o = o.WithClassFileManagerType(Some(ClassFileManagerType{
			Kind:            kind,
			BackupDirectory: r.ClassFileManager.BackupDirectory,
		}))
	}
	if r.UseCustomizedFileManager != nil {
		o = o.WithUseCustomizedFileManager(*r.UseCustomizedFileManager)
	}
	if r.RecompileOnMacroDef != nil {
		o = o.WithRecompileOnMacroDef(Some(*r.RecompileOnMacroDef))
	}
	if r.UseOptimizedSealed != nil {
		o = o.WithUseOptimizedSealed(*r.UseOptimizedSealed)
	}
	if r.StoreAPIs != nil {
		o = o.WithStoreAPIs(*r.StoreAPIs)
	}
	if r.Enabled != nil {
		o = o.WithEnabled(*r.Enabled)
	}
	if r.Extra != nil {
		o = o.WithExtra(r.Extra)
	}
	if r.LogRecompileOnMacro != nil {
		o = o.WithLogRecompileOnMacro(*r.LogRecompileOnMacro)
	}
	return o, nil
}

func ptr[T any](v T) *T {
	return &v
}
