package domain

// ClassFileManager observes class file additions and deletions during a compilation run.
// An external tool may supply one to override the manager selected by ClassFileManagerType.
type ClassFileManager interface {
	// Delete is called with class files about to be removed.
	Delete(classes []string)
	// Generated is called with class files produced by the compiler.
	Generated(classes []string)
	// Complete is called once when the run finishes.
	Complete(success bool)
}

// Lookup lets an external tool provide analysis content the compiler would otherwise compute.
type Lookup interface {
	// ChangedSources returns the sources the tool knows to have changed, if it knows.
	ChangedSources() Optional[[]string]
	// ShouldDoIncrementalCompilation may veto incremental compilation for the given invalidated classes.
	ShouldDoIncrementalCompilation(invalidatedClasses []string) bool
}

// ExternalHooks is the injection point through which clients such as IDEs
// interact with compilation internals. IncOptions stores and forwards it without
// calling it; implementations are responsible for their own thread-safety.
type ExternalHooks interface {
	ExternalClassFileManager() Optional[ClassFileManager]
	ExternalLookup() Optional[Lookup]
}

var _ ExternalHooks = (*DefaultExternalHooks)(nil)

// DefaultExternalHooks is an ExternalHooks holding optional sub-hooks.
type DefaultExternalHooks struct {
	classFileManager Optional[ClassFileManager]
	lookup           Optional[Lookup]
}

// noExternalHooks is shared so that default-constructed options compare equal.
var noExternalHooks = &DefaultExternalHooks{}

// DefaultExternal returns the no-op hooks with both sub-hooks absent.
func DefaultExternal() ExternalHooks {
	return noExternalHooks
}

// NewDefaultExternalHooks creates hooks from the given sub-hooks.
func NewDefaultExternalHooks(lookup Optional[Lookup], manager Optional[ClassFileManager]) *DefaultExternalHooks {
	return &DefaultExternalHooks{classFileManager: manager, lookup: lookup}
}

// ExternalClassFileManager returns the class file manager override, if any.
func (h *DefaultExternalHooks) ExternalClassFileManager() Optional[ClassFileManager] {
	return h.classFileManager
}

// ExternalLookup returns the lookup hook, if any.
func (h *DefaultExternalHooks) ExternalLookup() Optional[Lookup] {
	return h.lookup
}

// WithExternalClassFileManager returns new hooks with the manager replaced.
func (h *DefaultExternalHooks) WithExternalClassFileManager(m ClassFileManager) *DefaultExternalHooks {
	return &DefaultExternalHooks{classFileManager: Some(m), lookup: h.lookup}
}

// WithExternalLookup returns new hooks with the lookup replaced.
func (h *DefaultExternalHooks) WithExternalLookup(l Lookup) *DefaultExternalHooks {
	return &DefaultExternalHooks{classFileManager: h.classFileManager, lookup: Some(l)}
}

func (h *DefaultExternalHooks) String() string {
	return "DefaultExternalHooks(classFileManager: " + presence(h.classFileManager.IsPresent()) +
		", lookup: " + presence(h.lookup.IsPresent()) + ")"
}

func presence(ok bool) string {
	if ok {
		return "present"
	}
	return "absent"
}
