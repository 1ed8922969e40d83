package keybinds

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/studiowebux/spotui/internal/action"
	"github.com/studiowebux/spotui/internal/mode"
)

// ValidationError represents a keybinding validation error
type ValidationError struct {
	Type    string // "conflict", "invalid", "warning"
	Context Context
	Key     string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s in context '%s': %s", e.Type, e.Key, e.Context, e.Message)
}

// ValidationResult contains all validation errors and warnings
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
}

// HasErrors returns true if there are any errors
func (r *ValidationResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// HasWarnings returns true if there are any warnings
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// String returns a human-readable summary of validation results
func (r *ValidationResult) String() string {
	var sb strings.Builder

	if len(r.Errors) > 0 {
		sb.WriteString(fmt.Sprintf("Errors (%d):\n", len(r.Errors)))
		for _, err := range r.Errors {
			sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
		}
	}

	if len(r.Warnings) > 0 {
		sb.WriteString(fmt.Sprintf("Warnings (%d):\n", len(r.Warnings)))
		for _, warn := range r.Warnings {
			sb.WriteString(fmt.Sprintf("  - %s\n", warn.Error()))
		}
	}

	if !r.HasErrors() && !r.HasWarnings() {
		sb.WriteString("No issues found")
	}

	return sb.String()
}

// Validator validates keybinding configurations
type Validator struct {
	// reservedKeys are keys that should keep their default action
	reservedKeys map[string]action.Kind

	// contextHierarchy defines context inheritance
	contextHierarchy map[Context]Context
}

// NewValidator creates a new keybinding validator
func NewValidator() *Validator {
	hierarchy := make(map[Context]Context)
	for _, m := range mode.All() {
		hierarchy[ContextFor(m)] = ContextGlobal
	}

	return &Validator{
		reservedKeys: map[string]action.Kind{
			"ctrl+c": action.KindQuit, // Quit should always work
		},
		contextHierarchy: hierarchy,
	}
}

// ValidateRegistry validates an entire registry
func (v *Validator) ValidateRegistry(registry *Registry) *ValidationResult {
	result := &ValidationResult{
		Errors:   []ValidationError{},
		Warnings: []ValidationError{},
	}

	// Check for unknown contexts
	v.checkContexts(registry, result)

	// Check for conflicts with reserved keys
	v.checkReservedKeys(registry, result)

	// Check for chords that can never complete
	v.checkMultiKeySequences(registry, result)

	// Check for shadowing (context-specific binding hiding global binding)
	v.checkShadowing(registry, result)

	// Check for printable keys stolen from the path input
	v.checkTextInput(registry, result)

	return result
}

// ValidateConfig validates a configuration before applying it
func (v *Validator) ValidateConfig(config *Config) *ValidationResult {
	registry := NewRegistry()
	if err := ApplyConfig(registry, config); err != nil {
		result := v.ValidateRegistry(registry)
		result.Errors = append(result.Errors, ValidationError{
			Type:    "invalid",
			Message: err.Error(),
		})
		return result
	}

	return v.ValidateRegistry(registry)
}

// checkContexts reports bindings registered under a context no mode uses
func (v *Validator) checkContexts(registry *Registry, result *ValidationResult) {
	for context := range registry.bindings {
		if context == ContextGlobal {
			continue
		}
		if _, known := v.contextHierarchy[context]; !known {
			result.Errors = append(result.Errors, ValidationError{
				Type:    "invalid",
				Context: context,
				Message: "unknown context",
			})
		}
	}
}

// checkReservedKeys checks if any reserved keys have been rebound
func (v *Validator) checkReservedKeys(registry *Registry, result *ValidationResult) {
	for context, bindings := range registry.bindings {
		for key, kind := range bindings {
			want, reserved := v.reservedKeys[key]
			if reserved && kind != want {
				result.Warnings = append(result.Warnings, ValidationError{
					Type:    "warning",
					Context: context,
					Key:     key,
					Message: fmt.Sprintf("reserved key rebound to %s (may cause issues)", kind),
				})
			}
		}
	}
}

// checkMultiKeySequences finds chords whose first key is also bound alone.
// A key bound alone fires immediately and never enters the sequence buffer,
// so such a chord can never complete.
func (v *Validator) checkMultiKeySequences(registry *Registry, result *ValidationResult) {
	for context, bindings := range registry.bindings {
		for seq := range bindings {
			if !IsChord(seq) {
				continue
			}
			first := strings.Fields(seq)[0]
			if kind, ok := registry.Match(context, first); ok {
				result.Errors = append(result.Errors, ValidationError{
					Type:    "conflict",
					Context: context,
					Key:     seq,
					Message: fmt.Sprintf("unreachable chord: %q is bound alone to %s", first, kind),
				})
			}
		}
	}
}

// checkShadowing checks for context-specific bindings that shadow global bindings
func (v *Validator) checkShadowing(registry *Registry, result *ValidationResult) {
	globalBindings := registry.bindings[ContextGlobal]
	if globalBindings == nil {
		return
	}

	for context, bindings := range registry.bindings {
		if context == ContextGlobal {
			continue
		}

		for key, kind := range bindings {
			if globalKind, hasGlobal := globalBindings[key]; hasGlobal && kind != globalKind {
				result.Warnings = append(result.Warnings, ValidationError{
					Type:    "warning",
					Context: context,
					Key:     key,
					Message: fmt.Sprintf("shadows global binding (%s -> %s)", globalKind, kind),
				})
			}
		}
	}
}

// checkTextInput warns about printable keys bound while typing a path
func (v *Validator) checkTextInput(registry *Registry, result *ValidationResult) {
	inputContext := ContextFor(mode.Input)
	for _, context := range []Context{inputContext, ContextGlobal} {
		for key := range registry.bindings[context] {
			if utf8.RuneCountInString(key) == 1 {
				result.Warnings = append(result.Warnings, ValidationError{
					Type:    "warning",
					Context: context,
					Key:     key,
					Message: "printable key cannot be typed in the path input",
				})
			}
		}
	}
}

// FindConflicts finds all conflicting keybindings in a config
func FindConflicts(config *Config) []string {
	validator := NewValidator()
	result := validator.ValidateConfig(config)

	var conflicts []string
	for _, err := range result.Errors {
		if err.Type == "conflict" {
			conflicts = append(conflicts, err.Error())
		}
	}

	return conflicts
}

// ValidateKey checks if a key string is valid
func ValidateKey(key string) error {
	key = NormalizeSequence(key)
	if key == "" {
		return fmt.Errorf("key cannot be empty")
	}

	for _, part := range strings.Fields(key) {
		if err := validateSingleKey(part); err != nil {
			return err
		}
	}
	return nil
}

func validateSingleKey(key string) error {
	// Check for valid modifier combinations
	validModifiers := []string{"ctrl+", "alt+", "shift+", "super+"}
	hasModifier := false
	for _, mod := range validModifiers {
		if strings.HasPrefix(key, mod) {
			hasModifier = true
			break
		}
	}

	// If it has a modifier, ensure there's something after it
	if hasModifier {
		for _, mod := range validModifiers {
			if key == mod {
				return fmt.Errorf("modifier without key: %s", key)
			}
		}
	}

	return nil
}

// ValidateAction checks if an action string is valid
func ValidateAction(actionStr string) error {
	if actionStr == "" {
		return fmt.Errorf("action cannot be empty")
	}

	_, err := action.ParseKind(actionStr)
	return err
}
