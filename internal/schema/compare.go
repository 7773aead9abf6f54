package schema

import (
	"fmt"
	"sort"
)

// Status is the outcome of comparing a producer schema to a consumer schema.
type Status string

const (
	StatusCompatible Status = "compatible"
	StatusWarning    Status = "warning"
	StatusError      Status = "error"
	// StatusUnknown is reported when either side of the comparison is
	// unresolved; no judgement is possible.
	StatusUnknown Status = "unknown"
)

// Severity classifies a single compatibility issue.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Issue codes.
const (
	CodeMissingField   = "missing-field"
	CodeTypeMismatch   = "type-mismatch"
	CodeUnresolvedType = "unresolved-type"
)

// Issue pinpoints one mismatch between a producer and a consumer schema.
// Path locates the field in dotted/bracketed form, e.g. "user.tags[]".
type Issue struct {
	Path     string   `json:"path"`
	Code     string   `json:"code"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// Result is the aggregate outcome of a compatibility check.
type Result struct {
	Status Status  `json:"status"`
	Issues []Issue `json:"issues,omitempty"`
}

// Check decides whether data shaped like producer can be consumed by a node
// expecting consumer. Matching is structural duck typing: extra producer
// properties are always fine, every property the consumer requires must be
// present, and kinds must line up. Imprecision (an unknown kind on either
// side of a needed field) is a warning rather than an error, since it may
// still resolve correctly at runtime.
func Check(producer, consumer *Schema) Result {
	if producer == nil || consumer == nil {
		return Result{Status: StatusUnknown}
	}

	var issues []Issue
	checkAt(producer, consumer, "", &issues)

	return Result{Status: worst(issues), Issues: issues}
}

func checkAt(producer, consumer *Schema, path string, issues *[]Issue) {
	// An unconstrained consumer accepts anything.
	if consumer.Kind == KindUnknown {
		return
	}
	if producer.Kind == KindUnknown {
		*issues = append(*issues, Issue{
			Path:     path,
			Code:     CodeUnresolvedType,
			Severity: SeverityWarning,
			Message:  fmt.Sprintf("producer shape at %q is unresolved; consumer expects %s", displayPath(path), consumer.Kind),
		})
		return
	}
	if producer.Kind != consumer.Kind {
		*issues = append(*issues, Issue{
			Path:     path,
			Code:     CodeTypeMismatch,
			Severity: SeverityError,
			Message:  fmt.Sprintf("field %q is %s but consumer expects %s", displayPath(path), producer.Kind, consumer.Kind),
		})
		return
	}

	switch consumer.Kind {
	case KindObject:
		checkObject(producer, consumer, path, issues)
	case KindArray:
		if producer.Items != nil && consumer.Items != nil {
			checkAt(producer.Items, consumer.Items, path+"[]", issues)
		}
	}
}

func checkObject(producer, consumer *Schema, path string, issues *[]Issue) {
	names := make([]string, 0, len(consumer.Properties))
	for name := range consumer.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		want := consumer.Properties[name]
		got, present := producer.Properties[name]
		childPath := joinPath(path, name)

		if !present {
			if !consumer.IsRequired(name) {
				continue
			}
			if producer.Open {
				// The producer may carry the field without declaring it.
				*issues = append(*issues, Issue{
					Path:     childPath,
					Code:     CodeUnresolvedType,
					Severity: SeverityWarning,
					Message:  fmt.Sprintf("required field %q is not declared by the producer, but the producer allows undeclared properties", childPath),
				})
				continue
			}
			*issues = append(*issues, Issue{
				Path:     childPath,
				Code:     CodeMissingField,
				Severity: SeverityError,
				Message:  fmt.Sprintf("required field %q is missing from the producer output", childPath),
			})
			continue
		}
		checkAt(got, want, childPath, issues)
	}
}

func joinPath(base, name string) string {
	if base == "" {
		return name
	}
	return base + "." + name
}

func displayPath(path string) string {
	if path == "" {
		return "(root)"
	}
	return path
}

func worst(issues []Issue) Status {
	status := StatusCompatible
	for _, issue := range issues {
		if issue.Severity == SeverityError {
			return StatusError
		}
		status = StatusWarning
	}
	return status
}
