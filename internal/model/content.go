package model

// Placeholder sentinels stand in for content the provider did not supply.
// They are deliberately distinctive so incomplete documentation can be
// found with a plain grep.
const (
	PlaceholderSummary     = "_summary_"
	PlaceholderDescription = "_description_"
	PlaceholderReturns     = "_returns_"
)

// ContentFields holds the prose for one function's docstring. Any field may
// be a placeholder sentinel. Fields live for one function in one run and
// are never persisted.
type ContentFields struct {
	Summary string
	// Params maps parameter name to description text.
	Params  map[string]string
	Returns string
	// Raises maps exception/error name to description text.
	Raises map[string]string
}

// PlaceholderContent builds fully-sentinel content for a record, one entry
// per declared parameter and discovered raise name.
func PlaceholderContent(record FunctionRecord) ContentFields {
	fields := ContentFields{
		Summary: PlaceholderSummary,
		Params:  make(map[string]string, len(record.Parameters)),
		Returns: PlaceholderReturns,
		Raises:  make(map[string]string, len(record.Raises)),
	}

	for _, param := range record.Parameters {
		fields.Params[param.Name] = PlaceholderDescription
	}

	for _, name := range record.Raises {
		fields.Raises[name] = PlaceholderDescription
	}

	return fields
}

// ParamText returns the description for a parameter, falling back to the
// placeholder sentinel when the provider left it out.
func (c ContentFields) ParamText(name string) string {
	if text, ok := c.Params[name]; ok && text != "" {
		return text
	}

	return PlaceholderDescription
}

// RaiseText returns the description for a raise name, falling back to the
// placeholder sentinel.
func (c ContentFields) RaiseText(name string) string {
	if text, ok := c.Raises[name]; ok && text != "" {
		return text
	}

	return PlaceholderDescription
}
