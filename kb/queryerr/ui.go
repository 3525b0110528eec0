package queryerr

// defaultMessages provides user-friendly messages for each kind
var defaultMessages = map[Kind]string{
	KindEmpty:                 "Enter at least one fact pattern",
	KindAmbiguousVariableRole: "A variable cannot be both a predicate and an entity",
	KindUnknownPredicate:      "Unknown relation - check the predicate spelling",
	KindInvalidPattern:        "Invalid pattern syntax - expected SUBJECT PREDICATE OBJECT",
}

// ToUIMessage converts the error to a message suitable for CLI display
func (e *QueryError) ToUIMessage() string {
	if e.UserMessage != "" {
		return e.UserMessage
	}
	if msg, ok := defaultMessages[e.Kind]; ok {
		return msg
	}
	return "Invalid graph query"
}

// ToLogFields converts error to structured log fields.
// This is useful for passing to logger.Errorw()
func (e *QueryError) ToLogFields() []interface{} {
	fields := []interface{}{
		"error_kind", e.Kind,
		"error_message", e.Error(),
	}
	for k, v := range e.Context {
		fields = append(fields, k, v)
	}
	return fields
}
