package errors

// ErrorBuilder provides a fluent API for creating ClassifiedError values.
type ErrorBuilder struct {
	category ErrorCategory
	severity ErrorSeverity
	message  string
	cause    error
	context  ErrorContext
}

// NewError creates a builder with the given category and message.
// Severity defaults to fatal: a plugindocs run has no recoverable failures.
func NewError(category ErrorCategory, message string) *ErrorBuilder {
	return &ErrorBuilder{
		category: category,
		severity: SeverityFatal,
		message:  message,
		context:  make(ErrorContext),
	}
}

// WrapError creates a builder wrapping an existing error.
func WrapError(err error, category ErrorCategory, message string) *ErrorBuilder {
	return NewError(category, message).WithCause(err)
}

func (b *ErrorBuilder) WithCause(err error) *ErrorBuilder {
	b.cause = err
	return b
}

func (b *ErrorBuilder) WithCategory(category ErrorCategory) *ErrorBuilder {
	b.category = category
	return b
}

func (b *ErrorBuilder) WithSeverity(severity ErrorSeverity) *ErrorBuilder {
	b.severity = severity
	return b
}

// WithContext adds a context key-value pair.
func (b *ErrorBuilder) WithContext(key string, value any) *ErrorBuilder {
	b.context = b.context.Set(key, value)
	return b
}

// Warning lowers the severity to warning.
func (b *ErrorBuilder) Warning() *ErrorBuilder { return b.WithSeverity(SeverityWarning) }

// Build creates the final ClassifiedError.
func (b *ErrorBuilder) Build() *ClassifiedError {
	return &ClassifiedError{
		category: b.category,
		severity: b.severity,
		message:  b.message,
		cause:    b.cause,
		context:  b.context,
	}
}

// ConfigError creates a configuration error.
func ConfigError(message string) *ErrorBuilder { return NewError(CategoryConfig, message) }

// ValidationError creates a validation error.
func ValidationError(message string) *ErrorBuilder { return NewError(CategoryValidation, message) }

// GitError creates a repository sync error.
func GitError(message string) *ErrorBuilder { return NewError(CategoryGit, message) }

// ToolchainError creates an external command error.
func ToolchainError(message string) *ErrorBuilder { return NewError(CategoryToolchain, message) }

// ExtractError creates a symbol tree error.
func ExtractError(message string) *ErrorBuilder { return NewError(CategoryExtract, message) }

// PluginError creates a plugin record error.
func PluginError(message string) *ErrorBuilder { return NewError(CategoryPlugin, message) }

// FileSystemError creates a filesystem error.
func FileSystemError(message string) *ErrorBuilder { return NewError(CategoryFileSystem, message) }

// InternalError creates an internal error.
func InternalError(message string) *ErrorBuilder { return NewError(CategoryInternal, message) }
