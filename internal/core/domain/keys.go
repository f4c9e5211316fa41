package domain

// Function names identify the key space a canonical key belongs to.
const (
	FunctionActionExecution     = "ACTION_EXECUTION"
	FunctionSingleExtension     = "SINGLE_EXTENSION"
	FunctionSingleExtensionEval = "SINGLE_EXTENSION_EVAL"
)

// ActionKey addresses the memoized result of one action.
type ActionKey struct {
	Mnemonic string
	Digest   string
}

// FunctionName returns the key space of the key.
func (ActionKey) FunctionName() string { return FunctionActionExecution }

// String returns "<mnemonic>:<digest>".
func (k ActionKey) String() string { return k.Mnemonic + ":" + k.Digest }

// SingleExtensionKey addresses the validated evaluation of an extension.
type SingleExtensionKey struct {
	ID ModuleExtensionID
}

// FunctionName returns the key space of the key.
func (SingleExtensionKey) FunctionName() string { return FunctionSingleExtension }

// String returns the extension id.
func (k SingleExtensionKey) String() string { return k.ID.String() }

// SingleExtensionEvalKey addresses the evaluation of an extension without import validation.
// Only tooling that repairs the imports, such as tidy, should request it.
type SingleExtensionEvalKey struct {
	ID ModuleExtensionID
}

// FunctionName returns the key space of the key.
func (SingleExtensionEvalKey) FunctionName() string { return FunctionSingleExtensionEval }

// String returns the extension id.
func (k SingleExtensionEvalKey) String() string { return k.ID.String() }
