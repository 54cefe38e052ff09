package preserve

// DefaultPasswordPrompt is shown when a password is needed and none was supplied
const DefaultPasswordPrompt = "\nPlease verify your password:\t"

// Prompter asks the user for a secret
type Prompter interface {
	Prompt(message string) (string, error)
}

// PromptFunc adapts a function to Prompter
type PromptFunc func(message string) (string, error)

func (f PromptFunc) Prompt(message string) (string, error) { return f(message) }

// Check is an extra access rule run against a freshly decoded entity
type Check[T Entity] struct {
	Message string
	Allow   func(e T) (bool, error)
}
