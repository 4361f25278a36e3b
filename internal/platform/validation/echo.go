package validation

// EchoValidator lets handlers call c.Validate on bound request structs.
type EchoValidator struct{}

func NewEchoValidator() *EchoValidator { return &EchoValidator{} }

func (EchoValidator) Validate(i interface{}) error {
	return Struct(i)
}
