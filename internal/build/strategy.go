package build

// Strategy selects how a function is compiled.
type Strategy string

const (
	// StrategyLocal builds with the host's own cargo toolchain.
	StrategyLocal Strategy = "local"

	// StrategyContainer builds inside the configured builder image.
	StrategyContainer Strategy = "container"
)

// SelectStrategy maps the resolved dockerless flag to a strategy.
func SelectStrategy(dockerless bool) Strategy {
	if dockerless {
		return StrategyLocal
	}
	return StrategyContainer
}
