package salesbase

// AccumulatorFunc reduces the numeric values collected from one group, one
// value per member document, to a single result. Implementations must be
// pure: same values in, same result out.
type AccumulatorFunc func(values []float64) float64

// accumulators is the registry of named aggregate functions available to
// group stages. Extended via RegisterAccumulator.
var accumulators = map[string]AccumulatorFunc{
	"sum": func(values []float64) float64 {
		var total float64
		for _, v := range values {
			total += v
		}
		return total
	},
	// count counts member documents; the source field's value is ignored
	"count": func(values []float64) float64 {
		return float64(len(values))
	},
	"avg": func(values []float64) float64 {
		if len(values) == 0 {
			// Group stages never emit empty groups, but guard anyway
			return 0
		}
		var total float64
		for _, v := range values {
			total += v
		}
		return total / float64(len(values))
	},
}

// RegisterAccumulator adds a named aggregate function to the registry,
// replacing any existing function of the same name. Not safe for concurrent
// use with running pipelines; register during setup.
func RegisterAccumulator(name string, fn AccumulatorFunc) {
	accumulators[name] = fn
}

// lookupAccumulator resolves a registered accumulator by name
func lookupAccumulator(name string) (AccumulatorFunc, bool) {
	fn, ok := accumulators[name]
	return fn, ok
}
